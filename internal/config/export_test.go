package config

var DetectFormat = detectFormat

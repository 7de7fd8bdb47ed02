package main

import (
	"os"
	"path/filepath"
)

// resolveConfigPath returns --config when given, otherwise the first default
// location that exists, otherwise the default file name.
func resolveConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if found := findConfigIn("."); found != "" {
		return found
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		if found := findConfigIn(filepath.Join(home, ".config", "rolegate")); found != "" {
			return found
		}
	}
	return defaultConfigFile
}

// findConfigIn returns the first rolegate config file in dir, or "".
func findConfigIn(dir string) string {
	for _, name := range []string{defaultConfigFile, "rolegate.yml", "rolegate.toml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// defaultInitPath is where "config init" writes when -o is not given.
func defaultInitPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "rolegate", defaultConfigFile), nil
}

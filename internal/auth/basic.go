package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Reasons a header yields no credentials. They never leave the package as
// errors; the gate folds all of them into "no credentials".
var (
	errMissingHeader     = errors.New("missing authorization header")
	errMalformedHeader   = errors.New("malformed authorization header")
	errUnsupportedScheme = errors.New("unsupported authorization scheme")
	errInvalidEncoding   = errors.New("invalid basic credentials encoding")
	errMissingUsername   = errors.New("basic credentials missing username separator")
)

// parseBasic extracts username and password from an Authorization header value.
// The payload is base64 with the standard alphabet and is decoded as ISO-8859-1,
// so every byte maps to exactly one rune.
func parseBasic(header string) (username, password string, err error) {
	if header == "" {
		return "", "", errMissingHeader
	}

	space := strings.IndexByte(header, ' ')
	if space <= 0 {
		return "", "", errMalformedHeader
	}

	if !strings.EqualFold(header[:space], SchemeBasic) {
		return "", "", errUnsupportedScheme
	}

	raw, err := base64.StdEncoding.DecodeString(header[space+1:])
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", errInvalidEncoding, err)
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", errInvalidEncoding, err)
	}

	text := string(decoded)
	colon := strings.IndexByte(text, ':')
	if colon <= 0 {
		return "", "", errMissingUsername
	}

	return text[:colon], text[colon+1:], nil
}

// loggable reports whether a parse failure is worth a debug line. Absent
// headers and foreign schemes are ordinary traffic.
func loggable(err error) bool {
	return errors.Is(err, errInvalidEncoding) || errors.Is(err, errMissingUsername)
}

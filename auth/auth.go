// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidSecretKey = errors.New("invalid secret key")

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateSecretKey creates the poll creator credential: 128 bits of
// randomness, hex-encoded (32 characters)
func GenerateSecretKey() (string, error) {
	key, err := GenerateID(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate secret key: %w", err)
	}
	return key, nil
}

// ValidateSecretKey checks the provided key against the poll's secret
// in constant time
func ValidateSecretKey(secretKey, provided string) error {
	if !hmac.Equal([]byte(provided), []byte(secretKey)) {
		return ErrInvalidSecretKey
	}
	return nil
}

// GenerateVoterToken creates a random secure token for a voter
// This is the per-browser "one vote per person" de-duplication key
func GenerateVoterToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate voter token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// FingerprintDevice derives a stable opaque key from the client network
// address and its declared identity string. Equal devices yield equal
// fingerprints; used only to key the abuse limiter.
func FingerprintDevice(ip, userAgent string) string {
	if userAgent == "" {
		userAgent = "unknown"
	}
	sum := sha256.Sum256([]byte(ip + ":" + userAgent))
	// First 16 hex chars (64 bits) - enough to key a rate window
	return hex.EncodeToString(sum[:8])
}

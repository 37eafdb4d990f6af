// Copyright (c) 2025 Daniel Kuo.
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

var (
	ErrInvalidAccountKey = errors.New("invalid account key")
	ErrInvalidAddress    = errors.New("invalid address format")
	ErrInvalidOperator   = errors.New("invalid operator key")
)

// AddressBytes is the length of an account address before hex encoding
const AddressBytes = 20

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateAddress creates a random account address: "0x" followed by 40 hex characters
func GenerateAddress() (string, error) {
	id, err := GenerateID(AddressBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate address: %w", err)
	}
	return "0x" + id, nil
}

// NormalizeAddress validates an address and returns it in lower case
func NormalizeAddress(address string) (string, error) {
	address = strings.ToLower(strings.TrimSpace(address))
	if !strings.HasPrefix(address, "0x") {
		return "", ErrInvalidAddress
	}
	raw := address[2:]
	if len(raw) != AddressBytes*2 {
		return "", ErrInvalidAddress
	}
	if _, err := hex.DecodeString(raw); err != nil {
		return "", ErrInvalidAddress
	}
	return address, nil
}

// GenerateAccountKey creates an HMAC-based key for an account address.
// Deterministic, so it can be checked without being stored.
func GenerateAccountKey(address, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(address))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAccountKey checks if the provided key belongs to the address
func ValidateAccountKey(address, key, salt string) error {
	expected := GenerateAccountKey(address, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidAccountKey
	}
	return nil
}

// ValidateOperatorKey checks a presented operator key against the configured one.
// An empty configured key rejects everything.
func ValidateOperatorKey(given, configured string) error {
	if configured == "" || !hmac.Equal([]byte(given), []byte(configured)) {
		return ErrInvalidOperator
	}
	return nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}

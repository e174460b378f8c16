package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainConfig = "gensweep/config/v1"
	DomainSchema = "gensweep/schema/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ConfigID computes the content-addressed ID of a configuration.
// Two configs have the same ID exactly when they are Equal.
func ConfigID(cfg Config) (string, error) {
	canonical, err := MarshalCanonical(cfg)
	if err != nil {
		return "", fmt.Errorf("ConfigID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainConfig, canonical), nil
}

// MustConfigID is like ConfigID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustConfigID(cfg Config) string {
	id, err := ConfigID(cfg)
	if err != nil {
		panic(err)
	}
	return id
}

// SchemaHash tags a schema source (its raw file bytes) for export runs.
func SchemaHash(source []byte) string {
	return hashWithDomain(DomainSchema, source)
}

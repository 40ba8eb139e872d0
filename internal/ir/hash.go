package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainCatalog = "relviz/catalog/v1"
	DomainResult  = "relviz/result/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CatalogHash computes the content hash of an encoded catalog snapshot.
// The snapshot must already be canonical JSON.
func CatalogHash(snapshot []byte) string {
	return hashWithDomain(DomainCatalog, snapshot)
}

// ResultHash computes a content hash over result columns and rows.
// Two results with the same columns and the same rows in the same order
// hash identically.
func ResultHash(columns []string, rows []Row) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"columns": columns,
		"rows":    rows,
	})
	if err != nil {
		return "", fmt.Errorf("ResultHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainResult, canonical), nil
}

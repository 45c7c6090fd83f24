package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode/utf8"
)

// Metadata describes one extraction run over a source PDF
type Metadata struct {
	Source     string `json:"source"`
	Timestamp  string `json:"timestamp"`  // RFC3339 format
	Hash       string `json:"hash"`       // SHA256 hex digest of the extracted text
	Pages      int    `json:"pages"`      // Number of pages read
	Characters int    `json:"characters"` // Rune count of the extracted text
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, source string, pages int) *Metadata {
	return &Metadata{
		Source:     source,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Hash:       computeHash(content),
		Pages:      pages,
		Characters: utf8.RuneCountInString(content),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

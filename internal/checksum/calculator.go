package checksum

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

// Calculator is an interface for computing document checksums.
type Calculator interface {
	// CalculateRaw computes a checksum of the raw, unmodified content.
	CalculateRaw(content []byte) string

	// CalculateNormalized computes a checksum of normalized content.
	// Normalization makes checksums independent of generation time.
	CalculateNormalized(content []byte) string
}

// SHA256 implements checksum calculation using SHA-256.
//
// SHA256 is a zero-size type and is safe for concurrent use by multiple goroutines.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// VolatileAttributes are blanked before the normalized checksum is taken.
var VolatileAttributes = []string{"CreationDateTime", "AsOfDateTime"}

var volatile = func() *regexp.Regexp {
	alts := ""
	for i, a := range VolatileAttributes {
		if i > 0 {
			alts += "|"
		}
		alts += regexp.QuoteMeta(a)
	}
	return regexp.MustCompile(`\b(` + alts + `)="[^"]*"`)
}()

// CalculateRaw computes SHA-256 of raw content.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// CalculateNormalized computes SHA-256 of normalized content.
func (c SHA256) CalculateNormalized(content []byte) string {
	hash := sha256.Sum256(c.Normalize(content))
	return hex.EncodeToString(hash[:])
}

// Normalize blanks volatile attribute values, converts CRLF line endings
// to LF and drops trailing whitespace at the end of the document.
func (c SHA256) Normalize(content []byte) []byte {
	out := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	out = volatile.ReplaceAll(out, []byte(`$1=""`))
	return bytes.TrimRight(out, " \t\n")
}

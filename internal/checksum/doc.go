// Package checksum provides document hashing with normalization support.
//
// Two checksums are computed for every generated document:
//
//   - Raw checksum: hash of the exact serialized bytes
//   - Normalized checksum: hash after blanking the volatile attributes
//     (CreationDateTime) and normalizing line endings
//
// The normalized checksum identifies the metadata content of a document
// independently of when it was generated, which is what drift detection
// ("generate --check") compares.
//
// # Example Usage
//
//	calculator := checksum.New()
//	raw := calculator.CalculateRaw(document)
//	normalized := calculator.CalculateNormalized(document)
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum

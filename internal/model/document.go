package model

// DocumentType classifies external documents.
type DocumentType string

const (
	AnnotatedCRF    DocumentType = "AnnotatedCRF"
	SupplementalDoc DocumentType = "SupplementalDoc"
	OtherDocument   DocumentType = "Other"
)

// ParseDocumentType normalises the document type column.
func ParseDocumentType(s string) (DocumentType, bool) {
	switch normalizeToken(s) {
	case "ANNOTATEDCRF", "ACRF", "CRF":
		return AnnotatedCRF, true
	case "SUPPLEMENTALDOC", "SUPPLEMENTAL", "REVIEWERSGUIDE":
		return SupplementalDoc, true
	case "", "OTHER":
		return OtherDocument, true
	}
	return "", false
}

// Document is an external file rendered as a def:leaf.
type Document struct {
	ID    string `merge:"-"`
	OID   string `merge:"-"`
	Type  DocumentType
	Href  string
	Title string
	Seq   int `merge:"-"`
}

// DocumentRef points into a document, optionally at specific pages.
// LeafOID is the leaf identifier of the referenced document.
type DocumentRef struct {
	LeafOID  string
	Pages    string
	PageType string
}

// IsZero reports whether the reference is empty.
func (r DocumentRef) IsZero() bool {
	return r.LeafOID == "" && r.Pages == ""
}

// Method is a computation or imputation algorithm.
type Method struct {
	OID               string `merge:"-"`
	Name              string
	Type              string
	Description       string
	ExpressionContext string
	ExpressionCode    string
	Documents         []DocumentRef
	Seq               int `merge:"-"`
}

// Comment is free text attached to any definition.
type Comment struct {
	OID         string `merge:"-"`
	Description string
	Language    string
	Documents   []DocumentRef
	Seq         int `merge:"-"`
}

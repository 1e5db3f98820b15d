package model

// Codelist is the header of a controlled terminology list. Its terms live
// in the graph keyed by TermKey.
type Codelist struct {
	ID            string `merge:"-"`
	OID           string `merge:"-"`
	Name          string
	Code          string
	DataType      string
	SASFormatName string
	Standard      StandardRef
	StandardOID   string
	CommentOID    string
	IsNonStandard YesNo
	Seq           int `merge:"-"`
}

// TermKey identifies one term of a codelist.
type TermKey struct {
	CodelistID      string
	SubmissionValue string
}

// Term is one permissible value of a codelist.
type Term struct {
	CodelistID      string `merge:"-"`
	SubmissionValue string `merge:"-"`
	Code            string
	Decode          string
	Order           int
	Rank            int
	ExtendedValue   YesNo
	Seq             int `merge:"-"`
}

// Dictionary is an external coding dictionary such as MedDRA.
type Dictionary struct {
	ID       string `merge:"-"`
	OID      string `merge:"-"`
	Name     string
	DataType string
	Version  string
	Ref      string
	Href     string
	Seq      int `merge:"-"`
}

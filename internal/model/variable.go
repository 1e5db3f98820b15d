package model

// Origin describes where the data of a variable or value comes from.
type Origin struct {
	Type        string
	Source      string
	Predecessor string
	Pages       DocumentRef
}

// IsZero reports whether no origin was given.
func (o Origin) IsZero() bool {
	return o.Type == "" && o.Source == "" && o.Predecessor == "" && o.Pages.IsZero()
}

// Descriptor holds the descriptive fields shared by variables and value-level items.
type Descriptor struct {
	Label             string
	DataType          string
	Length            int
	SignificantDigits int
	DisplayFormat     string
	SASFieldName      string
	Mandatory         YesNo
	Codelist          string
	Origin            Origin
	MethodOID         string
	CommentOID        string
	Evaluator         string
	HasNoData         YesNo
	IsNonStandard     YesNo
}

// VariableKey identifies a variable. Shared subject identifiers have the
// same OID in many datasets, so the dataset name is part of the key.
type VariableKey struct {
	Dataset string
	OID     string
}

// Variable is one column of a dataset.
type Variable struct {
	Dataset string `merge:"-"`
	Name    string `merge:"-"`
	OID     string `merge:"-"`
	Ordinal int
	Descriptor

	KeySequence int
	Role        string

	// ValueListOID is set when value-level metadata exists for the variable.
	ValueListOID     string
	HasValueMetadata YesNo

	RepeatN        int
	IsSupplemental YesNo

	DatasetOrdinal int  `merge:"-"`
	NoData         bool `merge:"-"`
}

// Key returns the variable's natural key.
func (v *Variable) Key() VariableKey {
	return VariableKey{Dataset: v.Dataset, OID: v.OID}
}

// Comparator is a where-clause range check operator.
type Comparator string

const (
	LT    Comparator = "LT"
	LE    Comparator = "LE"
	GT    Comparator = "GT"
	GE    Comparator = "GE"
	EQ    Comparator = "EQ"
	NE    Comparator = "NE"
	IN    Comparator = "IN"
	NOTIN Comparator = "NOTIN"
)

// ParseComparator accepts the operator names and their common symbols.
func ParseComparator(s string) (Comparator, bool) {
	switch normalizeToken(s) {
	case "LT", "<":
		return LT, true
	case "LE", "<=":
		return LE, true
	case "GT", ">":
		return GT, true
	case "GE", ">=":
		return GE, true
	case "EQ", "=", "==", "":
		return EQ, true
	case "NE", "!=", "<>":
		return NE, true
	case "IN":
		return IN, true
	case "NOTIN", "NOT IN":
		return NOTIN, true
	}
	return "", false
}

// MultiValued reports whether the comparator takes a list of check values.
func (c Comparator) MultiValued() bool {
	return c == IN || c == NOTIN
}

// Condition is one range check of a where clause. Dataset and Variable are
// empty until the value back-fill pass resolves ItemOID.
type Condition struct {
	ItemOID    string
	Dataset    string
	Variable   string
	Comparator Comparator
	Values     []string
}

// WhereClause is a conjunction of conditions selecting value-level records.
type WhereClause struct {
	OID        string `merge:"-"`
	Conditions []Condition
	CommentOID string
	Seq        int `merge:"-"`
}

// Value is one value-level metadata item, owned by a value list.
type Value struct {
	OID      string `merge:"-"`
	Dataset  string `merge:"-"`
	Variable string `merge:"-"`
	Name     string `merge:"-"`
	Ordinal  int
	Descriptor

	// WhereClauseOIDs are OR-ed; each clause AND-s its conditions.
	WhereClauseOIDs []string

	ValueListOID    string `merge:"-"`
	DatasetOrdinal  int    `merge:"-"`
	VariableOrdinal int    `merge:"-"`
	NoData          bool   `merge:"-"`
}

package model

// StandardRef names a standard by its three-part natural key, as written
// in a DATASET or CODELIST row before it is resolved to a Standard OID.
type StandardRef struct {
	Name          string
	PublishingSet string
	Version       string
}

// IsZero reports whether no standard was named.
func (r StandardRef) IsZero() bool {
	return r.Name == "" && r.Version == "" && r.PublishingSet == ""
}

// Standard is one entry of the Define 2.1 standards catalogue.
type Standard struct {
	OID           string `merge:"-"`
	Name          string `merge:"-"`
	PublishingSet string `merge:"-"`
	Version       string `merge:"-"`
	Type          string
	Status        string
	CommentOID    string
	Seq           int `merge:"-"`
}

// Key returns the natural key of the standard.
func (s *Standard) Key() StandardRef {
	return StandardRef{Name: s.Name, PublishingSet: s.PublishingSet, Version: s.Version}
}

// Dataset is one tabulation or analysis dataset.
type Dataset struct {
	Name            string `merge:"-"`
	OID             string `merge:"-"`
	Domain          string
	Ordinal         int
	Description     string
	Class           string
	SubClass        string
	Structure       string
	Purpose         string
	Repeating       YesNo
	IsReferenceData YesNo
	Href            string
	CommentOID      string
	Standard        StandardRef
	StandardOID     string
	HasNoData       YesNo
	IsNonStandard   YesNo

	// HasSupplemental is derived: Yes iff one of the dataset's variables is a supplemental qualifier.
	HasSupplemental YesNo `merge:"-"`
	// NoData is derived from HasNoData.
	NoData bool `merge:"-"`
}

// DomainOrName returns the dataset's domain, falling back to its name.
func (d *Dataset) DomainOrName() string {
	if d.Domain != "" {
		return d.Domain
	}
	return d.Name
}

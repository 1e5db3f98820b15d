// Package profile captures what differs between Define-XML versions and
// between standard models. Rendering code asks capability questions
// instead of comparing version strings.
package profile

import (
	"fmt"
	"strings"

	"github.com/vvka-141/definegen/pkg/define"
)

// Namespaces used by the rendered document.
const (
	NamespaceODM   = "http://www.cdisc.org/ns/odm/v1.3"
	NamespaceXLink = "http://www.w3.org/1999/xlink"
	NamespaceDef20 = "http://www.cdisc.org/ns/def/v2.0"
	NamespaceDef21 = "http://www.cdisc.org/ns/def/v2.1"
	NamespaceARM   = "http://www.cdisc.org/ns/arm/v1.0"
	NamespaceNCI   = "http://ncicb.nci.nih.gov/xml/odm/EVS/CDISC"
)

type generation int

const (
	defineV20 generation = iota
	defineV21
)

// Profile is the capability object for one Define-XML version.
type Profile struct {
	version string
	gen     generation
}

// Parse resolves a Define-XML version string. "2.0" and "2.0.0" select
// the 2.0 profile; any 2.1.x selects the 2.1 profile.
func Parse(version string) (Profile, error) {
	v := strings.TrimSpace(version)
	switch {
	case v == "2.0" || v == "2.0.0":
		return Profile{version: "2.0.0", gen: defineV20}, nil
	case v == "2.1":
		return Profile{version: "2.1.0", gen: defineV21}, nil
	case strings.HasPrefix(v, "2.1."):
		return Profile{version: v, gen: defineV21}, nil
	}
	return Profile{}, fmt.Errorf("unsupported Define-XML version %q: %w", version, define.ErrInvalidConfig)
}

// MustParse is Parse for constants in tests and defaults.
func MustParse(version string) Profile {
	p, err := Parse(version)
	if err != nil {
		panic(err)
	}
	return p
}

// Version returns the def:DefineVersion value.
func (p Profile) Version() string { return p.version }

func (p Profile) String() string { return "Define-XML " + p.version }

// DefNamespace returns the def: namespace URI.
func (p Profile) DefNamespace() string {
	if p.gen == defineV21 {
		return NamespaceDef21
	}
	return NamespaceDef20
}

// NestedClass reports whether dataset class is a def:Class child element
// (with optional def:SubClass) instead of a flat attribute.
func (p Profile) NestedClass() bool { return p.gen == defineV21 }

// HasStandardsCatalogue reports whether def:Standards and def:StandardOID exist.
func (p Profile) HasStandardsCatalogue() bool { return p.gen == defineV21 }

// StandardOnMetaDataVersion reports whether MetaDataVersion carries
// def:StandardName and def:StandardVersion.
func (p Profile) StandardOnMetaDataVersion() bool { return p.gen == defineV20 }

// OmitsNoData reports whether definitions without data are left out of the
// document entirely. Later versions annotate them with def:HasNoData.
func (p Profile) OmitsNoData() bool { return p.gen == defineV20 }

// AnnotatesNonStandard reports whether def:IsNonStandard is rendered.
func (p Profile) AnnotatesNonStandard() bool { return p.gen == defineV21 }

// OriginHasSource reports whether origins split into Type and Source.
func (p Profile) OriginHasSource() bool { return p.gen == defineV21 }

// HasContext reports whether the def:Context attribute exists.
func (p Profile) HasContext() bool { return p.gen == defineV21 }

// MetaDataVersionComment reports whether MetaDataVersion may carry def:CommentOID.
func (p Profile) MetaDataVersionComment() bool { return p.gen == defineV21 }

// CodelistComment reports whether CodeList may carry def:CommentOID.
func (p Profile) CodelistComment() bool { return p.gen == defineV21 }

// Origin maps an input origin to its rendered Type and Source for this
// profile. Inputs may use either vocabulary.
func (p Profile) Origin(originType, source string) (string, string, error) {
	t := canonicalOrigin(originType)
	if t == "" {
		return "", "", fmt.Errorf("unknown origin type %q: %w", originType, define.ErrMissingValue)
	}
	if p.gen == defineV21 {
		switch t {
		case "CRF":
			return "Collected", firstNonEmpty(source, "Investigator"), nil
		case "eDT":
			return "Collected", firstNonEmpty(source, "Vendor"), nil
		}
		return t, source, nil
	}
	switch t {
	case "Collected":
		if strings.EqualFold(source, "Vendor") {
			return "eDT", "", nil
		}
		return "CRF", "", nil
	case "Not Available":
		return "", "", fmt.Errorf("origin %q requires Define-XML 2.1: %w", originType, define.ErrMissingValue)
	}
	return t, "", nil
}

func canonicalOrigin(s string) string {
	switch strings.ToLower(strings.Join(strings.Fields(s), " ")) {
	case "crf":
		return "CRF"
	case "edt":
		return "eDT"
	case "derived":
		return "Derived"
	case "assigned":
		return "Assigned"
	case "protocol":
		return "Protocol"
	case "predecessor":
		return "Predecessor"
	case "collected":
		return "Collected"
	case "not available":
		return "Not Available"
	}
	return ""
}

func firstNonEmpty(v ...string) string {
	for _, s := range v {
		if s != "" {
			return s
		}
	}
	return ""
}

// Package oid builds the stable identifiers of every definition in the
// document. Builders are pure: the same natural key always produces the
// same OID, independent of the Define-XML version being rendered.
package oid

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/vvka-141/definegen/internal/profile"
	"github.com/vvka-141/definegen/pkg/define"
)

// Kind prefixes.
const (
	PrefixItemGroup   = "IG"
	PrefixItem        = "IT"
	PrefixValueList   = "VL"
	PrefixWhereClause = "WC"
	PrefixCodelist    = "CL"
	PrefixMethod      = "MT"
	PrefixComment     = "COM"
	PrefixLeaf        = "LF"
	PrefixStandard    = "STD"
	PrefixDisplay     = "RD"
	PrefixResult      = "AR"
	PrefixMDV         = "MDV"
)

// Code applies the coded-text transform: every run of characters other
// than letters, digits, '.', '_' and '-' becomes a single '_', and
// leading and trailing underscores are trimmed. Case is preserved.
func Code(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-' {
			if pending {
				b.WriteByte('_')
				pending = false
			}
			b.WriteRune(r)
			continue
		}
		pending = b.Len() > 0
	}
	return strings.Trim(b.String(), "_")
}

// Join builds "<prefix>.<part1>.<part2>..." from coded parts. Every part
// must be non-empty after coding.
func Join(prefix string, parts ...string) (string, error) {
	coded := make([]string, 0, len(parts)+1)
	coded = append(coded, prefix)
	for i, p := range parts {
		c := Code(p)
		if c == "" {
			return "", fmt.Errorf("%s identifier: key component %d (%q) is empty: %w", prefix, i+1, p, define.ErrInvalidOID)
		}
		coded = append(coded, c)
	}
	return strings.Join(coded, "."), nil
}

// Dataset returns IG.<dataset>.
func Dataset(name string) (string, error) {
	return Join(PrefixItemGroup, name)
}

// Qualifier is the dataset-level component of item, value list and where
// clause identifiers: the dataset name for subject-level standards and the
// domain (falling back to the dataset name) for parameter standards.
func Qualifier(m profile.Model, dataset, domain string) string {
	if m == profile.Parameter && strings.TrimSpace(domain) != "" {
		return domain
	}
	return dataset
}

// IsSharedSubjectItem reports whether a subject-level variable shares one
// item across all datasets.
func IsSharedSubjectItem(m profile.Model, variable string) bool {
	return m == profile.SubjectLevel && (variable == "STUDYID" || variable == "USUBJID")
}

// Item returns the identifier of a dataset variable.
func Item(m profile.Model, dataset, domain, variable string) (string, error) {
	if IsSharedSubjectItem(m, variable) {
		return Join(PrefixItem, variable)
	}
	return Join(PrefixItem, Qualifier(m, dataset, domain), variable)
}

// ValueList returns VL.<q>.<variable>.
func ValueList(m profile.Model, dataset, domain, variable string) (string, error) {
	return Join(PrefixValueList, Qualifier(m, dataset, domain), variable)
}

// ValueItem returns IT.<q>.<variable>.<value>.
func ValueItem(m profile.Model, dataset, domain, variable, value string) (string, error) {
	return Join(PrefixItem, Qualifier(m, dataset, domain), variable, value)
}

// WhereClause returns WC.<q>.<variable>.<value>, with .<group> appended
// when a condition group is named.
func WhereClause(m profile.Model, dataset, domain, variable, value, group string) (string, error) {
	parts := []string{Qualifier(m, dataset, domain), variable, value}
	if strings.TrimSpace(group) != "" {
		parts = append(parts, group)
	}
	return Join(PrefixWhereClause, parts...)
}

// AnalysisWhereClause returns WC.<display>.<result>.<dataset>.
func AnalysisWhereClause(display, result, dataset string) (string, error) {
	return Join(PrefixWhereClause, display, result, dataset)
}

// Codelist returns CL.<id>. Dictionaries share the codelist namespace.
func Codelist(id string) (string, error) {
	return Join(PrefixCodelist, id)
}

// Method returns MT.<id>.
func Method(id string) (string, error) {
	return Join(PrefixMethod, id)
}

// InlineMethod identifies a method synthesized from inline derivation text.
func InlineMethod(dataset, variable string, value ...string) (string, error) {
	return Join(PrefixMethod, append([]string{dataset, variable}, value...)...)
}

// Comment returns COM.<id>.
func Comment(id string) (string, error) {
	return Join(PrefixComment, id)
}

// InlineComment identifies a comment synthesized from inline comment text.
func InlineComment(parts ...string) (string, error) {
	return Join(PrefixComment, parts...)
}

// Leaf returns LF.<id>.
func Leaf(id string) (string, error) {
	return Join(PrefixLeaf, id)
}

// Standard returns STD.<name>[.<publishing set>].<version>.
func Standard(name, publishingSet, version string) (string, error) {
	if strings.TrimSpace(publishingSet) == "" {
		return Join(PrefixStandard, name, version)
	}
	return Join(PrefixStandard, name, publishingSet, version)
}

// Display returns RD.<display>.
func Display(name string) (string, error) {
	return Join(PrefixDisplay, name)
}

// Result returns AR.<display>.<result>.
func Result(display, id string) (string, error) {
	return Join(PrefixResult, display, id)
}

// MetaDataVersion returns the fallback MDV.<study>.
func MetaDataVersion(study string) (string, error) {
	return Join(PrefixMDV, study)
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeNonEmptyKeepsPopulatedFields(t *testing.T) {
	dst := &Variable{
		Dataset: "DM",
		Name:    "AGE",
		OID:     "IT.DM.AGE",
		Descriptor: Descriptor{
			Label:    "Age",
			DataType: "integer",
		},
	}
	src := &Variable{
		Dataset: "XX",
		Name:    "OTHER",
		Descriptor: Descriptor{
			Label:  "Age in Years",
			Length: 3,
			Origin: Origin{Type: "CRF", Pages: DocumentRef{LeafOID: "LF.acrf", Pages: "5"}},
		},
		KeySequence: 2,
	}

	MergeNonEmpty(dst, src)

	assert.Equal(t, "DM", dst.Dataset, "identity fields are never merged")
	assert.Equal(t, "AGE", dst.Name)
	assert.Equal(t, "Age", dst.Label, "populated fields are not overwritten")
	assert.Equal(t, "integer", dst.DataType)
	assert.Equal(t, 3, dst.Length)
	assert.Equal(t, 2, dst.KeySequence)
	assert.Equal(t, "CRF", dst.Origin.Type)
	assert.Equal(t, "LF.acrf", dst.Origin.Pages.LeafOID)
}

func TestMergeNonEmptySlices(t *testing.T) {
	dst := &Value{OID: "IT.LB.LBORRES.GLUC"}
	src := &Value{WhereClauseOIDs: []string{"WC.LB.LBORRES.GLUC"}}
	MergeNonEmpty(dst, src)
	assert.Equal(t, []string{"WC.LB.LBORRES.GLUC"}, dst.WhereClauseOIDs)

	src2 := &Value{WhereClauseOIDs: []string{"WC.OTHER"}}
	MergeNonEmpty(dst, src2)
	assert.Equal(t, []string{"WC.LB.LBORRES.GLUC"}, dst.WhereClauseOIDs)
}

func TestMergeNonEmptyPanicsOnNonStruct(t *testing.T) {
	a, b := "x", "y"
	assert.Panics(t, func() { MergeNonEmpty(&a, &b) })
}

func TestParseYesNo(t *testing.T) {
	tests := []struct {
		in   string
		want YesNo
		ok   bool
	}{
		{"", Unset, true},
		{"Yes", Yes, true},
		{" y ", Yes, true},
		{"TRUE", Yes, true},
		{"no", No, true},
		{"0", No, true},
		{"maybe", Unset, false},
	}
	for _, tt := range tests {
		got, ok := ParseYesNo(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestParseComparator(t *testing.T) {
	for in, want := range map[string]Comparator{"EQ": EQ, "": EQ, "<=": LE, "not in": NOTIN, "in": IN, "<>": NE} {
		got, ok := ParseComparator(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseComparator("LIKE")
	assert.False(t, ok)
	assert.True(t, NOTIN.MultiValued())
	assert.False(t, EQ.MultiValued())
}

func TestLookupStudyProperty(t *testing.T) {
	p, ok := LookupStudyProperty("defineversion")
	require.True(t, ok)
	var s Study
	*p.Field(&s) = "2.1.0"
	assert.Equal(t, "2.1.0", s.DefineVersion)

	_, ok = LookupStudyProperty("Sponsor")
	assert.False(t, ok)
}

package supp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/definegen/internal/graph"
	"github.com/vvka-141/definegen/internal/loader"
	"github.com/vvka-141/definegen/internal/model"
	"github.com/vvka-141/definegen/internal/testing/fixtures"
	"github.com/vvka-141/definegen/pkg/define"
)

func load(t *testing.T, b *fixtures.StudyBuilder) *graph.Graph {
	t.Helper()
	g, err := loader.Load(context.Background(), b.Reader(), loader.Options{AnalysisResults: true})
	require.NoError(t, err)
	g.PropagateOrdinals()
	require.NoError(t, g.BackfillValues())
	return g
}

func derive(t *testing.T, g *graph.Graph) {
	t.Helper()
	require.NoError(t, ExpandRepeats(g))
	require.NoError(t, CanonicalizeExplicit(g))
	g.PropagateOrdinals()
	g.DeriveFlags()
}

func TestRepeatName(t *testing.T) {
	tests := []struct {
		base string
		i    int
		want string
	}{
		{"RACE", 1, "RACE1"},
		{"RACE", 12, "RACE12"},
		{"ETHNICIT", 3, "ETHNICI3"},
		{"ETHNICITY", 9, "ETHNICI9"},
		{"ETHNICI", 4, "ETHNICI4"},
		{"ETHNICI", 12, "ETHNI12"},
		{"ETHNICIT", 12, "ETHNICIT12"},
	}
	for _, tt := range tests {
		if got := RepeatName(tt.base, tt.i); got != tt.want {
			t.Errorf("RepeatName(%q, %d) = %q, want %q", tt.base, tt.i, got, tt.want)
		}
	}
}

func TestRepeatLabel(t *testing.T) {
	long := strings.Repeat("x", 40)
	assert.Equal(t, strings.Repeat("x", 38)+"2", RepeatLabel(long, 2))
	assert.Equal(t, strings.Repeat("y", 36)+"11", RepeatLabel(strings.Repeat("y", 38), 11))
	assert.Equal(t, "Race 3", RepeatLabel("Race ", 3))
}

func TestRepeatLength(t *testing.T) {
	assert.Equal(t, 20, RepeatLength(220, 1))
	assert.Equal(t, 1, RepeatLength(220, 2))
	assert.Equal(t, 1, RepeatLength(200, 1))
	assert.Equal(t, 0, RepeatLength(0, 1))
}

func TestExpandRepeatsAddsSupplementalVariables(t *testing.T) {
	g := load(t, fixtures.SDTM())
	require.NoError(t, ExpandRepeats(g))

	race1 := g.Variable("DM", "RACE1")
	race2 := g.Variable("DM", "RACE2")
	require.NotNil(t, race1)
	require.NotNil(t, race2)
	assert.Equal(t, "IT.DM.RACE1", race1.OID)
	assert.Equal(t, 20, race1.Length)
	assert.Equal(t, 1, race2.Length)
	assert.True(t, race1.IsSupplemental.IsYes())
	assert.Equal(t, "RACE2", race2.Label)
	assert.Equal(t, "LF.acrf", race2.Origin.Pages.LeafOID)

	var names []string
	for _, v := range g.VariablesOf("DM") {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"STUDYID", "USUBJID", "AGE", "SEX", "RACE", "RACE1", "RACE2", "ARMNRS", "RACEOTH"}, names)

	ordinals := map[int]bool{}
	for i, v := range g.VariablesOf("DM") {
		assert.Equal(t, i+1, v.Ordinal, v.Name)
		ordinals[v.Ordinal] = true
	}
	assert.Len(t, ordinals, 9)
	assert.Zero(t, g.Variable("DM", "RACE").RepeatN)

	require.NoError(t, ExpandRepeats(g), "second expansion is a no-op")
	assert.Len(t, g.VariablesOf("DM"), 9)
}

func TestExpandRepeatsParameterModelAddsOrdinaryVariables(t *testing.T) {
	g := load(t, fixtures.ADaM())
	require.NoError(t, ExpandRepeats(g))

	race1 := g.Variable("ADSL", "RACE1")
	require.NotNil(t, race1)
	assert.Equal(t, "IT.ADSL.RACE1", race1.OID)
	assert.Equal(t, model.No, race1.IsSupplemental)
	assert.Equal(t, 4, race1.Ordinal)
	assert.Equal(t, 5, g.Variable("ADSL", "SAFFL").Ordinal)
}

func TestExpandRepeatsKeepsTrialSummaryValuesInline(t *testing.T) {
	b := fixtures.NewStudyBuilder("S", "SDTMIG").
		Dataset("TS", "Trial Summary").
		Variable("TS", "TSPARMCD", "text", "Order", "1").
		Variable("TS", "TSVAL", "text", "Order", "2", "Length", "400", "Repeat N", "1").
		Variable("TS", "TSVALNF", "text", "Order", "3")
	g := load(t, b)
	require.NoError(t, ExpandRepeats(g))

	v := g.Variable("TS", "TSVAL1")
	require.NotNil(t, v)
	assert.Equal(t, model.No, v.IsSupplemental)
	assert.Equal(t, 200, v.Length)
	assert.Equal(t, 3, v.Ordinal)
	assert.Equal(t, 4, g.Variable("TS", "TSVALNF").Ordinal)
}

func TestExpandRepeatsIntoExplicitSupplementalDataset(t *testing.T) {
	g := load(t, fixtures.SDTMExplicit())
	require.NoError(t, ExpandRepeats(g))

	assert.Nil(t, g.Variable("DM", "RACE1"))
	v := g.Values["IT.SUPPDM.QVAL.RACE1"]
	require.NotNil(t, v)
	assert.Equal(t, "VL.SUPPDM.QVAL", v.ValueListOID)
	assert.Equal(t, 2, v.Ordinal)
	assert.Equal(t, 20, v.Length)

	wc := g.WhereClauses["WC.SUPPDM.QVAL.RACE1"]
	require.NotNil(t, wc)
	assert.Equal(t, []model.Condition{{
		ItemOID: "IT.SUPPDM.QNAM", Dataset: "SUPPDM", Variable: "QNAM", Comparator: model.EQ, Values: []string{"RACE1"},
	}}, wc.Conditions)
}

func TestCanonicalizeExplicit(t *testing.T) {
	g := load(t, fixtures.SDTMExplicit())
	derive(t, g)

	assert.NotContains(t, g.Datasets, "SUPPDM")
	assert.NotContains(t, g.Datasets, "SUPPAE")
	for _, v := range g.Values {
		assert.False(t, strings.HasPrefix(v.Dataset, "SUPP"), v.OID)
	}
	for oid := range g.WhereClauses {
		assert.False(t, strings.HasPrefix(oid, "WC.SUPP"), oid)
	}

	raceoth := g.Variable("DM", "RACEOTH")
	require.NotNil(t, raceoth)
	assert.Equal(t, "IT.DM.RACEOTH", raceoth.OID)
	assert.True(t, raceoth.IsSupplemental.IsYes())
	assert.Equal(t, 60, raceoth.Length)
	assert.Equal(t, "Race, Other", raceoth.Label)
	assert.Equal(t, 7, raceoth.Ordinal)
	assert.Equal(t, "CRF", raceoth.Origin.Type)

	trtem := g.Variable("AE", "AETRTEM")
	require.NotNil(t, trtem)
	assert.Equal(t, "NY", trtem.Codelist)
	assert.Equal(t, "SPONSOR", trtem.Evaluator)
	assert.NotEmpty(t, trtem.MethodOID)

	assert.True(t, g.Datasets["DM"].HasSupplemental.IsYes())
	assert.True(t, g.Datasets["AE"].HasSupplemental.IsYes())
	assert.Equal(t, model.No, g.Datasets["VS"].HasSupplemental)
}

func TestCanonicalizeRequiresQualifierName(t *testing.T) {
	b := fixtures.NewStudyBuilder("S", "SDTMIG").
		Dataset("DM", "Demographics").
		Variable("DM", "USUBJID", "text").
		Dataset("SUPPDM", "Supplemental Qualifiers for DM").
		Variable("SUPPDM", "QNAM", "text").
		Variable("SUPPDM", "QLABEL", "text").
		Variable("SUPPDM", "QVAL", "text").
		Value("SUPPDM", "QVAL", "RACEOTH", "QLABEL", "Race, Other", "text")
	g := load(t, b)

	err := CanonicalizeExplicit(g)
	require.Error(t, err)
	assert.True(t, errors.Is(err, define.ErrMissingValue))
	assert.Contains(t, g.Datasets, "SUPPDM")
}

func TestSynthesize(t *testing.T) {
	g := load(t, fixtures.SDTM())
	derive(t, g)
	before := len(g.Variables)

	r, err := Synthesize(g)
	require.NoError(t, err)
	assert.Len(t, g.Variables, before, "synthesis must not mutate the graph")

	require.Len(t, r.Datasets, 2)
	suppdm := r.Datasets[0]
	assert.Equal(t, "SUPPDM", suppdm.Name)
	assert.Equal(t, "IG.SUPPDM", suppdm.OID)
	assert.Equal(t, "RELATIONSHIP", suppdm.Class)
	assert.Equal(t, "suppdm.xpt", suppdm.Href)
	assert.Equal(t, "DM", r.Parent["SUPPDM"])

	cols := map[string]*model.Variable{}
	var order []string
	for _, v := range r.VariablesOf("SUPPDM") {
		cols[v.Name] = v
		order = append(order, v.Name)
	}
	assert.Equal(t, Columns, order)
	assert.Equal(t, "IT.STUDYID", cols[ColStudyID].OID)
	assert.Equal(t, "IT.USUBJID", cols[ColUSubjID].OID)
	assert.Equal(t, 12, cols[ColUSubjID].Length)
	assert.Equal(t, "MT.DM.USUBJID", cols[ColUSubjID].MethodOID)
	assert.Equal(t, "IT.SUPPDM.QNAM", cols[ColQNam].OID)
	assert.Equal(t, 1, cols[ColIDVarVal].Length)
	assert.Equal(t, 7, cols[ColQNam].Length)
	assert.Equal(t, 11, cols[ColQLabel].Length)
	assert.Equal(t, 60, cols[ColQVal].Length)
	assert.Equal(t, len("Collected"), cols[ColQOrig].Length)
	assert.Equal(t, 1, cols[ColQEval].Length)
	assert.Equal(t, "VL.SUPPDM.QVAL", cols[ColQVal].ValueListOID)
	for i, name := range []string{ColStudyID, ColRDomain, ColUSubjID, ColIDVar, ColIDVarVal, ColQNam} {
		assert.Equal(t, i+1, cols[name].KeySequence, name)
	}

	values := r.ValuesOf("VL.SUPPDM.QVAL")
	require.Len(t, values, 3)
	assert.Equal(t, "IT.SUPPDM.QVAL.RACE1", values[0].OID)
	assert.Equal(t, []string{"WC.SUPPDM.QVAL.RACE1"}, values[0].WhereClauseOIDs)

	suppae := map[string]*model.Variable{}
	for _, v := range r.VariablesOf("SUPPAE") {
		suppae[v.Name] = v
	}
	assert.Equal(t, 5, suppae[ColIDVar].Length)
	assert.Equal(t, 4, suppae[ColIDVarVal].Length)
	assert.Equal(t, 7, suppae[ColQEval].Length)
	assert.Equal(t, "text", suppae[ColQVal].DataType)
}

func TestSynthesizeWidensMixedTypes(t *testing.T) {
	b := fixtures.NewStudyBuilder("S", "SDTMIG").
		Dataset("DM", "Demographics").
		Variable("DM", "USUBJID", "text").
		Variable("DM", "HEIGHTX", "integer", "Is SUPP", "Yes", "Length", "3").
		Variable("DM", "WEIGHTX", "float", "Is SUPP", "Yes", "Length", "5")
	g := load(t, b)
	derive(t, g)

	r, err := Synthesize(g)
	require.NoError(t, err)
	for _, v := range r.VariablesOf("SUPPDM") {
		if v.Name == ColQVal {
			assert.Equal(t, "text", v.DataType)
			assert.Equal(t, 5, v.Length)
		}
	}
}

func TestSynthesizeSkipsParameterModel(t *testing.T) {
	g := load(t, fixtures.ADaM())
	derive(t, g)
	r, err := Synthesize(g)
	require.NoError(t, err)
	assert.Empty(t, r.Datasets)
}

type qualifier struct {
	length int
	origin string
	label  string
}

func qualifiers(t *testing.T, b *fixtures.StudyBuilder) map[string]map[string]qualifier {
	t.Helper()
	g := load(t, b)
	derive(t, g)
	r, err := Synthesize(g)
	require.NoError(t, err)

	out := map[string]map[string]qualifier{}
	for _, d := range r.Datasets {
		out[d.Name] = map[string]qualifier{}
		for _, q := range r.Qualifiers[d.Name] {
			out[d.Name][q.Name] = qualifier{length: q.Length, origin: q.Origin.Type, label: q.Label}
		}
		for _, c := range r.VariablesOf(d.Name) {
			out[d.Name]["column "+c.Name] = qualifier{length: c.Length}
		}
	}
	return out
}

func TestExplicitAndCanonicalInputsAgree(t *testing.T) {
	canonical := qualifiers(t, fixtures.SDTM())
	explicit := qualifiers(t, fixtures.SDTMExplicit())

	assert.Equal(t, canonical, explicit)
	assert.Contains(t, canonical["SUPPDM"], "RACEOTH")
	assert.Contains(t, canonical["SUPPDM"], "RACE2")
	assert.Contains(t, canonical["SUPPAE"], "AETRTEM")
}

func TestSynthesizeRejectsDeclaredAndDerived(t *testing.T) {
	b := fixtures.NewStudyBuilder("S", "SDTMIG").
		Dataset("DM", "Demographics").
		Variable("DM", "RACEOTH", "text", "Is SUPP", "Yes").
		Dataset("SUPPDM", "Supplemental Qualifiers for DM").
		Variable("SUPPDM", "QNAM", "text")
	g := load(t, b)
	g.DeriveFlags()
	_, err := Synthesize(g)
	assert.True(t, errors.Is(err, define.ErrInvalidConfig))
}

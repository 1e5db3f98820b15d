package loader

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/definegen/internal/model"
	"github.com/vvka-141/definegen/internal/profile"
	"github.com/vvka-141/definegen/internal/source"
	"github.com/vvka-141/definegen/internal/testing/fixtures"
	"github.com/vvka-141/definegen/pkg/define"
)

func TestLoadSDTM(t *testing.T) {
	g, err := Load(context.Background(), fixtures.SDTM().Reader(), Options{})
	require.NoError(t, err)

	assert.Equal(t, "2.1.0", g.Profile.Version())
	assert.Equal(t, profile.SubjectLevel, g.Model)
	assert.Equal(t, "DEFINE.CDISC01", g.Study.FileOID)
	assert.Equal(t, "MDV.CDISC01", g.Study.MetaDataVersionOID)
	assert.Equal(t, "en", g.Study.Language)

	require.Len(t, g.Datasets, 3)
	assert.Equal(t, "IG.DM", g.Datasets["DM"].OID)
	assert.Equal(t, "STD.SDTMIG.3.2", g.Datasets["DM"].StandardOID)

	usubjid := g.Variable("AE", "USUBJID")
	require.NotNil(t, usubjid)
	assert.Equal(t, "IT.USUBJID", usubjid.OID)
	assert.Equal(t, "IT.AE.AETERM", g.Variable("AE", "AETERM").OID)

	race := g.Variable("DM", "RACE")
	assert.Equal(t, 2, race.RepeatN)
	assert.Equal(t, 220, race.Length)
	assert.Equal(t, model.DocumentRef{LeafOID: "LF.acrf", Pages: "3", PageType: "PhysicalRef"}, race.Origin.Pages)
	assert.True(t, g.Variable("DM", "RACEOTH").IsSupplemental.IsYes())

	assert.Equal(t, "CL.SEX", g.Codelists["SEX"].OID)
	assert.Equal(t, "STD.CDISC_NCI.SDTM.2023-12-15", g.Codelists["SEX"].StandardOID)
	assert.Len(t, g.TermsOf("SEX"), 2)
	assert.Equal(t, "CL.MEDDRA", g.Dictionaries["MEDDRA"].OID)
}

func TestLoadInlineCommentAndDerivation(t *testing.T) {
	g, err := Load(context.Background(), fixtures.SDTM().Reader(), Options{})
	require.NoError(t, err)

	usubjid := g.Variable("DM", "USUBJID")
	assert.Equal(t, "MT.DM.USUBJID", usubjid.MethodOID)
	m := g.Methods["MT.DM.USUBJID"]
	require.NotNil(t, m)
	assert.Equal(t, "Computation", m.Type)
	assert.Equal(t, "STUDYID || SUBJID", m.Description)

	temp := g.Values["IT.VS.VSORRES.TEMP"]
	require.NotNil(t, temp)
	assert.Equal(t, "COM.VS.VSORRES.TEMP", temp.CommentOID)
	assert.Equal(t, "Collected in degrees C", g.Comments["COM.VS.VSORRES.TEMP"].Description)
}

func TestLoadValuesAndWhereClauses(t *testing.T) {
	g, err := Load(context.Background(), fixtures.SDTM().Reader(), Options{})
	require.NoError(t, err)

	v := g.Values["IT.VS.VSORRES.SYSBP"]
	require.NotNil(t, v)
	assert.Equal(t, "VL.VS.VSORRES", v.ValueListOID)
	assert.Equal(t, []string{"WC.VS.VSORRES.SYSBP"}, v.WhereClauseOIDs)
	assert.Equal(t, 1, v.Ordinal)
	assert.Equal(t, 3, g.Values["IT.VS.VSORRES.TEMP"].Ordinal)

	wc := g.WhereClauses["WC.VS.VSORRES.SYSBP"]
	require.Len(t, wc.Conditions, 1)
	assert.Equal(t, model.Condition{
		ItemOID: "IT.VS.VSTESTCD", Dataset: "VS", Variable: "VSTESTCD", Comparator: model.EQ, Values: []string{"SYSBP"},
	}, wc.Conditions[0])
}

func TestLoadWhereClauseGroups(t *testing.T) {
	b := fixtures.NewStudyBuilder("S", "SDTMIG").
		Dataset("LB", "Laboratory").
		Variable("LB", "LBTESTCD", "text").
		Variable("LB", "LBSPEC", "text").
		Variable("LB", "LBORRES", "text").
		Value("LB", "LBORRES", "GLUC", "LBTESTCD", "GLUC", "float", "WhereClause Group ID", "1").
		Value("LB", "LBORRES", "GLUC", "LBSPEC", "BLOOD|SERUM", "float", "WhereClause Group ID", "1", "WhereClause Operator", "IN").
		Value("LB", "LBORRES", "GLUC", "LBTESTCD", "GLUCU", "float", "WhereClause Group ID", "2")

	g, err := Load(context.Background(), b.Reader(), Options{})
	require.NoError(t, err)

	v := g.Values["IT.LB.LBORRES.GLUC"]
	assert.Equal(t, []string{"WC.LB.LBORRES.GLUC.1", "WC.LB.LBORRES.GLUC.2"}, v.WhereClauseOIDs)
	wc := g.WhereClauses["WC.LB.LBORRES.GLUC.1"]
	require.Len(t, wc.Conditions, 2)
	assert.Equal(t, model.IN, wc.Conditions[1].Comparator)
	assert.Equal(t, []string{"BLOOD", "SERUM"}, wc.Conditions[1].Values)
}

func TestLoadADaMAnalysisResults(t *testing.T) {
	g, err := Load(context.Background(), fixtures.ADaM().Reader(), Options{AnalysisResults: true})
	require.NoError(t, err)

	assert.Equal(t, profile.Parameter, g.Model)
	assert.Equal(t, "IT.ADSL.USUBJID", g.Variable("ADSL", "USUBJID").OID)

	r := g.Results[model.ResultKey{Display: "T14.1", ID: "R1"}]
	require.NotNil(t, r)
	assert.Equal(t, "AR.T14.1.R1", r.OID)
	assert.Equal(t, "IT.ADVS.PARAMCD", r.ParameterOID)

	a := g.AnalysisDatasetsOf("T14.1", "R1")
	require.Len(t, a, 1)
	assert.Equal(t, []string{"IT.ADVS.CHG", "IT.ADVS.AVAL"}, a[0].VariableOIDs)
	assert.Equal(t, "WC.T14.1.R1.ADVS", a[0].WhereClauseOID)
}

func TestLoadSkipsAnalysisResultsWhenDisabled(t *testing.T) {
	g, err := Load(context.Background(), fixtures.ADaM().Reader(), Options{})
	require.NoError(t, err)
	assert.Empty(t, g.Displays)
	assert.Empty(t, g.Results)
}

func TestLoadOverrides(t *testing.T) {
	g, err := Load(context.Background(), fixtures.SDTM().Reader(), Options{
		DefineVersion:  "2.0",
		StudyOverrides: map[string]string{"StudyDescription": "Overridden"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", g.Profile.Version())
	assert.Equal(t, "Overridden", g.Study.StudyDescription)

	_, err = Load(context.Background(), fixtures.SDTM().Reader(), Options{StudyOverrides: map[string]string{"Nope": "x"}})
	assert.True(t, errors.Is(err, define.ErrInvalidConfig))
}

func TestLoadRejectsAliasedOverrides(t *testing.T) {
	for i := 0; i < 5; i++ {
		_, err := Load(context.Background(), fixtures.SDTM().Reader(), Options{
			StudyOverrides: map[string]string{"studyname": "A", "StudyName": "B"},
		})
		require.ErrorIs(t, err, define.ErrInvalidConfig)
		assert.ErrorContains(t, err, `StudyName is overridden as both "StudyName" and "studyname"`)
	}
}

func TestLoadGeneratesMissingOIDs(t *testing.T) {
	tables := map[string][]source.Record{
		source.TableStudy:    {{"Property": "StudyName", "Value": "S"}, {"Property": "StandardName", "Value": "SDTMIG"}},
		source.TableDataset:  {{"Dataset Name": "DM", "Description": "Demographics"}},
		source.TableVariable: {{"Dataset Name": "DM", "Variable Name": "USUBJID", "Data Type": "text"}},
	}
	g, err := Load(context.Background(), source.NewMemory(tables), Options{})
	require.NoError(t, err)
	assert.Len(t, g.Study.FileOID, 36)
	assert.NotEqual(t, g.Study.FileOID, g.Study.StudyOID)
	assert.Equal(t, 1, g.Datasets["DM"].Ordinal)
}

func TestLoadMissingRequiredTable(t *testing.T) {
	tables := fixtures.SDTM().Build()
	delete(tables, source.TableVariable)
	_, err := Load(context.Background(), source.NewMemory(tables), Options{})
	assert.True(t, errors.Is(err, define.ErrMissingTable))
}

func TestLoadReportsEveryRowError(t *testing.T) {
	b := fixtures.NewStudyBuilder("S", "SDTMIG").
		Dataset("DM", "Demographics").
		Variable("DM", "AGE", "integer", "Length", "three").
		Variable("XX", "FOO", "text").
		Row(source.TableVariable, "Dataset Name", "DM", "Variable Name", "SEX")

	_, err := Load(context.Background(), b.Reader(), Options{})
	require.Error(t, err)

	var fe *define.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, err.Error(), `VARIABLE row 1: malformed "Length" (three) [dataset=DM variable=AGE]`)
	assert.Contains(t, err.Error(), `VARIABLE row 2: unresolved "Dataset Name" (XX)`)
	assert.Contains(t, err.Error(), `VARIABLE row 3: missing "Data Type"`)
	assert.True(t, errors.Is(err, define.ErrMissingValue))
	assert.True(t, errors.Is(err, define.ErrUnresolvedReference))
}

func TestLoadRejectsSupplementalInAnalysisDataset(t *testing.T) {
	b := fixtures.ADaM().
		Variable("ADSL", "EXTRA", "text", "Order", "99", "Length", "10", "Origin", "Derived", "Is SUPP", "Yes")

	_, err := Load(context.Background(), b.Reader(), Options{AnalysisResults: true})
	require.Error(t, err)
	assert.ErrorContains(t, err, `invalid "Is SUPP" (Yes) [dataset=ADSL variable=EXTRA]`)
	assert.True(t, errors.Is(err, define.ErrMissingValue))

	_, err = Load(context.Background(), fixtures.SDTM().Reader(), Options{})
	assert.NoError(t, err)
}

func TestLoadRejectsUnknownStandard(t *testing.T) {
	b := fixtures.NewStudyBuilder("S", "SDTMIG").
		Dataset("DM", "Demographics", "Standard Name", "SDTMIG", "Standard Version", "9.9").
		Variable("DM", "USUBJID", "text")
	_, err := Load(context.Background(), b.Reader(), Options{})
	assert.True(t, errors.Is(err, define.ErrUnresolvedReference))
}

func TestLoadRejectsEmptyIdentifier(t *testing.T) {
	b := fixtures.NewStudyBuilder("S", "SDTMIG").
		Dataset("DM", "Demographics").
		Variable("DM", "!!", "text")
	_, err := Load(context.Background(), b.Reader(), Options{})
	assert.True(t, errors.Is(err, define.ErrInvalidOID))
}

func TestLoadUnknownStudyProperty(t *testing.T) {
	b := fixtures.NewStudyBuilder("S", "SDTMIG").Property("Colour", "blue").
		Dataset("DM", "Demographics").Variable("DM", "USUBJID", "text")
	_, err := Load(context.Background(), b.Reader(), Options{})
	assert.ErrorContains(t, err, `invalid "Property" (Colour)`)
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want Outcome
	}{
		{"12", 12, Present},
		{" 8.0 ", 8, Present},
		{"", 0, Missing},
		{"x", 0, Malformed},
		{"1.5", 0, Malformed},
	}
	for _, tt := range tests {
		n, out := ParseInt(source.Record{"c": tt.in}, "c")
		if n != tt.n || out != tt.want {
			t.Errorf("ParseInt(%q) = %d, %v; want %d, %v", tt.in, n, out, tt.n, tt.want)
		}
	}
}

// Package fixtures builds in-memory metadata tables for tests.
//
// Example usage:
//
//	tables := fixtures.NewStudyBuilder("CDISC01", "SDTMIG").
//	    Dataset("DM", "Demographics", "Class", "SPECIAL PURPOSE").
//	    Variable("DM", "STUDYID", "text", "Length", "12").
//	    Build()
package fixtures

import (
	"fmt"

	"github.com/vvka-141/definegen/internal/source"
)

// StudyBuilder provides a fluent API for assembling the logical tables of
// one study. Column values are given as alternating name, value pairs.
type StudyBuilder struct {
	tables map[string][]source.Record
}

// NewStudyBuilder starts a study with fixed file and study OIDs so that
// generated documents are reproducible.
func NewStudyBuilder(studyName, standardName string) *StudyBuilder {
	b := &StudyBuilder{tables: make(map[string][]source.Record)}
	return b.
		Property("StudyName", studyName).
		Property("StandardName", standardName).
		Property("FileOID", "DEFINE."+studyName).
		Property("StudyOID", "STUDY."+studyName).
		Property("CreationDateTime", "2024-01-01T00:00:00")
}

// Property adds a STUDY property row.
func (b *StudyBuilder) Property(name, value string) *StudyBuilder {
	return b.Row(source.TableStudy, "Property", name, "Value", value)
}

// Row appends a record built from column/value pairs to a table.
func (b *StudyBuilder) Row(table string, kv ...string) *StudyBuilder {
	if len(kv)%2 != 0 {
		panic(fmt.Sprintf("fixtures: odd number of column/value arguments for %s", table))
	}
	rec := make(source.Record, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		rec[kv[i]] = kv[i+1]
	}
	b.tables[table] = append(b.tables[table], rec)
	return b
}

// Dataset adds a DATASET row.
func (b *StudyBuilder) Dataset(name, description string, kv ...string) *StudyBuilder {
	return b.Row(source.TableDataset, append([]string{"Dataset Name", name, "Domain", name, "Description", description}, kv...)...)
}

// Variable adds a VARIABLE row.
func (b *StudyBuilder) Variable(dataset, name, dataType string, kv ...string) *StudyBuilder {
	return b.Row(source.TableVariable, append([]string{
		"Dataset Name", dataset, "Variable Name", name, "Label", name, "Data Type", dataType,
	}, kv...)...)
}

// Value adds a VALUE row selected by whereVariable EQ whereValue.
func (b *StudyBuilder) Value(dataset, variable, value, whereVariable, whereValue, dataType string, kv ...string) *StudyBuilder {
	return b.Row(source.TableValue, append([]string{
		"Dataset Name", dataset, "Variable Name", variable, "Value Name", value,
		"Label", value, "Data Type", dataType,
		"WhereClause Variable", whereVariable, "WhereClause Operator", "EQ", "WhereClause Value", whereValue,
	}, kv...)...)
}

// Term adds a CODELIST row.
func (b *StudyBuilder) Term(codelist, label, value, decode string, kv ...string) *StudyBuilder {
	return b.Row(source.TableCodelist, append([]string{
		"Codelist ID", codelist, "Codelist Label", label, "Data Type", "text",
		"Submission Value", value, "Decode", decode,
	}, kv...)...)
}

// Empty declares a table with no rows.
func (b *StudyBuilder) Empty(table string) *StudyBuilder {
	if _, ok := b.tables[table]; !ok {
		b.tables[table] = nil
	}
	return b
}

// Build returns the tables.
func (b *StudyBuilder) Build() map[string][]source.Record {
	return b.tables
}

// Reader returns an in-memory reader over the tables.
func (b *StudyBuilder) Reader() *source.Memory {
	return source.NewMemory(b.tables)
}

// SDTM is a small tabulation study: DM with a repeating RACE column and a
// supplemental qualifier, AE, and VS with value-level metadata.
func SDTM() *StudyBuilder {
	return NewStudyBuilder("CDISC01", "SDTMIG").
		Property("StandardType", "SDTM").
		Property("StandardVersion", "3.2").
		Row(source.TableStandard, "Name", "SDTMIG", "Type", "IG", "Version", "3.2", "Status", "Final").
		Row(source.TableStandard, "Name", "CDISC/NCI", "Type", "CT", "Publishing Set", "SDTM", "Version", "2023-12-15", "Status", "Final").
		Row(source.TableDocument, "ID", "acrf", "Type", "AnnotatedCRF", "Href", "acrf.pdf", "Title", "Annotated CRF").
		Row(source.TableDocument, "ID", "csdrg", "Type", "SupplementalDoc", "Href", "csdrg.pdf", "Title", "Reviewers Guide").
		Row(source.TableComment, "Comment ID", "DM.ARMNRS", "Description", "Reason arm is null", "Document ID", "csdrg", "Pages", "4").
		Row(source.TableComment, "Comment ID", "UNUSED", "Description", "Never referenced").
		Row(source.TableMethod, "Method ID", "AGE", "Name", "Age derivation", "Type", "Computation", "Description", "Years between BRTHDTC and RFSTDTC").
		Row(source.TableMethod, "Method ID", "UNUSED", "Name", "Unused", "Type", "Computation", "Description", "Never referenced").
		Term("SEX", "Sex", "F", "Female", "Order", "1", "Codelist Code", "C66731", "Code", "C16576",
			"Standard Name", "CDISC/NCI", "Standard Publishing Set", "SDTM", "Standard Version", "2023-12-15").
		Term("SEX", "Sex", "M", "Male", "Order", "2", "Code", "C20197").
		Term("NY", "No Yes Response", "Y", "").
		Term("NY", "No Yes Response", "N", "").
		Term("UNUSED", "Unused", "X", "").
		Row(source.TableDictionary, "Dictionary ID", "MEDDRA", "Name", "MedDRA", "Version", "26.0").
		Dataset("DM", "Demographics", "Order", "1", "Class", "SPECIAL PURPOSE", "Structure", "One record per subject",
			"Standard Name", "SDTMIG", "Standard Version", "3.2").
		Dataset("AE", "Adverse Events", "Order", "2", "Class", "EVENTS", "Structure", "One record per event per subject",
			"Standard Name", "SDTMIG", "Standard Version", "3.2").
		Dataset("VS", "Vital Signs", "Order", "3", "Class", "FINDINGS", "Structure", "One record per measurement",
			"Standard Name", "SDTMIG", "Standard Version", "3.2").
		Variable("DM", "STUDYID", "text", "Order", "1", "Length", "7", "Mandatory", "Yes", "Key Sequence", "1", "Origin", "Protocol").
		Variable("DM", "USUBJID", "text", "Order", "2", "Length", "12", "Mandatory", "Yes", "Key Sequence", "2", "Origin", "Derived",
			"Derivation", "STUDYID || SUBJID").
		Variable("DM", "AGE", "integer", "Order", "3", "Length", "3", "Origin", "Derived", "Method ID", "AGE").
		Variable("DM", "SEX", "text", "Order", "4", "Length", "1", "Codelist", "SEX", "Origin", "CRF",
			"Origin Document ID", "acrf", "Origin Pages", "3-4").
		Variable("DM", "RACE", "text", "Order", "5", "Length", "220", "Origin", "CRF", "Repeat N", "2",
			"Origin Document ID", "acrf", "Origin Pages", "3").
		Variable("DM", "ARMNRS", "text", "Order", "6", "Length", "40", "Origin", "Assigned", "Comment ID", "DM.ARMNRS").
		Variable("DM", "RACEOTH", "text", "Order", "7", "Length", "60", "Label", "Race, Other", "Origin", "CRF", "Is SUPP", "Yes",
			"Origin Document ID", "acrf", "Origin Pages", "3").
		Variable("AE", "STUDYID", "text", "Order", "1", "Length", "7", "Origin", "Protocol").
		Variable("AE", "USUBJID", "text", "Order", "2", "Length", "12", "Origin", "Derived").
		Variable("AE", "AESEQ", "integer", "Order", "3", "Length", "4", "Origin", "Derived", "Key Sequence", "3",
			"Derivation", "Sequential within subject").
		Variable("AE", "AETERM", "text", "Order", "4", "Length", "200", "Origin", "CRF", "Origin Document ID", "acrf", "Origin Pages", "7").
		Variable("AE", "AEDECOD", "text", "Order", "5", "Length", "100", "Codelist", "MEDDRA", "Origin", "Assigned").
		Variable("AE", "AESER", "text", "Order", "6", "Length", "1", "Codelist", "NY", "Origin", "CRF").
		Variable("AE", "AETRTEM", "text", "Order", "7", "Length", "1", "Label", "Treatment Emergent Flag", "Codelist", "NY",
			"Origin", "Derived", "Is SUPP", "Yes", "Evaluator", "SPONSOR", "Derivation", "AESTDTC on or after RFSTDTC").
		Variable("VS", "STUDYID", "text", "Order", "1", "Length", "7", "Origin", "Protocol").
		Variable("VS", "USUBJID", "text", "Order", "2", "Length", "12", "Origin", "Derived").
		Variable("VS", "VSSEQ", "integer", "Order", "3", "Length", "3", "Origin", "Derived").
		Variable("VS", "VSTESTCD", "text", "Order", "4", "Length", "8", "Origin", "Assigned").
		Variable("VS", "VSORRES", "text", "Order", "5", "Length", "20", "Origin", "eDT").
		Value("VS", "VSORRES", "SYSBP", "VSTESTCD", "SYSBP", "integer", "Length", "3", "Origin", "eDT").
		Value("VS", "VSORRES", "DIABP", "VSTESTCD", "DIABP", "integer", "Length", "3", "Origin", "eDT").
		Value("VS", "VSORRES", "TEMP", "VSTESTCD", "TEMP", "float", "Length", "5", "Significant Digits", "1", "Origin", "eDT",
			"Comment", "Collected in degrees C")
}

// SDTMExplicit expresses the supplemental qualifiers of SDTM as literal
// SUPPDM and SUPPAE rows instead of Is SUPP flags. The repeating RACE
// column is kept.
func SDTMExplicit() *StudyBuilder {
	base := SDTM().Build()
	b := &StudyBuilder{tables: make(map[string][]source.Record)}
	for table, rows := range base {
		for _, r := range rows {
			if table == source.TableVariable && r["Is SUPP"] == "Yes" {
				continue
			}
			b.tables[table] = append(b.tables[table], r)
		}
	}
	for _, supp := range []struct{ parent, seq string }{{"DM", ""}, {"AE", "AESEQ"}} {
		name := "SUPP" + supp.parent
		b.Dataset(name, "Supplemental Qualifiers for "+supp.parent, "Domain", name, "Class", "RELATIONSHIP")
		for i, col := range []string{"STUDYID", "RDOMAIN", "USUBJID", "IDVAR", "IDVARVAL", "QNAM", "QLABEL", "QVAL", "QORIG", "QEVAL"} {
			b.Variable(name, col, "text", "Order", fmt.Sprint(i+1), "Length", "8", "Origin", "Assigned")
		}
	}
	return b.
		Value("SUPPDM", "QVAL", "RACEOTH", "QNAM", "RACEOTH", "text", "Length", "60", "Label", "Race, Other", "Origin", "CRF",
			"Origin Document ID", "acrf", "Origin Pages", "3").
		Value("SUPPAE", "QVAL", "AETRTEM", "QNAM", "AETRTEM", "text", "Length", "1", "Label", "Treatment Emergent Flag", "Codelist", "NY",
			"Origin", "Derived", "Evaluator", "SPONSOR", "Derivation", "AESTDTC on or after RFSTDTC")
}

// ADaM is a small analysis study with analysis results metadata.
func ADaM() *StudyBuilder {
	return NewStudyBuilder("CDISC01", "ADaMIG").
		Property("StandardType", "ADaM").
		Property("StandardVersion", "1.1").
		Row(source.TableStandard, "Name", "ADaMIG", "Type", "IG", "Version", "1.1", "Status", "Final").
		Row(source.TableDocument, "ID", "adrg", "Type", "SupplementalDoc", "Href", "adrg.pdf", "Title", "Analysis Reviewers Guide").
		Row(source.TableDocument, "ID", "sap", "Type", "Other", "Href", "sap.pdf", "Title", "Statistical Analysis Plan").
		Row(source.TableComment, "Comment ID", "ADSL", "Description", "One record per subject", "Document ID", "adrg", "Pages", "10 12").
		Row(source.TableMethod, "Method ID", "CHG", "Name", "Change from baseline", "Description", "AVAL - BASE",
			"Expression Context", "SAS", "Expression Code", "CHG = AVAL - BASE;").
		Term("PARAMCD", "Parameter Code", "SYSBP", "Systolic Blood Pressure (mmHg)").
		Term("PARAMCD", "Parameter Code", "DIABP", "Diastolic Blood Pressure (mmHg)").
		Dataset("ADSL", "Subject-Level Analysis Dataset", "Order", "1", "Class", "SUBJECT LEVEL ANALYSIS DATASET",
			"Structure", "One record per subject", "Comment ID", "ADSL", "Standard Name", "ADaMIG", "Standard Version", "1.1").
		Dataset("ADVS", "Vital Signs Analysis Dataset", "Order", "2", "Class", "BASIC DATA STRUCTURE",
			"Structure", "One record per subject per parameter per visit", "Standard Name", "ADaMIG", "Standard Version", "1.1").
		Variable("ADSL", "STUDYID", "text", "Order", "1", "Length", "7", "Origin", "Predecessor", "Predecessor", "DM.STUDYID").
		Variable("ADSL", "USUBJID", "text", "Order", "2", "Length", "12", "Origin", "Predecessor", "Predecessor", "DM.USUBJID").
		Variable("ADSL", "RACE", "text", "Order", "3", "Length", "220", "Origin", "Predecessor", "Repeat N", "1").
		Variable("ADSL", "SAFFL", "text", "Order", "4", "Length", "1", "Origin", "Derived", "Derivation", "Y if any dose taken").
		Variable("ADVS", "STUDYID", "text", "Order", "1", "Length", "7", "Origin", "Predecessor", "Predecessor", "ADSL.STUDYID").
		Variable("ADVS", "USUBJID", "text", "Order", "2", "Length", "12", "Origin", "Predecessor", "Predecessor", "ADSL.USUBJID").
		Variable("ADVS", "PARAMCD", "text", "Order", "3", "Length", "8", "Codelist", "PARAMCD", "Origin", "Assigned").
		Variable("ADVS", "AVAL", "float", "Order", "4", "Length", "8", "Origin", "Derived", "Derivation", "VSSTRESN").
		Variable("ADVS", "CHG", "float", "Order", "5", "Length", "8", "Origin", "Derived", "Method ID", "CHG").
		Value("ADVS", "AVAL", "SYSBP", "PARAMCD", "SYSBP", "integer", "Length", "3", "Origin", "Derived", "Derivation", "VSSTRESN for SYSBP").
		Row(source.TableDisplay, "Display Name", "T14.1", "Order", "1", "Display Title", "Summary of Vital Signs",
			"Document ID", "sap", "Pages", "20-21").
		Row(source.TableResult, "Display Name", "T14.1", "Result ID", "R1", "Description", "Change in systolic BP",
			"Parameter Dataset", "ADVS", "Analysis Reason", "SPECIFIED IN SAP", "Analysis Purpose", "PRIMARY OUTCOME MEASURE",
			"Documentation", "ANCOVA of CHG", "Documentation Document ID", "sap", "Documentation Pages", "22",
			"Programming Context", "SAS", "Programming Code", "proc mixed; run;").
		Row(source.TableAnalysisDataset, "Display Name", "T14.1", "Result ID", "R1", "Dataset Name", "ADVS",
			"Analysis Variables", "CHG|AVAL", "WhereClause Variable", "PARAMCD", "WhereClause Operator", "EQ", "WhereClause Value", "SYSBP")
}

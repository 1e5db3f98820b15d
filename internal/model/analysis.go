package model

// Display is an analysis results display, such as a table or figure.
type Display struct {
	Name      string `merge:"-"`
	OID       string `merge:"-"`
	Ordinal   int
	Title     string
	Documents []DocumentRef
}

// ResultKey identifies an analysis result within its display.
type ResultKey struct {
	Display string
	ID      string
}

// Result is one analysis result of a display.
type Result struct {
	Display     string `merge:"-"`
	ID          string `merge:"-"`
	OID         string `merge:"-"`
	Ordinal     int
	Description string

	// ParameterOID references the parameter-code item; resolved into
	// ParameterDataset by the analysis back-fill pass.
	ParameterOID     string
	ParameterDataset string `merge:"-"`

	Reason             string
	Purpose            string
	Documentation      string
	DocumentationRefs  []DocumentRef
	ProgrammingContext string
	ProgrammingCode    string
	ProgrammingRefs    []DocumentRef
	DatasetsCommentOID string
}

// Key returns the result's natural key.
func (r *Result) Key() ResultKey {
	return ResultKey{Display: r.Display, ID: r.ID}
}

// AnalysisDatasetKey identifies one dataset used by an analysis result.
type AnalysisDatasetKey struct {
	Display string
	Result  string
	Dataset string
}

// AnalysisDataset lists the variables and selection of one dataset used by a result.
type AnalysisDataset struct {
	Display        string `merge:"-"`
	Result         string `merge:"-"`
	Dataset        string `merge:"-"`
	ItemGroupOID   string
	VariableOIDs   []string
	WhereClauseOID string
	Ordinal        int `merge:"-"`
}

// Key returns the natural key.
func (a *AnalysisDataset) Key() AnalysisDatasetKey {
	return AnalysisDatasetKey{Display: a.Display, Result: a.Result, Dataset: a.Dataset}
}

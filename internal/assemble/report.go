package assemble

import "github.com/vvka-141/definegen/internal/xmltree"

// Report summarizes an assembled document.
type Report struct {
	Datasets     int      `json:"datasets"`
	Variables    int      `json:"variables"`
	ValueLists   int      `json:"value_lists"`
	Values       int      `json:"values"`
	WhereClauses int      `json:"where_clauses"`
	Items        int      `json:"items"`
	Codelists    int      `json:"codelists"`
	Methods      int      `json:"methods"`
	Comments     int      `json:"comments"`
	Documents    int      `json:"documents"`
	Results      int      `json:"analysis_results"`
	Orphans      []Orphan `json:"pruned,omitempty"`
}

// Summarize counts the definitions of an assembled document.
func Summarize(root *xmltree.Element, keep *Reachable) Report {
	r := Report{}
	root.Walk(func(e *xmltree.Element) {
		switch e.Name {
		case "ItemGroupDef":
			r.Datasets++
			r.Variables += countChildren(e, "ItemRef")
		case "def:ValueListDef":
			r.ValueLists++
			r.Values += countChildren(e, "ItemRef")
		case "def:WhereClauseDef":
			r.WhereClauses++
		case "ItemDef":
			r.Items++
		case "CodeList":
			r.Codelists++
		case "MethodDef":
			r.Methods++
		case "def:CommentDef":
			r.Comments++
		case "arm:AnalysisResult":
			r.Results++
		}
	})
	if mdv := find(root, "MetaDataVersion"); mdv != nil {
		r.Documents = countChildren(mdv, "def:leaf")
	}
	if keep != nil {
		r.Orphans = keep.Orphans
	}
	return r
}

// Counts returns the definition counts keyed by kind.
func (r Report) Counts() map[string]int {
	return map[string]int{
		"datasets":         r.Datasets,
		"variables":        r.Variables,
		"value_lists":      r.ValueLists,
		"values":           r.Values,
		"where_clauses":    r.WhereClauses,
		"items":            r.Items,
		"codelists":        r.Codelists,
		"methods":          r.Methods,
		"comments":         r.Comments,
		"documents":        r.Documents,
		"analysis_results": r.Results,
	}
}

func countChildren(e *xmltree.Element, name string) int {
	n := 0
	for _, c := range e.Children {
		if c.Name == name {
			n++
		}
	}
	return n
}

func find(root *xmltree.Element, name string) *xmltree.Element {
	var found *xmltree.Element
	root.Walk(func(e *xmltree.Element) {
		if found == nil && e.Name == name {
			found = e
		}
	})
	return found
}

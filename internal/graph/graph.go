// Package graph holds the metadata entities of one study as typed
// collections keyed by natural keys. Cross-references between entities
// are stored OIDs resolved through the graph's indexes; no entity points
// at another.
package graph

import (
	"sort"

	"github.com/vvka-141/definegen/internal/model"
	"github.com/vvka-141/definegen/internal/profile"
)

// Graph is the in-memory metadata graph.
type Graph struct {
	Profile profile.Profile
	Model   profile.Model
	Study   model.Study

	Standards        map[model.StandardRef]*model.Standard
	Documents        map[string]*model.Document
	Datasets         map[string]*model.Dataset
	Variables        map[model.VariableKey]*model.Variable
	Values           map[string]*model.Value
	WhereClauses     map[string]*model.WhereClause
	Codelists        map[string]*model.Codelist
	Terms            map[model.TermKey]*model.Term
	Dictionaries     map[string]*model.Dictionary
	Methods          map[string]*model.Method
	Comments         map[string]*model.Comment
	Displays         map[string]*model.Display
	Results          map[model.ResultKey]*model.Result
	AnalysisDatasets map[model.AnalysisDatasetKey]*model.AnalysisDataset

	seq int
}

// New returns an empty graph for the given profile and model.
func New(p profile.Profile, m profile.Model) *Graph {
	return &Graph{
		Profile:          p,
		Model:            m,
		Standards:        make(map[model.StandardRef]*model.Standard),
		Documents:        make(map[string]*model.Document),
		Datasets:         make(map[string]*model.Dataset),
		Variables:        make(map[model.VariableKey]*model.Variable),
		Values:           make(map[string]*model.Value),
		WhereClauses:     make(map[string]*model.WhereClause),
		Codelists:        make(map[string]*model.Codelist),
		Terms:            make(map[model.TermKey]*model.Term),
		Dictionaries:     make(map[string]*model.Dictionary),
		Methods:          make(map[string]*model.Method),
		Comments:         make(map[string]*model.Comment),
		Displays:         make(map[string]*model.Display),
		Results:          make(map[model.ResultKey]*model.Result),
		AnalysisDatasets: make(map[model.AnalysisDatasetKey]*model.AnalysisDataset),
	}
}

// NextSeq returns the next insertion index. Collections without an input
// ordinal are rendered in insertion order.
func (g *Graph) NextSeq() int {
	g.seq++
	return g.seq
}

// SortedDatasets returns datasets ordered by ordinal, then name.
func (g *Graph) SortedDatasets() []*model.Dataset {
	out := make([]*model.Dataset, 0, len(g.Datasets))
	for _, d := range g.Datasets {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ordinal != out[j].Ordinal {
			return out[i].Ordinal < out[j].Ordinal
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SortedVariables returns all variables ordered by dataset ordinal,
// dataset name, then variable ordinal and name.
func (g *Graph) SortedVariables() []*model.Variable {
	out := make([]*model.Variable, 0, len(g.Variables))
	for _, v := range g.Variables {
		out = append(out, v)
	}
	sortVariables(out)
	return out
}

func sortVariables(vs []*model.Variable) {
	sort.Slice(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.DatasetOrdinal != b.DatasetOrdinal {
			return a.DatasetOrdinal < b.DatasetOrdinal
		}
		if a.Dataset != b.Dataset {
			return a.Dataset < b.Dataset
		}
		if a.Ordinal != b.Ordinal {
			return a.Ordinal < b.Ordinal
		}
		return a.Name < b.Name
	})
}

// VariablesOf returns the variables of one dataset in ordinal order.
func (g *Graph) VariablesOf(dataset string) []*model.Variable {
	var out []*model.Variable
	for _, v := range g.Variables {
		if v.Dataset == dataset {
			out = append(out, v)
		}
	}
	sortVariables(out)
	return out
}

// Variable looks up a variable of a dataset by name.
func (g *Graph) Variable(dataset, name string) *model.Variable {
	for _, v := range g.Variables {
		if v.Dataset == dataset && v.Name == name {
			return v
		}
	}
	return nil
}

// SortedValues returns all values ordered by dataset, variable and value ordinal.
func (g *Graph) SortedValues() []*model.Value {
	out := make([]*model.Value, 0, len(g.Values))
	for _, v := range g.Values {
		out = append(out, v)
	}
	sortValues(out)
	return out
}

func sortValues(vs []*model.Value) {
	sort.Slice(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.DatasetOrdinal != b.DatasetOrdinal {
			return a.DatasetOrdinal < b.DatasetOrdinal
		}
		if a.Dataset != b.Dataset {
			return a.Dataset < b.Dataset
		}
		if a.VariableOrdinal != b.VariableOrdinal {
			return a.VariableOrdinal < b.VariableOrdinal
		}
		if a.Variable != b.Variable {
			return a.Variable < b.Variable
		}
		if a.Ordinal != b.Ordinal {
			return a.Ordinal < b.Ordinal
		}
		return a.Name < b.Name
	})
}

// ValuesOf returns the values of one value list in ordinal order.
func (g *Graph) ValuesOf(valueListOID string) []*model.Value {
	var out []*model.Value
	for _, v := range g.Values {
		if v.ValueListOID == valueListOID {
			out = append(out, v)
		}
	}
	sortValues(out)
	return out
}

// SortedWhereClauses returns where clauses in insertion order.
func (g *Graph) SortedWhereClauses() []*model.WhereClause {
	out := make([]*model.WhereClause, 0, len(g.WhereClauses))
	for _, w := range g.WhereClauses {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// SortedStandards returns standards in insertion order.
func (g *Graph) SortedStandards() []*model.Standard {
	out := make([]*model.Standard, 0, len(g.Standards))
	for _, s := range g.Standards {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// StandardByOID finds a standard by its identifier.
func (g *Graph) StandardByOID(oid string) *model.Standard {
	for _, s := range g.Standards {
		if s.OID == oid {
			return s
		}
	}
	return nil
}

// SortedDocuments returns documents in insertion order.
func (g *Graph) SortedDocuments() []*model.Document {
	out := make([]*model.Document, 0, len(g.Documents))
	for _, d := range g.Documents {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// DocumentByLeaf finds a document by its leaf identifier.
func (g *Graph) DocumentByLeaf(leafOID string) *model.Document {
	for _, d := range g.Documents {
		if d.OID == leafOID {
			return d
		}
	}
	return nil
}

// SortedCodelists returns codelists in insertion order.
func (g *Graph) SortedCodelists() []*model.Codelist {
	out := make([]*model.Codelist, 0, len(g.Codelists))
	for _, c := range g.Codelists {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// TermsOf returns the terms of a codelist ordered by Order, then insertion.
func (g *Graph) TermsOf(codelistID string) []*model.Term {
	var out []*model.Term
	for k, t := range g.Terms {
		if k.CodelistID == codelistID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			if out[i].Order == 0 || out[j].Order == 0 {
				return out[j].Order == 0
			}
			return out[i].Order < out[j].Order
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

// SortedDictionaries returns dictionaries in insertion order.
func (g *Graph) SortedDictionaries() []*model.Dictionary {
	out := make([]*model.Dictionary, 0, len(g.Dictionaries))
	for _, d := range g.Dictionaries {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// SortedMethods returns methods in insertion order.
func (g *Graph) SortedMethods() []*model.Method {
	out := make([]*model.Method, 0, len(g.Methods))
	for _, m := range g.Methods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// SortedComments returns comments in insertion order.
func (g *Graph) SortedComments() []*model.Comment {
	out := make([]*model.Comment, 0, len(g.Comments))
	for _, c := range g.Comments {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// SortedDisplays returns analysis displays by ordinal, then name.
func (g *Graph) SortedDisplays() []*model.Display {
	out := make([]*model.Display, 0, len(g.Displays))
	for _, d := range g.Displays {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ordinal != out[j].Ordinal {
			return out[i].Ordinal < out[j].Ordinal
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ResultsOf returns the results of a display by ordinal, then id.
func (g *Graph) ResultsOf(display string) []*model.Result {
	var out []*model.Result
	for _, r := range g.Results {
		if r.Display == display {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ordinal != out[j].Ordinal {
			return out[i].Ordinal < out[j].Ordinal
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// AnalysisDatasetsOf returns the datasets used by one result in row order.
func (g *Graph) AnalysisDatasetsOf(display, result string) []*model.AnalysisDataset {
	var out []*model.AnalysisDataset
	for _, a := range g.AnalysisDatasets {
		if a.Display == display && a.Result == result {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out
}

// ItemIndex maps item identifiers to the first variable (in sorted order)
// that carries them.
func (g *Graph) ItemIndex() map[string]*model.Variable {
	idx := make(map[string]*model.Variable, len(g.Variables))
	for _, v := range g.SortedVariables() {
		if _, ok := idx[v.OID]; !ok {
			idx[v.OID] = v
		}
	}
	return idx
}

// DatasetByOID finds a dataset by its identifier.
func (g *Graph) DatasetByOID(oid string) *model.Dataset {
	for _, d := range g.Datasets {
		if d.OID == oid {
			return d
		}
	}
	return nil
}

// CodelistDefined reports whether a codelist or dictionary with the id exists.
func (g *Graph) CodelistDefined(id string) bool {
	if _, ok := g.Codelists[id]; ok {
		return true
	}
	_, ok := g.Dictionaries[id]
	return ok
}

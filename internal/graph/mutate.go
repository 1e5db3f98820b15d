package graph

import (
	"github.com/vvka-141/definegen/internal/model"
)

// Later rows with an existing key merge into the stored entity; fields
// already populated are kept.

// PutDataset inserts or merges a dataset.
func (g *Graph) PutDataset(d *model.Dataset) *model.Dataset {
	if cur, ok := g.Datasets[d.Name]; ok {
		model.MergeNonEmpty(cur, d)
		return cur
	}
	g.Datasets[d.Name] = d
	return d
}

// PutVariable inserts or merges a variable.
func (g *Graph) PutVariable(v *model.Variable) *model.Variable {
	if cur, ok := g.Variables[v.Key()]; ok {
		model.MergeNonEmpty(cur, v)
		return cur
	}
	g.Variables[v.Key()] = v
	return v
}

// PutValue inserts or merges a value. Where clause references accumulate.
func (g *Graph) PutValue(v *model.Value) *model.Value {
	if cur, ok := g.Values[v.OID]; ok {
		refs := cur.WhereClauseOIDs
		model.MergeNonEmpty(cur, v)
		cur.WhereClauseOIDs = appendMissing(refs, v.WhereClauseOIDs...)
		return cur
	}
	g.Values[v.OID] = v
	return v
}

// PutWhereClause inserts a where clause or appends conditions to an existing one.
func (g *Graph) PutWhereClause(w *model.WhereClause) *model.WhereClause {
	if cur, ok := g.WhereClauses[w.OID]; ok {
		cur.Conditions = append(cur.Conditions, w.Conditions...)
		if cur.CommentOID == "" {
			cur.CommentOID = w.CommentOID
		}
		return cur
	}
	if w.Seq == 0 {
		w.Seq = g.NextSeq()
	}
	g.WhereClauses[w.OID] = w
	return w
}

// PutStandard inserts or merges a standard.
func (g *Graph) PutStandard(s *model.Standard) *model.Standard {
	if cur, ok := g.Standards[s.Key()]; ok {
		model.MergeNonEmpty(cur, s)
		return cur
	}
	if s.Seq == 0 {
		s.Seq = g.NextSeq()
	}
	g.Standards[s.Key()] = s
	return s
}

// PutDocument inserts or merges a document.
func (g *Graph) PutDocument(d *model.Document) *model.Document {
	if cur, ok := g.Documents[d.ID]; ok {
		model.MergeNonEmpty(cur, d)
		return cur
	}
	if d.Seq == 0 {
		d.Seq = g.NextSeq()
	}
	g.Documents[d.ID] = d
	return d
}

// PutCodelist inserts or merges a codelist header.
func (g *Graph) PutCodelist(c *model.Codelist) *model.Codelist {
	if cur, ok := g.Codelists[c.ID]; ok {
		model.MergeNonEmpty(cur, c)
		return cur
	}
	if c.Seq == 0 {
		c.Seq = g.NextSeq()
	}
	g.Codelists[c.ID] = c
	return c
}

// PutTerm inserts or merges a codelist term.
func (g *Graph) PutTerm(t *model.Term) *model.Term {
	key := model.TermKey{CodelistID: t.CodelistID, SubmissionValue: t.SubmissionValue}
	if cur, ok := g.Terms[key]; ok {
		model.MergeNonEmpty(cur, t)
		return cur
	}
	if t.Seq == 0 {
		t.Seq = g.NextSeq()
	}
	g.Terms[key] = t
	return t
}

// PutDictionary inserts or merges a dictionary.
func (g *Graph) PutDictionary(d *model.Dictionary) *model.Dictionary {
	if cur, ok := g.Dictionaries[d.ID]; ok {
		model.MergeNonEmpty(cur, d)
		return cur
	}
	if d.Seq == 0 {
		d.Seq = g.NextSeq()
	}
	g.Dictionaries[d.ID] = d
	return d
}

// PutMethod inserts or merges a method.
func (g *Graph) PutMethod(m *model.Method) *model.Method {
	if cur, ok := g.Methods[m.OID]; ok {
		model.MergeNonEmpty(cur, m)
		return cur
	}
	if m.Seq == 0 {
		m.Seq = g.NextSeq()
	}
	g.Methods[m.OID] = m
	return m
}

// PutComment inserts or merges a comment.
func (g *Graph) PutComment(c *model.Comment) *model.Comment {
	if cur, ok := g.Comments[c.OID]; ok {
		model.MergeNonEmpty(cur, c)
		return cur
	}
	if c.Seq == 0 {
		c.Seq = g.NextSeq()
	}
	g.Comments[c.OID] = c
	return c
}

// PutDisplay inserts or merges an analysis display.
func (g *Graph) PutDisplay(d *model.Display) *model.Display {
	if cur, ok := g.Displays[d.Name]; ok {
		model.MergeNonEmpty(cur, d)
		return cur
	}
	g.Displays[d.Name] = d
	return d
}

// PutResult inserts or merges an analysis result.
func (g *Graph) PutResult(r *model.Result) *model.Result {
	if cur, ok := g.Results[r.Key()]; ok {
		model.MergeNonEmpty(cur, r)
		return cur
	}
	g.Results[r.Key()] = r
	return r
}

// PutAnalysisDataset inserts or merges an analysis dataset reference.
func (g *Graph) PutAnalysisDataset(a *model.AnalysisDataset) *model.AnalysisDataset {
	if cur, ok := g.AnalysisDatasets[a.Key()]; ok {
		vars := cur.VariableOIDs
		model.MergeNonEmpty(cur, a)
		cur.VariableOIDs = appendMissing(vars, a.VariableOIDs...)
		return cur
	}
	if a.Ordinal == 0 {
		a.Ordinal = g.NextSeq()
	}
	g.AnalysisDatasets[a.Key()] = a
	return a
}

// RemoveDataset deletes a dataset together with its variables and values.
// Where clauses referenced only by the removed values are deleted too.
func (g *Graph) RemoveDataset(name string) {
	delete(g.Datasets, name)
	for k, v := range g.Variables {
		if v.Dataset == name {
			delete(g.Variables, k)
		}
	}
	var orphaned []string
	for k, v := range g.Values {
		if v.Dataset == name {
			orphaned = append(orphaned, v.WhereClauseOIDs...)
			delete(g.Values, k)
		}
	}
	for _, wc := range orphaned {
		if !g.whereClauseInUse(wc) {
			delete(g.WhereClauses, wc)
		}
	}
}

func (g *Graph) whereClauseInUse(oid string) bool {
	for _, v := range g.Values {
		for _, w := range v.WhereClauseOIDs {
			if w == oid {
				return true
			}
		}
	}
	for _, a := range g.AnalysisDatasets {
		if a.WhereClauseOID == oid {
			return true
		}
	}
	return false
}

func appendMissing(dst []string, src ...string) []string {
	for _, s := range src {
		found := false
		for _, d := range dst {
			if d == s {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, s)
		}
	}
	return dst
}

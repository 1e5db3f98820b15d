// Package assemble turns a resolved metadata graph into the Define-XML
// element tree: it prunes unreferenced terminology, methods and comments,
// emits the MetaDataVersion children in their fixed kind order and
// checks that every reference in the result resolves.
package assemble

import (
	"github.com/vvka-141/definegen/internal/graph"
	"github.com/vvka-141/definegen/internal/model"
	"github.com/vvka-141/definegen/internal/profile"
	"github.com/vvka-141/definegen/internal/supp"
)

// valueList is one emitted def:ValueListDef.
type valueList struct {
	oid    string
	owner  *model.Variable
	values []*model.Value
}

// view is the visible part of the graph under the active profile, with
// synthesized SUPP-- definitions interleaved. Pruning and assembly both
// read the document through it so they agree on what is emitted.
type view struct {
	g *graph.Graph
	r *supp.Rendered

	datasets     []*model.Dataset
	itemRefs     map[string][]*model.Variable
	valueLists   []valueList
	whereClauses []*model.WhereClause
	items        map[string]*model.Variable
	arm          bool

	// referenced are the items without an ItemRef that get an ItemDef
	// because a condition or an analysis result names them.
	referenced []*model.Variable
	extra      map[string]*model.Variable
}

func newView(g *graph.Graph, r *supp.Rendered) *view {
	if r == nil {
		r = &supp.Rendered{}
	}
	v := &view{
		g:        g,
		r:        r,
		itemRefs: make(map[string][]*model.Variable),
		items:    make(map[string]*model.Variable),
		extra:    make(map[string]*model.Variable),
	}
	omit := g.Profile.OmitsNoData()

	synthesized := make(map[string]bool, len(r.Datasets))
	for _, d := range r.Datasets {
		synthesized[d.Name] = true
	}
	add := func(d *model.Dataset, vars []*model.Variable) {
		if omit && d.NoData {
			return
		}
		v.datasets = append(v.datasets, d)
		for _, x := range vars {
			if x.IsSupplemental.IsYes() || (omit && x.NoData) {
				continue
			}
			v.itemRefs[d.Name] = append(v.itemRefs[d.Name], x)
			if _, ok := v.items[x.OID]; !ok {
				v.items[x.OID] = x
			}
		}
	}
	for _, d := range g.SortedDatasets() {
		add(d, g.VariablesOf(d.Name))
		for _, s := range r.DatasetsAfter(d.Name) {
			add(s, r.VariablesOf(s.Name))
		}
	}

	referenced := make(map[string]bool)
	for _, d := range v.datasets {
		for _, owner := range v.itemRefs[d.Name] {
			if owner.ValueListOID == "" {
				continue
			}
			values := g.ValuesOf(owner.ValueListOID)
			if synthesized[d.Name] {
				values = r.ValuesOf(owner.ValueListOID)
			}
			var visible []*model.Value
			for _, val := range values {
				if omit && val.NoData {
					continue
				}
				visible = append(visible, val)
				for _, wc := range val.WhereClauseOIDs {
					referenced[wc] = true
				}
			}
			if len(visible) > 0 {
				v.valueLists = append(v.valueLists, valueList{oid: owner.ValueListOID, owner: owner, values: visible})
			}
		}
	}

	v.arm = g.Model == profile.Parameter && len(g.Displays) > 0
	if v.arm {
		for _, a := range g.AnalysisDatasets {
			if a.WhereClauseOID != "" {
				referenced[a.WhereClauseOID] = true
			}
		}
	}

	for _, wc := range g.SortedWhereClauses() {
		if referenced[wc.OID] {
			v.whereClauses = append(v.whereClauses, wc)
		}
	}
	for _, wc := range r.WhereClauses {
		if referenced[wc.OID] {
			v.whereClauses = append(v.whereClauses, wc)
		}
	}
	v.collectReferenced()
	return v
}

// collectReferenced walks the conditions and analysis results in the
// order the assembler emits them.
func (v *view) collectReferenced() {
	ref := func(oid string) {
		if oid == "" {
			return
		}
		if _, ok := v.items[oid]; ok {
			return
		}
		if _, ok := v.extra[oid]; ok {
			return
		}
		if x := v.resolve(oid); x != nil {
			v.extra[oid] = x
			v.referenced = append(v.referenced, x)
		}
	}
	for _, wc := range v.whereClauses {
		for _, c := range wc.Conditions {
			ref(c.ItemOID)
		}
	}
	if !v.arm {
		return
	}
	for _, d := range v.g.SortedDisplays() {
		for _, res := range v.g.ResultsOf(d.Name) {
			ref(res.ParameterOID)
			for _, a := range v.g.AnalysisDatasetsOf(res.Display, res.ID) {
				for _, oid := range a.VariableOIDs {
					ref(oid)
				}
			}
		}
	}
}

// variables returns every emitted variable in document order.
func (v *view) variables() []*model.Variable {
	var out []*model.Variable
	for _, d := range v.datasets {
		out = append(out, v.itemRefs[d.Name]...)
	}
	return out
}

// values returns every emitted value in document order.
func (v *view) values() []*model.Value {
	var out []*model.Value
	for _, vl := range v.valueLists {
		out = append(out, vl.values...)
	}
	return out
}

// hasValueList reports whether a value list is emitted.
func (v *view) hasValueList(oid string) bool {
	for _, vl := range v.valueLists {
		if vl.oid == oid {
			return true
		}
	}
	return false
}

// item returns the emitted variable with the given OID, whether it is
// listed by an ItemRef or only named by a condition or analysis result.
func (v *view) item(oid string) *model.Variable {
	if x, ok := v.items[oid]; ok {
		return x
	}
	return v.extra[oid]
}

// resolve finds a variable by OID among the synthesized and input
// variables, including those the profile hides.
func (v *view) resolve(oid string) *model.Variable {
	for _, x := range v.r.Variables {
		if x.OID == oid {
			return x
		}
	}
	return v.g.ItemIndex()[oid]
}

package supp

import (
	"strings"
	"unicode/utf8"

	"github.com/vvka-141/definegen/internal/graph"
	"github.com/vvka-141/definegen/internal/model"
	"github.com/vvka-141/definegen/internal/oid"
	"github.com/vvka-141/definegen/pkg/define"
)

// Rendered holds the SUPP-- definitions synthesized for one document.
// None of them is part of the graph.
type Rendered struct {
	Datasets     []*model.Dataset
	Variables    []*model.Variable
	Values       []*model.Value
	WhereClauses []*model.WhereClause

	// Parent maps each synthesized dataset to the dataset it follows.
	Parent map[string]string
	// Qualifiers maps each synthesized dataset to its qualifier variables.
	Qualifiers map[string][]*model.Variable
}

// DatasetsAfter returns the synthesized datasets placed after parent.
func (r *Rendered) DatasetsAfter(parent string) []*model.Dataset {
	var out []*model.Dataset
	for _, d := range r.Datasets {
		if r.Parent[d.Name] == parent {
			out = append(out, d)
		}
	}
	return out
}

// VariablesOf returns the qualifier columns of a synthesized dataset.
func (r *Rendered) VariablesOf(dataset string) []*model.Variable {
	var out []*model.Variable
	for _, v := range r.Variables {
		if v.Dataset == dataset {
			out = append(out, v)
		}
	}
	return out
}

// ValuesOf returns the synthesized values of a value list.
func (r *Rendered) ValuesOf(valueListOID string) []*model.Value {
	var out []*model.Value
	for _, v := range r.Values {
		if v.ValueListOID == valueListOID {
			out = append(out, v)
		}
	}
	return out
}

// Synthesize builds a SUPP-- dataset for every dataset with supplemental
// variables. Flags must have been derived (graph.DeriveFlags).
func Synthesize(g *graph.Graph) (*Rendered, error) {
	r := &Rendered{Parent: make(map[string]string), Qualifiers: make(map[string][]*model.Variable)}
	if !g.Model.HasSupplementalQualifiers() {
		return r, nil
	}

	for _, parent := range g.SortedDatasets() {
		if !parent.HasSupplemental.IsYes() {
			continue
		}
		var group []*model.Variable
		for _, v := range g.VariablesOf(parent.Name) {
			if v.IsSupplemental.IsYes() {
				group = append(group, v)
			}
		}
		if err := r.synthesize(g, parent, group); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Rendered) synthesize(g *graph.Graph, parent *model.Dataset, group []*model.Variable) error {
	name := DatasetName(parent)
	if _, clash := g.Datasets[name]; clash {
		return &define.FieldError{
			Tag: "ItemGroupDef", Dataset: name, Param: "declared explicitly and derived from " + parent.Name,
			Reason: define.ReasonInvalid, Err: define.ErrInvalidConfig,
		}
	}
	fail := func(err error) error {
		return &define.FieldError{Tag: "ItemGroupDef", Dataset: name, Reason: define.ReasonInvalid, Err: err}
	}

	dsOID, err := oid.Dataset(name)
	if err != nil {
		return fail(err)
	}
	d := &model.Dataset{
		Name:            name,
		OID:             dsOID,
		Domain:          name,
		Ordinal:         parent.Ordinal,
		Description:     "Supplemental Qualifiers for " + parent.DomainOrName(),
		Class:           "RELATIONSHIP",
		Structure:       "One record per supplemental qualifier per related parent domain record(s)",
		Purpose:         parent.Purpose,
		Repeating:       model.Yes,
		IsReferenceData: model.No,
		Href:            strings.ToLower(name) + ".xpt",
		Standard:        parent.Standard,
		StandardOID:     parent.StandardOID,
		HasNoData:       parent.HasNoData,
		HasSupplemental: model.No,
		NoData:          parent.NoData,
	}

	columns, err := r.columns(g, parent, d, group)
	if err != nil {
		return fail(err)
	}

	vl, err := oid.ValueList(g.Model, name, name, ColQVal)
	if err != nil {
		return fail(err)
	}
	qnamOID := columns[ColQNam].OID
	columns[ColQVal].ValueListOID = vl
	columns[ColQVal].HasValueMetadata = model.Yes

	for i, q := range group {
		wcOID, err := oid.WhereClause(g.Model, name, name, ColQVal, q.Name, "")
		if err != nil {
			return fail(err)
		}
		valOID, err := oid.ValueItem(g.Model, name, name, ColQVal, q.Name)
		if err != nil {
			return fail(err)
		}
		r.WhereClauses = append(r.WhereClauses, &model.WhereClause{
			OID: wcOID,
			Conditions: []model.Condition{{
				ItemOID: qnamOID, Dataset: name, Variable: ColQNam, Comparator: model.EQ, Values: []string{q.Name},
			}},
		})
		r.Values = append(r.Values, &model.Value{
			OID:             valOID,
			Dataset:         name,
			Variable:        ColQVal,
			Name:            q.Name,
			Ordinal:         i + 1,
			Descriptor:      q.Descriptor,
			WhereClauseOIDs: []string{wcOID},
			ValueListOID:    vl,
			DatasetOrdinal:  parent.Ordinal,
			VariableOrdinal: columns[ColQVal].Ordinal,
			NoData:          q.NoData,
		})
	}

	r.Datasets = append(r.Datasets, d)
	r.Parent[name] = parent.Name
	r.Qualifiers[name] = group
	for _, c := range Columns {
		r.Variables = append(r.Variables, columns[c])
	}
	return nil
}

// columns builds the ten qualifier columns.
func (r *Rendered) columns(g *graph.Graph, parent, d *model.Dataset, group []*model.Variable) (map[string]*model.Variable, error) {
	subject := g.Model.SubjectDataset()
	idvarLen, idvarvalLen := 1, 1
	if parent.DomainOrName() != subject {
		seq := parent.DomainOrName() + "SEQ"
		if v := g.Variable(parent.Name, seq); v != nil {
			idvarLen = utf8.RuneCountInString(seq)
			idvarvalLen = max(1, v.Length)
		}
	}

	var qnam, qlabel, qval, qorig, qeval int
	dataType := ""
	for i, q := range group {
		qnam = max(qnam, utf8.RuneCountInString(q.Name))
		qlabel = max(qlabel, utf8.RuneCountInString(q.Label))
		qval = max(qval, q.Length)
		qorig = max(qorig, utf8.RuneCountInString(renderedOrigin(g, q.Origin)))
		qeval = max(qeval, utf8.RuneCountInString(q.Evaluator))
		switch {
		case i == 0:
			dataType = q.DataType
		case dataType != q.DataType:
			dataType = "text"
		}
	}
	if dataType == "" {
		dataType = "text"
	}

	assigned := model.Origin{Type: "Assigned"}
	specs := []struct {
		name      string
		desc      model.Descriptor
		ks        int
		mandatory model.YesNo
		role      string
	}{
		{ColStudyID, copied(g, parent, ColStudyID, "Study Identifier"), 1, model.Yes, "Identifier"},
		{ColRDomain, model.Descriptor{Label: "Related Domain Abbreviation", DataType: "text", Length: max(1, utf8.RuneCountInString(parent.DomainOrName())), Origin: assigned}, 2, model.Yes, "Identifier"},
		{ColUSubjID, copied(g, parent, ColUSubjID, "Unique Subject Identifier"), 3, model.Yes, "Identifier"},
		{ColIDVar, model.Descriptor{Label: "Identifying Variable", DataType: "text", Length: idvarLen, Origin: assigned}, 4, model.No, "Identifier"},
		{ColIDVarVal, model.Descriptor{Label: "Identifying Variable Value", DataType: "text", Length: idvarvalLen, Origin: assigned}, 5, model.No, "Identifier"},
		{ColQNam, model.Descriptor{Label: "Qualifier Variable Name", DataType: "text", Length: max(1, qnam), Origin: assigned}, 6, model.Yes, "Topic"},
		{ColQLabel, model.Descriptor{Label: "Qualifier Variable Label", DataType: "text", Length: max(1, qlabel), Origin: assigned}, 0, model.Yes, "Synonym Qualifier"},
		{ColQVal, model.Descriptor{Label: "Data Value", DataType: dataType, Length: max(1, qval)}, 0, model.Yes, "Result Qualifier"},
		{ColQOrig, model.Descriptor{Label: "Origin", DataType: "text", Length: max(1, qorig), Origin: assigned}, 0, model.Yes, "Record Qualifier"},
		{ColQEval, model.Descriptor{Label: "Evaluator", DataType: "text", Length: max(1, qeval), Origin: assigned}, 0, model.No, "Record Qualifier"},
	}

	out := make(map[string]*model.Variable, len(specs))
	for i, s := range specs {
		id, err := oid.Item(g.Model, d.Name, d.Domain, s.name)
		if err != nil {
			return nil, err
		}
		desc := s.desc
		desc.Mandatory = s.mandatory
		out[s.name] = &model.Variable{
			Dataset:        d.Name,
			Name:           s.name,
			OID:            id,
			Ordinal:        i + 1,
			Descriptor:     desc,
			KeySequence:    s.ks,
			Role:           s.role,
			DatasetOrdinal: parent.Ordinal,
			NoData:         parent.NoData,
		}
	}
	return out, nil
}

// copied takes the descriptor of a subject identifier from the parent
// dataset, falling back to the first dataset that defines it.
func copied(g *graph.Graph, parent *model.Dataset, name, label string) model.Descriptor {
	v := g.Variable(parent.Name, name)
	if v == nil {
		for _, cand := range g.SortedVariables() {
			if cand.Name == name && !cand.IsSupplemental.IsYes() {
				v = cand
				break
			}
		}
	}
	if v == nil {
		return model.Descriptor{Label: label, DataType: "text", Length: 1, Origin: model.Origin{Type: "Assigned"}}
	}
	d := v.Descriptor
	if d.Label == "" {
		d.Label = label
	}
	return d
}

// renderedOrigin is the QORIG text of a qualifier under the active profile.
func renderedOrigin(g *graph.Graph, o model.Origin) string {
	if o.Type == "" {
		return ""
	}
	t, _, err := g.Profile.Origin(o.Type, o.Source)
	if err != nil {
		return o.Type
	}
	return t
}

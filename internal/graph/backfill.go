package graph

import (
	"errors"

	"github.com/vvka-141/definegen/internal/model"
	"github.com/vvka-141/definegen/internal/oid"
	"github.com/vvka-141/definegen/pkg/define"
)

// PropagateOrdinals copies each dataset's ordinal onto its variables and
// each variable's ordinals onto its values, so flat collections sort in
// document order without lookups.
func (g *Graph) PropagateOrdinals() {
	for _, v := range g.Variables {
		if d, ok := g.Datasets[v.Dataset]; ok {
			v.DatasetOrdinal = d.Ordinal
		}
	}
	for _, val := range g.Values {
		if d, ok := g.Datasets[val.Dataset]; ok {
			val.DatasetOrdinal = d.Ordinal
		}
		if owner := g.Variable(val.Dataset, val.Variable); owner != nil {
			val.VariableOrdinal = owner.Ordinal
		}
	}
}

// BackfillValues links every value to its owning variable, marks that
// variable as carrying value-level metadata, and resolves the item of
// every where-clause condition back to dataset and variable names.
func (g *Graph) BackfillValues() error {
	var errs []error

	for _, val := range g.SortedValues() {
		owner := g.Variable(val.Dataset, val.Variable)
		if owner == nil {
			errs = append(errs, &define.FieldError{
				Tag: "ValueListDef", Dataset: val.Dataset, Variable: val.Variable, Value: val.Name,
				Reason: define.ReasonUnresolved, Param: "owning variable not defined", Err: define.ErrUnresolvedReference,
			})
			continue
		}
		if val.ValueListOID == "" {
			ds := g.Datasets[val.Dataset]
			vl, err := oid.ValueList(g.Model, val.Dataset, domainOf(ds), val.Variable)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			val.ValueListOID = vl
		}
		owner.ValueListOID = val.ValueListOID
		owner.HasValueMetadata = model.Yes

		for _, wc := range val.WhereClauseOIDs {
			if _, ok := g.WhereClauses[wc]; !ok {
				errs = append(errs, &define.FieldError{
					Tag: "ItemRef", Dataset: val.Dataset, Variable: val.Variable, Value: val.Name,
					Field: "WhereClauseOID", Param: wc, Reason: define.ReasonUnresolved, Err: define.ErrUnresolvedReference,
				})
			}
		}
	}

	errs = append(errs, g.resolveConditions()...)
	return errors.Join(errs...)
}

func (g *Graph) resolveConditions() []error {
	var errs []error
	items := g.ItemIndex()
	for _, wc := range g.SortedWhereClauses() {
		for i := range wc.Conditions {
			c := &wc.Conditions[i]
			v, ok := items[c.ItemOID]
			if !ok {
				errs = append(errs, &define.FieldError{
					Tag: "WhereClauseDef", Field: "ItemOID", Param: wc.OID + " -> " + c.ItemOID,
					Dataset: c.Dataset, Variable: c.Variable,
					Reason: define.ReasonUnresolved, Err: define.ErrUnresolvedReference,
				})
				continue
			}
			if c.Dataset == "" {
				c.Dataset = v.Dataset
			}
			c.Variable = v.Name
		}
	}
	return errs
}

// BackfillAnalysisResults resolves the parameter, dataset and variable
// references of analysis results by identifier.
func (g *Graph) BackfillAnalysisResults() error {
	var errs []error
	items := g.ItemIndex()

	for _, d := range g.SortedDisplays() {
		for _, r := range g.ResultsOf(d.Name) {
			if r.ParameterOID != "" {
				v, ok := items[r.ParameterOID]
				if !ok {
					errs = append(errs, &define.FieldError{
						Tag: "arm:AnalysisResult", Param: r.OID, Field: "ParameterOID", Variable: r.ParameterOID,
						Reason: define.ReasonUnresolved, Err: define.ErrUnresolvedReference,
					})
				} else {
					r.ParameterDataset = v.Dataset
				}
			}
			for _, a := range g.AnalysisDatasetsOf(d.Name, r.ID) {
				if g.DatasetByOID(a.ItemGroupOID) == nil {
					errs = append(errs, &define.FieldError{
						Tag: "arm:AnalysisDataset", Param: r.OID, Field: "ItemGroupOID", Dataset: a.Dataset,
						Reason: define.ReasonUnresolved, Err: define.ErrUnresolvedReference,
					})
				}
				for _, item := range a.VariableOIDs {
					if _, ok := items[item]; !ok {
						errs = append(errs, &define.FieldError{
							Tag: "arm:AnalysisVariable", Param: r.OID, Field: "ItemOID", Dataset: a.Dataset, Variable: item,
							Reason: define.ReasonUnresolved, Err: define.ErrUnresolvedReference,
						})
					}
				}
				if a.WhereClauseOID != "" {
					if _, ok := g.WhereClauses[a.WhereClauseOID]; !ok {
						errs = append(errs, &define.FieldError{
							Tag: "arm:AnalysisDataset", Param: a.WhereClauseOID, Field: "WhereClauseOID", Dataset: a.Dataset,
							Reason: define.ReasonUnresolved, Err: define.ErrUnresolvedReference,
						})
					}
				}
			}
		}
	}
	return errors.Join(errs...)
}

// DeriveFlags computes the derived dataset and variable flags:
// has-supplemental from the variables' supplemental markers, and the
// effective no-data state, which a child inherits from its ancestors.
func (g *Graph) DeriveFlags() {
	for _, d := range g.Datasets {
		d.HasSupplemental = model.No
		d.NoData = d.HasNoData.IsYes()
	}
	for _, v := range g.Variables {
		d, ok := g.Datasets[v.Dataset]
		if v.IsSupplemental.IsYes() && ok {
			d.HasSupplemental = model.Yes
		}
		v.NoData = v.HasNoData.IsYes() || (ok && d.NoData)
	}
	for _, val := range g.Values {
		owner := g.Variable(val.Dataset, val.Variable)
		val.NoData = val.HasNoData.IsYes() || (owner != nil && owner.NoData)
	}
}

func domainOf(d *model.Dataset) string {
	if d == nil {
		return ""
	}
	return d.Domain
}

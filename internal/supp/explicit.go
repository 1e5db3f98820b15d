package supp

import (
	"errors"

	"github.com/vvka-141/definegen/internal/graph"
	"github.com/vvka-141/definegen/internal/model"
	"github.com/vvka-141/definegen/internal/oid"
	"github.com/vvka-141/definegen/pkg/define"
)

// CanonicalizeExplicit folds literal SUPP-- datasets into supplemental
// variables of their parent datasets. Each QVAL value becomes a variable
// named after the QNAM its where clause selects, carrying the value's
// descriptive fields. The SUPP-- dataset, its variables, values and
// their where clauses are then removed.
//
// Where clause conditions must already be resolved (graph.BackfillValues).
func CanonicalizeExplicit(g *graph.Graph) error {
	if !g.Model.HasSupplementalQualifiers() {
		return nil
	}

	var errs []error
	for _, d := range g.SortedDatasets() {
		parent := parentOf(g, d)
		if parent == nil {
			continue
		}

		ordinal := maxOrdinal(g.VariablesOf(parent.Name))
		var converted []error
		for _, val := range valuesOf(g, d.Name, ColQVal) {
			name, ok := qualifierName(g, val)
			if !ok {
				converted = append(converted, &define.FieldError{
					Tag: "ItemRef", Dataset: d.Name, Variable: ColQVal, Value: val.Name,
					Field: "WhereClauseOID", Param: "no QNAM EQ condition",
					Reason: define.ReasonMissing, Err: define.ErrMissingValue,
				})
				continue
			}
			id, err := oid.Item(g.Model, parent.Name, parent.Domain, name)
			if err != nil {
				converted = append(converted, &define.FieldError{
					Tag: "ItemDef", Dataset: parent.Name, Variable: name, Reason: define.ReasonInvalid, Err: err,
				})
				continue
			}
			ordinal++
			v := g.PutVariable(&model.Variable{
				Dataset:        parent.Name,
				Name:           name,
				OID:            id,
				Ordinal:        ordinal,
				Descriptor:     val.Descriptor,
				DatasetOrdinal: parent.Ordinal,
			})
			v.IsSupplemental = model.Yes
		}
		if len(converted) > 0 {
			errs = append(errs, converted...)
			continue
		}
		g.RemoveDataset(d.Name)
	}
	return errors.Join(errs...)
}

// qualifierName returns the literal of the first QNAM EQ condition among
// the value's where clauses.
func qualifierName(g *graph.Graph, val *model.Value) (string, bool) {
	for _, ref := range val.WhereClauseOIDs {
		wc, ok := g.WhereClauses[ref]
		if !ok {
			continue
		}
		for _, c := range wc.Conditions {
			if c.Variable == ColQNam && c.Comparator == model.EQ && len(c.Values) == 1 && c.Values[0] != "" {
				return c.Values[0], true
			}
		}
	}
	return "", false
}

// valuesOf returns the values of one variable in ordinal order.
func valuesOf(g *graph.Graph, dataset, variable string) []*model.Value {
	var out []*model.Value
	for _, v := range g.SortedValues() {
		if v.Dataset == dataset && v.Variable == variable {
			out = append(out, v)
		}
	}
	return out
}

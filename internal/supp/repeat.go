package supp

import (
	"errors"
	"strconv"

	"github.com/vvka-141/definegen/internal/graph"
	"github.com/vvka-141/definegen/internal/model"
	"github.com/vvka-141/definegen/internal/oid"
	"github.com/vvka-141/definegen/pkg/define"
)

// Repeats of these columns stay in their own dataset.
var inlineRepeats = map[string]bool{"TSVAL": true, "COVAL": true}

// lengthStep is the storage assumed consumed by each earlier repetition.
const lengthStep = 200

// RepeatName returns the name of the i-th repetition of base, keeping
// within the 8 character variable name limit where possible.
func RepeatName(base string, i int) string {
	return truncateOrAppend(base, i, 8)
}

// RepeatLabel returns the label of the i-th repetition.
func RepeatLabel(label string, i int) string {
	return truncateOrAppend(label, i, 39)
}

func truncateOrAppend(s string, i, budget int) string {
	r := []rune(s)
	suffix := strconv.Itoa(i)
	switch {
	case len(r) >= budget && i >= 1 && i < 10:
		return string(r[:budget-1]) + suffix
	case len(r) == budget-1 && i >= 10 && i < 100:
		return string(r[:budget-3]) + suffix
	}
	return s + suffix
}

// RepeatLength returns the length of the i-th repetition. Unknown
// lengths stay unknown.
func RepeatLength(length, i int) int {
	if length <= 0 {
		return length
	}
	if n := length - lengthStep*i; n > 1 {
		return n
	}
	return 1
}

// ExpandRepeats replaces every repeat count with concrete variables.
// Repetitions of a subject-level variable become supplemental qualifiers
// unless the column is TSVAL or COVAL. When the input already declares
// the parent's SUPP-- dataset they are added there as QVAL values, to be
// folded back by CanonicalizeExplicit. Otherwise they are added to the
// parent dataset directly after the repeated variable, shifting later
// siblings.
func ExpandRepeats(g *graph.Graph) error {
	var errs []error
	for _, base := range g.SortedVariables() {
		if base.RepeatN <= 0 {
			continue
		}
		d, ok := g.Datasets[base.Dataset]
		if !ok {
			continue
		}
		n := base.RepeatN
		base.RepeatN = 0

		supplemental := g.Model.HasSupplementalQualifiers() && !inlineRepeats[base.Name]
		if supplemental {
			if explicit := explicitFor(g, d); explicit != nil && g.Variable(explicit.Name, ColQVal) != nil {
				if err := repeatAsValues(g, explicit, base, n); err != nil {
					errs = append(errs, err)
				}
				continue
			}
		}
		if err := repeatAsVariables(g, d, base, n, supplemental); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func repeatAsVariables(g *graph.Graph, d *model.Dataset, base *model.Variable, n int, supplemental bool) error {
	for _, v := range g.VariablesOf(d.Name) {
		if v != base && v.Ordinal > base.Ordinal {
			v.Ordinal += n
		}
	}
	for _, val := range g.Values {
		if val.Dataset == d.Name && val.VariableOrdinal > base.Ordinal {
			val.VariableOrdinal += n
		}
	}

	for i := 1; i <= n; i++ {
		name := RepeatName(base.Name, i)
		id, err := oid.Item(g.Model, d.Name, d.Domain, name)
		if err != nil {
			return repeatError(base, err)
		}
		v := &model.Variable{
			Dataset:        d.Name,
			Name:           name,
			OID:            id,
			Ordinal:        base.Ordinal + i,
			Descriptor:     repeatDescriptor(base.Descriptor, i),
			Role:           base.Role,
			IsSupplemental: model.FromBool(supplemental),
			DatasetOrdinal: base.DatasetOrdinal,
		}
		if supplemental {
			v.Role = ""
		}
		g.PutVariable(v)
	}
	return nil
}

func repeatAsValues(g *graph.Graph, explicit *model.Dataset, base *model.Variable, n int) error {
	vl, err := oid.ValueList(g.Model, explicit.Name, explicit.Domain, ColQVal)
	if err != nil {
		return repeatError(base, err)
	}
	qnam, err := oid.Item(g.Model, explicit.Name, explicit.Domain, ColQNam)
	if err != nil {
		return repeatError(base, err)
	}
	qval := g.Variable(explicit.Name, ColQVal)
	next := 0
	for _, existing := range g.ValuesOf(vl) {
		if existing.Ordinal > next {
			next = existing.Ordinal
		}
	}

	for i := 1; i <= n; i++ {
		name := RepeatName(base.Name, i)
		wcOID, err := oid.WhereClause(g.Model, explicit.Name, explicit.Domain, ColQVal, name, "")
		if err != nil {
			return repeatError(base, err)
		}
		valOID, err := oid.ValueItem(g.Model, explicit.Name, explicit.Domain, ColQVal, name)
		if err != nil {
			return repeatError(base, err)
		}
		g.PutWhereClause(&model.WhereClause{
			OID: wcOID,
			Conditions: []model.Condition{{
				ItemOID: qnam, Dataset: explicit.Name, Variable: ColQNam, Comparator: model.EQ, Values: []string{name},
			}},
		})
		g.PutValue(&model.Value{
			OID:             valOID,
			Dataset:         explicit.Name,
			Variable:        ColQVal,
			Name:            name,
			Ordinal:         next + i,
			Descriptor:      repeatDescriptor(base.Descriptor, i),
			WhereClauseOIDs: []string{wcOID},
			ValueListOID:    vl,
			DatasetOrdinal:  explicit.Ordinal,
			VariableOrdinal: qval.Ordinal,
		})
	}
	return nil
}

func repeatDescriptor(d model.Descriptor, i int) model.Descriptor {
	d.Label = RepeatLabel(d.Label, i)
	d.Length = RepeatLength(d.Length, i)
	return d
}

func repeatError(base *model.Variable, err error) error {
	return &define.FieldError{
		Tag: "ItemDef", Dataset: base.Dataset, Variable: base.Name, Field: "Repeat N",
		Reason: define.ReasonInvalid, Err: err,
	}
}

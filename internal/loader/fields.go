package loader

import (
	"strconv"
	"strings"

	"github.com/vvka-141/definegen/internal/model"
	"github.com/vvka-141/definegen/internal/oid"
	"github.com/vvka-141/definegen/internal/source"
	"github.com/vvka-141/definegen/pkg/define"
)

// Outcome is the result of reading one field.
type Outcome int

const (
	Present Outcome = iota
	Missing
	Malformed
)

// Lookup reads a column and classifies it. Blank values are Missing.
func Lookup(rec source.Record, column string) (string, Outcome) {
	v := rec.Get(column)
	if v == "" {
		return "", Missing
	}
	return v, Present
}

// ParseInt reads a base-10 integer column.
func ParseInt(rec source.Record, column string) (int, Outcome) {
	s, out := Lookup(rec, column)
	if out != Present {
		return 0, out
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil && f == float64(int(f)) {
			return int(f), Present
		}
		return 0, Malformed
	}
	return n, Present
}

// row reads the fields of one record and collects every failure with the
// row's location attached.
type row struct {
	table    string
	n        int
	rec      source.Record
	dataset  string
	variable string
	value    string
	errs     []error
}

func newRow(table string, n int, rec source.Record) *row {
	return &row{table: table, n: n, rec: rec}
}

func (r *row) fail(column string, reason define.Reason, param string, err error) {
	r.errs = append(r.errs, &define.FieldError{
		Table: r.table, Row: r.n, Field: column, Param: param,
		Dataset: r.dataset, Variable: r.variable, Value: r.value,
		Reason: reason, Err: err,
	})
}

// ok reports whether the row has produced no errors so far.
func (r *row) ok() bool { return len(r.errs) == 0 }

func (r *row) required(column string) string {
	v, out := Lookup(r.rec, column)
	if out == Missing {
		r.fail(column, define.ReasonMissing, "", define.ErrMissingValue)
	}
	return v
}

func (r *row) optional(column string) string {
	v, _ := Lookup(r.rec, column)
	return v
}

func (r *row) or(column, def string) string {
	if v, out := Lookup(r.rec, column); out == Present {
		return v
	}
	return def
}

func (r *row) integer(column string) int {
	n, out := ParseInt(r.rec, column)
	if out == Malformed {
		r.fail(column, define.ReasonMalformed, r.rec.Get(column), define.ErrMissingValue)
	}
	return n
}

func (r *row) yesNo(column string) model.YesNo {
	f, ok := model.ParseYesNo(r.rec.Get(column))
	if !ok {
		r.fail(column, define.ReasonMalformed, r.rec.Get(column), define.ErrMissingValue)
	}
	return f
}

func (r *row) comparator(column string) model.Comparator {
	c, ok := model.ParseComparator(r.rec.Get(column))
	if !ok {
		r.fail(column, define.ReasonMalformed, r.rec.Get(column), define.ErrMissingValue)
	}
	return c
}

// ident returns a sink for an OID builder result that records a
// construction failure against column.
func (r *row) ident(column string) func(string, error) string {
	return func(id string, err error) string {
		if err != nil {
			r.fail(column, define.ReasonInvalid, "", err)
			return ""
		}
		return id
	}
}

// ref builds an OID from an optional id column; blank gives "".
func (r *row) ref(column string, build func(string) (string, error)) string {
	id := r.optional(column)
	if id == "" {
		return ""
	}
	return r.ident(column)(build(id))
}

func (r *row) document(docColumn, pagesColumn, pageTypeColumn string) (model.DocumentRef, bool) {
	leaf := r.ref(docColumn, oid.Leaf)
	ref := model.DocumentRef{LeafOID: leaf, Pages: r.optional(pagesColumn), PageType: r.optional(pageTypeColumn)}
	if ref.LeafOID == "" && ref.Pages != "" {
		r.fail(docColumn, define.ReasonMissing, "pages given without a document", define.ErrMissingValue)
		return ref, false
	}
	if ref.PageType == "" && ref.Pages != "" {
		ref.PageType = "PhysicalRef"
	}
	return ref, !ref.IsZero()
}

func (r *row) standard(prefix string) model.StandardRef {
	return model.StandardRef{
		Name:          r.optional(prefix + " Name"),
		PublishingSet: r.optional(prefix + " Publishing Set"),
		Version:       r.optional(prefix + " Version"),
	}
}

// splitValues splits a multi-valued where clause literal list.
func splitValues(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "|") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

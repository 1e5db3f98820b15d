package source

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect abstracts identifier quoting and parameter placeholders for the
// SQL-backed readers.
type Dialect struct {
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
}

// QuoteIdent double-quotes an identifier, escaping embedded quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// BuildSelect renders a SELECT over table (already qualified and quoted)
// with the query's filters pushed down. De-duplication is left to
// Query.Apply so every backend keeps first-row-wins semantics.
func (d Dialect) BuildSelect(table string, q Query) (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT * FROM %s", table)

	args := make([]any, 0, len(q.Filters))
	for i, f := range q.Filters {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		op := "="
		if f.Op == OpNe {
			op = "<>"
		}
		args = append(args, strings.TrimSpace(f.Value))
		fmt.Fprintf(&b, "TRIM(COALESCE(CAST(%s AS TEXT), '')) %s %s", QuoteIdent(f.Column), op, d.Placeholder(len(args)))
	}
	return b.String(), args
}

// Stringify converts a scanned column value to its textual form.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

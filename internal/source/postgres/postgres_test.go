package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/definegen/internal/source"
)

func TestSelectQuery(t *testing.T) {
	q := source.Query{Filters: []source.Filter{source.Eq("Dataset", "AE"), source.Ne("Value Name", "")}}
	sql, args := selectQuery("meta", "Value", q)

	assert.Equal(t,
		`SELECT * FROM "meta"."Value" WHERE TRIM(COALESCE(CAST("Dataset" AS TEXT), '')) = $1 AND TRIM(COALESCE(CAST("Value Name" AS TEXT), '')) <> $2`,
		sql)
	assert.Equal(t, []any{"AE", ""}, args)
}

func TestNewDefaultsSchema(t *testing.T) {
	assert.Equal(t, DefaultSchema, New(nil, "").schema)
	assert.Equal(t, "meta", New(nil, "meta").schema)
	assert.NoError(t, New(nil, "").Close())
}

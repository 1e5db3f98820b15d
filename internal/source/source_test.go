package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/definegen/pkg/define"
)

func TestQueryApply(t *testing.T) {
	rows := []Record{
		{"Dataset Name": "DM", "Variable Name": "AGE", "Label": "Age"},
		{"Dataset Name": "DM", "Variable Name": "AGE", "Label": "Age (later)"},
		{"Dataset Name": "AE", "Variable Name": "AETERM"},
		{"Dataset Name": " ", "Variable Name": "X"},
	}

	got := Query{Filters: []Filter{Ne("Dataset Name", "")}}.Apply(rows)
	assert.Len(t, got, 3)

	got = Query{Filters: []Filter{Eq("Dataset Name", "DM")}, Unique: []string{"Dataset Name", "Variable Name"}}.Apply(rows)
	require.Len(t, got, 1)
	assert.Equal(t, "Age", got[0]["Label"], "first occurrence wins")
}

func TestMemoryReader(t *testing.T) {
	r := NewMemory(map[string][]Record{"study": {{"Property": "StudyName", "Value": "X"}}})
	defer r.Close()

	rows, err := r.Read(context.Background(), TableStudy, Query{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = r.Read(context.Background(), TableVariable, Query{})
	assert.True(t, errors.Is(err, define.ErrMissingTable))
}

func TestWithTableNames(t *testing.T) {
	mem := NewMemory(map[string][]Record{"vars": {{"Variable Name": "AGE"}}})
	r := WithTableNames(mem, map[string]string{"variable": "vars"})

	rows, err := r.Read(context.Background(), TableVariable, Query{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	assert.Same(t, mem, WithTableNames(mem, nil))
}

func TestRecordGet(t *testing.T) {
	r := Record{"Label": "  Age  "}
	assert.Equal(t, "Age", r.Get("Label"))
	assert.Equal(t, "", r.Get("Missing"))
	assert.True(t, r.Has("Label"))
	assert.False(t, r.Has("Missing"))
}

func TestRequired(t *testing.T) {
	assert.True(t, Required(TableVariable))
	assert.False(t, Required(TableCodelist))
}

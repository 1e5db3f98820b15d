package model

import (
	"fmt"
	"reflect"
	"strings"
)

// MergeNonEmpty copies every field of src into dst whose value in dst is
// the zero value and whose value in src is not. Fields tagged merge:"-"
// are identity or derived fields and are never touched. Embedded structs
// and struct-valued fields are merged field by field; slices are copied
// only when dst's slice is empty.
//
// T must be a struct type; MergeNonEmpty panics otherwise.
func MergeNonEmpty[T any](dst, src *T) {
	dv, sv := reflect.ValueOf(dst).Elem(), reflect.ValueOf(src).Elem()
	if dv.Kind() != reflect.Struct {
		panic(fmt.Sprintf("model: MergeNonEmpty on non-struct type %T", dst))
	}
	mergeStruct(dv, sv)
}

func mergeStruct(dst, src reflect.Value) {
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("merge") == "-" {
			continue
		}
		df, sf := dst.Field(i), src.Field(i)
		if f.Type.Kind() == reflect.Struct {
			mergeStruct(df, sf)
			continue
		}
		if isEmpty(df) && !isEmpty(sf) {
			df.Set(sf)
		}
	}
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}

func normalizeToken(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

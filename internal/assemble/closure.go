package assemble

import (
	"errors"

	"github.com/vvka-141/definegen/internal/xmltree"
	"github.com/vvka-141/definegen/pkg/define"
)

// definitions maps element names to the attribute carrying their identifier.
var definitions = map[string]string{
	"ItemGroupDef":       "OID",
	"ItemDef":            "OID",
	"CodeList":           "OID",
	"MethodDef":          "OID",
	"def:CommentDef":     "OID",
	"def:ValueListDef":   "OID",
	"def:WhereClauseDef": "OID",
	"def:Standard":       "OID",
	"def:leaf":           "ID",
	"arm:ResultDisplay":  "OID",
	"arm:AnalysisResult": "OID",
}

// references lists every attribute that refers to a definition.
var references = []string{
	"ItemOID", "def:ItemOID", "CodeListOID", "MethodOID", "def:CommentOID",
	"ValueListOID", "WhereClauseOID", "leafID", "def:StandardOID",
	"ParameterOID", "ItemGroupOID", "def:ArchiveLocationID",
}

// prunable are the kinds that must be referenced at least once.
var prunable = []string{KindCodelist, KindMethod, KindComment}

// CheckClosure verifies that every reference in the document resolves to
// a definition in the same document, and that no codelist, method or
// comment is left unreferenced. All violations are reported together.
func CheckClosure(root *xmltree.Element) error {
	defined := make(map[string]bool)
	referenced := make(map[string]bool)
	root.Walk(func(e *xmltree.Element) {
		if attr, ok := definitions[e.Name]; ok {
			if id, ok := e.Get(attr); ok {
				defined[id] = true
			}
		}
		for _, attr := range references {
			if id, ok := e.Get(attr); ok {
				referenced[id] = true
			}
		}
	})

	var errs []error
	root.Walk(func(e *xmltree.Element) {
		for _, attr := range references {
			if id, ok := e.Get(attr); ok && !defined[id] {
				errs = append(errs, &define.FieldError{
					Tag: e.Name, Field: attr, Param: id,
					Reason: define.ReasonUnresolved, Err: define.ErrUnresolvedReference,
				})
			}
		}
	})
	root.Walk(func(e *xmltree.Element) {
		for _, kind := range prunable {
			if e.Name != kind {
				continue
			}
			if id, _ := e.Get("OID"); !referenced[id] {
				errs = append(errs, &define.FieldError{
					Tag: e.Name, Field: "OID", Param: id + " is never referenced",
					Reason: define.ReasonInvalid, Err: define.ErrUnresolvedReference,
				})
			}
		}
	})
	return errors.Join(errs...)
}

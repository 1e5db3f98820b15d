package graph

import (
	"errors"

	"github.com/vvka-141/definegen/pkg/define"
)

type refChecker struct {
	g    *Graph
	errs []error
}

func (c *refChecker) fail(tag, field, ref string, ctx define.FieldError) {
	ctx.Tag = tag
	ctx.Field = field
	if ctx.Param != "" {
		ctx.Param += " -> " + ref
	} else {
		ctx.Param = ref
	}
	ctx.Reason = define.ReasonUnresolved
	ctx.Err = define.ErrUnresolvedReference
	c.errs = append(c.errs, &ctx)
}

func (c *refChecker) comment(tag, ref string, ctx define.FieldError) {
	if ref == "" {
		return
	}
	if _, ok := c.g.Comments[ref]; !ok {
		c.fail(tag, "CommentOID", ref, ctx)
	}
}

func (c *refChecker) method(tag, ref string, ctx define.FieldError) {
	if ref == "" {
		return
	}
	if _, ok := c.g.Methods[ref]; !ok {
		c.fail(tag, "MethodOID", ref, ctx)
	}
}

func (c *refChecker) leaf(tag, ref string, ctx define.FieldError) {
	if ref == "" {
		return
	}
	if c.g.DocumentByLeaf(ref) == nil {
		c.fail(tag, "leafID", ref, ctx)
	}
}

func (c *refChecker) standard(tag, ref string, ctx define.FieldError) {
	if ref == "" {
		return
	}
	if c.g.StandardByOID(ref) == nil {
		c.fail(tag, "StandardOID", ref, ctx)
	}
}

// ValidateReferences checks that every stored reference resolves to an
// entity in the graph. All failures are reported together.
func (g *Graph) ValidateReferences() error {
	c := &refChecker{g: g}

	c.comment("MetaDataVersion", g.Study.CommentOID, define.FieldError{})

	for _, s := range g.SortedStandards() {
		c.comment("def:Standard", s.CommentOID, define.FieldError{Param: s.OID})
	}

	for _, d := range g.SortedDatasets() {
		ctx := define.FieldError{Dataset: d.Name}
		c.comment("ItemGroupDef", d.CommentOID, ctx)
		c.standard("ItemGroupDef", d.StandardOID, ctx)
	}

	for _, v := range g.SortedVariables() {
		ctx := define.FieldError{Dataset: v.Dataset, Variable: v.Name}
		if _, ok := g.Datasets[v.Dataset]; !ok {
			c.fail("ItemRef", "Dataset Name", v.Dataset, ctx)
		}
		if v.Codelist != "" && !g.CodelistDefined(v.Codelist) {
			c.fail("ItemDef", "CodeListOID", v.Codelist, ctx)
		}
		c.method("ItemRef", v.MethodOID, ctx)
		c.comment("ItemDef", v.CommentOID, ctx)
		c.leaf("def:Origin", v.Origin.Pages.LeafOID, ctx)
	}

	for _, v := range g.SortedValues() {
		ctx := define.FieldError{Dataset: v.Dataset, Variable: v.Variable, Value: v.Name}
		if v.Codelist != "" && !g.CodelistDefined(v.Codelist) {
			c.fail("ItemDef", "CodeListOID", v.Codelist, ctx)
		}
		c.method("ItemRef", v.MethodOID, ctx)
		c.comment("ItemDef", v.CommentOID, ctx)
		c.leaf("def:Origin", v.Origin.Pages.LeafOID, ctx)
		for _, wc := range v.WhereClauseOIDs {
			if _, ok := g.WhereClauses[wc]; !ok {
				c.fail("def:WhereClauseRef", "WhereClauseOID", wc, ctx)
			}
		}
	}

	for _, w := range g.SortedWhereClauses() {
		c.comment("def:WhereClauseDef", w.CommentOID, define.FieldError{Param: w.OID})
	}

	for _, cl := range g.SortedCodelists() {
		ctx := define.FieldError{Param: cl.OID}
		c.comment("CodeList", cl.CommentOID, ctx)
		c.standard("CodeList", cl.StandardOID, ctx)
	}

	for _, m := range g.SortedMethods() {
		for _, ref := range m.Documents {
			c.leaf("MethodDef", ref.LeafOID, define.FieldError{Param: m.OID})
		}
	}

	for _, cm := range g.SortedComments() {
		for _, ref := range cm.Documents {
			c.leaf("def:CommentDef", ref.LeafOID, define.FieldError{Param: cm.OID})
		}
	}

	for _, d := range g.SortedDisplays() {
		for _, ref := range d.Documents {
			c.leaf("arm:ResultDisplay", ref.LeafOID, define.FieldError{Param: d.OID})
		}
		for _, r := range g.ResultsOf(d.Name) {
			ctx := define.FieldError{Param: r.OID}
			c.comment("arm:AnalysisDatasets", r.DatasetsCommentOID, ctx)
			for _, ref := range r.DocumentationRefs {
				c.leaf("arm:Documentation", ref.LeafOID, ctx)
			}
			for _, ref := range r.ProgrammingRefs {
				c.leaf("arm:ProgrammingCode", ref.LeafOID, ctx)
			}
		}
	}

	return errors.Join(c.errs...)
}

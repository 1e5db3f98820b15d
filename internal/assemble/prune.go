package assemble

import (
	"github.com/vvka-141/definegen/internal/graph"
	"github.com/vvka-141/definegen/internal/model"
	"github.com/vvka-141/definegen/internal/supp"
	"github.com/vvka-141/definegen/pkg/define"
)

// Kinds of prunable definitions.
const (
	KindCodelist = "CodeList"
	KindMethod   = "MethodDef"
	KindComment  = "def:CommentDef"
)

// Orphan is a definition dropped because nothing emitted refers to it.
type Orphan struct {
	Kind string `json:"kind"`
	OID  string `json:"oid"`
}

// Reachable holds the identifiers of the prunable definitions that are
// referenced from the emitted document. Codelists are keyed by their
// input ID, methods and comments by OID.
type Reachable struct {
	Codelists map[string]bool
	Methods   map[string]bool
	Comments  map[string]bool
	Orphans   []Orphan
}

// Prune computes the referenced codelists, methods and comments and
// reports the rest as orphans, one warning per dropped definition.
// Definitions without data are not scanned when the profile leaves them
// out.
func Prune(g *graph.Graph, r *supp.Rendered, logger define.Logger) *Reachable {
	return prune(newView(g, r), logger)
}

func prune(v *view, logger define.Logger) *Reachable {
	g := v.g
	keep := &Reachable{
		Codelists: make(map[string]bool),
		Methods:   make(map[string]bool),
		Comments:  make(map[string]bool),
	}
	comment := func(oid string) {
		if oid != "" {
			keep.Comments[oid] = true
		}
	}
	descriptor := func(d model.Descriptor) {
		if d.Codelist != "" {
			keep.Codelists[d.Codelist] = true
		}
		if d.MethodOID != "" {
			keep.Methods[d.MethodOID] = true
		}
		comment(d.CommentOID)
	}

	if g.Profile.MetaDataVersionComment() {
		comment(g.Study.CommentOID)
	}
	if g.Profile.HasStandardsCatalogue() {
		for _, s := range g.SortedStandards() {
			comment(s.CommentOID)
		}
	}
	for _, d := range v.datasets {
		comment(d.CommentOID)
	}
	for _, x := range v.variables() {
		descriptor(x.Descriptor)
	}
	for _, x := range v.referenced {
		descriptor(x.Descriptor)
	}
	for _, x := range v.values() {
		descriptor(x.Descriptor)
	}
	for _, wc := range v.whereClauses {
		comment(wc.CommentOID)
	}
	if v.arm {
		for _, res := range g.Results {
			comment(res.DatasetsCommentOID)
		}
	}
	if g.Profile.CodelistComment() {
		for _, cl := range g.SortedCodelists() {
			if keep.Codelists[cl.ID] {
				comment(cl.CommentOID)
			}
		}
	}

	report := func(kind, oid string) {
		keep.Orphans = append(keep.Orphans, Orphan{Kind: kind, OID: oid})
		logger.Warn("Dropping unreferenced %s %s", kind, oid)
	}
	for _, cl := range g.SortedCodelists() {
		if !keep.Codelists[cl.ID] {
			report(KindCodelist, cl.OID)
		}
	}
	for _, d := range g.SortedDictionaries() {
		if !keep.Codelists[d.ID] {
			report(KindCodelist, d.OID)
		}
	}
	for _, m := range g.SortedMethods() {
		if !keep.Methods[m.OID] {
			report(KindMethod, m.OID)
		}
	}
	for _, c := range g.SortedComments() {
		if !keep.Comments[c.OID] {
			report(KindComment, c.OID)
		}
	}
	return keep
}

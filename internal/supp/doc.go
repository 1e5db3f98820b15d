// Package supp derives supplemental qualifiers.
//
// The graph keeps one shape for a non-standard variable: a Variable on its
// parent dataset flagged IsSupplemental. CanonicalizeExplicit turns literal
// SUPP-- rows of the input into that shape, ExpandRepeats produces it from
// repeat counts, and Synthesize renders the SUPP-- datasets back out of it
// without touching the graph.
package supp

import (
	"strings"

	"github.com/vvka-141/definegen/internal/graph"
	"github.com/vvka-141/definegen/internal/model"
)

// Qualifier column names of a SUPP-- dataset.
const (
	ColStudyID  = "STUDYID"
	ColRDomain  = "RDOMAIN"
	ColUSubjID  = "USUBJID"
	ColIDVar    = "IDVAR"
	ColIDVarVal = "IDVARVAL"
	ColQNam     = "QNAM"
	ColQLabel   = "QLABEL"
	ColQVal     = "QVAL"
	ColQOrig    = "QORIG"
	ColQEval    = "QEVAL"
)

// Columns lists the qualifier columns in dataset order.
var Columns = []string{ColStudyID, ColRDomain, ColUSubjID, ColIDVar, ColIDVarVal, ColQNam, ColQLabel, ColQVal, ColQOrig, ColQEval}

// Prefix starts the name of every supplemental qualifier dataset.
const Prefix = "SUPP"

// DatasetName returns the supplemental dataset name for a parent dataset.
func DatasetName(parent *model.Dataset) string {
	return Prefix + parent.DomainOrName()
}

// parentOf finds the dataset a SUPP-- dataset qualifies.
func parentOf(g *graph.Graph, supp *model.Dataset) *model.Dataset {
	if !strings.HasPrefix(supp.Name, Prefix) || len(supp.Name) == len(Prefix) {
		return nil
	}
	for _, d := range g.SortedDatasets() {
		if d.Name != supp.Name && DatasetName(d) == supp.Name {
			return d
		}
	}
	return nil
}

// explicitFor returns the literal SUPP-- dataset of parent, if the input declares one.
func explicitFor(g *graph.Graph, parent *model.Dataset) *model.Dataset {
	if strings.HasPrefix(parent.Name, Prefix) {
		return nil
	}
	return g.Datasets[DatasetName(parent)]
}

func maxOrdinal(vs []*model.Variable) int {
	n := 0
	for _, v := range vs {
		if v.Ordinal > n {
			n = v.Ordinal
		}
	}
	return n
}

// Command owl2go-bench is a thin harness over the Query Facade: it
// builds a synthetic ontology entirely through reasoner's entity
// builders — concrete syntax parsing is out of scope for the core, so
// this harness never opens a file — classifies it, and prints timing,
// playing the same role the teacher's main.go played for
// ontology.ParseOBO/ParseOWL, now pointed at classification instead of
// format conversion.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/anusornc/owl2go/axiom"
	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
	"github.com/anusornc/owl2go/internal/obs"
	"github.com/anusornc/owl2go/reasoner"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		classCount int
		branching  int
		seed       int64
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "owl2go-bench",
		Short: "Classify a synthetic ontology and report timing",
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []reasoner.Option
			if verbose {
				opts = append(opts, reasoner.WithLogger(obs.NewDevelopment()))
			}
			r := reasoner.New(opts...)

			buildStart := time.Now()
			if err := buildSyntheticOntology(r, classCount, branching, seed); err != nil {
				return err
			}
			buildElapsed := time.Since(buildStart)

			ctx := context.Background()

			consistentStart := time.Now()
			consistent, err := r.IsConsistent(ctx)
			if err != nil {
				return err
			}
			consistentElapsed := time.Since(consistentStart)

			classifyStart := time.Now()
			hierarchy, err := r.Classify(ctx)
			if err != nil {
				return err
			}
			classifyElapsed := time.Since(classifyStart)

			roots := hierarchy.DirectChildren(entity.Thing)

			fmt.Printf("classes:        %d\n", classCount)
			fmt.Printf("consistent:     %v\n", consistent)
			fmt.Printf("top-level:      %d\n", len(roots))
			fmt.Printf("build time:     %v\n", buildElapsed)
			fmt.Printf("consistency:    %v\n", consistentElapsed)
			fmt.Printf("classify time:  %v\n", classifyElapsed)
			return nil
		},
	}

	cmd.Flags().IntVar(&classCount, "classes", 200, "number of synthetic named classes")
	cmd.Flags().IntVar(&branching, "branching", 3, "approximate branching factor of the synthetic hierarchy")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for the synthetic ontology generator")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable development logging")

	return cmd
}

// buildSyntheticOntology grows a random tree-shaped class hierarchy
// plus a handful of existential restrictions, enough to exercise both
// the equivalence-class rule and the existential rule during
// classification without requiring an external ontology file.
func buildSyntheticOntology(r *reasoner.Reasoner, classCount, branching int, seed int64) error {
	if classCount < 1 {
		classCount = 1
	}
	rng := rand.New(rand.NewSource(seed))

	classIRIs := make([]string, classCount)
	for i := range classIRIs {
		classIRIs[i] = fmt.Sprintf("urn:owl2go-bench:C%d", i)
	}

	ids := make([]entity.ClassID, classCount)
	for i, iriStr := range classIRIs {
		c, err := r.Class(iriStr)
		if err != nil {
			return err
		}
		ids[i] = c
	}

	relProp, err := r.ObjectProperty("urn:owl2go-bench:relatesTo")
	if err != nil {
		return err
	}
	rel := expr.ObjectPropertyExpr{Property: relProp}

	arena := r.Arena()
	for i := 1; i < classCount; i++ {
		window := branching
		if window > i {
			window = i
		}
		parent := ids[i-1-rng.Intn(window)]
		sub := arena.NamedClass(ids[i])
		sup := arena.NamedClass(parent)
		if err := r.AddAxiom(axiom.SubClassOf{Sub: sub, Sup: sup}); err != nil {
			return err
		}
		if i%5 == 0 {
			filler := arena.NamedClass(ids[rng.Intn(classCount)])
			restriction := arena.ObjectSomeValuesFrom(rel, filler)
			if err := r.AddAxiom(axiom.SubClassOf{Sub: sub, Sup: restriction}); err != nil {
				return err
			}
		}
	}
	return nil
}

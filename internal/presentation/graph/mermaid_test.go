package graph_test

import (
	"strings"
	"testing"

	"github.com/counciltech/intake/internal/presentation/graph"
	"github.com/counciltech/intake/pkg/catalog"
	"github.com/counciltech/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(catalog.Procurement())

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	// Root renders as a circle
	assert.Contains(t, out, `existing_arrangement(("Does an existing arrangement exist for this contract?"))`)
	// Non-root questions render as parallelograms
	assert.Contains(t, out, `procurement_value[/"What is the value of the procurement?"/]`)
	// Options label the edges
	assert.Contains(t, out, `existing_arrangement -- "No" --> procurement_value`)
	// Terminal answers become their own nodes
	assert.Contains(t, out, `"Use a Goods and Services Contract."`)
}

func TestGenerateMermaid_DefectiveOption(t *testing.T) {
	cat := catalog.New(catalog.Catalog{
		Root: "broken",
		Nodes: []domain.DecisionNode{
			{Name: "broken", Question: "Pick?", Options: []domain.DecisionOption{{Label: "Dead End"}}},
		},
	})

	out := graph.GenerateMermaid(cat)
	assert.Contains(t, out, "no outcome")
}

func TestGenerateMermaid_EscapesQuotes(t *testing.T) {
	cat := catalog.New(catalog.Catalog{
		Root: "q",
		Nodes: []domain.DecisionNode{
			{Name: "q", Question: `Say "yes"?`, Options: []domain.DecisionOption{{Label: "Yes", TerminalAnswer: "Done."}}},
		},
	})

	out := graph.GenerateMermaid(cat)
	assert.NotContains(t, out, `Say "yes"?`)
	assert.Contains(t, out, "Say 'yes'?")
}

// Package graph renders the decision tree as a Mermaid flowchart for
// catalog review.
package graph

import (
	"fmt"
	"strings"

	"github.com/counciltech/intake/pkg/catalog"
)

// GenerateMermaid produces Mermaid flowchart syntax for a catalog's decision
// tree. Questions render as parallelograms, terminal answers as rounded
// boxes, and the root as a circle; options label the edges.
func GenerateMermaid(cat *catalog.Catalog) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	terminals := 0
	for _, node := range cat.Nodes {
		safeID := sanitizeMermaidID(node.Name)

		opener, closer := "[/", "/]"
		if node.Name == cat.Root {
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeMermaid(node.Question), closer)

		for _, opt := range node.Options {
			label := escapeMermaid(opt.Label)
			switch {
			case opt.IsTerminal():
				terminals++
				termID := fmt.Sprintf("answer_%d", terminals)
				fmt.Fprintf(&sb, "    %s(\"%s\")\n", termID, escapeMermaid(opt.TerminalAnswer))
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, label, termID)
			case opt.NextNode != "":
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, label, sanitizeMermaidID(opt.NextNode))
			default:
				// Defective option; show it so the authoring bug is visible
				fmt.Fprintf(&sb, "    %s -. \"%s (no outcome)\" .-> %s\n", safeID, label, safeID)
			}
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

func escapeMermaid(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

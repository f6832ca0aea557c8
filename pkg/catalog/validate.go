package catalog

import (
	"fmt"
	"strings"
)

// Validate walks the decision tree from the root and collects authoring
// defects: a missing root, options pointing at nodes that do not exist,
// options with both or neither of terminal answer / next node, duplicate
// node names, and nodes unreachable from the root.
func (c *Catalog) Validate() error {
	var errs []string

	if c.Root == "" {
		errs = append(errs, "root node is not set")
	} else if c.Node(c.Root) == nil {
		errs = append(errs, fmt.Sprintf("root node '%s' not found", c.Root))
	}

	seen := make(map[string]bool, len(c.Nodes))
	for _, n := range c.Nodes {
		if seen[n.Name] {
			errs = append(errs, fmt.Sprintf("duplicate node name '%s'", n.Name))
		}
		seen[n.Name] = true

		if len(n.Options) == 0 {
			errs = append(errs, fmt.Sprintf("node '%s' has no options", n.Name))
		}
		for _, o := range n.Options {
			switch {
			case o.TerminalAnswer != "" && o.NextNode != "":
				errs = append(errs, fmt.Sprintf("option '%s' on node '%s' has both a terminal answer and a next node", o.Label, n.Name))
			case o.TerminalAnswer == "" && o.NextNode == "":
				errs = append(errs, fmt.Sprintf("option '%s' on node '%s' has neither a terminal answer nor a next node", o.Label, n.Name))
			case o.NextNode != "" && c.Node(o.NextNode) == nil:
				errs = append(errs, fmt.Sprintf("option '%s' on node '%s' points at missing node '%s'", o.Label, n.Name, o.NextNode))
			}
		}
	}

	seenSlot := make(map[string]bool, len(c.Slots))
	for _, s := range c.Slots {
		if seenSlot[s.Name] {
			errs = append(errs, fmt.Sprintf("duplicate slot name '%s'", s.Name))
		}
		seenSlot[s.Name] = true
	}

	// Reachability crawl. Only meaningful when the root resolves.
	if c.Root != "" && c.Node(c.Root) != nil {
		visited := make(map[string]bool)
		queue := []string{c.Root}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			if visited[current] {
				continue
			}
			visited[current] = true

			node := c.Node(current)
			if node == nil {
				continue // already reported above
			}
			for _, o := range node.Options {
				if o.NextNode != "" && !visited[o.NextNode] {
					queue = append(queue, o.NextNode)
				}
			}
		}
		for _, n := range c.Nodes {
			if !visited[n.Name] {
				errs = append(errs, fmt.Sprintf("node '%s' is unreachable from root", n.Name))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errs), strings.Join(errs, "\n- "))
	}
	return nil
}

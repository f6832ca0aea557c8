// Package catalog holds the process-wide immutable conversation data: the
// decision tree, the slot specifications, and the greeting/farewell phrase
// sets. A catalog is built once at startup (built-in or loaded from YAML)
// and never mutated, so it needs no locking.
package catalog

import (
	"strings"

	"github.com/counciltech/intake/pkg/domain"
)

// TriggerStartOver is the one literal phrase that, when a final result is
// already archived for the user, returns the previous selections and
// analysis instead of running the engine. Deliberately a narrow special
// case; do not generalize its matching rule without product review.
const TriggerStartOver = "start over"

// Catalog is the full static configuration of one assistant.
type Catalog struct {
	// Root is the name of the entry decision node.
	Root string `yaml:"root"`

	// Nodes in declared order. Lookup goes through the index built by New.
	Nodes []domain.DecisionNode `yaml:"nodes"`

	// Slots in declared fill order (slot-filling mode).
	Slots []domain.SlotSpec `yaml:"slots"`

	// Greetings and Farewells are closed exact-match sets, compared
	// case/space-insensitively.
	Greetings []string `yaml:"greetings"`
	Farewells []string `yaml:"farewells"`

	index map[string]*domain.DecisionNode
}

// New builds the node index. Catalogs constructed by hand or by the YAML
// loader must pass through here before use.
func New(c Catalog) *Catalog {
	c.index = make(map[string]*domain.DecisionNode, len(c.Nodes))
	for i := range c.Nodes {
		c.index[c.Nodes[i].Name] = &c.Nodes[i]
	}
	return &c
}

// Node returns the named decision node, or nil if it does not exist.
func (c *Catalog) Node(name string) *domain.DecisionNode {
	return c.index[name]
}

// Slot returns the named slot spec, or nil.
func (c *Catalog) Slot(name string) *domain.SlotSpec {
	for i := range c.Slots {
		if c.Slots[i].Name == name {
			return &c.Slots[i]
		}
	}
	return nil
}

// IsGreeting reports whether the message is exactly one of the configured
// greeting phrases, ignoring case and surrounding space.
func (c *Catalog) IsGreeting(message string) bool {
	return containsPhrase(c.Greetings, message)
}

// IsFarewell reports whether the message is exactly one of the configured
// farewell phrases.
func (c *Catalog) IsFarewell(message string) bool {
	return containsPhrase(c.Farewells, message)
}

func containsPhrase(phrases []string, message string) bool {
	msg := strings.ToLower(strings.TrimSpace(message))
	for _, p := range phrases {
		if msg == strings.ToLower(strings.TrimSpace(p)) {
			return true
		}
	}
	return false
}

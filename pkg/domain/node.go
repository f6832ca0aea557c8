package domain

// NumericRange describes the value band an option covers when its node asks
// a numeric question (e.g. procurement value). Bounds are inclusive on Min
// and exclusive on Max. A zero Max means "no upper bound".
type NumericRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Contains reports whether v falls inside the range.
func (r NumericRange) Contains(v float64) bool {
	if v < r.Min {
		return false
	}
	if r.Max == 0 {
		return true
	}
	return v < r.Max
}

// DecisionOption is a single answer a user can give at a node.
//
// Exactly one of TerminalAnswer or NextNode must be set. An option with
// neither is a data-authoring defect: the validator rejects it at startup
// and the engine reports it as a diagnostic rather than crashing.
type DecisionOption struct {
	Label          string        `json:"label" yaml:"label"`
	TerminalAnswer string        `json:"terminal_answer,omitempty" yaml:"terminal_answer,omitempty"`
	NextNode       string        `json:"next_node,omitempty" yaml:"next_node,omitempty"`
	Range          *NumericRange `json:"range,omitempty" yaml:"range,omitempty"`
}

// IsTerminal reports whether choosing this option ends the workflow.
func (o DecisionOption) IsTerminal() bool {
	return o.TerminalAnswer != ""
}

// DecisionNode is one question in the decision tree. Nodes form a directed
// graph keyed by Name; options either terminate with an answer or point to
// the next node.
type DecisionNode struct {
	Name     string           `json:"name" yaml:"name"`
	Question string           `json:"question" yaml:"question"`
	Options  []DecisionOption `json:"options" yaml:"options"`
}

// Numeric reports whether any option on this node declares a value range,
// which enables numeric token matching for free-form answers like "25k".
func (n DecisionNode) Numeric() bool {
	for _, o := range n.Options {
		if o.Range != nil {
			return true
		}
	}
	return false
}

// Labels returns the option labels in declared order.
func (n DecisionNode) Labels() []string {
	labels := make([]string, len(n.Options))
	for i, o := range n.Options {
		labels[i] = o.Label
	}
	return labels
}

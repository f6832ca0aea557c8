package runtime

import (
	"context"
	"strconv"
	"strings"

	"github.com/counciltech/intake/pkg/domain"
	"github.com/counciltech/intake/pkg/ports"
)

// matchOption resolves an utterance against a node's options. Rules apply in
// order, first match wins: exact case-insensitive equality, case-insensitive
// substring containment, numeric-range token (numeric nodes only), then the
// understanding service with the options as a closed candidate list.
//
// A service failure is logged and treated as no match; it never aborts the
// turn.
func (e *Engine) matchOption(ctx context.Context, node *domain.DecisionNode, utterance string) *domain.DecisionOption {
	if opt := matchLocal(node, utterance); opt != nil {
		return opt
	}

	label, err := e.llm.MatchOption(ctx, node.Labels(), utterance)
	if err != nil {
		e.logger.Error("option match service call failed", "node", node.Name, "err", err)
		return nil
	}
	if label == ports.NoMatch {
		return nil
	}
	return optionByLabel(node, label)
}

// matchLocal applies the deterministic rules only. Used for values proposed
// by bulk extraction, where a service round-trip per node would be wasteful.
func matchLocal(node *domain.DecisionNode, utterance string) *domain.DecisionOption {
	lowered := strings.ToLower(strings.TrimSpace(utterance))
	if lowered == "" {
		return nil
	}

	for i, opt := range node.Options {
		if strings.ToLower(opt.Label) == lowered {
			return &node.Options[i]
		}
	}

	for i, opt := range node.Options {
		if strings.Contains(lowered, strings.ToLower(opt.Label)) {
			return &node.Options[i]
		}
	}

	if node.Numeric() {
		if value, ok := parseNumericToken(utterance); ok {
			for i, opt := range node.Options {
				if opt.Range != nil && opt.Range.Contains(value) {
					return &node.Options[i]
				}
			}
		}
	}

	return nil
}

// optionByLabel finds the option with the given label, case-insensitively.
func optionByLabel(node *domain.DecisionNode, label string) *domain.DecisionOption {
	for i, opt := range node.Options {
		if strings.EqualFold(opt.Label, label) {
			return &node.Options[i]
		}
	}
	return nil
}

// parseNumericToken scans the utterance for the first numeric token,
// tolerating a "$" prefix, thousands separators, and a trailing "k"
// multiplier ("25k" reads as 25000).
func parseNumericToken(utterance string) (float64, bool) {
	for _, token := range strings.Fields(utterance) {
		cleaned := strings.Trim(token, ".,;:!?")
		cleaned = strings.TrimPrefix(cleaned, "$")
		cleaned = strings.ReplaceAll(cleaned, ",", "")

		multiplier := 1.0
		if len(cleaned) > 1 {
			if last := cleaned[len(cleaned)-1]; last == 'k' || last == 'K' {
				multiplier = 1000
				cleaned = cleaned[:len(cleaned)-1]
			}
		}

		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		return value * multiplier, true
	}
	return 0, false
}

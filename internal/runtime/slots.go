package runtime

import (
	"context"
	"regexp"
	"strings"

	"github.com/counciltech/intake/pkg/domain"
)

// slotsTurn handles one message in slot-filling mode: a bare yes/no fast
// path for the pending slot, then bulk extraction, then direct normalization
// of the utterance against the pending slot.
func (e *Engine) slotsTurn(ctx context.Context, userID string, sess *domain.Session, text string) string {
	committed := false

	// A bare yes/no answer to a pending yes/no slot needs no service
	// round-trip at all.
	if pending := e.pendingSlot(sess); pending != nil && pending.Kind == domain.SlotYesNo {
		if value, ok := parseYesNo(text); ok {
			sess.Answers[pending.Name] = value
			committed = true
		}
	}

	if !committed {
		committed = e.bulkSlotExtract(ctx, sess, text)
	}

	if !committed {
		if pending := e.pendingSlot(sess); pending != nil {
			if value, ok := normalizeSlot(pending, text); ok {
				sess.Answers[pending.Name] = value
				committed = true
			}
		}
	}

	pending := e.pendingSlot(sess)
	if pending == nil {
		return e.finishSlots(ctx, userID, sess)
	}
	if !committed {
		e.metrics.NoMatches.Inc()
		return "Sorry, I didn't catch that. " + pending.Prompt
	}
	return pending.Prompt
}

// bulkSlotExtract commits every valid proposed value for a not-yet-filled
// slot, not only the pending one. Reports whether anything was committed.
func (e *Engine) bulkSlotExtract(ctx context.Context, sess *domain.Session, text string) bool {
	ext, err := e.llm.ExtractSlots(ctx, e.cat.Slots, text)
	if err != nil {
		e.logger.Warn("bulk extraction failed, skipping this turn", "err", err)
		e.metrics.ExtractionFailures.Inc()
		return false
	}
	if ext.Unparseable {
		e.logger.Warn("bulk extraction output unparseable", "raw", ext.Raw)
		e.metrics.ExtractionFailures.Inc()
		return false
	}

	committed := false
	for name, raw := range ext.Values {
		spec := e.cat.Slot(name)
		if spec == nil {
			continue
		}
		if _, filled := sess.Answers[name]; filled {
			continue
		}
		if value, ok := normalizeSlot(spec, raw); ok {
			sess.Answers[name] = value
			committed = true
		}
	}
	return committed
}

// pendingSlot returns the first unfilled required slot in declared order, or
// nil when every required slot is filled.
func (e *Engine) pendingSlot(sess *domain.Session) *domain.SlotSpec {
	for i := range e.cat.Slots {
		slot := &e.cat.Slots[i]
		if !slot.Required {
			continue
		}
		if _, filled := sess.Answers[slot.Name]; !filled {
			return slot
		}
	}
	return nil
}

// finishSlots produces the completion response, archives the result and
// clears the slot data. The transcript survives.
func (e *Engine) finishSlots(ctx context.Context, userID string, sess *domain.Session) string {
	answers := make(map[string]string, len(sess.Answers))
	for k, v := range sess.Answers {
		answers[k] = v
	}

	analysisText, raw := e.runAnalysis(ctx, userID, answers, sess.Transcript)
	e.archiveResult(ctx, userID, answers, analysisText, raw)
	e.metrics.Completions.Inc()
	sess.Reset(e.cat.Root)

	var b strings.Builder
	b.WriteString(e.summary(answers))
	b.WriteString("\n\nThat's everything I need.")
	if analysisText != "" {
		b.WriteString("\n\n")
		b.WriteString(analysisText)
	}
	return b.String()
}

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// normalizeSlot validates and canonicalizes a candidate value for a slot.
// The rules per kind:
//   - choice: bidirectional case-insensitive substring against the allowed
//     values, first declared match wins, canonicalized to the allowed value
//   - yes_no: bare yes/no forms, canonicalized to "Yes"/"No"
//   - reference: prefix followed by digits (case-insensitive), uppercased
//   - free_text: any non-empty value, trimmed
func normalizeSlot(spec *domain.SlotSpec, raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	switch spec.Kind {
	case domain.SlotChoice:
		lowered := strings.ToLower(trimmed)
		for _, allowed := range spec.AllowedValues {
			lowAllowed := strings.ToLower(allowed)
			if strings.Contains(lowered, lowAllowed) || strings.Contains(lowAllowed, lowered) {
				return allowed, true
			}
		}
		return "", false

	case domain.SlotYesNo:
		return parseYesNo(trimmed)

	case domain.SlotReference:
		upper := strings.ToUpper(trimmed)
		prefix := strings.ToUpper(spec.Prefix)
		if !strings.HasPrefix(upper, prefix) {
			return "", false
		}
		if !digitsOnly.MatchString(upper[len(prefix):]) {
			return "", false
		}
		return upper, true

	default:
		return trimmed, true
	}
}

// parseYesNo accepts bare yes/no forms, case-insensitive.
func parseYesNo(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "yeah", "yep":
		return "Yes", true
	case "no", "n", "nope":
		return "No", true
	}
	return "", false
}

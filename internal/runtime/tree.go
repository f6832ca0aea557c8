package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/counciltech/intake/pkg/domain"
)

// treeTurn handles one message in decision-tree mode: bulk extraction first,
// then direct matching of the utterance against the current node, then the
// advance loop.
func (e *Engine) treeTurn(ctx context.Context, userID string, sess *domain.Session, text string) string {
	node := e.cat.Node(sess.CurrentNode)
	if node == nil {
		// Session points at a node the catalog no longer has. Loud, then
		// recover by restarting the walk.
		e.logger.Error("session references unknown node", "user_id", userID, "node", sess.CurrentNode)
		sess.Reset(e.cat.Root)
		node = e.cat.Node(e.cat.Root)
	}

	committed := e.bulkTreeExtract(ctx, sess, text)

	// One utterance is one answer: only match it directly when bulk
	// extraction committed nothing, so a single message is never counted
	// against two nodes.
	if !committed {
		if opt := e.matchOption(ctx, node, text); opt != nil {
			sess.Answers[node.Name] = opt.Label
			committed = true
		}
	}

	if !committed {
		e.metrics.NoMatches.Inc()
		return "Sorry, I didn't catch that. " + e.renderNode(node)
	}

	return e.advance(ctx, userID, sess)
}

// bulkTreeExtract asks the understanding service for answers to any node
// mentioned in the message and commits each proposal that maps onto an
// unanswered node's options. Reports whether anything was committed.
func (e *Engine) bulkTreeExtract(ctx context.Context, sess *domain.Session, text string) bool {
	ext, err := e.llm.ExtractSlots(ctx, e.treeSlotCatalog(), text)
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
		node := e.cat.Node(name)
		if node == nil {
			continue
		}
		if _, answered := sess.Answers[name]; answered {
			continue
		}
		if opt := matchLocal(node, raw); opt != nil {
			sess.Answers[name] = opt.Label
			committed = true
		}
	}
	return committed
}

// treeSlotCatalog presents the decision nodes as a slot catalog for bulk
// extraction, so one message can answer several questions at once.
func (e *Engine) treeSlotCatalog() []domain.SlotSpec {
	specs := make([]domain.SlotSpec, len(e.cat.Nodes))
	for i, n := range e.cat.Nodes {
		specs[i] = domain.SlotSpec{
			Name:          n.Name,
			Prompt:        n.Question,
			Kind:          domain.SlotChoice,
			AllowedValues: n.Labels(),
		}
	}
	return specs
}

// advance fast-forwards through nodes whose answers are already recorded.
// Bounded by the node count so a cyclic catalog cannot spin the turn
// forever.
func (e *Engine) advance(ctx context.Context, userID string, sess *domain.Session) string {
	for range e.cat.Nodes {
		node := e.cat.Node(sess.CurrentNode)
		if node == nil {
			e.logger.Error("advance reached unknown node", "user_id", userID, "node", sess.CurrentNode)
			sess.Reset(e.cat.Root)
			return "Something went wrong with the conversation flow, so I've restarted it. " + e.renderNode(e.cat.Node(e.cat.Root))
		}

		label, answered := sess.Answers[node.Name]
		if !answered {
			return e.renderNode(node)
		}

		opt := optionByLabel(node, label)
		if opt == nil {
			// Recorded answer no longer maps onto this node's options
			// (catalog changed under a live session). Drop it and re-ask.
			e.logger.Warn("recorded answer no longer matches an option", "node", node.Name, "answer", label)
			delete(sess.Answers, node.Name)
			return e.renderNode(node)
		}

		switch {
		case opt.IsTerminal():
			return e.finishTree(ctx, userID, sess, opt)
		case opt.NextNode != "":
			sess.CurrentNode = opt.NextNode
		default:
			e.logger.Error("decision option has no outcome", "node", node.Name, "option", opt.Label)
			return fmt.Sprintf("Configuration error: option %q on question %q has neither a final answer nor a next step. Please report this to the catalog maintainer.", opt.Label, node.Name)
		}
	}

	e.logger.Error("advance loop exhausted, catalog contains a cycle", "user_id", userID, "node", sess.CurrentNode)
	return "Configuration error: the decision flow loops without reaching an answer. Please report this to the catalog maintainer."
}

// finishTree produces the terminal response: selection summary, terminal
// answer, analysis. The result is archived and the session reset; the
// transcript survives.
func (e *Engine) finishTree(ctx context.Context, userID string, sess *domain.Session, opt *domain.DecisionOption) string {
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
	b.WriteString("\n\n")
	b.WriteString(opt.TerminalAnswer)
	if analysisText != "" {
		b.WriteString("\n\n")
		b.WriteString(analysisText)
	}
	return b.String()
}

// summary lists the recorded selections in catalog order.
func (e *Engine) summary(answers map[string]string) string {
	var b strings.Builder
	b.WriteString("You have selected:")
	for _, key := range e.answerKeys() {
		if value, ok := answers[key]; ok {
			fmt.Fprintf(&b, "\n- %s: %s", key, value)
		}
	}
	return b.String()
}

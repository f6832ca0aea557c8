package understanding

import (
	"fmt"
	"strings"

	"github.com/counciltech/intake/pkg/domain"
)

const matchSystemPrompt = `You map a user's reply onto one option from a closed list.
Respond with exactly one option, copied verbatim from the list.
If the reply does not clearly correspond to any option, respond with exactly: none
Do not explain. Do not add punctuation.`

func matchUserPrompt(labels []string, utterance string) string {
	var b strings.Builder
	b.WriteString("Options:\n")
	for _, label := range labels {
		b.WriteString("- ")
		b.WriteString(label)
		b.WriteString("\n")
	}
	b.WriteString("\nUser reply: ")
	b.WriteString(utterance)
	return b.String()
}

func extractSystemPrompt(slots []domain.SlotSpec) string {
	var b strings.Builder
	b.WriteString("Extract the following fields from the user's message.\n")
	b.WriteString("Respond with a single flat JSON object mapping field names to string values.\n")
	b.WriteString("Omit any field the message does not mention. No prose, no markdown.\n\nFields:\n")
	for _, slot := range slots {
		b.WriteString(fmt.Sprintf("- %s (%s): %s\n", slot.Name, slot.Kind, slot.Prompt))
		if len(slot.AllowedValues) > 0 {
			b.WriteString("  allowed values: ")
			b.WriteString(strings.Join(slot.AllowedValues, ", "))
			b.WriteString("\n")
		}
	}
	return b.String()
}

const analyzeSystemPrompt = `You are a procurement advisor. Based on the collected intake answers and
the conversation, recommend the appropriate procurement pathway and contract
template, and note any follow-up actions. Be concise and practical.`

const analyzeStructuredSystemPrompt = `You are a procurement advisor. Based on the collected intake answers and
the conversation, produce a JSON report with exactly these keys:
- "selections": object mapping each question key to the value the user chose
- "final_answer": the recommended procurement pathway or contract template
- "analysis": a short practical assessment with any follow-up actions
Respond with the JSON object only. No prose, no markdown.`

func analyzeUserPrompt(answers map[string]string, transcript []domain.Utterance) string {
	var b strings.Builder
	b.WriteString("Collected answers:\n")
	for key, value := range answers {
		b.WriteString(fmt.Sprintf("- %s: %s\n", key, value))
	}
	b.WriteString("\nConversation:\n")
	for _, u := range transcript {
		b.WriteString(fmt.Sprintf("%s: %s\n", u.Speaker, u.Text))
	}
	return b.String()
}

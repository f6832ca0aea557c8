package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"github.com/counciltech/intake/pkg/domain"
)

// notProvided is substituted for any catalog answer the session never
// collected before the analysis call.
const notProvided = "not provided"

// report is the declared shape of the structured analysis response.
type report struct {
	Selections  map[string]string `mapstructure:"selections"`
	FinalAnswer string            `mapstructure:"final_answer"`
	Analysis    string            `mapstructure:"analysis"`
}

// runAnalysis invokes the analysis stage and returns the user-visible text
// plus the raw service output for archival. Every failure degrades to a
// response; a broken analysis never fails the turn.
func (e *Engine) runAnalysis(ctx context.Context, userID string, answers map[string]string, transcript []domain.Utterance) (string, string) {
	padded := make(map[string]string, len(e.cat.Nodes)+len(e.cat.Slots))
	for _, key := range e.answerKeys() {
		padded[key] = notProvided
	}
	for k, v := range answers {
		padded[k] = v
	}

	raw, err := e.llm.Analyze(ctx, padded, transcript)
	if err != nil {
		e.logger.Error("analysis call failed", "user_id", userID, "err", err)
		return "The analysis service is unavailable right now; your selections above still stand.", ""
	}

	rep, err := decodeReport(raw)
	if err != nil {
		e.logger.Warn("analysis output failed to parse", "user_id", userID, "err", err)
		return fmt.Sprintf("The analysis could not be read as a report. Raw response:\n%s", raw), raw
	}

	var b strings.Builder
	if rep.FinalAnswer != "" {
		b.WriteString("Recommendation: ")
		b.WriteString(rep.FinalAnswer)
	}
	if rep.Analysis != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(rep.Analysis)
	}
	if b.Len() == 0 {
		return raw, raw
	}
	return b.String(), raw
}

// decodeReport parses the structured analysis response, tolerating markdown
// fences and surrounding prose around the JSON object.
func decodeReport(raw string) (*report, error) {
	cleaned := strings.TrimSpace(raw)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object found in analysis response")
	}

	var loose map[string]any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &loose); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}

	var rep report
	if err := mapstructure.Decode(loose, &rep); err != nil {
		return nil, fmt.Errorf("analysis JSON does not match the report shape: %w", err)
	}
	return &rep, nil
}

// archiveResult stores the final result, overwriting the user's previous
// one. Archive failures are logged; the user still gets their answer.
func (e *Engine) archiveResult(ctx context.Context, userID string, answers map[string]string, analysis, raw string) {
	result := &domain.FinalResult{
		ID:          uuid.NewString(),
		UserID:      userID,
		Answers:     answers,
		Analysis:    analysis,
		Raw:         raw,
		CompletedAt: time.Now().UTC(),
	}
	if err := e.archive.SaveResult(ctx, result); err != nil {
		e.logger.Error("failed to archive final result", "user_id", userID, "err", err)
	}
}

package intake_test

import (
	"context"
	"testing"

	"github.com/counciltech/intake"
	"github.com/counciltech/intake/pkg/catalog"
	"github.com/counciltech/intake/pkg/domain"
	"github.com/counciltech/intake/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cannedLLM answers every contract with a fixed, well-formed response.
type cannedLLM struct{}

func (cannedLLM) MatchOption(_ context.Context, _ []string, _ string) (string, error) {
	return ports.NoMatch, nil
}

func (cannedLLM) ExtractSlots(_ context.Context, _ []domain.SlotSpec, _ string) (ports.Extraction, error) {
	return ports.Extracted(nil), nil
}

func (cannedLLM) Analyze(_ context.Context, _ map[string]string, _ []domain.Utterance) (string, error) {
	return `{"final_answer": "Use a Goods and Services Contract.", "analysis": "Low risk."}`, nil
}

func TestParseMode(t *testing.T) {
	mode, err := intake.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, intake.ModeTree, mode)

	mode, err = intake.ParseMode("slots")
	require.NoError(t, err)
	assert.Equal(t, intake.ModeSlots, mode)

	_, err = intake.ParseMode("bogus")
	require.Error(t, err)
}

func TestNew_RequiresUnderstander(t *testing.T) {
	_, err := intake.New(nil)
	require.Error(t, err)
}

func TestNew_RejectsInvalidCatalog(t *testing.T) {
	broken := catalog.New(catalog.Catalog{
		Root: "missing",
	})

	_, err := intake.New(cannedLLM{}, intake.WithCatalog(broken))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid catalog")
}

func TestEngine_EndToEnd(t *testing.T) {
	ctx := context.Background()

	engine, err := intake.New(cannedLLM{})
	require.NoError(t, err)

	reply, err := engine.HandleMessage(ctx, "user-1", "no")
	require.NoError(t, err)
	assert.Contains(t, reply, "What is the value of the procurement?")

	reply, err = engine.HandleMessage(ctx, "user-1", "25k")
	require.NoError(t, err)
	assert.Contains(t, reply, "What category does the procurement fall within?")

	reply, err = engine.HandleMessage(ctx, "user-1", "goods only")
	require.NoError(t, err)
	assert.Contains(t, reply, "Use a Goods and Services Contract.")

	sess, err := engine.Snapshot(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, sess.Answers)
	assert.NotEmpty(t, sess.Transcript)

	result, err := engine.Result(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Goods Only", result.Answers["procurement_category"])
}

func TestEngine_SlotMode(t *testing.T) {
	ctx := context.Background()

	engine, err := intake.New(cannedLLM{}, intake.WithMode(intake.ModeSlots))
	require.NoError(t, err)

	reply, err := engine.HandleMessage(ctx, "user-1", "Acme Corp")
	require.NoError(t, err)
	assert.Contains(t, reply, "Does an existing arrangement exist")
}

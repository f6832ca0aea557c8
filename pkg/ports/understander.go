package ports

import (
	"context"

	"github.com/counciltech/intake/pkg/domain"
)

// NoMatch is the sentinel an Understander returns from MatchOption when no
// candidate label fits the utterance.
const NoMatch = ""

// Extraction is the strictly parsed outcome of a bulk slot extraction call.
// Either Values holds the proposed slot mapping, or Unparseable is true and
// Raw carries the service's original output for diagnosis. Downstream code
// never guesses about the shape of "whatever the model returned".
type Extraction struct {
	Values      map[string]string
	Unparseable bool
	Raw         string
}

// Extracted builds a successful extraction result.
func Extracted(values map[string]string) Extraction {
	return Extraction{Values: values}
}

// Unparseable builds a failed extraction result carrying the raw text.
func Unparseable(raw string) Extraction {
	return Extraction{Unparseable: true, Raw: raw}
}

// Understander is the language-understanding service consumed by the dialog
// engine. Implementations must be safe for concurrent use: many users'
// turns may be in flight at once.
type Understander interface {
	// MatchOption resolves a free-form utterance against a closed candidate
	// list. It returns one of the given labels verbatim, or NoMatch.
	MatchOption(ctx context.Context, labels []string, utterance string) (string, error)

	// ExtractSlots proposes raw values for any slot mentioned in the
	// utterance, not only the pending one. Non-parseable service output is
	// reported via the Extraction tagged result, not as an error.
	ExtractSlots(ctx context.Context, slots []domain.SlotSpec, utterance string) (Extraction, error)

	// Analyze produces a recommendation from the collected answers and the
	// conversation transcript.
	Analyze(ctx context.Context, answers map[string]string, transcript []domain.Utterance) (string, error)
}

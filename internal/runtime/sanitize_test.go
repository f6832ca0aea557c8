package runtime

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counciltech/intake/pkg/domain"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		erris error
	}{
		{name: "plain text passes", in: "we have a local buy arrangement", want: "we have a local buy arrangement"},
		{name: "newline and tab preserved", in: "line one\n\tline two", want: "line one\n\tline two"},
		{name: "ansi escape stripped", in: "hello\x1b[31mred\x1b[0m", want: "hellored"},
		{name: "null byte stripped", in: "hi\x00there", want: "hithere"},
		{name: "oversized rejected", in: strings.Repeat("a", DefaultMaxInputSize+1), erris: ErrInputTooLarge},
		{name: "invalid utf8 rejected", in: "bad\xff", erris: ErrInvalidUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sanitizeInput(tt.in)
			if tt.erris != nil {
				assert.ErrorIs(t, err, tt.erris)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")

	_, err := sanitizeInput("this is longer than ten bytes")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	got, err := sanitizeInput("short")
	require.NoError(t, err)
	assert.Equal(t, "short", got)
}

func TestHandleMessage_RejectedInputLeavesSessionUntouched(t *testing.T) {
	e, store := newTestEngine(t, &stubLLM{})
	ctx := context.Background()

	reply, err := e.HandleMessage(ctx, "user-1", strings.Repeat("a", DefaultMaxInputSize+1))
	require.NoError(t, err)
	assert.Contains(t, reply, "couldn't read that message")

	// No session was created for the rejected turn.
	_, err = store.Load(ctx, "user-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

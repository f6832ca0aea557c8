package domain

// Speaker identifies who produced a transcript line.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Utterance is one chronological transcript entry.
type Utterance struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Session is the per-user conversational state. It is owned by the session
// manager; only the dialog engine mutates it, always under the per-user
// lock.
type Session struct {
	// CurrentNode is the active decision-tree node (tree mode). In slot
	// mode the position is implicit in which slots are filled.
	CurrentNode string `json:"current_node"`

	// Answers maps node name (tree mode) or slot name (slot mode) to the
	// recorded value.
	Answers map[string]string `json:"answers"`

	// Extra holds side metadata, such as an extracted organization name.
	Extra map[string]string `json:"extra,omitempty"`

	// Transcript is append-only and survives resets.
	Transcript []Utterance `json:"transcript"`
}

// NewSession creates a clean session positioned at startNode.
func NewSession(startNode string) *Session {
	return &Session{
		CurrentNode: startNode,
		Answers:     make(map[string]string),
		Extra:       make(map[string]string),
	}
}

// Reset clears answers, extra metadata and position while preserving the
// transcript. Called after a terminal answer or a farewell.
func (s *Session) Reset(startNode string) {
	s.CurrentNode = startNode
	s.Answers = make(map[string]string)
	s.Extra = make(map[string]string)
}

// Append adds a transcript line.
func (s *Session) Append(speaker Speaker, text string) {
	s.Transcript = append(s.Transcript, Utterance{Speaker: speaker, Text: text})
}

// Clone returns a deep copy safe to hand to callers outside the lock.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := &Session{
		CurrentNode: s.CurrentNode,
		Answers:     make(map[string]string, len(s.Answers)),
		Extra:       make(map[string]string, len(s.Extra)),
		Transcript:  make([]Utterance, len(s.Transcript)),
	}
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	for k, v := range s.Extra {
		out.Extra[k] = v
	}
	copy(out.Transcript, s.Transcript)
	return out
}

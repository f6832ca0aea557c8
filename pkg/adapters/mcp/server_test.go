package mcp

import (
	"context"
	"testing"

	"github.com/counciltech/intake/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	reply    string
	sessions map[string]*domain.Session
}

func (f *fakeEngine) HandleMessage(_ context.Context, userID, text string) (string, error) {
	return f.reply, nil
}

func (f *fakeEngine) Snapshot(_ context.Context, userID string) (*domain.Session, error) {
	sess, ok := f.sessions[userID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (f *fakeEngine) Result(_ context.Context, userID string) (*domain.FinalResult, error) {
	return nil, domain.ErrResultNotFound
}

func TestHandleSendMessage(t *testing.T) {
	sess := domain.NewSession("existing_arrangement")
	sess.Answers["existing_arrangement"] = "No"

	s := NewServer(&fakeEngine{
		reply:    "What is the value of the procurement?",
		sessions: map[string]*domain.Session{"user-1": sess},
	})

	resp, err := s.handleSendMessage(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"user_id": "user-1",
		"message": "no",
	})
	require.NoError(t, err)
	assert.Equal(t, "What is the value of the procurement?", resp.Response)
	assert.Equal(t, "No", resp.Answers["existing_arrangement"])
}

func TestHandleSendMessage_RequiresArgs(t *testing.T) {
	s := NewServer(&fakeEngine{})

	_, err := s.handleSendMessage(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"message": "hi",
	})
	require.Error(t, err)

	_, err = s.handleSendMessage(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"user_id": "user-1",
	})
	require.Error(t, err)
}

func TestHandleGetSession(t *testing.T) {
	sess := domain.NewSession("procurement_value")
	sess.Append(domain.SpeakerUser, "no")

	s := NewServer(&fakeEngine{sessions: map[string]*domain.Session{"user-1": sess}})

	resp, err := s.handleGetSession(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"user_id": "user-1",
	})
	require.NoError(t, err)
	assert.Len(t, resp.Transcript, 1)

	_, err = s.handleGetSession(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"user_id": "nobody",
	})
	require.Error(t, err)
}

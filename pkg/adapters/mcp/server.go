// Package mcp exposes the intake assistant as a Model Context Protocol
// server, so agent hosts can drive conversations as tools.
package mcp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/counciltech/intake"
	"github.com/counciltech/intake/pkg/domain"
)

// Engine defines what the MCP layer needs from the dialog engine.
type Engine interface {
	HandleMessage(ctx context.Context, userID, text string) (string, error)
	Snapshot(ctx context.Context, userID string) (*domain.Session, error)
	Result(ctx context.Context, userID string) (*domain.FinalResult, error)
}

// ChatResponse is the structured output of the send_message tool.
type ChatResponse struct {
	Response   string             `json:"response" jsonschema_description:"The assistant's reply"`
	Answers    map[string]string  `json:"answers" jsonschema_description:"Answers collected so far"`
	Transcript []domain.Utterance `json:"transcript" jsonschema_description:"Full conversation transcript"`
}

// Server wraps the dialog engine and exposes it as an MCP server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("intake-mcp", intake.Version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and blocks until
// the context is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	sendTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send one message to the procurement intake assistant on behalf of a user and get the assistant's reply."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Stable identifier of the conversing user")),
		mcp.WithString("message", mcp.Required(), mcp.Description("The user's message")),
		mcp.WithOutputSchema[ChatResponse](),
	)
	s.mcpServer.AddTool(sendTool, mcp.NewStructuredToolHandler(s.handleSendMessage))

	sessionTool := mcp.NewTool("get_session",
		mcp.WithDescription("Get a user's current intake session: collected answers and transcript."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Stable identifier of the conversing user")),
		mcp.WithOutputSchema[ChatResponse](),
	)
	s.mcpServer.AddTool(sessionTool, mcp.NewStructuredToolHandler(s.handleGetSession))
}

func (s *Server) handleSendMessage(ctx context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (ChatResponse, error) {
	userID, _ := args["user_id"].(string)
	message, _ := args["message"].(string)
	if userID == "" || message == "" {
		return ChatResponse{}, fmt.Errorf("user_id and message are required")
	}

	reply, err := s.engine.HandleMessage(ctx, userID, message)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("failed to process message: %w", err)
	}

	resp := ChatResponse{Response: reply}
	if sess, err := s.engine.Snapshot(ctx, userID); err == nil {
		resp.Answers = sess.Answers
		resp.Transcript = sess.Transcript
	}
	return resp, nil
}

func (s *Server) handleGetSession(ctx context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (ChatResponse, error) {
	userID, _ := args["user_id"].(string)
	if userID == "" {
		return ChatResponse{}, fmt.Errorf("user_id is required")
	}

	sess, err := s.engine.Snapshot(ctx, userID)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("failed to load session: %w", err)
	}
	return ChatResponse{
		Answers:    sess.Answers,
		Transcript: sess.Transcript,
	}, nil
}

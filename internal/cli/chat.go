package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/counciltech/intake"
	"github.com/counciltech/intake/internal/presentation/tui"
)

// ChatOptions configures the interactive loop.
type ChatOptions struct {
	UserID string
	In     io.Reader
	Out    io.Writer

	// Plain disables the banner and markdown rendering. Detected
	// automatically when stdin is not a terminal.
	Plain bool
}

// RunChat runs the interactive REPL until EOF, "exit", or context
// cancellation.
func RunChat(ctx context.Context, engine *intake.Engine, opts ChatOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.UserID == "" {
		opts.UserID = "local"
	}

	interactive := !opts.Plain
	if f, ok := opts.In.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		interactive = false
	}

	render := func(text string) (string, error) { return text + "\n", nil }
	if interactive {
		tui.PrintBanner()
		fmt.Fprintln(opts.Out, "Type a message to begin, or 'exit' to quit.")
		render = tui.NewRenderer()
	}

	scanner := bufio.NewScanner(opts.In)
	for {
		if interactive {
			fmt.Fprint(opts.Out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		reply, err := engine.HandleMessage(ctx, opts.UserID, line)
		if err != nil {
			fmt.Fprintf(opts.Out, "error: %v\n", err)
			continue
		}

		rendered, err := render(reply)
		if err != nil {
			rendered = reply + "\n"
		}
		fmt.Fprint(opts.Out, rendered)

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailored-agentic-units/supra/core/response"
	"github.com/tailored-agentic-units/supra/engine"
	"github.com/tailored-agentic-units/supra/oracle"
	"github.com/tailored-agentic-units/supra/server"
)

// conversation is the session surface the REPL drives, local or remote.
type conversation interface {
	Chat(ctx context.Context, text string, attachment *oracle.Attachment) (*response.Response, error)
	State(ctx context.Context) (any, error)
}

type localConversation struct {
	engine *engine.Engine
}

func (c localConversation) Chat(ctx context.Context, text string, attachment *oracle.Attachment) (*response.Response, error) {
	return c.engine.Chat(ctx, text, attachment)
}

func (c localConversation) State(context.Context) (any, error) {
	return c.engine.State(), nil
}

type remoteConversation struct {
	client    *server.Client
	sessionID string
}

func startRemote(ctx context.Context, client *server.Client, preferences string) (remoteConversation, error) {
	started, err := client.Start(ctx, preferences)
	if err != nil {
		return remoteConversation{}, err
	}
	return remoteConversation{client: client, sessionID: started.SessionID}, nil
}

func (c remoteConversation) Chat(ctx context.Context, text string, attachment *oracle.Attachment) (*response.Response, error) {
	req := &server.ChatRequest{SessionID: c.sessionID, Text: text}
	if attachment != nil {
		req.Attachment = attachment.Data
		req.MIMEType = attachment.MIMEType
	}
	return c.client.Chat(ctx, req)
}

func (c remoteConversation) State(ctx context.Context) (any, error) {
	return c.client.State(ctx, c.sessionID)
}

const replHelp = `Type a request and press enter. Commands:
  /image <path> <text>   send a photo along with the request
  /state                 print the session state
  /quit                  leave`

// runREPL reads one turn per line from in and writes each result to out as
// JSON. It returns when input ends, the user quits, or the session becomes
// terminal.
func runREPL(ctx context.Context, in io.Reader, out io.Writer, conv conversation) error {
	fmt.Fprintln(out, replHelp)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		var attachment *oracle.Attachment

		switch {
		case line == "/quit":
			return nil
		case line == "/state":
			state, err := conv.State(ctx)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			if err := enc.Encode(state); err != nil {
				return err
			}
			continue
		case strings.HasPrefix(line, "/image "):
			path, text, _ := strings.Cut(strings.TrimPrefix(line, "/image "), " ")
			a, err := readAttachment(path)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			attachment, line = a, text
		}

		r, err := conv.Chat(ctx, line, attachment)
		if r != nil {
			if encErr := enc.Encode(r); encErr != nil {
				return encErr
			}
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if r.Status == response.StatusSatisfied {
			return nil
		}
	}
}

func readAttachment(path string) (*oracle.Attachment, error) {
	if path == "" {
		return nil, errors.New("image path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return &oracle.Attachment{Data: data, MIMEType: mimeType}, nil
}

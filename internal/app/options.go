package app

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/mark3labs/gemchat/internal/history"
	"github.com/mark3labs/gemchat/internal/ui"
)

// Responder is the minimal interface the app layer requires from the remote
// chat session. *gemini.Conversation satisfies it; tests supply stubs.
type Responder interface {
	Send(ctx context.Context, text string) (string, error)
}

// StreamResponder is implemented by responders that can stream a reply.
// It is used only when Options.Streaming is set.
type StreamResponder interface {
	SendStream(ctx context.Context, text string, onChunk func(string)) (string, error)
}

// Recorder persists chat turns and feedback. *history.Log satisfies it.
type Recorder interface {
	AppendTurn(userMessage, reply string) error
	AppendFeedback(fb history.Feedback) error
}

// Options configures an App.
type Options struct {
	// Responder sends chat turns to the model. Required.
	Responder Responder

	// Recorder stores the transcript and feedback. Required.
	Recorder Recorder

	// CLI renders all user-facing output. Required.
	CLI *ui.CLI

	// Input is read line by line. Required.
	Input io.Reader

	// Streaming prints replies as they arrive when the Responder also
	// implements StreamResponder.
	Streaming bool

	// Logger receives diagnostics. Nil discards them.
	Logger *log.Logger
}

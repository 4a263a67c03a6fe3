// Package history appends chat transcripts and session feedback to
// human-readable text files.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default file names, relative to the working directory.
const (
	DefaultTranscriptFile = "chat_history.txt"
	DefaultFeedbackFile   = "feedback.txt"
)

const timestampLayout = "2006-01-02 15:04:05"

var separator = strings.Repeat("-", 50)

// Feedback is the rating and free-text review given at the end of a session.
type Feedback struct {
	Rating int
	Review string
}

// Log writes chat turns and feedback to two append-only files. Each write
// opens, appends to and closes its file.
type Log struct {
	transcriptPath string
	feedbackPath   string
	now            func() time.Time
}

// Option customises a Log.
type Option func(*Log)

// WithClock overrides the time source used for entry headers.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// New returns a Log writing to the given paths. Empty paths fall back to
// DefaultTranscriptFile and DefaultFeedbackFile.
func New(transcriptPath, feedbackPath string, opts ...Option) *Log {
	if transcriptPath == "" {
		transcriptPath = DefaultTranscriptFile
	}
	if feedbackPath == "" {
		feedbackPath = DefaultFeedbackFile
	}
	l := &Log{
		transcriptPath: transcriptPath,
		feedbackPath:   feedbackPath,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TranscriptPath returns the chat transcript file path.
func (l *Log) TranscriptPath() string { return l.transcriptPath }

// FeedbackPath returns the feedback file path.
func (l *Log) FeedbackPath() string { return l.feedbackPath }

// AppendTurn records one user message and the model's reply.
func (l *Log) AppendTurn(userMessage, reply string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\nUser (%s): %s\n", l.now().Format(timestampLayout), userMessage)
	fmt.Fprintf(&b, "AI: %s\n", reply)
	b.WriteString(separator + "\n")
	return appendFile(l.transcriptPath, b.String())
}

// AppendFeedback records a feedback entry.
func (l *Log) AppendFeedback(fb Feedback) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n--- Feedback from %s ---\n", l.now().Format(timestampLayout))
	fmt.Fprintf(&b, "Rating: %d/5\n", fb.Rating)
	fmt.Fprintf(&b, "Review: %s\n", fb.Review)
	b.WriteString(separator + "\n")
	return appendFile(l.feedbackPath, b.String())
}

func appendFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return f.Close()
}

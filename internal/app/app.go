// Package app runs the interactive chat loop: it reads lines, classifies
// them, talks to the model and records the session.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mark3labs/gemchat/internal/chat"
	"github.com/mark3labs/gemchat/internal/history"
)

// Outcome describes how Run ended.
type Outcome int

const (
	// OutcomeFeedbackSaved means the user completed the feedback flow.
	OutcomeFeedbackSaved Outcome = iota
	// OutcomeInputClosed means input ended before feedback was given.
	OutcomeInputClosed
)

// maxLineSize bounds a single input line.
const maxLineSize = 1024 * 1024

// App owns the session state for one chat. It is not safe for concurrent use.
type App struct {
	opts  Options
	state chat.State
	log   *log.Logger
}

// New creates an App in the chatting state.
func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &App{opts: opts, state: chat.StateChatting, log: logger}
}

// State returns the current session state.
func (a *App) State() chat.State {
	return a.state
}

type lineResult struct {
	line string
	err  error
}

// readLines feeds lines from r to the returned channel until r is exhausted,
// fails or ctx is done. The final element carries io.EOF or the read error.
// A read already blocked in r is not interrupted, but no line is delivered
// after ctx is done.
func readLines(ctx context.Context, r io.Reader) <-chan lineResult {
	out := make(chan lineResult)
	send := func(res lineResult) bool {
		select {
		case out <- res:
			return true
		case <-ctx.Done():
			return false
		}
	}
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			if !send(lineResult{line: strings.TrimSuffix(scanner.Text(), "\r")}) {
				return
			}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		send(lineResult{err: err})
	}()
	return out
}

// Run prompts for input until the feedback flow completes, input ends or ctx
// is cancelled. Model and log-file errors are reported and the loop
// continues; only an input error or cancellation return an error.
func (a *App) Run(ctx context.Context) (Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := readLines(ctx, a.opts.Input)

	for {
		a.opts.CLI.DisplayPrompt()

		var res lineResult
		select {
		case <-ctx.Done():
			return OutcomeInputClosed, ctx.Err()
		case res = <-lines:
		}

		if res.err != nil {
			if errors.Is(res.err, io.EOF) {
				a.log.Debug("input closed", "state", a.state)
				a.opts.CLI.DisplayInfo("")
				return OutcomeInputClosed, nil
			}
			return OutcomeInputClosed, fmt.Errorf("failed to read input: %w", res.err)
		}

		done, err := a.HandleLine(ctx, res.line)
		if err != nil {
			return OutcomeInputClosed, err
		}
		if done {
			return OutcomeFeedbackSaved, nil
		}
	}
}

// HandleLine processes one line of input. It reports done once feedback has
// been saved. Chat input, blank lines included, is forwarded verbatim.
func (a *App) HandleLine(ctx context.Context, line string) (done bool, err error) {
	d := chat.Classify(a.state, line)
	a.log.Debug("classified input", "state", a.state, "action", d.Action)
	a.state = d.Next

	switch d.Action {
	case chat.ActionBeginExit:
		a.opts.CLI.DisplayNotice("\nI see you want to end our conversation.")
		a.opts.CLI.DisplayNotice("Before you go, could you please provide a brief review and rating (1-5) of your experience?")
		return false, nil

	case chat.ActionRetryFeedback:
		a.opts.CLI.DisplayNotice(fmt.Sprintf("I couldn't find a rating between %d-%d in your response.", chat.MinRating, chat.MaxRating))
		a.opts.CLI.DisplayNotice(fmt.Sprintf("Please include a number from %d to %d in your feedback.", chat.MinRating, chat.MaxRating))
		return false, nil

	case chat.ActionFeedback:
		fb := history.Feedback{Rating: d.Rating, Review: d.Review}
		if err := a.opts.Recorder.AppendFeedback(fb); err != nil {
			// still awaiting feedback; the user may try again
			a.log.Warn("could not write feedback", "err", err)
			a.opts.CLI.DisplayTurnError(fmt.Errorf("failed to save feedback: %w", err))
			return false, nil
		}
		a.opts.CLI.DisplaySuccess(fmt.Sprintf("\nThank you for your feedback! Your rating of %d/%d and review have been saved.", d.Rating, chat.MaxRating))
		a.opts.CLI.DisplaySuccess("Thank you for chatting! Goodbye!")
		return true, nil

	default:
		return false, a.exchange(ctx, line)
	}
}

// exchange sends one chat turn. Model errors are shown and swallowed; only
// cancellation of ctx is returned.
func (a *App) exchange(ctx context.Context, line string) error {
	a.log.Debug("sending turn", "chars", len(line))

	reply, err := a.send(ctx, line)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.log.Debug("turn failed", "err", err)
		a.opts.CLI.DisplayTurnError(err)
		return nil
	}

	if err := a.opts.Recorder.AppendTurn(line, reply); err != nil {
		a.log.Warn("could not write chat history", "err", err)
	}
	return nil
}

func (a *App) send(ctx context.Context, line string) (string, error) {
	if sr, ok := a.opts.Responder.(StreamResponder); ok && a.opts.Streaming {
		a.opts.CLI.DisplayAssistantHeader()
		reply, err := sr.SendStream(ctx, line, a.opts.CLI.DisplayChunk)
		if reply != "" {
			a.opts.CLI.EndStream()
		}
		return reply, err
	}

	var reply string
	err := a.opts.CLI.ShowSpinner("Thinking...", func() error {
		var err error
		reply, err = a.opts.Responder.Send(ctx, line)
		return err
	})
	if err != nil {
		return "", err
	}
	a.opts.CLI.DisplayAssistantMessage(reply)
	return reply, nil
}

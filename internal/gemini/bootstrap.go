package gemini

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoUsableModel is returned by SelectModel when every candidate failed.
var ErrNoUsableModel = errors.New("could not connect to any Gemini model")

// DefaultModels is the ordered candidate list probed when no model is
// configured explicitly.
var DefaultModels = []string{
	"gemini-pro",
	"gemini-1.0-pro",
	"gemini-1.5-pro",
	"models/gemini-pro",
	"models/gemini-1.0-pro",
	"models/gemini-1.5-pro",
}

// ProbeFunc checks that model answers a trivial prompt.
type ProbeFunc func(ctx context.Context, model string) error

// ProbeReporter receives progress while candidates are probed. A nil
// reporter is allowed.
type ProbeReporter interface {
	ProbeStarted(model string)
	ProbeFailed(model string, err error)
	ProbeSucceeded(model string)
}

// SelectModel probes candidates in order and returns the first one whose
// probe succeeds. There is no retry or backoff. If every candidate fails the
// returned error wraps ErrNoUsableModel and the last probe error.
func SelectModel(ctx context.Context, candidates []string, probe ProbeFunc, r ProbeReporter) (string, error) {
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no candidate models configured", ErrNoUsableModel)
	}

	var lastErr error
	for _, model := range candidates {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if r != nil {
			r.ProbeStarted(model)
		}
		err := probe(ctx, model)
		if err == nil {
			if r != nil {
				r.ProbeSucceeded(model)
			}
			return model, nil
		}
		lastErr = err
		if r != nil {
			r.ProbeFailed(model, err)
		}
	}
	return "", fmt.Errorf("%w (last error: %w)", ErrNoUsableModel, lastErr)
}

// Candidates returns the models to probe: only explicit when it is set,
// otherwise list, or DefaultModels when list is empty.
func Candidates(explicit string, list []string) []string {
	if explicit != "" {
		return []string{explicit}
	}
	if len(list) > 0 {
		return list
	}
	return DefaultModels
}

// Package chat decides what the interactive loop does with each line of
// user input.
package chat

import (
	"strconv"
	"strings"
)

// State is the position of the session in its chat/feedback lifecycle.
type State int

const (
	// StateChatting forwards ordinary input to the model.
	StateChatting State = iota
	// StateAwaitingFeedback treats every input as a feedback attempt.
	StateAwaitingFeedback
)

// String returns a short label for logging.
func (s State) String() string {
	switch s {
	case StateChatting:
		return "chatting"
	case StateAwaitingFeedback:
		return "awaiting-feedback"
	default:
		return "unknown"
	}
}

// Action is what the loop should do with a classified line.
type Action int

const (
	// ActionChat sends the line verbatim to the model.
	ActionChat Action = iota
	// ActionBeginExit asks for feedback and switches to StateAwaitingFeedback.
	ActionBeginExit
	// ActionFeedback saves the rating and review and ends the session.
	ActionFeedback
	// ActionRetryFeedback reports that no rating was found; the state is unchanged.
	ActionRetryFeedback
)

// String returns a short label for logging.
func (a Action) String() string {
	switch a {
	case ActionChat:
		return "chat"
	case ActionBeginExit:
		return "begin-exit"
	case ActionFeedback:
		return "feedback"
	case ActionRetryFeedback:
		return "retry-feedback"
	default:
		return "unknown"
	}
}

// MinRating and MaxRating bound an accepted feedback rating.
const (
	MinRating = 1
	MaxRating = 5
)

// ExitTriggers are the lower-cased substrings that start the exit flow.
var ExitTriggers = []string{"bye", "exit", "quit", "end", "goodbye"}

// Decision is the outcome of Classify.
type Decision struct {
	Action Action
	// Next is the state the loop moves to after acting.
	Next State
	// Rating and Review are set only for ActionFeedback.
	Rating int
	Review string
}

// Classify maps the current state and a raw input line to a Decision.
func Classify(state State, line string) Decision {
	if state == StateAwaitingFeedback {
		rating, ok := ExtractRating(line)
		if !ok {
			return Decision{Action: ActionRetryFeedback, Next: StateAwaitingFeedback}
		}
		return Decision{
			Action: ActionFeedback,
			Next:   StateAwaitingFeedback,
			Rating: rating,
			Review: line,
		}
	}

	if ContainsExitTrigger(line) {
		return Decision{Action: ActionBeginExit, Next: StateAwaitingFeedback}
	}
	return Decision{Action: ActionChat, Next: StateChatting}
}

// ContainsExitTrigger reports whether the lower-cased line contains any of
// ExitTriggers anywhere, including inside other words.
func ContainsExitTrigger(line string) bool {
	lower := strings.ToLower(line)
	for _, trigger := range ExitTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

// ExtractRating returns the first whitespace-delimited token that is made of
// ASCII digits only and whose value lies in [MinRating, MaxRating].
func ExtractRating(line string) (int, bool) {
	for _, word := range strings.Fields(line) {
		if !isDigits(word) {
			continue
		}
		n, err := strconv.Atoi(word)
		if err != nil {
			// overflowing digit runs are out of range anyway
			continue
		}
		if n >= MinRating && n <= MaxRating {
			return n, true
		}
	}
	return 0, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

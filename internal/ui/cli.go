package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const separatorWidth = 50

// CLI writes everything the user sees: status lines, errors, the input
// prompt and model replies. It also reports model probing progress and so
// satisfies gemini.ProbeReporter.
type CLI struct {
	out      io.Writer
	spinOut  io.Writer
	width    int
	markdown bool
	spinner  bool
}

// Option customises a CLI.
type Option func(*CLI)

// WithMarkdown toggles markdown rendering of model replies.
func WithMarkdown(enabled bool) Option {
	return func(c *CLI) { c.markdown = enabled }
}

// WithSpinner toggles the thinking spinner and sets where it is drawn.
func WithSpinner(out io.Writer) Option {
	return func(c *CLI) {
		c.spinner = out != nil
		c.spinOut = out
	}
}

// WithWidth fixes the wrap width instead of probing the terminal.
func WithWidth(width int) Option {
	return func(c *CLI) { c.width = width }
}

// NewCLI returns a CLI writing to out. By default markdown rendering is on
// and the spinner is off.
func NewCLI(out io.Writer, opts ...Option) *CLI {
	c := &CLI{out: out, markdown: true}
	for _, opt := range opts {
		opt(c)
	}
	if c.width == 0 {
		c.width = terminalWidth(out)
	}
	return c
}

// NewTerminalCLI returns a CLI on stdout, with the spinner on stderr when
// stderr is a terminal.
func NewTerminalCLI(markdown bool) *CLI {
	opts := []Option{WithMarkdown(markdown)}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		opts = append(opts, WithSpinner(os.Stderr))
	}
	return NewCLI(os.Stdout, opts...)
}

func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok {
		return 80
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 4 {
		return 80
	}
	return width - 4
}

func (c *CLI) println(s string) {
	fmt.Fprintln(c.out, s)
}

// DisplayWelcome prints the greeting and usage hint.
func (c *CLI) DisplayWelcome(model string) {
	theme := GetTheme()
	c.println(StyleSuccess(theme).Render("Welcome to Gemini Chat CLI!"))
	if model != "" {
		c.println(StyleMuted(theme).Render("Model: " + model))
	}
	c.println("Type your messages and press Enter. Type 'exit', 'bye', or similar to end the chat.")
	c.println(CreateSeparator(separatorWidth, "-", theme.Muted))
}

// DisplayPrompt prints the input prompt without a trailing newline.
func (c *CLI) DisplayPrompt() {
	fmt.Fprint(c.out, "\n"+StyleSpeaker(GetTheme().User).Render("[You]:")+" ")
}

// DisplayInfo prints a plain status line.
func (c *CLI) DisplayInfo(message string) {
	c.println(message)
}

// DisplayWarning prints a yellow notice.
func (c *CLI) DisplayWarning(message string) {
	c.println(StyleWarning(GetTheme()).Render(message))
}

// DisplayNotice prints a bold yellow notice used by the exit flow.
func (c *CLI) DisplayNotice(message string) {
	c.println(StyleWarning(GetTheme()).Bold(true).Render(message))
}

// DisplaySuccess prints a bold green line.
func (c *CLI) DisplaySuccess(message string) {
	c.println(StyleSuccess(GetTheme()).Render(message))
}

// DisplayError prints a bold red "ERROR: ..." line.
func (c *CLI) DisplayError(message string) {
	c.println(StyleError(GetTheme()).Render("ERROR: " + message))
}

// DisplayTurnError reports a failed model call.
func (c *CLI) DisplayTurnError(err error) {
	c.println(StyleError(GetTheme()).Render("Error: " + err.Error()))
	c.DisplayWarning("Let's continue our conversation...")
}

// DisplayAssistantHeader prints the label that precedes a model reply.
func (c *CLI) DisplayAssistantHeader() {
	c.println("\n" + StyleSpeaker(GetTheme().Assistant).Render("[AI]:"))
}

// DisplayAssistantMessage prints the header followed by the reply, rendered
// as markdown when enabled.
func (c *CLI) DisplayAssistantMessage(message string) {
	c.DisplayAssistantHeader()
	if !c.markdown {
		c.println(message)
		return
	}
	c.println(strings.TrimRight(toMarkdown(message, c.width), "\n"))
}

// DisplayChunk writes a piece of a streamed reply as-is.
func (c *CLI) DisplayChunk(chunk string) {
	fmt.Fprint(c.out, chunk)
}

// EndStream terminates a streamed reply with a newline.
func (c *CLI) EndStream() {
	fmt.Fprintln(c.out)
}

// ShowSpinner runs action while a spinner is displayed, if enabled.
func (c *CLI) ShowSpinner(message string, action func() error) error {
	if !c.spinner {
		return action()
	}
	s := NewSpinner(c.spinOut, message)
	s.Start()
	defer s.Stop()
	return action()
}

// ProbeStarted reports that model is about to be tried.
func (c *CLI) ProbeStarted(model string) {
	c.DisplayWarning(fmt.Sprintf("Trying model: %s...", model))
}

// ProbeFailed reports that model did not answer.
func (c *CLI) ProbeFailed(model string, err error) {
	c.DisplayWarning(fmt.Sprintf("Model %s failed: %v", model, err))
}

// ProbeSucceeded reports the selected model.
func (c *CLI) ProbeSucceeded(model string) {
	c.DisplaySuccess("Successfully connected using model: " + model)
}

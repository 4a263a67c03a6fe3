// Package gemini wraps the Google Gen AI SDK for a single multi-turn chat
// session against the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// TestPrompt is sent to a candidate model to check that it answers.
const TestPrompt = "Hello"

// ErrEmptyResponse is returned when the model answers without any text,
// typically because the reply was blocked.
var ErrEmptyResponse = errors.New("model returned an empty response")

// Options configures a Client.
type Options struct {
	// APIKey is the Gemini API key. Required.
	APIKey string
	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string
	// SystemPrompt, when set, is sent as the system instruction of every chat.
	SystemPrompt string
	// Temperature, when non-nil, is applied to every chat turn.
	Temperature *float32
}

// Client talks to the Gemini API.
type Client struct {
	genai  *genai.Client
	config *genai.GenerateContentConfig
}

// NewClient creates a Gemini API client. No request is made until Probe or
// StartChat is called.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key not provided")
	}

	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{genai: gc, config: generateConfig(opts)}, nil
}

func generateConfig(opts Options) *genai.GenerateContentConfig {
	if opts.SystemPrompt == "" && opts.Temperature == nil {
		return nil
	}
	config := &genai.GenerateContentConfig{Temperature: opts.Temperature}
	if opts.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(opts.SystemPrompt, genai.RoleUser)
	}
	return config
}

// Probe sends TestPrompt to model and returns the error, if any.
// It satisfies ProbeFunc.
func (c *Client) Probe(ctx context.Context, model string) error {
	_, err := c.genai.Models.GenerateContent(ctx, model, genai.Text(TestPrompt), nil)
	return err
}

// StartChat opens a new, empty multi-turn conversation with model.
func (c *Client) StartChat(ctx context.Context, model string) (*Conversation, error) {
	chat, err := c.genai.Chats.Create(ctx, model, c.config, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start chat with %s: %w", model, err)
	}
	return &Conversation{chat: chat, model: model}, nil
}

// Conversation is a chat session whose history is held by the SDK.
type Conversation struct {
	chat  *genai.Chat
	model string
}

// Model returns the model the conversation is bound to.
func (c *Conversation) Model() string {
	return c.model
}

// Send appends text as a user turn and returns the model's reply.
func (c *Conversation) Send(ctx context.Context, text string) (string, error) {
	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", err
	}
	reply := resp.Text()
	if reply == "" {
		return "", ErrEmptyResponse
	}
	return reply, nil
}

// SendStream is like Send but calls onChunk with each piece of text as it
// arrives. The full reply is returned once the stream ends. On error the
// text received so far is returned along with it.
func (c *Conversation) SendStream(ctx context.Context, text string, onChunk func(string)) (string, error) {
	var reply strings.Builder
	for resp, err := range c.chat.SendMessageStream(ctx, genai.Part{Text: text}) {
		if err != nil {
			return reply.String(), err
		}
		chunk := resp.Text()
		if chunk == "" {
			continue
		}
		reply.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	if reply.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return reply.String(), nil
}

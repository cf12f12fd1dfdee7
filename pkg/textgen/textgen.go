// Package textgen drafts scout messages through an OpenAI-compatible API.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

var ErrNotConfigured = errors.New("textgen: API key not configured")

// UpstreamError carries a truncated message from the provider.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string { return e.Message }
func (e *UpstreamError) Unwrap() error { return e.Err }

const maxUpstreamMessage = 200

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// chatCompleter is the part of the openai client in use.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Client struct {
	api     chatCompleter
	model   string
	timeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return newClient(openai.NewClientWithConfig(clientCfg), cfg), nil
}

func newClient(api chatCompleter, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Client{api: api, model: model, timeout: timeout}
}

// ScoutPrompt is what the model knows about the scout being drafted.
type ScoutPrompt struct {
	CompanyName    string
	JobTitle       string
	JobDescription string
	SeekerName     string
	ResumeTitle    string
	Skills         string
	DesiredJob     string
	Tone           string
}

func (p ScoutPrompt) render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", p.CompanyName)
	if p.JobTitle != "" {
		fmt.Fprintf(&b, "Position: %s\n", p.JobTitle)
	}
	if p.JobDescription != "" {
		fmt.Fprintf(&b, "Position details: %s\n", truncate(p.JobDescription, 1500))
	}
	fmt.Fprintf(&b, "Candidate: %s\n", p.SeekerName)
	if p.ResumeTitle != "" {
		fmt.Fprintf(&b, "Resume headline: %s\n", p.ResumeTitle)
	}
	if p.Skills != "" {
		fmt.Fprintf(&b, "Skills: %s\n", truncate(p.Skills, 1000))
	}
	if p.DesiredJob != "" {
		fmt.Fprintf(&b, "Desired job: %s\n", p.DesiredJob)
	}
	tone := p.Tone
	if tone == "" {
		tone = "formal"
	}
	fmt.Fprintf(&b, "Tone: %s\n", tone)
	return b.String()
}

const scoutSystemPrompt = "You write short, specific recruiting scout messages from a company to a job seeker. " +
	"Mention why the candidate's background fits. Do not invent facts. Reply with the message body only."

// DraftScout returns a scout message body. The call is bounded by the
// configured timeout and by ctx.
func (c *Client) DraftScout(ctx context.Context, prompt ScoutPrompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: scoutSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt.render()},
		},
		MaxTokens:   600,
		Temperature: 0.7,
	})
	if err != nil {
		return "", &UpstreamError{Message: truncate(err.Error(), maxUpstreamMessage), Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &UpstreamError{Message: "empty completion"}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

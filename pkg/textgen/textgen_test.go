package textgen

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	resp    openai.ChatCompletionResponse
	err     error
	gotReq  openai.ChatCompletionRequest
	blockOn bool
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.gotReq = req
	if f.blockOn {
		<-ctx.Done()
		return openai.ChatCompletionResponse{}, ctx.Err()
	}
	return f.resp, f.err
}

func TestDraftScout(t *testing.T) {
	fake := &fakeCompleter{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "  Hello Taro  "}}},
	}}
	c := newClient(fake, Config{})

	msg, err := c.DraftScout(context.Background(), ScoutPrompt{CompanyName: "Acme", SeekerName: "Taro", Skills: "Go"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Taro", msg)
	assert.Equal(t, openai.GPT4oMini, fake.gotReq.Model)
	assert.Contains(t, fake.gotReq.Messages[1].Content, "Skills: Go")
	assert.Contains(t, fake.gotReq.Messages[1].Content, "Tone: formal")
}

func TestDraftScoutTruncatesUpstreamErrors(t *testing.T) {
	fake := &fakeCompleter{err: errors.New(strings.Repeat("x", 500))}
	c := newClient(fake, Config{})

	_, err := c.DraftScout(context.Background(), ScoutPrompt{})
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Len(t, upstream.Message, maxUpstreamMessage)
}

func TestDraftScoutTimeout(t *testing.T) {
	c := newClient(&fakeCompleter{blockOn: true}, Config{Timeout: 20 * time.Millisecond})

	_, err := c.DraftScout(context.Background(), ScoutPrompt{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

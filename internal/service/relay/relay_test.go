package relay

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivekdev/portfolio/backend/internal/model/chat"
	"github.com/vivekdev/portfolio/backend/internal/model/profile"
)

type recordingGenerator struct {
	mu      sync.Mutex
	calls   int32
	prompts []string
	reply   string
	err     error
}

func (g *recordingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt32(&g.calls, 1)
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func TestReplyWithoutUserMessageSkipsProvider(t *testing.T) {
	gen := &recordingGenerator{reply: "unused"}
	svc := NewService(gen, profile.Seed())

	for _, transcript := range [][]chat.Message{
		nil,
		{msg(chat.RoleAssistant, "greeting")},
		{msg(chat.RoleAssistant, "a"), msg(chat.RoleAssistant, "b")},
	} {
		_, err := svc.Reply(context.Background(), transcript)
		assert.ErrorIs(t, err, ErrMissingUserMessage)
	}

	assert.Zero(t, atomic.LoadInt32(&gen.calls))
}

func TestReplyReturnsProviderTextVerbatim(t *testing.T) {
	gen := &recordingGenerator{reply: "  **Vivek** knows React.\n"}
	svc := NewService(gen, profile.Seed())

	out, err := svc.Reply(context.Background(), []chat.Message{
		msg(chat.RoleAssistant, "hi"),
		msg(chat.RoleUser, "skills?"),
	})
	require.NoError(t, err)

	assert.Equal(t, "  **Vivek** knows React.\n", out)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "User: skills?")
}

func TestReplyUsesLastUserMessageAsQuery(t *testing.T) {
	gen := &recordingGenerator{reply: "ok"}
	svc := NewService(gen, profile.Seed())

	transcript := []chat.Message{
		msg(chat.RoleAssistant, "hi"),
		msg(chat.RoleUser, "older question"),
		msg(chat.RoleUser, "newest question"),
		msg(chat.RoleAssistant, "tail"),
	}
	_, err := svc.Reply(context.Background(), transcript)
	require.NoError(t, err)

	want, err := BuildPrompt(profile.Seed(), transcript)
	require.NoError(t, err)
	assert.Equal(t, want, gen.prompts[0])
	assert.Contains(t, gen.prompts[0], "\n\nUser: newest question\n\n")
}

func TestReplyWrapsProviderFailureWithoutRetry(t *testing.T) {
	cause := errors.New("quota exceeded")
	gen := &recordingGenerator{err: cause}
	svc := NewService(gen, profile.Seed())

	_, err := svc.Reply(context.Background(), []chat.Message{msg(chat.RoleUser, "hi")})

	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.EqualValues(t, 1, atomic.LoadInt32(&gen.calls))
}

func TestReplyIsSafeForConcurrentCallers(t *testing.T) {
	gen := &recordingGenerator{reply: "ok"}
	svc := NewService(gen, profile.Seed())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reply(context.Background(), []chat.Message{msg(chat.RoleUser, "hi")})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 16, atomic.LoadInt32(&gen.calls))
}

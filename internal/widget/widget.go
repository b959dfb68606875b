// Package widget implements the chat widget's conversation state: the
// append-only transcript, the open/closed flag, the rotating suggested
// question and the turn state machine that allows one outstanding relay
// request at a time.
package widget

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/qmuntal/stateless"
	"github.com/rs/zerolog/log"

	"github.com/vivekdev/portfolio/backend/internal/model/chat"
)

// FallbackReply is appended in place of any failed relay turn.
const FallbackReply = "Sorry, I encountered an error. Please try again later."

// TurnState is a state of the per-turn machine.
type TurnState string

const (
	StateIdle             TurnState = "Idle"
	StateAwaitingResponse TurnState = "AwaitingResponse"
)

const (
	triggerSubmit  = "Submit"
	triggerResolve = "Resolve"
)

var (
	// ErrEmptyInput is returned for empty or whitespace-only submissions; nothing changes.
	ErrEmptyInput = errors.New("empty input")
	// ErrTurnInFlight is returned while a previous turn is still awaiting its reply.
	ErrTurnInFlight = errors.New("a reply is already pending")
)

// Relay produces the assistant reply for a full transcript.
type Relay interface {
	Reply(ctx context.Context, transcript []chat.Message) (string, error)
}

// Options configures a Widget.
type Options struct {
	Greeting    string
	Suggestions []string
	// ReplyDelay is the minimum time before a successful reply is shown.
	ReplyDelay time.Duration
	// Rand picks suggestions; nil uses a time-seeded source.
	Rand *rand.Rand
}

// Widget owns the conversation for one session. Safe for concurrent use.
type Widget struct {
	relay      Relay
	replyDelay time.Duration

	mu              sync.Mutex
	turn            *stateless.StateMachine
	messages        []chat.Message
	input           string
	open            bool
	showSuggestions bool
	suggestions     []string
	suggestion      string
	rng             *rand.Rand
}

// New returns a closed, idle widget seeded with the greeting.
func New(relay Relay, opts Options) *Widget {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	w := &Widget{
		relay:           relay,
		replyDelay:      opts.ReplyDelay,
		turn:            newTurnMachine(),
		messages:        []chat.Message{chat.NewMessage(chat.RoleAssistant, opts.Greeting)},
		showSuggestions: true,
		suggestions:     append([]string(nil), opts.Suggestions...),
		rng:             rng,
	}
	w.pickSuggestionLocked()
	return w
}

func newTurnMachine() *stateless.StateMachine {
	sm := stateless.NewStateMachine(StateIdle)

	sm.Configure(StateIdle).
		Permit(triggerSubmit, StateAwaitingResponse)

	sm.Configure(StateAwaitingResponse).
		Permit(triggerResolve, StateIdle)

	sm.OnTransitioned(func(_ context.Context, t stateless.Transition) {
		log.Debug().
			Interface("from", t.Source).
			Interface("to", t.Destination).
			Interface("trigger", t.Trigger).
			Msg("widget turn transition")
	})
	return sm
}

// Submit runs one turn for text and returns the assistant message that ended it.
// Relay failures are replaced by FallbackReply and reported as success.
func (w *Widget) Submit(ctx context.Context, text string) (chat.Message, error) {
	if strings.TrimSpace(text) == "" {
		return chat.Message{}, ErrEmptyInput
	}

	w.mu.Lock()
	if ok, _ := w.turn.CanFire(triggerSubmit); !ok {
		w.mu.Unlock()
		return chat.Message{}, ErrTurnInFlight
	}
	if err := w.turn.Fire(triggerSubmit); err != nil {
		w.mu.Unlock()
		return chat.Message{}, ErrTurnInFlight
	}
	w.messages = append(w.messages, chat.NewMessage(chat.RoleUser, text))
	w.input = ""
	w.showSuggestions = false
	transcript := chat.Clone(w.messages)
	w.mu.Unlock()

	content, err := w.relay.Reply(ctx, transcript)
	if err != nil {
		log.Warn().Err(err).Msg("relay turn failed, showing fallback reply")
		content = FallbackReply
	} else {
		w.wait(ctx)
	}

	reply := chat.NewMessage(chat.RoleAssistant, content)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, reply)
	if err := w.turn.Fire(triggerResolve); err != nil {
		// Only reachable if the machine was configured inconsistently.
		log.Error().Err(err).Msg("widget failed to return to idle")
	}
	return reply, nil
}

// SubmitInput submits the current input buffer.
func (w *Widget) SubmitInput(ctx context.Context) (chat.Message, error) {
	return w.Submit(ctx, w.Input())
}

// SubmitSuggestion submits the currently displayed suggestion as if typed.
// Without a suggestion the input buffer is left untouched.
func (w *Widget) SubmitSuggestion(ctx context.Context) (chat.Message, error) {
	w.mu.Lock()
	suggestion := w.suggestion
	if strings.TrimSpace(suggestion) == "" {
		w.mu.Unlock()
		return chat.Message{}, ErrEmptyInput
	}
	w.input = suggestion
	w.mu.Unlock()
	return w.Submit(ctx, suggestion)
}

func (w *Widget) wait(ctx context.Context) {
	if w.replyDelay <= 0 {
		return
	}
	timer := time.NewTimer(w.replyDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// State reports the current turn state.
func (w *Widget) State() TurnState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.turn.MustState().(TurnState)
}

// Typing reports whether a reply is pending; the submit affordance is disabled meanwhile.
func (w *Widget) Typing() bool {
	return w.State() == StateAwaitingResponse
}

// Transcript returns a copy of the conversation so far.
func (w *Widget) Transcript() []chat.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return chat.Clone(w.messages)
}

// SetInput replaces the input buffer.
func (w *Widget) SetInput(text string) {
	w.mu.Lock()
	w.input = text
	w.mu.Unlock()
}

// Input returns the input buffer.
func (w *Widget) Input() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.input
}

// Open shows the conversation panel.
func (w *Widget) Open() { w.setOpen(true) }

// Close hides the conversation panel.
func (w *Widget) Close() { w.setOpen(false) }

// Toggle flips the panel and returns the new state.
func (w *Widget) Toggle() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = !w.open
	return w.open
}

func (w *Widget) setOpen(open bool) {
	w.mu.Lock()
	w.open = open
	w.mu.Unlock()
}

// IsOpen reports whether the panel is shown.
func (w *Widget) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

// ShowSuggestions reports whether the suggestion list is still offered.
// It is hidden after the first submission.
func (w *Widget) ShowSuggestions() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.showSuggestions
}

// Suggestions returns the fixed suggestion list.
func (w *Widget) Suggestions() []string {
	return append([]string(nil), w.suggestions...)
}

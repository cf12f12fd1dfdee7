package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-scout-backend/internal/domain"
)

type recordingBus struct {
	mu     sync.Mutex
	rooms  []string
	frames [][]byte
	err    error
}

func (b *recordingBus) Publish(_ context.Context, room string, frame []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms = append(b.rooms, room)
	b.frames = append(b.frames, frame)
	return b.err
}

func (b *recordingBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *recordingMailer) Send(_ context.Context, to, _, templateName string, _ map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+":"+templateName)
	return m.err
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func TestDispatcher(t *testing.T) {
	t.Run("Should publish events to the user's room in FIFO order", func(t *testing.T) {
		bus := &recordingBus{}
		d := NewDispatcher(bus, nil, 16)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() { d.Run(ctx); close(done) }()

		for i := 0; i < 5; i++ {
			d.Publish(ctx, domain.Event{Type: domain.EventScoutCreated, UserID: "seeker-1", Payload: map[string]int{"n": i}})
		}

		require.Eventually(t, func() bool { return bus.count() == 5 }, time.Second, 5*time.Millisecond)
		cancel()
		<-done

		for i, frame := range bus.frames {
			assert.Equal(t, "notifications_seeker-1", bus.rooms[i])
			var decoded struct {
				Type    string         `json:"type"`
				Payload map[string]int `json:"payload"`
				UserID  string         `json:"user_id"`
			}
			require.NoError(t, json.Unmarshal(frame, &decoded))
			assert.Equal(t, domain.EventScoutCreated, decoded.Type)
			assert.Equal(t, i, decoded.Payload["n"])
			assert.Empty(t, decoded.UserID)
		}
	})

	t.Run("Should hand email jobs to the mailer", func(t *testing.T) {
		mailer := &recordingMailer{}
		d := NewDispatcher(&recordingBus{}, mailer, 4)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go d.Run(ctx)

		d.SendEmail(ctx, domain.EmailJob{To: "a@example.com", Template: "scout_received"})

		require.Eventually(t, func() bool { return mailer.count() == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, "a@example.com:scout_received", mailer.sent[0])
	})

	t.Run("Should swallow bus and mailer failures", func(t *testing.T) {
		bus := &recordingBus{err: errors.New("down")}
		mailer := &recordingMailer{err: errors.New("smtp down")}
		d := NewDispatcher(bus, mailer, 4)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go d.Run(ctx)

		d.Publish(ctx, domain.Event{Type: domain.EventMessageCreated, UserID: "u"})
		d.SendEmail(ctx, domain.EmailJob{To: "b@example.com"})
		d.Publish(ctx, domain.Event{Type: domain.EventMessageCreated, UserID: "u"})

		require.Eventually(t, func() bool { return bus.count() == 2 && mailer.count() == 1 }, time.Second, 5*time.Millisecond)
	})

	t.Run("Should drop instead of blocking when the queue is full", func(t *testing.T) {
		bus := &recordingBus{}
		d := NewDispatcher(bus, nil, 2)

		for i := 0; i < 5; i++ {
			d.Publish(context.Background(), domain.Event{Type: domain.EventMessageCreated, UserID: "u"})
		}
		assert.Len(t, d.queue, 2)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		d.Run(ctx)
		assert.Equal(t, 2, bus.count())
	})
}

func TestLocalBus(t *testing.T) {
	t.Run("Should feed the hub directly", func(t *testing.T) {
		hub := NewHub(2)
		sub := hub.Subscribe(RoomName("u1"))
		d := NewDispatcher(NewLocalBus(hub), nil, 4)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go d.Run(ctx)

		d.Publish(ctx, domain.Event{Type: domain.EventApplicationCreated, UserID: "u1", Payload: map[string]string{"id": "a1"}})

		select {
		case frame := <-sub.C:
			assert.JSONEq(t, `{"type":"application.created","payload":{"id":"a1"}}`, string(frame))
		case <-time.After(time.Second):
			t.Fatal("frame not delivered")
		}
	})
}

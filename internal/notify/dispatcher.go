package notify

import (
	"context"
	"encoding/json"
	"time"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/logger"
)

const (
	DefaultQueueSize = 1024
	publishTimeout   = 5 * time.Second
	mailTimeout      = 30 * time.Second
)

// Mailer is the email sink. *email.EmailService satisfies it.
type Mailer interface {
	Send(ctx context.Context, to, subject, templateName string, data map[string]string) error
}

type job struct {
	event *domain.Event
	email *domain.EmailJob
}

// Dispatcher is the post-commit notification queue. Publish and SendEmail
// never block; a single goroutine drains the queue in FIFO order so events
// for one user keep their commit order.
type Dispatcher struct {
	bus    Bus
	mailer Mailer
	queue  chan job
	mail   chan domain.EmailJob
}

var _ domain.Notifier = (*Dispatcher)(nil)

func NewDispatcher(bus Bus, mailer Mailer, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Dispatcher{
		bus:    bus,
		mailer: mailer,
		queue:  make(chan job, queueSize),
		mail:   make(chan domain.EmailJob, queueSize),
	}
}

func (d *Dispatcher) Publish(_ context.Context, event domain.Event) {
	select {
	case d.queue <- job{event: &event}:
	default:
		logger.Log.Warn("Notification queue full, dropping event", "type", event.Type, "user_id", event.UserID)
	}
}

func (d *Dispatcher) SendEmail(_ context.Context, email domain.EmailJob) {
	select {
	case d.queue <- job{email: &email}:
	default:
		logger.Log.Warn("Notification queue full, dropping email", "template", email.Template)
	}
}

// Run drains the queue until ctx is cancelled, then flushes what is left.
func (d *Dispatcher) Run(ctx context.Context) {
	mailDone := make(chan struct{})
	go func() {
		defer close(mailDone)
		d.runMail(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			d.flush()
			<-mailDone
			return
		case j := <-d.queue:
			d.handle(j)
		}
	}
}

func (d *Dispatcher) flush() {
	for {
		select {
		case j := <-d.queue:
			if j.event != nil {
				d.handle(j)
			}
		default:
			return
		}
	}
}

func (d *Dispatcher) handle(j job) {
	if j.email != nil {
		select {
		case d.mail <- *j.email:
		default:
			logger.Log.Warn("Mail queue full, dropping email", "template", j.email.Template)
		}
		return
	}

	ev := j.event
	frame, err := json.Marshal(ev)
	if err != nil {
		logger.Log.Warn("Failed to encode notification", "type", ev.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := d.bus.Publish(ctx, RoomName(ev.UserID), frame); err != nil {
		logger.Log.Warn("Failed to publish notification", "type", ev.Type, "user_id", ev.UserID, "error", err)
	}
}

func (d *Dispatcher) runMail(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			if n := len(d.mail); n > 0 {
				logger.Log.Warn("Dropping queued emails on shutdown", "count", n)
			}
			return
		case m := <-d.mail:
			d.deliver(m)
		}
	}
}

func (d *Dispatcher) deliver(m domain.EmailJob) {
	if d.mailer == nil {
		logger.Log.Debug("No mailer configured, skipping email", "template", m.Template)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
	defer cancel()
	if err := d.mailer.Send(ctx, m.To, m.Subject, m.Template, m.Data); err != nil {
		logger.Log.Warn("Failed to send email", "template", m.Template, "error", err)
	}
}

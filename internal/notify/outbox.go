package notify

import (
	"context"
	"errors"
	"sync"

	"availability-bot/internal/metrics"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var ErrOutboxClosed = errors.New("outbox closed")

// Notifier delivers an event to one sink (chat, pub/sub channel...).
type Notifier interface {
	Name() string
	Notify(ctx context.Context, ev Event) error
}

type OutboxConfig struct {
	Workers int
	Size    int
	// Rate is the number of deliveries per second; 0 disables limiting.
	Rate float64
}

func DefaultOutboxConfig() OutboxConfig {
	return OutboxConfig{Workers: 4, Size: 256, Rate: 20}
}

type job struct {
	kind string
	run  func(ctx context.Context) error
}

// Outbox runs notification and e-mail deliveries off the caller's path.
// Enqueueing never blocks; failures are logged and counted, never returned.
type Outbox struct {
	jobs      chan job
	notifiers []Notifier
	mailer    Mailer
	limiter   *rate.Limiter
	logger    *logrus.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewOutbox(cfg OutboxConfig, mailer Mailer, notifiers ...Notifier) *Outbox {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Size <= 0 {
		cfg.Size = 1
	}
	if mailer == nil {
		mailer = NopMailer{}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Workers)
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Outbox{
		jobs:      make(chan job, cfg.Size),
		notifiers: notifiers,
		mailer:    mailer,
		limiter:   limiter,
		logger:    logrus.New(),
		ctx:       ctx,
		cancel:    cancel,
	}

	for i := 0; i < cfg.Workers; i++ {
		o.wg.Add(1)
		go o.work()
	}
	return o
}

// SetLogger replaces the default logger.
func (o *Outbox) SetLogger(logger *logrus.Logger) {
	o.logger = logger
}

// Publish queues ev for every notifier.
func (o *Outbox) Publish(ev Event) {
	for _, n := range o.notifiers {
		n := n
		o.enqueue(job{kind: n.Name(), run: func(ctx context.Context) error {
			err := n.Notify(ctx, ev)
			metrics.IncNotification(n.Name(), err == nil)
			if err != nil {
				o.logger.WithError(err).WithFields(logrus.Fields{
					"sink":  n.Name(),
					"event": ev.Type,
					"id":    ev.ID,
				}).Error("Failed to deliver notification")
			}
			return err
		}})
	}
}

// SendEmail queues msg for the mailer.
func (o *Outbox) SendEmail(msg Message) {
	o.enqueue(job{kind: "email", run: func(ctx context.Context) error {
		err := o.mailer.Send(ctx, msg)
		metrics.IncEmail(err == nil)
		if err != nil {
			o.logger.WithError(err).WithFields(logrus.Fields{
				"to":      msg.To,
				"subject": msg.Subject,
			}).Error("Failed to send email")
		}
		return err
	}})
}

func (o *Outbox) enqueue(j job) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		metrics.IncOutboxDropped()
		o.logger.WithField("kind", j.kind).WithError(ErrOutboxClosed).Warn("Dropping outbound job")
		return
	}

	select {
	case o.jobs <- j:
		metrics.SetOutboxLength(len(o.jobs))
	default:
		metrics.IncOutboxDropped()
		o.logger.WithField("kind", j.kind).Warn("Outbound queue is full, dropping job")
	}
}

func (o *Outbox) work() {
	defer o.wg.Done()

	for j := range o.jobs {
		metrics.SetOutboxLength(len(o.jobs))
		if err := o.limiter.Wait(o.ctx); err != nil {
			o.logger.WithField("kind", j.kind).WithError(err).Warn("Outbound job abandoned")
			continue
		}
		o.runSafe(j)
	}
}

func (o *Outbox) runSafe(j job) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.WithFields(logrus.Fields{"kind": j.kind, "panic": r}).Error("Outbound job panicked")
		}
	}()
	_ = j.run(o.ctx)
}

// Close stops accepting jobs and waits until the queued ones are delivered
// or ctx expires; remaining jobs are then abandoned.
func (o *Outbox) Close(ctx context.Context) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	close(o.jobs)
	o.mu.Unlock()

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		o.cancel()
		return nil
	case <-ctx.Done():
		o.cancel()
		<-done
		return ctx.Err()
	}
}

package service

import "availability-bot/internal/notify"

// Dispatcher accepts outbound events and e-mails. Implementations must not
// block and must not report delivery failures back.
type Dispatcher interface {
	Publish(ev notify.Event)
	SendEmail(msg notify.Message)
}

type nopDispatcher struct{}

func (nopDispatcher) Publish(notify.Event) {}
func (nopDispatcher) SendEmail(notify.Message) {}

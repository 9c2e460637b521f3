package emailsvc

import (
	"sync"

	"github.com/dkasongo/darasa/core"
)

// DummyService collects messages without sending; used in tests.
type DummyService struct {
	mu   sync.Mutex
	sent []core.EmailMessage
}

var _ core.EmailService = (*DummyService)(nil)

func NewDummyService() *DummyService {
	return &DummyService{}
}

func (svc *DummyService) SendMessages(messages ...*core.EmailMessage) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for _, msg := range messages {
		if err := msg.Render(); err != nil {
			continue
		}
		if msg.HasRecipients() && (msg.HasContent() || msg.HasAttachments()) {
			svc.sent = append(svc.sent, *msg)
		}
	}
}

func (svc *DummyService) SendMessage(msg *core.EmailMessage) error {
	svc.SendMessages(msg)
	return nil
}

// Sent returns a copy of all collected messages.
func (svc *DummyService) Sent() []core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]core.EmailMessage(nil), svc.sent...)
}

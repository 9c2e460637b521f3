package emailsvc

import (
	"net/mail"
	"testing"

	"github.com/dkasongo/darasa/core"
)

// SendMessage must deliver before returning: CLI callers exit right after
// sending and a goroutine-based send would be dropped with the process.
func TestConsoleService_SendMessage_deliversBeforeReturning(t *testing.T) {
	svc := consoleService{
		defaultFromEmail: mail.Address{Name: "Darasa", Address: "noreply@darasa.cd"},
		subjPrefix:       "[Darasa] ",
		disableOutput:    true,
	}

	mu.Lock()
	before := len(SentMessages)
	mu.Unlock()

	err := svc.SendMessage(&core.EmailMessage{
		To:      []mail.Address{{Address: "admin@school.cd"}},
		Subject: "Backup",
		BodyStr: "Attached is your backup.",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	mu.Lock()
	after := len(SentMessages)
	mu.Unlock()
	if after != before+1 {
		t.Errorf("message not delivered by the time SendMessage returned; sent count went %d -> %d", before, after)
	}
}

func TestConsoleService_SendMessage_skipsEmptyMessage(t *testing.T) {
	svc := consoleService{disableOutput: true}

	mu.Lock()
	before := len(SentMessages)
	mu.Unlock()

	if err := svc.SendMessage(&core.EmailMessage{Subject: "no recipients"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	mu.Lock()
	after := len(SentMessages)
	mu.Unlock()
	if after != before {
		t.Errorf("expected empty message to be skipped; sent count went %d -> %d", before, after)
	}
}

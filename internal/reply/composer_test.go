package reply_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gabrielbagon/email-classifier-api/internal/domain"
	"github.com/gabrielbagon/email-classifier-api/internal/reply"
)

func fixedComposer() *reply.Composer {
	// Monday 2026-01-05 09:00 UTC.
	at := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	return reply.NewComposerAt(func() time.Time { return at })
}

func TestCompose_StatusRequestWithTicket(t *testing.T) {
	got, err := fixedComposer().Compose(reply.Request{
		Category: domain.CategoryProductive,
		Subtype:  domain.SubtypeStatusRequest,
		Entities: domain.Entities{Greeting: "bom dia", Name: "Maria", TicketID: "AB-12345"},
		Lang:     reply.LangPT,
		SLAHours: 24,
	})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	want := "Bom dia, Maria. Recebemos sua solicitação de status. O protocolo AB-12345 está em análise; enviaremos atualização até 06/01/2026 09:00."
	if got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestCompose_StatusRequestWithoutTicketAsksForID(t *testing.T) {
	got, err := fixedComposer().Compose(reply.Request{
		Category: domain.CategoryProductive,
		Subtype:  domain.SubtypeStatusRequest,
		Lang:     reply.LangEN,
		SLAHours: 24,
	})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if !strings.HasPrefix(got, "Hello. We received your status request. Could you share the case ID") {
		t.Errorf("reply = %q, want the no-ticket variant with the English default salutation", got)
	}
	if !strings.Contains(got, "1/6/2026 9:00 AM") {
		t.Errorf("reply = %q, want the SLA deadline rendered in the en-US layout", got)
	}
}

func TestCompose_DefaultsToPortugueseAndDefaultSLA(t *testing.T) {
	got, err := fixedComposer().Compose(reply.Request{
		Category: domain.CategoryProductive,
		Subtype:  domain.SubtypeGeneralQuestion,
	})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	want := "Olá. Obrigado pela mensagem. Estamos avaliando e retornamos até 06/01/2026 09:00."
	if got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestCompose_AttachmentBranches(t *testing.T) {
	base := reply.Request{
		Category: domain.CategoryProductive,
		Subtype:  domain.SubtypeAttachmentShare,
		Lang:     reply.LangES,
	}

	withAttachment := base
	withAttachment.Entities.HasAttachment = true
	got, err := fixedComposer().Compose(withAttachment)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !strings.Contains(got, "Adjunto recibido correctamente") {
		t.Errorf("reply = %q, want the attachment-confirmed variant", got)
	}

	got, err = fixedComposer().Compose(base)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !strings.Contains(got, "Registro recibido") {
		t.Errorf("reply = %q, want the no-attachment variant", got)
	}
}

func TestCompose_Unproductive(t *testing.T) {
	got, err := fixedComposer().Compose(reply.Request{
		Category: domain.CategoryUnproductive,
		Subtype:  domain.SubtypeGreetingsOrThanks,
		Entities: domain.Entities{Greeting: "boa tarde"},
		Lang:     reply.LangPT,
	})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	want := "Boa tarde. Agradecemos a mensagem e os bons votos! Desejamos o mesmo para você."
	if got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestCompose_RejectsUnknownLabels(t *testing.T) {
	_, err := fixedComposer().Compose(reply.Request{
		Category: domain.Category("Spam"),
		Subtype:  domain.SubtypeStatusRequest,
	})
	if !errors.Is(err, reply.ErrInvalidCategory) {
		t.Errorf("err = %v, want ErrInvalidCategory", err)
	}

	_, err = fixedComposer().Compose(reply.Request{
		Category: domain.CategoryProductive,
		Subtype:  domain.Subtype("complaint"),
	})
	if !errors.Is(err, reply.ErrInvalidSubtype) {
		t.Errorf("err = %v, want ErrInvalidSubtype", err)
	}
}

func TestResolveLanguage(t *testing.T) {
	testCases := []struct {
		tag  string
		want reply.Language
	}{
		{"pt", reply.LangPT},
		{"pt-BR", reply.LangPT},
		{"en", reply.LangEN},
		{"en-US", reply.LangEN},
		{"es-419", reply.LangES},
		{"", reply.LangPT},
		{"zz-!!", reply.LangPT},
		{"de", reply.LangPT},
	}

	for _, tc := range testCases {
		if got := reply.ResolveLanguage(tc.tag); got != tc.want {
			t.Errorf("ResolveLanguage(%q) = %s, want %s", tc.tag, got, tc.want)
		}
	}
}

package classifier_test

import (
	"testing"

	"github.com/gabrielbagon/email-classifier-api/internal/classifier"
)

func detect(t *testing.T, raw string) classifier.SignalHits {
	t.Helper()
	d := classifier.NewSignalDetector()
	return d.Detect(raw, classifier.Normalize(raw))
}

func TestSignalDetector_KeywordFamilies(t *testing.T) {
	testCases := []struct {
		name       string
		raw        string
		status     bool
		support    bool
		attachment bool
		greeting   bool
	}{
		{
			name:   "status keywords",
			raw:    "Qual o andamento e o prazo do pedido",
			status: true,
		},
		{
			name:    "support keywords",
			raw:     "Estou com erro de login, o sistema está indisponível",
			support: true,
		},
		{
			name:       "attachment keywords",
			raw:        "Segue em anexo o comprovante",
			attachment: true,
		},
		{
			name:     "greeting keywords",
			raw:      "Feliz Natal e boas festas a todos",
			greeting: true,
		},
		{
			name: "no keywords",
			raw:  "A reunião foi remarcada para quinta-feira",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hits := detect(t, tc.raw)
			if got := len(hits.Status) > 0; got != tc.status {
				t.Errorf("status hits = %v, want %v (%v)", got, tc.status, hits.Status)
			}
			if got := len(hits.Support) > 0; got != tc.support {
				t.Errorf("support hits = %v, want %v (%v)", got, tc.support, hits.Support)
			}
			if got := len(hits.Attachment) > 0; got != tc.attachment {
				t.Errorf("attachment hits = %v, want %v (%v)", got, tc.attachment, hits.Attachment)
			}
			if got := len(hits.Greeting) > 0; got != tc.greeting {
				t.Errorf("greeting hits = %v, want %v (%v)", got, tc.greeting, hits.Greeting)
			}
		})
	}
}

func TestSignalDetector_WholeWordOnly(t *testing.T) {
	// "erros" must not fire the "erro" keyword; matching is whole-word.
	hits := detect(t, "registramos os dados sem problema")
	if !hits.None() {
		t.Fatalf("expected no hits, got %+v", hits)
	}

	hits = detect(t, "cadastro com timeouts constantes")
	if len(hits.Support) != 0 {
		t.Errorf("substring match leaked: %v", hits.Support)
	}
}

func TestSignalDetector_AccentedKeywordsMatchAfterNormalization(t *testing.T) {
	hits := detect(t, "Pode enviar uma atualização da previsão?")
	if len(hits.Status) == 0 {
		t.Error("expected status hits from accented keywords")
	}
	if !hits.IsQuestion {
		t.Error("expected question from '?'")
	}
}

func TestSignalDetector_TicketMention(t *testing.T) {
	hits := detect(t, "o protocolo segue parado")
	if !hits.MentionsTicket {
		t.Error("expected ticket mention from 'protocolo'")
	}

	hits = detect(t, "nada a declarar")
	if hits.MentionsTicket {
		t.Error("unexpected ticket mention")
	}
}

func TestIsQuestion(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want bool
	}{
		{"question mark", "Tudo certo?", true},
		{"inverted question mark", "¿Cómo va mi caso", true},
		{"polite phrase", "Poderia me retornar ainda hoje", true},
		{"polite multiword phrase", "Pode verificar o cadastro", true},
		{"statement", "Obrigado pela atenção.", false},
		{"phrase inside word does not count", "empoderia não é pergunta", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hits := detect(t, tc.raw)
			if hits.IsQuestion != tc.want {
				t.Errorf("IsQuestion(%q) = %v, want %v", tc.raw, hits.IsQuestion, tc.want)
			}
		})
	}
}

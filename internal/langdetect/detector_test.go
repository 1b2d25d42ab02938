package langdetect_test

import (
	"testing"

	"github.com/gabrielbagon/email-classifier-api/internal/langdetect"
	"github.com/gabrielbagon/email-classifier-api/internal/reply"
)

func TestDetect(t *testing.T) {
	d := langdetect.New()

	testCases := []struct {
		name string
		text string
		want reply.Language
	}{
		{"portuguese", "Bom dia, gostaria de saber o andamento do meu chamado aberto na semana passada.", reply.LangPT},
		{"english", "Hello, could you please share an update on the status of my support case?", reply.LangEN},
		{"spanish", "Hola, ¿podría indicarme el estado de mi solicitud abierta la semana pasada?", reply.LangES},
		{"too short defaults to pt", "ok", reply.LangPT},
		{"empty defaults to pt", "", reply.LangPT},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.Detect(tc.text); got != tc.want {
				t.Errorf("Detect(%q) = %s, want %s", tc.text, got, tc.want)
			}
		})
	}
}

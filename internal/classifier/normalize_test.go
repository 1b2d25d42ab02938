package classifier_test

import (
	"testing"

	"github.com/gabrielbagon/email-classifier-api/internal/classifier"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases",
			input: "STATUS DO Chamado",
			want:  "status do chamado",
		},
		{
			name:  "strips diacritics",
			input: "Atualização da previsão, por gentileza",
			want:  "atualizacao da previsao, por gentileza",
		},
		{
			name:  "collapses whitespace",
			input: "  bom \t dia \n\n equipe  ",
			want:  "bom dia equipe",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: " \n\t ",
			want:  "",
		},
		{
			name:  "mixed accents",
			input: "Olá! Não há posição?",
			want:  "ola! nao ha posicao?",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifier.Normalize(tc.input); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

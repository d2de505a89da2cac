package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	cases := map[string]string{
		"Móveis São José":   "moveis sao jose",
		"  João Conceição ": "joao conceicao",
		"ESTOFADO":          "estofado",
		"":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Fold(in), "input %q", in)
	}
}

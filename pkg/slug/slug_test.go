package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Chocolates Artesanales":       "chocolates-artesanales",
		"Cocadas Típicas de Cartagena": "cocadas-tipicas-de-cartagena",
		"  Piñata   Sorpresa!! ":       "pinata-sorpresa",
		"Caja x 12 (Edición 2026)":     "caja-x-12-edicion-2026",
		"---":                          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), in)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("dulces-de-leche"))
	assert.False(t, Valid("Dulces de Leche"))
	assert.False(t, Valid(""))
}

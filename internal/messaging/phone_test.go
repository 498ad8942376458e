package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare digits get a plus", input: "60123456789", want: "+60123456789"},
		{name: "already normalized", input: "+60123456789", want: "+60123456789"},
		{name: "surrounding whitespace", input: "  60123456789 ", want: "+60123456789"},
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	once := NormalizePhone("60123456789")
	assert.Equal(t, once, NormalizePhone(once))
}

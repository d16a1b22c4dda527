package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"", color.RGBA{A: 0xff}},
		{"black", color.RGBA{A: 0xff}},
		{" Red ", color.RGBA{R: 0xff, A: 0xff}},
		{"#00ff80", color.RGBA{G: 0xff, B: 0x80, A: 0xff}},
		{"#0F8", color.RGBA{G: 0xff, B: 0x88, A: 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"notacolor", "#12", "#gggggg", "#1234567"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithAlpha(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 127, G: 0, B: 0, A: 127}, WithAlpha(color.RGBA{R: 255, A: 255}, 127))
	assert.Equal(t, White, WithAlpha(White, 255))
	assert.Equal(t, color.RGBA{}, WithAlpha(White, 0))
}

func TestLabelOn(t *testing.T) {
	tests := []struct {
		name string
		bg   color.Color
		want color.RGBA
	}{
		{"white", White, Black},
		{"yellow", Yellow, Black},
		{"black", Black, White},
		{"backdrop", Backdrop, White},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LabelOn(tt.bg))
		})
	}
	assert.InDelta(t, 255, Luminance(White), 0.01)
}

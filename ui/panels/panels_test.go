package panels

import (
	"image"
	"testing"

	"atlas-editor/internal/arrange"
	"atlas-editor/internal/region"
	"atlas-editor/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"icon_2", "icon_10", true},
		{"icon_10", "icon_2", false},
		{"Button", "arrow", false},
		{"a", "a1", true},
		{"same", "same", false},
	}
	for _, tt := range tests {
		t.Run(tt.a+"<"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, naturalLess(tt.a, tt.b))
		})
	}
}

func TestNaturalOrder(t *testing.T) {
	names := []string{"region_10", "region_2", "button", "region_1"}
	assert.Equal(t, []int{2, 3, 1, 0}, naturalOrder(names))
	assert.Empty(t, naturalOrder(nil))
}

func TestTopFirst(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 40, 10))
	scene, _ := arrange.NewScene(src, []region.Region{
		{Name: "a", Bounds: geometry.RectInt{X: 0, Y: 0, Width: 10, Height: 10}},
		{Name: "b", Bounds: geometry.RectInt{X: 10, Y: 0, Width: 10, Height: 10}},
		{Name: "c", Bounds: geometry.RectInt{X: 20, Y: 0, Width: 10, Height: 10}},
	})
	scene.SetZ(0, 5)

	require.Equal(t, []int{0, 2, 1}, topFirst(scene))
	assert.Equal(t, "a  z=5  0,0  10x10", itemLabel(scene.Item(0)))
}

func TestFormatRectInt(t *testing.T) {
	assert.Equal(t, "60,60  40x40", formatRectInt(geometry.RectInt{X: 60, Y: 60, Width: 40, Height: 40}))
}

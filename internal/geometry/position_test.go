package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePosition(t *testing.T) {
	page := Size{600, 800}

	tests := []struct {
		corner Corner
		want   Point
	}{
		{TopLeft, Point{15, 25}},
		{TopRight, Point{585, 25}},
		{BottomLeft, Point{15, 785}},
		{BottomRight, Point{585, 785}},
	}

	for _, tt := range tests {
		t.Run(tt.corner.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePosition(page, tt.corner, DefaultMargin))
		})
	}
}

func TestResolvePosition_CustomMargin(t *testing.T) {
	got := ResolvePosition(Size{100, 100}, TopLeft, 0)
	assert.Equal(t, Point{0, 10}, got)
}

func TestResolvePosition_InvalidCornerPanics(t *testing.T) {
	assert.Panics(t, func() {
		ResolvePosition(A4, Corner(42), DefaultMargin)
	})
}

func TestParseCorner(t *testing.T) {
	for _, name := range CornerNames() {
		c, err := ParseCorner(name)
		require.NoError(t, err)
		assert.Equal(t, name, c.String())
	}

	c, err := ParseCorner("Bottom-Right")
	require.NoError(t, err)
	assert.Equal(t, BottomRight, c)

	_, err = ParseCorner("middle")
	assert.Error(t, err)
}

func TestCornerString_OutOfRange(t *testing.T) {
	assert.Equal(t, "Corner(9)", Corner(9).String())
}

func TestPointToPDF(t *testing.T) {
	page := Size{600, 800}
	assert.Equal(t, Point{585, 15}, Point{585, 785}.ToPDF(page))
	assert.Equal(t, Point{15, 775}, Point{15, 25}.ToPDF(page))
}

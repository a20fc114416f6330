package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimensions_Minimum(t *testing.T) {
	w, h := Dimensions("no placeholders")
	assert.Equal(t, MinWidth, w)
	assert.Equal(t, MinHeight, h)
	assert.Empty(t, Variables("no placeholders"))

	w, h = Dimensions("")
	assert.Equal(t, MinWidth, w)
	assert.Equal(t, MinHeight, h)
}

func TestDimensions_HeightGrowsWithLines(t *testing.T) {
	prev := 0
	for lines := 1; lines <= 6; lines++ {
		text := strings.Repeat("line\n", lines-1) + "line"
		_, h := Dimensions(text)
		assert.GreaterOrEqual(t, h, MinHeight)
		if lines > 1 {
			assert.Greater(t, h, prev, "height must grow at %d lines", lines)
		}
		prev = h
	}

	_, one := Dimensions("x")
	_, six := Dimensions("x\nx\nx\nx\nx\nx")
	assert.Less(t, one, six)
	assert.Equal(t, 6*LineHeight+80, six)
}

func TestDimensions_WidthIsBounded(t *testing.T) {
	w, _ := Dimensions(strings.Repeat("w", 30))
	assert.Equal(t, 30*CharWidth+40, w)

	w, _ = Dimensions(strings.Repeat("w", 5000))
	assert.Equal(t, MaxWidth, w)

	w, _ = Dimensions("short\n" + strings.Repeat("w", 1000) + "\nshort")
	assert.Equal(t, MaxWidth, w)
}

func TestDimensions_CountsRunes(t *testing.T) {
	w, _ := Dimensions(strings.Repeat("é", 30))
	assert.Equal(t, 30*CharWidth+40, w)
}

func TestRows(t *testing.T) {
	assert.Equal(t, 3, Rows("one"))
	assert.Equal(t, 5, Rows("1\n2\n3\n4\n5"))
}

func TestInfer(t *testing.T) {
	inf := Infer("Hello {{name}},\nyou live in {{ city }}.")
	assert.Equal(t, []string{"name", "city"}, inf.Variables)
	assert.Equal(t, 3, inf.Rows)
	assert.Equal(t, 120, inf.Height)
	assert.GreaterOrEqual(t, inf.Width, MinWidth)
}

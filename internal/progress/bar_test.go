package progress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBarPlain(t *testing.T) {
	b := NewBar(ThemePlain, false)

	assert.Equal(t, " ["+strings.Repeat("-", 21)+"]   0%\r", b.Render(0, 0, 30))
	assert.Equal(t, " ["+strings.Repeat("#", 10)+strings.Repeat("-", 11)+"]  50%\r", b.Render(50, 50, 30))
	assert.Equal(t, " ["+strings.Repeat("#", 21)+"] 100%\n", b.Render(100, 100, 30))
}

func TestBarDisplayPercentIndependentOfFill(t *testing.T) {
	b := NewBar(ThemePlain, false)
	out := b.Render(100, 40, 19)
	assert.Equal(t, " ["+strings.Repeat("#", 10)+"]  40%\n", out)
}

func TestBarNarrowBudgets(t *testing.T) {
	b := NewBar(ThemePlain, false)

	// no room for cells, percentage still fits
	assert.Equal(t, "  50%\r", b.Render(50, 50, 9))
	assert.Equal(t, "  50%\r", b.Render(50, 50, 5))
	// nothing fits
	assert.Equal(t, "\r", b.Render(50, 50, 4))
	assert.Equal(t, "\n", b.Render(100, 100, 0))
}

func TestHashColumns(t *testing.T) {
	assert.Equal(t, 0, HashColumns(9))
	assert.Equal(t, 1, HashColumns(10))
	assert.Equal(t, 21, HashColumns(30))
	assert.Equal(t, 0, Filled(99, 0))
	assert.Equal(t, 20, Filled(99, 21))
}

func TestBarChomp(t *testing.T) {
	b := NewBar(ThemeChomp, false)

	assert.Equal(t, " [co  o  o  ]   0%\r", b.Render(0, 0, 19))
	assert.False(t, b.MouthOpen())

	assert.Equal(t, " [-----C o  ]  50%\r", b.Render(50, 50, 19))
	assert.True(t, b.MouthOpen())

	// same boundary: no new frame
	b.Render(55, 55, 19)
	assert.True(t, b.MouthOpen())

	b.Render(60, 60, 19)
	assert.False(t, b.MouthOpen())

	assert.Equal(t, " [----------] 100%\n", b.Render(100, 100, 19))

	// a new item starts with a closed mouth
	b.Render(0, 0, 19)
	assert.False(t, b.MouthOpen())
}

func TestBarChompColor(t *testing.T) {
	b := NewBar(ThemeChomp, true)
	out := b.Render(50, 50, 19)
	assert.Contains(t, out, "\033[1m")
	assert.Contains(t, out, "\033[33m")
	assert.Contains(t, out, "\033[0m")
}

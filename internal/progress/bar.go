package progress

import (
	"fmt"
	"strings"

	"github.com/mitchellh/colorstring"

	"github.com/rescale/pkgview/internal/constants"
)

// Theme selects the glyphs of the bar.
type Theme int

const (
	// ThemePlain draws [#####-----].
	ThemePlain Theme = iota
	// ThemeChomp draws a mouth eating a row of pellets.
	ThemeChomp
)

// Bar renders the bracketed bar and percentage that ends every progress
// line. A Bar belongs to exactly one stream because the chomp theme keeps
// animation state between renders.
type Bar struct {
	theme    Theme
	colorize colorstring.Colorize

	lastHash int
	mouth    bool
}

// NewBar creates a bar. color controls the ANSI colouring of the chomp theme.
func NewBar(theme Theme, color bool) *Bar {
	return &Bar{
		theme: theme,
		colorize: colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: !color,
			Reset:   true,
		},
	}
}

// HashColumns returns how many bar cells fit in proglen columns.
func HashColumns(proglen int) int {
	if proglen > constants.BarReservedColumns {
		return proglen - constants.BarReservedColumns
	}
	return 0
}

// Filled returns the number of cells filled at fillPercent.
func Filled(fillPercent, hashLen int) int {
	return fillPercent * hashLen / 100
}

// Render draws the bar for fillPercent and prints displayPercent after it,
// using at most proglen columns. The result ends in a carriage return so the
// next render overwrites it, or in a newline once fillPercent reaches 100.
func (b *Bar) Render(fillPercent, displayPercent, proglen int) string {
	hashLen := HashColumns(proglen)
	hash := Filled(fillPercent, hashLen)

	if fillPercent == 0 {
		b.lastHash = 0
		b.mouth = false
	}

	var sb strings.Builder
	if hashLen > 0 {
		sb.WriteString(" [")
		if b.theme == ThemeChomp {
			b.chomp(&sb, hashLen, hash)
		} else {
			sb.WriteString(strings.Repeat("#", hash))
			sb.WriteString(strings.Repeat("-", hashLen-hash))
		}
		sb.WriteString("]")
	}

	if proglen >= constants.PercentFieldColumns {
		fmt.Fprintf(&sb, " %3d%%", displayPercent)
	}

	if fillPercent == 100 {
		sb.WriteString("\n")
	} else {
		sb.WriteString("\r")
	}
	return sb.String()
}

// chomp writes the eaten part, the mouth at the fill boundary and the
// pellets still ahead. The mouth only opens or closes when the boundary
// moved since the previous render.
func (b *Bar) chomp(sb *strings.Builder, hashLen, hash int) {
	if hash < hashLen && hash != b.lastHash {
		b.lastHash = hash
		b.mouth = !b.mouth
	}

	for i := hashLen; i > 0; i-- {
		switch {
		case i > hashLen-hash:
			sb.WriteString("-")
		case i == hashLen-hash:
			if b.mouth {
				sb.WriteString(b.colorize.Color("[bold][yellow]C"))
			} else {
				sb.WriteString(b.colorize.Color("[bold][yellow]c"))
			}
		case i%3 == 0:
			sb.WriteString(b.colorize.Color("[light_gray]o"))
		default:
			sb.WriteString(b.colorize.Color("[light_gray] "))
		}
	}
}

// MouthOpen exposes the animation frame, mainly for tests.
func (b *Bar) MouthOpen() bool {
	return b.mouth
}

package home

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ecoquest/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota
	MascotCelebrating               // streak of three days or more
	MascotSleepy                    // no streak yet
)

const mascotIdle = `  .-~~~-.
 /  ◉ ◉  \
|    ▽    |
 \ ~~~~~ /
  '-...-'`

const mascotCelebrating = `  .-~~~-.  ✦
 /  ★ ★  \
|    ▿    |
 \ ~~~~~ /
  '-...-'  ✦`

const mascotSleepy = `  .-~~~-.  z
 /  - -  \ z
|    ▽    |
 \ ~~~~~ /
  '-...-'`

// mascotFor picks the mascot mood for a streak.
func mascotFor(streak int) MascotVariant {
	switch {
	case streak >= 3:
		return MascotCelebrating
	case streak == 0:
		return MascotSleepy
	default:
		return MascotIdle
	}
}

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	var art string
	var fg color.Color = theme.Secondary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Accent
	case MascotSleepy:
		art = mascotSleepy
		fg = theme.TextDim
	default:
		art = mascotIdle
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}

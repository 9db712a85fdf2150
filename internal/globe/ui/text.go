// Package ui provides the text overlay used by the globe: a transient hint
// near the pointer, the page title and the selected wonder's name.
package ui

import "github.com/Faultbox/wondermap/pkg/math"

// TextSurface receives fire-and-forget text updates. Progressive reveal is
// the implementation's concern.
type TextSurface interface {
	// SetHint shows text near a screen point, or clears the hint.
	SetHint(text string, at math.Vec2, visible bool)
	// SetTitle sets the heading; compact shrinks it while a wonder is shown.
	SetTitle(text string, compact bool)
	// SetWonderName sets the selected wonder's label and link. Empty clears it.
	SetWonderName(text, url string)
}

// Field identifies one line of the overlay.
type Field int

// Overlay lines.
const (
	FieldHint Field = iota
	FieldTitle
	FieldWonderName
)

func (f Field) String() string {
	switch f {
	case FieldHint:
		return "hint"
	case FieldTitle:
		return "title"
	case FieldWonderName:
		return "wonder"
	default:
		return "unknown"
	}
}

// Discard is a TextSurface that ignores every update.
type Discard struct{}

// SetHint implements TextSurface.
func (Discard) SetHint(string, math.Vec2, bool) {}

// SetTitle implements TextSurface.
func (Discard) SetTitle(string, bool) {}

// SetWonderName implements TextSurface.
func (Discard) SetWonderName(string, string) {}

package ui

import (
	"math/rand"
	"strings"
	"time"

	"github.com/rivo/uniseg"

	"github.com/Faultbox/wondermap/internal/engine/tween"
	"github.com/Faultbox/wondermap/pkg/math"
)

// Scheduler group names used by the typewriter.
const (
	GroupHint   = "ui/hint"
	GroupTitle  = "ui/title"
	GroupWonder = "ui/wonder"
)

const scrambleAlphabet = "IJKLMNOPQRSTabcdefghijstuvwxyz0123456789!@#$%&"

// Hint placement relative to the pointer, in pixels.
var (
	hintOffset = math.Vec2{X: 30, Y: -45}
	hintMargin = math.Vec2{X: 150, Y: 30}
)

// Timings of the text transitions.
const (
	hintDelay      = 600 * time.Millisecond
	hintReveal     = 500 * time.Millisecond
	hintClear      = time.Millisecond
	titleDuration  = 1000 * time.Millisecond
	wonderDuration = 1000 * time.Millisecond
)

// Title font sizes, in points.
const (
	titleCompactSize = 12
	titleFullSize    = 17
)

// Sink receives every rendered overlay line.
type Sink func(field Field, text string)

// Typewriter animates text changes with a scramble-then-settle effect. It
// implements TextSurface.
type Typewriter struct {
	sched *tween.Scheduler
	sink  Sink
	rng   *rand.Rand

	viewport math.Vec2

	hint      string
	hintPos   math.Vec2
	title     string
	titleSize float32
	wonder    string
	wonderURL string

	// tween targets
	hintProgress   float32
	titleProgress  float32
	wonderProgress float32
}

// NewTypewriter creates a typewriter that renders through sink, which may be nil.
func NewTypewriter(sched *tween.Scheduler, sink Sink, seed int64) *Typewriter {
	if sink == nil {
		sink = func(Field, string) {}
	}
	return &Typewriter{
		sched:     sched,
		sink:      sink,
		rng:       rand.New(rand.NewSource(seed)),
		titleSize: titleFullSize,
	}
}

// SetViewport sets the window size used to keep the hint on screen.
func (w *Typewriter) SetViewport(width, height float32) {
	w.viewport = math.Vec2{X: width, Y: height}
}

// Hint returns the rendered hint and its anchor.
func (w *Typewriter) Hint() (string, math.Vec2) {
	return w.hint, w.hintPos
}

// Title returns the heading and its current font size.
func (w *Typewriter) Title() (string, float32) {
	return w.title, w.titleSize
}

// WonderName returns the rendered wonder label and its link.
func (w *Typewriter) WonderName() (string, string) {
	return w.wonder, w.wonderURL
}

// SetHint implements TextSurface. Showing waits before typing in; clearing
// is immediate.
func (w *Typewriter) SetHint(text string, at math.Vec2, visible bool) {
	if visible {
		w.hintPos = w.placeHint(at)
	} else {
		text = ""
	}

	group := w.sched.Group(GroupHint)
	group.RemoveAll()

	from := w.hint
	scramble := w.scramble(text)
	w.hintProgress = 0

	task := tween.New(hintClear).To(&w.hintProgress, 1)
	if visible {
		task = tween.New(hintReveal).Delay(hintDelay).To(&w.hintProgress, 1)
	}
	group.Start(task.OnUpdate(func(k float32) {
		w.hint = settle(from, scramble, text, k)
		w.sink(FieldHint, w.hint)
	}))
}

// SetTitle implements TextSurface.
func (w *Typewriter) SetTitle(text string, compact bool) {
	w.title = text
	w.sink(FieldTitle, text)

	group := w.sched.Group(GroupTitle)
	group.RemoveAll()

	start, end := float32(0), float32(1)
	if compact {
		start, end = 1, 0
	}
	w.titleProgress = start
	group.Start(tween.New(titleDuration).To(&w.titleProgress, end).OnUpdate(func(float32) {
		w.titleSize = math.Lerp(titleCompactSize, titleFullSize, w.titleProgress)
	}))
}

// SetWonderName implements TextSurface.
func (w *Typewriter) SetWonderName(text, url string) {
	w.wonderURL = url

	group := w.sched.Group(GroupWonder)
	group.RemoveAll()

	from := w.wonder
	scramble := w.scramble(text)
	w.wonderProgress = 0
	group.Start(tween.New(wonderDuration).To(&w.wonderProgress, 1).OnUpdate(func(k float32) {
		w.wonder = settle(from, scramble, text, k)
		w.sink(FieldWonderName, w.wonder)
	}))
}

func (w *Typewriter) placeHint(at math.Vec2) math.Vec2 {
	p := at.Add(hintOffset)
	if w.viewport.X > 0 && w.viewport.Y > 0 {
		p.X = math.Clamp(p.X, hintMargin.X, math.Max(hintMargin.X, w.viewport.X-hintMargin.X))
		p.Y = math.Clamp(p.Y, hintMargin.Y, math.Max(hintMargin.Y, w.viewport.Y-hintMargin.Y))
	}
	return p
}

// scramble returns random glyphs half again as long as text.
func (w *Typewriter) scramble(text string) []string {
	n := uniseg.GraphemeClusterCount(text) * 3 / 2
	out := make([]string, n)
	for i := range out {
		c := scrambleAlphabet[w.rng.Intn(len(scrambleAlphabet))]
		out[i] = string(c)
	}
	return out
}

// settle blends from into the target at progress k. The target itself
// resolves out of random glyphs with a cubic ease so the real text only
// locks in near the end.
func settle(from string, scramble []string, text string, k float32) string {
	if k >= 1 {
		return text
	}
	target := lerpClusters(scramble, graphemes(text), k*k*k)
	return strings.Join(lerpClusters(graphemes(from), target, k), "")
}

// lerpClusters interpolates between two grapheme sequences: the length
// moves linearly and the leading share k is taken from b.
func lerpClusters(a, b []string, k float32) []string {
	k = math.Clamp01(k)
	n := int(math.Lerp(float32(len(a)), float32(len(b)), k) + 0.5)
	cut := int(float32(len(b))*k + 0.5)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		switch {
		case i < cut && i < len(b):
			out = append(out, b[i])
		case i < len(a):
			out = append(out, a[i])
		case i < len(b):
			out = append(out, b[i])
		}
	}
	return out
}

func graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}


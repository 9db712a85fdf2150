package marker

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/wondermap/internal/engine/scene"
	"github.com/Faultbox/wondermap/internal/engine/tween"
)

// ContentState is the marker content's reveal lifecycle.
type ContentState int

const (
	ContentHidden ContentState = iota
	ContentRevealing
	ContentShown
	ContentHiding
)

// String returns the state name.
func (s ContentState) String() string {
	switch s {
	case ContentHidden:
		return "hidden"
	case ContentRevealing:
		return "revealing"
	case ContentShown:
		return "shown"
	case ContentHiding:
		return "hiding"
	default:
		return "unknown"
	}
}

// LoadState tracks the marker's content asset.
type LoadState int

const (
	LoadPending LoadState = iota
	LoadReady
	LoadFailed
)

// String returns the state name.
func (s LoadState) String() string {
	switch s {
	case LoadPending:
		return "pending"
	case LoadReady:
		return "ready"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ContentState returns the reveal state.
func (m *Marker) ContentState() ContentState { return m.state }

// LoadState returns the asset state.
func (m *Marker) LoadState() LoadState { return m.load }

// AttachContent installs the loaded content hidden and scattered. A reveal
// skipped while the asset was pending runs now, once, if the marker is still
// selected; its delay is whatever remains of the zoom.
func (m *Marker) AttachContent(node *scene.Node) {
	if node == nil || m.load != LoadPending {
		return
	}
	m.load = LoadReady
	m.content = node
	node.Visible = false
	node.Material.Opacity = 0
	node.Material.Assemble = 0
	node.Scale = node.Scale.Scale(m.record.ContentScale)
	m.anchor.Add(node)

	m.log.Debug("content attached")

	if !m.retry {
		return
	}
	m.retry = false
	if !m.selected {
		return
	}
	remaining := m.zoomDuration - (m.sched.Now() - m.selectedAt)
	if remaining < 0 {
		remaining = 0
	}
	m.reveal(remaining)
}

// FailContent marks the asset as permanently unavailable. Reveal and hide
// become no-ops.
func (m *Marker) FailContent(err error) {
	if m.load != LoadPending {
		return
	}
	m.load = LoadFailed
	m.retry = false
	m.log.Warn("content failed to load", zap.String("url", m.record.ContentURL), zap.Error(err))
}

// reveal schedules the assemble-in after delay. The state stays where it is
// until the task starts; a hide still in flight keeps fading until then.
func (m *Marker) reveal(delay time.Duration) {
	switch m.load {
	case LoadFailed:
		return
	case LoadPending:
		m.retry = true
		return
	}
	if m.state == ContentShown || m.state == ContentRevealing || m.revealPending() {
		return
	}

	content := m.content
	m.revealTask = m.contentGroup.Start(tween.New(m.cfg.RevealDuration).
		Delay(delay).
		Ease(tween.CubicOut).
		To(&content.Material.Assemble, 1).
		To(&content.Material.Opacity, 1).
		OnStart(func() {
			if m.hideTask != nil {
				m.hideTask.Cancel()
				m.hideTask = nil
			}
			content.Visible = true
			m.state = ContentRevealing
		}).
		OnComplete(func() {
			m.revealTask = nil
			m.state = ContentShown
		}))
}

func (m *Marker) hide() {
	m.retry = false
	if m.load != LoadReady {
		return
	}
	if m.revealTask != nil {
		m.revealTask.Cancel()
		m.revealTask = nil
	}
	if m.state == ContentHidden || m.state == ContentHiding {
		return
	}

	content := m.content
	m.state = ContentHiding
	m.hideTask = m.contentGroup.Start(tween.New(m.cfg.HideDuration).
		Ease(tween.CubicIn).
		To(&content.Material.Assemble, 0).
		To(&content.Material.Opacity, 0).
		OnComplete(func() {
			m.hideTask = nil
			content.Visible = false
			m.state = ContentHidden
		}))
}

// revealPending reports a reveal waiting out its delay.
func (m *Marker) revealPending() bool {
	return m.revealTask != nil && m.revealTask.Pending()
}

package marker

import (
	"go.uber.org/zap"

	"github.com/Faultbox/wondermap/internal/engine/picking"
	"github.com/Faultbox/wondermap/internal/engine/scene"
	"github.com/Faultbox/wondermap/internal/globe/surface"
	"github.com/Faultbox/wondermap/internal/logger"
	"github.com/Faultbox/wondermap/pkg/math"
)

// Registry owns the markers and the root node that mirrors the surface's
// pan and zoom.
type Registry struct {
	root    *scene.Node
	markers []*Marker
	log     *zap.Logger
}

// NewRegistry builds one marker per record under a fresh root.
func NewRegistry(records []Record, deps Deps) *Registry {
	r := &Registry{
		root:    scene.NewNode("markers"),
		markers: make([]*Marker, 0, len(records)),
		log:     logger.Named("marker"),
	}
	for i, rec := range records {
		m := newMarker(i, rec, deps)
		r.root.Add(m.anchor)
		r.markers = append(r.markers, m)
		r.log.Debug("marker created", zap.Int("index", i), zap.String("title", rec.Title))
	}
	r.log.Info("markers ready", zap.Int("count", len(r.markers)))
	return r
}

// Root returns the node every marker anchor hangs from.
func (r *Registry) Root() *scene.Node { return r.root }

// Markers returns the markers in feed order.
func (r *Registry) Markers() []*Marker { return r.markers }

// Len returns the number of markers.
func (r *Registry) Len() int { return len(r.markers) }

// Find returns the marker with the given title, or nil.
func (r *Registry) Find(title string) *Marker {
	for _, m := range r.markers {
		if m.record.Title == title {
			return m
		}
	}
	return nil
}

// Selected returns the selected marker, or nil.
func (r *Registry) Selected() *Marker {
	for _, m := range r.markers {
		if m.selected {
			return m
		}
	}
	return nil
}

// PlaceOnSurface positions every marker for the unzoomed map.
func (r *Registry) PlaceOnSurface(view surface.View) {
	for _, m := range r.markers {
		m.PlaceOnSurface(view.Width, view.Height, view.Displacement.Scale, view.Displacement.Bias)
	}
}

// Place aligns the root with the surface's texture transform and rescales
// every marker for the current zoom. It runs once per surface change.
func (r *Registry) Place(view surface.View) {
	s := view.Scale
	r.root.Position = math.Vec3{
		X: -view.Offset.X * view.Width * s,
		Y: -view.Offset.Y * view.Height * s,
	}
	r.root.Scale = math.Splat(s)
	for _, m := range r.markers {
		m.RescaleForZoom(view, m.selected)
	}
}

// Intersect returns the nearest marker whose proxy r hits.
func (r *Registry) Intersect(ray picking.Ray) (*Marker, float32, bool) {
	var (
		best *Marker
		dist float32
	)
	for _, m := range r.markers {
		if d, ok := m.Intersect(ray); ok && (best == nil || d < dist) {
			best, dist = m, d
		}
	}
	return best, dist, best != nil
}

// AttachContent hands a loaded content node to m.
func (r *Registry) AttachContent(m *Marker, content *scene.Node) {
	if m == nil {
		return
	}
	m.AttachContent(content)
}

// FailContent records that m's content could not be loaded.
func (r *Registry) FailContent(m *Marker, err error) {
	if m == nil {
		return
	}
	m.FailContent(err)
}

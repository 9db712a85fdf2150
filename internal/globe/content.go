package globe

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/wondermap/internal/assets"
	"github.com/Faultbox/wondermap/internal/engine/picking"
	"github.com/Faultbox/wondermap/internal/engine/scene"
	"github.com/Faultbox/wondermap/pkg/math"
)

// ErrUnsupportedContent is returned for assets that cannot become content.
var ErrUnsupportedContent = errors.New("unsupported content kind")

// Shader content is drawn as a point sphere.
const (
	shaderPoints = 2000
	shaderRadius = 0.2
)

// ContentNode builds the marker content for a loaded asset: a wireframe for
// glTF models and a point sphere for shader sources.
func ContentNode(asset *assets.Asset) (*scene.Node, error) {
	node := scene.NewNode("content")
	node.Material.Color = math.Vec3{X: 0.85, Y: 0.9, Z: 1}

	switch asset.Kind {
	case assets.KindGLB, assets.KindGLTF:
		parse := assets.ParseGLB
		if asset.Kind == assets.KindGLTF {
			parse = assets.ParseGLTF
		}
		model, err := parse(asset.Data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", asset.URL, err)
		}
		g := &scene.Geometry{Lines: model.Edges()}
		if len(model.Triangles) == 0 {
			g.Points = model.Positions
		}
		g.Bounds = bounds(model.Positions)
		node.Geometry = g
	case assets.KindShader:
		node.Geometry = fibonacciSphere(shaderPoints, shaderRadius)
	default:
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedContent, asset.Kind, asset.MIME)
	}
	return node, nil
}

func bounds(points []math.Vec3) picking.AABB {
	if len(points) == 0 {
		return picking.AABB{}
	}
	b := picking.NewAABB(points[0], points[0])
	for _, p := range points[1:] {
		b.Min = math.Vec3{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
		b.Max = math.Vec3{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
	}
	return b
}

// fibonacciSphere spreads count points evenly over a sphere.
func fibonacciSphere(count int, radius float32) *scene.Geometry {
	g := &scene.Geometry{
		Points: make([]math.Vec3, count),
		Bounds: picking.NewAABB(math.Splat(-radius), math.Splat(radius)),
	}
	golden := math.Pi * (3 - math.Sqrt(5))
	for i := range g.Points {
		y := 1 - 2*(float32(i)+0.5)/float32(count)
		r := math.Sqrt(1 - y*y)
		s, c := math32.Sincos(golden * float32(i))
		g.Points[i] = math.Vec3{X: c * r, Y: y, Z: s * r}.Scale(radius)
	}
	return g
}

// resolveSource resolves ref against the feed location base. Absolute URLs
// and absolute paths are returned unchanged.
func resolveSource(base, ref string) string {
	if ref == "" || strings.Contains(ref, "://") || filepath.IsAbs(ref) {
		return ref
	}
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		b, err := url.Parse(base)
		if err != nil {
			return ref
		}
		r, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return b.ResolveReference(r).String()
	}
	base = strings.TrimPrefix(base, "file://")
	return filepath.Join(filepath.Dir(base), ref)
}

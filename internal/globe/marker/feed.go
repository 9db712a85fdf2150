package marker

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/Faultbox/wondermap/internal/assets"
	"github.com/Faultbox/wondermap/internal/engine/heightfield"
	"github.com/Faultbox/wondermap/internal/logger"
	"github.com/Faultbox/wondermap/pkg/math"
)

// ErrEmptyFeed is returned when a feed decodes to no records.
var ErrEmptyFeed = errors.New("marker feed is empty")

// Position is a location in normalized map texture space.
type Position struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"` // Normalized height-field sample
}

// Vec3 returns the position as a vector.
func (p Position) Vec3() math.Vec3 {
	return math.Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

// Record is one entry of the marker feed.
type Record struct {
	Title                 string   `json:"title"`
	MapNormalizedPosition Position `json:"mapNormalizedPosition"`
	URL                   string   `json:"url"`
	ContentURL            string   `json:"contentUrl"`
	ContentScale          float32  `json:"contentScale"`
}

// LoadFeed fetches and decodes the feed at source (path or URL).
func LoadFeed(ctx context.Context, source string, client *http.Client) ([]Record, error) {
	data, err := assets.Fetch(ctx, client, source, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching marker feed: %w", err)
	}
	return ParseFeed(data)
}

// ParseFeed decodes feed JSON. Coordinates outside [0,1] are clamped and a
// missing content scale defaults to 1.
func ParseFeed(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing marker feed: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFeed
	}

	log := logger.Named("marker")
	for i := range records {
		r := &records[i]
		p := r.MapNormalizedPosition
		clamped := Position{X: clampCoord(p.X), Y: clampCoord(p.Y), Z: clampCoord(p.Z)}
		if clamped != p {
			log.Warn("marker position out of range, clamped",
				zap.String("title", r.Title),
				zap.Float32("x", p.X),
				zap.Float32("y", p.Y),
				zap.Float32("z", p.Z))
			r.MapNormalizedPosition = clamped
		}
		if r.ContentScale <= 0 || !math.IsFinite(r.ContentScale) {
			r.ContentScale = 1
		}
	}
	return records, nil
}

func clampCoord(v float32) float32 {
	if !math.IsFinite(v) {
		return 0.5
	}
	return math.Clamp01(v)
}

// EncodeFeed writes records as indented feed JSON.
func EncodeFeed(records []Record) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding marker feed: %w", err)
	}
	return append(data, '\n'), nil
}

// ResampleHeights returns a copy of records with each normalized z read
// from field at the record's x and y.
func ResampleHeights(records []Record, field *heightfield.Field) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		p := r.MapNormalizedPosition
		r.MapNormalizedPosition.Z = math.Clamp01(field.Sample(p.X, p.Y))
		out[i] = r
	}
	return out
}

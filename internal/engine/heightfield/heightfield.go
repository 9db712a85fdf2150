// Package heightfield provides the normalized relief sampled by the map
// surface and by offline marker tooling.
package heightfield

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // JPEG height maps
	_ "image/png"  // PNG height maps
	"os"

	"github.com/aquilax/go-perlin"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/wondermap/pkg/math"
)

// Field is a grid of heights in [0,1]. Row 0 is the top edge of the source
// image, so texture v=1 samples row 0.
type Field struct {
	Width  int
	Height int
	Values []float32 // Row-major, Width*Height
}

// New wraps values in a field. It returns an error when the sizes disagree.
func New(width, height int, values []float32) (*Field, error) {
	if width < 1 || height < 1 || len(values) != width*height {
		return nil, fmt.Errorf("heightfield: %d values for %dx%d grid", len(values), width, height)
	}
	return &Field{Width: width, Height: height, Values: values}, nil
}

// Load decodes a height-map image (PNG, JPEG, BMP, TIFF, WebP) and resamples
// it to width x height.
func Load(path string, width, height int) (*Field, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open height map: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode height map %s: %w", path, err)
	}
	return FromImage(img, width, height), nil
}

// FromImage converts img to grayscale and resamples it to width x height.
func FromImage(img image.Image, width, height int) *Field {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	gray := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(gray, gray.Bounds(), img, img.Bounds(), draw.Src, nil)

	values := make([]float32, width*height)
	for y := 0; y < height; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+width]
		for x, p := range row {
			values[y*width+x] = float32(p) / 255
		}
	}
	return &Field{Width: width, Height: height, Values: values}
}

// Perlin generates procedural relief. Frequency is the number of noise
// periods across the field.
func Perlin(seed int64, width, height int, frequency float64) *Field {
	noise := perlin.NewPerlin(2, 2, 3, seed)
	values := make([]float32, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			n := noise.Noise2D(float64(x)/float64(width)*frequency, float64(y)/float64(height)*frequency)
			values[y*width+x] = math.Clamp01(float32((n + 1) / 2))
		}
	}
	return &Field{Width: width, Height: height, Values: values}
}

// At returns the height of cell (x, y), clamping to the grid.
func (f *Field) At(x, y int) float32 {
	if f == nil || len(f.Values) == 0 {
		return 0
	}
	x = clampi(x, 0, f.Width-1)
	y = clampi(y, 0, f.Height-1)
	return f.Values[y*f.Width+x]
}

// Sample returns the bilinearly interpolated height at texture coordinate
// (u, v), both clamped to [0,1]. A nil field is flat.
func (f *Field) Sample(u, v float32) float32 {
	if f == nil || len(f.Values) == 0 {
		return 0
	}
	fx := math.Clamp01(u) * float32(f.Width-1)
	fy := (1 - math.Clamp01(v)) * float32(f.Height-1)

	x0, y0 := int(fx), int(fy)
	fracX := fx - float32(x0)
	fracY := fy - float32(y0)

	top := math.Lerp(f.At(x0, y0), f.At(x0+1, y0), fracX)
	bottom := math.Lerp(f.At(x0, y0+1), f.At(x0+1, y0+1), fracX)
	return math.Lerp(top, bottom, fracY)
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

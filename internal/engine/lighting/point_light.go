// Package lighting provides point light support for the map renderer.
package lighting

import (
	"github.com/Faultbox/wondermap/pkg/math"
)

// MaxPointLights is the maximum number of point lights supported in shaders.
const MaxPointLights = 4

// PointLight represents a point light source for GPU upload.
type PointLight struct {
	Position  math.Vec3 // World position
	Color     math.Vec3 // RGB color (0-1 range)
	Range     float32   // Cutoff distance, 0 means unbounded
	Intensity float32   // Light intensity multiplier
}

// NewPointLight creates a white light.
func NewPointLight(intensity, rangeDist float32) PointLight {
	return PointLight{
		Color:     math.Splat(1),
		Range:     rangeDist,
		Intensity: intensity,
	}
}

// Contribution returns the light's scalar strength at p, using a squared
// smooth falloff that reaches zero at Range.
func (l PointLight) Contribution(p math.Vec3) float32 {
	if l.Range <= 0 {
		return l.Intensity
	}
	d := l.Position.Distance(p)
	f := math.Clamp01(1 - d/l.Range)
	return l.Intensity * f * f
}

// PointLightBuffer holds lights for GPU upload.
type PointLightBuffer struct {
	Lights []PointLight
	Count  int
}

// NewPointLightBuffer creates an empty point light buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{
		Lights: make([]PointLight, 0, MaxPointLights),
	}
}

// Clear removes all lights from the buffer.
func (b *PointLightBuffer) Clear() {
	b.Lights = b.Lights[:0]
	b.Count = 0
}

// AddLight adds a point light to the buffer.
// Returns false if buffer is full.
func (b *PointLightBuffer) AddLight(light PointLight) bool {
	if b.Count >= MaxPointLights {
		return false
	}
	b.Lights = append(b.Lights, light)
	b.Count++
	return true
}

// GetPositions returns positions as a flat float32 slice for GPU upload.
// Format: [x0, y0, z0, x1, y1, z1, ...]
func (b *PointLightBuffer) GetPositions() []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		result[i*3+0] = light.Position.X
		result[i*3+1] = light.Position.Y
		result[i*3+2] = light.Position.Z
	}
	return result
}

// GetColors returns intensity-weighted colors as a flat float32 slice.
func (b *PointLightBuffer) GetColors() []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		result[i*3+0] = light.Color.X * light.Intensity
		result[i*3+1] = light.Color.Y * light.Intensity
		result[i*3+2] = light.Color.Z * light.Intensity
	}
	return result
}

// GetRanges returns ranges as a flat float32 slice for GPU upload.
func (b *PointLightBuffer) GetRanges() []float32 {
	result := make([]float32, MaxPointLights)
	for i, light := range b.Lights {
		result[i] = light.Range
	}
	return result
}

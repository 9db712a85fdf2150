// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all viewer settings.
type Config struct {
	Graphics    GraphicsConfig    `yaml:"graphics"`
	Camera      CameraConfig      `yaml:"camera"`
	Map         MapConfig         `yaml:"map"`
	Markers     MarkersConfig     `yaml:"markers"`
	Cursor      CursorConfig      `yaml:"cursor"`
	Interaction InteractionConfig `yaml:"interaction"`
	Data        DataConfig        `yaml:"data"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Stars      int  `yaml:"stars"`
}

// CameraConfig holds the orbit camera limits.
type CameraConfig struct {
	FOVDegrees  float32 `yaml:"fov_degrees"`
	Near        float32 `yaml:"near"`
	Far         float32 `yaml:"far"`
	Distance    float32 `yaml:"distance"`
	MinDistance float32 `yaml:"min_distance"`
	MaxDistance float32 `yaml:"max_distance"`
	Pitch       float32 `yaml:"pitch"`
	MaxPitch    float32 `yaml:"max_pitch"`
	MaxYaw      float32 `yaml:"max_yaw"`
}

// MapConfig describes the ground plane and its zoom behaviour.
type MapConfig struct {
	Width                   float32       `yaml:"width"`
	Height                  float32       `yaml:"height"`
	SegmentsX               int           `yaml:"segments_x"`
	SegmentsY               int           `yaml:"segments_y"`
	DisplacementScale       float32       `yaml:"displacement_scale"`
	DisplacementBias        float32       `yaml:"displacement_bias"`
	ZoomedDisplacementScale float32       `yaml:"zoomed_displacement_scale"`
	ZoomedDisplacementBias  float32       `yaml:"zoomed_displacement_bias"`
	MaxZoom                 float32       `yaml:"max_zoom"`
	ZoomedScale             float32       `yaml:"zoomed_scale"`
	MinScale                float32       `yaml:"min_scale"`
	ZoomDuration            time.Duration `yaml:"zoom_duration"`
}

// MarkersConfig holds per-marker geometry and animation timings.
type MarkersConfig struct {
	ProxyRadius     float32       `yaml:"proxy_radius"`
	ZOffset         float32       `yaml:"z_offset"`
	ZFactor         float32       `yaml:"z_factor"`
	FalloffExponent float32       `yaml:"falloff_exponent"`
	HoverScale      float32       `yaml:"hover_scale"`
	HoverDuration   time.Duration `yaml:"hover_duration"`
	SpinTurns       float32       `yaml:"spin_turns"`
	SpinDuration    time.Duration `yaml:"spin_duration"`
	RevealDuration  time.Duration `yaml:"reveal_duration"`
	HideDuration    time.Duration `yaml:"hide_duration"`
}

// CursorConfig holds the reticle's magnetization and ring settings.
type CursorConfig struct {
	Magnetization       float32       `yaml:"magnetization"`
	MagnetizeDuration   time.Duration `yaml:"magnetize_duration"`
	FollowFactor        float32       `yaml:"follow_factor"`
	GuideMargin         float32       `yaml:"guide_margin"`
	RingInner           float32       `yaml:"ring_inner"`
	RingOuter           float32       `yaml:"ring_outer"`
	RingSegments        float32       `yaml:"ring_segments"`
	FocusedRingInner    float32       `yaml:"focused_ring_inner"`
	FocusedRingOuter    float32       `yaml:"focused_ring_outer"`
	FocusedRingSegments float32       `yaml:"focused_ring_segments"`
	ClickSlop           int           `yaml:"click_slop"`
}

// Hover policies for the currently selected marker.
const (
	HoverInteractive = "interactive"
	HoverSuppressed  = "suppressed"
)

// InteractionConfig holds selection policies.
type InteractionConfig struct {
	SelectedHover string `yaml:"selected_hover"`
}

// DataConfig holds data source locations.
type DataConfig struct {
	MarkersFeed  string        `yaml:"markers_feed"` // File path or http(s) URL
	Heightmap    string        `yaml:"heightmap"`    // Optional height-map image
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	NoiseSeed    int64         `yaml:"noise_seed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the tuned viewer values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
			Stars:  10000,
		},
		Camera: CameraConfig{
			FOVDegrees:  55,
			Near:        0.1,
			Far:         150,
			Distance:    1.2862,
			MinDistance: 1,
			MaxDistance: 1.5,
			Pitch:       -0.5760,
			MaxPitch:    1.0472, // pi/3
			MaxYaw:      0.7854, // pi/4
		},
		Map: MapConfig{
			Width:                   3.6,
			Height:                  1.8,
			SegmentsX:               140,
			SegmentsY:               70,
			DisplacementScale:       0.45,
			DisplacementBias:        -0.25,
			ZoomedDisplacementScale: 0.15,
			ZoomedDisplacementBias:  -0.08,
			MaxZoom:                 10,
			ZoomedScale:             10,
			MinScale:                0.1,
			ZoomDuration:            2500 * time.Millisecond,
		},
		Markers: MarkersConfig{
			ProxyRadius:     0.075,
			ZOffset:         0.07,
			ZFactor:         1.5,
			FalloffExponent: 15,
			HoverScale:      1.3,
			HoverDuration:   250 * time.Millisecond,
			SpinTurns:       3,
			SpinDuration:    2000 * time.Millisecond,
			RevealDuration:  1500 * time.Millisecond,
			HideDuration:    800 * time.Millisecond,
		},
		Cursor: CursorConfig{
			Magnetization:       0.9,
			MagnetizeDuration:   500 * time.Millisecond,
			FollowFactor:        0.15,
			GuideMargin:         0.01,
			RingInner:           0.035,
			RingOuter:           0.0425,
			RingSegments:        16,
			FocusedRingInner:    0.001,
			FocusedRingOuter:    0.065,
			FocusedRingSegments: 4,
			ClickSlop:           4,
		},
		Interaction: InteractionConfig{
			SelectedHover: HoverInteractive,
		},
		Data: DataConfig{
			MarkersFeed:  "data/markers.json",
			FetchTimeout: 15 * time.Second,
			NoiseSeed:    7,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate rejects settings the viewer cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: window size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		errs = append(errs, fmt.Errorf("map: plane size %gx%g", c.Map.Width, c.Map.Height))
	}
	if c.Map.SegmentsX < 1 || c.Map.SegmentsY < 1 {
		errs = append(errs, fmt.Errorf("map: segments %dx%d", c.Map.SegmentsX, c.Map.SegmentsY))
	}
	if c.Map.MaxZoom < 1 {
		errs = append(errs, fmt.Errorf("map: max_zoom %g below 1", c.Map.MaxZoom))
	}
	if c.Map.MinScale <= 0 {
		errs = append(errs, fmt.Errorf("map: min_scale %g must be positive", c.Map.MinScale))
	}
	if c.Map.ZoomDuration < 0 {
		errs = append(errs, fmt.Errorf("map: negative zoom_duration %v", c.Map.ZoomDuration))
	}
	if c.Cursor.Magnetization < 0 || c.Cursor.Magnetization > 1 {
		errs = append(errs, fmt.Errorf("cursor: magnetization %g outside [0,1]", c.Cursor.Magnetization))
	}
	switch c.Interaction.SelectedHover {
	case HoverInteractive, HoverSuppressed:
	default:
		errs = append(errs, fmt.Errorf("interaction: unknown selected_hover %q", c.Interaction.SelectedHover))
	}
	return errors.Join(errs...)
}

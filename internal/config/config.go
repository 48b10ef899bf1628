// Package config holds the drawing panel settings: the defaults, loading
// them from TOML or YAML files and reloading them when the file changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/internal/params"
)

var (
	// ErrFormat is returned for files that are neither TOML nor YAML.
	ErrFormat = errors.New("config: unsupported file format")

	// ErrInvalid is returned when settings fail validation.
	ErrInvalid = errors.New("config: invalid settings")

	// ErrColor is returned for malformed colors.
	ErrColor = errors.New("config: invalid color")
)

// Settings are the values a drawing panel provides to the canvas.
type Settings struct {
	Color Color `toml:"color" yaml:"color"`

	// Stroke is the line width in texture pixels.
	Stroke float32 `toml:"stroke" yaml:"stroke"`

	AntiAliasing      bool    `toml:"anti_aliasing" yaml:"anti_aliasing"`
	AntiAliasingScale float32 `toml:"anti_aliasing_scale" yaml:"anti_aliasing_scale"` // percent

	Dashed     bool    `toml:"dashed" yaml:"dashed"`
	DashLength float32 `toml:"dash_length" yaml:"dash_length"`
	GapLength  float32 `toml:"gap_length" yaml:"gap_length"`

	// Zoom and ZoomSpeed are percentages.
	Zoom      float32 `toml:"zoom" yaml:"zoom"`
	ZoomSpeed float32 `toml:"zoom_speed" yaml:"zoom_speed"`

	// Offset is the view offset in percent of the half-window.
	Offset [2]float32 `toml:"offset" yaml:"offset,flow"`

	Preview       bool         `toml:"preview" yaml:"preview"`
	GrabTolerance float32      `toml:"grab_tolerance" yaml:"grab_tolerance"`
	Action        paint.Action `toml:"action" yaml:"action"`

	TextureWidth  int `toml:"texture_width" yaml:"texture_width"`
	TextureHeight int `toml:"texture_height" yaml:"texture_height"`
}

// Default returns the settings a fresh panel starts with.
func Default() Settings {
	return Settings{
		Color:             Black,
		Stroke:            10,
		AntiAliasing:      true,
		AntiAliasingScale: 10,
		DashLength:        50,
		GapLength:         25,
		Zoom:              80,
		ZoomSpeed:         100,
		Preview:           true,
		GrabTolerance:     10,
		Action:            paint.ActionDrawLine,
		TextureWidth:      paint.TextureWidth,
		TextureHeight:     paint.TextureHeight,
	}
}

// Validate reports the first invalid field.
func (s Settings) Validate() error {
	switch {
	case s.Stroke <= 0:
		return fmt.Errorf("%w: stroke %v must be positive", ErrInvalid, s.Stroke)
	case s.AntiAliasingScale < 0:
		return fmt.Errorf("%w: anti_aliasing_scale %v is negative", ErrInvalid, s.AntiAliasingScale)
	case s.DashLength < 0 || s.GapLength < 0:
		return fmt.Errorf("%w: dash %v/gap %v is negative", ErrInvalid, s.DashLength, s.GapLength)
	case s.Zoom < 1:
		return fmt.Errorf("%w: zoom %v is below 1%%", ErrInvalid, s.Zoom)
	case s.ZoomSpeed <= 0:
		return fmt.Errorf("%w: zoom_speed %v must be positive", ErrInvalid, s.ZoomSpeed)
	case s.GrabTolerance < 0:
		return fmt.Errorf("%w: grab_tolerance %v is negative", ErrInvalid, s.GrabTolerance)
	case !s.Action.Valid():
		return fmt.Errorf("%w: %w: %d", ErrInvalid, paint.ErrUnknownAction, uint32(s.Action))
	case s.TextureWidth <= 0 || s.TextureHeight <= 0:
		return fmt.Errorf("%w: texture %dx%d", ErrInvalid, s.TextureWidth, s.TextureHeight)
	}
	return nil
}

// ShapeColor returns the color the rasterizer uses. The eraser always
// paints white, whatever the panel color.
func (s Settings) ShapeColor() Color {
	if s.Action == paint.ActionErase {
		return White
	}
	return s.Color
}

// ShapeParams converts the settings to the rasterizer parameter block.
// Disabled anti-aliasing and dashing encode as zero.
func (s Settings) ShapeParams() params.ShapeParams {
	p := params.ShapeParams{
		Color:  s.ShapeColor().Vec4(),
		Action: s.Action,
		Stroke: s.Stroke,
	}
	if s.AntiAliasing {
		p.AntiAliasingScale = s.AntiAliasingScale * 0.01
	}
	if s.Dashed {
		p.DashLength = s.DashLength
		p.GapLength = s.GapLength
	}
	return p
}

// Load reads settings from a .toml, .yaml or .yml file. Fields missing from
// the file keep their defaults. Unknown fields are rejected.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}
	s := Default()
	if err := Decode(data, filepath.Ext(path), &s); err != nil {
		return Settings{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Decode decodes TOML or YAML data, chosen by file extension, into v.
// Unknown fields are rejected.
func Decode(data []byte, ext string, v any) error {
	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrFormat, ext)
	}
}

// Save writes s to path in the format chosen by its extension.
func Save(s Settings, path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		data, err = toml.Marshal(s)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(s)
	default:
		return fmt.Errorf("%w: %q", ErrFormat, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // settings are not secret
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

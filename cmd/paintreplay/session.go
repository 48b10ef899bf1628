package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/internal/config"
)

var errEvent = errors.New("paintreplay: bad event")

// session is a recorded drawing session.
type session struct {
	Width    int             `toml:"width" yaml:"width"`
	Height   int             `toml:"height" yaml:"height"`
	Settings config.Settings `toml:"settings" yaml:"settings"`
	Events   []event         `toml:"events" yaml:"events"`
}

// event is one user input. Kind selects which fields are read:
//
//	move, press, release  x, y (press and release also read button)
//	scroll                dx, dy
//	pinch                 zoom (1 is no change)
//	key                   key: enter, escape or delete
//	action                action
//	color                 color
//	stroke                value
//	zoom                  value
//	preview               enabled
//	resize                x, y as the new window size
//	clear
type event struct {
	Kind    string       `toml:"kind" yaml:"kind"`
	X       float64      `toml:"x" yaml:"x"`
	Y       float64      `toml:"y" yaml:"y"`
	DX      float64      `toml:"dx" yaml:"dx"`
	DY      float64      `toml:"dy" yaml:"dy"`
	Button  string       `toml:"button" yaml:"button"`
	Key     string       `toml:"key" yaml:"key"`
	Zoom    float64      `toml:"zoom" yaml:"zoom"`
	Action  paint.Action `toml:"action" yaml:"action"`
	Color   config.Color `toml:"color" yaml:"color"`
	Value   float32      `toml:"value" yaml:"value"`
	Enabled bool         `toml:"enabled" yaml:"enabled"`
}

// loadSession reads a TOML or YAML session. Omitted settings keep their
// defaults.
func loadSession(path string) (session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return session{}, err
	}
	s := session{Width: 1280, Height: 720, Settings: config.Default()}
	if err := config.Decode(data, filepath.Ext(path), &s); err != nil {
		return session{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := s.Settings.Validate(); err != nil {
		return session{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// player is the part of paintcanvas.Canvas driven by a replay.
type player interface {
	PointerMove(x, y float64) error
	PointerPress(b gpucontext.MouseButton, x, y float64) error
	PointerRelease(b gpucontext.MouseButton, x, y float64) error
	Scroll(dx, dy float64) error
	Gesture(ev gpucontext.GestureEvent) error
	KeyPress(k gpucontext.Key) error
	SetAction(a paint.Action) error
	SetColor(c config.Color) error
	SetStroke(width float32) error
	SetZoom(zoom float32) error
	SetPreview(enabled bool) error
	Resize(width, height int) error
	Clear() error
}

// replay feeds the events to p in order and stops at the first error.
func replay(p player, events []event) error {
	for i, ev := range events {
		if err := apply(p, ev); err != nil {
			return fmt.Errorf("event %d (%s): %w", i, ev.Kind, err)
		}
	}
	return nil
}

func apply(p player, ev event) error {
	switch ev.Kind {
	case "move":
		return p.PointerMove(ev.X, ev.Y)
	case "press", "release":
		b, err := parseButton(ev.Button)
		if err != nil {
			return err
		}
		if ev.Kind == "press" {
			return p.PointerPress(b, ev.X, ev.Y)
		}
		return p.PointerRelease(b, ev.X, ev.Y)
	case "scroll":
		return p.Scroll(ev.DX, ev.DY)
	case "pinch":
		return p.Gesture(gpucontext.GestureEvent{NumPointers: 2, ZoomDelta: ev.Zoom})
	case "key":
		k, err := parseKey(ev.Key)
		if err != nil {
			return err
		}
		return p.KeyPress(k)
	case "action":
		return p.SetAction(ev.Action)
	case "color":
		return p.SetColor(ev.Color)
	case "stroke":
		return p.SetStroke(ev.Value)
	case "zoom":
		return p.SetZoom(ev.Value)
	case "preview":
		return p.SetPreview(ev.Enabled)
	case "resize":
		return p.Resize(int(ev.X), int(ev.Y))
	case "clear":
		return p.Clear()
	default:
		return fmt.Errorf("%w: unknown kind %q", errEvent, ev.Kind)
	}
}

func parseButton(s string) (gpucontext.MouseButton, error) {
	switch s {
	case "", "left":
		return gpucontext.MouseButtonLeft, nil
	case "right":
		return gpucontext.MouseButtonRight, nil
	default:
		return 0, fmt.Errorf("%w: unknown button %q", errEvent, s)
	}
}

func parseKey(s string) (gpucontext.Key, error) {
	switch s {
	case "enter":
		return gpucontext.KeyEnter, nil
	case "escape":
		return gpucontext.KeyEscape, nil
	case "delete":
		return gpucontext.KeyDelete, nil
	default:
		return 0, fmt.Errorf("%w: unknown key %q", errEvent, s)
	}
}

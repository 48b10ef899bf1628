package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/paint"
)

func TestDefault(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, Black, s.Color)
	assert.Equal(t, float32(10), s.Stroke)
	assert.True(t, s.AntiAliasing)
	assert.False(t, s.Dashed)
	assert.Equal(t, float32(80), s.Zoom)
	assert.Equal(t, float32(100), s.ZoomSpeed)
	assert.True(t, s.Preview)
	assert.Equal(t, paint.ActionDrawLine, s.Action)
	assert.Equal(t, 1500, s.TextureWidth)
	assert.Equal(t, 1000, s.TextureHeight)
}

func TestShapeParams(t *testing.T) {
	s := Default()
	p := s.ShapeParams()
	assert.Equal(t, f32.Vec4{0, 0, 0, 1}, p.Color)
	assert.InDelta(t, 0.1, p.AntiAliasingScale, 1e-6)
	assert.Zero(t, p.DashLength)
	assert.Zero(t, p.GapLength)

	s.AntiAliasing = false
	s.Dashed = true
	p = s.ShapeParams()
	assert.Zero(t, p.AntiAliasingScale)
	assert.Equal(t, float32(50), p.DashLength)
	assert.Equal(t, float32(25), p.GapLength)

	s.Action = paint.ActionErase
	s.Color = Color{255, 0, 0, 255}
	assert.Equal(t, f32.Vec4{1, 1, 1, 1}, s.ShapeParams().Color)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"zero stroke", func(s *Settings) { s.Stroke = 0 }},
		{"zoom below one", func(s *Settings) { s.Zoom = 0.5 }},
		{"negative tolerance", func(s *Settings) { s.GrabTolerance = -1 }},
		{"unknown action", func(s *Settings) { s.Action = 42 }},
		{"negative dash", func(s *Settings) { s.DashLength = -1 }},
		{"zero zoom speed", func(s *Settings) { s.ZoomSpeed = 0 }},
		{"empty texture", func(s *Settings) { s.TextureWidth = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.modify(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalid)
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ff0000", Color{255, 0, 0, 255}},
		{"#00ff0080", Color{0, 255, 0, 128}},
		{"  #FFFFFF ", White},
		{"black", Black},
		{"CornflowerBlue", Color{100, 149, 237, 255}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "#ff", "#gg0000", "notacolor", "#ff00000000"} {
		_, err := ParseColor(bad)
		assert.ErrorIs(t, err, ErrColor, bad)
	}
}

func TestColorVec4(t *testing.T) {
	assert.Equal(t, f32.Vec4{1, 0, 0, 1}, Color{255, 0, 0, 255}.Vec4())
	assert.Equal(t, "#ff000080", Color{255, 0, 0, 128}.String())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "panel.toml", `
color = "#3366ff"
stroke = 4
dashed = true
dash_length = 12
offset = [10.0, -5.0]
action = "draw-polygon"
`)
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Color{0x33, 0x66, 0xff, 255}, s.Color)
	assert.Equal(t, float32(4), s.Stroke)
	assert.True(t, s.Dashed)
	assert.Equal(t, float32(12), s.DashLength)
	assert.Equal(t, float32(25), s.GapLength, "missing fields keep defaults")
	assert.Equal(t, [2]float32{10, -5}, s.Offset)
	assert.Equal(t, paint.ActionDrawPolygon, s.Action)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "panel.yaml", `
color: tomato
zoom: 150
preview: false
action: ERASE
`)
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Color{255, 99, 71, 255}, s.Color)
	assert.Equal(t, float32(150), s.Zoom)
	assert.False(t, s.Preview)
	assert.Equal(t, paint.ActionErase, s.Action)
}

func TestLoadEmptyYAML(t *testing.T) {
	s, err := Load(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "panel.json", `{}`))
	assert.ErrorIs(t, err, ErrFormat)

	_, err = Load(writeFile(t, "bad.toml", `stroke = -3`))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeFile(t, "unknown.toml", `brush = "round"`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "action.yaml", `action: spray`))
	assert.ErrorIs(t, err, paint.ErrUnknownAction)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveRoundTrip(t *testing.T) {
	for _, ext := range []string{".toml", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			s := Default()
			s.Color = Color{1, 2, 3, 4}
			s.Action = paint.ActionFill
			s.Offset = [2]float32{12.5, -3}
			path := filepath.Join(t.TempDir(), "panel"+ext)
			require.NoError(t, Save(s, path))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, s, got)
		})
	}
	assert.ErrorIs(t, Save(Default(), filepath.Join(t.TempDir(), "panel.ini")), ErrFormat)
}

func TestWatch(t *testing.T) {
	path := writeFile(t, "panel.toml", `stroke = 1`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type result struct {
		s   Settings
		err error
	}
	got := make(chan result, 64)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(s Settings, err error) { got <- result{s, err} })
	}()

	// Give the watcher time to register before writing.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case r := <-got:
			if r.err == nil && r.s.Stroke == 7 {
				cancel()
				require.NoError(t, <-done)
				return
			}
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte("stroke = 7\n"), 0o600))
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

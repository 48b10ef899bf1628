package shaders

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"

	"github.com/gogpu/paint"
)

func TestPreludeMatchesActions(t *testing.T) {
	p := Prelude()
	for _, a := range paint.Actions() {
		want := a.ConstName() + ": u32 = "
		if !strings.Contains(p, want) {
			t.Errorf("prelude missing %q", want)
		}
	}
	if !strings.Contains(p, "const ACTION_FILL: u32 = 7u;") {
		t.Errorf("prelude Fill code:\n%s", p)
	}
	if !strings.Contains(p, "const POINT_CAPACITY: u32 = 4096u;") {
		t.Errorf("prelude capacity:\n%s", p)
	}
}

func TestSourceSubstitution(t *testing.T) {
	tests := []struct {
		format gputypes.TextureFormat
		want   string
	}{
		{gputypes.TextureFormatRGBA8Unorm, "texture_storage_2d<rgba8unorm, read_write>"},
		{gputypes.TextureFormatBGRA8Unorm, "texture_storage_2d<bgra8unorm, read_write>"},
	}
	for _, tt := range tests {
		src, err := Source(Compute, tt.format)
		if err != nil {
			t.Fatalf("Source(%v) error: %v", tt.format, err)
		}
		if !strings.Contains(src, tt.want) {
			t.Errorf("Source(%v) missing %q", tt.format, tt.want)
		}
		if strings.Contains(src, "{{") {
			t.Errorf("Source(%v) has unreplaced placeholders", tt.format)
		}
	}
}

func TestSourceUnsupportedFormat(t *testing.T) {
	_, err := Source(Compute, gputypes.TextureFormatUndefined)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Source(Undefined) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestKernelsCompile(t *testing.T) {
	for _, k := range []Kernel{Compute, Render} {
		for _, f := range []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm} {
			src, err := Load(k, f)
			if err != nil {
				t.Errorf("Load(%v, %v) error: %v", k, f, err)
				continue
			}
			spirv, err := naga.Compile(src)
			if err != nil {
				t.Errorf("naga.Compile(%v, %v) error: %v", k, f, err)
				continue
			}
			if len(spirv) == 0 {
				t.Errorf("%v kernel produced empty SPIR-V", k)
			}
		}
	}
}

func TestEntryPoints(t *testing.T) {
	tests := []struct {
		kernel Kernel
		names  []string
	}{
		{Compute, []string{ComputeEntry}},
		{Render, []string{VertexEntry, FragmentEntry}},
	}
	for _, tt := range tests {
		src, err := Source(tt.kernel, gputypes.TextureFormatRGBA8Unorm)
		if err != nil {
			t.Fatal(err)
		}
		ast, err := naga.Parse(src)
		if err != nil {
			t.Fatalf("%v: parse: %v", tt.kernel, err)
		}
		module, err := naga.LowerWithSource(ast, src)
		if err != nil {
			t.Fatalf("%v: lower: %v", tt.kernel, err)
		}
		found := make(map[string]bool)
		for _, ep := range module.EntryPoints {
			found[ep.Name] = true
		}
		for _, name := range tt.names {
			if !found[name] {
				t.Errorf("%v kernel has no entry point %q", tt.kernel, name)
			}
		}
	}
}

func TestValidateRejectsBrokenSource(t *testing.T) {
	if err := Validate("fn broken( {"); err == nil {
		t.Error("Validate() accepted malformed WGSL")
	}
}

func TestWorkgroups(t *testing.T) {
	tests := []struct {
		w, h, x, y uint32
	}{
		{1500, 1000, 188, 125},
		{8, 8, 1, 1},
		{9, 1, 2, 1},
		{1, 1, 1, 1},
	}
	for _, tt := range tests {
		x, y := Workgroups(tt.w, tt.h)
		if x != tt.x || y != tt.y {
			t.Errorf("Workgroups(%d, %d) = %d, %d, want %d, %d", tt.w, tt.h, x, y, tt.x, tt.y)
		}
	}
}

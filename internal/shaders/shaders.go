// Package shaders provides the WGSL kernels of the canvas.
//
// The sources are embedded templates. Source fills in the storage texture
// format and a generated prelude declaring the Action codes and the point
// capacity, so the numeric values come from the Go definitions only.
package shaders

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/internal/pointbuf"
)

//go:embed compute.wgsl
var computeSource string

//go:embed render.wgsl
var renderSource string

// Entry point names.
const (
	ComputeEntry  = "compute"
	VertexEntry   = "vertex"
	FragmentEntry = "fragment"
)

// WorkgroupSize is the edge length of the square compute workgroup.
const WorkgroupSize = 8

// ErrUnsupportedFormat is returned for canvas formats the compute kernel
// cannot bind as a read-write storage texture.
var ErrUnsupportedFormat = errors.New("shaders: unsupported storage format")

// Kernel selects one of the embedded sources.
type Kernel int

const (
	Compute Kernel = iota
	Render
)

// String returns the kernel name.
func (k Kernel) String() string {
	switch k {
	case Compute:
		return "compute"
	case Render:
		return "render"
	default:
		return "Kernel(" + strconv.Itoa(int(k)) + ")"
	}
}

// Workgroups returns the dispatch grid covering a width x height texture.
func Workgroups(width, height uint32) (x, y uint32) {
	return (width + WorkgroupSize - 1) / WorkgroupSize, (height + WorkgroupSize - 1) / WorkgroupSize
}

// StorageFormat returns the WGSL texel format name for f.
func StorageFormat(f gputypes.TextureFormat) (string, error) {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm:
		return "rgba8unorm", nil
	case gputypes.TextureFormatBGRA8Unorm:
		return "bgra8unorm", nil
	default:
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
}

// Prelude returns the WGSL constant declarations shared by both kernels.
func Prelude() string {
	var b strings.Builder
	for _, a := range paint.Actions() {
		fmt.Fprintf(&b, "const %s: u32 = %du;\n", a.ConstName(), uint32(a))
	}
	fmt.Fprintf(&b, "const POINT_CAPACITY: u32 = %du;\n", pointbuf.Capacity)
	return b.String()
}

// Source returns the complete WGSL for kernel k with the canvas texture in
// format f.
func Source(k Kernel, f gputypes.TextureFormat) (string, error) {
	format, err := StorageFormat(f)
	if err != nil {
		return "", err
	}
	var body string
	switch k {
	case Compute:
		body = computeSource
	case Render:
		body = renderSource
	default:
		return "", fmt.Errorf("shaders: unknown kernel %v", k)
	}
	r := strings.NewReplacer(
		"{{STORAGE_FORMAT}}", format,
		"{{POINT_CAPACITY}}", strconv.Itoa(pointbuf.Capacity),
	)
	return Prelude() + "\n" + r.Replace(body), nil
}

// Validate parses, lowers and validates a WGSL module.
func Validate(source string) error {
	ast, err := naga.Parse(source)
	if err != nil {
		return fmt.Errorf("shaders: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return fmt.Errorf("shaders: lower: %w", err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return fmt.Errorf("shaders: validate: %w", err)
	}
	if len(verrs) > 0 {
		return fmt.Errorf("shaders: validate: %w", &verrs[0])
	}
	return nil
}

// Load returns the validated WGSL for kernel k.
func Load(k Kernel, f gputypes.TextureFormat) (string, error) {
	src, err := Source(k, f)
	if err != nil {
		return "", err
	}
	if err := Validate(src); err != nil {
		return "", fmt.Errorf("%v kernel: %w", k, err)
	}
	return src, nil
}

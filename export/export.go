// Package export serializes a finished forma Assembly into exchange
// formats: a parametric boundary-representation layout (STEP-style) and six
// tessellated mesh layouts (OBJ, STL, PLY, glTF, GLB, OFF).
//
// Every exporter is a pure function of (geometry, format, options) to bytes:
// it never mutates the assembly it is given, and the same (assembly, format,
// tolerance) tuple always produces deterministic output. Exporting to several
// formats is independently parallelizable; see ExportAll.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/forma3d/forma"
)

// Format identifies one supported output byte layout.
type Format string

const (
	// STEP is the parametric ISO-10303-21 style exchange structure. It is
	// serialized from the boundary representation directly, not from a
	// tessellated mesh.
	STEP Format = "step"
	// OBJ is the Wavefront-style ASCII vertex/face listing.
	OBJ Format = "obj"
	// STL is the binary triangle stream: 80-byte header plus per-triangle
	// normal and vertices.
	STL Format = "stl"
	// PLY is the binary little-endian vertex/face element-block stream.
	PLY Format = "ply"
	// GLTF is the JSON scene graph with its binary buffer embedded as a
	// base64 data URI, so the artifact stays a single payload.
	GLTF Format = "gltf"
	// GLB is the single-file binary-chunked variant of GLTF: magic bytes,
	// JSON chunk, binary chunk.
	GLB Format = "glb"
	// OFF is the simple text vertex/face-count format.
	OFF Format = "off"
)

// Formats returns the full supported format set in canonical order.
func Formats() []Format {
	return []Format{STEP, OBJ, STL, PLY, GLTF, GLB, OFF}
}

// Artifact is one finished export: the format tag, the payload bytes, and
// the MIME type the surrounding service should serve it under.
type Artifact struct {
	Format Format
	Data   []byte
	MIME   string
}

// UnsupportedFormatError is returned when an unknown format tag is
// requested. It enumerates the supported set.
type UnsupportedFormatError struct {
	Format    Format
	Supported []Format
}

func (e *UnsupportedFormatError) Error() string {
	names := make([]string, len(e.Supported))
	for i, f := range e.Supported {
		names[i] = string(f)
	}
	return fmt.Sprintf("export: unsupported format %q (supported: %s)",
		string(e.Format), strings.Join(names, ", "))
}

// ExportError reports a tessellation or serialization failure for one
// specific format. The underlying assembly and other format exports remain
// valid.
type ExportError struct {
	Format Format
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export: %s encoding failed: %v", string(e.Format), e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Option configures an export.
type Option func(*options)

type options struct {
	tolerance float64
	name      string
	timestamp time.Time
}

func defaultOptions() options {
	return options{
		tolerance: forma.DefaultTolerance,
		name:      "building",
		// A fixed timestamp keeps repeated exports byte-identical.
		timestamp: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithTolerance sets the chordal tessellation tolerance for mesh formats.
// The default is forma.DefaultTolerance; smaller values increase triangle
// count, payload size, and export time.
func WithTolerance(t float64) Option {
	return func(o *options) {
		if t > 0 {
			o.tolerance = t
		}
	}
}

// WithName sets the model name embedded in format headers.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithTimestamp sets the timestamp written into the STEP file header.
// The default is a fixed instant so repeated exports are byte-identical;
// pass time.Now() to stamp real export time at the cost of determinism.
func WithTimestamp(t time.Time) Option {
	return func(o *options) { o.timestamp = t }
}

// Export serializes the assembly into the requested format.
// An unknown format tag fails with *UnsupportedFormatError; an encoding
// failure with *ExportError. The assembly is read-only to the exporter.
func Export(a *forma.Assembly, format Format, opts ...Option) (*Artifact, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if a == nil || a.SolidCount() == 0 {
		return nil, &ExportError{Format: format, Err: forma.ErrEmptyAssembly}
	}

	if format == STEP {
		data, err := encodeSTEP(a, o)
		if err != nil {
			return nil, &ExportError{Format: format, Err: err}
		}
		return &Artifact{Format: STEP, Data: data, MIME: "model/step"}, nil
	}

	var encode func(*forma.TriangleMesh, options) ([]byte, error)
	var mime string
	switch format {
	case OBJ:
		// OBJ groups per story, so it tessellates internally.
		data, err := encodeOBJ(a, o)
		if err != nil {
			return nil, &ExportError{Format: format, Err: err}
		}
		return &Artifact{Format: OBJ, Data: data, MIME: "model/obj"}, nil
	case STL:
		encode, mime = encodeSTL, "model/stl"
	case PLY:
		encode, mime = encodePLY, "application/octet-stream"
	case GLTF:
		encode, mime = encodeGLTF, "model/gltf+json"
	case GLB:
		encode, mime = encodeGLB, "model/gltf-binary"
	case OFF:
		encode, mime = encodeOFF, "text/plain"
	default:
		return nil, &UnsupportedFormatError{Format: format, Supported: Formats()}
	}

	mesh := forma.TessellateAssembly(a, o.tolerance)
	if mesh.IsEmpty() {
		return nil, &ExportError{Format: format, Err: errors.New("tessellation produced no triangles")}
	}
	data, err := encode(mesh, o)
	if err != nil {
		return nil, &ExportError{Format: format, Err: err}
	}
	return &Artifact{Format: format, Data: data, MIME: mime}, nil
}

// ExportAll exports the assembly to several formats in parallel. Artifacts
// are returned aligned with the requested formats; a failing format leaves a
// nil slot and its error joined into the returned error, while the other
// exports remain valid.
func ExportAll(a *forma.Assembly, formats []Format, opts ...Option) ([]*Artifact, error) {
	artifacts := make([]*Artifact, len(formats))
	errs := make([]error, len(formats))
	var g errgroup.Group
	for i, f := range formats {
		i, f := i, f
		g.Go(func() error {
			artifacts[i], errs[i] = Export(a, f, opts...)
			return nil
		})
	}
	// Workers never return errors; per-format failures land in errs.
	_ = g.Wait()
	return artifacts, errors.Join(errs...)
}

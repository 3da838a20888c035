package export

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/forma3d/forma"
)

// boxAssembly returns a single-story assembly holding one solid rectangular
// prism: 8 welded vertices and 12 triangles once tessellated.
func boxAssembly(t *testing.T) *forma.Assembly {
	t.Helper()
	poly, err := forma.NewPolygon([]forma.Point{{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 1000, Y: 800}, {X: 0, Y: 800}})
	if err != nil {
		t.Fatal(err)
	}
	solid := forma.Prism("room", poly, 3000)
	return forma.StackStories(map[int][]*forma.Solid{0: {solid}}, map[int]float64{0: 3000})
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := Export(boxAssembly(t), "fbx")
	var ufe *UnsupportedFormatError
	if !errors.As(err, &ufe) {
		t.Fatalf("expected *UnsupportedFormatError, got %v", err)
	}
	if ufe.Format != "fbx" {
		t.Errorf("error format: got %q, want fbx", ufe.Format)
	}
	for _, f := range Formats() {
		if !strings.Contains(err.Error(), string(f)) {
			t.Errorf("error message %q missing supported format %q", err, f)
		}
	}
}

func TestExport_EmptyAssembly(t *testing.T) {
	for _, a := range []*forma.Assembly{nil, {}} {
		_, err := Export(a, STL)
		var ee *ExportError
		if !errors.As(err, &ee) {
			t.Fatalf("expected *ExportError, got %v", err)
		}
		if !errors.Is(err, forma.ErrEmptyAssembly) {
			t.Errorf("expected ErrEmptyAssembly cause, got %v", ee.Err)
		}
	}
}

func TestExport_Deterministic(t *testing.T) {
	a := boxAssembly(t)
	for _, f := range Formats() {
		t.Run(string(f), func(t *testing.T) {
			first, err := Export(a, f)
			if err != nil {
				t.Fatal(err)
			}
			second, err := Export(a, f)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(first.Data, second.Data) {
				t.Error("repeated export produced different bytes")
			}
			if len(first.Data) == 0 {
				t.Error("empty artifact")
			}
			if first.MIME == "" {
				t.Error("missing MIME type")
			}
		})
	}
}

func TestExport_STLLayout(t *testing.T) {
	art, err := Export(boxAssembly(t), STL, WithName("box"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(art.Data, []byte("box")) {
		t.Error("header does not carry the model name")
	}
	nt := binary.LittleEndian.Uint32(art.Data[stlHeaderSize:])
	if nt != 12 {
		t.Errorf("triangle count: got %d, want 12", nt)
	}
	if want := stlHeaderSize + 4 + 50*int(nt); len(art.Data) != want {
		t.Errorf("payload length: got %d, want %d", len(art.Data), want)
	}
}

func TestExport_PLYLayout(t *testing.T) {
	art, err := Export(boxAssembly(t), PLY)
	if err != nil {
		t.Fatal(err)
	}
	header, rest, ok := bytes.Cut(art.Data, []byte("end_header\n"))
	if !ok {
		t.Fatal("missing end_header")
	}
	for _, line := range []string{"format binary_little_endian 1.0", "element vertex 8", "element face 12"} {
		if !bytes.Contains(header, []byte(line)) {
			t.Errorf("header missing %q", line)
		}
	}
	// 8 float32 triples plus 12 uchar-counted int32 triples.
	if want := 8*12 + 12*13; len(rest) != want {
		t.Errorf("body length: got %d, want %d", len(rest), want)
	}
}

func TestExport_OFFLayout(t *testing.T) {
	art, err := Export(boxAssembly(t), OFF)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(string(art.Data), "\n")
	if lines[0] != "OFF" {
		t.Fatalf("first line: got %q, want OFF", lines[0])
	}
	if lines[1] != "8 12 0" {
		t.Errorf("count line: got %q, want \"8 12 0\"", lines[1])
	}
	if got := len(lines); got != 2+8+12+1 { // trailing newline
		t.Errorf("line count: got %d, want 23", got)
	}
}

func TestExport_OBJLayout(t *testing.T) {
	art, err := Export(boxAssembly(t), OBJ)
	if err != nil {
		t.Fatal(err)
	}
	text := string(art.Data)
	if !strings.Contains(text, "o floor_0\n") {
		t.Error("missing story object line")
	}
	var verts, faces int
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "v "):
			verts++
		case strings.HasPrefix(line, "f "):
			faces++
		}
	}
	if verts != 8 || faces != 12 {
		t.Errorf("got %d vertices, %d faces; want 8, 12", verts, faces)
	}
	if strings.Contains(text, "f 0") {
		t.Error("face indices must be 1-based")
	}
}

func TestExport_OBJMultiStory(t *testing.T) {
	poly, err := forma.NewPolygon([]forma.Point{{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 1000, Y: 800}, {X: 0, Y: 800}})
	if err != nil {
		t.Fatal(err)
	}
	a := forma.StackStories(
		map[int][]*forma.Solid{0: {forma.Prism("a", poly, 3000)}, 1: {forma.Prism("b", poly, 3000)}},
		map[int]float64{0: 3000, 1: 3000},
	)
	art, err := Export(a, OBJ)
	if err != nil {
		t.Fatal(err)
	}
	text := string(art.Data)
	for _, obj := range []string{"o floor_0\n", "o floor_1\n"} {
		if !strings.Contains(text, obj) {
			t.Errorf("missing %q", obj)
		}
	}
	// The second story must index past the first story's 8 vertices.
	if !strings.Contains(text, "f 9 ") && !strings.Contains(text, " 9 ") {
		t.Error("second story does not continue the global vertex numbering")
	}
}

func TestExport_GLTFParses(t *testing.T) {
	art, err := Export(boxAssembly(t), GLTF, WithName("box"))
	if err != nil {
		t.Fatal(err)
	}
	var doc gltfDoc
	if err := json.Unmarshal(art.Data, &doc); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if doc.Asset.Version != "2.0" {
		t.Errorf("asset version: got %q, want 2.0", doc.Asset.Version)
	}
	if len(doc.Buffers) != 1 || !strings.HasPrefix(doc.Buffers[0].URI, "data:application/octet-stream;base64,") {
		t.Error("buffer is not an embedded data URI")
	}
	if doc.Accessors[0].Count != 8 || doc.Accessors[1].Count != 36 {
		t.Errorf("accessor counts: got %d, %d; want 8, 36",
			doc.Accessors[0].Count, doc.Accessors[1].Count)
	}
}

func TestExport_GLBLayout(t *testing.T) {
	art, err := Export(boxAssembly(t), GLB)
	if err != nil {
		t.Fatal(err)
	}
	data := art.Data
	if binary.LittleEndian.Uint32(data) != 0x46546C67 {
		t.Fatal("missing glTF magic")
	}
	if v := binary.LittleEndian.Uint32(data[4:]); v != 2 {
		t.Errorf("container version: got %d, want 2", v)
	}
	if total := binary.LittleEndian.Uint32(data[8:]); int(total) != len(data) {
		t.Errorf("declared length %d does not match payload %d", total, len(data))
	}
	jsonLen := binary.LittleEndian.Uint32(data[12:])
	if typ := binary.LittleEndian.Uint32(data[16:]); typ != 0x4E4F534A {
		t.Errorf("first chunk type: got %#x, want JSON", typ)
	}
	var doc gltfDoc
	if err := json.Unmarshal(bytes.TrimRight(data[20:20+jsonLen], " "), &doc); err != nil {
		t.Fatalf("JSON chunk does not parse: %v", err)
	}
	if doc.Buffers[0].URI != "" {
		t.Error("GLB buffer must not carry a URI")
	}
	binOff := 20 + int(jsonLen)
	if typ := binary.LittleEndian.Uint32(data[binOff+4:]); typ != 0x004E4942 {
		t.Errorf("second chunk type: got %#x, want BIN", typ)
	}
}

func TestExport_ToleranceAccepted(t *testing.T) {
	a := boxAssembly(t)
	// Planar faces tessellate identically at any tolerance.
	coarse, err := Export(a, STL, WithTolerance(10))
	if err != nil {
		t.Fatal(err)
	}
	fine, err := Export(a, STL, WithTolerance(0.01))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(coarse.Data, fine.Data) {
		t.Error("planar tessellation should not depend on tolerance")
	}
	if _, err := Export(a, STL, WithTolerance(-1)); err != nil {
		t.Errorf("non-positive tolerance should fall back to the default, got %v", err)
	}
}

func TestExportAll(t *testing.T) {
	a := boxAssembly(t)
	formats := []Format{STL, "fbx", OFF}
	artifacts, err := ExportAll(a, formats)
	if err == nil {
		t.Fatal("expected joined error for the unknown format")
	}
	var ufe *UnsupportedFormatError
	if !errors.As(err, &ufe) {
		t.Errorf("joined error should carry *UnsupportedFormatError, got %v", err)
	}
	if artifacts[0] == nil || artifacts[0].Format != STL {
		t.Error("STL artifact missing")
	}
	if artifacts[1] != nil {
		t.Error("failed format must leave a nil slot")
	}
	if artifacts[2] == nil || artifacts[2].Format != OFF {
		t.Error("OFF artifact missing")
	}
}

func TestExportAll_AllFormats(t *testing.T) {
	artifacts, err := ExportAll(boxAssembly(t), Formats(), WithTimestamp(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatal(err)
	}
	for i, art := range artifacts {
		if art == nil || len(art.Data) == 0 {
			t.Errorf("format %s: missing artifact", Formats()[i])
		}
	}
}

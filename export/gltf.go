package export

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/forma3d/forma"
)

// glTF component type and buffer target constants.
const (
	gltfFloat        = 5126
	gltfUnsignedInt  = 5125
	gltfArrayBuffer  = 34962
	gltfIndexBuffer  = 34963
	gltfModeTriangle = 4
)

type gltfAsset struct {
	Version   string `json:"version"`
	Generator string `json:"generator"`
}

type gltfScene struct {
	Name  string `json:"name,omitempty"`
	Nodes []int  `json:"nodes"`
}

type gltfNode struct {
	Name string `json:"name,omitempty"`
	Mesh int    `json:"mesh"`
}

type gltfPrimitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    int            `json:"indices"`
	Mode       int            `json:"mode"`
}

type gltfMesh struct {
	Name       string          `json:"name,omitempty"`
	Primitives []gltfPrimitive `json:"primitives"`
}

type gltfAccessor struct {
	BufferView    int       `json:"bufferView"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Min           []float64 `json:"min,omitempty"`
	Max           []float64 `json:"max,omitempty"`
}

type gltfBufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	Target     int `json:"target,omitempty"`
}

type gltfBuffer struct {
	ByteLength int    `json:"byteLength"`
	URI        string `json:"uri,omitempty"`
}

type gltfDoc struct {
	Asset       gltfAsset        `json:"asset"`
	Scene       int              `json:"scene"`
	Scenes      []gltfScene      `json:"scenes"`
	Nodes       []gltfNode       `json:"nodes"`
	Meshes      []gltfMesh       `json:"meshes"`
	Accessors   []gltfAccessor   `json:"accessors"`
	BufferViews []gltfBufferView `json:"bufferViews"`
	Buffers     []gltfBuffer     `json:"buffers"`
}

// buildGLTF assembles the scene-graph document and its binary buffer:
// float32 positions followed by uint32 triangle indices.
func buildGLTF(mesh *forma.TriangleMesh, o options) (gltfDoc, []byte) {
	var bin bytes.Buffer
	min := []float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := []float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range mesh.Vertices {
		p := vec32(v)
		binary.Write(&bin, binary.LittleEndian, p)
		for c, x := range []float64{float64(p[0]), float64(p[1]), float64(p[2])} {
			min[c] = math.Min(min[c], x)
			max[c] = math.Max(max[c], x)
		}
	}
	posLen := bin.Len()
	for _, f := range mesh.Faces {
		binary.Write(&bin, binary.LittleEndian, [3]uint32{uint32(f[0]), uint32(f[1]), uint32(f[2])})
	}

	doc := gltfDoc{
		Asset:  gltfAsset{Version: "2.0", Generator: "forma"},
		Scene:  0,
		Scenes: []gltfScene{{Name: o.name, Nodes: []int{0}}},
		Nodes:  []gltfNode{{Name: o.name, Mesh: 0}},
		Meshes: []gltfMesh{{Name: o.name, Primitives: []gltfPrimitive{{
			Attributes: map[string]int{"POSITION": 0},
			Indices:    1,
			Mode:       gltfModeTriangle,
		}}}},
		Accessors: []gltfAccessor{
			{BufferView: 0, ComponentType: gltfFloat, Count: mesh.VertexCount(), Type: "VEC3", Min: min, Max: max},
			{BufferView: 1, ComponentType: gltfUnsignedInt, Count: 3 * mesh.TriangleCount(), Type: "SCALAR"},
		},
		BufferViews: []gltfBufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: posLen, Target: gltfArrayBuffer},
			{Buffer: 0, ByteOffset: posLen, ByteLength: bin.Len() - posLen, Target: gltfIndexBuffer},
		},
		Buffers: []gltfBuffer{{ByteLength: bin.Len()}},
	}
	return doc, bin.Bytes()
}

// encodeGLTF writes the JSON scene graph with the binary buffer embedded as
// a base64 data URI, keeping the artifact a single payload.
func encodeGLTF(mesh *forma.TriangleMesh, o options) ([]byte, error) {
	doc, bin := buildGLTF(mesh, o)
	doc.Buffers[0].URI = "data:application/octet-stream;base64," +
		base64.StdEncoding.EncodeToString(bin)
	return json.Marshal(doc)
}

// encodeGLB writes the single-file binary container: the glTF magic, a
// version/length header, a space-padded JSON chunk, and a zero-padded binary
// chunk.
func encodeGLB(mesh *forma.TriangleMesh, o options) ([]byte, error) {
	doc, bin := buildGLTF(mesh, o)
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	jsonData = pad(jsonData, ' ')
	bin = pad(bin, 0)

	var buf bytes.Buffer
	const glbMagic = 0x46546C67 // "glTF"
	total := 12 + 8 + len(jsonData) + 8 + len(bin)
	binary.Write(&buf, binary.LittleEndian, uint32(glbMagic))
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	binary.Write(&buf, binary.LittleEndian, uint32(total))

	binary.Write(&buf, binary.LittleEndian, uint32(len(jsonData)))
	binary.Write(&buf, binary.LittleEndian, uint32(0x4E4F534A)) // "JSON"
	buf.Write(jsonData)

	binary.Write(&buf, binary.LittleEndian, uint32(len(bin)))
	binary.Write(&buf, binary.LittleEndian, uint32(0x004E4942)) // "BIN"
	buf.Write(bin)
	return buf.Bytes(), nil
}

// pad extends data to a 4-byte boundary with the given filler.
func pad(data []byte, filler byte) []byte {
	for len(data)%4 != 0 {
		data = append(data, filler)
	}
	return data
}

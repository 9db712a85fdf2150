package assets

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/wondermap/pkg/math"
)

var triangle = []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}

// triangleBin returns three float positions followed by three uint16
// indices, padded to four bytes.
func triangleBin(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, triangle))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, []uint16{0, 1, 2, 0}))
	return buf.Bytes()
}

const triangleDoc = `{
	"asset": {"version": "2.0"},
	"buffers": [{"byteLength": 44%s}],
	"bufferViews": [
		{"buffer": 0, "byteOffset": 0, "byteLength": 36},
		{"buffer": 0, "byteOffset": 36, "byteLength": 6}
	],
	"accessors": [
		{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
		{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
	],
	"meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}]
}`

func buildGLB(t *testing.T, doc string, bin []byte) []byte {
	t.Helper()
	js := []byte(doc)
	for len(js)%4 != 0 {
		js = append(js, ' ')
	}
	total := glbHeaderSize + 8 + len(js) + 8 + len(bin)

	var buf bytes.Buffer
	buf.WriteString("glTF")
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	binary.Write(&buf, binary.LittleEndian, uint32(total))
	binary.Write(&buf, binary.LittleEndian, uint32(len(js)))
	binary.Write(&buf, binary.LittleEndian, uint32(glbChunkJSON))
	buf.Write(js)
	binary.Write(&buf, binary.LittleEndian, uint32(len(bin)))
	binary.Write(&buf, binary.LittleEndian, uint32(glbChunkBIN))
	buf.Write(bin)
	return buf.Bytes()
}

func TestParseGLB(t *testing.T) {
	data := buildGLB(t, fmt.Sprintf(triangleDoc, ""), triangleBin(t))

	kind, _ := Detect(data)
	assert.Equal(t, KindGLB, kind)

	model, err := ParseGLB(data)
	require.NoError(t, err)
	assert.Equal(t, triangle, model.Positions)
	assert.Equal(t, []uint32{0, 1, 2}, model.Triangles)

	edges := model.Edges()
	require.Len(t, edges, 6)
	assert.Equal(t, triangle[0], edges[0])
	assert.Equal(t, triangle[0], edges[5])
}

func TestParseGLTFEmbedded(t *testing.T) {
	uri := `, "uri": "data:application/octet-stream;base64,` + base64.StdEncoding.EncodeToString(triangleBin(t)) + `"`
	model, err := ParseGLTF([]byte(fmt.Sprintf(triangleDoc, uri)))
	require.NoError(t, err)
	assert.Equal(t, triangle, model.Positions)
	assert.Len(t, model.Triangles, 3)
}

func TestParseGLBErrors(t *testing.T) {
	valid := buildGLB(t, fmt.Sprintf(triangleDoc, ""), triangleBin(t))

	badVersion := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badVersion[4:], 1)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short", []byte("glTF"), ErrTruncatedGLBData},
		{"magic", append([]byte("nope"), valid[4:]...), ErrInvalidGLBMagic},
		{"version", badVersion, ErrUnsupportedGLBVersion},
		{"cut", valid[:len(valid)-10], ErrTruncatedGLBData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGLB(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseGLTFNoPositions(t *testing.T) {
	_, err := ParseGLTF([]byte(`{"asset": {"version": "2.0"}, "meshes": [{"primitives": [{"attributes": {}}]}]}`))
	assert.ErrorIs(t, err, ErrNoPositions)

	_, err = ParseGLTF([]byte(`{"asset": {"version": "2.0"}, "buffers": [{"byteLength": 4, "uri": "model.bin"}]}`))
	assert.Error(t, err)
}

func TestParseGLTFMalformedAccessors(t *testing.T) {
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(triangleBin(t))
	doc := func(views, accessors string) []byte {
		return []byte(fmt.Sprintf(`{
			"asset": {"version": "2.0"},
			"buffers": [{"byteLength": 44, "uri": %q}],
			"bufferViews": [%s],
			"accessors": [%s],
			"meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}]
		}`, uri, views, accessors))
	}
	const views = `{"buffer": 0, "byteOffset": 0, "byteLength": 36}, {"buffer": 0, "byteOffset": 36, "byteLength": 6}`
	const indices = `{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}`

	tests := []struct {
		name string
		data []byte
	}{
		{"negative count", doc(views, `{"bufferView": 0, "componentType": 5126, "count": -1, "type": "VEC3"}, `+indices)},
		{"huge count", doc(views, `{"bufferView": 0, "componentType": 5126, "count": 4611686018427387904, "type": "VEC3"}, `+indices)},
		{"accessor offset past view", doc(views, `{"bufferView": 0, "byteOffset": 64, "componentType": 5126, "count": 1, "type": "VEC3"}, `+indices)},
		{"negative accessor offset", doc(views, `{"bufferView": 0, "byteOffset": -12, "componentType": 5126, "count": 3, "type": "VEC3"}, `+indices)},
		{"negative view offset", doc(
			`{"buffer": 0, "byteOffset": 0, "byteLength": 36}, {"buffer": 0, "byteOffset": -4, "byteLength": 6}`,
			`{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"}, `+indices)},
		{"negative view length", doc(
			`{"buffer": 0, "byteOffset": 0, "byteLength": -36}, {"buffer": 0, "byteOffset": 36, "byteLength": 6}`,
			`{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"}, `+indices)},
		{"negative stride", doc(
			`{"buffer": 0, "byteOffset": 0, "byteLength": 36, "byteStride": -12}, {"buffer": 0, "byteOffset": 36, "byteLength": 6}`,
			`{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"}, `+indices)},
		{"view past buffer", doc(
			`{"buffer": 0, "byteOffset": 40, "byteLength": 36}, {"buffer": 0, "byteOffset": 36, "byteLength": 6}`,
			`{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"}, `+indices)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { _, err = ParseGLTF(tt.data) })
			assert.ErrorIs(t, err, ErrTruncatedGLBData)
		})
	}
}

package assets

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Faultbox/wondermap/pkg/math"
)

// glTF format errors.
var (
	ErrInvalidGLBMagic       = errors.New("invalid GLB magic: expected 'glTF'")
	ErrUnsupportedGLBVersion = errors.New("unsupported GLB version")
	ErrTruncatedGLBData      = errors.New("truncated GLB data")
	ErrNoPositions           = errors.New("model has no POSITION data")
)

// glTF constants.
const (
	glbHeaderSize = 12
	glbChunkJSON  = 0x4E4F534A
	glbChunkBIN   = 0x004E4942

	componentUByte  = 5121
	componentUShort = 5123
	componentUInt   = 5125
	componentFloat  = 5126

	modeTriangles = 4
)

// Model is the geometry of a glTF asset with every mesh primitive merged.
// Node transforms are not applied.
type Model struct {
	Positions []math.Vec3
	Triangles []uint32 // Index triplets into Positions
}

// Edges returns each triangle's three edges as line pairs.
func (m *Model) Edges() []math.Vec3 {
	lines := make([]math.Vec3, 0, len(m.Triangles)*2)
	for i := 0; i+2 < len(m.Triangles); i += 3 {
		a, b, c := m.Positions[m.Triangles[i]], m.Positions[m.Triangles[i+1]], m.Positions[m.Triangles[i+2]]
		lines = append(lines, a, b, b, c, c, a)
	}
	return lines
}

type gltfDoc struct {
	Buffers []struct {
		ByteLength int    `json:"byteLength"`
		URI        string `json:"uri"`
	} `json:"buffers"`
	BufferViews []struct {
		Buffer     int `json:"buffer"`
		ByteOffset int `json:"byteOffset"`
		ByteLength int `json:"byteLength"`
		ByteStride int `json:"byteStride"`
	} `json:"bufferViews"`
	Accessors []struct {
		BufferView    *int   `json:"bufferView"`
		ByteOffset    int    `json:"byteOffset"`
		ComponentType int    `json:"componentType"`
		Count         int    `json:"count"`
		Type          string `json:"type"`
	} `json:"accessors"`
	Meshes []struct {
		Primitives []struct {
			Attributes map[string]int `json:"attributes"`
			Indices    *int           `json:"indices"`
			Mode       *int           `json:"mode"`
		} `json:"primitives"`
	} `json:"meshes"`
}

// ParseGLB parses a binary glTF container.
func ParseGLB(data []byte) (*Model, error) {
	if len(data) < glbHeaderSize {
		return nil, ErrTruncatedGLBData
	}
	if string(data[0:4]) != "glTF" {
		return nil, ErrInvalidGLBMagic
	}

	r := bytes.NewReader(data[4:glbHeaderSize])
	var version, length uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: reading version", ErrTruncatedGLBData)
	}
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, fmt.Errorf("%w: reading length", ErrTruncatedGLBData)
	}
	if version != 2 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedGLBVersion, version)
	}
	if int(length) > len(data) {
		return nil, fmt.Errorf("%w: header says %d bytes, have %d", ErrTruncatedGLBData, length, len(data))
	}

	var jsonChunk, binChunk []byte
	for off := glbHeaderSize; off+8 <= int(length); {
		chunkLen := int(binary.LittleEndian.Uint32(data[off:]))
		chunkType := binary.LittleEndian.Uint32(data[off+4:])
		start := off + 8
		if chunkLen > int(length)-start {
			return nil, fmt.Errorf("%w: chunk at %d", ErrTruncatedGLBData, off)
		}
		switch chunkType {
		case glbChunkJSON:
			jsonChunk = data[start : start+chunkLen]
		case glbChunkBIN:
			if binChunk == nil {
				binChunk = data[start : start+chunkLen]
			}
		}
		off = start + chunkLen
	}
	if jsonChunk == nil {
		return nil, fmt.Errorf("%w: missing JSON chunk", ErrTruncatedGLBData)
	}

	var doc gltfDoc
	if err := json.Unmarshal(jsonChunk, &doc); err != nil {
		return nil, fmt.Errorf("parsing GLB JSON chunk: %w", err)
	}

	buffers := make([][]byte, len(doc.Buffers))
	for i, b := range doc.Buffers {
		if b.URI == "" {
			buffers[i] = binChunk
			continue
		}
		raw, err := decodeDataURI(b.URI)
		if err != nil {
			return nil, fmt.Errorf("buffer %d: %w", i, err)
		}
		buffers[i] = raw
	}
	return decodeModel(&doc, buffers)
}

// ParseGLTF parses a JSON glTF document. Only embedded data URIs are
// supported for buffers.
func ParseGLTF(data []byte) (*Model, error) {
	var doc gltfDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing glTF: %w", err)
	}
	buffers := make([][]byte, len(doc.Buffers))
	for i, b := range doc.Buffers {
		raw, err := decodeDataURI(b.URI)
		if err != nil {
			return nil, fmt.Errorf("buffer %d: %w", i, err)
		}
		buffers[i] = raw
	}
	return decodeModel(&doc, buffers)
}

func decodeDataURI(uri string) ([]byte, error) {
	const marker = ";base64,"
	if !strings.HasPrefix(uri, "data:") {
		return nil, fmt.Errorf("external buffer %q not supported", uri)
	}
	idx := strings.Index(uri, marker)
	if idx < 0 {
		return nil, errors.New("data URI is not base64")
	}
	return base64.StdEncoding.DecodeString(uri[idx+len(marker):])
}

func decodeModel(doc *gltfDoc, buffers [][]byte) (*Model, error) {
	model := &Model{}
	for mi, mesh := range doc.Meshes {
		for pi, prim := range mesh.Primitives {
			posIdx, ok := prim.Attributes["POSITION"]
			if !ok {
				continue
			}
			positions, err := readPositions(doc, buffers, posIdx)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}

			base := uint32(len(model.Positions))
			model.Positions = append(model.Positions, positions...)

			if prim.Mode != nil && *prim.Mode != modeTriangles {
				continue
			}
			var indices []uint32
			if prim.Indices != nil {
				indices, err = readIndices(doc, buffers, *prim.Indices)
				if err != nil {
					return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
				}
			} else {
				indices = make([]uint32, len(positions))
				for i := range indices {
					indices[i] = uint32(i)
				}
			}
			for i := 0; i+2 < len(indices); i += 3 {
				a, b, c := indices[i], indices[i+1], indices[i+2]
				if int(a) >= len(positions) || int(b) >= len(positions) || int(c) >= len(positions) {
					return nil, fmt.Errorf("mesh %d primitive %d: index out of range", mi, pi)
				}
				model.Triangles = append(model.Triangles, base+a, base+b, base+c)
			}
		}
	}
	if len(model.Positions) == 0 {
		return nil, ErrNoPositions
	}
	return model, nil
}

// accessorBytes returns the accessor's view slice and element stride.
func accessorBytes(doc *gltfDoc, buffers [][]byte, index, elemSize int) ([]byte, int, int, error) {
	if index < 0 || index >= len(doc.Accessors) {
		return nil, 0, 0, fmt.Errorf("accessor %d out of range", index)
	}
	acc := doc.Accessors[index]
	if acc.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor %d has no buffer view", index)
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(doc.BufferViews) {
		return nil, 0, 0, fmt.Errorf("buffer view %d out of range", *acc.BufferView)
	}
	view := doc.BufferViews[*acc.BufferView]
	if view.Buffer < 0 || view.Buffer >= len(buffers) || buffers[view.Buffer] == nil {
		return nil, 0, 0, fmt.Errorf("buffer %d missing", view.Buffer)
	}
	buf := buffers[view.Buffer]
	if view.ByteOffset < 0 || view.ByteLength < 0 || view.ByteStride < 0 ||
		view.ByteOffset > len(buf) || view.ByteLength > len(buf)-view.ByteOffset {
		return nil, 0, 0, fmt.Errorf("%w: buffer view %d", ErrTruncatedGLBData, *acc.BufferView)
	}
	viewData := buf[view.ByteOffset : view.ByteOffset+view.ByteLength]

	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if acc.ByteOffset < 0 || acc.Count < 0 || acc.ByteOffset > len(viewData) {
		return nil, 0, 0, fmt.Errorf("%w: accessor %d", ErrTruncatedGLBData, index)
	}
	data := viewData[acc.ByteOffset:]
	// Compare by division so a huge count cannot overflow.
	if acc.Count > 0 && (len(data) < elemSize || acc.Count-1 > (len(data)-elemSize)/stride) {
		return nil, 0, 0, fmt.Errorf("%w: accessor %d", ErrTruncatedGLBData, index)
	}
	return data, stride, acc.Count, nil
}

func readPositions(doc *gltfDoc, buffers [][]byte, index int) ([]math.Vec3, error) {
	if index < 0 || index >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", index)
	}
	acc := doc.Accessors[index]
	if acc.ComponentType != componentFloat || acc.Type != "VEC3" {
		return nil, fmt.Errorf("POSITION accessor is %s/%d, want VEC3/float", acc.Type, acc.ComponentType)
	}
	data, stride, count, err := accessorBytes(doc, buffers, index, 12)
	if err != nil {
		return nil, err
	}
	out := make([]math.Vec3, count)
	r := bytes.NewReader(nil)
	for i := range out {
		r.Reset(data[i*stride : i*stride+12])
		if err := binary.Read(r, binary.LittleEndian, &out[i]); err != nil {
			return nil, fmt.Errorf("%w: position %d", ErrTruncatedGLBData, i)
		}
	}
	return out, nil
}

func readIndices(doc *gltfDoc, buffers [][]byte, index int) ([]uint32, error) {
	if index < 0 || index >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", index)
	}
	var size int
	switch doc.Accessors[index].ComponentType {
	case componentUByte:
		size = 1
	case componentUShort:
		size = 2
	case componentUInt:
		size = 4
	default:
		return nil, fmt.Errorf("index component type %d not supported", doc.Accessors[index].ComponentType)
	}
	data, stride, count, err := accessorBytes(doc, buffers, index, size)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, count)
	for i := range out {
		p := data[i*stride:]
		switch size {
		case 1:
			out[i] = uint32(p[0])
		case 2:
			out[i] = uint32(binary.LittleEndian.Uint16(p))
		case 4:
			out[i] = binary.LittleEndian.Uint32(p)
		}
	}
	return out, nil
}

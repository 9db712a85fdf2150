package assets

import (
	"bytes"

	"github.com/h2non/filetype"
)

// Kind classifies loaded content.
type Kind int

// Content kinds.
const (
	KindUnknown Kind = iota
	KindGLB          // Binary glTF model
	KindGLTF         // JSON glTF model
	KindShader       // GLSL source for a shader-lit mesh
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindGLB:
		return "glb"
	case KindGLTF:
		return "gltf"
	case KindShader:
		return "shader"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

var (
	glbType  = filetype.NewType("glb", "model/gltf-binary")
	gltfType = filetype.NewType("gltf", "model/gltf+json")
)

func init() {
	filetype.AddMatcher(glbType, func(buf []byte) bool {
		return len(buf) >= 12 && bytes.Equal(buf[:4], []byte("glTF"))
	})
	filetype.AddMatcher(gltfType, func(buf []byte) bool {
		head := bytes.TrimLeft(buf[:min(len(buf), 512)], " \t\r\n")
		return len(head) > 0 && head[0] == '{' && bytes.Contains(buf, []byte(`"asset"`))
	})
}

// Detect sniffs the content kind and MIME type from the data.
func Detect(data []byte) (Kind, string) {
	t, err := filetype.Match(data)
	if err == nil && t != filetype.Unknown {
		switch t.Extension {
		case glbType.Extension:
			return KindGLB, t.MIME.Value
		case gltfType.Extension:
			return KindGLTF, t.MIME.Value
		}
		if filetype.IsImage(data) {
			return KindImage, t.MIME.Value
		}
		return KindUnknown, t.MIME.Value
	}
	if bytes.Contains(data, []byte("void main")) {
		return KindShader, "text/x-glsl"
	}
	return KindUnknown, "application/octet-stream"
}

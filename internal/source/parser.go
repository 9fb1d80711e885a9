// Package source discovers and parses the 3D models and textures in the
// assets directory.
package source

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register jpeg decoder
	_ "image/png"  // register png decoder
	"io"
	"os"

	"github.com/dset/arsavings/internal/model"
)

// Binary glTF container constants.
const (
	glbMagic     = 0x46546C67 // "glTF"
	glbChunkJSON = 0x4E4F534A // "JSON"
	glbHeaderLen = 12
	maxJSONChunk = 64 << 20
)

// ErrNotGLB is returned when a .glb file lacks the binary glTF header.
var ErrNotGLB = errors.New("not a binary glTF file")

// ParseResult holds the output of parsing a single asset file.
type ParseResult struct {
	Info model.AssetInfo
	Err  error
}

// ParseFile reads an asset file and extracts its catalog metadata.
//
// Routing by format:
//   - "gltf" → JSON document, one submesh per mesh primitive
//   - "glb"  → JSON chunk of the binary container, same as gltf
//   - "png", "jpeg" → image header only (dimensions)
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	info := model.AssetInfo{
		Name:   df.Name,
		Path:   df.Path,
		Kind:   df.Kind,
		Format: df.Format,
	}

	switch df.Format {
	case "gltf":
		var doc RawDocument
		if err := json.NewDecoder(bufio.NewReader(f)).Decode(&doc); err != nil {
			return ParseResult{Info: info, Err: fmt.Errorf("decoding %s: %w", df.Name, err)}
		}
		fillModel(&info, doc)

	case "glb":
		chunk, err := readGLBJSON(f)
		if err != nil {
			return ParseResult{Info: info, Err: fmt.Errorf("reading %s: %w", df.Name, err)}
		}
		var doc RawDocument
		if err := json.Unmarshal(chunk, &doc); err != nil {
			return ParseResult{Info: info, Err: fmt.Errorf("decoding %s: %w", df.Name, err)}
		}
		fillModel(&info, doc)

	case "png", "jpeg":
		cfg, format, err := image.DecodeConfig(bufio.NewReader(f))
		if err != nil {
			return ParseResult{Info: info, Err: fmt.Errorf("decoding %s: %w", df.Name, err)}
		}
		info.Width, info.Height, info.Format = cfg.Width, cfg.Height, format

	default:
		return ParseResult{Info: info, Err: fmt.Errorf("unsupported format %q", df.Format)}
	}

	return ParseResult{Info: info}
}

// fillModel flattens the document's mesh primitives into submeshes.
func fillModel(info *model.AssetInfo, doc RawDocument) {
	info.Generator = doc.Asset.Generator
	for mi, mesh := range doc.Meshes {
		meshName := mesh.Name
		if meshName == "" {
			meshName = fmt.Sprintf("mesh%d", mi)
		}
		for pi, prim := range mesh.Primitives {
			sm := model.SubmeshInfo{
				Name:  fmt.Sprintf("%s/%d", meshName, pi),
				Color: [4]float64{1, 1, 1, 1},
			}
			if prim.Material != nil && *prim.Material >= 0 && *prim.Material < len(doc.Materials) {
				mat := doc.Materials[*prim.Material]
				sm.Material = mat.Name
				if mat.PBR != nil && len(mat.PBR.BaseColorFactor) == 4 {
					copy(sm.Color[:], mat.PBR.BaseColorFactor)
				}
			}
			info.Submeshes = append(info.Submeshes, sm)
		}
	}
}

// readGLBJSON returns the JSON chunk of a binary glTF container.
func readGLBJSON(r io.Reader) ([]byte, error) {
	var hdr [glbHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, ErrNotGLB
	}
	if binary.LittleEndian.Uint32(hdr[0:4]) != glbMagic {
		return nil, ErrNotGLB
	}
	if v := binary.LittleEndian.Uint32(hdr[4:8]); v != 2 {
		return nil, fmt.Errorf("unsupported glTF container version %d", v)
	}

	var chunkHdr [8]byte
	if _, err := io.ReadFull(r, chunkHdr[:]); err != nil {
		return nil, fmt.Errorf("reading chunk header: %w", err)
	}
	length := binary.LittleEndian.Uint32(chunkHdr[0:4])
	if binary.LittleEndian.Uint32(chunkHdr[4:8]) != glbChunkJSON {
		return nil, errors.New("first chunk is not JSON")
	}
	if length > maxJSONChunk {
		return nil, fmt.Errorf("JSON chunk too large (%d bytes)", length)
	}

	chunk := make([]byte, length)
	if _, err := io.ReadFull(r, chunk); err != nil {
		return nil, fmt.Errorf("reading JSON chunk: %w", err)
	}
	// The JSON chunk is padded with spaces to a 4-byte boundary.
	return bytes.TrimRight(chunk, " \x00"), nil
}

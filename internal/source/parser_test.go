package source

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/dset/arsavings/internal/model"
)

const carGLTF = `{
  "asset": {"version": "2.0", "generator": "Blender"},
  "materials": [
    {"name": "paint", "pbrMetallicRoughness": {"baseColorFactor": [0.8, 0.1, 0.1, 1]}},
    {"name": "glass", "alphaMode": "BLEND"}
  ],
  "meshes": [
    {"name": "body", "primitives": [{"material": 0}, {"material": 1}]},
    {"primitives": [{}]}
  ]
}`

// writeAsset creates a temp asset file and returns a DiscoveredFile for it.
func writeAsset(t *testing.T, name string, data []byte) DiscoveredFile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	files, err := ScanDir(dir)
	if err != nil || len(files) != 1 {
		t.Fatalf("ScanDir = %v, %v", files, err)
	}
	return files[0]
}

func glb(t *testing.T, jsonDoc string) []byte {
	t.Helper()
	chunk := []byte(jsonDoc)
	for len(chunk)%4 != 0 {
		chunk = append(chunk, ' ')
	}
	var buf bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, uint32(glbMagic))
	_ = binary.Write(&buf, le, uint32(2))
	_ = binary.Write(&buf, le, uint32(glbHeaderLen+8+len(chunk)))
	_ = binary.Write(&buf, le, uint32(len(chunk)))
	_ = binary.Write(&buf, le, uint32(glbChunkJSON))
	buf.Write(chunk)
	return buf.Bytes()
}

func checkCar(t *testing.T, info model.AssetInfo) {
	t.Helper()
	if info.Kind != model.AssetModel {
		t.Errorf("Kind = %v, want model", info.Kind)
	}
	if info.Generator != "Blender" {
		t.Errorf("Generator = %q, want Blender", info.Generator)
	}
	if len(info.Submeshes) != 3 {
		t.Fatalf("Submeshes = %d, want 3", len(info.Submeshes))
	}
	if sm := info.Submeshes[0]; sm.Name != "body/0" || sm.Material != "paint" || sm.Color[0] != 0.8 {
		t.Errorf("Submeshes[0] = %+v", sm)
	}
	if sm := info.Submeshes[1]; sm.Material != "glass" || sm.Color != [4]float64{1, 1, 1, 1} {
		t.Errorf("Submeshes[1] = %+v", sm)
	}
	if sm := info.Submeshes[2]; sm.Name != "mesh1/0" || sm.Material != "" {
		t.Errorf("Submeshes[2] = %+v", sm)
	}
}

func TestParseFile_GLTF(t *testing.T) {
	df := writeAsset(t, "car.gltf", []byte(carGLTF))

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.Info.Name != "car.gltf" || result.Info.Format != "gltf" {
		t.Errorf("Info = %+v", result.Info)
	}
	checkCar(t, result.Info)
}

func TestParseFile_GLB(t *testing.T) {
	df := writeAsset(t, "car.glb", glb(t, carGLTF))

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	checkCar(t, result.Info)
}

func TestParseFile_GLBBadMagic(t *testing.T) {
	df := writeAsset(t, "broken.glb", []byte("definitely not a container"))

	if result := ParseFile(df); result.Err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestParseFile_PNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 4))); err != nil {
		t.Fatal(err)
	}
	df := writeAsset(t, "bill_face.png", buf.Bytes())

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.Info.Kind != model.AssetTexture || result.Info.Width != 8 || result.Info.Height != 4 {
		t.Errorf("Info = %+v, want 8x4 texture", result.Info)
	}
}

func TestParseFile_Malformed(t *testing.T) {
	df := writeAsset(t, "bad.gltf", []byte(`{"asset":`))

	if result := ParseFile(df); result.Err == nil {
		t.Fatal("expected error for truncated document")
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"car.gltf", "models/house.GLB", "bill_face.png", "notes.txt", ".cache/x.gltf"} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("found %d files, want 3: %+v", len(files), files)
	}
	if got := CountKind(files, model.AssetModel); got != 2 {
		t.Errorf("models = %d, want 2", got)
	}

	names := map[string]bool{}
	for _, f := range files {
		names[f.Name] = true
	}
	if !names["models/house.GLB"] {
		t.Errorf("nested file missing: %v", names)
	}
}

func TestScanDir_Missing(t *testing.T) {
	files, err := ScanDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil || files != nil {
		t.Fatalf("ScanDir(missing) = %v, %v", files, err)
	}
}

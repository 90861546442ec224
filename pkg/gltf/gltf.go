// Package gltf decodes the JSON structure of glTF 2.0 assets.
//
// Only the parts needed to mirror an asset's hierarchy are modeled: scenes,
// nodes, meshes and their primitives, accessors (for bounds), buffer views,
// buffers, materials and cameras. Vertex data is never decoded.
package gltf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
)

// Document is the top-level glTF JSON object.
type Document struct {
	Asset       Asset        `json:"asset"`
	Scene       *int         `json:"scene,omitempty"`
	Scenes      []Scene      `json:"scenes,omitempty"`
	Nodes       []Node       `json:"nodes,omitempty"`
	Meshes      []Mesh       `json:"meshes,omitempty"`
	Materials   []Material   `json:"materials,omitempty"`
	Accessors   []Accessor   `json:"accessors,omitempty"`
	BufferViews []BufferView `json:"bufferViews,omitempty"`
	Buffers     []Buffer     `json:"buffers,omitempty"`
	Cameras     []Camera     `json:"cameras,omitempty"`
}

// Asset holds metadata about the glTF asset.
type Asset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

// Scene lists the root nodes of one scene.
type Scene struct {
	Name  string `json:"name,omitempty"`
	Nodes []int  `json:"nodes,omitempty"`
}

// Node is one element of the node hierarchy. Its local transform is either
// Matrix or the Translation/Rotation/Scale triple.
type Node struct {
	Name        string       `json:"name,omitempty"`
	Camera      *int         `json:"camera,omitempty"`
	Mesh        *int         `json:"mesh,omitempty"`
	Children    []int        `json:"children,omitempty"`
	Matrix      *[16]float32 `json:"matrix,omitempty"`
	Translation *[3]float32  `json:"translation,omitempty"`
	Rotation    *[4]float32  `json:"rotation,omitempty"` // x, y, z, w
	Scale       *[3]float32  `json:"scale,omitempty"`
}

// Mesh is a set of primitives drawn together.
type Mesh struct {
	Name       string      `json:"name,omitempty"`
	Primitives []Primitive `json:"primitives"`
}

// Primitive is geometry drawn with one material.
type Primitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices,omitempty"`
	Material   *int           `json:"material,omitempty"`
	Mode       *int           `json:"mode,omitempty"`
}

// Position returns the accessor index of the POSITION attribute.
func (p Primitive) Position() (int, bool) {
	i, ok := p.Attributes["POSITION"]
	return i, ok
}

// Material is only referenced by index; its contents are not needed.
type Material struct {
	Name string `json:"name,omitempty"`
}

// Accessor describes typed data inside a buffer view.
type Accessor struct {
	BufferView    *int      `json:"bufferView,omitempty"`
	ByteOffset    int       `json:"byteOffset,omitempty"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Min           []float32 `json:"min,omitempty"`
	Max           []float32 `json:"max,omitempty"`
}

// Bounds returns the min/max of a VEC3 accessor.
func (a Accessor) Bounds() (lo, hi [3]float32, ok bool) {
	if a.Type != "VEC3" || len(a.Min) < 3 || len(a.Max) < 3 {
		return lo, hi, false
	}
	copy(lo[:], a.Min[:3])
	copy(hi[:], a.Max[:3])
	return lo, hi, true
}

// BufferView is a slice of a buffer.
type BufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset,omitempty"`
	ByteLength int `json:"byteLength"`
}

// Buffer points at binary data, either an external file, a data URI, or
// (without URI) the binary chunk of a GLB container.
type Buffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int    `json:"byteLength"`
}

// Embedded reports whether the buffer lives inside the document itself.
func (b Buffer) Embedded() bool {
	return b.URI == "" || strings.HasPrefix(b.URI, "data:")
}

// Camera marks a node as a viewpoint.
type Camera struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

// Decode parses glTF JSON and validates cross references.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding glTF JSON: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

const (
	glbMagic     = 0x46546C67 // "glTF"
	glbChunkJSON = 0x4E4F534A // "JSON"
	glbHeaderLen = 12
)

// ErrNotGLB is returned for data that does not start with a GLB header.
var ErrNotGLB = errors.New("not a GLB container")

// DecodeGLB extracts and decodes the JSON chunk of a binary glTF container.
func DecodeGLB(data []byte) (*Document, error) {
	if len(data) < glbHeaderLen+8 || binary.LittleEndian.Uint32(data[0:4]) != glbMagic {
		return nil, ErrNotGLB
	}
	r := bytes.NewReader(data[glbHeaderLen:])
	var chunk struct {
		Length uint32
		Type   uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
		return nil, fmt.Errorf("reading GLB chunk header: %w", err)
	}
	if chunk.Type != glbChunkJSON {
		return nil, fmt.Errorf("first GLB chunk is 0x%08x, want JSON", chunk.Type)
	}
	start := glbHeaderLen + 8
	end := start + int(chunk.Length)
	if end > len(data) {
		return nil, fmt.Errorf("GLB JSON chunk overruns file (%d > %d)", end, len(data))
	}
	return Decode(data[start:end])
}

// Open reads and decodes a .gltf or .glb file.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		return DecodeGLB(data)
	}
	return Decode(data)
}

// Validate checks that every index in the document is in range.
func (d *Document) Validate() error {
	inRange := func(i, n int) bool { return i >= 0 && i < n }

	if d.Scene != nil && !inRange(*d.Scene, len(d.Scenes)) {
		return fmt.Errorf("default scene %d out of range", *d.Scene)
	}
	for si, s := range d.Scenes {
		for _, n := range s.Nodes {
			if !inRange(n, len(d.Nodes)) {
				return fmt.Errorf("scene %d: node %d out of range", si, n)
			}
		}
	}
	for ni, n := range d.Nodes {
		if n.Mesh != nil && !inRange(*n.Mesh, len(d.Meshes)) {
			return fmt.Errorf("node %d: mesh %d out of range", ni, *n.Mesh)
		}
		if n.Camera != nil && !inRange(*n.Camera, len(d.Cameras)) {
			return fmt.Errorf("node %d: camera %d out of range", ni, *n.Camera)
		}
		for _, c := range n.Children {
			if !inRange(c, len(d.Nodes)) {
				return fmt.Errorf("node %d: child %d out of range", ni, c)
			}
		}
	}
	for mi, m := range d.Meshes {
		for pi, p := range m.Primitives {
			for attr, a := range p.Attributes {
				if !inRange(a, len(d.Accessors)) {
					return fmt.Errorf("mesh %d primitive %d: %s accessor %d out of range", mi, pi, attr, a)
				}
			}
			if p.Indices != nil && !inRange(*p.Indices, len(d.Accessors)) {
				return fmt.Errorf("mesh %d primitive %d: indices accessor %d out of range", mi, pi, *p.Indices)
			}
			if p.Material != nil && !inRange(*p.Material, len(d.Materials)) {
				return fmt.Errorf("mesh %d primitive %d: material %d out of range", mi, pi, *p.Material)
			}
		}
	}
	for ai, a := range d.Accessors {
		if a.BufferView != nil && !inRange(*a.BufferView, len(d.BufferViews)) {
			return fmt.Errorf("accessor %d: buffer view %d out of range", ai, *a.BufferView)
		}
	}
	for vi, v := range d.BufferViews {
		if !inRange(v.Buffer, len(d.Buffers)) {
			return fmt.Errorf("buffer view %d: buffer %d out of range", vi, v.Buffer)
		}
	}
	return nil
}

// MeshBuffers returns the buffer indices the mesh's accessors read from.
func (d *Document) MeshBuffers(mesh int) []int {
	seen := map[int]bool{}
	var out []int
	add := func(accessor int) {
		v := d.Accessors[accessor].BufferView
		if v == nil {
			return
		}
		b := d.BufferViews[*v].Buffer
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	for _, p := range d.Meshes[mesh].Primitives {
		for _, a := range p.Attributes {
			add(a)
		}
		if p.Indices != nil {
			add(*p.Indices)
		}
	}
	return out
}

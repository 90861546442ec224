package inspector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraPose is where the viewer camera starts for an asset.
type CameraPose struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
}

// AssetRef describes one selectable asset. Two refs are the same asset when
// their paths match.
type AssetRef struct {
	Path           string
	Name           string
	Scene          int
	Camera         CameraPose
	ExplosionScale mgl32.Vec3
}

// Same reports whether a and b address the same asset.
func (a AssetRef) Same(b AssetRef) bool {
	return a.Path == b.Path
}

// Catalog is the fixed, ordered list of selectable assets.
type Catalog struct {
	entries []AssetRef
}

// NewCatalog validates and copies the entries.
func NewCatalog(entries []AssetRef) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, errors.New("catalog is empty")
	}
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		if e.Path == "" {
			return nil, fmt.Errorf("catalog entry %d: empty path", i)
		}
		if e.Scene < 0 {
			return nil, fmt.Errorf("catalog entry %q: negative scene index %d", e.Path, e.Scene)
		}
		if j, dup := seen[e.Path]; dup {
			return nil, fmt.Errorf("catalog entries %d and %d share path %q", j, i, e.Path)
		}
		seen[e.Path] = i
	}
	return &Catalog{entries: append([]AssetRef(nil), entries...)}, nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// At returns the i-th entry.
func (c *Catalog) At(i int) AssetRef { return c.entries[i] }

// First returns the entry selected at startup.
func (c *Catalog) First() AssetRef { return c.entries[0] }

// Index returns the position of ref, or -1.
func (c *Catalog) Index(ref AssetRef) int {
	for i, e := range c.entries {
		if e.Same(ref) {
			return i
		}
	}
	return -1
}

// Next returns the entry after current, wrapping to the first. Unknown
// entries also map to the first.
func (c *Catalog) Next(current AssetRef) AssetRef {
	i := c.Index(current)
	if i < 0 || i+1 >= len(c.entries) {
		return c.entries[0]
	}
	return c.entries[i+1]
}

// Prev returns the entry before current, wrapping to the last. Unknown
// entries also map to the last.
func (c *Catalog) Prev(current AssetRef) AssetRef {
	i := c.Index(current)
	if i <= 0 {
		return c.entries[len(c.entries)-1]
	}
	return c.entries[i-1]
}

// Lookup finds an entry by path or case-insensitive display name.
func (c *Catalog) Lookup(key string) (AssetRef, bool) {
	for _, e := range c.entries {
		if e.Path == key || strings.EqualFold(e.Name, key) {
			return e, true
		}
	}
	return AssetRef{}, false
}

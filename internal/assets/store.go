// Package assets loads glTF assets in the background and exposes them as
// inspector graphs.
//
// Nothing here blocks the caller. The first request for an asset starts
// loading it and reports it as not loaded; the first request for a mesh
// starts checking that the buffers it reads from exist and reports the mesh
// as not resident until the check completes.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/partscope/internal/inspector"
	"github.com/Faultbox/partscope/pkg/gltf"
)

// ErrNotFound is returned for assets whose file does not exist.
var ErrNotFound = errors.New("asset file not found")

// DefaultBufferChecks bounds how many buffer files are checked at once.
const DefaultBufferChecks = 4

type residency int

const (
	unchecked residency = iota
	checking
	resident
)

type meshState struct {
	state residency
	err   error
}

// entry is one asset, loaded or loading. Fields are guarded by Store.mu.
type entry struct {
	path   string
	loaded bool
	doc    *gltf.Document
	err    error
	meshes []meshState
}

// Stats counts store activity.
type Stats struct {
	Hits   int // Graph calls answered with a loaded asset
	Misses int // Graph calls made while the asset was loading
	Loads  int // documents read from disk, successful or not
}

// Store caches decoded assets by catalog path.
type Store struct {
	root   string
	log    *zap.Logger
	limit  int
	open   func(path string) (*gltf.Document, error)
	stat   func(path string) (os.FileInfo, error)
	wg     sync.WaitGroup
	mu     sync.RWMutex
	assets map[string]*entry
	stats  Stats
}

// NewStore returns a store resolving relative asset paths against root.
func NewStore(root string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		root:   root,
		log:    log,
		limit:  DefaultBufferChecks,
		open:   gltf.Open,
		stat:   os.Stat,
		assets: make(map[string]*entry),
	}
}

// SetBufferChecks changes the number of concurrent buffer checks.
func (s *Store) SetBufferChecks(n int) {
	if n > 0 {
		s.limit = n
	}
}

// Resolve returns the file system path of an asset path.
func (s *Store) Resolve(path string) string {
	if filepath.IsAbs(path) || s.root == "" {
		return path
	}
	return filepath.Join(s.root, path)
}

// Graph implements inspector.Source.
func (s *Store) Graph(asset inspector.AssetRef) (inspector.Graph, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.assets[asset.Path]
	if !ok {
		e = &entry{path: asset.Path}
		s.assets[asset.Path] = e
		s.wg.Add(1)
		go s.load(e)
	}
	if !e.loaded {
		s.stats.Misses++
		return nil, false
	}
	s.stats.Hits++
	if e.err != nil {
		return failedGraph{err: e.err}, true
	}
	return &docGraph{store: s, entry: e}, true
}

func (s *Store) load(e *entry) {
	defer s.wg.Done()

	start := time.Now()
	file := s.Resolve(e.path)
	doc, err := s.open(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		err = fmt.Errorf("%w: %s", ErrNotFound, file)
	case err != nil:
		err = fmt.Errorf("loading %s: %w", file, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Loads++
	if s.assets[e.path] != e {
		// Invalidated while loading; a newer entry owns the path.
		return
	}
	e.loaded = true
	e.doc, e.err = doc, err
	if err != nil {
		s.log.Error("asset load failed", zap.String("path", e.path), zap.Error(err))
		return
	}
	e.meshes = make([]meshState, len(doc.Meshes))
	s.log.Info("asset loaded",
		zap.String("path", e.path),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("meshes", len(doc.Meshes)),
		zap.Duration("took", time.Since(start)),
	)
}

// mesh reports the residency of one mesh, starting its check if needed.
func (s *Store) mesh(e *entry, id int) (residency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := &e.meshes[id]
	if m.state == unchecked {
		m.state = checking
		s.wg.Add(1)
		go s.checkMesh(e, id)
	}
	return m.state, m.err
}

func (s *Store) checkMesh(e *entry, id int) {
	defer s.wg.Done()

	dir := filepath.Dir(s.Resolve(e.path))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(s.limit)
	for _, b := range e.doc.MeshBuffers(id) {
		buf := e.doc.Buffers[b]
		if buf.Embedded() {
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return s.checkBuffer(dir, b, buf)
		})
	}
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assets[e.path] != e {
		return
	}
	e.meshes[id] = meshState{state: resident, err: err}
	if err != nil {
		s.log.Error("mesh buffers unavailable", zap.String("path", e.path), zap.Int("mesh", id), zap.Error(err))
		return
	}
	s.log.Debug("mesh resident", zap.String("path", e.path), zap.Int("mesh", id))
}

func (s *Store) checkBuffer(dir string, index int, buf gltf.Buffer) error {
	name, err := url.PathUnescape(buf.URI)
	if err != nil {
		return fmt.Errorf("buffer %d: bad uri %q: %w", index, buf.URI, err)
	}
	info, err := s.stat(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		return fmt.Errorf("buffer %d: %w", index, err)
	}
	if info.Size() < int64(buf.ByteLength) {
		return fmt.Errorf("buffer %d: %s has %d bytes, want %d", index, name, info.Size(), buf.ByteLength)
	}
	return nil
}

// Invalidate drops a cached asset so the next request reloads it. It
// reports whether the path was cached.
func (s *Store) Invalidate(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.assets[path]
	delete(s.assets, path)
	if ok {
		s.log.Debug("asset invalidated", zap.String("path", path))
	}
	return ok
}

// Document returns the decoded document of a loaded asset.
func (s *Store) Document(path string) (*gltf.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.assets[path]
	if !ok || !e.loaded || e.doc == nil {
		return nil, false
	}
	return e.doc, true
}

// Err returns the load error of an asset, if any.
func (s *Store) Err(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.assets[path]; ok {
		return e.err
	}
	return nil
}

// Bounds returns the object-space bounding box of a primitive's geometry.
func (s *Store) Bounds(path string, geom inspector.GeometryID) (lo, hi mgl32.Vec3, ok bool) {
	doc, loaded := s.Document(path)
	if !loaded || geom < 0 || int(geom) >= len(doc.Accessors) {
		return lo, hi, false
	}
	l, h, ok := doc.Accessors[geom].Bounds()
	return mgl32.Vec3(l), mgl32.Vec3(h), ok
}

// Stats returns a snapshot of the counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Wait blocks until all started loads and checks have finished.
func (s *Store) Wait() {
	s.wg.Wait()
}

// Close waits for background work and drops the cache.
func (s *Store) Close() {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = make(map[string]*entry)
}

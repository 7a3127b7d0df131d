package northlands

import (
	"context"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// LoadState of an asset or a group of assets
type LoadState int

const (
	NotLoaded LoadState = iota
	Loading
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case NotLoaded:
		return "not-loaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Handle names an asset by its slash separated path relative to the asset root.
type Handle string

// imageExts are the file extensions we have decoders registered for
var imageExts = map[string]bool{
	".png":  true,
	".gif":  true,
	".jpg":  true,
	".jpeg": true,
}

// AssetServer decodes images from disk in the background.
type AssetServer struct {
	root    string
	workers int

	lock   sync.RWMutex
	states map[Handle]LoadState
	images map[Handle]image.Image
	errs   map[Handle]error

	// batches still decoding; idle is closed when pending drops to zero
	pending int
	idle    chan struct{}
}

// NewAssetServer returns a server reading assets from under `root`.
func NewAssetServer(root string) *AssetServer {
	return &AssetServer{
		root:    root,
		workers: 4,
		states:  map[Handle]LoadState{},
		images:  map[Handle]image.Image{},
		errs:    map[Handle]error{},
	}
}

// Handle returns the handle for a root relative path.
func (s *AssetServer) Handle(p string) Handle {
	return Handle(path.Clean(filepath.ToSlash(p)))
}

// LoadFolder starts loading every image file in `dir` (relative to the
// root) & returns handles to them. Loading happens in the background; poll
// GroupLoadState or call Wait.
// An error is returned only if the folder itself can't be read.
func (s *AssetServer) LoadFolder(ctx context.Context, dir string) ([]Handle, error) {
	entries, err := ioutil.ReadDir(filepath.Join(s.root, filepath.FromSlash(dir)))
	if err != nil {
		return nil, errors.Wrapf(err, "reading asset folder %s", dir)
	}

	handles := []Handle{}
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		handles = append(handles, s.Handle(path.Join(filepath.ToSlash(dir), e.Name())))
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	s.load(ctx, handles)
	return handles, nil
}

// Load starts loading a single asset.
func (s *AssetServer) Load(ctx context.Context, p string) Handle {
	h := s.Handle(p)
	s.load(ctx, []Handle{h})
	return h
}

// load marks handles as Loading & decodes them on a bounded number of workers.
func (s *AssetServer) load(ctx context.Context, handles []Handle) {
	todo := []Handle{}

	s.lock.Lock()
	for _, h := range handles {
		st := s.states[h]
		if st == Loading || st == Loaded {
			continue
		}
		s.states[h] = Loading
		delete(s.errs, h)
		todo = append(todo, h)
	}
	if len(todo) == 0 {
		s.lock.Unlock()
		return
	}
	if s.pending == 0 {
		s.idle = make(chan struct{})
	}
	s.pending++
	s.lock.Unlock()

	go func() {
		defer s.done()

		eg, ctx := errgroup.WithContext(ctx)
		eg.SetLimit(s.workers)
		for _, h := range todo {
			h := h
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					s.finish(h, nil, err)
					return nil
				}
				img, err := s.decode(h)
				s.finish(h, img, err)
				return nil // one bad file doesn't stop the rest of the group
			})
		}
		eg.Wait()
	}()
}

// done marks one batch as finished
func (s *AssetServer) done() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.pending--
	if s.pending == 0 {
		close(s.idle)
	}
}

// decode reads & decodes a single image
func (s *AssetServer) decode(h Handle) (image.Image, error) {
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(string(h))))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", h)
	}
	return img, nil
}

// finish records the outcome of loading a handle
func (s *AssetServer) finish(h Handle, img image.Image, err error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err != nil {
		s.states[h] = Failed
		s.errs[h] = err
		return
	}
	s.states[h] = Loaded
	s.images[h] = img
}

// LoadState of a single handle.
func (s *AssetServer) LoadState(h Handle) LoadState {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.states[h]
}

// GroupLoadState is Loaded if all handles are loaded, Failed if any of them
// failed and otherwise the least loaded state of the group.
func (s *AssetServer) GroupLoadState(handles []Handle) LoadState {
	s.lock.RLock()
	defer s.lock.RUnlock()

	result := Loaded
	for _, h := range handles {
		st := s.states[h]
		switch {
		case st == Failed:
			return Failed
		case st < result:
			result = st
		}
	}
	return result
}

// Err returns why a handle failed to load (if it did).
func (s *AssetServer) Err(h Handle) error {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.errs[h]
}

// Image returns the decoded image for a loaded handle.
func (s *AssetServer) Image(h Handle) (image.Image, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	img, ok := s.images[h]
	return img, ok
}

// Wait blocks until no loads are in flight or ctx is done. It is safe to
// call while other goroutines are still starting loads; those are waited on
// too.
func (s *AssetServer) Wait(ctx context.Context) error {
	s.lock.RLock()
	if s.pending == 0 {
		s.lock.RUnlock()
		return nil
	}
	idle := s.idle
	s.lock.RUnlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

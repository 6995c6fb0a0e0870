// Package icon resolves application identifiers to icon images.
package icon

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp" // register BMP decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrNotFound is returned when no icon exists for an application id.
var ErrNotFound = errors.New("icon not found")

// Extensions searched, in order of preference.
var Extensions = []string{".png", ".webp", ".bmp"}

// Loader looks up the icon for an application identifier.
type Loader interface {
	Load(appID string) (image.Image, error)
}

// Nop is a Loader that never finds anything.
type Nop struct{}

// Load implements Loader.
func (Nop) Load(appID string) (image.Image, error) {
	return nil, fmt.Errorf("%s: %w", appID, ErrNotFound)
}

// cacheEntry holds a decoded icon, or nil for a remembered miss.
type cacheEntry struct {
	img image.Image
}

// ThemeLoader finds icons as image files named after the application id
// inside a list of directories. Results, misses included, are kept in a
// bounded LRU cache owned by the loader.
type ThemeLoader struct {
	dirs  []string
	size  int
	cache *lru.Cache[string, cacheEntry]
}

// NewThemeLoader creates a loader over dirs. Icons are scaled to size x size
// pixels; size <= 0 keeps the original dimensions. cacheSize bounds the number
// of remembered lookups.
func NewThemeLoader(dirs []string, size, cacheSize int) (*ThemeLoader, error) {
	if cacheSize <= 0 {
		cacheSize = 128
	}
	cache, err := lru.New[string, cacheEntry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create icon cache: %w", err)
	}
	return &ThemeLoader{dirs: dirs, size: size, cache: cache}, nil
}

// Load implements Loader.
func (l *ThemeLoader) Load(appID string) (image.Image, error) {
	if appID == "" {
		return nil, ErrNotFound
	}
	if entry, ok := l.cache.Get(appID); ok {
		if entry.img == nil {
			return nil, fmt.Errorf("%s: %w", appID, ErrNotFound)
		}
		return entry.img, nil
	}

	img := l.find(appID)
	l.cache.Add(appID, cacheEntry{img: img})
	if img == nil {
		return nil, fmt.Errorf("%s: %w", appID, ErrNotFound)
	}
	return img, nil
}

// Invalidate drops every cached lookup.
func (l *ThemeLoader) Invalidate() {
	l.cache.Purge()
}

// Cached returns the number of remembered lookups.
func (l *ThemeLoader) Cached() int {
	return l.cache.Len()
}

func (l *ThemeLoader) find(appID string) image.Image {
	names := []string{appID}
	if lower := strings.ToLower(appID); lower != appID {
		names = append(names, lower)
	}
	for _, dir := range l.dirs {
		for _, name := range names {
			for _, ext := range Extensions {
				path := filepath.Join(dir, name+ext)
				img, err := decodeFile(path)
				if err != nil {
					if !errors.Is(err, os.ErrNotExist) {
						log.WithField("path", path).Debugf("skipping icon: %v", err)
					}
					continue
				}
				return l.scale(img)
			}
		}
	}
	return nil
}

func (l *ThemeLoader) scale(img image.Image) image.Image {
	if l.size <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() == l.size && b.Dy() == l.size {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, l.size, l.size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Watch purges the cache whenever a file in one of the icon directories is
// created, removed or rewritten. It blocks until ctx is cancelled.
// Directories that do not exist are skipped.
func (l *ThemeLoader) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create icon watcher: %w", err)
	}
	defer w.Close()

	watched := 0
	for _, dir := range l.dirs {
		if err := w.Add(dir); err != nil {
			log.WithField("dir", dir).Warnf("not watching icon dir: %v", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		<-ctx.Done()
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Rename) {
				log.WithFields(log.Fields{"path": ev.Name, "cached": l.Cached()}).Debug("icon dir changed, purging cache")
				l.Invalidate()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnf("icon watcher: %v", err)
		}
	}
}

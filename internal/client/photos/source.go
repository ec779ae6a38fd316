// Package photos resolves the opaque photo references stored on journal
// entries into image bytes. References are plain paths, file:// URLs or
// s3://bucket/key URLs; a Router picks the Source by scheme.
package photos

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Source reads the bytes behind a photo reference.
type Source interface {
	Read(ctx context.Context, ref string) ([]byte, error)
}

// FileSource reads local files. Relative paths are resolved against BaseDir.
type FileSource struct {
	BaseDir string
}

func (s FileSource) Read(_ context.Context, ref string) ([]byte, error) {
	path := ref
	if strings.HasPrefix(ref, "file://") {
		u, err := url.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("parse photo ref %q: %w", ref, err)
		}
		path = u.Path
	}
	if !filepath.IsAbs(path) && s.BaseDir != "" {
		path = filepath.Join(s.BaseDir, path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read photo %q: %w", ref, err)
	}
	return b, nil
}

// Router dispatches by URL scheme. References without a registered scheme
// go to Fallback.
type Router struct {
	Schemes  map[string]Source
	Fallback Source
}

func NewRouter(fallback Source) *Router {
	return &Router{Schemes: map[string]Source{}, Fallback: fallback}
}

// Handle registers src for scheme ("s3", "file", ...).
func (r *Router) Handle(scheme string, src Source) {
	r.Schemes[scheme] = src
}

func (r *Router) Read(ctx context.Context, ref string) ([]byte, error) {
	if scheme, _, ok := strings.Cut(ref, "://"); ok {
		if src, found := r.Schemes[strings.ToLower(scheme)]; found {
			return src.Read(ctx, ref)
		}
	}
	if r.Fallback == nil {
		return nil, fmt.Errorf("no photo source for %q", ref)
	}
	return r.Fallback.Read(ctx, ref)
}

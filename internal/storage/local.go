package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fileproxy/internal/pkg/httprange"
)

// LocalAdapter serves files from a directory on the proxy host. Used for
// development and self-hosted single-node installs.
//
// Credential keys: base_dir.
// Location keys: path (slash-separated, relative to base_dir).
type LocalAdapter struct{}

func NewLocalAdapter() *LocalAdapter { return &LocalAdapter{} }

func (*LocalAdapter) Provider() string { return ProviderLocal }

func (a *LocalAdapter) Open(ctx context.Context, creds, location map[string]string, rng *httprange.Range) (io.ReadCloser, *Metadata, error) {
	base := creds["base_dir"]
	if base == "" {
		return nil, nil, &Error{Provider: ProviderLocal, Op: "resolve path", Err: fmt.Errorf("base_dir not configured")}
	}

	full, err := resolveUnder(base, location["path"])
	if err != nil {
		return nil, nil, &Error{Provider: ProviderLocal, Op: "resolve path", Err: err}
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, nil, &Error{Provider: ProviderLocal, Op: "open file", Err: err}
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, &Error{Provider: ProviderLocal, Op: "stat file", Err: err}
	}
	size := fi.Size()

	// Weak validator in the nginx style: mtime-size.
	etag := fmt.Sprintf("%x-%x", fi.ModTime().Unix(), size)

	// A range starting at or past EOF cannot be honored; degrade to the
	// full object rather than failing the request.
	if rng == nil || rng.Start >= size {
		return f, &Metadata{ContentLength: size, ETag: etag}, nil
	}

	end := size - 1
	if rng.End != nil && *rng.End < end {
		end = *rng.End
	}
	length := end - rng.Start + 1

	return &sectionReadCloser{
			Reader: io.NewSectionReader(f, rng.Start, length),
			file:   f,
		}, &Metadata{
			ContentLength: length,
			ContentRange:  fmt.Sprintf("bytes %d-%d/%d", rng.Start, end, size),
			ETag:          etag,
		}, nil
}

// resolveUnder joins rel onto base and rejects anything that escapes base.
func resolveUnder(base, rel string) (string, error) {
	cleanBase := filepath.Clean(base)
	full := filepath.Clean(filepath.Join(cleanBase, filepath.FromSlash(rel)))
	if full != cleanBase && !strings.HasPrefix(full, cleanBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes storage root", rel)
	}
	return full, nil
}

type sectionReadCloser struct {
	io.Reader
	file *os.File
}

func (s *sectionReadCloser) Close() error { return s.file.Close() }

// Package storage opens byte streams against remote object-storage backends.
// One adapter per provider; all of them share the same contract so the
// streaming path upstream never branches on the provider.
package storage

import (
	"context"
	"fmt"
	"io"

	"fileproxy/internal/pkg/httprange"
)

// Provider identifiers as stored in file records and storage configs.
const (
	ProviderS3    = "s3"
	ProviderAzure = "azblob"
	ProviderLocal = "local"
)

// Metadata describes the stream a backend agreed to serve. When a range was
// requested the backend may serve a different interval than asked (an
// omitted end means "to end of object"), so ContentRange reports what will
// actually be sent. An empty ContentRange means the full object is served.
type Metadata struct {
	ContentType   string
	ContentLength int64 // -1 when the backend did not report a length
	ContentRange  string
	ETag          string
}

// Adapter opens a read stream for one provider. Adapters hold no per-request
// state: credentials and location arrive with every call, and the returned
// stream is the caller's to close. Adapters never retry: retry policy, if
// any, belongs above the adapter, since a blind retry is unsafe once
// response headers are committed.
type Adapter interface {
	Provider() string
	Open(ctx context.Context, creds, location map[string]string, rng *httprange.Range) (io.ReadCloser, *Metadata, error)
}

// Error wraps any backend failure (auth, missing object, network) as a
// single adapter error with the cause attached.
type Error struct {
	Provider string
	Op       string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage adapter %s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

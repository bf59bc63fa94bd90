package stream

import (
	"context"
	"fmt"
	"io"
	"log"

	"fileproxy/internal/domain/file"
	"fileproxy/internal/domain/storagecfg"
	"fileproxy/internal/domain/user"
	"fileproxy/internal/pkg/httprange"
	"fileproxy/internal/pkg/token"
	"fileproxy/internal/storage"
)

// Service orchestrates a streaming read end to end: resolve user and file,
// authorize, resolve storage credentials, pick the provider adapter, open
// the remote stream. It performs no retries: everything up to the adapter
// call is an idempotent read the caller may retry, and nothing after it is
// safely retryable once bytes start flowing.
type Service struct {
	users    user.Repository
	files    file.Repository
	configs  storagecfg.Repository
	registry *storage.Registry
	verifier *token.Verifier
}

func NewService(
	users user.Repository,
	files file.Repository,
	configs storagecfg.Repository,
	registry *storage.Registry,
	verifier *token.Verifier,
) *Service {
	return &Service{
		users:    users,
		files:    files,
		configs:  configs,
		registry: registry,
		verifier: verifier,
	}
}

// OpenResult is an opened backend stream plus everything the responder
// needs to write headers. The caller owns Body and must close it.
type OpenResult struct {
	Body   io.ReadCloser
	Meta   *storage.Metadata
	File   *file.Record
	Reason Reason // how access was granted, for logging
}

// Open runs the full pipeline for GET /{userId}/{fileId}.
//
// Error values map to transport statuses in the handler:
// user.ErrNotFound / file.ErrNotFound -> 404, *DeniedError / ErrNotYourFile
// -> 403, storagecfg.ErrNotConfigured / storage.ErrUnsupportedProvider /
// ErrNotStreamable -> 400, anything else -> 500.
func (s *Service) Open(ctx context.Context, userID, fileID string, tok *token.Token, rng *httprange.Range) (*OpenResult, error) {
	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rec, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	// Path-level ownership check, independent of token authorization:
	// the URL itself claims the file belongs to this user.
	if rec.OwnerID != owner.ID {
		return nil, ErrNotYourFile
	}

	if rec.Kind != file.KindFile {
		return nil, ErrNotStreamable
	}

	decision := Authorize(rec, owner, tok, s.verifier)
	if !decision.Allowed {
		if decision.Reason == ReasonInvalidShareToken {
			// A share token that verifies but points at another file smells
			// like someone replaying a stolen or adjacent link.
			log.Printf("share_token_denied user_id=%s file_id=%s", userID, fileID)
		}
		return nil, &DeniedError{Reason: decision.Reason}
	}

	cfg, err := s.configs.GetActiveByUserID(ctx, rec.OwnerID)
	if err != nil {
		return nil, err
	}

	adapter, err := s.registry.Resolve(rec.Provider)
	if err != nil {
		return nil, fmt.Errorf("provider %q: %w", rec.Provider, err)
	}

	creds, err := cfg.CredentialsMap()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}

	location, err := rec.LocationMap()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadLocation, err)
	}

	body, meta, err := adapter.Open(ctx, creds, location, rng)
	if err != nil {
		return nil, err
	}

	return &OpenResult{Body: body, Meta: meta, File: rec, Reason: decision.Reason}, nil
}

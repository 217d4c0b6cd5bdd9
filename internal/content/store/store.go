// Package store combines an authoritative remote content store with an
// advisory local mirror. Reads prefer the remote and fall back to the mirror;
// writes always reach the mirror, whatever the remote outcome.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sitedash/sitedash/internal/content"
	"github.com/sitedash/sitedash/pkg/logger"
)

var (
	// ErrStoreUnavailable wraps remote read/write failures.
	ErrStoreUnavailable = errors.New("content store unavailable")
	// ErrStoreFatal is returned when the local mirror itself fails.
	ErrStoreFatal = errors.New("local content cache unavailable")
)

// Remote is the authoritative content store.
type Remote interface {
	Fetch(ctx context.Context) (*content.Document, error)
	Save(ctx context.Context, doc *content.Document) (*content.SaveOutcome, error)
}

// Mirror is a single-slot local copy of the last document the operator saw
// or intended to save. Load returns (nil, nil) when nothing is cached.
type Mirror interface {
	Load(ctx context.Context) (*content.Document, error)
	Store(ctx context.Context, doc *content.Document) error
}

type Source string

const (
	SourceRemote  Source = "remote"
	SourceCache   Source = "cache"
	SourceDefault Source = "default"
)

type FetchResult struct {
	Document  *content.Document
	Source    Source
	RemoteErr error
}

type SaveResult struct {
	Outcome *content.SaveOutcome
	// LocalOnly is set when the remote save failed and only the mirror holds
	// the payload.
	LocalOnly bool
	RemoteErr error
}

type Store struct {
	remote Remote
	mirror Mirror
	// advisory downgrades a mirror write failure after a committed remote
	// save to a warning.
	advisory bool
}

type Option func(*Store)

// AdvisoryMirror is for callers whose mirror is only a read cache in front
// of the remote, such as the server's Redis copy. A save the remote accepted
// then succeeds even if the mirror write fails. When the remote also failed
// the mirror was the only copy, so that case stays fatal.
func AdvisoryMirror() Option {
	return func(s *Store) { s.advisory = true }
}

func New(remote Remote, mirror Mirror, opts ...Option) *Store {
	s := &Store{remote: remote, mirror: mirror}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch reads the remote document and refreshes the mirror with it. When the
// remote cannot answer, the cached copy is returned; with an empty cache the
// default document is returned with Source=SourceDefault.
func (s *Store) Fetch(ctx context.Context) (*FetchResult, error) {
	d, err := s.remote.Fetch(ctx)
	if err == nil {
		if merr := s.mirror.Store(ctx, d.Payload()); merr != nil {
			logger.Warnf("refresh local content cache: %v", merr)
		}
		return &FetchResult{Document: d, Source: SourceRemote}, nil
	}

	remoteErr := unavailable(err)
	logger.Warnf("remote content fetch failed, falling back to cache: %v", err)
	cached, lerr := s.mirror.Load(ctx)
	if lerr != nil {
		return nil, fmt.Errorf("%w: %v (remote: %v)", ErrStoreFatal, lerr, err)
	}
	if cached != nil {
		return &FetchResult{Document: cached, Source: SourceCache, RemoteErr: remoteErr}, nil
	}
	return &FetchResult{Document: content.Default(), Source: SourceDefault, RemoteErr: remoteErr}, nil
}

// Save validates doc, writes it to the remote and then to the mirror. The
// mirror write happens even when the remote fails; a mirror failure is fatal
// unless the store was built with AdvisoryMirror and the remote succeeded.
func (s *Store) Save(ctx context.Context, doc *content.Document) (*SaveResult, error) {
	if err := content.Validate(doc); err != nil {
		return nil, err
	}
	payload := doc.Payload()

	res := &SaveResult{}
	out, err := s.remote.Save(ctx, payload)
	var verr *content.ValidationError
	if errors.As(err, &verr) {
		return nil, verr
	}
	if err != nil {
		logger.Warnf("remote content save failed, keeping local copy: %v", err)
		res.LocalOnly = true
		res.RemoteErr = unavailable(err)
	} else {
		res.Outcome = out
	}

	if merr := s.mirror.Store(ctx, payload); merr != nil {
		if s.advisory && res.RemoteErr == nil {
			logger.Warnf("content saved but cache write failed: %v", merr)
			return res, nil
		}
		logger.Errorf("local content cache write failed: %v", merr)
		if res.RemoteErr != nil {
			return res, fmt.Errorf("%w: %v (remote: %v)", ErrStoreFatal, merr, res.RemoteErr)
		}
		return res, fmt.Errorf("%w: %v", ErrStoreFatal, merr)
	}
	return res, nil
}

// unavailable tags err as ErrStoreUnavailable while keeping it inspectable.
func unavailable(err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

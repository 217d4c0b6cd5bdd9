// Package dashboard holds the operator's editing session: the document being
// edited, where it was loaded from and the load/save lifecycle.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sitedash/sitedash/internal/content"
	"github.com/sitedash/sitedash/internal/content/store"
)

type Phase int

const (
	Loading Phase = iota
	Ready
	Saving
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Saving:
		return "saving"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

const (
	NoticeLoaded       = "Data loaded"
	NoticeLoadedCache  = "Data loaded from local cache"
	NoticeNoCache      = "No saved data found in local cache; showing defaults"
	NoticeSaved        = "saved"
	NoticeSavedLocally = "saved locally only"
)

// ErrNotReady is returned by edits and Submit outside the Ready phase.
var ErrNotReady = errors.New("session is not ready")

// Session is owned by one caller. The store is called without holding the
// lock, so Phase can be observed as Saving while a submit is in flight.
type Session struct {
	mu     sync.Mutex
	store  *store.Store
	phase  Phase
	doc    *content.Document
	source store.Source
	notice string
	err    error
}

func New(s *store.Store) *Session {
	return &Session{store: s, phase: Loading, doc: blank()}
}

// blank is the empty form shown while loading.
func blank() *content.Document {
	return &content.Document{Navbar: content.Navbar{Links: make([]content.Link, content.LinkCount)}}
}

// Load fetches the document through the two-tier store and enters Ready.
// Only a fatal cache failure keeps the session in Loading.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.phase == Saving {
		s.mu.Unlock()
		return fmt.Errorf("%w (phase %s)", ErrNotReady, s.phase)
	}
	s.phase = Loading
	s.mu.Unlock()

	res, err := s.store.Fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		s.notice = ""
		return err
	}
	s.doc = res.Document.Payload()
	s.source = res.Source
	s.err = res.RemoteErr
	switch res.Source {
	case store.SourceCache:
		s.notice = NoticeLoadedCache
	case store.SourceDefault:
		s.notice = NoticeNoCache
	default:
		s.notice = NoticeLoaded
	}
	s.phase = Ready
	return nil
}

func (s *Session) UpdateHeader(title, imageURL string) error {
	return s.edit(func(d *content.Document) error {
		d.Header = content.Header{Title: title, ImageURL: imageURL}
		return nil
	})
}

// SetLink replaces the i-th (zero-based) navigation link.
func (s *Session) SetLink(i int, label, url string) error {
	return s.edit(func(d *content.Document) error {
		if i < 0 || i >= len(d.Navbar.Links) {
			return fmt.Errorf("link index %d out of range [0,%d)", i, len(d.Navbar.Links))
		}
		d.Navbar.Links[i] = content.Link{Label: label, URL: url}
		return nil
	})
}

func (s *Session) UpdateFooter(email, phone, address string) error {
	return s.edit(func(d *content.Document) error {
		d.Footer = content.Footer{Email: email, Phone: phone, Address: address}
		return nil
	})
}

// Replace swaps in a whole document, e.g. one read from a file.
func (s *Session) Replace(doc *content.Document) error {
	if doc == nil {
		return content.MissingSection()
	}
	return s.edit(func(d *content.Document) error {
		*d = *doc.Payload()
		return nil
	})
}

func (s *Session) edit(fn func(d *content.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != Ready {
		return fmt.Errorf("%w (phase %s)", ErrNotReady, s.phase)
	}
	return fn(s.doc)
}

// Submit validates and saves the document. The session always returns to
// Ready; a validation error leaves the edits in place for correction.
func (s *Session) Submit(ctx context.Context) (*store.SaveResult, error) {
	s.mu.Lock()
	if s.phase != Ready {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w (phase %s)", ErrNotReady, s.phase)
	}
	s.phase = Saving
	doc := s.doc.Clone()
	s.mu.Unlock()

	res, err := s.store.Save(ctx, doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = Ready
	if err != nil {
		s.err = err
		s.notice = ""
		return res, err
	}
	if res.LocalOnly {
		s.err = res.RemoteErr
		s.notice = NoticeSavedLocally
	} else {
		s.err = nil
		s.notice = NoticeSaved
	}
	return res, nil
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Document returns a copy of the document being edited.
func (s *Session) Document() *content.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

func (s *Session) Source() store.Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

func (s *Session) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// Err is the last error seen by Load or Submit, including a recovered
// remote failure.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

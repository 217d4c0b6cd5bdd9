package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/sitedash/sitedash/internal/content"
	"github.com/sitedash/sitedash/internal/content/service"
	"github.com/sitedash/sitedash/internal/content/store"
	"github.com/sitedash/sitedash/internal/mirror"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// switchRemote wraps a memory service and can be taken down or paused.
type switchRemote struct {
	inner *service.Service
	down  bool
	// hold, when set, is called inside Save before the write.
	hold func()
}

func (r *switchRemote) Fetch(ctx context.Context) (*content.Document, error) {
	if r.down {
		return nil, errors.New("dial tcp: connection refused")
	}
	return r.inner.Fetch(ctx)
}

func (r *switchRemote) Save(ctx context.Context, doc *content.Document) (*content.SaveOutcome, error) {
	if r.hold != nil {
		r.hold()
	}
	if r.down {
		return nil, errors.New("dial tcp: connection refused")
	}
	return r.inner.Save(ctx, doc)
}

func newSession(t *testing.T) (*Session, *switchRemote, *mirror.FileMirror) {
	t.Helper()
	remote := &switchRemote{inner: service.NewMemoryService()}
	m := mirror.NewFileMirror(afero.NewMemMapFs(), "/home/op/.sitedash/dashboardData.json")
	return New(store.New(remote, m)), remote, m
}

func TestNewSessionIsLoading(t *testing.T) {
	s, _, _ := newSession(t)
	assert.Equal(t, Loading, s.Phase())
	assert.Len(t, s.Document().Navbar.Links, content.LinkCount)
	assert.ErrorIs(t, s.UpdateHeader("x", ""), ErrNotReady)
	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestLoadFromRemote(t *testing.T) {
	s, _, m := newSession(t)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, Ready, s.Phase())
	assert.Equal(t, store.SourceRemote, s.Source())
	assert.Equal(t, NoticeLoaded, s.Notice())
	assert.NoError(t, s.Err())
	assert.Equal(t, "Welcome to My Website", s.Document().Header.Title)
	assert.Empty(t, s.Document().Type)

	cached, err := m.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Welcome to My Website", cached.Header.Title)
}

func TestLoadFallsBackToCache(t *testing.T) {
	s, remote, m := newSession(t)
	ctx := context.Background()
	cached := content.Default().Payload()
	cached.Header.Title = "From cache"
	require.NoError(t, m.Store(ctx, cached))
	remote.down = true

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, Ready, s.Phase())
	assert.Equal(t, store.SourceCache, s.Source())
	assert.Equal(t, NoticeLoadedCache, s.Notice())
	assert.ErrorIs(t, s.Err(), store.ErrStoreUnavailable)
	assert.Equal(t, "From cache", s.Document().Header.Title)
}

func TestLoadWithNothingCachedShowsDefaults(t *testing.T) {
	s, remote, _ := newSession(t)
	remote.down = true

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, Ready, s.Phase())
	assert.Equal(t, store.SourceDefault, s.Source())
	assert.Equal(t, NoticeNoCache, s.Notice())
	assert.Equal(t, content.Default().Payload(), s.Document())
}

func TestLoadFatalCacheStaysLoading(t *testing.T) {
	remote := &switchRemote{inner: service.NewMemoryService(), down: true}
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c.json", []byte("{broken"), 0o600))
	s := New(store.New(remote, mirror.NewFileMirror(fs, "/c.json")))

	err := s.Load(context.Background())
	require.ErrorIs(t, err, store.ErrStoreFatal)
	assert.Equal(t, Loading, s.Phase())
	assert.ErrorIs(t, s.Err(), store.ErrStoreFatal)
}

func TestEditAndSubmit(t *testing.T) {
	s, remote, m := newSession(t)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	require.NoError(t, s.UpdateHeader("Acme", "https://cdn.example.com/logo.png"))
	require.NoError(t, s.SetLink(1, "Docs", "docs/index.html"))
	require.NoError(t, s.UpdateFooter("hi@acme.io", "555", "1 Road"))
	assert.Error(t, s.SetLink(3, "x", "/x"))
	assert.Error(t, s.SetLink(-1, "x", "/x"))

	res, err := s.Submit(ctx)
	require.NoError(t, err)
	assert.False(t, res.LocalOnly)
	assert.Equal(t, int64(1), res.Outcome.ModifiedCount)
	assert.Equal(t, NoticeSaved, s.Notice())
	assert.Equal(t, Ready, s.Phase())

	stored, err := remote.inner.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", stored.Header.Title)
	assert.Equal(t, "docs/index.html", stored.Navbar.Links[1].URL)

	cached, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.Document(), cached)
}

func TestSubmitRemoteDownSavesLocally(t *testing.T) {
	s, remote, m := newSession(t)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.UpdateHeader("Offline edit", ""))
	remote.down = true

	res, err := s.Submit(ctx)
	require.NoError(t, err)
	assert.True(t, res.LocalOnly)
	assert.Equal(t, NoticeSavedLocally, s.Notice())
	assert.ErrorIs(t, s.Err(), store.ErrStoreUnavailable)
	assert.Equal(t, Ready, s.Phase())

	cached, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.Document(), cached)
}

func TestSubmitInvalidKeepsEdits(t *testing.T) {
	s, remote, _ := newSession(t)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.UpdateFooter("not-an-email", "555", "1 Road"))

	_, err := s.Submit(ctx)
	require.ErrorIs(t, err, content.ErrInvalidEmail)
	assert.Equal(t, Ready, s.Phase())
	assert.Equal(t, "not-an-email", s.Document().Footer.Email)

	stored, err := remote.inner.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "info@example.com", stored.Footer.Email)
}

func TestPhaseIsSavingDuringSubmit(t *testing.T) {
	s, remote, _ := newSession(t)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	var during Phase
	var editErr error
	remote.hold = func() {
		during = s.Phase()
		editErr = s.UpdateHeader("late", "")
	}
	_, err := s.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, Saving, during)
	assert.ErrorIs(t, editErr, ErrNotReady)
	assert.Equal(t, Ready, s.Phase())
}

func TestReplaceAndDocumentIsACopy(t *testing.T) {
	s, _, _ := newSession(t)
	require.NoError(t, s.Load(context.Background()))

	d := content.Default()
	d.Header.Title = "Replaced"
	require.NoError(t, s.Replace(d))
	got := s.Document()
	assert.Equal(t, "Replaced", got.Header.Title)
	assert.Empty(t, got.Type)

	got.Navbar.Links[0].Label = "mutated"
	assert.Equal(t, "Home", s.Document().Navbar.Links[0].Label)
	assert.Error(t, s.Replace(nil))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "saving", Saving.String())
}

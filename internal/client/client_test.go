package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sitedash/sitedash/handlers"
	"github.com/sitedash/sitedash/internal/content"
	"github.com/sitedash/sitedash/internal/content/service"
	"github.com/sitedash/sitedash/internal/content/store"
	"github.com/sitedash/sitedash/internal/mirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	g := gin.New()
	handlers.NewComponentsHandler(store.New(service.NewMemoryService(), mirror.Discard{})).Register(g.Group("/api"))
	srv := httptest.NewServer(g)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientFetchAndSave(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL+"/api/", nil)
	ctx := context.Background()

	d, err := c.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to My Website", d.Header.Title)

	d = d.Payload()
	d.Header.Title = "From client"
	out, err := c.Save(ctx, d)
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, int64(1), out.ModifiedCount)

	d, err = c.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "From client", d.Header.Title)
}

func TestClientSaveValidationError(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL+"/api", nil)

	d := content.Default().Payload()
	d.Navbar.Links = d.Navbar.Links[:2]
	_, err := c.Save(context.Background(), d)

	var verr *content.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, err, content.ErrLinkCount)
	assert.Equal(t, "navbar.links", verr.Field)
	assert.Equal(t, "Navbar must contain exactly 3 links", verr.Message)
}

func TestClientUnknownValidationCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Invalid data"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Save(context.Background(), content.Default())
	assert.ErrorIs(t, err, content.ErrMalformed)
}

func TestClientServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to fetch component data","message":"no reachable servers"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Fetch(context.Background())
	require.ErrorIs(t, err, store.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "no reachable servers")
}

func TestClientTransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).Fetch(context.Background())
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)
}

func TestClientAsRemoteFallsBackToMirror(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	m := &memMirror{}
	s := store.New(New(url, nil), m)
	res, err := s.Save(context.Background(), content.Default())
	require.NoError(t, err)
	assert.True(t, res.LocalOnly)
	require.NotNil(t, m.doc)
	assert.Equal(t, "Welcome to My Website", m.doc.Header.Title)
}

type memMirror struct{ doc *content.Document }

func (m *memMirror) Load(ctx context.Context) (*content.Document, error) { return m.doc.Clone(), nil }
func (m *memMirror) Store(ctx context.Context, d *content.Document) error {
	m.doc = d.Clone()
	return nil
}

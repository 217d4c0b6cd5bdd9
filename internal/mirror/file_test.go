package mirror

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sitedash/sitedash/internal/content"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestFileMirror_StoreLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := NewFileMirror(fs, "/home/op/.sitedash/dashboardData.json")
	ctx := context.Background()

	got, err := m.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, got)

	d := content.Default().Payload()
	d.Header.ImageURL = "https://cdn.example.com/banner.png"
	require.NoError(t, m.Store(ctx, d))

	got, err = m.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, d, got)

	// overwrite leaves a single file behind
	d.Header.Title = "second"
	require.NoError(t, m.Store(ctx, d))
	entries, err := afero.ReadDir(fs, "/home/op/.sitedash")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got, err = m.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "second", got.Header.Title)
}

func TestFileMirror_OnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.json")
	m := NewFileMirror(nil, path)
	ctx := context.Background()
	require.NoError(t, m.Store(ctx, content.Default()))
	got, err := m.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, content.DocumentType, got.Type)
}

func TestFileMirror_CorruptFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c.json", []byte("{"), 0o644))
	_, err := NewFileMirror(fs, "/c.json").Load(context.Background())
	require.Error(t, err)
}

func TestFileMirror_ReadOnlyFsFailsStore(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	err := NewFileMirror(fs, "/c.json").Store(context.Background(), content.Default())
	require.Error(t, err)
}

func TestDiscard(t *testing.T) {
	var d Discard
	require.NoError(t, d.Store(context.Background(), content.Default()))
	got, err := d.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, got)
}

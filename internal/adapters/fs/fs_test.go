package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/montauk/internal/adapters/fs"
	"go.trai.ch/montauk/internal/core/domain"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
		require.NoError(t, os.WriteFile(path, []byte(content), domain.PrivateFilePerm))
	}
}

func TestWalker_WalkFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		".git/config":           "x",
		"node_modules/a/b.js":   "x",
		"Cache/viewsCache.json": "x",
		"Home/Index.html":       "x",
		"README.md":             "x",
	})

	var got []string
	for path, err := range fs.NewWalker().WalkFiles(root, []string{"Cache"}) {
		require.NoError(t, err)
		rel, _ := filepath.Rel(root, path)
		got = append(got, filepath.ToSlash(rel))
	}

	assert.Equal(t, []string{"Home/Index.html", "README.md"}, got)
}

func TestWalker_WalkFiles_MissingRoot(t *testing.T) {
	var errs []error
	for _, err := range fs.NewWalker().WalkFiles(filepath.Join(t.TempDir(), "missing"), nil) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], os.ErrNotExist)
}

func TestHasher_Fingerprint(t *testing.T) {
	h := fs.NewHasher()

	fp := h.Fingerprint([]byte("<p>hi</p>"))
	assert.Len(t, fp, 16)
	assert.Equal(t, fp, h.Fingerprint([]byte("<p>hi</p>")))
	assert.NotEqual(t, fp, h.Fingerprint([]byte("<p>ho</p>")))
	assert.Equal(t, "ef46db3751d8e999", h.Fingerprint(nil))

	path := filepath.Join(t.TempDir(), "a.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>hi</p>"), domain.PrivateFilePerm))
	fileFP, err := h.FingerprintFile(path)
	require.NoError(t, err)
	assert.Equal(t, fp, fileFP)

	_, err = h.FingerprintFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestLoader_LoadAll(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFiles(t, first, map[string]string{
		"Home/Index.html":    "<p>home</p>",
		"Shared/Layout.HTML": "%%View%%",
		"Cache/Stale.html":   "ignored",
		"Resources/site.css": "body{}",
	})
	writeFiles(t, second, map[string]string{
		"Home/Index.html":  "<p>shadowed</p>",
		"Admin/Users.html": "<p>users</p>",
	})

	l, err := fs.NewLoader([]string{first, second}, fs.NewWalker(), fs.NewHasher())
	require.NoError(t, err)

	records, err := l.LoadAll(context.Background())
	require.NoError(t, err)

	byName := make(map[string]domain.TemplateRecord)
	for _, r := range records {
		byName[r.LogicalName] = r
	}
	require.Len(t, byName, 3)
	assert.Equal(t, "<p>home</p>", byName["Home/Index"].RawContent)
	assert.Equal(t, "Index", byName["Home/Index"].DisplayName)
	assert.Equal(t, filepath.Join(first, "Home", "Index.html"), byName["Home/Index"].SourcePath)
	assert.Equal(t, fs.NewHasher().Fingerprint([]byte("<p>home</p>")), byName["Home/Index"].Fingerprint)
	assert.Contains(t, byName, "Shared/Layout")
	assert.Contains(t, byName, "Admin/Users")
}

func TestLoader_Errors(t *testing.T) {
	_, err := fs.NewLoader(nil, fs.NewWalker(), fs.NewHasher())
	require.ErrorIs(t, err, domain.ErrNotConfigured)

	empty := t.TempDir()
	writeFiles(t, empty, map[string]string{"notes.txt": "x"})
	l, err := fs.NewLoader([]string{empty}, fs.NewWalker(), fs.NewHasher())
	require.NoError(t, err)

	_, err = l.LoadAll(context.Background())
	require.ErrorIs(t, err, domain.ErrNoTemplatesFound)

	_, err = l.Load(filepath.Join(t.TempDir(), "Other.html"))
	require.ErrorIs(t, err, domain.ErrTemplateOutsideRoots)

	_, err = l.Load(filepath.Join(empty, "Missing.html"))
	require.ErrorContains(t, err, domain.ErrTemplateReadFailed.Error())
}

func TestLoader_Load(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"Home/CartFragment.html": "<tr/>"})

	l, err := fs.NewLoader([]string{root}, fs.NewWalker(), fs.NewHasher())
	require.NoError(t, err)
	assert.Equal(t, []string{root}, l.Roots())

	rec, err := l.Load(filepath.Join(root, "Home", "CartFragment.html"))
	require.NoError(t, err)
	assert.Equal(t, "Home/CartFragment", rec.LogicalName)
	assert.True(t, rec.IsFragment())
}

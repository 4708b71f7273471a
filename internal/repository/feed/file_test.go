package feed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/sparkle-appcast/internal/appcast"
	"github.com/oshokin/sparkle-appcast/internal/domain/release"
)

const sampleFeed = "<?xml version='1.0' encoding='UTF-8'?>  \r\n" +
	"<rss version=\"2.0\">   \n" +
	"  <channel>\t\n" +
	"    <title>Example App</title>\n" +
	"  </channel>\n" +
	"</rss>\n\n\n"

func writeSample(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "appcast.xml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	return path
}

func assertNormalized(t *testing.T, contents string) {
	t.Helper()

	require.True(t, strings.HasSuffix(contents, "\n"))
	require.False(t, strings.HasSuffix(contents, "\n\n"))
	require.NotContains(t, contents, "\r")

	for _, line := range strings.Split(contents, "\n") {
		require.Equal(t, strings.TrimRight(line, " \t"), line)
	}
}

// TestFileRepository_NotFound verifies Load returns ErrNotFound for a missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.xml"))
	doc, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Nil(t, doc)
}

// TestFileRepository_Malformed verifies broken XML is reported as a decode error.
func TestFileRepository_Malformed(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(writeSample(t, "<rss><channel></rss>"))
	_, err := repo.Load(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

// TestFileRepository_SaveNormalizes ensures the saved file is declared, namespaced and whitespace-clean.
func TestFileRepository_SaveNormalizes(t *testing.T) {
	t.Parallel()

	path := writeSample(t, sampleFeed)
	repo := NewFileRepository(path)

	doc, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), doc))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(contents)
	assertNormalized(t, out)
	require.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="utf-8"?>`+"\n<rss"), out)
	require.Equal(t, 1, strings.Count(out, "<?xml"))
	require.Contains(t, out, `xmlns:sparkle="`+appcast.SparkleURI+`"`)
	require.Contains(t, out, `xmlns:dc="`+appcast.DublinCoreURI+`"`)
	require.Contains(t, out, "<title>Example App</title>")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

// TestFileRepository_SaveWithoutDeclaration verifies a declaration is added when the source has none.
func TestFileRepository_SaveWithoutDeclaration(t *testing.T) {
	t.Parallel()

	path := writeSample(t, "<rss><channel/></rss>")
	repo := NewFileRepository(path, WithNamespaces(appcast.Namespaces{
		{Prefix: appcast.SparklePrefix, URI: appcast.SparkleURI},
	}))

	doc, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), doc))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t,
		`<?xml version="1.0" encoding="utf-8"?>`+"\n"+
			`<rss xmlns:sparkle="`+appcast.SparkleURI+`"><channel/></rss>`+"\n",
		string(contents))
}

// TestFileRepository_SaveAtomic verifies the atomic mode replaces the file and leaves no temporary files.
func TestFileRepository_SaveAtomic(t *testing.T) {
	t.Parallel()

	path := writeSample(t, sampleFeed)
	require.NoError(t, os.Chmod(path, 0o640))

	repo := NewFileRepository(path, WithAtomicWrite())

	doc, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), doc))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assertNormalized(t, string(contents))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "appcast.xml", entries[0].Name())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

// TestFileRepository_SaveEmptyDocument verifies a document without root is never written.
func TestFileRepository_SaveEmptyDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "appcast.xml")
	err := NewFileRepository(path).Save(context.Background(), etree.NewDocument())
	require.ErrorIs(t, err, release.ErrStructure)

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

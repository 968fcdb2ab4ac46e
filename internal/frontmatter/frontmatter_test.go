package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontMatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	doc, err := Split(input)
	require.NoError(t, err)
	require.False(t, doc.HasFrontMatter)
	require.Empty(t, doc.Fields)
	require.Equal(t, input, doc.Body)
}

func TestSplit_YAMLFrontMatter_SplitsFieldsAndBody(t *testing.T) {
	doc, err := Split([]byte("---\ntitle: Second Page\ntags:\n  - one\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, doc.HasFrontMatter)
	require.Equal(t, "Second Page", doc.Fields["title"])
	require.Equal(t, []any{"one"}, doc.Fields["tags"])
	require.Equal(t, []byte("# Title\n"), doc.Body)
	require.Equal(t, "Second Page", doc.Title())
}

func TestSplit_CRLF(t *testing.T) {
	doc, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, doc.HasFrontMatter)
	require.Equal(t, "value", doc.Fields["key"])
	require.Equal(t, []byte("# Title\r\n"), doc.Body)
}

func TestSplit_EmptyBlock(t *testing.T) {
	doc, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, doc.HasFrontMatter)
	require.Empty(t, doc.Fields)
	require.Equal(t, []byte("# Title\n"), doc.Body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	doc, err := Split([]byte("---\ntitle: Only\n---"))
	require.NoError(t, err)
	require.Equal(t, "Only", doc.Title())
	require.Empty(t, doc.Body)
}

func TestSplit_MissingClosingDelimiter(t *testing.T) {
	_, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_InvalidYAML(t *testing.T) {
	_, err := Split([]byte("---\n: not yaml\n---\nbody\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse front matter")
}

func TestTitle_NonString(t *testing.T) {
	doc, err := Split([]byte("---\ntitle: 42\n---\n"))
	require.NoError(t, err)
	require.Empty(t, doc.Title())
}

func TestFingerprint(t *testing.T) {
	a, err := Split([]byte("---\ntitle: A\nauthor: me\n---\nbody\n"))
	require.NoError(t, err)
	b, err := Split([]byte("---\nauthor: me\ntitle: A\nfingerprint: stale\n---\nbody\n"))
	require.NoError(t, err)
	c, err := Split([]byte("---\ntitle: A\nauthor: me\n---\nother body\n"))
	require.NoError(t, err)

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	fc, err := c.Fingerprint()
	require.NoError(t, err)

	require.NotEmpty(t, fa)
	require.Equal(t, fa, fb)
	require.NotEqual(t, fa, fc)
}

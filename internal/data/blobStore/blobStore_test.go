package blobStore

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveOpenRemove(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	handle, n, err := s.Save("doc1", "../../etc/report.pdf", strings.NewReader("%PDF-1.4 body"))
	require.NoError(t, err)
	assert.Equal(t, "doc1_report.pdf", handle)
	assert.Equal(t, int64(13), n)

	f, err := s.Open(handle)
	require.NoError(t, err)
	body, err := io.ReadAll(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(body))

	require.NoError(t, s.Remove(handle))
	_, err = s.Path(handle)
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestPath_RejectsEscapes(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	for _, h := range []string{"", "..", "../x", `a\b`} {
		_, err := s.Path(h)
		assert.ErrorIs(t, err, ErrBlobNotFound, h)
	}
}

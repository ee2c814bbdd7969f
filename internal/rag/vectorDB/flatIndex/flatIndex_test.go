package flatIndex

import (
	"fmt"
	"testing"

	"github.com/akolanti/DocQA/internal/rag/embedding/hashEmbedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_SelfRetrievalWithHashEmbeddings(t *testing.T) {
	e := hashEmbedding.New(384)
	chunks := make([]string, 12)
	vectors := make([][]float32, len(chunks))
	for i := range chunks {
		chunks[i] = fmt.Sprintf("chunk number %d of the document", i)
		vectors[i] = e.Embed(chunks[i])
	}
	idx, err := Build(vectors)
	require.NoError(t, err)

	for i, c := range chunks {
		hits, err := idx.Search(e.Embed(c), 1)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, i, hits[0].Position)
		assert.Zero(t, hits[0].Distance)
	}
}

func TestSearch_OrderAndOversizedK(t *testing.T) {
	idx, err := Build([][]float32{{0, 0}, {3, 4}, {1, 0}, {1, 0}})
	require.NoError(t, err)

	hits, err := idx.Search([]float32{0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 4)
	assert.Equal(t, []Hit{{0, 0}, {2, 1}, {3, 1}, {1, 25}}, hits)

	none, err := idx.Search([]float32{0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearch_EmptyIndex(t *testing.T) {
	idx, err := Build(nil)
	require.NoError(t, err)
	hits, err := idx.Search([]float32{1, 2, 3}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_DimensionMismatch(t *testing.T) {
	idx, err := Build([][]float32{{1, 2}})
	require.NoError(t, err)
	_, err = idx.Search([]float32{1, 2, 3}, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestBuild_RejectsRaggedVectors(t *testing.T) {
	_, err := Build([][]float32{{1, 2}, {1}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestReconstructAll_CopiesInOrder(t *testing.T) {
	in := [][]float32{{1, 2}, {3, 4}, {5, 6}}
	idx, err := Build(in)
	require.NoError(t, err)

	out := idx.ReconstructAll()
	assert.Equal(t, in, out)

	out[0][0] = 99
	in[1][0] = 99
	assert.Equal(t, float32(1), idx.ReconstructAll()[0][0])
	assert.Equal(t, float32(3), idx.ReconstructAll()[1][0])
}

func TestAdd_AppendsAfterBuild(t *testing.T) {
	idx := New(2)
	require.NoError(t, idx.Add([]float32{1, 1}))
	require.NoError(t, idx.Add([]float32{2, 2}, []float32{3, 3}))
	assert.Equal(t, 3, idx.Count())
	assert.Equal(t, 2, idx.Dimension())
}

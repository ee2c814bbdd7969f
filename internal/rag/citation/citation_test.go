package citation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChunkMetadata_PositionByOrdinalFraction(t *testing.T) {
	chunks := make([]string, 20)
	for i := range chunks {
		chunks[i] = fmt.Sprintf("chunk %d", i)
	}
	meta := BuildChunkMetadata(chunks, nil)
	require.Len(t, meta, 20)

	// fallback path always tags middle, so check the tagger directly
	assert.Equal(t, commonModels.PositionTop, positionFor(0, 20))
	assert.Equal(t, commonModels.PositionTop, positionFor(1, 20))
	assert.Equal(t, commonModels.PositionMiddle, positionFor(2, 20))
	assert.Equal(t, commonModels.PositionMiddle, positionFor(18, 20))
	assert.Equal(t, commonModels.PositionBottom, positionFor(19, 20))
}

func TestBuildChunkMetadata_ForwardPageScan(t *testing.T) {
	pages := []string{
		"alpha intro text. alpha body.",
		"beta section text.",
		"gamma closing text.",
	}
	chunks := []string{"alpha intro text.", "alpha body.", "beta section text.", "gamma closing text.", "not anywhere"}
	meta := BuildChunkMetadata(chunks, pages)

	got := make([]int, len(meta))
	for i, m := range meta {
		got[i] = m.PageNumber
		assert.Equal(t, i, m.ChunkId)
	}
	// the page pointer never moves backwards and stops at the last page
	assert.Equal(t, []int{1, 1, 2, 3, 3}, got)
}

func TestBuildChunkMetadata_FallbackWithoutPages(t *testing.T) {
	chunks := []string{"a", "b", "c", "d", "e", "f", "g"}
	meta := BuildChunkMetadata(chunks, nil)
	pages := make([]int, len(meta))
	for i, m := range meta {
		pages[i] = m.PageNumber
		assert.Equal(t, commonModels.PositionMiddle, m.Position)
	}
	assert.Equal(t, []int{1, 1, 1, 2, 2, 2, 3}, pages)
}

func TestBuildChunkMetadata_PreviewIsRuneSafe(t *testing.T) {
	long := strings.Repeat("é", 200)
	meta := BuildChunkMetadata([]string{long, "short"}, nil)
	assert.Equal(t, strings.Repeat("é", 150)+"...", meta[0].Preview)
	assert.Equal(t, 200, meta[0].ChunkLength)
	assert.Equal(t, "short", meta[1].Preview)
}

func TestEnhance_MatchAndPlaceholder(t *testing.T) {
	chunks := []string{"first chunk about alpha", "second chunk about beta"}
	meta := BuildChunkMetadata(chunks, []string{"first chunk about alpha second chunk about beta"})

	got := Enhance(meta, []string{"second chunk about beta", "unrelated"})
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].ChunkId)
	assert.Equal(t, 1, got[0].Page)
	assert.Equal(t, 0.95, got[0].RelevanceScore)

	assert.Equal(t, -1, got[1].ChunkId)
	assert.Equal(t, 1, got[1].Page)
	assert.Equal(t, commonModels.PositionUnknown, got[1].Position)
	assert.Equal(t, 0.8, got[1].RelevanceScore)
}

func TestEnhance_NoMetadata(t *testing.T) {
	assert.Empty(t, Enhance(nil, []string{"anything"}))
}

// Package citation estimates where each chunk sits in its source document and
// turns retrieved chunk text into user-facing citations.
//
// Page and position are approximations. Position is assigned purely by the
// chunk's ordinal fraction, and pages are found by a forward-only substring
// scan over the extracted page texts.
package citation

import (
	"strings"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
)

// BuildChunkMetadata returns one entry per chunk. With no page texts it falls back
// to a coarse estimate of three chunks per page.
func BuildChunkMetadata(chunks []string, pages []string) []commonModels.ChunkMetadata {
	if len(pages) == 0 {
		return fallbackMetadata(chunks)
	}

	out := make([]commonModels.ChunkMetadata, len(chunks))
	currentPage := 1
	pageText := pages[0]
	for i, chunk := range chunks {
		chunkPage := currentPage
		if !strings.Contains(pageText, runePrefix(chunk, config.CitationPagePrefix)) && currentPage < len(pages) {
			// advance once without re-testing the new page
			currentPage++
			pageText = pages[currentPage-1]
			chunkPage = currentPage
		}
		out[i] = commonModels.ChunkMetadata{
			ChunkId:     i,
			PageNumber:  chunkPage,
			Position:    positionFor(i, len(chunks)),
			ChunkLength: len([]rune(chunk)),
			Preview:     preview(chunk),
		}
	}
	return out
}

func fallbackMetadata(chunks []string) []commonModels.ChunkMetadata {
	out := make([]commonModels.ChunkMetadata, len(chunks))
	for i, chunk := range chunks {
		out[i] = commonModels.ChunkMetadata{
			ChunkId:     i,
			PageNumber:  max(1, i/3+1),
			Position:    commonModels.PositionMiddle,
			ChunkLength: len([]rune(chunk)),
			Preview:     preview(chunk),
		}
	}
	return out
}

func positionFor(i, n int) commonModels.Position {
	switch {
	case float64(i) < float64(n)*0.1:
		return commonModels.PositionTop
	case float64(i) > float64(n)*0.9:
		return commonModels.PositionBottom
	default:
		return commonModels.PositionMiddle
	}
}

// Enhance maps each retrieved chunk to the first metadata entry whose preview
// prefix starts the chunk. Unmatched chunks get a degraded placeholder.
// Scores are fixed placeholders, not similarity values.
func Enhance(metadata []commonModels.ChunkMetadata, retrieved []string) []commonModels.Citation {
	if len(metadata) == 0 {
		return []commonModels.Citation{}
	}
	out := make([]commonModels.Citation, 0, len(retrieved))
	for _, text := range retrieved {
		out = append(out, match(metadata, text))
	}
	return out
}

func match(metadata []commonModels.ChunkMetadata, text string) commonModels.Citation {
	for _, m := range metadata {
		if strings.HasPrefix(text, runePrefix(m.Preview, config.CitationMatchPrefix)) {
			return commonModels.Citation{
				Text:           text,
				Page:           m.PageNumber,
				Position:       m.Position,
				ChunkId:        m.ChunkId,
				RelevanceScore: config.CitationMatchScore,
			}
		}
	}
	return commonModels.Citation{
		Text:           text,
		Page:           1,
		Position:       commonModels.PositionUnknown,
		ChunkId:        -1,
		RelevanceScore: config.CitationMissScore,
	}
}

func preview(chunk string) string {
	r := []rune(chunk)
	if len(r) > config.CitationPreviewLength {
		return string(r[:config.CitationPreviewLength]) + "..."
	}
	return chunk
}

func runePrefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

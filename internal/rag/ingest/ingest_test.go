package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/akolanti/DocQA/internal/rag/citation"
	"github.com/akolanti/DocQA/internal/rag/embedding"
	"github.com/akolanti/DocQA/internal/rag/embedding/hashEmbedding"
)

type mockEmbedder struct {
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return nil, nil
}

func (m *mockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	return m.OnBatchEmbedding(ctx, chunks)
}

func TestSplitTextIntoChunks_ShortText(t *testing.T) {
	chunks := splitTextIntoChunks("  Alpha Beta Gamma \n", 1000, 200)
	if len(chunks) != 1 || chunks[0] != "Alpha Beta Gamma" {
		t.Fatalf("expected one trimmed chunk, got %q", chunks)
	}
}

func TestSplitTextIntoChunks_DropsEmpty(t *testing.T) {
	if chunks := splitTextIntoChunks("\n\n   \n", 1000, 200); len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %q", chunks)
	}
}

func TestSplitTextIntoChunks_RespectsLimitAndOverlaps(t *testing.T) {
	text := "alpha beta gamma delta epsilon zeta eta theta iota kappa lambda mu"
	limit, overlap := 30, 10

	chunks := splitTextIntoChunks(text, limit, overlap)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > limit {
			t.Errorf("chunk %d has %d bytes, limit %d", i, len(c), limit)
		}
		if c == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
	for i := 1; i < len(chunks); i++ {
		prevWords := strings.Fields(chunks[i-1])
		if !strings.Contains(chunks[i], prevWords[len(prevWords)-1]) {
			t.Errorf("chunk %d %q does not carry the tail of %q", i, chunks[i], chunks[i-1])
		}
	}
}

func TestSplitTextIntoChunks_PrefersParagraphs(t *testing.T) {
	para := strings.Repeat("word ", 30)
	text := para + "\n\n" + para + "\n\n" + para

	chunks := splitTextIntoChunks(text, 200, 0)
	if len(chunks) != 3 {
		t.Fatalf("expected one chunk per paragraph, got %d", len(chunks))
	}
}

func TestSplitTextIntoChunks_NoSeparatorsStaysValidUTF8(t *testing.T) {
	text := strings.Repeat("é", 50)
	chunks := splitTextIntoChunks(text, 16, 4)
	if len(chunks) < 2 {
		t.Fatalf("expected a hard split, got %d chunks", len(chunks))
	}
	for _, c := range chunks {
		if !utf8.ValidString(c) || len(c) > 16 {
			t.Errorf("bad chunk %q", c)
		}
	}
}

func TestBatchIngest_Batches(t *testing.T) {
	chunks := make([]string, 150)
	for i := range chunks {
		chunks[i] = "test content"
	}

	calls := 0
	in := New(&mockEmbedder{OnBatchEmbedding: func(ctx context.Context, ch []string) ([][]float32, error) {
		calls++
		out := make([][]float32, len(ch))
		for i := range out {
			out[i] = []float32{1, 2}
		}
		return out, nil
	}})

	vecs, err := in.BatchIngest(context.Background(), chunks)
	if err != nil {
		t.Fatalf("BatchIngest failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 batches, got %d", calls)
	}
	if len(vecs) != 150 {
		t.Errorf("expected 150 vectors, got %d", len(vecs))
	}
}

func TestBatchIngest_Errors(t *testing.T) {
	in := New(&mockEmbedder{OnBatchEmbedding: func(ctx context.Context, ch []string) ([][]float32, error) {
		return nil, errors.New("quota")
	}})
	if _, err := in.BatchIngest(context.Background(), []string{"hi"}); err == nil {
		t.Error("expected error from embedder")
	}

	short := New(&mockEmbedder{OnBatchEmbedding: func(ctx context.Context, ch []string) ([][]float32, error) {
		return [][]float32{}, nil
	}})
	if _, err := short.BatchIngest(context.Background(), []string{"hi"}); err == nil {
		t.Error("expected error on vector count mismatch")
	}
}

func TestBatchIngest_FallbackCoversWholeDocument(t *testing.T) {
	calls := 0
	primary := &mockEmbedder{OnBatchEmbedding: func(ctx context.Context, ch []string) ([][]float32, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("quota")
		}
		out := make([][]float32, len(ch))
		for i := range out {
			out[i] = []float32{1, 0, 0, 0, 0, 0, 0, 0}
		}
		return out, nil
	}}
	h := hashEmbedding.New(8)
	in := New(embedding.WithFallback(primary, h))
	in.batchSize = 2

	chunks := []string{"a", "b", "c", "d"}
	vecs, err := in.BatchIngest(context.Background(), chunks)
	if err != nil {
		t.Fatalf("BatchIngest failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected the primary to stop after its failing batch, got %d calls", calls)
	}
	if len(vecs) != len(chunks) {
		t.Fatalf("expected %d vectors, got %d", len(chunks), len(vecs))
	}
	for i, chunk := range chunks {
		if !equalVectors(vecs[i], h.Embed(chunk)) {
			t.Errorf("chunk %q: expected the deterministic vector, got %v", chunk, vecs[i])
		}
	}
}

func TestBatchIngest_PrimaryCoversWholeDocument(t *testing.T) {
	primaryVec := []float32{1, 0, 0, 0, 0, 0, 0, 0}
	primary := &mockEmbedder{OnBatchEmbedding: func(ctx context.Context, ch []string) ([][]float32, error) {
		out := make([][]float32, len(ch))
		for i := range out {
			out[i] = primaryVec
		}
		return out, nil
	}}
	in := New(embedding.WithFallback(primary, hashEmbedding.New(8)))
	in.batchSize = 2

	vecs, err := in.BatchIngest(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("BatchIngest failed: %v", err)
	}
	for i, v := range vecs {
		if !equalVectors(v, primaryVec) {
			t.Errorf("vector %d: expected the primary vector, got %v", i, v)
		}
	}
}

func equalVectors(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// writePDF builds a minimal PDF with one Helvetica text line per page.
// Page texts must not contain parentheses or backslashes.
func writePDF(t *testing.T, pages ...string) string {
	t.Helper()
	var buf bytes.Buffer
	offsets := []int{}
	object := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	object("<< /Type /Catalog /Pages 2 0 R >>")
	object(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)))
	object("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	for i, text := range pages {
		object(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		object(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return writeFile(t, "report.pdf", buf.String())
}

func TestExtractPDF_OneEntryPerPage(t *testing.T) {
	path := writePDF(t, "first page text", "second page text")
	pages, err := extractPDF(context.Background(), path)
	if err != nil {
		t.Fatalf("extractPDF failed: %v", err)
	}
	if len(pages) != 2 || pages[0] != "first page text" || pages[1] != "second page text" {
		t.Errorf("unexpected pages %q", pages)
	}
}

func TestBuild_MultiPagePDFCitations(t *testing.T) {
	pageOne := strings.Repeat("alpha revenue grew ", 37)
	pageTwo := strings.Repeat("beta costs fell ", 44)
	path := writePDF(t, pageOne, pageTwo)
	in := New(hashEmbedding.New(32))

	res, err := in.Build(context.Background(), Source{Path: path, Filename: "report.pdf"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if res.Metadata.PagesCount != 2 || res.Metadata.ContentType != commonModels.PDF {
		t.Errorf("unexpected metadata %+v", res.Metadata)
	}
	if len(res.Chunks) != 2 {
		t.Fatalf("expected one chunk per page, got %d: %q", len(res.Chunks), res.Chunks)
	}
	if !strings.HasPrefix(res.Chunks[0], "alpha") || !strings.HasPrefix(res.Chunks[1], "beta") {
		t.Errorf("unexpected chunks %q", res.Chunks)
	}

	meta := citation.BuildChunkMetadata(res.Chunks, res.Pages)
	if meta[0].PageNumber != 1 || meta[0].Position != commonModels.PositionTop {
		t.Errorf("chunk 0: unexpected metadata %+v", meta[0])
	}
	if meta[1].PageNumber != 2 || meta[1].Position != commonModels.PositionMiddle {
		t.Errorf("chunk 1: unexpected metadata %+v", meta[1])
	}

	cites := citation.Enhance(meta, []string{res.Chunks[1]})
	if len(cites) != 1 {
		t.Fatalf("expected one citation, got %d", len(cites))
	}
	if cites[0].Page != 2 || cites[0].ChunkId != 1 || cites[0].RelevanceScore != config.CitationMatchScore {
		t.Errorf("unexpected citation %+v", cites[0])
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuild_TextFile(t *testing.T) {
	path := writeFile(t, "notes.txt", "Alpha Beta Gamma")
	in := New(hashEmbedding.New(32))
	uploaded := time.Unix(500, 0)

	res, err := in.Build(context.Background(), Source{Path: path, Filename: "notes.txt", SizeBytes: 2048, UploadTime: uploaded})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(res.Chunks) != 1 || res.Chunks[0] != "Alpha Beta Gamma" {
		t.Errorf("unexpected chunks %q", res.Chunks)
	}
	if res.Index.Count() != 1 {
		t.Errorf("expected 1 vector, got %d", res.Index.Count())
	}
	if res.Metadata.PagesCount != 1 || res.Metadata.FileSizeKB != 2 || !res.Metadata.UploadTime.Equal(uploaded) {
		t.Errorf("unexpected metadata %+v", res.Metadata)
	}
}

func TestBuild_Rejects(t *testing.T) {
	in := New(hashEmbedding.New(32))

	_, err := in.Build(context.Background(), Source{Path: writeFile(t, "img.png", "x"), Filename: "img.png"})
	if !errors.Is(err, qaModel.ErrUnsupportedDocument) {
		t.Errorf("expected unsupported document, got %v", err)
	}

	_, err = in.Build(context.Background(), Source{Path: writeFile(t, "blank.txt", "   \n\n"), Filename: "blank.txt"})
	if !errors.Is(err, qaModel.ErrEmptyDocument) {
		t.Errorf("expected empty document, got %v", err)
	}
}

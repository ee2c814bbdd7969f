package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/stretchr/testify/assert"
)

type mockLLM struct {
	OnGenerate func(ctx context.Context, prompt string) (string, error)
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return m.OnGenerate(ctx, prompt)
}

func TestRuleBased(t *testing.T) {
	cases := []struct {
		question   string
		category   qaModel.Category
		confidence float64
	}{
		{"Hello!", qaModel.Conversational, 0.8},
		{"  THANK YOU so much", qaModel.Conversational, 0.8},
		{"hi", qaModel.Conversational, 0.8},
		{"Who are you?", qaModel.Personal, 0.8},
		{"How many pages does this have?", qaModel.PDFMeta, 0.7},
		{"what's the pdf name", qaModel.PDFMeta, 0.7},
		{"What is photosynthesis?", qaModel.General, 0.6},
		{"please define entropy", qaModel.General, 0.6},
		{"What does the document say about Alpha?", qaModel.PDFContent, 0.5},
		{"Alpha", qaModel.Conversational, 0.3},
		{"a long statement with no question mark", qaModel.Conversational, 0.3},
	}
	for _, tc := range cases {
		t.Run(tc.question, func(t *testing.T) {
			got := RuleBased(tc.question)
			assert.Equal(t, tc.category, got.Category)
			assert.InDelta(t, tc.confidence, got.Confidence, 1e-9)
			assert.NotEmpty(t, got.Reasoning)
		})
	}
}

func TestClassify_NoModelUsesRules(t *testing.T) {
	c := New(nil)
	got := c.Classify(context.Background(), "Hello!", qaModel.DocContext{})
	assert.Equal(t, qaModel.Conversational, got.Category)
}

func TestClassify_ParsesModelJSON(t *testing.T) {
	var seen string
	c := New(&mockLLM{OnGenerate: func(_ context.Context, prompt string) (string, error) {
		seen = prompt
		return "Sure!\n```json\n{\"category\": \"PDF_META\", \"confidence\": 0.92, \"reasoning\": \"asks for filename\"}\n```", nil
	}})
	c.now = func() time.Time { return time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC) }

	got := c.Classify(context.Background(), "What's this file called?",
		qaModel.DocContext{DocumentId: "d1", Filename: "report.pdf", PagesCount: 12})

	assert.Equal(t, qaModel.Classification{Category: qaModel.PDFMeta, Confidence: 0.92, Reasoning: "asks for filename"}, got)
	assert.Contains(t, seen, "Current document: report.pdf (12 pages)")
	assert.Contains(t, seen, "Current date: March 05, 2024")
	assert.Contains(t, seen, `QUESTION: "What's this file called?"`)
	assert.True(t, strings.HasSuffix(seen, "Classification:"))
}

func TestClassify_NoDocumentLine(t *testing.T) {
	var seen string
	c := New(&mockLLM{OnGenerate: func(_ context.Context, prompt string) (string, error) {
		seen = prompt
		return `{"category":"GENERAL","confidence":0.9,"reasoning":"x"}`, nil
	}})
	c.Classify(context.Background(), "What time is it?", qaModel.DocContext{})
	assert.Contains(t, seen, "- No document currently uploaded")
}

func TestClassify_FallsBackOnBadOutput(t *testing.T) {
	outputs := map[string]string{
		"no json":            "I think it is content",
		"unknown category":   `{"category":"WEATHER","confidence":0.9}`,
		"confidence too big": `{"category":"GENERAL","confidence":1.5}`,
		"confidence string":  `{"category":"GENERAL","confidence":"high"}`,
		"broken json":        `{"category":"GENERAL", confidence}`,
	}
	for name, out := range outputs {
		t.Run(name, func(t *testing.T) {
			c := New(&mockLLM{OnGenerate: func(context.Context, string) (string, error) { return out, nil }})
			got := c.Classify(context.Background(), "Hello!", qaModel.DocContext{})
			assert.Equal(t, RuleBased("Hello!"), got)
		})
	}
}

func TestClassify_FallsBackOnModelError(t *testing.T) {
	c := New(&mockLLM{OnGenerate: func(context.Context, string) (string, error) {
		return "", errors.New("quota")
	}})
	got := c.Classify(context.Background(), "How many pages does this have?", qaModel.DocContext{})
	assert.Equal(t, qaModel.PDFMeta, got.Category)
	assert.InDelta(t, 0.7, got.Confidence, 1e-9)
}

func TestParseClassification_BoundaryConfidence(t *testing.T) {
	got, err := parseClassification(`{"category":"PERSONAL","confidence":0}`)
	assert.NoError(t, err)
	assert.Equal(t, qaModel.Personal, got.Category)

	got, err = parseClassification(`{"category":"PERSONAL","confidence":1}`)
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, got.Confidence, 1e-9)
}

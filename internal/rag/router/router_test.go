package router

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/akolanti/DocQA/internal/rag/responders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLLM struct {
	OnGenerate func(ctx context.Context, prompt string) (string, error)
	calls      int
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls++
	return m.OnGenerate(ctx, prompt)
}

func fixed(resp qaModel.Response) responders.Responder {
	return responders.ResponderFunc(func(context.Context, responders.Request) (qaModel.Response, error) {
		return resp, nil
	})
}

func broken() responders.Responder {
	return responders.ResponderFunc(func(context.Context, responders.Request) (qaModel.Response, error) {
		return qaModel.Response{}, errors.New("boom")
	})
}

func TestShouldUseHybrid_HighConfidenceAlwaysSingle(t *testing.T) {
	r := New(nil)
	followUp := qaModel.FollowUpInfo{IsFollowUp: true, PreviousCategory: qaModel.General}
	for _, cat := range qaModel.Categories {
		for _, conf := range []float64{0.8, 0.85, 0.99, 1} {
			d := r.ShouldUseHybrid(qaModel.Classification{Category: cat.Category, Confidence: conf}, "explain what is this about", followUp)
			assert.False(t, d.UseHybrid)
			assert.Equal(t, cat.Category, d.PrimaryHandler)
			assert.Equal(t, ReasonHighConfidence, d.Reason)
		}
	}
}

func TestShouldUseHybrid_Rules(t *testing.T) {
	r := New(nil)
	cases := []struct {
		name     string
		c        qaModel.Classification
		question string
		followUp qaModel.FollowUpInfo
		want     qaModel.RoutingDecision
	}{
		{
			name:     "follow-up across categories",
			c:        qaModel.Classification{Category: qaModel.PDFContent, Confidence: 0.5},
			question: "and the budget?",
			followUp: qaModel.FollowUpInfo{IsFollowUp: true, PreviousCategory: qaModel.PDFMeta},
			want:     qaModel.RoutingDecision{UseHybrid: true, Handlers: []qaModel.Category{qaModel.PDFContent, qaModel.PDFMeta}, Reason: ReasonFollowUp},
		},
		{
			name:     "follow-up same category",
			c:        qaModel.Classification{Category: qaModel.PDFContent, Confidence: 0.5},
			question: "and the budget?",
			followUp: qaModel.FollowUpInfo{IsFollowUp: true, PreviousCategory: qaModel.PDFContent},
			want:     qaModel.RoutingDecision{PrimaryHandler: qaModel.PDFContent, Reason: ReasonStandard},
		},
		{
			name:     "content needs general knowledge",
			c:        qaModel.Classification{Category: qaModel.PDFContent, Confidence: 0.6},
			question: "Explain the method in section 2",
			want:     qaModel.RoutingDecision{UseHybrid: true, Handlers: []qaModel.Category{qaModel.PDFContent, qaModel.General}, Reason: ReasonContentGeneral},
		},
		{
			name:     "meta needs content",
			c:        qaModel.Classification{Category: qaModel.PDFMeta, Confidence: 0.7},
			question: "what topic does this file cover",
			want:     qaModel.RoutingDecision{UseHybrid: true, Handlers: []qaModel.Category{qaModel.PDFMeta, qaModel.PDFContent}, Reason: ReasonMetaContent},
		},
		{
			name:     "below low threshold",
			c:        qaModel.Classification{Category: qaModel.PDFContent, Confidence: 0.3},
			question: "explain",
			want:     qaModel.RoutingDecision{PrimaryHandler: qaModel.PDFContent, Reason: ReasonStandard},
		},
		{
			name:     "no trigger",
			c:        qaModel.Classification{Category: qaModel.PDFContent, Confidence: 0.5},
			question: "What does the document say about Alpha?",
			want:     qaModel.RoutingDecision{PrimaryHandler: qaModel.PDFContent, Reason: ReasonStandard},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.ShouldUseHybrid(tc.c, tc.question, tc.followUp))
		})
	}
}

func TestGenerateHybrid_ConcatenatesWithoutModel(t *testing.T) {
	registry := responders.Registry{
		PDFContent: fixed(qaModel.Response{Answer: "from the doc", Sources: []string{"c1", "c2"}}),
		General:    fixed(qaModel.Response{Answer: "from the world", Sources: []string{"c2"}}),
	}
	resp := New(nil).GenerateHybrid(context.Background(), []qaModel.Category{qaModel.PDFContent, qaModel.General}, responders.Request{}, registry)

	assert.Equal(t, qaModel.TypeHybridFallback, resp.ResponseType)
	assert.Equal(t, "**Pdf Content**: from the doc\n\n**General**: from the world", resp.Answer)
	assert.Equal(t, []string{"c1", "c2", "c2"}, resp.Sources)
	assert.Equal(t, []qaModel.Category{qaModel.PDFContent, qaModel.General}, resp.HandlersUsed)
}

func TestGenerateHybrid_SkipsFailingHandlers(t *testing.T) {
	registry := responders.Registry{
		PDFMeta:    broken(),
		PDFContent: fixed(qaModel.Response{Answer: "content"}),
	}
	resp := New(nil).GenerateHybrid(context.Background(), []qaModel.Category{qaModel.PDFMeta, qaModel.PDFContent}, responders.Request{}, registry)
	assert.Equal(t, "**Pdf Content**: content", resp.Answer)
	assert.Equal(t, []qaModel.Category{qaModel.PDFContent}, resp.HandlersUsed)
}

func TestGenerateHybrid_AllFail(t *testing.T) {
	registry := responders.Registry{PDFMeta: broken()}
	resp := New(nil).GenerateHybrid(context.Background(), []qaModel.Category{qaModel.PDFMeta, qaModel.Personal}, responders.Request{}, registry)
	assert.Equal(t, qaModel.TypeHybridError, resp.ResponseType)
	assert.Equal(t, "I encountered an error generating a hybrid response.", resp.Answer)
}

func TestGenerateHybrid_SynthesizesWithModel(t *testing.T) {
	var prompt string
	m := &mockLLM{OnGenerate: func(_ context.Context, p string) (string, error) {
		prompt = p
		return "merged answer", nil
	}}
	registry := responders.Registry{
		PDFContent: fixed(qaModel.Response{Answer: "doc says x", Sources: []string{"c1"}}),
		General:    fixed(qaModel.Response{Answer: "x means y"}),
	}
	req := responders.Request{Question: "what is x?", System: qaModel.SystemContext{SystemName: "DocSpotlight"}, Doc: qaModel.DocContext{DocumentId: "d", Filename: "x.pdf"}}

	resp := New(m).GenerateHybrid(context.Background(), []qaModel.Category{qaModel.PDFContent, qaModel.General}, req, registry)
	assert.Equal(t, qaModel.TypeHybridSynthesized, resp.ResponseType)
	assert.Equal(t, "merged answer", resp.Answer)
	assert.Equal(t, qaModel.SynthesisLLMGenerated, resp.SynthesisQuality)
	assert.Equal(t, []string{"c1"}, resp.Sources)
	assert.Contains(t, prompt, "The user asked: 'what is x?' about document 'x.pdf'")
	assert.Contains(t, prompt, "**Pdf Content Response**: doc says x\n\n**General Response**: x means y")
}

func TestGenerateHybrid_SynthesisRetriesOnceThenConcatenates(t *testing.T) {
	m := &mockLLM{OnGenerate: func(context.Context, string) (string, error) { return "", errors.New("down") }}
	registry := responders.Registry{General: fixed(qaModel.Response{Answer: "general"})}

	resp := New(m).GenerateHybrid(context.Background(), []qaModel.Category{qaModel.General}, responders.Request{}, registry)
	require.Equal(t, 2, m.calls)
	assert.Equal(t, qaModel.TypeHybridFallback, resp.ResponseType)
	assert.Equal(t, "**General**: general", resp.Answer)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Pdf Meta", label(qaModel.PDFMeta))
	assert.Equal(t, "Conversational", label(qaModel.Conversational))
}

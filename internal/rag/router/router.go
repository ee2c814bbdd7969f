package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/internal/rag/llm"
	"github.com/akolanti/DocQA/internal/rag/responders"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

const (
	ReasonHighConfidence = "High confidence single classification"
	ReasonFollowUp       = "Follow-up question spanning multiple contexts"
	ReasonContentGeneral = "Content question that might benefit from general knowledge"
	ReasonMetaContent    = "Meta question that might need content analysis"
	ReasonStandard       = "Standard single handler routing"

	synthesisAttempts = 2
)

var (
	explanatoryTriggers = []string{"explain", "what is", "define", "how does"}
	metaProbeTriggers   = []string{"about", "topic", "discusses", "covers"}
)

type Router struct {
	llm    llm.Provider
	logger *logger_i.Logger
}

func New(provider llm.Provider) *Router {
	return &Router{llm: provider, logger: logger_i.NewLogger("router")}
}

func single(c qaModel.Category, reason string) qaModel.RoutingDecision {
	return qaModel.RoutingDecision{PrimaryHandler: c, Reason: reason}
}

func hybrid(reason string, handlers ...qaModel.Category) qaModel.RoutingDecision {
	return qaModel.RoutingDecision{UseHybrid: true, Handlers: handlers, Reason: reason}
}

// ShouldUseHybrid picks single or multi-handler dispatch. High confidence always
// routes to the classified category alone.
func (r *Router) ShouldUseHybrid(c qaModel.Classification, question string, followUp qaModel.FollowUpInfo) qaModel.RoutingDecision {
	d := decide(c, question, followUp)
	r.logger.Debug("routing decision", "category", c.Category, "band", confidenceBand(c.Confidence),
		"hybrid", d.UseHybrid, "reason", d.Reason)
	return d
}

func decide(c qaModel.Classification, question string, followUp qaModel.FollowUpInfo) qaModel.RoutingDecision {
	if c.IsHigh() {
		return single(c.Category, ReasonHighConfidence)
	}
	if followUp.IsFollowUp && followUp.PreviousCategory != "" && followUp.PreviousCategory != c.Category {
		return hybrid(ReasonFollowUp, c.Category, followUp.PreviousCategory)
	}
	if c.IsUncertain() {
		ql := strings.ToLower(question)
		if c.Category == qaModel.PDFContent && containsAny(ql, explanatoryTriggers) {
			return hybrid(ReasonContentGeneral, qaModel.PDFContent, qaModel.General)
		}
		if c.Category == qaModel.PDFMeta && containsAny(ql, metaProbeTriggers) {
			return hybrid(ReasonMetaContent, qaModel.PDFMeta, qaModel.PDFContent)
		}
	}
	return single(c.Category, ReasonStandard)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

type part struct {
	category qaModel.Category
	resp     qaModel.Response
}

// GenerateHybrid runs each handler in order, skipping any that fail, and merges
// what succeeded.
func (r *Router) GenerateHybrid(ctx context.Context, handlers []qaModel.Category, req responders.Request, registry responders.Registry) qaModel.Response {
	log := r.logger.WithTrace(ctx)

	var parts []part
	for _, c := range handlers {
		h, ok := registry.For(c)
		if !ok {
			log.Warn("no handler registered", "category", c)
			continue
		}
		resp, err := h.Respond(ctx, req)
		if err != nil {
			log.Warn("hybrid handler failed", "category", c, "error", err)
			continue
		}
		parts = append(parts, part{category: c, resp: resp})
	}

	if len(parts) == 0 {
		return qaModel.Response{
			Answer:       "I encountered an error generating a hybrid response.",
			ResponseType: qaModel.TypeHybridError,
		}
	}
	return r.synthesize(ctx, parts, req)
}

func (r *Router) synthesize(ctx context.Context, parts []part, req responders.Request) qaModel.Response {
	var sources []string
	used := make([]qaModel.Category, 0, len(parts))
	for _, p := range parts {
		sources = append(sources, p.resp.Sources...)
		used = append(used, p.category)
	}

	if r.llm != nil {
		prompt := synthesisPrompt(parts, req)
		for attempt := 1; attempt <= synthesisAttempts; attempt++ {
			answer, err := r.llm.Generate(ctx, prompt)
			if err == nil {
				return qaModel.Response{
					Answer:           answer,
					ResponseType:     qaModel.TypeHybridSynthesized,
					Sources:          sources,
					HandlersUsed:     used,
					SynthesisQuality: qaModel.SynthesisLLMGenerated,
				}
			}
			r.logger.WithTrace(ctx).Warn("hybrid synthesis failed", "attempt", attempt, "error", err)
			metrics.IncrementGenerationFailure("hybrid_synthesis")
			if ctx.Err() != nil {
				break
			}
		}
	}

	answers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.resp.Answer != "" {
			answers = append(answers, fmt.Sprintf("**%s**: %s", label(p.category), p.resp.Answer))
		}
	}
	return qaModel.Response{
		Answer:       strings.Join(answers, "\n\n"),
		ResponseType: qaModel.TypeHybridFallback,
		Sources:      sources,
		HandlersUsed: used,
	}
}

func synthesisPrompt(parts []part, req responders.Request) string {
	perspectives := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.resp.Answer != "" {
			perspectives = append(perspectives, fmt.Sprintf("**%s Response**: %s", label(p.category), p.resp.Answer))
		}
	}
	return fmt.Sprintf("You are %s, synthesizing multiple response perspectives into one coherent answer. "+
		"The user asked: '%s' about document '%s'. "+
		"I have responses from different analysis approaches. Combine them into a natural, helpful answer. "+
		"Avoid redundancy, maintain accuracy, and create a flowing response.\n\n"+
		"Multiple perspectives:\n%s\n\nSynthesized answer:",
		req.System.SystemName, req.Question, req.Doc.FilenameOr("uploaded document"), strings.Join(perspectives, "\n\n"))
}

// label turns PDF_CONTENT into "Pdf Content".
func label(c qaModel.Category) string {
	words := strings.Split(strings.ToLower(string(c)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func confidenceBand(confidence float64) string {
	switch {
	case confidence >= config.ConfidenceHigh:
		return "high"
	case confidence >= config.ConfidenceMedium:
		return "medium"
	case confidence >= config.ConfidenceLow:
		return "low"
	default:
		return "very_low"
	}
}

package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/internal/rag/llm"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

var errNoJSON = errors.New("no JSON object in classifier output")

type Classifier struct {
	llm    llm.Provider
	logger *logger_i.Logger
	now    func() time.Time
}

// New returns a classifier. A nil provider classifies by rules only.
func New(provider llm.Provider) *Classifier {
	return &Classifier{
		llm:    provider,
		logger: logger_i.NewLogger("classifier"),
		now:    time.Now,
	}
}

// Classify never fails: any model or parse problem falls back to the rules.
func (c *Classifier) Classify(ctx context.Context, question string, doc qaModel.DocContext) qaModel.Classification {
	result := c.classify(ctx, question, doc)
	metrics.IncrementClassification(string(result.Category))
	return result
}

func (c *Classifier) classify(ctx context.Context, question string, doc qaModel.DocContext) qaModel.Classification {
	if c.llm == nil {
		return RuleBased(question)
	}
	log := c.logger.WithTrace(ctx)

	raw, err := c.llm.Generate(ctx, c.prompt(question, doc))
	if err != nil {
		log.Warn("model classification failed, using rules", "error", err)
		metrics.IncrementClassificationFallback()
		return RuleBased(question)
	}
	result, err := parseClassification(raw)
	if err != nil {
		log.Warn("could not parse model classification, using rules", "error", err)
		metrics.IncrementClassificationFallback()
		return RuleBased(question)
	}
	return result
}

// parseClassification reads the text between the first '{' and the last '}'.
func parseClassification(raw string) (qaModel.Classification, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return qaModel.Classification{}, errNoJSON
	}

	var body struct {
		Category   string          `json:"category"`
		Confidence json.RawMessage `json:"confidence"`
		Reasoning  string          `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &body); err != nil {
		return qaModel.Classification{}, fmt.Errorf("decode classification: %w", err)
	}

	category, ok := qaModel.ParseCategory(body.Category)
	if !ok {
		return qaModel.Classification{}, fmt.Errorf("unknown category %q", body.Category)
	}
	var confidence float64
	if string(body.Confidence) == "null" {
		return qaModel.Classification{}, errors.New("confidence is null")
	}
	if err := json.Unmarshal(body.Confidence, &confidence); err != nil {
		return qaModel.Classification{}, fmt.Errorf("confidence is not a number: %s", body.Confidence)
	}
	if confidence < 0 || confidence > 1 {
		return qaModel.Classification{}, fmt.Errorf("confidence %v out of range", confidence)
	}
	return qaModel.Classification{Category: category, Confidence: confidence, Reasoning: body.Reasoning}, nil
}

func (c *Classifier) prompt(question string, doc qaModel.DocContext) string {
	var b strings.Builder
	b.WriteString("You are an expert question classifier for a PDF document Q&A system. \n\n")
	b.WriteString("CLASSIFICATION CATEGORIES:\n")
	for i, cat := range qaModel.Categories {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s: %s", cat.Category, cat.Description)
	}
	b.WriteString("\n\nTASK: Classify the user's question into ONE category and provide a confidence score (0.0-1.0).\n\n")
	b.WriteString("CONTEXT:\n")
	b.WriteString("- System: DocSpotlight (PDF document analysis assistant)\n")
	fmt.Fprintf(&b, "- %s\n", documentLine(doc))
	fmt.Fprintf(&b, "- Current date: %s\n\n", c.now().Format("January 02, 2006"))
	fmt.Fprintf(&b, "QUESTION: \"%s\"\n\n", question)
	b.WriteString(promptFormat)
	return b.String()
}

func documentLine(doc qaModel.DocContext) string {
	switch {
	case doc.Filename != "":
		return fmt.Sprintf("Current document: %s (%d pages)", doc.Filename, doc.PagesCount)
	case doc.CollectionId != "":
		return fmt.Sprintf("Current collection: %s (%d documents)", doc.CollectionId, doc.DocumentCount)
	default:
		return "No document currently uploaded"
	}
}

const promptFormat = `Respond in this exact JSON format:
{
    "category": "CATEGORY_NAME",
    "confidence": 0.0-1.0,
    "reasoning": "Brief explanation of why this category was chosen"
}

Examples:
- "What does the document say about climate change?" → {"category": "PDF_CONTENT", "confidence": 0.95, "reasoning": "Asking about specific content within the document"}
- "What's today's date?" → {"category": "GENERAL", "confidence": 0.9, "reasoning": "General knowledge question about current date"}
- "What's the name of this PDF?" → {"category": "PDF_META", "confidence": 0.95, "reasoning": "Asking about document metadata/properties"}
- "Who are you?" → {"category": "PERSONAL", "confidence": 0.9, "reasoning": "Asking about the AI assistant's identity"}
- "Hello there!" → {"category": "CONVERSATIONAL", "confidence": 0.85, "reasoning": "Casual greeting/small talk"}

Classification:`

package qaModel

import "github.com/akolanti/DocQA/internal/config"

// Category is the closed set of question intents.
type Category string

const (
	PDFContent     Category = "PDF_CONTENT"
	PDFMeta        Category = "PDF_META"
	General        Category = "GENERAL"
	Personal       Category = "PERSONAL"
	Conversational Category = "CONVERSATIONAL"
)

// Categories lists every category with the description used in classification prompts.
var Categories = []struct {
	Category    Category
	Description string
}{
	{PDFContent, "Questions about specific content, topics, or information within the uploaded PDF document"},
	{PDFMeta, "Questions about the PDF document itself - filename, pages, size, upload info, document properties"},
	{General, "General knowledge questions not related to the uploaded PDF - science, history, current events, explanations"},
	{Personal, "Questions about the AI assistant - identity, capabilities, how it works, what it can do"},
	{Conversational, "Casual conversation, greetings, thanks, small talk, social interactions"},
}

func (c Category) Valid() bool {
	switch c {
	case PDFContent, PDFMeta, General, Personal, Conversational:
		return true
	}
	return false
}

// ParseCategory returns the category and whether s named one.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}

type Classification struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

func (c Classification) IsHigh() bool {
	return c.Confidence >= config.ConfidenceHigh
}

// IsUncertain reports confidence in [LOW, HIGH).
func (c Classification) IsUncertain() bool {
	return c.Confidence >= config.ConfidenceLow && c.Confidence < config.ConfidenceHigh
}

type RoutingDecision struct {
	UseHybrid      bool       `json:"use_hybrid"`
	PrimaryHandler Category   `json:"primary_handler,omitempty"`
	Handlers       []Category `json:"handlers,omitempty"`
	Reason         string     `json:"reason"`
}

type FollowUpInfo struct {
	IsFollowUp       bool     `json:"is_follow_up"`
	PreviousCategory Category `json:"previous_type,omitempty"`
	PreviousQuestion string   `json:"previous_question,omitempty"`
	ContextTurns     int      `json:"context_turns,omitempty"`
}

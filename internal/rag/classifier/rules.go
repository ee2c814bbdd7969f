package classifier

import (
	"regexp"
	"strings"

	"github.com/akolanti/DocQA/internal/domain/qaModel"
)

type ruleGroup struct {
	category   qaModel.Category
	confidence float64
	reasoning  string
	patterns   []*regexp.Regexp
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// ruleGroups are checked in order; the first matching pattern wins.
var ruleGroups = []ruleGroup{
	{
		category:   qaModel.Conversational,
		confidence: 0.8,
		reasoning:  "Matched conversational patterns",
		patterns: compile(`^hi$`, `^hi[.! ]`, `^hello`, `^hey`, `^thanks`, `^thank you`,
			`^good (morning|afternoon|evening)`, `what's up`, `^sup$`),
	},
	{
		category:   qaModel.Personal,
		confidence: 0.8,
		reasoning:  "Matched personal/system inquiry patterns",
		patterns: compile(`^who are you`, `^what are you`, `^what can you do`,
			`^tell me about yourself`, `^what are your capabilities`),
	},
	{
		category:   qaModel.PDFMeta,
		confidence: 0.7,
		reasoning:  "Matched document metadata patterns",
		patterns: compile(`pdf name`, `document name`, `file name`, `how many pages`,
			`pages count`, `document info`, `pdf info`, `upload`),
	},
	{
		category:   qaModel.General,
		confidence: 0.6,
		reasoning:  "Matched general knowledge patterns",
		patterns: compile(`what's today`, `what is today`, `current date`, `today's date`,
			`what time`, `current time`, `explain`, `define`, `how does`,
			`what is.*\?$`, `why.*\?$`, `how.*\?$`),
	},
}

// RuleBased classifies without a language model.
func RuleBased(question string) qaModel.Classification {
	ql := strings.ToLower(strings.TrimSpace(question))
	for _, g := range ruleGroups {
		for _, p := range g.patterns {
			if p.MatchString(ql) {
				return qaModel.Classification{Category: g.category, Confidence: g.confidence, Reasoning: g.reasoning}
			}
		}
	}
	if len([]rune(ql)) > 10 && strings.Contains(question, "?") {
		return qaModel.Classification{Category: qaModel.PDFContent, Confidence: 0.5, Reasoning: "Default classification for substantial questions"}
	}
	return qaModel.Classification{Category: qaModel.Conversational, Confidence: 0.3, Reasoning: "Default fallback classification"}
}

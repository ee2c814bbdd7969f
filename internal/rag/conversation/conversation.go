// Package conversation keeps a short per-session memory of recent turns.
// It is a cache for follow-up detection, not the chat transcript of record.
package conversation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
)

var followUpPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(and|also|what about|how about)`),
	regexp.MustCompile(`(more|else|other)`),
	regexp.MustCompile(`(elaborate|expand|explain)`),
	regexp.MustCompile(`(what else|anything else)`),
	regexp.MustCompile(`^(that|this|it)`),
	regexp.MustCompile(`(further|additional)`),
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string][]qaModel.Turn
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string][]qaModel.Turn),
		now:      time.Now,
	}
}

// RecordTurn appends a turn and keeps only the most recent MaxConversationTurns.
func (m *Manager) RecordTurn(sessionId, question string, category qaModel.Category, resp qaModel.Response, c qaModel.Classification) {
	turn := qaModel.Turn{
		Timestamp:      m.now(),
		Question:       question,
		Category:       category,
		ResponseType:   resp.ResponseType,
		Classification: c,
		AnswerPreview:  preview(resp.Answer),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	turns := append(m.sessions[sessionId], turn)
	if len(turns) > config.MaxConversationTurns {
		turns = append([]qaModel.Turn(nil), turns[len(turns)-config.MaxConversationTurns:]...)
	}
	m.sessions[sessionId] = turns
}

func preview(answer string) string {
	r := []rune(answer)
	if len(r) <= config.AnswerPreviewLength {
		return answer
	}
	return string(r[:config.AnswerPreviewLength]) + "..."
}

// Turns returns a copy of the session history, oldest first.
func (m *Manager) Turns(sessionId string) []qaModel.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]qaModel.Turn(nil), m.sessions[sessionId]...)
}

// GetRecentContext formats the last n turns as "question (category)" lines, oldest first.
func (m *Manager) GetRecentContext(sessionId string, n int) string {
	if n <= 0 {
		return ""
	}
	turns := m.Turns(sessionId)
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, fmt.Sprintf("%s (%s)", t.Question, t.Category))
	}
	return strings.Join(lines, "\n")
}

func (m *Manager) DetectFollowUp(question, sessionId string) qaModel.FollowUpInfo {
	m.mu.Lock()
	turns := m.sessions[sessionId]
	count := len(turns)
	var last qaModel.Turn
	if count > 0 {
		last = turns[count-1]
	}
	m.mu.Unlock()

	if count == 0 {
		return qaModel.FollowUpInfo{}
	}
	ql := strings.ToLower(strings.TrimSpace(question))
	for _, p := range followUpPatterns {
		if p.MatchString(ql) {
			return qaModel.FollowUpInfo{
				IsFollowUp:       true,
				PreviousCategory: last.Category,
				PreviousQuestion: last.Question,
				ContextTurns:     count,
			}
		}
	}
	return qaModel.FollowUpInfo{}
}

func (m *Manager) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

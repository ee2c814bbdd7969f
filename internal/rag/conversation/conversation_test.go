package conversation

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(m *Manager, session, question string, category qaModel.Category) {
	m.RecordTurn(session, question, category,
		qaModel.Response{Answer: "answer to " + question, ResponseType: "x"},
		qaModel.Classification{Category: category, Confidence: 0.9})
}

func TestRecordTurn_KeepsMostRecentTen(t *testing.T) {
	m := NewManager()
	for i := 0; i < 15; i++ {
		record(m, "s1", fmt.Sprintf("q%d", i), qaModel.PDFContent)
	}

	turns := m.Turns("s1")
	require.Len(t, turns, 10)
	for i, turn := range turns {
		assert.Equal(t, fmt.Sprintf("q%d", i+5), turn.Question)
	}
}

func TestRecordTurn_TruncatesPreview(t *testing.T) {
	m := NewManager()
	long := strings.Repeat("é", 150)
	m.RecordTurn("s1", "q", qaModel.General, qaModel.Response{Answer: long}, qaModel.Classification{})

	p := m.Turns("s1")[0].AnswerPreview
	assert.Equal(t, strings.Repeat("é", 100)+"...", p)
}

func TestGetRecentContext(t *testing.T) {
	m := NewManager()
	assert.Empty(t, m.GetRecentContext("s1", 3))

	record(m, "s1", "first", qaModel.Conversational)
	record(m, "s1", "second", qaModel.PDFMeta)
	record(m, "s1", "third", qaModel.PDFContent)
	record(m, "s1", "fourth", qaModel.General)

	assert.Equal(t, "second (PDF_META)\nthird (PDF_CONTENT)\nfourth (GENERAL)", m.GetRecentContext("s1", 3))
	assert.Empty(t, m.GetRecentContext("s1", 0))
}

func TestDetectFollowUp(t *testing.T) {
	m := NewManager()
	assert.False(t, m.DetectFollowUp("tell me more", "s1").IsFollowUp, "no history")

	record(m, "s1", "what is the budget?", qaModel.PDFContent)
	record(m, "s1", "how many pages?", qaModel.PDFMeta)

	info := m.DetectFollowUp("Tell me more", "s1")
	assert.Equal(t, qaModel.FollowUpInfo{
		IsFollowUp:       true,
		PreviousCategory: qaModel.PDFMeta,
		PreviousQuestion: "how many pages?",
		ContextTurns:     2,
	}, info)

	for _, q := range []string{"and the summary?", "What about chapter 2", "can you elaborate", "it is unclear", "any additional notes"} {
		assert.True(t, m.DetectFollowUp(q, "s1").IsFollowUp, q)
	}
	assert.False(t, m.DetectFollowUp("Who wrote the report?", "s1").IsFollowUp)
	assert.False(t, m.DetectFollowUp("tell me more", "other-session").IsFollowUp)
}

func TestRecordTurn_ConcurrentAppendsAreNotLost(t *testing.T) {
	m := NewManager()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record(m, fmt.Sprintf("s%d", i), "q", qaModel.General)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, m.SessionCount())
	for i := 0; i < 8; i++ {
		assert.Len(t, m.Turns(fmt.Sprintf("s%d", i)), 1)
	}
}

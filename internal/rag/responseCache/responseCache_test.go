package responseCache

import (
	"fmt"
	"testing"
	"time"

	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache() (*Cache, *clock) {
	clk := &clock{t: time.Unix(1_000_000, 0)}
	c := New()
	c.now = clk.now
	return c, clk
}

func TestGetAfterPut(t *testing.T) {
	c, _ := newTestCache()
	resp := qaModel.Response{Answer: "a", ResponseType: qaModel.TypeContent, Sources: []string{"s1"}}

	require.True(t, c.Put("What is X?", "d1", qaModel.PDFContent, resp))

	got, ok := c.Get("  what is x?  ", "d1", qaModel.PDFContent)
	require.True(t, ok, "key normalizes case and whitespace")
	assert.Equal(t, resp, got)

	_, ok = c.Get("What is X?", "d2", qaModel.PDFContent)
	assert.False(t, ok)
	_, ok = c.Get("What is X?", "d1", qaModel.General)
	assert.False(t, ok)
}

func TestStoredCopyIsIsolated(t *testing.T) {
	c, _ := newTestCache()
	resp := qaModel.Response{Answer: "a", ResponseType: qaModel.TypeContent, Sources: []string{"s1"}}
	c.Put("q", "d1", qaModel.PDFContent, resp)

	resp.Sources[0] = "mutated"
	got, _ := c.Get("q", "d1", qaModel.PDFContent)
	assert.Equal(t, "s1", got.Sources[0])

	got.Sources[0] = "mutated again"
	again, _ := c.Get("q", "d1", qaModel.PDFContent)
	assert.Equal(t, "s1", again.Sources[0])
}

func TestExpiryIsLazy(t *testing.T) {
	c, clk := newTestCache()
	c.Put("q", "d1", qaModel.PDFContent, qaModel.Response{ResponseType: qaModel.TypeContent})

	clk.t = clk.t.Add(59 * time.Minute)
	_, ok := c.Get("q", "d1", qaModel.PDFContent)
	assert.True(t, ok)

	clk.t = clk.t.Add(2 * time.Minute)
	assert.Equal(t, 1, c.Len(), "no background sweep")
	_, ok = c.Get("q", "d1", qaModel.PDFContent)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestUncacheableTypes(t *testing.T) {
	c, _ := newTestCache()
	assert.False(t, c.Put("hi", "", qaModel.Conversational, qaModel.Response{ResponseType: qaModel.TypeConversational}))
	assert.False(t, c.Put("who", "", qaModel.Personal, qaModel.Response{ResponseType: qaModel.TypePersonal}))
	assert.Equal(t, 0, c.Len())
}

func TestEvictsOldestWhenOverCapacity(t *testing.T) {
	c, clk := newTestCache()
	for i := 0; i < 1001; i++ {
		clk.t = clk.t.Add(time.Second)
		c.Put(fmt.Sprintf("q%d", i), "d", qaModel.PDFContent, qaModel.Response{ResponseType: qaModel.TypeContent})
	}

	assert.Equal(t, 801, c.Len())
	_, ok := c.Get("q199", "d", qaModel.PDFContent)
	assert.False(t, ok)
	_, ok = c.Get("q200", "d", qaModel.PDFContent)
	assert.True(t, ok)
}

func TestClear(t *testing.T) {
	c, _ := newTestCache()
	c.Put("q", "d", qaModel.PDFContent, qaModel.Response{ResponseType: qaModel.TypeContent})
	assert.Equal(t, 1, c.Clear())
	assert.Equal(t, 0, c.Len())
}

func TestKeyIsStable(t *testing.T) {
	assert.Equal(t, Key("Hello", "d", qaModel.General), Key(" hello ", "d", qaModel.General))
	assert.Len(t, Key("x", "y", qaModel.General), 32)
}

package qaModel

import "time"

type SystemContext struct {
	CurrentDate  string   `json:"current_date"`
	CurrentTime  string   `json:"current_time"`
	SystemName   string   `json:"system_name"`
	Capabilities []string `json:"capabilities"`
	Version      string   `json:"version"`
}

// DocContext describes the question target. Document fields and collection fields are exclusive.
type DocContext struct {
	DocumentId  string  `json:"document_id,omitempty"`
	Filename    string  `json:"filename,omitempty"`
	PagesCount  int     `json:"pages_count,omitempty"`
	ChunksCount int     `json:"chunks_count,omitempty"`
	UploadTime  string  `json:"upload_time,omitempty"`
	FileSizeKB  float64 `json:"file_size_kb,omitempty"`

	CollectionId  string `json:"collection_id,omitempty"`
	DocumentCount int    `json:"document_count,omitempty"`
	TotalChunks   int    `json:"total_chunks,omitempty"`
}

func (d DocContext) IsEmpty() bool {
	return d.DocumentId == "" && d.CollectionId == ""
}

// FilenameOr returns the filename, or fallback when no document is bound.
func (d DocContext) FilenameOr(fallback string) string {
	if d.Filename == "" {
		return fallback
	}
	return d.Filename
}

type Turn struct {
	Timestamp      time.Time      `json:"timestamp"`
	Question       string         `json:"question"`
	Category       Category       `json:"category"`
	ResponseType   string         `json:"response_type"`
	Classification Classification `json:"classification"`
	AnswerPreview  string         `json:"response_preview"`
}

// Target is the document or collection a question is bound to. Both empty means no target.
type Target struct {
	DocId        string
	CollectionId string
}

func (t Target) Id() string {
	if t.DocId != "" {
		return t.DocId
	}
	return t.CollectionId
}

func (t Target) IsCollection() bool {
	return t.DocId == "" && t.CollectionId != ""
}

type ChatRequest struct {
	Question     string `json:"question"`
	DocId        string `json:"doc_id,omitempty"`
	CollectionId string `json:"collection_id,omitempty"`
	SessionId    string `json:"session_id,omitempty"`
	EnableCache  bool   `json:"enable_cache"`
	MaxSources   int    `json:"max_sources"`
}

func (r ChatRequest) Target() Target {
	return Target{DocId: r.DocId, CollectionId: r.CollectionId}
}

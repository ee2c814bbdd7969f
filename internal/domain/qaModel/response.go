package qaModel

import (
	"time"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
)

const (
	TypeConversational          = "conversational"
	TypePersonal                = "personal"
	TypeMetaFilename            = "pdf_meta_filename"
	TypeMetaPages               = "pdf_meta_pages"
	TypeMetaUpload              = "pdf_meta_upload"
	TypeMetaGeneral             = "pdf_meta_general"
	TypeGeneral                 = "general"
	TypeContent                 = "pdf_content"
	TypeContentNotFound         = "pdf_content_not_found"
	TypeContentError            = "pdf_content_error"
	TypeContentNoDocument       = "pdf_content_no_document"
	TypeMultiDocContent         = "multi_document_content"
	TypeMultiDocNotFound        = "multi_doc_not_found"
	TypeMultiDocError           = "multi_doc_error"
	TypeMultiDocFallback        = "multi_document_fallback"
	TypeMultiDocSimple          = "multi_document_simple"
	TypeMultiDocFallbackMissing = "multi_doc_fallback_not_found"
	TypeCollectionError         = "collection_error"
	TypeHybridSynthesized       = "hybrid_synthesized"
	TypeHybridFallback          = "hybrid_fallback"
	TypeHybridError             = "hybrid_error"
	TypeHandlerError            = "handler_error"

	SuggestionGeneralKnowledge = "general_knowledge"
	SynthesisLLMGenerated      = "llm_generated"
)

// uncacheable response types are cheap and session or time sensitive
var uncacheable = map[string]bool{
	TypeConversational: true,
	TypePersonal:       true,
}

func Cacheable(responseType string) bool {
	return !uncacheable[responseType]
}

type DocumentInfo struct {
	Filename   string `json:"filename"`
	Pages      int    `json:"pages"`
	ChunksUsed int    `json:"chunks_used"`
}

type MultiDocSource struct {
	Text     string  `json:"text"`
	DocId    string  `json:"doc_id"`
	Filename string  `json:"filename"`
	Distance float32 `json:"distance"`
}

type DocumentResult struct {
	DocId    string   `json:"doc_id"`
	Filename string   `json:"filename"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
}

type CollectionInfo struct {
	CollectionId      string `json:"collection_id"`
	DocumentCount     int    `json:"document_count,omitempty"`
	DocumentsSearched int    `json:"documents_searched,omitempty"`
	DocumentsFound    int    `json:"documents_found,omitempty"`
	SourcesFound      int    `json:"sources_found,omitempty"`
}

type Response struct {
	Answer            string                  `json:"answer"`
	ResponseType      string                  `json:"response_type"`
	Sources           []string                `json:"sources,omitempty"`
	Suggestion        string                  `json:"suggestion,omitempty"`
	DocumentInfo      *DocumentInfo           `json:"document_info,omitempty"`
	MultiDocSources   []MultiDocSource        `json:"multi_doc_sources,omitempty"`
	DocumentResults   []DocumentResult        `json:"document_results,omitempty"`
	CollectionInfo    *CollectionInfo         `json:"collection_info,omitempty"`
	HandlersUsed      []Category              `json:"handlers_used,omitempty"`
	SynthesisQuality  string                  `json:"synthesis_quality,omitempty"`
	EnhancedCitations []commonModels.Citation `json:"enhanced_citations,omitempty"`

	Classification   *Classification  `json:"classification,omitempty"`
	SessionId        string           `json:"session_id,omitempty"`
	FollowUpDetected bool             `json:"follow_up_detected"`
	RoutingDecision  *RoutingDecision `json:"routing_decision,omitempty"`
	ConversationTurn int              `json:"conversation_turn"`
	Timestamp        time.Time        `json:"timestamp"`
	DocId            string           `json:"doc_id,omitempty"`
	CollectionId     string           `json:"collection_id,omitempty"`
	Cached           bool             `json:"cached"`
}

// Clone returns a deep copy so cached snapshots never alias a live response.
func (r Response) Clone() Response {
	c := r
	c.Sources = cloneSlice(r.Sources)
	c.MultiDocSources = cloneSlice(r.MultiDocSources)
	c.HandlersUsed = cloneSlice(r.HandlersUsed)
	c.EnhancedCitations = cloneSlice(r.EnhancedCitations)
	if r.DocumentResults != nil {
		c.DocumentResults = make([]DocumentResult, len(r.DocumentResults))
		for i, d := range r.DocumentResults {
			d.Sources = cloneSlice(d.Sources)
			c.DocumentResults[i] = d
		}
	}
	if r.DocumentInfo != nil {
		info := *r.DocumentInfo
		c.DocumentInfo = &info
	}
	if r.CollectionInfo != nil {
		info := *r.CollectionInfo
		c.CollectionInfo = &info
	}
	if r.Classification != nil {
		cl := *r.Classification
		c.Classification = &cl
	}
	if r.RoutingDecision != nil {
		rd := *r.RoutingDecision
		rd.Handlers = cloneSlice(r.RoutingDecision.Handlers)
		c.RoutingDecision = &rd
	}
	return c
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

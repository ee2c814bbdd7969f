package commonModels

import (
	"path/filepath"
	"strings"
	"time"
)

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"

// DocTypeFromName maps a file name to the extractor family that can read it.
func DocTypeFromName(name string) DocType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return PDF
	case ".docx", ".rtf", ".odt":
		return DOCX
	case ".txt", ".md":
		return TXT
	default:
		return ERR
	}
}

type DocumentMetadata struct {
	Filename    string    `json:"filename"`
	PagesCount  int       `json:"pages_count"`
	UploadTime  time.Time `json:"upload_time"`
	FileSizeKB  float64   `json:"file_size_kb"`
	ContentType DocType   `json:"content_type"`
}

// DocumentSummary is the listing view of a stored document.
type DocumentSummary struct {
	DocId      string    `json:"doc_id"`
	Filename   string    `json:"filename"`
	Pages      int       `json:"pages"`
	UploadTime time.Time `json:"upload_time"`
	FileSizeKB float64   `json:"file_size_kb"`
	Chunks     int       `json:"chunks"`
}

type Position string

const (
	PositionTop     Position = "top"
	PositionMiddle  Position = "middle"
	PositionBottom  Position = "bottom"
	PositionUnknown Position = "unknown"
)

// ChunkMetadata is the estimated location of one chunk. Page and position are heuristics.
type ChunkMetadata struct {
	ChunkId     int      `json:"chunk_id"`
	PageNumber  int      `json:"page_number"`
	Position    Position `json:"position"`
	ChunkLength int      `json:"chunk_length"`
	Preview     string   `json:"preview"`
}

type Citation struct {
	Text           string   `json:"text"`
	Page           int      `json:"page"`
	Position       Position `json:"position"`
	ChunkId        int      `json:"chunk_id"`
	RelevanceScore float64  `json:"relevance_score"`
}

// DocumentRecord is what survives a restart: metadata plus where the raw bytes live.
type DocumentRecord struct {
	DocId      string           `json:"doc_id"`
	Metadata   DocumentMetadata `json:"metadata"`
	BlobHandle string           `json:"blob_handle"`
}

package responders

import (
	"context"
	"fmt"
	"strings"

	"github.com/akolanti/DocQA/internal/domain/qaModel"
)

var (
	filenamePhrases = []string{"pdf name", "document name", "file name"}
	pagesPhrases    = []string{"pages", "page count", "how many pages"}
	uploadPhrases   = []string{"upload", "when", "time"}
	datePhrases     = []string{"today", "date", "current date"}
)

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func (h *Handlers) Conversational(ctx context.Context, req Request) (qaModel.Response, error) {
	name := req.System.SystemName
	answer := fmt.Sprintf("Hi! I'm %s. How can I help you with your documents today?", name)
	if h.llm != nil {
		prompt := fmt.Sprintf("You are %s, a friendly and helpful PDF assistant. Today is %s. "+
			"Respond naturally to the user's casual conversation or greeting. "+
			"Keep it warm, concise (1-2 sentences), and professional.\n\nUser: %s\nAssistant:",
			name, req.System.CurrentDate, req.Question)
		var ok bool
		if answer, ok = h.generate(ctx, "conversational", prompt); !ok {
			answer = fmt.Sprintf("Hello! I'm %s, ready to help you with your PDF documents.", name)
		}
	}
	return qaModel.Response{Answer: answer, ResponseType: qaModel.TypeConversational}, nil
}

func (h *Handlers) Personal(ctx context.Context, req Request) (qaModel.Response, error) {
	name := req.System.SystemName
	caps := strings.Join(req.System.Capabilities, ", ")
	answer := fmt.Sprintf("I'm %s, an AI assistant that can help you with: %s. Upload a PDF and ask me anything about it!", name, caps)
	if h.llm != nil {
		prompt := fmt.Sprintf("You are %s, an AI assistant for PDF document analysis. "+
			"Your capabilities include: %s. Current version: %s. "+
			"Answer the user's question about your identity, capabilities, or how you work. "+
			"Be helpful, accurate, and concise.\n\nUser: %s\nAssistant:",
			name, caps, req.System.Version, req.Question)
		var ok bool
		if answer, ok = h.generate(ctx, "personal", prompt); !ok {
			answer = fmt.Sprintf("I'm %s, an AI assistant specialized in PDF document analysis. I can help you with: %s.", name, caps)
		}
	}
	return qaModel.Response{Answer: answer, ResponseType: qaModel.TypePersonal}, nil
}

// PDFMeta answers filename, page and upload questions straight from metadata.
func (h *Handlers) PDFMeta(ctx context.Context, req Request) (qaModel.Response, error) {
	ql := strings.ToLower(strings.TrimSpace(req.Question))
	doc := req.Doc

	switch {
	case containsAny(ql, filenamePhrases):
		return qaModel.Response{
			Answer:       fmt.Sprintf("The current document is: **%s**", doc.FilenameOr("No document uploaded")),
			ResponseType: qaModel.TypeMetaFilename,
		}, nil
	case containsAny(ql, pagesPhrases):
		return qaModel.Response{
			Answer: fmt.Sprintf("**%s** has **%d pages** and is divided into **%d text chunks** for analysis.",
				doc.FilenameOr("the document"), doc.PagesCount, doc.ChunksCount),
			ResponseType: qaModel.TypeMetaPages,
		}, nil
	case containsAny(ql, uploadPhrases):
		upload := doc.UploadTime
		if upload == "" {
			upload = "Unknown"
		}
		return qaModel.Response{
			Answer:       fmt.Sprintf("Document uploaded: **%s** (Size: **%g KB**)", upload, doc.FileSizeKB),
			ResponseType: qaModel.TypeMetaUpload,
		}, nil
	}

	answer := "I can help you with document information. Please ask about the filename, page count, or upload details."
	if h.llm != nil && !doc.IsEmpty() {
		prompt := fmt.Sprintf("You are %s, answering questions about document metadata. "+
			"Current document: %s (%d pages, %d chunks, uploaded %s, %g KB). "+
			"Answer the user's question about the document properties.\n\nQuestion: %s\nAnswer:",
			req.System.SystemName, doc.FilenameOr("None"), doc.PagesCount, doc.ChunksCount,
			doc.UploadTime, doc.FileSizeKB, req.Question)
		var ok bool
		if answer, ok = h.generate(ctx, "pdf_meta", prompt); !ok {
			answer = "I can provide information about your uploaded document. What specific details would you like to know?"
		}
	}
	return qaModel.Response{Answer: answer, ResponseType: qaModel.TypeMetaGeneral}, nil
}

func (h *Handlers) General(ctx context.Context, req Request) (qaModel.Response, error) {
	var answer string
	if h.llm != nil {
		prompt := fmt.Sprintf("You are %s, a helpful AI assistant. Today is %s at %s. "+
			"Answer the user's general knowledge question accurately and concisely. "+
			"If you don't know something, say so honestly.\n\nQuestion: %s\nAnswer:",
			req.System.SystemName, req.System.CurrentDate, req.System.CurrentTime, req.Question)
		var ok bool
		if answer, ok = h.generate(ctx, "general", prompt); !ok {
			answer = "I'd be happy to help with general questions, but I'm currently having trouble accessing my knowledge base."
		}
	} else if containsAny(strings.ToLower(req.Question), datePhrases) {
		answer = fmt.Sprintf("Today is %s, and the current time is %s.", req.System.CurrentDate, req.System.CurrentTime)
	} else {
		answer = "I can help with general questions when my language model is available. Please try again or ask about your PDF document."
	}
	return qaModel.Response{Answer: answer, ResponseType: qaModel.TypeGeneral}, nil
}

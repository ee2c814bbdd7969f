package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/DocQA/internal/adapter"
	"github.com/akolanti/DocQA/internal/adapter/utils"
	"github.com/akolanti/DocQA/internal/api"
	"github.com/akolanti/DocQA/internal/data/blobStore"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/akolanti/DocQA/internal/rag/collection"
)

// ListDocumentsHandler godoc
// @Summary      List documents
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.DocumentListResponse
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	docs := engine().ListDocuments()
	writeJsonResponse(w, http.StatusOK, api.DocumentListResponse{Documents: docs, Count: len(docs)})
}

// GetDocumentFileHandler godoc
// @Summary      Download the original upload
// @Tags         Documents
// @Produce      application/octet-stream
// @Param        id   path      string  true  "Document ID"
// @Success      200
// @Failure      404  {object}  api.JobResponse "Unknown document"
// @Router       /pdf/{id} [get]
func GetDocumentFileHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	docId := utils.GetChiURLParam(r, "id")
	path, filename, err := engine().DocumentFile(docId)
	if err != nil {
		if qaModel.IsNotFound(err) || errors.Is(err, blobStore.ErrBlobNotFound) {
			WriteErrorResponse(w, http.StatusNotFound, docId, "Document not found")
			return
		}
		logRH.Error("Couldn't resolve document file", "docId", docId, "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, docId, "Storage error")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		WriteErrorResponse(w, http.StatusNotFound, docId, "Document not found")
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docId, "Storage error")
		return
	}

	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": filename}))
	http.ServeContent(w, r, filename, info.ModTime(), f)
}

// CreateCollectionHandler godoc
// @Summary      Create a collection
// @Description  Groups documents for cross-document questions. The same name and ordered ids always give the same collection id.
// @Tags         Collections
// @Accept       json
// @Produce      json
// @Param        request  body      api.CollectionRequest  true  "Name and ordered document ids"
// @Success      201  {object}  api.CollectionResponse
// @Failure      400  {object}  api.JobResponse "Missing name or documents"
// @Failure      404  {object}  api.JobResponse "Unknown document"
// @Router       /collections [post]
func CreateCollectionHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	defer r.Body.Close()

	var req api.CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}

	info, err := engine().CreateCollection(r.Context(), req.Name, req.DocIds)
	switch {
	case err == nil:
		writeJsonResponse(w, http.StatusCreated, adapter.ToCollectionResponse(info))
	case qaModel.IsNotFound(err):
		WriteErrorResponse(w, http.StatusNotFound, req.Name, err.Error())
	case errors.Is(err, collection.ErrNoDocuments):
		WriteErrorResponse(w, http.StatusBadRequest, req.Name, err.Error())
	default:
		logRH.Error("Couldn't create collection", "name", req.Name, "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, req.Name, "Could not create collection")
	}
}

// ListCollectionsHandler godoc
// @Summary      List collections
// @Tags         Collections
// @Produce      json
// @Success      200  {array}  api.CollectionResponse
// @Router       /collections [get]
func ListCollectionsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	infos := engine().ListCollections()
	out := make([]api.CollectionResponse, 0, len(infos))
	for _, info := range infos {
		out = append(out, adapter.ToCollectionResponse(info))
	}
	writeJsonResponse(w, http.StatusOK, out)
}

// GetCollectionHandler godoc
// @Summary      Get a collection
// @Tags         Collections
// @Produce      json
// @Param        id   path      string  true  "Collection ID"
// @Success      200  {object}  api.CollectionResponse
// @Failure      404  {object}  api.JobResponse "Unknown collection"
// @Router       /collections/{id} [get]
func GetCollectionHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	info, err := engine().GetCollection(id)
	if err != nil {
		WriteErrorResponse(w, http.StatusNotFound, id, "Collection not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToCollectionResponse(info))
}

// PerformanceHandler godoc
// @Summary      Performance snapshot
// @Description  Per-endpoint timings over the last samples, cache size and hits, error counts and store sizes.
// @Tags         Monitoring
// @Produce      json
// @Success      200  {object}  rag.PerformanceReport
// @Router       /performance [get]
func PerformanceHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	writeJsonResponse(w, http.StatusOK, engine().Performance())
}

// ClearCacheHandler godoc
// @Summary      Clear the response cache
// @Tags         Monitoring
// @Produce      json
// @Success      200  {object}  api.CacheClearResponse
// @Router       /cache/clear [post]
func ClearCacheHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	writeJsonResponse(w, http.StatusOK, api.CacheClearResponse{Cleared: engine().ClearCache()})
}

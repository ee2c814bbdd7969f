package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/akolanti/DocQA/internal/adapter"
	"github.com/akolanti/DocQA/internal/adapter/utils"
	"github.com/akolanti/DocQA/internal/api"
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

var logRH *logger_i.Logger

type newJobData struct {
	id               string
	chatId           string
	request          qaModel.ChatRequest
	isNewChat        bool
	traceId          string
	isDocumentIngest bool
	documentName     string
	docId            string
	blobHandle       string
}

// GetHandler godoc
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func GetHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ChatHandler godoc
// @Summary      Ask a question
// @Description  Validates the target document or collection, queues a question job and returns a job ID to track status.
// @Tags         Messaging
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest      true  "Question, optional target and optional chat ID"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data or chat ID"
// @Failure      404      {object}  api.JobResponse      "Unknown document or collection"
// @Router       /chat [post]
func ChatHandler(w http.ResponseWriter, request *http.Request) {

	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", request.RemoteAddr)
		return
	}

	var requestData api.ChatRequest
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logRH.Error("Couldn't close the Chat handler reader", "err", err)
		}
	}(request.Body)
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateChatRequest(requestData) {

		logRH.Warn("Bad Chat Request", "error", err, "chatId", requestData.ChatID)
		WriteErrorResponse(w, http.StatusBadRequest, requestData.ChatID, "Bad Request")
		return
	}

	chatRequest := adapter.ToChatRequest(requestData)
	if err := engine().ValidateTarget(chatRequest.Target()); err != nil {
		WriteErrorResponse(w, http.StatusNotFound, chatRequest.Target().Id(), err.Error())
		return
	}

	chatID := requestData.ChatID
	isNewChat := chatID == ""
	if isNewChat {
		chatID = utils.GetNewUUID()
		logRH.Debug(" New Chat request", "chatID", chatID)
	}

	queued, err := CreateNewJob(newJobData{
		id:        utils.GetNewUUID(),
		chatId:    chatID,
		request:   chatRequest,
		isNewChat: isNewChat,
		traceId:   traceFrom(request.Context()),
	})
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, chatID, "Could not start chat")
		return
	}
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(queued))
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a question or ingestion job. Completed question jobs carry the full answer.
// @Tags         Job Status
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	//use chi get the url id
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := validateId(idString, traceFrom(r.Context()))

	logRH.Debug("Get Status Request", "URL path", r.URL.Path)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// PostIngestHandler godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a PDF, DOCX, RTF or TXT file via multipart/form-data, stores it and queues an ingestion job. The document id is assigned immediately.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document       formData  file    true  "The file to upload"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job id and document id"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing fields or file too large"
// @Failure      415  {object}  api.JobResponse "Unsupported file type"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	docId, handle, err := engine().StageUpload(fileMetadata.Filename, fileReader)
	if err != nil {
		if errors.Is(err, qaModel.ErrUnsupportedDocument) {
			WriteErrorResponse(w, http.StatusUnsupportedMediaType, fileMetadata.Filename, "Only PDF, DOCX, RTF and TXT files are supported")
			return
		}
		logRH.Error("Couldn't store upload", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, fileMetadata.Filename, "Storage error")
		return
	}

	queued, err := CreateNewJob(newJobData{
		id:               utils.GetNewUUID(),
		traceId:          traceFrom(r.Context()),
		isDocumentIngest: true,
		documentName:     fileMetadata.Filename,
		docId:            docId,
		blobHandle:       handle,
	})
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docId, "Could not queue ingestion")
		return
	}
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(queued))
}

// GetHistoryHandler godoc
// @Summary      Chat transcript
// @Description  Returns the last five question and answer entries of a chat, newest first.
// @Tags         Messaging
// @Produce      json
// @Param        chatId   path      string  true  "Chat ID"
// @Success      200  {object}  api.HistoryResponse
// @Failure      404  {object}  api.JobResponse "Unknown chat"
// @Router       /chat/{chatId}/history [get]
func GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	chatId := utils.GetChiURLParam(r, "chatId")
	ctx := r.Context()
	messages := handlerInstance.service.MessageStore
	if chatId == "" || !messages.ValidateChatId(ctx, chatId) {
		WriteErrorResponse(w, http.StatusNotFound, chatId, "Chat not found")
		return
	}
	entries, err := messages.GetMessageHistory(ctx, chatId)
	if err != nil {
		logRH.Error("Couldn't read chat history", "chatId", chatId, "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, chatId, "Could not read history")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToHistoryResponse(chatId, entries))
}

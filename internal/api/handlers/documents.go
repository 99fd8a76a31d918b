package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/authctx"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/document"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/embedding"
)

const maxUploadBytes = 32 << 20

type DocumentHandler struct {
	svc        *document.Service
	embeddings *embedding.Service
}

func NewDocumentHandler(svc *document.Service, embeddings *embedding.Service) *DocumentHandler {
	return &DocumentHandler{svc: svc, embeddings: embeddings}
}

// Create starts a new lineage from pasted content. With async=true the
// response carries a pending document and analysis runs in the
// background.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title         string     `json:"title"`
		Content       string     `json:"content"`
		ContentFormat string     `json:"content_format"`
		GroupID       *uuid.UUID `json:"group_id"`
		Async         bool       `json:"async"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	doc, err := h.svc.CreateFromText(r.Context(), authctx.UserFromContext(r.Context()), document.CreateInput{
		Title:         body.Title,
		Content:       body.Content,
		ContentFormat: body.ContentFormat,
		GroupID:       body.GroupID,
		Async:         body.Async,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// Upload accepts a multipart form with a file field and starts a new
// lineage from the extracted text.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeBadRequest(w, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "file required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		writeBadRequest(w, "unreadable file")
		return
	}
	if len(data) > maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large"})
		return
	}

	var groupID *uuid.UUID
	if raw := r.FormValue("group_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeBadRequest(w, "invalid group_id")
			return
		}
		groupID = &id
	}

	fileType := header.Header.Get("Content-Type")
	if fileType == "" || fileType == "application/octet-stream" {
		fileType = extOf(header.Filename)
	}

	doc, err := h.svc.CreateFromUpload(r.Context(), authctx.UserFromContext(r.Context()), document.UploadInput{
		Title:    r.FormValue("title"),
		FileName: header.Filename,
		FileType: fileType,
		Data:     data,
		GroupID:  groupID,
		Async:    r.FormValue("async") == "true",
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	docID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	doc, err := h.svc.Get(r.Context(), authctx.UserFromContext(r.Context()), docID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	docs, err := h.svc.List(r.Context(), authctx.UserFromContext(r.Context()), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": docs, "count": len(docs)})
}

// CreateVersion appends a new version to the lineage of document {id}.
func (h *DocumentHandler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	docID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Title         string `json:"title"`
		Content       string `json:"content"`
		ContentFormat string `json:"content_format"`
		Async         bool   `json:"async"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	doc, err := h.svc.CreateVersion(r.Context(), authctx.UserFromContext(r.Context()), docID, document.CreateInput{
		Title:         body.Title,
		Content:       body.Content,
		ContentFormat: body.ContentFormat,
		Async:         body.Async,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	docID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	versions, err := h.svc.ListVersions(r.Context(), authctx.UserFromContext(r.Context()), docID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"versions": versions, "count": len(versions)})
}

func (h *DocumentHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	docID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	a, err := h.svc.GetAnalysis(r.Context(), authctx.UserFromContext(r.Context()), docID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *DocumentHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	docID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	m, err := h.svc.GetMetrics(r.Context(), authctx.UserFromContext(r.Context()), docID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *DocumentHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	docID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	sections, err := h.svc.ListSections(r.Context(), authctx.UserFromContext(r.Context()), docID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sections": sections, "count": len(sections)})
}

func (h *DocumentHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	docID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	suggestions, err := h.svc.ListSuggestions(r.Context(), authctx.UserFromContext(r.Context()), docID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions, "count": len(suggestions)})
}

// Similar returns the nearest other lineages by content embedding.
func (h *DocumentHandler) Similar(w http.ResponseWriter, r *http.Request) {
	docID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	// Access is checked the same way as any document read.
	if _, err := h.svc.Get(r.Context(), authctx.UserFromContext(r.Context()), docID); err != nil {
		writeError(w, r, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.embeddings.SimilarDocuments(r.Context(), docID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results, "count": len(results)})
}

// Reanalyze queues a fresh model pass for the document.
func (h *DocumentHandler) Reanalyze(w http.ResponseWriter, r *http.Request) {
	docID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.RequestReanalysis(r.Context(), authctx.UserFromContext(r.Context()), docID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeBadRequest(w, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func extOf(filename string) string {
	for i := len(filename) - 1; i >= 0; i-- {
		if filename[i] == '.' {
			return filename[i:]
		}
	}
	return ""
}

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sort"

	"github.com/lehigh-university-libraries/converter/internal/imagepdf"
	"github.com/lehigh-university-libraries/converter/internal/intake"
	"github.com/lehigh-university-libraries/converter/internal/models"
)

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.sessionStore.Create()
	slog.Info("Session created", "session_id", session.ID)
	h.writeJSONStatus(w, http.StatusCreated, toSessionView(session))
}

func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.sessionStore.GetAll()
	sessionList := make([]models.ConversionSession, 0, len(sessions))
	for _, session := range sessions {
		sessionList = append(sessionList, toSessionView(session))
	}
	sort.Slice(sessionList, func(i, j int) bool {
		return sessionList[i].CreatedAt.Before(sessionList[j].CreatedAt)
	})
	h.writeJSON(w, sessionList)
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	session, exists := h.sessionStore.Get(r.PathValue("id"))
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, toSessionView(session))
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if _, exists := h.sessionStore.Get(sessionID); !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	h.sessionStore.Delete(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddImages appends a multipart batch to the session's working list.
// Files that are not PNG or WEBP are skipped without failing the request.
func (h *Handler) HandleAddImages(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.uploadError(w, err)
		return
	}

	headers := append(r.MultipartForm.File["files"], r.MultipartForm.File["file"]...)
	uploads := make([]intake.Upload, 0, len(headers))
	for _, header := range headers {
		upload, err := readUpload(header)
		if err != nil {
			h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusBadRequest)
			return
		}
		uploads = append(uploads, upload)
	}

	kept := intake.FilterImages(uploads)
	images := make([]imagepdf.SourceImage, 0, len(kept))
	for _, u := range kept {
		images = append(images, imagepdf.SourceImage{Name: u.Name, MIMEType: u.MIMEType, Data: u.Data})
	}

	added, total, err := h.sessionStore.AddImages(sessionID, images)
	if err != nil {
		h.storeError(w, err)
		return
	}

	result := models.IntakeResult{
		SessionID: sessionID,
		Added:     make([]models.ImageItem, 0, len(added)),
		Skipped:   len(uploads) - len(kept),
		Total:     total,
	}
	for _, img := range added {
		result.Added = append(result.Added, toImageItem(img))
	}

	slog.Info("Images added", "session_id", sessionID, "added", len(added), "skipped", result.Skipped, "total", result.Total)
	h.writeJSON(w, result)
}

func (h *Handler) HandleRemoveImage(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionStore.RemoveImage(r.PathValue("id"), r.PathValue("imageID")); err != nil {
		h.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleClearImages(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionStore.Clear(r.PathValue("id")); err != nil {
		h.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) uploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.writeError(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}
	h.writeError(w, "Failed to parse upload: "+err.Error(), http.StatusBadRequest)
}

// readUpload reads one multipart file. The declared type wins; names are
// only consulted when the client sent none or a generic octet-stream.
func readUpload(header *multipart.FileHeader) (intake.Upload, error) {
	file, err := header.Open()
	if err != nil {
		return intake.Upload{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return intake.Upload{}, err
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		if guessed := intake.MIMEFromName(header.Filename); guessed != "" {
			mimeType = guessed
		}
	}
	return intake.Upload{Name: header.Filename, MIMEType: mimeType, Data: data}, nil
}

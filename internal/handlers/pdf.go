package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/lehigh-university-libraries/converter/internal/imagepdf"
	"github.com/lehigh-university-libraries/converter/internal/journal"
)

// HandleAssemblePDF renders the session's working list, one image per page.
// An empty list is answered with 204 and no document.
func (h *Handler) HandleAssemblePDF(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	lang := h.requestLanguage(r)

	orientation, err := imagepdf.ParseOrientation(r.URL.Query().Get("orientation"))
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	images, release, err := h.sessionStore.Acquire(sessionID)
	if err != nil {
		h.storeError(w, err)
		return
	}
	defer release()

	start := time.Now()
	entry := journal.Entry{Feature: "images", Language: string(lang), Pages: len(images)}
	for _, img := range images {
		entry.Bytes += len(img.Data)
	}

	doc, err := h.assembler.Assemble(r.Context(), images, orientation)
	entry.Duration = time.Since(start)
	if err != nil {
		entry.Status, entry.Error = journal.StatusFailed, err.Error()
		h.history.Record(entry)
		slog.Error("PDF assembly failed", "session_id", sessionID, "err", err)
		h.writeError(w, h.t(lang, "imageToPdf.errorAlert"), http.StatusInternalServerError)
		return
	}
	if doc == nil {
		entry.Status = journal.StatusEmpty
		h.history.Record(entry)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	entry.Status, entry.FileName, entry.MIMEType = journal.StatusSucceeded, doc.Filename, "application/pdf"
	h.history.Record(entry)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	if _, err := w.Write(doc.Data); err != nil {
		slog.Error("Unable to write PDF response", "session_id", sessionID, "err", err)
	}
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/converter/internal/bridge"
	"github.com/lehigh-university-libraries/converter/internal/intake"
	"github.com/lehigh-university-libraries/converter/internal/journal"
)

// translation keys per feature: the select-file precondition and the failure prefix
var featureKeys = map[bridge.Feature]struct{ selectFile, failed string }{
	bridge.FeatureLatex:  {"pdfToLatex.errorSelectFile", "pdfToLatex.errorConversionFailed"},
	bridge.FeatureSolver: {"latexSolver.errorSelectFile", "latexSolver.errorGenerationFailed"},
}

func (h *Handler) HandleLatex(w http.ResponseWriter, r *http.Request) {
	h.handleDocument(w, r, bridge.FeatureLatex)
}

func (h *Handler) HandleSolve(w http.ResponseWriter, r *http.Request) {
	h.handleDocument(w, r, bridge.FeatureSolver)
}

func (h *Handler) handleDocument(w http.ResponseWriter, r *http.Request, feature bridge.Feature) {
	keys := featureKeys[feature]

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || !errors.Is(err, http.ErrNotMultipart) {
			h.uploadError(w, err)
			return
		}
	}
	lang := h.requestLanguage(r)

	var uploads []intake.Upload
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["file"] {
			upload, err := readUpload(header)
			if err != nil {
				h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusBadRequest)
				return
			}
			uploads = append(uploads, upload)
		}
	}

	upload, ok := intake.SelectDocument(uploads)
	if !ok {
		h.writeError(w, h.t(lang, keys.selectFile), http.StatusBadRequest)
		return
	}

	entry := journal.Entry{
		Feature:  string(feature),
		Language: string(lang),
		FileName: upload.Name,
		MIMEType: upload.MIMEType,
		Bytes:    len(upload.Data),
		Provider: h.bridge.Provider(),
		Model:    h.bridge.Model(),
	}
	if !intake.IsLaTeX(upload.MIMEType) {
		entry.Pages = intake.PDFPageCount(upload.Data)
	}

	start := time.Now()
	result, err := h.bridge.Convert(r.Context(), bridge.Request{
		Feature:  feature,
		Language: lang,
		File:     bridge.File{Name: upload.Name, MIMEType: upload.MIMEType, Data: upload.Data},
	})
	entry.Duration = time.Since(start)
	if err != nil {
		entry.Status, entry.Error = journal.StatusFailed, err.Error()
		h.history.Record(entry)

		message := h.t(lang, keys.failed) + " " + err.Error()
		switch {
		case errors.Is(err, bridge.ErrUnsupportedFile):
			h.writeError(w, h.t(lang, keys.selectFile), http.StatusBadRequest)
		case errors.Is(err, bridge.ErrMissingCredential):
			h.writeError(w, message, http.StatusServiceUnavailable)
		default:
			h.writeError(w, message, http.StatusBadGateway)
		}
		return
	}

	entry.Status = journal.StatusSucceeded
	h.history.Record(entry)

	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Type", "application/x-tex; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
		if _, err := w.Write([]byte(result.LaTeX)); err != nil {
			slog.Error("Unable to write LaTeX response", "err", err)
		}
		return
	}
	h.writeJSON(w, result)
}

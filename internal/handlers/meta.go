package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/converter/internal/journal"
)

func (h *Handler) HandleTranslations(w http.ResponseWriter, r *http.Request) {
	lang := h.requestLanguage(r)
	if h.catalog == nil {
		h.writeError(w, "Translations unavailable", http.StatusServiceUnavailable)
		return
	}
	h.writeJSON(w, map[string]any{
		"language": lang,
		"strings":  h.catalog.Tree(string(lang)),
	})
}

// HandleHistory lists recorded runs as JSON, or exports them with
// ?format=yaml or ?format=parquet.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	entries := h.history.List()

	var (
		buf         bytes.Buffer
		err         error
		contentType string
		filename    string
	)
	switch r.URL.Query().Get("format") {
	case "", "json":
		h.writeJSON(w, entries)
		return
	case "yaml":
		err = journal.WriteYAML(&buf, entries)
		contentType, filename = "application/yaml", "history.yaml"
	case "parquet":
		err = journal.WriteParquet(&buf, entries)
		contentType, filename = "application/vnd.apache.parquet", "history.parquet"
	default:
		h.writeError(w, "Invalid format. Must be 'json', 'yaml', or 'parquet'", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Unable to write history export", "err", err)
	}
}

func (h *Handler) HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Unable to write healthcheck", "err", err)
	}
}

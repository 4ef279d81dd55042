package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	_ "image/png"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/converter/internal/bridge"
	"github.com/lehigh-university-libraries/converter/internal/i18n"
	"github.com/lehigh-university-libraries/converter/internal/imagepdf"
	"github.com/lehigh-university-libraries/converter/internal/journal"
	"github.com/lehigh-university-libraries/converter/internal/models"
	"github.com/lehigh-university-libraries/converter/internal/storage"
	_ "golang.org/x/image/webp"
)

// DefaultMaxUpload caps request bodies when no limit is configured.
const DefaultMaxUpload = 10 << 20

type Handler struct {
	sessionStore *storage.SessionStore
	assembler    *imagepdf.Assembler
	bridge       *bridge.Service
	catalog      *i18n.Catalog
	history      *journal.Journal
	maxUpload    int64
	language     bridge.Language
}

// Options carries the collaborators a Handler serves.
type Options struct {
	Store     *storage.SessionStore
	Assembler *imagepdf.Assembler
	Bridge    *bridge.Service
	Catalog   *i18n.Catalog
	History   *journal.Journal
	MaxUpload int64
	Language  string
}

func New(opts Options) *Handler {
	h := &Handler{
		sessionStore: opts.Store,
		assembler:    opts.Assembler,
		bridge:       opts.Bridge,
		catalog:      opts.Catalog,
		history:      opts.History,
		maxUpload:    opts.MaxUpload,
		language:     bridge.ParseLanguage(opts.Language),
	}
	if h.sessionStore == nil {
		h.sessionStore = storage.New()
	}
	if h.catalog == nil {
		catalog, err := i18n.Load()
		if err != nil {
			slog.Error("Unable to load translations", "err", err)
		}
		h.catalog = catalog
	}
	if h.history == nil {
		h.history = journal.New(journal.DefaultCapacity)
	}
	if h.maxUpload <= 0 {
		h.maxUpload = DefaultMaxUpload
	}
	return h
}

// Store exposes the session store so the server can expire idle sessions.
func (h *Handler) Store() *storage.SessionStore {
	return h.sessionStore
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message, "status", code)
	} else {
		slog.Warn(message, "status", code)
	}
	h.writeJSONStatus(w, code, models.ErrorResponse{Error: message})
}

// storeError maps storage sentinels to status codes.
func (h *Handler) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		h.writeError(w, "Session not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrImageNotFound):
		h.writeError(w, "Image not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrBusy):
		h.writeError(w, err.Error(), http.StatusConflict)
	default:
		h.writeError(w, err.Error(), http.StatusInternalServerError)
	}
}

// requestLanguage prefers an explicit form or query value, then the
// Accept-Language header, then the configured default.
func (h *Handler) requestLanguage(r *http.Request) bridge.Language {
	for _, v := range []string{r.FormValue("language"), r.URL.Query().Get("lang")} {
		if v != "" {
			return bridge.ParseLanguage(v)
		}
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		return bridge.ParseLanguage(accept)
	}
	return h.language
}

func (h *Handler) t(lang bridge.Language, key string) string {
	if h.catalog == nil {
		return key
	}
	return h.catalog.T(string(lang), key)
}

func getImageDimensions(data []byte) (int, int, error) {
	img, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return img.Width, img.Height, nil
}

func toImageItem(img imagepdf.SourceImage) models.ImageItem {
	item := models.ImageItem{
		ID:       img.ID,
		Name:     img.Name,
		MIMEType: img.MIMEType,
		Size:     len(img.Data),
	}
	width, height, err := getImageDimensions(img.Data)
	if err != nil {
		slog.Debug("Failed to get image dimensions", "name", img.Name, "err", err)
	} else {
		item.ImageWidth, item.ImageHeight = width, height
	}
	return item
}

func toSessionView(s *storage.Session) models.ConversionSession {
	view := models.ConversionSession{
		ID:        s.ID,
		Images:    make([]models.ImageItem, 0, len(s.Images)),
		Busy:      s.Busy,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	for _, img := range s.Images {
		view.Images = append(view.Images, toImageItem(img))
	}
	return view
}

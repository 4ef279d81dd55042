package handlers

import "net/http"

// Routes registers every endpoint on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sessions", h.HandleListSessions)
	mux.HandleFunc("POST /api/sessions", h.HandleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", h.HandleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.HandleDeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/images", h.HandleAddImages)
	mux.HandleFunc("DELETE /api/sessions/{id}/images", h.HandleClearImages)
	mux.HandleFunc("DELETE /api/sessions/{id}/images/{imageID}", h.HandleRemoveImage)
	mux.HandleFunc("POST /api/sessions/{id}/pdf", h.HandleAssemblePDF)
	mux.HandleFunc("POST /api/latex", h.HandleLatex)
	mux.HandleFunc("POST /api/solve", h.HandleSolve)
	mux.HandleFunc("GET /api/translations", h.HandleTranslations)
	mux.HandleFunc("GET /api/history", h.HandleHistory)
	mux.HandleFunc("/healthcheck", h.HandleHealthcheck)
	return mux
}

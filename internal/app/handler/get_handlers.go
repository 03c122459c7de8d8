package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/shortify/internal/app/service"
	"github.com/atinyakov/shortify/internal/models"
)

type GetHandler struct {
	service       service.LinkServiceIface
	logger        *zap.Logger
	baseURL       string
	redirectDelay time.Duration
}

// NewGet creates a GetHandler. Local links on the creation page are built
// from baseURL, and the redirect page navigates to the stored destination
// after redirectDelay.
func NewGet(s service.LinkServiceIface, l *zap.Logger, baseURL string, redirectDelay time.Duration) *GetHandler {
	return &GetHandler{
		service:       s,
		logger:        l,
		baseURL:       baseURL,
		redirectDelay: redirectDelay,
	}
}

// Home renders the creation page with the stored history.
func (h *GetHandler) Home(res http.ResponseWriter, req *http.Request) {
	page := homePage{
		Links:    h.service.List(req.Context()),
		ErrorTTL: errorTTL.Milliseconds(),
		BaseURL:  h.baseURL,
	}
	render(res, http.StatusOK, "home.html", page, h.logger)
}

// ByAlias handles GET /{alias}: a stored alias gets a page that forwards the
// browser to the original URL, anything else gets a 404 page.
func (h *GetHandler) ByAlias(res http.ResponseWriter, req *http.Request) {
	alias := chi.URLParam(req, "alias")
	h.logger.Debug("Got alias from request params", zap.String("alias", alias))

	link, err := h.service.Resolve(req.Context(), alias)
	switch {
	case errors.Is(err, service.ErrNoAlias):
		render(res, http.StatusBadRequest, "missing.html", missingPage{Message: "No alias provided."}, h.logger)
		return
	case err != nil:
		h.logger.Info("unknown alias", zap.String("alias", alias))
		render(res, http.StatusNotFound, "missing.html", missingPage{Message: fmt.Sprintf("Link /%s not found.", alias)}, h.logger)
		return
	}

	page := redirectPage{
		Target:  link.OriginalURL,
		Alias:   link.Alias,
		DelayMs: h.redirectDelay.Milliseconds(),
	}
	render(res, http.StatusOK, "redirect.html", page, h.logger)
}

// Resolve handles GET /api/resolve?alias= and responds with the stored record.
func (h *GetHandler) Resolve(res http.ResponseWriter, req *http.Request) {
	alias := req.URL.Query().Get("alias")

	link, err := h.service.Resolve(req.Context(), alias)
	switch {
	case errors.Is(err, service.ErrNoAlias):
		writeJSON(res, http.StatusBadRequest, models.ErrorResponse{Kind: "NoAlias", Message: "No alias provided."}, h.logger)
		return
	case err != nil:
		writeJSON(res, http.StatusNotFound, models.ErrorResponse{Kind: "NotFound", Message: fmt.Sprintf("Link /%s not found.", alias)}, h.logger)
		return
	}

	writeJSON(res, http.StatusOK, link, h.logger)
}

// List handles GET /api/links.
func (h *GetHandler) List(res http.ResponseWriter, req *http.Request) {
	writeJSON(res, http.StatusOK, h.service.List(req.Context()), h.logger)
}

func (h *GetHandler) Ping(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	if err := h.service.PingContext(ctx); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusOK)
}

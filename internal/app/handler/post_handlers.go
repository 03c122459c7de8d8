package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/shortify/internal/app/service"
	"github.com/atinyakov/shortify/internal/models"
)

type PostHandler struct {
	service service.LinkServiceIface
	logger  *zap.Logger
	baseURL string
	timeout time.Duration
}

// NewPost creates a PostHandler. timeout bounds each request's calls to the
// shortening and suggestion services.
func NewPost(s service.LinkServiceIface, l *zap.Logger, baseURL string, timeout time.Duration) *PostHandler {
	return &PostHandler{
		service: s,
		logger:  l,
		baseURL: baseURL,
		timeout: timeout,
	}
}

// CreateJSON handles POST /api/links.
func (h *PostHandler) CreateJSON(res http.ResponseWriter, req *http.Request) {
	var request models.CreateRequest

	if err := decodeJSONBody(res, req, &request); err != nil {
		writeDecodeError(res, err, h.logger)
		return
	}

	ctx, cancel := h.withTimeout(req.Context())
	defer cancel()

	switch o := h.service.Create(ctx, request).(type) {
	case service.Success:
		writeJSON(res, http.StatusCreated, models.CreateResponse{Record: o.Record}, h.logger)
	case service.SuccessWithNotice:
		writeJSON(res, http.StatusCreated, models.CreateResponse{Record: o.Record, Notice: o.Notice}, h.logger)
	case service.Failure:
		writeFailure(res, o, h.logger)
	}
}

// SuggestJSON handles POST /api/suggest.
func (h *PostHandler) SuggestJSON(res http.ResponseWriter, req *http.Request) {
	var request models.SuggestRequest

	if err := decodeJSONBody(res, req, &request); err != nil {
		writeDecodeError(res, err, h.logger)
		return
	}

	ctx, cancel := h.withTimeout(req.Context())
	defer cancel()

	alias, err := h.service.Suggest(ctx, request.URL)
	if err != nil {
		var f service.Failure
		if errors.As(err, &f) {
			writeFailure(res, f, h.logger)
			return
		}
		h.logger.Error("unable to suggest alias", zap.Error(err))
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(res, http.StatusOK, models.SuggestResponse{Alias: alias}, h.logger)
}

// SubmitForm handles POST / from the creation page. The "action" field picks
// between asking for a suggestion and creating the link.
func (h *PostHandler) SubmitForm(res http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(res, "Unable to parse form", http.StatusBadRequest)
		return
	}

	form := formState{
		URL:       req.PostForm.Get("url"),
		Alias:     service.SanitizeAlias(req.PostForm.Get("alias")),
		Suggested: req.PostForm.Get("suggested"),
	}

	ctx, cancel := h.withTimeout(req.Context())
	defer cancel()

	page := homePage{Form: form, ErrorTTL: errorTTL.Milliseconds(), BaseURL: h.baseURL}
	status := http.StatusOK

	if req.PostForm.Get("action") == "suggest" {
		alias, err := h.service.Suggest(ctx, form.URL)
		if err != nil {
			page.Error = err.Error()
			status = http.StatusBadRequest
		} else {
			page.Form.Alias = alias
			page.Form.Suggested = alias
		}
		page.Links = h.service.List(ctx)
		render(res, status, "home.html", page, h.logger)
		return
	}

	request := models.CreateRequest{
		URL:         form.URL,
		Alias:       form.Alias,
		AIGenerated: form.Suggested != "" && form.Suggested == form.Alias,
	}

	switch o := h.service.Create(ctx, request).(type) {
	case service.Success:
		page.Created = &o.Record
		page.Form = formState{}
	case service.SuccessWithNotice:
		page.Created = &o.Record
		page.Notice = o.Notice
		page.Form = formState{}
	case service.Failure:
		page.Error = o.Message
		status = statusFor(o.Kind)
	}

	page.Links = h.service.List(ctx)
	render(res, status, "home.html", page, h.logger)
}

func (h *PostHandler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}

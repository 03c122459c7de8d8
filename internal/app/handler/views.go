package handler

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/shortify/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var views = template.Must(template.New("").Funcs(template.FuncMap{
	"created": func(ms int64) string {
		return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04")
	},
}).ParseFS(templateFS, "templates/*.html"))

// errorTTL is how long an error banner stays on the creation page.
const errorTTL = 5 * time.Second

type formState struct {
	URL   string
	Alias string
	// Suggested is the last alias proposed by the suggestion service. The
	// alias counts as AI-generated only while it still equals Suggested.
	Suggested string
}

type homePage struct {
	Form     formState
	Links    []models.LinkRecord
	Created  *models.LinkRecord
	Notice   string
	Error    string
	ErrorTTL int64
	BaseURL  string
}

// LocalURL is the address of this server's redirect view for alias.
func (p homePage) LocalURL(alias string) string {
	return strings.TrimRight(p.BaseURL, "/") + "/" + url.PathEscape(alias)
}

type redirectPage struct {
	Target  string
	Alias   string
	DelayMs int64
}

type missingPage struct {
	Message string
}

func render(res http.ResponseWriter, status int, name string, data any, log *zap.Logger) {
	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	res.WriteHeader(status)

	if err := views.ExecuteTemplate(res, name, data); err != nil {
		log.Error("unable to render view", zap.String("view", name), zap.Error(err))
	}
}

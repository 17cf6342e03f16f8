// Package views renders the storefront's HTML pages.
package views

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"pizza_store/internal/models"
	"pizza_store/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

type Renderer struct {
	templates *template.Template
	log       *zap.Logger
}

func NewRenderer(log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"money": renderMoney,
		"join":  strings.Join,
		"orderTotal": func(o models.Order) string {
			return renderMoney(o.Total())
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "could not parse templates")
	}
	return &Renderer{templates: tmpl, log: log}, nil
}

// HTML renders the named page with the session's identity and pending flash
// messages merged into data.
func (r *Renderer) HTML(c *gin.Context, code int, name string, data gin.H) {
	sess := session.FromContext(c)
	payload := gin.H{
		"session": sess,
		"flashes": sess.PopFlashes(),
	}
	for k, v := range data {
		payload[k] = v
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, payload); err != nil {
		r.Error(c, errors.Wrapf(err, "could not render %s", name), http.StatusInternalServerError)
		return
	}
	c.Data(code, "text/html; charset=utf-8", buf.Bytes())
}

// Error logs err and writes the plain error page.
func (r *Renderer) Error(c *gin.Context, err error, code int) {
	r.log.Error("request error",
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", code),
		zap.Error(err),
	)
	_ = c.Error(err)

	var buf bytes.Buffer
	if tmplErr := r.templates.ExecuteTemplate(&buf, "error.html", gin.H{
		"status_code": code,
		"status":      http.StatusText(code),
	}); tmplErr != nil {
		c.String(code, http.StatusText(code))
		return
	}
	c.Data(code, "text/html; charset=utf-8", buf.Bytes())
}

func renderMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

package web

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"strconv"

	"github.com/mercadolance/lanceweb/internal/api"
	"github.com/mercadolance/lanceweb/internal/auth"
	"github.com/mercadolance/lanceweb/internal/feed"
	"github.com/mercadolance/lanceweb/pkg/config"
	"github.com/mercadolance/lanceweb/pkg/logger"
	valid "github.com/mercadolance/lanceweb/pkg/validator"
)

var validate = valid.GetValidator()

// Handler holds the view layer: page rendering, form handling and the
// browser-facing live relay.
type Handler struct {
	cfg      *config.Config
	api      *api.Client
	sessions *auth.Manager
	feed     *feed.Hub
	log      *logger.Logger
	tmpl     *template.Template
}

func New(cfg *config.Config, client *api.Client, sessions *auth.Manager, hub *feed.Hub, log *logger.Logger) (*Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{
		cfg:      cfg,
		api:      client,
		sessions: sessions,
		feed:     hub,
		log:      log,
		tmpl:     tmpl,
	}, nil
}

// SessionFrom pulls the session out of the request context. Returns nil
// when the request is anonymous.
func SessionFrom(ctx context.Context) *auth.Session {
	sess, ok := ctx.Value(config.SessionKey).(*auth.Session)
	if !ok {
		return nil
	}
	return sess
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.Errorw("[WEB] template render failed", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func parseAuctionID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

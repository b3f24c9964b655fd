package handlers

import (
	"errors"
	"net/http"

	"paycoffee/server/internal/domain"
)

// WidgetScript serves the self-executing widget loader. Errors are
// returned as JavaScript comments so a broken embed stays silent on the
// host page.
func (a *App) WidgetScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")

	id := r.URL.Query().Get("id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("// Widget ID is required"))
		return
	}

	widget, err := a.Widgets.GetPublic(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("// Widget not found"))
			return
		}
		a.Logger.Error().Err(err).Str("widget_id", id).Msg("load widget for script failed")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("// Widget unavailable"))
		return
	}

	script, err := a.Embed.Script(widget)
	if err != nil {
		a.Logger.Error().Err(err).Str("widget_id", id).Msg("render widget script failed")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("// Widget unavailable"))
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(script))
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"paycoffee/server/internal/domain"
)

type widgetRequest struct {
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	DefaultAmounts    []float64 `json:"defaultAmounts"`
	AllowCustomAmount *bool     `json:"allowCustomAmount"`
	ButtonText        string    `json:"buttonText"`
	PrimaryColor      string    `json:"primaryColor"`
}

func (a *App) WidgetsList(w http.ResponseWriter, r *http.Request) {
	owner := a.currentOwner(r)
	widgets, err := a.Widgets.ListByOwner(r.Context(), owner.ID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list widgets failed")
		a.error(w, http.StatusInternalServerError, "Failed to fetch widgets")
		return
	}

	items := make([]widgetDTO, 0, len(widgets))
	for i := range widgets {
		items = append(items, widgetToDTO(&widgets[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"widgets": items})
}

func (a *App) WidgetsCreate(w http.ResponseWriter, r *http.Request) {
	owner := a.currentOwner(r)
	var req widgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Title is required")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		a.error(w, http.StatusBadRequest, "Title is required")
		return
	}

	widget := &domain.Widget{
		ID:                uuid.NewString(),
		OwnerID:           owner.ID,
		Title:             req.Title,
		Description:       req.Description,
		DefaultAmounts:    req.DefaultAmounts,
		AllowCustomAmount: req.AllowCustomAmount == nil || *req.AllowCustomAmount,
		ButtonText:        req.ButtonText,
		PrimaryColor:      req.PrimaryColor,
	}
	if len(widget.DefaultAmounts) == 0 {
		widget.DefaultAmounts = domain.DefaultAmountPresets()
	}
	if widget.ButtonText == "" {
		widget.ButtonText = domain.DefaultButtonText
	}
	if widget.PrimaryColor == "" {
		widget.PrimaryColor = domain.DefaultPrimaryColor
	}

	created, err := a.Widgets.Create(r.Context(), widget)
	if err != nil {
		a.Logger.Error().Err(err).Msg("create widget failed")
		a.error(w, http.StatusInternalServerError, "Failed to create widget")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"widget": widgetToDTO(created)})
}

func (a *App) WidgetsGet(w http.ResponseWriter, r *http.Request) {
	owner := a.currentOwner(r)
	widget, err := a.Widgets.GetByOwner(r.Context(), owner.ID, chi.URLParam(r, "id"))
	if err != nil {
		a.widgetError(w, err, "fetch widget")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"widget": widgetToDTO(widget)})
}

func (a *App) WidgetsUpdate(w http.ResponseWriter, r *http.Request) {
	owner := a.currentOwner(r)
	var req widgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	widget := &domain.Widget{
		ID:                chi.URLParam(r, "id"),
		OwnerID:           owner.ID,
		Title:             req.Title,
		Description:       req.Description,
		DefaultAmounts:    req.DefaultAmounts,
		AllowCustomAmount: req.AllowCustomAmount == nil || *req.AllowCustomAmount,
		ButtonText:        req.ButtonText,
		PrimaryColor:      req.PrimaryColor,
	}

	updated, err := a.Widgets.Update(r.Context(), widget)
	if err != nil {
		a.widgetError(w, err, "update widget")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"widget": widgetToDTO(updated)})
}

func (a *App) WidgetsDelete(w http.ResponseWriter, r *http.Request) {
	owner := a.currentOwner(r)
	if err := a.Widgets.Delete(r.Context(), owner.ID, chi.URLParam(r, "id")); err != nil {
		a.widgetError(w, err, "delete widget")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"message": "Widget deleted successfully"})
}

// WidgetsGetPublic serves the supporter-facing widget view. It exposes
// only the owner's display name and paytag, never the account record.
func (a *App) WidgetsGetPublic(w http.ResponseWriter, r *http.Request) {
	widget, err := a.Widgets.GetPublic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.widgetError(w, err, "fetch public widget")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"widget": publicWidgetToDTO(widget)})
}

func (a *App) WidgetsEmbedCode(w http.ResponseWriter, r *http.Request) {
	owner := a.currentOwner(r)
	widget, err := a.Widgets.GetByOwner(r.Context(), owner.ID, chi.URLParam(r, "id"))
	if err != nil {
		a.widgetError(w, err, "generate embed code")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"embedCode": a.Embed.Snippet(widget.ID)})
}

func (a *App) widgetError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, http.StatusNotFound, "Widget not found")
		return
	}
	a.Logger.Error().Err(err).Msgf("%s failed", op)
	a.error(w, http.StatusInternalServerError, "Failed to "+op)
}

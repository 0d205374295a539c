package handler

import (
	"errors"
	"net/http"

	"fxconvert/internal/converter"

	"github.com/sirupsen/logrus"
)

// Convert godoc
// @Summary Edit a currency field
// @Description Makes the given field the source and recomputes every other tracked field.
// @Description Invalid or non-positive amounts clear the derived fields.
// @Tags Converter
// @Accept json
// @Produce json
// @Param request body converter.EditCommand true "Edited field"
// @Success 200 {object} converter.UIUpdate
// @Failure 400 {object} errorResponse
// @Router /convert [post]
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	var cmd converter.EditCommand
	if err := decodeBody(w, r, 1024, &cmd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	upd, err := h.converter.Edit(r.Context(), cmd)
	if err != nil {
		if errors.Is(err, converter.ErrUntrackedCurrency) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		msg := "conversion failed"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "Convert", "currency": cmd.Currency}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}
	writeJSON(w, http.StatusOK, upd)
}

// GetView godoc
// @Summary Current fields
// @Description Tracked currency fields with their current values and the rates status.
// @Tags Converter
// @Produce json
// @Success 200 {object} converter.View
// @Router /view [get]
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.converter.View(r.Context()))
}

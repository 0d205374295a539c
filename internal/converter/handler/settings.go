package handler

import (
	"errors"
	"net/http"

	"fxconvert/internal/converter"
	"fxconvert/internal/domain"

	"github.com/sirupsen/logrus"
)

// GetSettings godoc
// @Summary User settings
// @Tags Settings
// @Produce json
// @Success 200 {object} converter.Settings
// @Router /settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.converter.Settings(r.Context()))
}

// UpdateSettings godoc
// @Summary Update user settings
// @Description Partial update. Changing the main currency refreshes rates for the new base.
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body converter.SettingsPatch true "Fields to change"
// @Success 200 {object} converter.Settings
// @Failure 400 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch converter.SettingsPatch
	if err := decodeBody(w, r, 2048, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.converter.UpdateSettings(r.Context(), patch)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, updated)
	case errors.Is(err, domain.ErrCodeRequired),
		errors.Is(err, domain.ErrCodeMalformed),
		errors.Is(err, domain.ErrCodeUnsupported):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrStorageUnavailable):
		logrus.WithError(err).WithField("handler", "UpdateSettings").Error("settings not saved")
		writeError(w, http.StatusServiceUnavailable, "settings could not be saved")
	default:
		logrus.WithError(err).WithField("handler", "UpdateSettings").Error("settings not saved")
		writeError(w, http.StatusInternalServerError, "failed to update settings")
	}
}

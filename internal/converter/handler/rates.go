package handler

import (
	"net/http"
	"strings"

	"fxconvert/internal/converter"
	"fxconvert/internal/domain"

	"github.com/sirupsen/logrus"
)

type RefreshResponse struct {
	Refreshed bool             `json:"refreshed"`
	Error     string           `json:"error,omitempty"`
	Status    converter.Status `json:"status"`
}

type ConnectivityRequest struct {
	State string `json:"state" example:"online"`
}

type CurrenciesResponse struct {
	Currencies []domain.Currency `json:"currencies"`
}

// RefreshRates godoc
// @Summary Refresh exchange rates
// @Description Fetches the latest rates for the main currency even while offline.
// @Description A failed fetch is reported in the body; stored rates stay in use.
// @Tags Rates
// @Produce json
// @Success 200 {object} RefreshResponse
// @Router /rates/refresh [post]
func (h *Handler) RefreshRates(w http.ResponseWriter, r *http.Request) {
	res := RefreshResponse{Refreshed: true}
	if err := h.converter.Refresh(r.Context(), true); err != nil {
		logrus.WithError(err).WithField("handler", "RefreshRates").Warn("manual refresh failed")
		res.Refreshed = false
		res.Error = err.Error()
	}
	res.Status = h.converter.Status(r.Context())
	writeJSON(w, http.StatusOK, res)
}

// GetStatus godoc
// @Summary Rates status
// @Tags Rates
// @Produce json
// @Success 200 {object} converter.Status
// @Router /status [get]
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.converter.Status(r.Context()))
}

// SetConnectivity godoc
// @Summary Report a connectivity change
// @Description "online" triggers an immediate forced refresh, "offline" switches to stored rates.
// @Tags Rates
// @Accept json
// @Produce json
// @Param request body ConnectivityRequest true "New connectivity state"
// @Success 200 {object} converter.Status
// @Failure 400 {object} errorResponse
// @Router /connectivity [post]
func (h *Handler) SetConnectivity(w http.ResponseWriter, r *http.Request) {
	var req ConnectivityRequest
	if err := decodeBody(w, r, 256, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch domain.ConnectivityState(strings.ToLower(strings.TrimSpace(req.State))) {
	case domain.Online:
		if err := h.converter.SetOnline(r.Context()); err != nil {
			logrus.WithError(err).WithField("handler", "SetConnectivity").Warn("refresh after online signal failed")
		}
	case domain.Offline:
		h.converter.SetOffline(r.Context())
	default:
		writeError(w, http.StatusBadRequest, `state must be "online" or "offline"`)
		return
	}
	writeJSON(w, http.StatusOK, h.converter.Status(r.Context()))
}

// GetCurrencies godoc
// @Summary List selectable currencies
// @Tags Rates
// @Produce json
// @Success 200 {object} CurrenciesResponse
// @Router /currencies [get]
func (h *Handler) GetCurrencies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CurrenciesResponse{Currencies: domain.Catalog})
}

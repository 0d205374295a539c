package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"fxconvert/internal/converter"
)

// Converter is the application state driven by the HTTP API.
type Converter interface {
	Edit(ctx context.Context, cmd converter.EditCommand) (converter.UIUpdate, error)
	View(ctx context.Context) converter.View
	Status(ctx context.Context) converter.Status
	Refresh(ctx context.Context, force bool) error
	SetOnline(ctx context.Context) error
	SetOffline(ctx context.Context)
	Settings(ctx context.Context) converter.Settings
	UpdateSettings(ctx context.Context, patch converter.SettingsPatch) (converter.Settings, error)
}

type Handler struct {
	converter Converter
}

func NewConverterHandler(c Converter) *Handler {
	return &Handler{converter: c}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorMsg,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

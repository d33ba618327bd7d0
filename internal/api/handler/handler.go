// Package handler exposes the complaint service over HTTP. It is thin
// on purpose: auth token handling, multipart parsing and response
// shaping live here, every decision lives in the services.
package handler

import (
	"go.uber.org/zap"

	"urbaniq/backend/internal/ingest"
	"urbaniq/backend/internal/storage"
	"urbaniq/backend/internal/track"
)

// Handler holds the wired services.
type Handler struct {
	Ingest    *ingest.Service
	Storage   storage.Storage
	Hub       *track.Hub
	JWTSecret []byte
	Log       *zap.Logger
}

func NewHandler(ing *ingest.Service, s storage.Storage, hub *track.Hub, jwtSecret string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Ingest:    ing,
		Storage:   s,
		Hub:       hub,
		JWTSecret: []byte(jwtSecret),
		Log:       log,
	}
}

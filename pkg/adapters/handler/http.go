package handler

import (
	"log/slog"
	"net/http"

	"github.com/KI0T0/teste-back-end-teddy/pkg/ports"
)

type HTTPHandler struct {
	links    ports.LinkService
	redirect ports.RedirectService
	logger   *slog.Logger
}

func NewHTTPHandler(links ports.LinkService, redirect ports.RedirectService, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{links: links, redirect: redirect, logger: logger}
}

// CreateLinkRequest payload
type CreateLinkRequest struct {
	LongURL     string `json:"long_url"`
	CustomAlias string `json:"custom_alias,omitempty"`
}

// UpdateLinkRequest payload
type UpdateLinkRequest struct {
	LongURL string `json:"long_url"`
}

// Create Link. Works with or without a session.
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	summary, err := h.links.CreateLink(r.Context(), req.LongURL, req.CustomAlias, ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, summary)
}

// List the caller's links
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.links.ListOwnedLinks(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": links})
}

// Update Link
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req UpdateLinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	link, err := h.links.UpdateLink(r.Context(), id, ActorFromContext(r.Context()), req.LongURL)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, link)
}

// Delete Link
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.links.DeleteLink(r.Context(), id, ActorFromContext(r.Context())); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Redirect to the long URL
func (h *HTTPHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	res, err := h.redirect.Resolve(r.Context(), r.PathValue("short_code"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	http.Redirect(w, r, res.TargetURL, res.StatusCode)
}

package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/tonecycle/internal/guideline"
	"github.com/jonathan/tonecycle/internal/schemas"
	"github.com/jonathan/tonecycle/internal/server/middleware"
	"github.com/jonathan/tonecycle/internal/session"
	"github.com/jonathan/tonecycle/internal/types"
)

// SessionResponse is returned by POST /sessions
type SessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CredentialRequest is the body of PUT /credential
type CredentialRequest struct {
	Value string `json:"value"`
}

// CredentialResponse is returned by GET /credential
type CredentialResponse struct {
	Value string `json:"value"`
	Set   bool   `json:"set"`
}

// LintResponse is returned by POST /guides/lint
type LintResponse struct {
	Valid      bool                   `json:"valid"`
	Issues     []string               `json:"issues,omitempty"`
	Version    string                 `json:"version"`
	Directives *types.StyleDirectives `json:"directives"`
	Tones      []types.ToneConfig     `json:"tones"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreateSession issues a new session and its token
func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	id := uuid.New()
	token, expiresAt, err := s.jwtService.GenerateToken(id)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to issue session token")
		s.errorResponse(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	s.jsonResponse(w, http.StatusCreated, SessionResponse{SessionID: id, Token: token, ExpiresAt: expiresAt})
}

// handleMessage dispatches a host message for the token's session
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.GetSessionID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var msg types.Message
	if err := s.decode(w, r, &msg); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.manager.Handle(r.Context(), sessionID.String(), msg)
	if err != nil {
		var busy *session.BusyError
		if errors.As(err, &busy) {
			s.jsonResponse(w, http.StatusConflict, types.Response{
				Type:   types.MessageRewriteDone,
				Output: session.BusyNotice,
				Error:  true,
			})
			return
		}
		status := HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			s.log.Error().Err(err).Str("session", sessionID.String()).Msg("message failed")
		}
		s.errorResponse(w, status, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result.Response)
}

// handlePutCredential stores the API key; an empty value clears it
func (s *Server) handlePutCredential(w http.ResponseWriter, r *http.Request) {
	if !s.manager.HasCredentialStore() {
		err := &ErrUnavailable{Feature: "credential store"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req CredentialRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if err := s.manager.SetCredential(r.Context(), req.Value); err != nil {
		s.log.Error().Err(err).Msg("failed to store credential")
		s.errorResponse(w, HTTPStatus(err), "failed to store credential")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetCredential returns the stored API key
func (s *Server) handleGetCredential(w http.ResponseWriter, r *http.Request) {
	if !s.manager.HasCredentialStore() {
		err := &ErrUnavailable{Feature: "credential store"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	value, err := s.manager.Credential(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read credential")
		s.errorResponse(w, HTTPStatus(err), "failed to read credential")
		return
	}
	s.jsonResponse(w, http.StatusOK, CredentialResponse{Value: value, Set: value != ""})
}

// handleLintGuide checks a guide against the guide schema and shows how it normalizes.
// Lint findings never make the guide unusable.
func (s *Server) handleLintGuide(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "guide too large")
		return
	}

	ext := ".json"
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && (mt == "application/yaml" || mt == "application/x-yaml" || mt == "text/yaml") {
		ext = ".yaml"
	}
	doc, err := guideline.Decode(data, ext)
	if err != nil {
		verr := &ErrValidation{Field: "body", Message: err.Error()}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	resp := LintResponse{Valid: true, Version: guideline.Version(doc)}
	if lintErr := schemas.LintGuide(doc); lintErr != nil {
		resp.Valid = false
		var ve *schemas.ValidationError
		if errors.As(lintErr, &ve) {
			resp.Issues = ve.Messages()
		} else {
			resp.Issues = []string{lintErr.Error()}
		}
	}
	resp.Directives, resp.Tones = guideline.Normalize(doc, "")
	s.jsonResponse(w, http.StatusOK, resp)
}

// decode reads a bounded JSON body
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"svw.info/seating/internal/domain"
	"svw.info/seating/internal/infrastructure/storage"
	"svw.info/seating/internal/session"
	"svw.info/seating/internal/usecase"
)

// DefaultPlayer is used when a request names no player.
const DefaultPlayer = "local"

type Handler struct {
	UC *usecase.Service
}

func New(uc *usecase.Service) *Handler { return &Handler{UC: uc} }

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/levels", h.handleLevels)
	mux.HandleFunc("/api/level", h.handleLevel)
	mux.HandleFunc("/api/validate", h.handleValidate)
	mux.HandleFunc("/api/session", h.handleSession)
	mux.HandleFunc("/api/session/act", h.handleAct)
	mux.HandleFunc("/api/session/hint", h.handleHint)
	mux.HandleFunc("/api/progress", h.handleProgress)
	mux.HandleFunc("/api/progress/reset", h.handleReset)
}

// playerOf reads the player id from ?player=, then X-Player-ID.
func playerOf(r *http.Request) string {
	if p := strings.TrimSpace(r.URL.Query().Get("player")); p != "" {
		return p
	}
	if p := strings.TrimSpace(r.Header.Get("X-Player-ID")); p != "" {
		return p
	}
	return DefaultPlayer
}

// localeOf prefers the body's locale, then ?locale=, then Accept-Language.
func localeOf(r *http.Request, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	if l := strings.TrimSpace(r.URL.Query().Get("locale")); l != "" {
		return l
	}
	return r.Header.Get("Accept-Language")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrLevelNotFound), errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrLevelLocked):
		return http.StatusForbidden
	case errors.Is(err, session.ErrSeatOccupied):
		return http.StatusConflict
	case errors.Is(err, session.ErrUnknownSeat), errors.Is(err, session.ErrUnknownCharacter),
		errors.Is(err, session.ErrUnknownAction), errors.Is(err, storage.ErrInvalidPlayer):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type errorResp struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResp{Error: msg})
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != method {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// ---- Levels ----

type levelsResp struct {
	Levels []domain.LevelMeta `json:"levels"`
	Error  string             `json:"error,omitempty"`
}

func (h *Handler) handleLevels(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	ls, err := h.UC.Levels(r.Context(), playerOf(r))
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(levelsResp{Levels: ls})
}

func (h *Handler) handleLevel(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid or missing id")
		return
	}
	v, err := h.UC.Level(r.Context(), id, localeOf(r, ""))
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// ---- Validate ----

type validateReq struct {
	LevelID    int               `json:"levelId"`
	Assignment domain.Assignment `json:"assignment"`
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req validateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	res, err := h.UC.Validate(r.Context(), req.LevelID, req.Assignment)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// ---- Session ----

type sessionReq struct {
	LevelID int `json:"levelId"`
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req sessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	st, err := h.UC.StartSession(r.Context(), playerOf(r), req.LevelID)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(st)
}

type actReq struct {
	SessionID string `json:"sessionId"`
	Locale    string `json:"locale,omitempty"`
	session.Action
}

func (h *Handler) handleAct(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req actReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		writeErr(w, http.StatusBadRequest, "invalid JSON or missing sessionId")
		return
	}
	locale := localeOf(r, req.Locale)
	res, err := h.UC.Act(r.Context(), req.SessionID, locale, req.Action)
	if err != nil {
		w.WriteHeader(statusFor(err))
		_ = json.NewEncoder(w).Encode(errorResp{Error: err.Error(), Message: h.UC.Describe(locale, err)})
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// ---- Hint ----

type hintReq struct {
	SessionID string `json:"sessionId"`
	Locale    string `json:"locale,omitempty"`
}

type hintResp struct {
	Hints []domain.Hint `json:"hints"`
	Error string        `json:"error,omitempty"`
}

func (h *Handler) handleHint(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req hintReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		writeErr(w, http.StatusBadRequest, "invalid JSON or missing sessionId")
		return
	}
	hs, err := h.UC.Hints(r.Context(), req.SessionID, localeOf(r, req.Locale))
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	if hs == nil {
		hs = []domain.Hint{}
	}
	_ = json.NewEncoder(w).Encode(hintResp{Hints: hs})
}

// ---- Progress ----

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	p, err := h.UC.Progress(r.Context(), playerOf(r))
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(p)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	if err := h.UC.ResetProgress(r.Context(), playerOf(r)); err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

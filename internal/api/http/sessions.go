package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/lernwerk/lernwerk/internal/auth/middleware"
	"github.com/lernwerk/lernwerk/internal/course"
	"github.com/lernwerk/lernwerk/internal/player"
	"github.com/lernwerk/lernwerk/internal/rbac"
)

func StartSessionHandler(mgr *player.Manager, defaultLocale string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CourseID string `json:"course_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CourseID == "" {
			http.Error(w, "course_id required", 400)
			return
		}
		userID := rbac.SubjectFromContext(r.Context())
		locale := authmw.LocaleFromContext(r.Context())
		if locale == "" {
			locale = defaultLocale
		}
		v, err := mgr.Start(r.Context(), req.CourseID, userID, locale)
		if err != nil {
			if errors.Is(err, course.ErrNotFound) {
				http.Error(w, "course not found", 404)
				return
			}
			http.Error(w, err.Error(), 400)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(v)
	}
}

func GetSessionHandler(mgr *player.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := mgr.Get(chi.URLParam(r, "sessionID"), rbac.SubjectFromContext(r.Context()))
		if err != nil {
			writePlayerError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(v)
	}
}

// ValidateAnswerHandler drives submit-button enablement: it reports
// whether the current input would be accepted by a check, without
// consuming the one-shot transition.
func ValidateAnswerHandler(mgr *player.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ans course.Answer
		if err := json.NewDecoder(r.Body).Decode(&ans); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		valid, err := mgr.Validate(chi.URLParam(r, "sessionID"), rbac.SubjectFromContext(r.Context()), ans)
		if err != nil {
			writePlayerError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"valid": valid})
	}
}

func CheckAnswerHandler(mgr *player.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ans course.Answer
		if err := json.NewDecoder(r.Body).Decode(&ans); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		res, err := mgr.Check(r.Context(), chi.URLParam(r, "sessionID"), rbac.SubjectFromContext(r.Context()), ans)
		if err != nil {
			writePlayerError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

func AdvanceSessionHandler(mgr *player.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := mgr.Advance(r.Context(), chi.URLParam(r, "sessionID"), rbac.SubjectFromContext(r.Context()))
		if err != nil {
			writePlayerError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(v)
	}
}

func SessionSummaryHandler(mgr *player.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Summary(chi.URLParam(r, "sessionID"), rbac.SubjectFromContext(r.Context()))
		if err != nil {
			writePlayerError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(s)
	}
}

func EndSessionHandler(mgr *player.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := mgr.End(chi.URLParam(r, "sessionID"), rbac.SubjectFromContext(r.Context())); err != nil {
			writePlayerError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writePlayerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, player.ErrNotFound):
		http.Error(w, "session not found", 404)
	case errors.Is(err, player.ErrForbidden):
		http.Error(w, "forbidden", 403)
	case errors.Is(err, player.ErrInvalidAnswer),
		errors.Is(err, player.ErrAlreadyAnswered),
		errors.Is(err, player.ErrNotAnswered),
		errors.Is(err, player.ErrFinished):
		http.Error(w, err.Error(), 409)
	default:
		http.Error(w, err.Error(), 400)
	}
}

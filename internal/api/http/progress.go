package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lernwerk/lernwerk/internal/progress"
)

// GetProgressHandler returns a user's full tracking record. Route-level
// middleware restricts it to the owner or progress:view-all.
func GetProgressHandler(store progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		rec, err := store.Get(r.Context(), userID)
		if err != nil {
			if errors.Is(err, progress.ErrNotFound) {
				// no completions yet: an empty record, not an error
				rec = progress.UserTracking{
					UserID:         userID,
					DailyActivity:  map[string]int{},
					StatsBySubject: map[string]progress.SubjectStats{},
				}
				_ = json.NewEncoder(w).Encode(rec)
				return
			}
			http.Error(w, "db error", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(rec)
	}
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lernwerk/lernwerk/internal/course"
)

// Handlers only — routes remain in main.go

func CreateCourseHandler(store course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c course.Course
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		for i := range c.Questions {
			if c.Questions[i].ID == "" {
				c.Questions[i].ID = uuid.NewString()
			}
		}
		if err := c.Validate(); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		if err := store.Put(r.Context(), c); err != nil {
			http.Error(w, "db error", 500)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": c.ID})
	}
}

func ListCoursesHandler(store course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := course.ListOpts{
			Subject: strings.TrimSpace(r.URL.Query().Get("subject")),
			Q:       strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
			opts.Limit = v
		}
		if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
			opts.Offset = v
		}
		out, err := store.List(r.Context(), opts)
		if err != nil {
			http.Error(w, "db error", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

// GetCourseHandler serves the learner-safe view (no answer keys).
func GetCourseHandler(store course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "courseID")
		c, err := store.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, course.ErrNotFound) {
				http.Error(w, "course not found", 404)
				return
			}
			http.Error(w, "db error", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(c)
	}
}

func DeleteCourseHandler(store course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "courseID")
		if err := store.Delete(r.Context(), id); err != nil {
			if errors.Is(err, course.ErrNotFound) {
				http.Error(w, "course not found", 404)
				return
			}
			http.Error(w, "db error", 500)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ImportCourseHandler accepts a course-JSON file (multipart file= or raw
// body) and stores it under a fresh id unless the payload carries one.
func ImportCourseHandler(store course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c course.Course
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			f, _, err := r.FormFile("file")
			if err != nil {
				http.Error(w, "file required", 400)
				return
			}
			defer f.Close()
			if err := json.NewDecoder(f).Decode(&c); err != nil {
				http.Error(w, "bad json", 400)
				return
			}
		} else if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		for i := range c.Questions {
			if c.Questions[i].ID == "" {
				c.Questions[i].ID = uuid.NewString()
			}
		}
		if err := c.Validate(); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		if err := store.Put(r.Context(), c); err != nil {
			http.Error(w, "db error", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": c.ID})
	}
}

// ExportCourseHandler returns the full course JSON including answer keys.
func ExportCourseHandler(store course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "courseID")
		c, err := store.GetAdmin(r.Context(), id)
		if err != nil {
			if errors.Is(err, course.ErrNotFound) {
				http.Error(w, "course not found", 404)
				return
			}
			http.Error(w, "db error", 500)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="course-`+c.ID+`.json"`)
		_ = json.NewEncoder(w).Encode(c)
	}
}

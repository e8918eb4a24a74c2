package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/crypto/bcrypt"

	api "github.com/lernwerk/lernwerk/internal/api/http"
	auth "github.com/lernwerk/lernwerk/internal/auth/middleware"
	"github.com/lernwerk/lernwerk/internal/config"
	"github.com/lernwerk/lernwerk/internal/course"
	"github.com/lernwerk/lernwerk/internal/db"
	"github.com/lernwerk/lernwerk/internal/player"
	"github.com/lernwerk/lernwerk/internal/progress"
	"github.com/lernwerk/lernwerk/internal/rbac"
	syncx "github.com/lernwerk/lernwerk/internal/sync"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	if err := seedAdmin(ctx, dbh, cfg); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	courses := course.NewSQLStore(dbh)
	tracking := progress.NewSQLStore(dbh)
	agg := progress.NewAggregator(tracking, time.Now)
	events := syncx.NewEventRepo(dbh)
	sessions := player.NewManager(courses, agg,
		player.WithEventSink(events),
		player.WithFeedbackDelay(time.Duration(cfg.FeedbackDelayMS)*time.Millisecond),
	)

	// --- Auth (local JWT, single shared store) ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))
	}

	// Protected API (JWT → subject/role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Admin: author courses
		pr.With(rbac.Require("course:create")).
			Post("/courses", api.CreateCourseHandler(courses))
		pr.With(rbac.Require("course:create")).
			Post("/courses/import", api.ImportCourseHandler(courses))
		pr.With(rbac.Require("course:export")).
			Get("/courses/{courseID}/export", api.ExportCourseHandler(courses))
		pr.With(rbac.Require("course:delete")).
			Delete("/courses/{courseID}", api.DeleteCourseHandler(courses))

		// Learner/Admin: browse courses (answer keys stripped)
		pr.With(rbac.Require("course:view")).
			Get("/courses", api.ListCoursesHandler(courses))
		pr.With(rbac.Require("course:view")).
			Get("/courses/{courseID}", api.GetCourseHandler(courses))

		// Learner flow: play sessions
		pr.With(rbac.Require("session:create")).
			Post("/sessions", api.StartSessionHandler(sessions, cfg.DefaultLocale))
		pr.With(rbac.Require("session:view")).
			Get("/sessions/{sessionID}", api.GetSessionHandler(sessions))
		pr.With(rbac.Require("session:check")).
			Post("/sessions/{sessionID}/validate", api.ValidateAnswerHandler(sessions))
		pr.With(rbac.Require("session:check")).
			Post("/sessions/{sessionID}/check", api.CheckAnswerHandler(sessions))
		pr.With(rbac.Require("session:advance")).
			Post("/sessions/{sessionID}/advance", api.AdvanceSessionHandler(sessions))
		pr.With(rbac.Require("session:view")).
			Get("/sessions/{sessionID}/summary", api.SessionSummaryHandler(sessions))
		pr.With(rbac.Require("session:view")).
			Delete("/sessions/{sessionID}", api.EndSessionHandler(sessions))

		// Progress: owner or admin
		pr.With(rbac.RequireOwnerOr("progress:view-all", ownsProgress)).
			Get("/progress/{userID}", api.GetProgressHandler(tracking))

		// Users (admin)
		pr.With(rbac.Require("users:bulk_upsert")).
			Post("/users/bulk", api.BulkUpsertUsersHandler(dbh))
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
		pr.With(rbac.Require("user:change_password")).
			Post("/users/change-password", api.ChangePasswordHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

func ownsProgress(r *http.Request) bool {
	return chi.URLParam(r, "userID") == rbac.SubjectFromContext(r.Context())
}

// seedAdmin inserts the configured admin when the users table is empty so a
// fresh install is usable without a bootstrap script.
func seedAdmin(ctx context.Context, dbh *sql.DB, cfg config.Config) error {
	var n int
	if err := dbh.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash := cfg.AdminPassHash
	if hash == "" {
		// dev convenience: admin/admin
		b, err := bcrypt.GenerateFromPassword([]byte("admin"), 12)
		if err != nil {
			return err
		}
		hash = string(b)
		log.Printf("users table empty, seeding %q with default password", cfg.AdminUser)
	}
	_, err := dbh.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, language, created_at) VALUES ($1,$2,$3,'admin',$4,$5)`,
		"u-"+cfg.AdminUser, cfg.AdminUser, hash, cfg.DefaultLocale, time.Now().Unix())
	return err
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/campus-vote/cliparse"
	"github.com/danielhkuo/campus-vote/email"
	"github.com/danielhkuo/campus-vote/handlers"
	"github.com/danielhkuo/campus-vote/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, mailer *email.Mailer) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(db, cfg, mailer)
	votingHandler := handlers.NewVotingHandler(db, cfg, mailer)
	candidateHandler := handlers.NewCandidateHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg, mailer)
	voteAdminHandler := handlers.NewVoteAdminHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	settingsHandler := handlers.NewSettingsHandler(db, cfg)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(cfg.JWTSecret, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Registration and login (public)
	mux.HandleFunc("POST /register", middleware.WithLogging(accountHandler.Register))
	mux.HandleFunc("POST /login", middleware.WithLogging(accountHandler.Login))
	mux.HandleFunc("POST /upload-verification", middleware.WithLogging(accountHandler.UploadVerification))
	mux.HandleFunc("GET /session/state", middleware.WithLogging(accountHandler.State))

	// Voting (public; the server enforces eligibility)
	mux.HandleFunc("POST /vote/enter", middleware.WithLogging(votingHandler.Enter))
	mux.HandleFunc("POST /vote", middleware.WithLogging(votingHandler.Vote))

	// Candidates and settings reads (public)
	mux.HandleFunc("GET /candidates", middleware.WithLogging(candidateHandler.List))
	mux.HandleFunc("GET /settings", middleware.WithLogging(settingsHandler.Get))

	// Admin operations (JWT required)
	mux.HandleFunc("POST /admin/candidates", admin(candidateHandler.Create))
	mux.HandleFunc("DELETE /admin/candidates/{id}", admin(candidateHandler.Delete))
	mux.HandleFunc("GET /admin/users/pending", admin(adminHandler.PendingUsers))
	mux.HandleFunc("GET /admin/users", admin(adminHandler.ListUsers))
	mux.HandleFunc("GET /admin/users/search", admin(adminHandler.SearchUsers))
	mux.HandleFunc("POST /admin/users/verify", admin(adminHandler.VerifyUser))
	mux.HandleFunc("GET /admin/votes/pending", admin(voteAdminHandler.PendingVotes))
	mux.HandleFunc("GET /admin/votes/rejected", admin(voteAdminHandler.RejectedVotes))
	mux.HandleFunc("GET /admin/votes/search", admin(voteAdminHandler.SearchVotes))
	mux.HandleFunc("POST /admin/votes/verify", admin(voteAdminHandler.VerifyVote))
	mux.HandleFunc("GET /admin/results", admin(resultsHandler.Get))
	mux.HandleFunc("POST /admin/settings", admin(settingsHandler.Save))

	// Uploaded identity and candidate images
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("campus-vote API v1"))
	})

	return mux
}

// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Manassa API. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"manassa/internal/handlers"
	"manassa/internal/middleware"
	"manassa/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. rateLimiter may be nil to disable limiting.
func New(
	sessionStore *session.Store,
	rateLimiter *middleware.RateLimiter,
	auth *handlers.Auth,
	public *handlers.Public,
	admin *handlers.Admin,
	media *handlers.Media,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	if rateLimiter != nil {
		r.Use(rateLimiter.Middleware)
	}
	r.Use(middleware.LoadSession(sessionStore))

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Authentication.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", auth.Login)
			r.Post("/logout", auth.Logout)
			r.Get("/me", auth.Me)

			// 2FA requires a session but not a completed 2FA step.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/2fa/setup", auth.TwoFASetup)
				r.Post("/2fa/verify", auth.TwoFAVerify)
			})
		})

		// Public content. Anonymous readers land here.
		r.Route("/content/{kind}", func(r chi.Router) {
			r.Get("/", public.ListContent)
			r.Get("/{slug}", public.GetContent)
			r.Get("/{slug}/comments", public.GetComments)
			r.Post("/{slug}/comments", public.SubmitComment)
			r.Post("/{slug}/rating", public.Rate)
		})
		r.Get("/categories", public.ListCategories)
		r.Get("/ads/{placement}", public.ServeAds)
		r.Post("/ads/{id}/click", public.AdClick)

		// Admin area. Everything below needs a fully verified session.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/dashboard", admin.Dashboard)

			r.Route("/content/{kind}", func(r chi.Router) {
				r.Get("/", admin.ListContent)
				r.Post("/", admin.CreateContent)
				r.Get("/{id}", admin.GetContent)
				r.Put("/{id}", admin.UpdateContent)
				r.Delete("/{id}", admin.DeleteContent)
				r.Post("/{id}/transition", admin.Transition)
			})

			// Moderation. Authors cannot act on the queue.
			r.Route("/comments", func(r chi.Router) {
				r.Use(middleware.RequireModerator)
				r.Get("/pending", admin.ModerationQueue)
				r.Get("/spam", admin.SpamQueue)
				r.Post("/{id}/approve", admin.ApproveComment)
				r.Post("/{id}/reject", admin.RejectComment)
				r.Post("/{id}/spam", admin.SpamComment)
				r.Delete("/{id}", admin.DeleteComment)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.ListCategories)
				r.Post("/", admin.CreateCategory)
				r.Put("/{id}", admin.UpdateCategory)
				r.Delete("/{id}", admin.DeleteCategory)
			})

			r.Route("/ads", func(r chi.Router) {
				r.Get("/", admin.ListAds)
				r.Post("/", admin.CreateAd)
				r.Put("/{id}", admin.UpdateAd)
				r.Delete("/{id}", admin.DeleteAd)
			})

			r.Route("/media", func(r chi.Router) {
				r.Get("/", media.List)
				r.Post("/", media.Upload)
				r.Delete("/{id}", media.Delete)
				r.Get("/{id}/url", media.Serve)
			})

			r.Get("/cache-log", admin.CacheLog)

			// User management, admin only.
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", admin.ListUsers)
				r.Post("/", admin.CreateUser)
				r.Put("/{id}/role", admin.UpdateUserRole)
				r.Post("/{id}/reset-2fa", admin.ResetUserTwoFA)
				r.Delete("/{id}", admin.DeleteUser)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

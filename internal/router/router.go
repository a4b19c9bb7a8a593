// Copyright (c) 2025 Vlah Software House. All rights reserved.

// Package router sets up all HTTP routes and middleware chains for the
// Inkwell API. Routes are organized into a public group and a
// bearer-token protected admin group.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/token"
)

// Public write endpoints share one limiter: 10 submissions per minute
// per client IP.
const (
	publicWriteLimit  = 10
	publicWriteWindow = time.Minute
)

// New creates and returns the configured chi router with all middleware
// and route groups wired up.
func New(tokens *token.Store, auth *handlers.Auth, admin *handlers.Admin, public *handlers.Public, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check, no auth.
	r.Get("/health", healthHandler)

	limiter := middleware.NewRateLimiter(publicWriteLimit, publicWriteWindow)

	// Public site API.
	r.Get("/", public.Home)
	r.Get("/home", public.Home)
	r.Route("/articles", func(r chi.Router) {
		r.Get("/", public.ListArticles)
		r.Get("/{id}", public.ShowArticle)
		r.Get("/{id}/related", public.RelatedArticles)
		r.With(limiter.Middleware).Post("/{id}/comments", public.CreateComment)
	})
	r.Get("/categories", public.ListCategories)
	r.Get("/categories/{slug}/articles", public.CategoryArticles)
	r.With(limiter.Middleware).Post("/contact", public.CreateContact)

	// Admin API, bearer-token authenticated.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.BearerAuth(tokens))

		r.Post("/login", auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/logout", auth.Logout)
			r.Get("/me", auth.Me)
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/verify", auth.TwoFAVerify)

			// Management endpoints require the admin or super_admin role.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/dashboard", admin.Dashboard)

				r.Route("/articles", func(r chi.Router) {
					// Multipart updates arrive as POST + _method=PUT.
					r.Use(middleware.MethodOverride)

					r.Get("/", admin.ListArticles)
					r.Post("/", admin.CreateArticle)
					r.Get("/{id}", admin.ShowArticle)
					r.Put("/{id}", admin.UpdateArticle)
					r.Delete("/{id}", admin.DeleteArticle)
					r.Patch("/{id}/toggle-publish", admin.TogglePublish)
				})

				r.Route("/categories", func(r chi.Router) {
					r.Get("/", admin.ListCategories)
					r.Post("/", admin.CreateCategory)
					r.Put("/{id}", admin.UpdateCategory)
					r.Delete("/{id}", admin.DeleteCategory)
				})

				r.Route("/comments", func(r chi.Router) {
					r.Get("/", admin.ListComments)
					r.Patch("/{id}/approve", admin.ApproveComment)
					r.Delete("/{id}", admin.DeleteComment)
				})

				r.Route("/contacts", func(r chi.Router) {
					r.Get("/", admin.ListContacts)
					r.Get("/{id}", admin.ShowContact)
					r.Patch("/{id}/review", admin.ReviewContact)
				})
			})
		})
	})

	return r
}

// healthHandler responds to health check probes.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

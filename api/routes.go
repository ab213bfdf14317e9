package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public, authenticated and admin route groups
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public routes. identify resolves a bearer token when one is sent
	// so authors see their own hidden posts.
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.identify)

		r.Post("/auth/signup", handlers.authHandler.signup())
		r.Post("/auth/login", handlers.authHandler.login())

		r.Get("/posts", handlers.postHandler.feed())
		r.Get("/posts/{postID}", handlers.postHandler.getPost())

		r.Get("/categories", handlers.categoryHandler.listCategories())
		r.Get("/categories/{slug}/posts", handlers.categoryHandler.postsBySlug())
		r.Get("/locations", handlers.locationHandler.listLocations())

		r.Get("/profiles/{username}", handlers.profileHandler.getProfile())

		r.Get("/pages/about", handlers.pagesHandler.about())
		r.Get("/pages/rules", handlers.pagesHandler.rules())
		r.Get("/health", handlers.pagesHandler.health())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		r.Post("/posts", handlers.postHandler.createPost())
		r.Put("/posts/{postID}", handlers.postHandler.updatePost())
		r.Delete("/posts/{postID}", handlers.postHandler.deletePost())
		r.Post("/posts/{postID}/image", handlers.postHandler.uploadImage())

		r.Post("/posts/{postID}/comments", handlers.commentHandler.createComment())
		r.Put("/comments/{commentID}", handlers.commentHandler.updateComment())
		r.Delete("/comments/{commentID}", handlers.commentHandler.deleteComment())

		r.Put("/profile", handlers.profileHandler.updateProfile())
	})

	// Admin surface: category and location management
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)
		r.Use(authMiddleware.requireSuperuser)

		r.Post("/categories", handlers.categoryHandler.createCategory())
		r.Put("/categories/{categoryID}", handlers.categoryHandler.updateCategory())
		r.Delete("/categories/{categoryID}", handlers.categoryHandler.deleteCategory())

		r.Post("/locations", handlers.locationHandler.createLocation())
		r.Put("/locations/{locationID}", handlers.locationHandler.updateLocation())
		r.Delete("/locations/{locationID}", handlers.locationHandler.deleteLocation())
	})
}

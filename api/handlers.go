package api

import (
	"time"

	"github.com/avolkov/blogicum-backend/database"
	"github.com/avolkov/blogicum-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, tokens services.TokenService, media services.MediaStore, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		authHandler: newAuthHandler(database.UserRepo(), tokens),
		postHandler: newPostHandler(
			database.PostRepo(),
			database.CategoryRepo(),
			database.LocationRepo(),
			database.CommentRepo(),
			media,
		),
		categoryHandler: newCategoryHandler(database.CategoryRepo(), database.PostRepo()),
		locationHandler: newLocationHandler(database.LocationRepo()),
		commentHandler:  newCommentHandler(database.CommentRepo(), database.PostRepo()),
		profileHandler:  newProfileHandler(database.UserRepo(), database.PostRepo()),
		pagesHandler:    newPagesHandler(startupTime),
	}
}

package routes

import (
	"fanhub-backend/handlers/fanworks"
	"fanhub-backend/handlers/fanworks/bookmarks"
	"fanhub-backend/handlers/fanworks/comment"
	"fanhub-backend/handlers/fanworks/likes"
	"fanhub-backend/middleware"

	"github.com/gin-gonic/gin"
)

func FanworksRoutes(r *gin.Engine) {
	// Public read paths: identity is resolved when present so owners and
	// moderators can see hidden or age-gated works
	public := r.Group("/fanworks")
	public.Use(middleware.OptionalAuth())
	{
		public.GET("", fanworks.GetAllFanworks)
		public.GET("/:id", fanworks.GetFanworkByID)
		public.GET("/:id/counts", fanworks.GetFanworkCounts)
		public.GET("/:id/comments", comment.GetCommentsByFanworkID)
	}

	// The mature shelf is statically age-gated: credential, ban, then age
	r.GET("/browse/mature",
		middleware.JWTAuth(),
		middleware.RequireNotBanned(),
		middleware.RequireAgeVerified(),
		fanworks.GetMatureFanworks)

	protected := r.Group("/fanworks")
	protected.Use(middleware.JWTAuth(), middleware.RequireNotBanned())
	{
		protected.POST("", fanworks.CreateFanwork)
		protected.PUT("/:id", fanworks.UpdateFanwork)
		protected.DELETE("/:id", fanworks.DeleteFanwork)

		// Interactions
		protected.POST("/:id/like", likes.ToggleLike)
		protected.POST("/:id/bookmark", bookmarks.ToggleBookmark)
		protected.POST("/:id/comments", comment.CreateComment)
	}

	r.DELETE("/comments/:id", middleware.JWTAuth(), middleware.RequireNotBanned(), comment.DeleteComment)
}

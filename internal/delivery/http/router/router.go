// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"rentalhub/internal/delivery/http/middleware"
	"rentalhub/internal/delivery/http/router/handler"
	"rentalhub/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	PropertyHandler     *handler.PropertyHandler
	ReviewHandler       *handler.ReviewHandler
	FavoriteHandler     *handler.FavoriteHandler
	ViewingHandler      *handler.ViewingHandler
	ChatHandler         *handler.ChatHandler
	NotificationHandler *handler.NotificationHandler
	UploadHandler       *handler.UploadHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	auth          *handler.AuthHandler
	users         *handler.UserHandler
	properties    *handler.PropertyHandler
	reviews       *handler.ReviewHandler
	favorites     *handler.FavoriteHandler
	viewings      *handler.ViewingHandler
	chats         *handler.ChatHandler
	notifications *handler.NotificationHandler
	uploads       *handler.UploadHandler

	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		auth:           params.AuthHandler,
		users:          params.UserHandler,
		properties:     params.PropertyHandler,
		reviews:        params.ReviewHandler,
		favorites:      params.FavoriteHandler,
		viewings:       params.ViewingHandler,
		chats:          params.ChatHandler,
		notifications:  params.NotificationHandler,
		uploads:        params.UploadHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/health", handler.HealthCheck)

	authenticated := r.authMiddleware.Authenticate
	admin := r.authMiddleware.RequireRoles(entity.RoleAdmin)
	lister := r.authMiddleware.RequireRoles(entity.RoleOwner, entity.RoleAdmin)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.auth.Register)
		authGroup.POST("/login", r.auth.Login)
		authGroup.POST("/login/phone", r.auth.LoginWithPhone)
		authGroup.POST("/google", r.auth.Google)
		authGroup.POST("/refresh-token", r.auth.RefreshToken)

		authGroup.POST("/set-password", r.auth.SetPassword, authenticated)
		authGroup.GET("/me", r.auth.Me, authenticated)
		authGroup.PUT("/profile", r.auth.UpdateProfile, authenticated)
		authGroup.PUT("/preferences", r.auth.UpdatePreferences, authenticated)
		authGroup.PUT("/change-password", r.auth.ChangePassword, authenticated)
		authGroup.PUT("/fcm-token", r.auth.UpdateFCMToken, authenticated)
		authGroup.POST("/logout", r.auth.Logout, authenticated)
	}

	propertyGroup := api.Group("/properties")
	{
		propertyGroup.GET("", r.properties.List)
		propertyGroup.GET("/:id", r.properties.Get)
		propertyGroup.POST("/:id/view", r.properties.RecordView)
		propertyGroup.GET("/:id/qrcode", r.properties.QRCode)

		propertyGroup.GET("/owner/my-properties", r.properties.ListMine, authenticated)
		propertyGroup.POST("", r.properties.Create, authenticated, lister)
		propertyGroup.PUT("/:id", r.properties.Update, authenticated, lister)
		propertyGroup.DELETE("/:id", r.properties.Delete, authenticated, lister)
		propertyGroup.PUT("/:id/resubmit", r.properties.Resubmit, authenticated, lister)
		propertyGroup.PATCH("/:id/availability", r.properties.ToggleAvailability, authenticated, lister)

		propertyGroup.GET("/admin/pending", r.properties.ListPending, authenticated, admin)
		propertyGroup.GET("/admin/rejected", r.properties.ListRejected, authenticated, admin)
		propertyGroup.PUT("/:id/approve", r.properties.Approve, authenticated, admin)
		propertyGroup.PUT("/:id/reject", r.properties.Reject, authenticated, admin)
	}

	reviewGroup := api.Group("/reviews")
	{
		reviewGroup.GET("/property/:propertyId", r.reviews.ListByProperty)
		reviewGroup.GET("/user/:userId", r.reviews.ListByUser)

		reviewGroup.POST("", r.reviews.Create, authenticated)
		reviewGroup.PUT("/:id", r.reviews.Update, authenticated)
		reviewGroup.DELETE("/:id", r.reviews.Delete, authenticated)
		reviewGroup.POST("/:id/helpful", r.reviews.ToggleHelpful, authenticated)
	}

	favoriteGroup := api.Group("/favorites", authenticated)
	{
		favoriteGroup.GET("", r.favorites.List)
		favoriteGroup.GET("/ids", r.favorites.IDs)
		favoriteGroup.GET("/check/:propertyId", r.favorites.Check)
		favoriteGroup.POST("", r.favorites.Add)
		favoriteGroup.POST("/toggle/:propertyId", r.favorites.Toggle)
		favoriteGroup.DELETE("/:propertyId", r.favorites.Remove)
	}

	viewingGroup := api.Group("/viewings", authenticated)
	{
		viewingGroup.GET("/user", r.viewings.ListRequested)
		viewingGroup.GET("/owner", r.viewings.ListOwned, lister)
		viewingGroup.POST("", r.viewings.Create)
		viewingGroup.PUT("/:id/status", r.viewings.UpdateStatus)
		viewingGroup.DELETE("/:id", r.viewings.Delete)
	}

	chatGroup := api.Group("/chats", authenticated)
	{
		chatGroup.GET("", r.chats.List)
		chatGroup.GET("/unread-count", r.chats.UnreadCount)
		chatGroup.GET("/admin/support", r.chats.ListSupport, admin)
		chatGroup.POST("", r.chats.Open)
		chatGroup.POST("/support", r.chats.OpenSupport)
		chatGroup.GET("/:chatId/messages", r.chats.ListMessages)
		chatGroup.POST("/:chatId/messages", r.chats.SendMessage)
		chatGroup.DELETE("/:chatId/messages/:messageId", r.chats.DeleteMessage)
		chatGroup.PUT("/:chatId/read", r.chats.MarkRead)
	}

	notificationGroup := api.Group("/notifications", authenticated)
	{
		notificationGroup.GET("", r.notifications.List)
		notificationGroup.GET("/unread-count", r.notifications.UnreadCount)
		notificationGroup.PUT("/read-all", r.notifications.MarkAllRead)
		notificationGroup.PUT("/:id/read", r.notifications.MarkRead)
		notificationGroup.DELETE("/:id", r.notifications.Delete)
		notificationGroup.DELETE("", r.notifications.DeleteAll)
		notificationGroup.POST("", r.notifications.Create, admin)
	}

	userGroup := api.Group("/users")
	{
		userGroup.GET("", r.users.List, authenticated, admin)
		userGroup.GET("/stats", r.users.Stats, authenticated, admin)
		userGroup.GET("/:id", r.users.Get)
		userGroup.PUT("/:id", r.users.Update, authenticated, admin)
		userGroup.DELETE("/:id", r.users.Delete, authenticated, admin)
		userGroup.PATCH("/:id/toggle-active", r.users.ToggleActive, authenticated, admin)
	}

	uploadGroup := api.Group("/upload", authenticated)
	{
		uploadGroup.POST("/image", r.uploads.UploadImage)
		uploadGroup.POST("/images", r.uploads.UploadImages)
		uploadGroup.POST("/profile-photo", r.uploads.UploadProfilePhoto)
		uploadGroup.POST("/property/:propertyId", r.uploads.UploadPropertyImages)
		uploadGroup.DELETE("/image", r.uploads.DeleteImage)
		uploadGroup.DELETE("/property/:propertyId/image", r.uploads.DeletePropertyImage)
	}
}

package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/auth"
)

// RouterConfig carries every dependency the router needs. Stores are
// interfaces so handler tests can swap in whatever they like; nil optional
// dependencies disable their route group.
type RouterConfig struct {
	CatalogStore      CatalogStore
	CirculationStore  CirculationStore
	EngagementStore   EngagementStore
	NotificationStore NotificationStore
	UserStore         UserStore

	AuthMiddleware *auth.Middleware

	// TaskClient enables the admin maintenance endpoints when set.
	TaskClient       TaskClient
	OverdueDailyRate float64
	PurgeRetention   time.Duration

	Version string
	Commit  string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	health := NewHealthController(cfg.Version, cfg.Commit)
	books := NewBooksController(cfg.CatalogStore)
	authors := NewAuthorsController(cfg.CatalogStore)
	categories := NewCategoriesController(cfg.CatalogStore)
	borrows := NewBorrowsController(cfg.CirculationStore)
	fines := NewFinesController(cfg.CirculationStore)
	cards := NewLibraryCardController(cfg.CirculationStore)
	reviews := NewReviewsController(cfg.EngagementStore)
	wishlist := NewWishlistController(cfg.EngagementStore)
	progress := NewReadingProgressController(cfg.EngagementStore)
	notifications := NewNotificationsController(cfg.NotificationStore)
	users := NewUsersController(cfg.UserStore)

	// Health endpoints
	router.GET("/health", health.Health)
	router.GET("/ping", health.Ping)

	// Identity bridge
	router.POST("/auth/user", users.SyncUser)
	router.GET("/api/users", users.GetUser)

	// Catalog endpoints
	router.GET("/api/books", books.ListBooks)
	router.POST("/api/books", books.CreateBook)
	router.GET("/api/authors", authors.ListAuthors)
	router.POST("/api/authors", authors.CreateAuthor)
	router.GET("/api/categories", categories.ListCategories)
	router.POST("/api/categories", categories.CreateCategory)

	// Circulation endpoints
	router.GET("/api/borrows", borrows.ListBorrows)
	router.POST("/api/borrows", borrows.CreateBorrow)
	router.POST("/api/borrows/:id/return", borrows.ReturnBorrow)
	router.GET("/api/fines", fines.ListFines)
	router.POST("/api/fines", fines.CreateFine)
	router.PATCH("/api/fines", fines.UpdateFine)
	router.GET("/api/library-card", cards.GetCard)
	router.POST("/api/library-card", cards.IssueCard)
	router.PATCH("/api/library-card", cards.UpdateCard)

	// Engagement endpoints
	router.GET("/api/reviews", reviews.ListReviews)
	router.POST("/api/reviews", reviews.CreateReview)
	router.GET("/api/wishlist", wishlist.ListWishlist)
	router.POST("/api/wishlist", wishlist.AddToWishlist)
	router.DELETE("/api/wishlist", wishlist.RemoveFromWishlist)
	router.GET("/api/reading-progress", progress.GetProgress)
	router.POST("/api/reading-progress", progress.SaveProgress)

	// Notification endpoints
	router.GET("/api/notifications", notifications.ListNotifications)
	router.POST("/api/notifications", notifications.CreateNotification)
	router.PATCH("/api/notifications", notifications.MarkNotification)

	// Maintenance task endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient, cfg.OverdueDailyRate, cfg.PurgeRetention)
		router.GET("/api/admin/tasks/types", tasksController.ListTaskTypes)
		router.GET("/api/admin/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/api/admin/tasks/:type/run", tasksController.RunTask)
	}

	return router
}

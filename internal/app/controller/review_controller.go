package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kraakman/autoservice-backend/internal/app/service"
	apperrors "github.com/kraakman/autoservice-backend/internal/errors"
	"github.com/kraakman/autoservice-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
	syncService   service.ReviewSyncService
}

func NewReviewController(reviewService service.ReviewService, syncService service.ReviewSyncService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
		syncService:   syncService,
	}
}

// GetReviews returns the Google review block for the homepage.
// GET /api/v1/reviews
func (ctrl *ReviewController) GetReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	view, err := ctrl.reviewService.GetReviews(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrReviewsUnavailable) {
			log.Error("Reviews unavailable from all sources", err, nil)
			apperrors.ReviewsUnavailableError(c)
			return
		}
		log.Error("Failed to fetch reviews", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Reviews fetched successfully", map[string]interface{}{
		"source":         view.Source,
		"using_fallback": view.UsingFallback,
		"count":          len(view.Reviews),
	})

	c.JSON(http.StatusOK, view)
}

// TriggerSync runs a review sync on demand (admin only).
// POST /api/v1/admin/reviews/sync
func (ctrl *ReviewController) TriggerSync(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	result, err := ctrl.syncService.Sync(c.Request.Context(), "manual")
	if err != nil {
		log.Error("Manual review sync failed", err, nil)
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.ReviewSyncFailed,
			"Synchroniseren van de reviews is mislukt.", nil)
		return
	}

	log.Info("Manual review sync completed", map[string]interface{}{
		"fetched": result.Fetched,
		"added":   result.Added,
		"updated": result.Updated,
		"deleted": result.Deleted,
	})

	c.JSON(http.StatusOK, gin.H{
		"result": result,
	})
}

// GetHealth reports the state of the review cache (admin only).
// GET /api/v1/admin/reviews/health
func (ctrl *ReviewController) GetHealth(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	health, err := ctrl.syncService.Health(c.Request.Context())
	if err != nil {
		log.Error("Failed to determine review cache health", err, nil)
		apperrors.DatabaseError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"health": health,
	})
}

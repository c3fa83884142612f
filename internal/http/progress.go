package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kotoba/internal/logger"
)

type ProgressController struct {
	progress ProgressReader
	reviews  ReviewRecorder
	log      *logger.Logger
}

func NewProgressController(progress ProgressReader, reviews ReviewRecorder, log *logger.Logger) *ProgressController {
	return &ProgressController{progress: progress, reviews: reviews, log: log}
}

// All handles GET /api/progress?user_id=
func (pc *ProgressController) All(c *gin.Context) {
	views, err := pc.progress.AllLessons(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, pc.log, err, "progress")
		return
	}
	c.JSON(http.StatusOK, views)
}

// Lesson handles GET /api/lessons/:slug/progress?user_id=
func (pc *ProgressController) Lesson(c *gin.Context) {
	slug, ok := slugParam(c)
	if !ok {
		return
	}
	lookup, err := pc.progress.LessonProgress(c.Request.Context(), userID(c), slug)
	if err != nil {
		respondError(c, pc.log, err, "lesson")
		return
	}
	view, found := lookup.Get()
	if !found {
		respondNotFound(c, "lesson")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ReviewRequest is the body of POST /api/reviews.
type ReviewRequest struct {
	UserID       string `json:"user_id"`
	VocabEntryID string `json:"vocab_entry_id" binding:"required"`
	Grade        *int   `json:"grade" binding:"required"`
}

// Review handles POST /api/reviews
func (pc *ProgressController) Review(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	user := req.UserID
	if user == "" {
		user = userID(c)
	}

	state, err := pc.reviews.RecordReview(c.Request.Context(), user, req.VocabEntryID, *req.Grade)
	if err != nil {
		respondError(c, pc.log, err, "vocabulary entry")
		return
	}
	c.JSON(http.StatusOK, state)
}

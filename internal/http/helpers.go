package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kotoba/internal/config"
	"github.com/mrlokans/kotoba/internal/entities"
	"github.com/mrlokans/kotoba/internal/logger"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: "invalid_input"})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondError maps a domain error onto a status code. Unclassified errors
// are logged and hidden behind a generic 500.
func respondError(c *gin.Context, log *logger.Logger, err error, resource string) {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		respondNotFound(c, resource)
	case errors.Is(err, entities.ErrInvalidInput):
		respondBadRequest(c, err.Error())
	case errors.Is(err, entities.ErrConstraintViolation):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "conflict"})
	case errors.Is(err, entities.ErrStorageUnavailable):
		log.Warn("storage unavailable", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "storage unavailable", Code: "unavailable"})
	default:
		log.Error("internal error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// --- Parameter Parsing ---

// userID returns the user_id query parameter, falling back to the local
// learner.
func userID(c *gin.Context) string {
	if id := strings.TrimSpace(c.Query("user_id")); id != "" {
		return id
	}
	return config.DefaultUserID
}

// slugParam extracts the lesson slug and rejects malformed values with 400.
func slugParam(c *gin.Context) (string, bool) {
	slug := c.Param("slug")
	if !entities.ValidSlug(slug) {
		respondBadRequest(c, "invalid slug")
		return "", false
	}
	return slug, true
}

package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/kotoba/internal/logger"
)

// AdminController handles maintenance endpoints. With a task queue the work
// is enqueued, otherwise it runs within the request.
type AdminController struct {
	renumberer Renumberer
	queue      TaskQueue
	log        *logger.Logger
}

func NewAdminController(renumberer Renumberer, queue TaskQueue, log *logger.Logger) *AdminController {
	return &AdminController{renumberer: renumberer, queue: queue, log: log}
}

// Renumber handles POST /api/admin/lessons/:slug/renumber
func (ac *AdminController) Renumber(c *gin.Context) {
	slug, ok := slugParam(c)
	if !ok {
		return
	}

	if ac.queue != nil {
		taskID, err := ac.queue.EnqueueRenumber(slug)
		if err != nil {
			respondError(c, ac.log, err, "task")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"task_id": taskID,
			"type":    "renumber_vocab",
			"message": "task enqueued",
		})
		return
	}

	written, err := ac.renumberer.RenumberVocabulary(c.Request.Context(), slug)
	if err != nil {
		respondError(c, ac.log, err, "lesson")
		return
	}
	c.JSON(http.StatusOK, gin.H{"slug": slug, "written": written})
}

// TaskStatus handles GET /api/admin/tasks/:id
func (ac *AdminController) TaskStatus(c *gin.Context) {
	if ac.queue == nil {
		respondNotFound(c, "task queue")
		return
	}
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := ac.queue.Status(ctx, taskID)
	if err != nil {
		respondError(c, ac.log, err, "task")
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondNotFound(c, "task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

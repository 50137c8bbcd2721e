package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/openshelf/openshelf/internal/tasks"
)

// TaskClient is the queue surface the admin endpoints need.
type TaskClient interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// TasksController handles maintenance task management endpoints.
type TasksController struct {
	client    TaskClient
	dailyRate float64
	retention time.Duration
}

// NewTasksController creates a new TasksController. dailyRate and retention
// are the defaults applied when a manual trigger omits them.
func NewTasksController(client TaskClient, dailyRate float64, retention time.Duration) *TasksController {
	return &TasksController{client: client, dailyRate: dailyRate, retention: retention}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// ListTaskTypes handles GET /api/admin/tasks/types
// Returns the list of available task types that can be triggered.
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	types := []TaskTypeInfo{
		{
			Type:        "overdue_scan",
			Description: "Fine overdue borrows and notify the affected users",
			Queue:       "overdue_scan",
		},
		{
			Type:        "purge_notifications",
			Description: "Delete expired notifications past the retention window",
			Queue:       "purge_notifications",
		},
	}

	c.JSON(http.StatusOK, gin.H{"task_types": types})
}

// GetTaskStatus handles GET /api/admin/tasks/:id
// Returns the status of a specific task.
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

// RunTask handles POST /api/admin/tasks/:type/run
// Manually triggers a maintenance task of the specified type.
func (tc *TasksController) RunTask(c *gin.Context) {
	var task backlite.Task
	taskType := c.Param("type")
	switch taskType {
	case "overdue_scan":
		task = tasks.OverdueScanTask{DailyRate: tc.dailyRate}
	case "purge_notifications":
		task = tasks.PurgeNotificationsTask{Retention: tc.retention}
	default:
		respondBadRequest(c, fmt.Sprintf("unknown task type: %s", taskType))
		return
	}

	ids, err := tc.client.Add(task).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue task")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"taskId":  ids[0],
		"type":    taskType,
		"message": "task enqueued",
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

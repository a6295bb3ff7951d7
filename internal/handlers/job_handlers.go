package handlers

import (
	"net/http"

	"savor/internal/common"
	"savor/internal/jobs/background"

	"github.com/labstack/echo/v4"
)

// JobRunner is the part of the scheduler exposed over HTTP.
type JobRunner interface {
	GetJobStatus() []background.JobStatus
	RunNow(name string) error
	RemoveJob(name string) error
}

type JobHandlers struct {
	scheduler JobRunner
}

func NewJobHandlers(scheduler JobRunner) *JobHandlers {
	return &JobHandlers{scheduler: scheduler}
}

// ListJobs returns every scheduled job with its last and next run
func (h *JobHandlers) ListJobs(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"jobs": h.scheduler.GetJobStatus(),
	})
}

// RunJob triggers a job immediately; it runs in the background
func (h *JobHandlers) RunJob(c echo.Context) error {
	name := c.Param("name")
	if err := h.scheduler.RunNow(name); err != nil {
		return common.SendNotFoundError(c, "Job "+name)
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "Job triggered",
		"name":    name,
	})
}

// RemoveJob unschedules a job until the next restart
func (h *JobHandlers) RemoveJob(c echo.Context) error {
	name := c.Param("name")
	if err := h.scheduler.RemoveJob(name); err != nil {
		return common.SendNotFoundError(c, "Job "+name)
	}

	return c.NoContent(http.StatusNoContent)
}

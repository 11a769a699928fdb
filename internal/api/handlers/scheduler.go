package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quantweb/quantbot/internal/scheduler"
	"github.com/quantweb/quantbot/pkg/logger"
)

// SchedulerHandler exposes the scheduler's job registry and run history
type SchedulerHandler struct {
	sched  *scheduler.Scheduler
	logger *logger.Logger
}

// NewSchedulerHandler creates a new scheduler handler
func NewSchedulerHandler(sched *scheduler.Scheduler, log *logger.Logger) *SchedulerHandler {
	return &SchedulerHandler{
		sched:  sched,
		logger: log,
	}
}

// GetJobs lists registered jobs with their run statistics
// GET /api/scheduler/jobs
func (h *SchedulerHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  h.sched.GetAllJobs(),
		"stats": h.sched.GetJobStats(),
	})
}

// RunJob triggers a job outside its schedule. The run is asynchronous;
// its outcome lands in the job history.
// POST /api/scheduler/jobs/{name}/run
func (h *SchedulerHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.sched.RunJob(name); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	h.logger.WithField("job", name).Info("Job triggered via API")
	respondJSON(w, http.StatusAccepted, map[string]string{
		"status": "triggered",
		"job":    name,
	})
}

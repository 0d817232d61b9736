package handlers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/walletkun/jobapp-tracker/internal/dtos"
	"github.com/walletkun/jobapp-tracker/internal/models"
	"github.com/walletkun/jobapp-tracker/internal/services"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"label": func(s models.Status) string { return s.Label() },
}

var errInvalidID = errors.New("invalid application id")

type TrackerHandler struct {
	Tracker *services.TrackerService
	Log     *zap.Logger
}

func NewTrackerHandler(tracker *services.TrackerService, log *zap.Logger) *TrackerHandler {
	return &TrackerHandler{Tracker: tracker, Log: log}
}

type indexPage struct {
	Applications []models.Application
	Statuses     []services.StatusProgress
	Form         dtos.ApplicationForm
	Error        string
	Query        string
}

// Index is GET /. It refreshes the list and renders the page.
func (h *TrackerHandler) Index(c *gin.Context) {
	// the redirect after a successful form post finds the list already fresh
	if !h.Tracker.TakeRefreshed() {
		// a failed fetch is shown through the error slot
		_, _ = h.Tracker.FetchApplications(c.Request.Context())
	}

	query := c.Query("q")
	c.HTML(http.StatusOK, "index.html", indexPage{
		Applications: services.FilterApplications(h.Tracker.Applications(), query),
		Statuses:     h.Tracker.ProgressTable(),
		Form:         h.Tracker.Form(),
		Error:        h.Tracker.LastError(),
		Query:        query,
	})
}

// Submit is POST /applications.
func (h *TrackerHandler) Submit(c *gin.Context) {
	var form dtos.ApplicationForm
	if err := c.ShouldBind(&form); err != nil {
		// required fields are checked again by the tracker, which owns the message
		h.Log.Debug("application form binding", zap.Error(err))
	}
	_, _ = h.Tracker.Submit(c.Request.Context(), form)
	c.Redirect(http.StatusSeeOther, "/")
}

// UpdateStatus is POST /applications/:id/status.
func (h *TrackerHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.applicationID(c)
	if !ok {
		return
	}
	var form dtos.StatusForm
	if err := c.ShouldBind(&form); err != nil {
		h.Tracker.RecordError(err)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	_, _ = h.Tracker.UpdateStatus(c.Request.Context(), id, form.Status)
	c.Redirect(http.StatusSeeOther, "/")
}

// Delete is POST /applications/:id/delete.
func (h *TrackerHandler) Delete(c *gin.Context) {
	id, ok := h.applicationID(c)
	if !ok {
		return
	}
	_ = h.Tracker.DeleteApplication(c.Request.Context(), id)
	c.Redirect(http.StatusSeeOther, "/")
}

// State is GET /api/v1/state: the page state without refreshing it.
func (h *TrackerHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"applications": h.Tracker.Applications(),
		"error":        h.Tracker.LastError(),
		"form":         h.Tracker.Form(),
	})
}

func (h *TrackerHandler) Statuses(c *gin.Context) {
	c.JSON(http.StatusOK, h.Tracker.ProgressTable())
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *TrackerHandler) applicationID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		h.Tracker.RecordError(errInvalidID)
		h.Log.Warn("bad application id", zap.String("id", c.Param("id")))
		c.Redirect(http.StatusSeeOther, "/")
		return 0, false
	}
	return uint(id), true
}

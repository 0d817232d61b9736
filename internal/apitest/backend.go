// Package apitest provides an in-memory stand-in for the applications API,
// used by tests that need a live HTTP endpoint.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/walletkun/jobapp-tracker/internal/models"
)

type failure struct {
	status int
	body   any
}

// Backend mimics the applications REST API over an in-memory map.
type Backend struct {
	URL string

	mu       sync.Mutex
	nextID   uint
	apps     map[uint]models.Application
	failures map[string]failure
	requests []string
	server   *httptest.Server
}

// NewBackend starts a backend that is shut down with the test.
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &Backend{
		nextID:   1,
		apps:     map[uint]models.Application{},
		failures: map[string]failure{},
	}

	r := gin.New()
	r.Use(b.record, b.injectFailure)
	api := r.Group("/api/applications")
	{
		api.GET("", b.list)
		api.POST("", b.create)
		api.GET("/stats", b.stats)
		api.GET("/:id", b.get)
		api.PATCH("/:id", b.patch)
		api.DELETE("/:id", b.delete)
	}

	b.server = httptest.NewServer(r)
	b.URL = b.server.URL
	t.Cleanup(b.server.Close)
	return b
}

// Seed inserts an application directly and returns it with its id.
func (b *Backend) Seed(company, position string, status models.Status, progress int) models.Application {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insert(company, position, status, progress)
}

// Fail makes the next request with method answer with status and body.
func (b *Backend) Fail(method string, status int, body any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[strings.ToUpper(method)] = failure{status: status, body: body}
}

// Snapshot returns the stored applications ordered by id.
func (b *Backend) Snapshot() []models.Application {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sorted()
}

// Requests lists "METHOD /path" for every request served so far.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func (b *Backend) insert(company, position string, status models.Status, progress int) models.Application {
	now := time.Now()
	app := models.Application{
		ID:        b.nextID,
		Company:   company,
		Position:  position,
		Status:    status,
		Progress:  progress,
		CreatedAt: models.Timestamp{Time: now},
		UpdatedAt: models.Timestamp{Time: now},
	}
	b.apps[app.ID] = app
	b.nextID++
	return app
}

func (b *Backend) sorted() []models.Application {
	out := make([]models.Application, 0, len(b.apps))
	for _, a := range b.apps {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *Backend) record(c *gin.Context) {
	b.mu.Lock()
	b.requests = append(b.requests, c.Request.Method+" "+c.Request.URL.Path)
	b.mu.Unlock()
	c.Next()
}

func (b *Backend) injectFailure(c *gin.Context) {
	b.mu.Lock()
	f, ok := b.failures[c.Request.Method]
	if ok {
		delete(b.failures, c.Request.Method)
	}
	b.mu.Unlock()

	if !ok {
		c.Next()
		return
	}
	if s, isString := f.body.(string); isString {
		c.String(f.status, s)
	} else {
		c.JSON(f.status, f.body)
	}
	c.Abort()
}

func (b *Backend) list(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, b.sorted())
}

func (b *Backend) create(c *gin.Context) {
	var body struct {
		Company  *string `json:"company"`
		Position *string `json:"position"`
		Status   *string `json:"status"`
		Progress *int    `json:"progress"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Company == nil || body.Position == nil || body.Status == nil || body.Progress == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	st, err := models.ParseStatus(*body.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *body.Progress < 0 || *body.Progress > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Progress must be between 0 and 100"})
		return
	}

	b.mu.Lock()
	app := b.insert(*body.Company, *body.Position, st, *body.Progress)
	b.mu.Unlock()
	c.JSON(http.StatusCreated, app)
}

func (b *Backend) lookup(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	if _, ok := b.apps[uint(id)]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}

func (b *Backend) get(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if id, ok := b.lookup(c); ok {
		c.JSON(http.StatusOK, b.apps[id])
	}
}

func (b *Backend) patch(c *gin.Context) {
	var body struct {
		Status   *string `json:"status"`
		Progress *int    `json:"progress"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Status == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error: ": "Missing 'status' field"})
		return
	}
	st, err := models.ParseStatus(*body.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error: ": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.lookup(c)
	if !ok {
		return
	}
	app := b.apps[id]
	app.Status = st
	if body.Progress != nil {
		app.Progress = *body.Progress
	}
	app.UpdatedAt = models.Timestamp{Time: time.Now()}
	b.apps[id] = app
	c.JSON(http.StatusOK, app)
}

func (b *Backend) delete(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.lookup(c)
	if !ok {
		return
	}
	delete(b.apps, id)
	c.JSON(http.StatusOK, gin.H{"Message: ": "Application deleted successfully"})
}

func (b *Backend) stats(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	breakdown := map[string]int{}
	var latest *models.Application
	for _, a := range b.sorted() {
		breakdown[string(a.Status)]++
		a := a
		latest = &a
	}
	c.JSON(http.StatusOK, models.Stats{
		TotalApplications: len(b.apps),
		StatusBreakdown:   breakdown,
		LatestApplication: latest,
	})
}

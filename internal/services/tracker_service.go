package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/walletkun/jobapp-tracker/internal/dtos"
	"github.com/walletkun/jobapp-tracker/internal/models"
)

const MsgRequiredFields = "company and position are required"

// ApplicationsAPI is the remote collection as the tracker sees it.
type ApplicationsAPI interface {
	List(ctx context.Context) ([]models.Application, error)
	Create(ctx context.Context, req dtos.CreateApplicationRequest) (*models.Application, error)
	UpdateStatus(ctx context.Context, id uint, req dtos.UpdateStatusRequest) (*models.Application, error)
	Delete(ctx context.Context, id uint) error
}

// TrackerService holds the tracker page state: a read-only copy of the
// remote list, the new-application form and the last error message.
// The list only ever changes through a successful fetch.
type TrackerService struct {
	api      ApplicationsAPI
	progress models.ProgressTable
	log      *zap.Logger

	mu           sync.RWMutex
	applications []models.Application
	lastError    string
	form         dtos.ApplicationForm

	justRefreshed bool
}

func NewTrackerService(api ApplicationsAPI, progress models.ProgressTable, log *zap.Logger) *TrackerService {
	if progress == nil {
		progress = models.DefaultProgress
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TrackerService{
		api:          api,
		progress:     progress,
		log:          log,
		applications: []models.Application{},
		form:         defaultForm(),
	}
}

func defaultForm() dtos.ApplicationForm {
	return dtos.ApplicationForm{Status: string(models.StatusApplied)}
}

// FetchApplications replaces the local list with the remote one. On failure
// the previous list is kept.
func (s *TrackerService) FetchApplications(ctx context.Context) ([]models.Application, error) {
	apps, err := s.api.List(ctx)
	if err != nil {
		s.failRemote("Error fetching applications", MsgFetchFailed, err)
		return nil, err
	}

	s.mu.Lock()
	s.applications = apps
	s.mu.Unlock()
	return s.Applications(), nil
}

// Submit creates an application from form and refreshes the list.
func (s *TrackerService) Submit(ctx context.Context, form dtos.ApplicationForm) (*models.Application, error) {
	s.mu.Lock()
	s.form = form
	s.mu.Unlock()

	if strings.TrimSpace(form.Company) == "" || strings.TrimSpace(form.Position) == "" {
		err := errors.New(MsgRequiredFields)
		s.fail("Error creating application", err)
		return nil, err
	}

	status := models.StatusApplied
	if strings.TrimSpace(form.Status) != "" {
		st, err := models.ParseStatus(form.Status)
		if err != nil {
			s.fail("Error creating application", err)
			return nil, err
		}
		status = st
	}

	req := dtos.CreateApplicationRequest{
		Company:  form.Company,
		Position: form.Position,
		Status:   status,
		Progress: s.progress.For(status),
	}
	s.log.Debug("submitting application", zap.Any("request", req))

	created, err := s.api.Create(ctx, req)
	if err != nil {
		s.failRemote("Error creating application", MsgCreateFailed, err)
		return nil, err
	}
	s.log.Info("application created", zap.Uint("id", created.ID), zap.String("company", created.Company))

	s.mu.Lock()
	s.form = defaultForm()
	s.lastError = ""
	s.mu.Unlock()

	return created, s.refresh(ctx)
}

// UpdateStatus moves an application to status, with progress derived from it.
func (s *TrackerService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Application, error) {
	st, err := models.ParseStatus(status)
	if err != nil {
		s.fail("Error updating application status", err)
		return nil, err
	}

	updated, err := s.api.UpdateStatus(ctx, id, dtos.UpdateStatusRequest{
		Status:   st,
		Progress: s.progress.For(st),
	})
	if err != nil {
		s.failRemote("Error updating application status", MsgUpdateFailed, err, zap.Uint("id", id))
		return nil, err
	}
	s.log.Info("status updated", zap.Uint("id", id), zap.String("status", string(st)))

	s.ClearError()
	return updated, s.refresh(ctx)
}

func (s *TrackerService) DeleteApplication(ctx context.Context, id uint) error {
	if err := s.api.Delete(ctx, id); err != nil {
		s.failRemote("Error deleting application", MsgDeleteFailed, err, zap.Uint("id", id))
		return err
	}
	s.log.Info("application deleted", zap.Uint("id", id))

	s.ClearError()
	return s.refresh(ctx)
}

// refresh refetches after a mutation and remembers that the list is current.
func (s *TrackerService) refresh(ctx context.Context) error {
	if _, err := s.FetchApplications(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.justRefreshed = true
	s.mu.Unlock()
	return nil
}

// TakeRefreshed reports whether the last mutation already refetched the
// list, and resets the mark. The page uses it to skip a second fetch on the
// redirect that follows a form post.
func (s *TrackerService) TakeRefreshed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	fresh := s.justRefreshed
	s.justRefreshed = false
	return fresh
}

// Watch refetches every interval until ctx is done. A zero interval disables it.
func (s *TrackerService) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.log.Debug("refresh watcher disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// errors already land in the error slot
			_, _ = s.FetchApplications(ctx)
		}
	}
}

// Applications returns a copy of the local list.
func (s *TrackerService) Applications() []models.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Application, len(s.applications))
	copy(out, s.applications)
	return out
}

func (s *TrackerService) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

func (s *TrackerService) ClearError() {
	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
}

// Form returns the form as last submitted, or the defaults after a success.
func (s *TrackerService) Form() dtos.ApplicationForm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.form
}

func (s *TrackerService) ProgressFor(status models.Status) int {
	return s.progress.For(status)
}

// ProgressTable returns the statuses with their progress in display order.
func (s *TrackerService) ProgressTable() []StatusProgress {
	out := make([]StatusProgress, 0, len(models.AllStatuses()))
	for _, st := range models.AllStatuses() {
		out = append(out, StatusProgress{Status: st, Progress: s.progress.For(st)})
	}
	return out
}

type StatusProgress struct {
	Status   models.Status `json:"status"`
	Progress int           `json:"progress"`
}

// RecordError puts err in the error slot, replacing whatever was there.
func (s *TrackerService) RecordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

func (s *TrackerService) fail(msg string, err error, fields ...zap.Field) {
	s.RecordError(err)
	s.log.Error(msg, append(fields, zap.Error(err))...)
}

// failRemote records a failed API call. Users only ever see the backend's
// message or generic; the underlying cause goes to the log.
func (s *TrackerService) failRemote(msg, generic string, err error, fields ...zap.Field) {
	shown := generic
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		shown = apiErr.Message
		if apiErr.Err != nil {
			fields = append(fields, zap.NamedError("cause", apiErr.Err))
		}
	}

	s.mu.Lock()
	s.lastError = shown
	s.justRefreshed = false
	s.mu.Unlock()
	s.log.Error(msg, append(fields, zap.Error(err))...)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/znlumins/webkalenderaihmpsti/internal/dto"
	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
	"github.com/znlumins/webkalenderaihmpsti/pkg/realtime"
)

type prokerRepository interface {
	List(ctx context.Context) ([]models.Proker, error)
	FindByID(ctx context.Context, id string) (*models.Proker, error)
	Create(ctx context.Context, proker *models.Proker) error
	Update(ctx context.Context, proker *models.Proker) error
	Delete(ctx context.Context, id string) error
}

type eventFileLister interface {
	FileURLsByProker(ctx context.Context, prokerID string) ([]string, error)
}

// ProkerService manages work programmes.
type ProkerService struct {
	repo      prokerRepository
	files     eventFileLister
	cache     *EventCache
	publisher ChangePublisher
	blobs     BlobReleaser
	audit     auditTrail
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProkerService constructs a ProkerService.
func NewProkerService(repo prokerRepository, files eventFileLister, cache *EventCache, publisher ChangePublisher, blobs BlobReleaser, audit auditRepository, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ProkerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProkerService{
		repo:      repo,
		files:     files,
		cache:     cache,
		publisher: publisher,
		blobs:     blobs,
		audit:     auditTrail{repo: audit, logger: logger},
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// List returns every proker ordered by name.
func (s *ProkerService) List(ctx context.Context) ([]models.Proker, error) {
	prokers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "list prokers")
	}
	return prokers, nil
}

// Create stores a proker. Department admins always create in their own department.
func (s *ProkerService) Create(ctx context.Context, actor *models.Actor, req dto.ProkerRequest) (*models.Proker, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Because(appErrors.ErrValidation, err, "invalid proker payload")
	}
	dept, err := resolveDepartment(actor, req.DepartmentID, 0)
	if err != nil {
		return nil, err
	}

	proker := &models.Proker{Name: strings.TrimSpace(req.Name), DepartmentID: dept, LogoURL: req.LogoURL}
	if err := s.repo.Create(ctx, proker); err != nil {
		return nil, appErrors.Store(err, "create proker")
	}

	s.afterWrite(ctx, realtime.ActionInsert, proker.ID)
	s.audit.record(ctx, actor, models.AuditActionProkerCreate, tableProkers, proker.ID, nil, proker)
	return proker, nil
}

// Update renames, moves or re-brands a proker.
func (s *ProkerService) Update(ctx context.Context, actor *models.Actor, id string, req dto.ProkerRequest) (*models.Proker, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Because(appErrors.ErrValidation, err, "invalid proker payload")
	}
	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeDepartment(actor, existing.DepartmentID); err != nil {
		return nil, err
	}
	dept, err := resolveDepartment(actor, req.DepartmentID, existing.DepartmentID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = strings.TrimSpace(req.Name)
	updated.DepartmentID = dept
	updated.LogoURL = req.LogoURL
	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "proker not found")
		}
		return nil, appErrors.Store(err, "update proker")
	}

	if existing.LogoURL != "" && existing.LogoURL != updated.LogoURL {
		s.release(ctx, existing.LogoURL)
	}
	s.afterWrite(ctx, realtime.ActionUpdate, updated.ID)
	s.audit.record(ctx, actor, models.AuditActionProkerUpdate, tableProkers, updated.ID, existing, updated)
	return &updated, nil
}

// Delete removes a proker; the store cascades the delete to its events.
func (s *ProkerService) Delete(ctx context.Context, actor *models.Actor, id string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	existing, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeDepartment(actor, existing.DepartmentID); err != nil {
		return err
	}

	var orphaned []string
	if s.files != nil {
		urls, err := s.files.FileURLsByProker(ctx, id)
		if err != nil {
			s.logger.Warn("failed to collect event files before proker delete", zap.String("proker_id", id), zap.Error(err))
		}
		orphaned = urls
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "proker not found")
		}
		return appErrors.Store(err, "delete proker")
	}

	s.release(ctx, existing.LogoURL)
	for _, url := range orphaned {
		s.release(ctx, url)
	}
	s.afterWrite(ctx, realtime.ActionDelete, id)
	s.audit.record(ctx, actor, models.AuditActionProkerDelete, tableProkers, id, existing, nil)
	return nil
}

func (s *ProkerService) find(ctx context.Context, id string) (*models.Proker, error) {
	proker, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "proker not found")
		}
		return nil, appErrors.Store(err, "find proker")
	}
	return proker, nil
}

// afterWrite also announces an events change: event rows embed proker fields
// and a delete cascades to them.
func (s *ProkerService) afterWrite(ctx context.Context, action realtime.Action, id string) {
	s.metrics.RecordWrite(tableProkers, string(action))
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	if s.publisher == nil {
		return
	}
	now := time.Now().UTC()
	for _, table := range []string{tableProkers, tableEvents} {
		if err := s.publisher.Publish(ctx, realtime.Change{Table: table, Action: action, ID: id, At: now}); err != nil {
			s.logger.Warn("failed to publish change", zap.String("table", table), zap.String("id", id), zap.Error(err))
		}
	}
}

func (s *ProkerService) release(ctx context.Context, url string) {
	if url != "" && s.blobs != nil {
		s.blobs.Release(ctx, url)
	}
}

// resolveDepartment picks the department a proker is written to. requested
// is 0 when the payload omits it; fallback is used then (0 for creates).
func resolveDepartment(actor *models.Actor, requested, fallback int) (int, error) {
	caps := CapabilitiesFor(actor)
	if forced := caps.ForcedDepartment(); forced != nil {
		if requested != 0 && requested != *forced {
			return 0, appErrors.Clone(appErrors.ErrForbidden, "you can only manage your own department")
		}
		return *forced, nil
	}
	if !caps.AllDepartments {
		return 0, appErrors.Clone(appErrors.ErrForbidden, "account has no department")
	}
	dept := requested
	if dept == 0 {
		dept = fallback
	}
	if _, ok := models.FindDepartment(dept); !ok {
		return 0, appErrors.Clone(appErrors.ErrValidation, "department_id must reference an existing department")
	}
	return dept, nil
}

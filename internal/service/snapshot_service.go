package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/academics-api/internal/models"
	appErrors "github.com/noah-isme/academics-api/pkg/errors"
	"github.com/noah-isme/academics-api/pkg/jobs"
)

// Snapshot write results recorded in metrics.
const (
	SnapshotStored    = "stored"
	SnapshotDuplicate = "duplicate"
	SnapshotFailed    = "failed"
)

const snapshotJobType = "snapshot"

type snapshotRepository interface {
	Insert(ctx context.Context, snapshot *models.Snapshot) (bool, error)
	List(ctx context.Context, filter models.SnapshotFilter) ([]models.Snapshot, error)
	Latest(ctx context.Context, regNo string, kind models.SnapshotKind) (*models.Snapshot, error)
}

// SnapshotServiceConfig configures asynchronous persistence.
type SnapshotServiceConfig struct {
	Enabled    bool
	Workers    int
	Retries    int
	RetryDelay time.Duration
	BufferSize int
}

// SnapshotService persists decoded aggregates through a worker queue and
// serves them back.
type SnapshotService struct {
	repo      snapshotRepository
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	queue     *jobs.Queue
	enabled   bool
	now       func() time.Time
}

// NewSnapshotService constructs the service. The queue is only created when
// persistence is enabled.
func NewSnapshotService(repo snapshotRepository, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg SnapshotServiceConfig) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 256
	}
	svc := &SnapshotService{
		repo:      repo,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		enabled:   cfg.Enabled && repo != nil,
		now:       time.Now,
	}
	if svc.enabled {
		svc.queue = jobs.NewQueue("snapshots", svc.persist, jobs.QueueConfig{
			Workers:    cfg.Workers,
			BufferSize: cfg.BufferSize,
			MaxRetries: cfg.Retries,
			RetryDelay: cfg.RetryDelay,
			Logger:     logger,
			OnDrop:     svc.onDrop,
		})
	}
	return svc
}

// Start launches the persistence workers.
func (s *SnapshotService) Start(ctx context.Context) {
	if s == nil || s.queue == nil {
		return
	}
	s.queue.Start(ctx)
}

// Stop waits for running writes. Snapshots still buffered are discarded.
func (s *SnapshotService) Stop() {
	if s == nil || s.queue == nil {
		return
	}
	s.queue.Stop()
}

// RecordEnrollment schedules persistence of a decoded enrollment.
func (s *SnapshotService) RecordEnrollment(user *models.User, payloadHash string) error {
	if s == nil || !s.enabled || user == nil {
		return nil
	}
	snapshot := &models.Snapshot{
		RegNo:        user.RegNo,
		Kind:         models.SnapshotKindEnrollment,
		PayloadHash:  payloadHash,
		TotalCredits: user.TotalCredits(),
	}
	if meta := user.CoursesMetadata; meta != nil {
		semester := meta.Semester
		snapshot.Semester = &semester
		snapshot.TotalCredits = meta.TotalCredits
		snapshot.RefreshedAt = meta.RefreshedAt
	}
	return s.enqueue(snapshot, user)
}

// RecordGradeHistory schedules persistence of a decoded grade history.
func (s *SnapshotService) RecordGradeHistory(regNo string, history *models.AcademicHistory, payloadHash string) error {
	if s == nil || !s.enabled || history == nil || regNo == "" {
		return nil
	}
	cgpa := history.CGPA
	snapshot := &models.Snapshot{
		RegNo:        regNo,
		Kind:         models.SnapshotKindGradeHistory,
		PayloadHash:  payloadHash,
		TotalCredits: history.CreditsEarned,
		CGPA:         &cgpa,
		RefreshedAt:  history.LastRefreshed,
	}
	return s.enqueue(snapshot, history)
}

func (s *SnapshotService) enqueue(snapshot *models.Snapshot, document interface{}) error {
	raw, err := sonic.Marshal(document)
	if err != nil {
		return fmt.Errorf("encode snapshot document: %w", err)
	}
	snapshot.Document = types.JSONText(raw)
	if snapshot.RefreshedAt.IsZero() {
		snapshot.RefreshedAt = s.now().UTC()
	}

	return s.queue.Enqueue(jobs.Job{
		ID:      fmt.Sprintf("%s:%s:%s", snapshot.Kind, snapshot.RegNo, snapshot.PayloadHash),
		Type:    snapshotJobType,
		Payload: snapshot,
	})
}

func (s *SnapshotService) persist(ctx context.Context, job jobs.Job) error {
	snapshot, ok := job.Payload.(*models.Snapshot)
	if !ok {
		return fmt.Errorf("unexpected snapshot payload %T", job.Payload)
	}
	inserted, err := s.repo.Insert(ctx, snapshot)
	if err != nil {
		return err
	}
	if inserted {
		s.metrics.RecordSnapshotWrite(snapshot.Kind, SnapshotStored)
		s.logger.Debug("snapshot stored", zap.String("reg_no", snapshot.RegNo), zap.String("kind", string(snapshot.Kind)))
	} else {
		s.metrics.RecordSnapshotWrite(snapshot.Kind, SnapshotDuplicate)
	}
	return nil
}

func (s *SnapshotService) onDrop(job jobs.Job, err error) {
	kind := models.SnapshotKind("unknown")
	if snapshot, ok := job.Payload.(*models.Snapshot); ok {
		kind = snapshot.Kind
	}
	s.metrics.RecordSnapshotWrite(kind, SnapshotFailed)
	s.logger.Error("snapshot dropped", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
}

// List returns snapshot summaries for a student, newest first.
func (s *SnapshotService) List(ctx context.Context, filter models.SnapshotFilter) ([]models.Snapshot, error) {
	if s == nil || s.repo == nil {
		return nil, appErrors.Clone(appErrors.ErrFeatureDisabled, "snapshots are disabled")
	}
	filter.RegNo = strings.TrimSpace(filter.RegNo)
	if err := s.validator.Struct(filter); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid snapshot query")
	}
	start := time.Now()
	snapshots, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("snapshots_list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list snapshots")
	}
	if snapshots == nil {
		snapshots = []models.Snapshot{}
	}
	return snapshots, nil
}

// Latest returns the newest snapshot of a kind with its document.
func (s *SnapshotService) Latest(ctx context.Context, regNo string, kind models.SnapshotKind) (*models.Snapshot, error) {
	if s == nil || s.repo == nil {
		return nil, appErrors.Clone(appErrors.ErrFeatureDisabled, "snapshots are disabled")
	}
	regNo = strings.TrimSpace(regNo)
	if regNo == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "regNo is required")
	}
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "kind must be enrollment or grades")
	}
	start := time.Now()
	snapshot, err := s.repo.Latest(ctx, regNo, kind)
	s.metrics.ObserveDBQuery("snapshots_latest", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "snapshot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load snapshot")
	}
	return snapshot, nil
}

// Stats exposes queue activity, zero when persistence is disabled.
func (s *SnapshotService) Stats() jobs.Stats {
	if s == nil || s.queue == nil {
		return jobs.Stats{}
	}
	return s.queue.Stats()
}

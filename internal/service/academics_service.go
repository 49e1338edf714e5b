package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academics-api/internal/models"
	"github.com/noah-isme/academics-api/pkg/cache"
	appErrors "github.com/noah-isme/academics-api/pkg/errors"
)

// Decode operation names, used for cache keys and metric labels.
const (
	OperationStatus       = "status"
	OperationUser         = "user"
	OperationEnrollment   = "enrollment"
	OperationGrades       = "grades"
	OperationAdvisor      = "advisor"
	OperationContributors = "contributors"
)

type academicsDecoder interface {
	DecodeStatus(text string) models.StatusCode
	DecodeBareUser(text string) (*models.User, error)
	DecodeEnrollment(text string) (*models.User, error)
	DecodeGradeHistory(text string) (*models.AcademicHistory, error)
	DecodeAdvisor(text string) (*models.FacultyAdvisor, error)
	DecodeContributors(text string) ([]models.Contributor, error)
}

type decodeCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type snapshotRecorder interface {
	RecordEnrollment(user *models.User, payloadHash string) error
	RecordGradeHistory(regNo string, history *models.AcademicHistory, payloadHash string) error
}

// DecodeMeta describes how a decode result was produced.
type DecodeMeta struct {
	PayloadHash string
	CacheHit    bool
}

// AcademicsService runs decode operations with caching, metrics and snapshot
// persistence around the pure decoder.
type AcademicsService struct {
	decoder   academicsDecoder
	cache     decodeCache
	snapshots snapshotRecorder
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewAcademicsService constructs the service. cache and snapshots may be nil.
func NewAcademicsService(decoder academicsDecoder, cache decodeCache, snapshots snapshotRecorder, metrics *MetricsService, logger *zap.Logger) *AcademicsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AcademicsService{decoder: decoder, cache: cache, snapshots: snapshots, metrics: metrics, logger: logger}
}

// PayloadHash returns the hex SHA-256 of a raw payload.
func PayloadHash(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Status maps the status object of a payload. It never fails.
func (s *AcademicsService) Status(ctx context.Context, payload string) models.StatusCode {
	start := time.Now()
	status := s.decoder.DecodeStatus(payload)
	outcome := DecodeOutcomeSuccess
	if status == models.StatusInvalidData {
		outcome = DecodeOutcomeFailure
	}
	s.metrics.ObserveDecode(OperationStatus, outcome, time.Since(start))
	return status
}

// BareUser decodes the payload owner.
func (s *AcademicsService) BareUser(ctx context.Context, payload string) (*models.User, DecodeMeta, error) {
	return cachedDecode(ctx, s, OperationUser, payload, s.decoder.DecodeBareUser)
}

// Enrollment decodes the owner with courses and metadata and schedules a snapshot.
func (s *AcademicsService) Enrollment(ctx context.Context, payload string) (*models.User, DecodeMeta, error) {
	user, meta, err := cachedDecode(ctx, s, OperationEnrollment, payload, s.decoder.DecodeEnrollment)
	if err != nil {
		return nil, meta, err
	}
	if s.snapshots != nil {
		if err := s.snapshots.RecordEnrollment(user, meta.PayloadHash); err != nil {
			s.logger.Warn("enrollment snapshot not scheduled", zap.String("reg_no", user.RegNo), zap.Error(err))
		}
	}
	return user, meta, nil
}

// GradeHistory decodes the grade record. The payload does not identify its
// owner, so a snapshot is only scheduled when regNo is given.
func (s *AcademicsService) GradeHistory(ctx context.Context, payload, regNo string) (*models.AcademicHistory, DecodeMeta, error) {
	history, meta, err := cachedDecode(ctx, s, OperationGrades, payload, s.decoder.DecodeGradeHistory)
	if err != nil {
		return nil, meta, err
	}
	regNo = strings.TrimSpace(regNo)
	if s.snapshots != nil && regNo != "" {
		if err := s.snapshots.RecordGradeHistory(regNo, history, meta.PayloadHash); err != nil {
			s.logger.Warn("grade snapshot not scheduled", zap.String("reg_no", regNo), zap.Error(err))
		}
	}
	return history, meta, nil
}

// Advisor decodes the faculty advisor.
func (s *AcademicsService) Advisor(ctx context.Context, payload string) (*models.FacultyAdvisor, DecodeMeta, error) {
	return cachedDecode(ctx, s, OperationAdvisor, payload, s.decoder.DecodeAdvisor)
}

// Contributors decodes the contributor list.
func (s *AcademicsService) Contributors(ctx context.Context, payload string) ([]models.Contributor, DecodeMeta, error) {
	return cachedDecode(ctx, s, OperationContributors, payload, s.decoder.DecodeContributors)
}

// cachedDecode serves a decode from cache when possible. Only successful
// results are cached, and cache failures fall through to decoding.
func cachedDecode[T any](ctx context.Context, s *AcademicsService, operation, payload string, decode func(string) (T, error)) (T, DecodeMeta, error) {
	meta := DecodeMeta{PayloadHash: PayloadHash(payload)}
	key := cache.Key(operation, meta.PayloadHash)

	var zero T
	if s.cache != nil {
		var cached T
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Debug("decode cache lookup failed", zap.String("operation", operation), zap.Error(err))
		}
		if hit {
			meta.CacheHit = true
			s.metrics.ObserveDecode(operation, DecodeOutcomeCached, 0)
			return cached, meta, nil
		}
	}

	start := time.Now()
	result, err := decode(payload)
	duration := time.Since(start)
	if err != nil {
		s.metrics.ObserveDecode(operation, DecodeOutcomeFailure, duration)
		appErr := appErrors.FromError(err)
		s.logger.Info("decode rejected",
			zap.String("operation", operation),
			zap.String("payload_hash", meta.PayloadHash),
			zap.String("code", appErr.Code),
			zap.Error(err),
		)
		return zero, meta, err
	}
	s.metrics.ObserveDecode(operation, DecodeOutcomeSuccess, duration)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, 0); err != nil {
			s.logger.Debug("decode cache store failed", zap.String("operation", operation), zap.Error(err))
		}
	}
	return result, meta, nil
}

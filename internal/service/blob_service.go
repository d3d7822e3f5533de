package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
	"github.com/znlumins/webkalenderaihmpsti/pkg/jobs"
	"github.com/znlumins/webkalenderaihmpsti/pkg/storage"
)

// JobTypeBlobRelease is the queue job that deletes a blob once nothing references it.
const JobTypeBlobRelease = "blob.release"

const defaultUploadPrefix = "file"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

type blobStore interface {
	Put(bucket, name string, r io.Reader) (int64, error)
	Delete(bucket, name string) error
	List(bucket string) ([]storage.BlobInfo, error)
	PublicURL(bucket, name string) string
	ParseURL(raw string) (bucket, name string, ok bool)
}

// blobReferenceRepository matches rows by the /files/<bucket>/<name> tail of
// their URLs, never by the host, which follows STORAGE_PUBLIC_BASE_URL.
type blobReferenceRepository interface {
	IsReferenced(ctx context.Context, objectPath string) (bool, error)
	ListReferences(ctx context.Context) ([]string, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// BlobConfig limits what may be uploaded and how long unreferenced blobs live.
type BlobConfig struct {
	Buckets      []string
	MaxFileSize  int64
	AllowedMIMEs []string
	GracePeriod  time.Duration
}

// BlobService uploads logos and materials and removes blobs no row points at.
type BlobService struct {
	store   blobStore
	refs    blobReferenceRepository
	queue   jobEnqueuer
	audit   auditTrail
	metrics *MetricsService
	logger  *zap.Logger
	cfg     BlobConfig
	now     func() time.Time

	stampMu   sync.Mutex
	lastStamp int64
}

// NewBlobService constructs a BlobService.
func NewBlobService(store blobStore, refs blobReferenceRepository, queue jobEnqueuer, audit auditRepository, metrics *MetricsService, cfg BlobConfig, logger *zap.Logger) *BlobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = []string{"materials"}
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 10 * 1024 * 1024
	}
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = 24 * time.Hour
	}
	return &BlobService{
		store:   store,
		refs:    refs,
		queue:   queue,
		audit:   auditTrail{repo: audit, logger: logger},
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// SetQueue attaches the release queue once it has been built.
func (s *BlobService) SetQueue(queue jobEnqueuer) {
	s.queue = queue
}

// SanitizeFilename replaces every character outside [A-Za-z0-9_.-] with an underscore.
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// Upload stores content as <prefix>_<millis>_<clean filename> and returns its public URL.
func (s *BlobService) Upload(ctx context.Context, actor *models.Actor, bucket, filename, prefix string, content io.Reader) (string, error) {
	if err := requireActor(actor); err != nil {
		return "", err
	}
	if bucket == "" {
		bucket = s.cfg.Buckets[0]
	}
	if !s.bucketAllowed(bucket) {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown bucket %q", bucket))
	}
	if strings.TrimSpace(filename) == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "file name is required")
	}
	prefix = SanitizeFilename(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = defaultUploadPrefix
	}

	data, err := io.ReadAll(io.LimitReader(content, s.cfg.MaxFileSize+1))
	if err != nil {
		return "", appErrors.Because(appErrors.ErrUploadFailed, err, err.Error())
	}
	if int64(len(data)) > s.cfg.MaxFileSize {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds %d bytes", s.cfg.MaxFileSize))
	}
	if len(data) == 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "file is empty")
	}
	detected := mimetype.Detect(data)
	if !s.mimeAllowed(detected) {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file type %s is not allowed", detected.String()))
	}

	name := fmt.Sprintf("%s_%d_%s", prefix, s.nextStamp(), SanitizeFilename(filename))
	if _, err := s.store.Put(bucket, name, bytes.NewReader(data)); err != nil {
		return "", appErrors.Because(appErrors.ErrUploadFailed, err, err.Error())
	}

	url := s.store.PublicURL(bucket, name)
	s.audit.record(ctx, actor, models.AuditActionBlobUpload, "blobs", name, nil, map[string]interface{}{
		"bucket": bucket, "url": url, "mime": detected.String(), "size": len(data),
	})
	return url, nil
}

// Release queues url for deletion. The worker re-checks references before deleting.
func (s *BlobService) Release(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if _, _, ok := s.ownedObject(url); !ok {
		return
	}
	if s.queue == nil {
		if err := s.HandleRelease(ctx, jobs.Job{Type: JobTypeBlobRelease, Payload: url}); err != nil {
			s.logger.Warn("blob release failed", zap.String("url", url), zap.Error(err))
		}
		return
	}
	if err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: JobTypeBlobRelease, Payload: url}); err != nil {
		// The scheduled sweep removes it later.
		s.logger.Warn("failed to queue blob release", zap.String("url", url), zap.Error(err))
	}
}

// HandleRelease is the jobs.Handler for JobTypeBlobRelease.
func (s *BlobService) HandleRelease(ctx context.Context, job jobs.Job) error {
	bucket, name, ok := s.ownedObject(job.Payload)
	if !ok {
		return nil
	}
	referenced, err := s.refs.IsReferenced(ctx, storage.ObjectPath(bucket, name))
	if err != nil {
		return err
	}
	if referenced {
		return nil
	}
	if err := s.store.Delete(bucket, name); err != nil {
		return err
	}
	s.metrics.RecordBlobsDeleted("release", 1)
	s.logger.Info("released blob", zap.String("bucket", bucket), zap.String("name", name))
	return nil
}

// Sweep deletes every blob older than the grace period that no row references.
// Younger blobs are kept so an upload whose row is still being saved survives.
func (s *BlobService) Sweep(ctx context.Context) (int, error) {
	urls, err := s.refs.ListReferences(ctx)
	if err != nil {
		return 0, fmt.Errorf("load blob references: %w", err)
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if bucket, name, ok := s.store.ParseURL(u); ok {
			referenced[storage.ObjectPath(bucket, name)] = struct{}{}
		}
	}

	cutoff := s.now().Add(-s.cfg.GracePeriod)
	deleted := 0
	for _, bucket := range s.cfg.Buckets {
		blobs, err := s.store.List(bucket)
		if err != nil {
			return deleted, fmt.Errorf("list bucket %s: %w", bucket, err)
		}
		for _, blob := range blobs {
			if blob.ModTime.After(cutoff) {
				continue
			}
			if _, ok := referenced[storage.ObjectPath(blob.Bucket, blob.Name)]; ok {
				continue
			}
			if err := s.store.Delete(blob.Bucket, blob.Name); err != nil {
				s.logger.Warn("failed to delete orphaned blob", zap.String("bucket", blob.Bucket), zap.String("name", blob.Name), zap.Error(err))
				continue
			}
			deleted++
		}
	}
	s.metrics.RecordBlobsDeleted("sweep", deleted)
	return deleted, nil
}

// ownedObject resolves url to one of the configured buckets.
func (s *BlobService) ownedObject(url string) (bucket, name string, ok bool) {
	bucket, name, ok = s.store.ParseURL(url)
	if !ok || !s.bucketAllowed(bucket) {
		return "", "", false
	}
	return bucket, name, true
}

func (s *BlobService) bucketAllowed(bucket string) bool {
	for _, b := range s.cfg.Buckets {
		if b == bucket {
			return true
		}
	}
	return false
}

func (s *BlobService) mimeAllowed(detected *mimetype.MIME) bool {
	if len(s.cfg.AllowedMIMEs) == 0 {
		return true
	}
	for m := detected; m != nil; m = m.Parent() {
		for _, allowed := range s.cfg.AllowedMIMEs {
			if m.Is(allowed) {
				return true
			}
		}
	}
	return false
}

// nextStamp returns wall-clock milliseconds, bumped so no two calls share a value.
func (s *BlobService) nextStamp() int64 {
	s.stampMu.Lock()
	defer s.stampMu.Unlock()
	stamp := s.now().UnixMilli()
	if stamp <= s.lastStamp {
		stamp = s.lastStamp + 1
	}
	s.lastStamp = stamp
	return stamp
}

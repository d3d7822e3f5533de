package storage

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrInvalidName is returned for bucket or object names that would escape
// the bucket directory.
var ErrInvalidName = errors.New("invalid blob name")

const filesPrefix = "/files/"

// BlobInfo describes a stored object.
type BlobInfo struct {
	Bucket  string
	Name    string
	Size    int64
	ModTime time.Time
}

// BlobStore keeps uploaded logos and materials on disk, one directory per
// bucket, and hands out public URLs under <publicBaseURL>/files/.
type BlobStore struct {
	baseDir       string
	publicBaseURL string
}

// NewBlobStore ensures the bucket directories exist.
func NewBlobStore(baseDir, publicBaseURL string, buckets []string) (*BlobStore, error) {
	if baseDir == "" {
		baseDir = "./storage"
	}
	for _, bucket := range buckets {
		if !validName(bucket) {
			return nil, fmt.Errorf("bucket %q: %w", bucket, ErrInvalidName)
		}
		if err := os.MkdirAll(filepath.Join(baseDir, bucket), 0o755); err != nil {
			return nil, fmt.Errorf("create bucket directory: %w", err)
		}
	}
	return &BlobStore{baseDir: baseDir, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Put writes r into bucket/name. Existing objects are never overwritten.
func (s *BlobStore) Put(bucket, name string, r io.Reader) (int64, error) {
	path, err := s.resolve(bucket, name)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("prepare bucket directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create blob: %w", err)
	}
	written, copyErr := io.Copy(file, r)
	closeErr := file.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(path)
		if copyErr == nil {
			copyErr = closeErr
		}
		return 0, fmt.Errorf("write blob: %w", copyErr)
	}
	return written, nil
}

// Open returns a read-only handle for the stored object.
func (s *BlobStore) Open(bucket, name string) (*os.File, error) {
	path, err := s.resolve(bucket, name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return file, nil
}

// Delete removes an object if present.
func (s *BlobStore) Delete(bucket, name string) error {
	path, err := s.resolve(bucket, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// List returns every object in bucket.
func (s *BlobStore) List(bucket string) ([]BlobInfo, error) {
	if !validName(bucket) {
		return nil, ErrInvalidName
	}
	entries, err := os.ReadDir(filepath.Join(s.baseDir, bucket))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list bucket %s: %w", bucket, err)
	}
	blobs := make([]BlobInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat blob %s: %w", entry.Name(), err)
		}
		blobs = append(blobs, BlobInfo{Bucket: bucket, Name: entry.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return blobs, nil
}

// PublicURL is the address clients fetch bucket/name from.
func (s *BlobStore) PublicURL(bucket, name string) string {
	return s.publicBaseURL + ObjectPath(bucket, name)
}

// ObjectPath is the host-independent tail of every public URL: /files/<bucket>/<name>.
func ObjectPath(bucket, name string) string {
	return filesPrefix + url.PathEscape(bucket) + "/" + url.PathEscape(name)
}

// ParseURL reverses PublicURL. Only the /files/<bucket>/<name> path counts,
// so URLs issued under an earlier public base URL, a proxy or a bare path
// still resolve to their object.
func (s *BlobStore) ParseURL(raw string) (bucket, name string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", false
	}
	path := u.EscapedPath()
	i := strings.Index(path, filesPrefix)
	if i < 0 {
		return "", "", false
	}
	parts := strings.Split(path[i+len(filesPrefix):], "/")
	if len(parts) != 2 {
		return "", "", false
	}
	bucket, errB := url.PathUnescape(parts[0])
	name, errN := url.PathUnescape(parts[1])
	if errB != nil || errN != nil || !validName(bucket) || !validName(name) {
		return "", "", false
	}
	return bucket, name, true
}

func (s *BlobStore) resolve(bucket, name string) (string, error) {
	if !validName(bucket) || !validName(name) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.baseDir, bucket, name), nil
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

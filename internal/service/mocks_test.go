package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
	"github.com/znlumins/webkalenderaihmpsti/pkg/jobs"
	"github.com/znlumins/webkalenderaihmpsti/pkg/realtime"
	"github.com/znlumins/webkalenderaihmpsti/pkg/storage"
)

func intPtr(v int) *int { return &v }

func superAdmin() *models.Actor {
	return &models.Actor{UserID: "root", Email: "root@example.com", Role: models.RoleSuperAdmin}
}

func deptAdmin(dept int) *models.Actor {
	return &models.Actor{UserID: fmt.Sprintf("dept-%d", dept), Email: "dept@example.com", Role: models.RoleDeptAdmin, DepartmentID: intPtr(dept)}
}

type mockEventRepo struct {
	mu      sync.Mutex
	events  map[string]models.Event
	seq     int
	listErr error
	listN   int
	created []models.Event
	files   map[string][]string
}

func newMockEventRepo(events ...models.Event) *mockEventRepo {
	repo := &mockEventRepo{events: make(map[string]models.Event)}
	for _, ev := range events {
		repo.events[ev.ID] = ev
	}
	return repo
}

func (m *mockEventRepo) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listN++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Event, 0, len(m.events))
	for _, ev := range m.events {
		if filter.DepartmentID != nil && ev.Proker.DepartmentID != *filter.DepartmentID {
			continue
		}
		if filter.From != nil && !ev.End.After(*filter.From) {
			continue
		}
		if filter.To != nil && !ev.Start.Before(*filter.To) {
			continue
		}
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (m *mockEventRepo) FindByID(ctx context.Context, id string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &ev, nil
}

func (m *mockEventRepo) Create(ctx context.Context, event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	event.ID = fmt.Sprintf("ev-new-%d", m.seq)
	m.events[event.ID] = *event
	m.created = append(m.created, *event)
	return nil
}

func (m *mockEventRepo) Update(ctx context.Context, event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[event.ID]; !ok {
		return sql.ErrNoRows
	}
	m.events[event.ID] = *event
	return nil
}

func (m *mockEventRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) FileURLsByProker(ctx context.Context, prokerID string) ([]string, error) {
	return m.files[prokerID], nil
}

type mockProkerRepo struct {
	prokers   map[string]models.Proker
	created   []models.Proker
	updated   []models.Proker
	deleted   []string
	calls     int
	createErr error
}

func newMockProkerRepo(prokers ...models.Proker) *mockProkerRepo {
	repo := &mockProkerRepo{prokers: make(map[string]models.Proker)}
	for _, p := range prokers {
		repo.prokers[p.ID] = p
	}
	return repo
}

func (m *mockProkerRepo) List(ctx context.Context) ([]models.Proker, error) {
	m.calls++
	out := make([]models.Proker, 0, len(m.prokers))
	for _, p := range m.prokers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockProkerRepo) FindByID(ctx context.Context, id string) (*models.Proker, error) {
	m.calls++
	p, ok := m.prokers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (m *mockProkerRepo) Create(ctx context.Context, proker *models.Proker) error {
	m.calls++
	if m.createErr != nil {
		return m.createErr
	}
	proker.ID = fmt.Sprintf("pk-new-%d", len(m.created)+1)
	m.prokers[proker.ID] = *proker
	m.created = append(m.created, *proker)
	return nil
}

func (m *mockProkerRepo) Update(ctx context.Context, proker *models.Proker) error {
	m.calls++
	if _, ok := m.prokers[proker.ID]; !ok {
		return sql.ErrNoRows
	}
	m.prokers[proker.ID] = *proker
	m.updated = append(m.updated, *proker)
	return nil
}

func (m *mockProkerRepo) Delete(ctx context.Context, id string) error {
	m.calls++
	if _, ok := m.prokers[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.prokers, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockAuditRepo struct {
	mu   sync.Mutex
	logs []*models.AuditLog
	err  error
}

func (m *mockAuditRepo) Create(ctx context.Context, log *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockAuditRepo) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.logs))
	for _, l := range m.logs {
		out = append(out, l.Action)
	}
	return out
}

type mockPublisher struct {
	mu      sync.Mutex
	changes []realtime.Change
}

func (m *mockPublisher) Publish(ctx context.Context, change realtime.Change) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes = append(m.changes, change)
	return nil
}

type mockReleaser struct {
	urls []string
}

func (m *mockReleaser) Release(ctx context.Context, url string) {
	m.urls = append(m.urls, url)
}

type mockCacheRepo struct {
	mu       sync.Mutex
	data     map[string][]byte
	getErr   error
	patterns []string
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{data: make(map[string][]byte)}
}

func (m *mockCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *mockCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns = append(m.patterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
		}
	}
	return nil
}

func (m *mockCacheRepo) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

type mockIdentityRepo struct {
	identities map[string]*models.Identity
	createErr  error
	deleted    []string
	passwords  map[string]string
}

func newMockIdentityRepo() *mockIdentityRepo {
	return &mockIdentityRepo{identities: make(map[string]*models.Identity), passwords: make(map[string]string)}
}

func (m *mockIdentityRepo) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	for _, identity := range m.identities {
		if identity.Email == email {
			return identity, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockIdentityRepo) Create(ctx context.Context, identity *models.Identity) error {
	if m.createErr != nil {
		return m.createErr
	}
	identity.ID = fmt.Sprintf("uid-%d", len(m.identities)+1)
	m.identities[identity.ID] = identity
	return nil
}

func (m *mockIdentityRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	identity, ok := m.identities[id]
	if !ok {
		return sql.ErrNoRows
	}
	identity.PasswordHash = passwordHash
	m.passwords[id] = passwordHash
	return nil
}

func (m *mockIdentityRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.identities, id)
	return nil
}

type mockProfileRepo struct {
	profiles  map[string]*models.Profile
	createErr error
}

func newMockProfileRepo(profiles ...models.Profile) *mockProfileRepo {
	repo := &mockProfileRepo{profiles: make(map[string]*models.Profile)}
	for i := range profiles {
		p := profiles[i]
		repo.profiles[p.ID] = &p
	}
	return repo
}

func (m *mockProfileRepo) List(ctx context.Context) ([]models.Profile, error) {
	out := make([]models.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role > out[j].Role
		}
		return out[i].Email < out[j].Email
	})
	return out, nil
}

func (m *mockProfileRepo) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.profiles[profile.ID] = profile
	return nil
}

type mockBlobStore struct {
	blobs   map[string]storage.BlobInfo
	data    map[string][]byte
	deleted []string
	putErr  error
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{blobs: make(map[string]storage.BlobInfo), data: make(map[string][]byte)}
}

func (m *mockBlobStore) Put(bucket, name string, r io.Reader) (int64, error) {
	if m.putErr != nil {
		return 0, m.putErr
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	key := bucket + "/" + name
	m.data[key] = raw
	m.blobs[key] = storage.BlobInfo{Bucket: bucket, Name: name, Size: int64(len(raw)), ModTime: time.Now()}
	return int64(len(raw)), nil
}

func (m *mockBlobStore) Delete(bucket, name string) error {
	key := bucket + "/" + name
	m.deleted = append(m.deleted, key)
	delete(m.blobs, key)
	delete(m.data, key)
	return nil
}

func (m *mockBlobStore) List(bucket string) ([]storage.BlobInfo, error) {
	var out []storage.BlobInfo
	for _, b := range m.blobs {
		if b.Bucket == bucket {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockBlobStore) PublicURL(bucket, name string) string {
	return "http://files.test/files/" + bucket + "/" + name
}

func (m *mockBlobStore) ParseURL(raw string) (string, string, bool) {
	i := strings.Index(raw, "/files/")
	if i < 0 {
		return "", "", false
	}
	parts := strings.Split(raw[i+len("/files/"):], "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

type mockBlobRefs struct {
	refs    []string
	checked []string
}

func (m *mockBlobRefs) IsReferenced(ctx context.Context, objectPath string) (bool, error) {
	m.checked = append(m.checked, objectPath)
	for _, r := range m.refs {
		if strings.HasSuffix(r, objectPath) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBlobRefs) ListReferences(ctx context.Context) ([]string, error) {
	return m.refs, nil
}

type mockQueue struct {
	jobs []jobs.Job
	err  error
}

func (m *mockQueue) Enqueue(job jobs.Job) error {
	if m.err != nil {
		return m.err
	}
	m.jobs = append(m.jobs, job)
	return nil
}

type mockChat struct {
	reply string
	err   error
	reqs  []openai.ChatCompletionRequest
}

func (m *mockChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.reqs = append(m.reqs, req)
	if m.err != nil {
		return openai.ChatCompletionResponse{}, m.err
	}
	if m.reply == "" {
		return openai.ChatCompletionResponse{}, nil
	}
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: m.reply}}}}, nil
}

var errStoreDown = errors.New("connection refused")

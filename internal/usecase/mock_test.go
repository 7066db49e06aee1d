package usecase

import (
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/domain/repository"
)

// mockObjectStorage provides a configurable mock for ObjectStorage.
// It records uploaded and deleted keys.
type mockObjectStorage struct {
	uploadFn func(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	deleteFn func(ctx context.Context, key string) error

	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (m *mockObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if m.uploadFn != nil {
		if err := m.uploadFn(ctx, key, reader, size, contentType); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploaded = append(m.uploaded, key)
	return nil
}

func (m *mockObjectStorage) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		if err := m.deleteFn(ctx, key); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *mockObjectStorage) uploadedKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.uploaded...)
}

func (m *mockObjectStorage) deletedKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

// mockMessageQueue provides a configurable mock for MessageQueue.
type mockMessageQueue struct {
	publishCleanupTaskFn  func(ctx context.Context, task repository.CleanupTask) error
	consumeCleanupTasksFn func(ctx context.Context, handler func(task repository.CleanupTask) error) error

	mu        sync.Mutex
	published []repository.CleanupTask
}

func (m *mockMessageQueue) PublishCleanupTask(ctx context.Context, task repository.CleanupTask) error {
	if m.publishCleanupTaskFn != nil {
		if err := m.publishCleanupTaskFn(ctx, task); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, task)
	return nil
}

func (m *mockMessageQueue) ConsumeCleanupTasks(ctx context.Context, handler func(task repository.CleanupTask) error) error {
	if m.consumeCleanupTasksFn != nil {
		return m.consumeCleanupTasksFn(ctx, handler)
	}
	return nil
}

func (m *mockMessageQueue) Close() error {
	return nil
}

func (m *mockMessageQueue) publishedKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.published))
	for _, task := range m.published {
		keys = append(keys, task.Key)
	}
	return keys
}

// mockEventPublisher records published events.
type mockEventPublisher struct {
	publishFn func(ctx context.Context, event model.VlogEvent) error

	mu     sync.Mutex
	events []model.VlogEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, event model.VlogEvent) error {
	if m.publishFn != nil {
		if err := m.publishFn(ctx, event); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventPublisher) Close() error {
	return nil
}

func (m *mockEventPublisher) types() []model.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.EventType, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

// mockVlogCache is a mock implementation of VlogCache for testing.
type mockVlogCache struct {
	mu       sync.RWMutex
	data     map[uuid.UUID]*model.Vlog
	getFn    func(ctx context.Context, vlogID uuid.UUID) (*model.Vlog, error)
	setFn    func(ctx context.Context, vlog *model.Vlog, ttl time.Duration) error
	deleteFn func(ctx context.Context, vlogID uuid.UUID) error
}

func newMockVlogCache() *mockVlogCache {
	return &mockVlogCache{
		data: make(map[uuid.UUID]*model.Vlog),
	}
}

func (m *mockVlogCache) Get(ctx context.Context, vlogID uuid.UUID) (*model.Vlog, error) {
	if m.getFn != nil {
		return m.getFn(ctx, vlogID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[vlogID], nil
}

func (m *mockVlogCache) Set(ctx context.Context, vlog *model.Vlog, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, vlog, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[vlog.ID] = vlog
	return nil
}

func (m *mockVlogCache) Delete(ctx context.Context, vlogID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, vlogID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, vlogID)
	return nil
}

func (m *mockVlogCache) has(vlogID uuid.UUID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[vlogID]
	return ok
}

// mockVlogService is a mock implementation of VlogService for testing.
type mockVlogService struct {
	createVlogFn   func(ctx context.Context, input CreateVlogInput) (*model.Vlog, error)
	updateVlogFn   func(ctx context.Context, input UpdateVlogInput) (*model.Vlog, error)
	deleteVlogFn   func(ctx context.Context, caller model.Caller, vlogID uuid.UUID) error
	getVlogFn      func(ctx context.Context, vlogID uuid.UUID) (*model.Vlog, error)
	attachMediaFn  func(ctx context.Context, caller model.Caller, vlogID uuid.UUID, file MediaFile) (*model.MediaAttachment, error)
	replaceMediaFn func(ctx context.Context, caller model.Caller, vlogID, mediaID uuid.UUID, file MediaFile) (*model.MediaAttachment, error)
	detachMediaFn  func(ctx context.Context, caller model.Caller, vlogID uuid.UUID, kind model.MediaKind, mediaID uuid.UUID) error
	getVlogCount   atomic.Int32
}

func (m *mockVlogService) CreateVlog(ctx context.Context, input CreateVlogInput) (*model.Vlog, error) {
	if m.createVlogFn != nil {
		return m.createVlogFn(ctx, input)
	}
	return nil, nil
}

func (m *mockVlogService) UpdateVlog(ctx context.Context, input UpdateVlogInput) (*model.Vlog, error) {
	if m.updateVlogFn != nil {
		return m.updateVlogFn(ctx, input)
	}
	return nil, nil
}

func (m *mockVlogService) DeleteVlog(ctx context.Context, caller model.Caller, vlogID uuid.UUID) error {
	if m.deleteVlogFn != nil {
		return m.deleteVlogFn(ctx, caller, vlogID)
	}
	return nil
}

func (m *mockVlogService) GetVlog(ctx context.Context, vlogID uuid.UUID) (*model.Vlog, error) {
	m.getVlogCount.Add(1)
	if m.getVlogFn != nil {
		return m.getVlogFn(ctx, vlogID)
	}
	return nil, nil
}

func (m *mockVlogService) AttachMedia(ctx context.Context, caller model.Caller, vlogID uuid.UUID, file MediaFile) (*model.MediaAttachment, error) {
	if m.attachMediaFn != nil {
		return m.attachMediaFn(ctx, caller, vlogID, file)
	}
	return nil, nil
}

func (m *mockVlogService) ReplaceMedia(ctx context.Context, caller model.Caller, vlogID, mediaID uuid.UUID, file MediaFile) (*model.MediaAttachment, error) {
	if m.replaceMediaFn != nil {
		return m.replaceMediaFn(ctx, caller, vlogID, mediaID, file)
	}
	return nil, nil
}

func (m *mockVlogService) DetachMedia(ctx context.Context, caller model.Caller, vlogID uuid.UUID, kind model.MediaKind, mediaID uuid.UUID) error {
	if m.detachMediaFn != nil {
		return m.detachMediaFn(ctx, caller, vlogID, kind, mediaID)
	}
	return nil
}

// mockTokenIssuer provides a configurable mock for TokenIssuer.
type mockTokenIssuer struct {
	issueFn  func(userID uuid.UUID) (string, error)
	verifyFn func(token string) (uuid.UUID, error)
}

func (m *mockTokenIssuer) Issue(userID uuid.UUID) (string, error) {
	if m.issueFn != nil {
		return m.issueFn(userID)
	}
	return "token-" + userID.String(), nil
}

func (m *mockTokenIssuer) Verify(token string) (uuid.UUID, error) {
	if m.verifyFn != nil {
		return m.verifyFn(token)
	}
	return uuid.Parse(strings.TrimPrefix(token, "token-"))
}

// plainHasher stores passwords with a fixed prefix.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errPasswordMismatch
	}
	return nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/domain/repository"
)

func TestLikeService_LikeUnlike(t *testing.T) {
	store := newFakeStore()
	admin := store.addUser("admin", true)
	alice := store.addUser("alice", false)
	vlogID := store.addVlog(admin, "Trip")
	publisher := &mockEventPublisher{}
	cache := newMockVlogCache()
	cache.data[vlogID] = &model.Vlog{ID: vlogID}
	invalidator := NewCachedVlogService(&mockVlogService{}, cache, DefaultCachedVlogServiceConfig())

	svc := NewLikeService(store, invalidator, publisher)
	ctx := context.Background()

	liked, err := svc.Like(ctx, alice, vlogID)
	if err != nil {
		t.Fatalf("Like() unexpected error = %v", err)
	}
	if liked.Likes != 1 || liked.State != model.LikeStateLiked {
		t.Errorf("Like() = %+v", liked)
	}
	if cache.has(vlogID) {
		t.Error("Like() should invalidate the cached vlog")
	}

	status, err := svc.LikeStatus(ctx, alice, vlogID)
	if err != nil {
		t.Fatalf("LikeStatus() unexpected error = %v", err)
	}
	if status.State != model.LikeStateLiked || status.Likes != 1 {
		t.Errorf("LikeStatus() = %+v", status)
	}

	unliked, err := svc.Unlike(ctx, alice, vlogID)
	if err != nil {
		t.Fatalf("Unlike() unexpected error = %v", err)
	}
	if unliked.Likes != 0 || unliked.State != model.LikeStateNotLiked {
		t.Errorf("Unlike() = %+v", unliked)
	}
	if store.storedLikes(vlogID) != store.countLikes(vlogID) {
		t.Error("stored likes diverged from like rows")
	}

	types := publisher.types()
	if len(types) != 2 || types[0] != model.EventVlogLiked || types[1] != model.EventVlogUnliked {
		t.Errorf("events = %v", types)
	}
	if publisher.events[0].Likes != 1 {
		t.Errorf("liked event Likes = %d, want 1", publisher.events[0].Likes)
	}
}

func TestLikeService_Errors(t *testing.T) {
	store := newFakeStore()
	admin := store.addUser("admin", true)
	alice := store.addUser("alice", false)
	vlogID := store.addVlog(admin, "Trip")
	svc := NewLikeService(store, nil, nil)
	ctx := context.Background()

	if _, err := svc.Like(ctx, alice, vlogID); err != nil {
		t.Fatalf("Like() unexpected error = %v", err)
	}

	tests := []struct {
		name    string
		call    func() (*LikeResult, error)
		wantErr error
	}{
		{"like twice", func() (*LikeResult, error) { return svc.Like(ctx, alice, vlogID) }, ErrAlreadyLiked},
		{"unlike without like", func() (*LikeResult, error) { return svc.Unlike(ctx, admin, vlogID) }, ErrNotLiked},
		{"like missing vlog", func() (*LikeResult, error) { return svc.Like(ctx, alice, uuid.New()) }, repository.ErrVlogNotFound},
		{"unlike missing vlog", func() (*LikeResult, error) { return svc.Unlike(ctx, alice, uuid.New()) }, repository.ErrVlogNotFound},
		{"anonymous", func() (*LikeResult, error) { return svc.Like(ctx, model.Caller{}, vlogID) }, ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.call()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if got != nil {
				t.Error("result should be nil on error")
			}
			if store.storedLikes(vlogID) != 1 || store.countLikes(vlogID) != 1 {
				t.Errorf("state changed: stored=%d rows=%d", store.storedLikes(vlogID), store.countLikes(vlogID))
			}
		})
	}
}

func TestLikeService_ConcurrentLikes(t *testing.T) {
	const n = 50

	store := newFakeStore()
	admin := store.addUser("admin", true)
	vlogID := store.addVlog(admin, "Trip")
	otherID := store.addVlog(admin, "Other")

	callers := make([]model.Caller, n)
	for i := range callers {
		callers[i] = store.addUser(fmt.Sprintf("user%d", i), false)
	}

	svc := NewLikeService(store, nil, &mockEventPublisher{})
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
		duplicate atomic.Int64
	)
	errs := make(chan error, 2*n)
	like := func(c model.Caller) {
		defer wg.Done()
		_, err := svc.Like(ctx, c, vlogID)
		switch {
		case err == nil:
			succeeded.Add(1)
		case errors.Is(err, ErrAlreadyLiked):
			duplicate.Add(1)
		default:
			errs <- err
		}
	}
	// Two attempts per user; either one may win.
	for _, c := range callers {
		wg.Add(2)
		go like(c)
		go like(c)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	if got := succeeded.Load(); got != n {
		t.Errorf("successful likes = %d, want %d", got, n)
	}
	if got := duplicate.Load(); got != n {
		t.Errorf("already liked = %d, want %d", got, n)
	}

	if got := store.countLikes(vlogID); got != n {
		t.Errorf("like rows = %d, want %d", got, n)
	}
	if got := store.storedLikes(vlogID); got != n {
		t.Errorf("stored likes = %d, want %d", got, n)
	}
	if got := store.storedLikes(otherID); got != 0 {
		t.Errorf("other vlog likes = %d, want 0", got)
	}
}

func TestLikeService_LikeStatus(t *testing.T) {
	store := newFakeStore()
	admin := store.addUser("admin", true)
	vlogID := store.addVlog(admin, "Trip")
	svc := NewLikeService(store, nil, nil)

	status, err := svc.LikeStatus(context.Background(), model.Caller{}, vlogID)
	if err != nil {
		t.Fatalf("LikeStatus() unexpected error = %v", err)
	}
	if status.State != model.LikeStateNotLiked || status.Likes != 0 {
		t.Errorf("LikeStatus() anonymous = %+v", status)
	}

	if _, err := svc.LikeStatus(context.Background(), admin, uuid.New()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("LikeStatus() missing vlog error = %v", err)
	}
}

func TestToggleResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{ErrAlreadyLiked, "already_liked"},
		{ErrNotLiked, "not_liked"},
		{repository.ErrVlogNotFound, "not_found"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := toggleResult(tt.err); got != tt.want {
			t.Errorf("toggleResult(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/usecase"
)

type mockVlogService struct {
	createVlogFn   func(ctx context.Context, input usecase.CreateVlogInput) (*model.Vlog, error)
	updateVlogFn   func(ctx context.Context, input usecase.UpdateVlogInput) (*model.Vlog, error)
	deleteVlogFn   func(ctx context.Context, caller model.Caller, vlogID uuid.UUID) error
	getVlogFn      func(ctx context.Context, vlogID uuid.UUID) (*model.Vlog, error)
	attachMediaFn  func(ctx context.Context, caller model.Caller, vlogID uuid.UUID, file usecase.MediaFile) (*model.MediaAttachment, error)
	replaceMediaFn func(ctx context.Context, caller model.Caller, vlogID, mediaID uuid.UUID, file usecase.MediaFile) (*model.MediaAttachment, error)
	detachMediaFn  func(ctx context.Context, caller model.Caller, vlogID uuid.UUID, kind model.MediaKind, mediaID uuid.UUID) error
}

func (m *mockVlogService) CreateVlog(ctx context.Context, input usecase.CreateVlogInput) (*model.Vlog, error) {
	if m.createVlogFn != nil {
		return m.createVlogFn(ctx, input)
	}
	return nil, nil
}

func (m *mockVlogService) UpdateVlog(ctx context.Context, input usecase.UpdateVlogInput) (*model.Vlog, error) {
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
	if m.getVlogFn != nil {
		return m.getVlogFn(ctx, vlogID)
	}
	return nil, nil
}

func (m *mockVlogService) AttachMedia(ctx context.Context, caller model.Caller, vlogID uuid.UUID, file usecase.MediaFile) (*model.MediaAttachment, error) {
	if m.attachMediaFn != nil {
		return m.attachMediaFn(ctx, caller, vlogID, file)
	}
	return nil, nil
}

func (m *mockVlogService) ReplaceMedia(ctx context.Context, caller model.Caller, vlogID, mediaID uuid.UUID, file usecase.MediaFile) (*model.MediaAttachment, error) {
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

type mockListingService struct {
	listVlogsFn func(ctx context.Context, input usecase.ListVlogsInput) ([]*model.VlogSummary, error)
}

func (m *mockListingService) ListVlogs(ctx context.Context, input usecase.ListVlogsInput) ([]*model.VlogSummary, error) {
	if m.listVlogsFn != nil {
		return m.listVlogsFn(ctx, input)
	}
	return nil, nil
}

type mockCommentService struct {
	postCommentFn   func(ctx context.Context, caller model.Caller, vlogID uuid.UUID, text string) (*model.Comment, error)
	updateCommentFn func(ctx context.Context, caller model.Caller, vlogID, commentID uuid.UUID, text string) (*model.Comment, error)
	deleteCommentFn func(ctx context.Context, caller model.Caller, vlogID, commentID uuid.UUID) error
}

func (m *mockCommentService) PostComment(ctx context.Context, caller model.Caller, vlogID uuid.UUID, text string) (*model.Comment, error) {
	if m.postCommentFn != nil {
		return m.postCommentFn(ctx, caller, vlogID, text)
	}
	return nil, nil
}

func (m *mockCommentService) UpdateComment(ctx context.Context, caller model.Caller, vlogID, commentID uuid.UUID, text string) (*model.Comment, error) {
	if m.updateCommentFn != nil {
		return m.updateCommentFn(ctx, caller, vlogID, commentID, text)
	}
	return nil, nil
}

func (m *mockCommentService) DeleteComment(ctx context.Context, caller model.Caller, vlogID, commentID uuid.UUID) error {
	if m.deleteCommentFn != nil {
		return m.deleteCommentFn(ctx, caller, vlogID, commentID)
	}
	return nil
}

type mockLikeService struct {
	likeFn       func(ctx context.Context, caller model.Caller, vlogID uuid.UUID) (*usecase.LikeResult, error)
	unlikeFn     func(ctx context.Context, caller model.Caller, vlogID uuid.UUID) (*usecase.LikeResult, error)
	likeStatusFn func(ctx context.Context, caller model.Caller, vlogID uuid.UUID) (*usecase.LikeResult, error)
}

func (m *mockLikeService) Like(ctx context.Context, caller model.Caller, vlogID uuid.UUID) (*usecase.LikeResult, error) {
	if m.likeFn != nil {
		return m.likeFn(ctx, caller, vlogID)
	}
	return nil, nil
}

func (m *mockLikeService) Unlike(ctx context.Context, caller model.Caller, vlogID uuid.UUID) (*usecase.LikeResult, error) {
	if m.unlikeFn != nil {
		return m.unlikeFn(ctx, caller, vlogID)
	}
	return nil, nil
}

func (m *mockLikeService) LikeStatus(ctx context.Context, caller model.Caller, vlogID uuid.UUID) (*usecase.LikeResult, error) {
	if m.likeStatusFn != nil {
		return m.likeStatusFn(ctx, caller, vlogID)
	}
	return nil, nil
}

type mockAuthService struct {
	registerFn      func(ctx context.Context, input usecase.RegisterInput) (*model.User, error)
	authenticateFn  func(ctx context.Context, username, password string) (uuid.UUID, error)
	loginFn         func(ctx context.Context, username, password string) (*usecase.LoginOutput, error)
	resolveCallerFn func(ctx context.Context, token string) (model.Caller, error)
	isPrivilegedFn  func(ctx context.Context, userID uuid.UUID) (bool, error)
	ensureAdminFn   func(ctx context.Context, username, password string) error
}

func (m *mockAuthService) Register(ctx context.Context, input usecase.RegisterInput) (*model.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, input)
	}
	return nil, nil
}

func (m *mockAuthService) Authenticate(ctx context.Context, username, password string) (uuid.UUID, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, username, password)
	}
	return uuid.Nil, nil
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*usecase.LoginOutput, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, username, password)
	}
	return nil, nil
}

func (m *mockAuthService) ResolveCaller(ctx context.Context, token string) (model.Caller, error) {
	if m.resolveCallerFn != nil {
		return m.resolveCallerFn(ctx, token)
	}
	return model.Caller{}, nil
}

func (m *mockAuthService) IsPrivileged(ctx context.Context, userID uuid.UUID) (bool, error) {
	if m.isPrivilegedFn != nil {
		return m.isPrivilegedFn(ctx, userID)
	}
	return false, nil
}

func (m *mockAuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if m.ensureAdminFn != nil {
		return m.ensureAdminFn(ctx, username, password)
	}
	return nil
}

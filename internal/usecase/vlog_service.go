package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/domain/repository"
)

// CreateVlogInput contains the input parameters for creating a vlog.
type CreateVlogInput struct {
	Caller model.Caller
	Fields model.VlogFields
	// Tag is an optional label; it is created on first use.
	Tag   string
	Cover *MediaFile
	Media []MediaFile
}

// UpdateVlogInput contains a partial update. A nil Cover keeps the current one.
type UpdateVlogInput struct {
	Caller model.Caller
	VlogID uuid.UUID
	Patch  model.VlogPatch
	Cover  *MediaFile
}

// VlogService defines the interface for vlog aggregate operations.
// Every mutation requires a privileged caller.
type VlogService interface {
	// CreateVlog stores all files, then inserts the vlog, its tag and its media
	// in one transaction. Nothing remains if any step fails.
	CreateVlog(ctx context.Context, input CreateVlogInput) (*model.Vlog, error)

	// UpdateVlog changes title, content, description and cover. Likes are never written.
	UpdateVlog(ctx context.Context, input UpdateVlogInput) (*model.Vlog, error)

	// DeleteVlog removes the vlog with its likes, comments and media.
	DeleteVlog(ctx context.Context, caller model.Caller, vlogID uuid.UUID) error

	// GetVlog returns the vlog with media and comments. It is public.
	GetVlog(ctx context.Context, vlogID uuid.UUID) (*model.Vlog, error)

	AttachMedia(ctx context.Context, caller model.Caller, vlogID uuid.UUID, file MediaFile) (*model.MediaAttachment, error)
	ReplaceMedia(ctx context.Context, caller model.Caller, vlogID, mediaID uuid.UUID, file MediaFile) (*model.MediaAttachment, error)
	DetachMedia(ctx context.Context, caller model.Caller, vlogID uuid.UUID, kind model.MediaKind, mediaID uuid.UUID) error
}

type vlogService struct {
	store     repository.Store
	media     MediaStore
	publisher repository.EventPublisher
}

// NewVlogService creates a new VlogService instance.
func NewVlogService(
	store repository.Store,
	media MediaStore,
	publisher repository.EventPublisher,
) VlogService {
	return &vlogService{
		store:     store,
		media:     media,
		publisher: publisher,
	}
}

func requirePrivileged(caller model.Caller) error {
	if !caller.IsAuthenticated() || !caller.Privileged {
		return ErrForbidden
	}
	return nil
}

func (s *vlogService) CreateVlog(ctx context.Context, input CreateVlogInput) (_ *model.Vlog, err error) {
	ctx, span := tracer.Start(ctx, "VlogService.CreateVlog")
	defer func() { endSpan(span, err) }()

	if err := requirePrivileged(input.Caller); err != nil {
		return nil, err
	}

	vlog, err := model.NewVlog(input.Caller.UserID, input.Fields)
	if err != nil {
		return nil, err
	}
	if input.Tag != "" {
		if _, err := model.NewTag(input.Tag); err != nil {
			return nil, err
		}
	}

	files := input.Media
	if input.Cover != nil {
		cover := *input.Cover
		cover.Kind = model.MediaImage
		files = append([]MediaFile{cover}, files...)
	}
	for _, f := range files {
		if err := s.media.Validate(f); err != nil {
			return nil, err
		}
	}

	stored := make([]*StoredMedia, 0, len(files))
	for _, f := range files {
		sm, err := s.media.Store(ctx, f)
		if err != nil {
			s.discardStored(ctx, ReasonCreateFailed, stored)
			return nil, fmt.Errorf("store media: %w", err)
		}
		stored = append(stored, sm)
	}

	attachments := stored
	if input.Cover != nil {
		vlog.Cover = stored[0].Key
		attachments = stored[1:]
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if input.Tag != "" {
			tag, err := repos.Tags.FindOrCreate(ctx, input.Tag)
			if err != nil {
				return fmt.Errorf("find or create tag: %w", err)
			}
			vlog.SetTag(tag)
		}

		if err := repos.Vlogs.Create(ctx, vlog); err != nil {
			return fmt.Errorf("create vlog: %w", err)
		}

		author, err := repos.Users.GetByID(ctx, vlog.AuthorID)
		if err != nil {
			return fmt.Errorf("get author: %w", err)
		}
		vlog.AuthorName = author.Username

		vlog.Media = make([]*model.MediaAttachment, 0, len(attachments))
		for _, sm := range attachments {
			m, err := model.NewMediaAttachment(vlog.ID, sm.Kind, sm.Key, sm.ContentType)
			if err != nil {
				return err
			}
			if err := repos.Media.Create(ctx, m); err != nil {
				return fmt.Errorf("create media: %w", err)
			}
			vlog.Media = append(vlog.Media, m)
		}
		return nil
	})
	if err != nil {
		s.discardStored(ctx, ReasonCreateFailed, stored)
		return nil, err
	}
	vlog.Comments = []*model.Comment{}

	span.SetAttributes(attribute.String("vlog.id", vlog.ID.String()))
	publishEvent(ctx, s.publisher, model.NewVlogEvent(model.EventVlogCreated, vlog.ID, input.Caller.UserID))

	return vlog, nil
}

func (s *vlogService) UpdateVlog(ctx context.Context, input UpdateVlogInput) (_ *model.Vlog, err error) {
	ctx, span := tracer.Start(ctx, "VlogService.UpdateVlog",
		trace.WithAttributes(attribute.String("vlog.id", input.VlogID.String())))
	defer func() { endSpan(span, err) }()

	if err := requirePrivileged(input.Caller); err != nil {
		return nil, err
	}
	if input.Patch.IsEmpty() && input.Cover == nil {
		return nil, model.ErrEmptyPatch
	}

	var newCover *StoredMedia
	if input.Cover != nil {
		cover := *input.Cover
		cover.Kind = model.MediaImage
		sm, err := s.media.Store(ctx, cover)
		if err != nil {
			return nil, err
		}
		newCover = sm
	}

	var (
		vlog     *model.Vlog
		oldCover string
	)
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Vlogs.LockForUpdate(ctx, input.VlogID); err != nil {
			return err
		}

		v, err := repos.Vlogs.GetByID(ctx, input.VlogID)
		if err != nil {
			return err
		}

		if !input.Patch.IsEmpty() {
			if err := v.Apply(input.Patch); err != nil {
				return err
			}
		}
		if newCover != nil {
			oldCover = v.SetCover(newCover.Key)
		}

		if err := repos.Vlogs.Update(ctx, v); err != nil {
			return fmt.Errorf("update vlog: %w", err)
		}
		vlog = v
		return nil
	})
	if err != nil {
		if newCover != nil {
			s.media.Discard(ctx, ReasonUpdateFailed, newCover.Key)
		}
		return nil, err
	}

	if oldCover != "" {
		s.media.Discard(ctx, ReasonCoverReplaced, oldCover)
	}
	publishEvent(ctx, s.publisher, model.NewVlogEvent(model.EventVlogUpdated, vlog.ID, input.Caller.UserID))

	return vlog, nil
}

func (s *vlogService) DeleteVlog(ctx context.Context, caller model.Caller, vlogID uuid.UUID) (err error) {
	ctx, span := tracer.Start(ctx, "VlogService.DeleteVlog",
		trace.WithAttributes(attribute.String("vlog.id", vlogID.String())))
	defer func() { endSpan(span, err) }()

	if err := requirePrivileged(caller); err != nil {
		return err
	}

	var vlog *model.Vlog
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Vlogs.LockForUpdate(ctx, vlogID); err != nil {
			return err
		}

		v, err := repos.Vlogs.GetByID(ctx, vlogID)
		if err != nil {
			return err
		}
		if v.Media, err = repos.Media.ListByVlog(ctx, vlogID); err != nil {
			return fmt.Errorf("list media: %w", err)
		}

		if _, err := repos.Likes.DeleteByVlog(ctx, vlogID); err != nil {
			return fmt.Errorf("delete likes: %w", err)
		}
		if _, err := repos.Comments.DeleteByVlog(ctx, vlogID); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if _, err := repos.Media.DeleteByVlog(ctx, vlogID); err != nil {
			return fmt.Errorf("delete media: %w", err)
		}
		if err := repos.Vlogs.Delete(ctx, vlogID); err != nil {
			return fmt.Errorf("delete vlog: %w", err)
		}
		vlog = v
		return nil
	})
	if err != nil {
		return err
	}

	s.media.Discard(ctx, ReasonVlogDeleted, vlog.BlobKeys()...)
	publishEvent(ctx, s.publisher, model.NewVlogEvent(model.EventVlogDeleted, vlogID, caller.UserID))

	return nil
}

func (s *vlogService) GetVlog(ctx context.Context, vlogID uuid.UUID) (*model.Vlog, error) {
	repos := s.store.Repositories()

	vlog, err := repos.Vlogs.GetByID(ctx, vlogID)
	if err != nil {
		return nil, err
	}
	if vlog.Media, err = repos.Media.ListByVlog(ctx, vlogID); err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	if vlog.Comments, err = repos.Comments.ListByVlog(ctx, vlogID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return vlog, nil
}

func (s *vlogService) AttachMedia(ctx context.Context, caller model.Caller, vlogID uuid.UUID, file MediaFile) (*model.MediaAttachment, error) {
	if err := requirePrivileged(caller); err != nil {
		return nil, err
	}

	sm, err := s.media.Store(ctx, file)
	if err != nil {
		return nil, err
	}

	var media *model.MediaAttachment
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Vlogs.LockForUpdate(ctx, vlogID); err != nil {
			return err
		}
		m, err := model.NewMediaAttachment(vlogID, sm.Kind, sm.Key, sm.ContentType)
		if err != nil {
			return err
		}
		if err := repos.Media.Create(ctx, m); err != nil {
			return fmt.Errorf("create media: %w", err)
		}
		media = m
		return nil
	})
	if err != nil {
		s.media.Discard(ctx, ReasonCreateFailed, sm.Key)
		return nil, err
	}

	return media, nil
}

func (s *vlogService) ReplaceMedia(ctx context.Context, caller model.Caller, vlogID, mediaID uuid.UUID, file MediaFile) (*model.MediaAttachment, error) {
	if err := requirePrivileged(caller); err != nil {
		return nil, err
	}

	sm, err := s.media.Store(ctx, file)
	if err != nil {
		return nil, err
	}

	var (
		media  *model.MediaAttachment
		oldKey string
	)
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Vlogs.LockForUpdate(ctx, vlogID); err != nil {
			return err
		}
		m, err := repos.Media.GetByID(ctx, vlogID, file.Kind, mediaID)
		if err != nil {
			return err
		}
		oldKey = m.ReplaceFile(sm.Key, sm.ContentType)
		if err := repos.Media.UpdateFile(ctx, m); err != nil {
			return fmt.Errorf("update media: %w", err)
		}
		media = m
		return nil
	})
	if err != nil {
		s.media.Discard(ctx, ReasonUpdateFailed, sm.Key)
		return nil, err
	}

	s.media.Discard(ctx, ReasonMediaReplaced, oldKey)
	return media, nil
}

func (s *vlogService) DetachMedia(ctx context.Context, caller model.Caller, vlogID uuid.UUID, kind model.MediaKind, mediaID uuid.UUID) error {
	if err := requirePrivileged(caller); err != nil {
		return err
	}

	var key string
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Vlogs.LockForUpdate(ctx, vlogID); err != nil {
			return err
		}
		m, err := repos.Media.GetByID(ctx, vlogID, kind, mediaID)
		if err != nil {
			return err
		}
		if err := repos.Media.Delete(ctx, vlogID, kind, mediaID); err != nil {
			return fmt.Errorf("delete media: %w", err)
		}
		key = m.FileKey
		return nil
	})
	if err != nil {
		return err
	}

	s.media.Discard(ctx, ReasonMediaDetached, key)
	return nil
}

func (s *vlogService) discardStored(ctx context.Context, reason string, stored []*StoredMedia) {
	keys := make([]string, 0, len(stored))
	for _, sm := range stored {
		keys = append(keys, sm.Key)
	}
	s.media.Discard(ctx, reason, keys...)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/domain/repository"
)

var (
	errPasswordMismatch = errors.New("password mismatch")
	errForeignKey       = errors.New("foreign key violation")
)

// memState is the content of fakeStore. Rows are kept in insertion order.
type memState struct {
	users    []model.User
	tags     []model.Tag
	vlogs    []model.Vlog
	media    []model.MediaAttachment
	comments []model.Comment
	likes    []model.Like
}

func (s memState) clone() memState {
	return memState{
		users:    append([]model.User(nil), s.users...),
		tags:     append([]model.Tag(nil), s.tags...),
		vlogs:    append([]model.Vlog(nil), s.vlogs...),
		media:    append([]model.MediaAttachment(nil), s.media...),
		comments: append([]model.Comment(nil), s.comments...),
		likes:    append([]model.Like(nil), s.likes...),
	}
}

// fakeStore is an in-memory repository.Store. Transactions are serialized by
// one mutex and roll back by restoring a snapshot. It enforces the same
// foreign keys and unique constraints as the PostgreSQL schema, without cascades.
type fakeStore struct {
	mu    sync.Mutex
	state memState

	// mediaCreateErr, when set, fails every media insert.
	mediaCreateErr error

	// rowLocks counts vlog row locks taken inside transactions.
	rowLocks map[uuid.UUID]int
}

var _ repository.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{rowLocks: make(map[uuid.UUID]int)}
}

func (f *fakeStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot := f.state.clone()
	if err := fn(ctx, f.repos(true)); err != nil {
		f.state = snapshot
		return err
	}
	if err := ctx.Err(); err != nil {
		f.state = snapshot
		return err
	}
	return nil
}

func (f *fakeStore) Repositories() repository.Repositories {
	return f.repos(false)
}

func (f *fakeStore) repos(inTx bool) repository.Repositories {
	r := &memRepos{store: f, inTx: inTx}
	return repository.Repositories{
		Vlogs:    (*memVlogs)(r),
		Media:    (*memMedia)(r),
		Comments: (*memComments)(r),
		Likes:    (*memLikes)(r),
		Tags:     (*memTags)(r),
		Users:    (*memUsers)(r),
	}
}

// addUser seeds an account and returns its caller identity.
func (f *fakeStore) addUser(username string, privileged bool) model.Caller {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, err := model.NewUser(username, "hashed:Passw0rd", privileged)
	if err != nil {
		panic(err)
	}
	f.state.users = append(f.state.users, *u)
	return model.Caller{UserID: u.ID, Privileged: privileged}
}

// addVlog seeds a vlog authored by author.
func (f *fakeStore) addVlog(author model.Caller, title string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, err := model.NewVlog(author.UserID, model.VlogFields{Title: title, Description: "desc"})
	if err != nil {
		panic(err)
	}
	f.state.vlogs = append(f.state.vlogs, *v)
	return v.ID
}

func (f *fakeStore) snapshot() memState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.clone()
}

func (f *fakeStore) lockCount(vlogID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rowLocks[vlogID]
}

func (f *fakeStore) countLikes(vlogID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, l := range f.state.likes {
		if l.VlogID == vlogID {
			n++
		}
	}
	return n
}

func (f *fakeStore) storedLikes(vlogID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.state.vlogs {
		if v.ID == vlogID {
			return v.Likes
		}
	}
	return -1
}

type memRepos struct {
	store *fakeStore
	inTx  bool
}

// lock takes the store mutex for statements outside a transaction; inside
// one the transaction already holds it.
func (r *memRepos) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *memRepos) st() *memState {
	return &r.store.state
}

func (r *memRepos) vlogIndex(id uuid.UUID) int {
	for i, v := range r.st().vlogs {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func (r *memRepos) userByID(id uuid.UUID) (model.User, bool) {
	for _, u := range r.st().users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

func (r *memRepos) tagLabel(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	for _, t := range r.st().tags {
		if t.ID == *id {
			return t.Label
		}
	}
	return ""
}

type memVlogs memRepos

func (m *memVlogs) r() *memRepos { return (*memRepos)(m) }

func (m *memVlogs) Create(ctx context.Context, vlog *model.Vlog) error {
	defer m.r().lock()()
	if _, ok := m.r().userByID(vlog.AuthorID); !ok {
		return repository.ErrUserNotFound
	}
	row := *vlog
	row.Media, row.Comments = nil, nil
	m.r().st().vlogs = append(m.r().st().vlogs, row)
	return nil
}

func (m *memVlogs) GetByID(ctx context.Context, id uuid.UUID) (*model.Vlog, error) {
	defer m.r().lock()()
	i := m.r().vlogIndex(id)
	if i < 0 {
		return nil, repository.ErrVlogNotFound
	}
	v := m.r().st().vlogs[i]
	author, _ := m.r().userByID(v.AuthorID)
	v.AuthorName = author.Username
	v.Tag = m.r().tagLabel(v.TagID)
	return &v, nil
}

func (m *memVlogs) Update(ctx context.Context, vlog *model.Vlog) error {
	defer m.r().lock()()
	i := m.r().vlogIndex(vlog.ID)
	if i < 0 {
		return repository.ErrVlogNotFound
	}
	row := &m.r().st().vlogs[i]
	row.Title = vlog.Title
	row.Cover = vlog.Cover
	row.Content = vlog.Content
	row.Description = vlog.Description
	row.TagID = vlog.TagID
	row.UpdatedAt = vlog.UpdatedAt
	return nil
}

func (m *memVlogs) Delete(ctx context.Context, id uuid.UUID) error {
	defer m.r().lock()()
	i := m.r().vlogIndex(id)
	if i < 0 {
		return repository.ErrVlogNotFound
	}
	st := m.r().st()
	for _, x := range st.media {
		if x.VlogID == id {
			return errForeignKey
		}
	}
	for _, x := range st.comments {
		if x.VlogID == id {
			return errForeignKey
		}
	}
	for _, x := range st.likes {
		if x.VlogID == id {
			return errForeignKey
		}
	}
	st.vlogs = append(st.vlogs[:i:i], st.vlogs[i+1:]...)
	return nil
}

func (m *memVlogs) LockForUpdate(ctx context.Context, id uuid.UUID) error {
	defer m.r().lock()()
	if m.r().vlogIndex(id) < 0 {
		return repository.ErrVlogNotFound
	}
	if m.r().inTx {
		m.r().store.rowLocks[id]++
	}
	return nil
}

func (m *memVlogs) RecountLikes(ctx context.Context, id uuid.UUID) (int, error) {
	defer m.r().lock()()
	i := m.r().vlogIndex(id)
	if i < 0 {
		return 0, repository.ErrVlogNotFound
	}
	n := 0
	for _, l := range m.r().st().likes {
		if l.VlogID == id {
			n++
		}
	}
	m.r().st().vlogs[i].Likes = n
	return n, nil
}

func (m *memVlogs) List(ctx context.Context, filter repository.VlogFilter) ([]*model.VlogSummary, error) {
	defer m.r().lock()()
	st := m.r().st()

	var out []*model.VlogSummary
	for _, v := range st.vlogs {
		tag := m.r().tagLabel(v.TagID)
		if filter.Title != "" && !strings.Contains(strings.ToLower(v.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.Tag != "" && tag != filter.Tag {
			continue
		}
		author, _ := m.r().userByID(v.AuthorID)
		s := &model.VlogSummary{
			ID:          v.ID,
			Title:       v.Title,
			Cover:       v.Cover,
			Content:     v.Content,
			Description: v.Description,
			Likes:       v.Likes,
			Tags:        []string{},
			AuthorName:  author.Username,
			PostedAt:    v.PostedAt,
			UpdatedAt:   v.UpdatedAt,
		}
		if tag != "" {
			s.Tags = append(s.Tags, tag)
		}
		for _, c := range st.comments {
			if c.VlogID == v.ID {
				s.CommentCount++
			}
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PostedAt.After(out[j].PostedAt)
	})

	if filter.Offset >= len(out) {
		return []*model.VlogSummary{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

type memMedia memRepos

func (m *memMedia) r() *memRepos { return (*memRepos)(m) }

func (m *memMedia) Create(ctx context.Context, media *model.MediaAttachment) error {
	defer m.r().lock()()
	if m.r().store.mediaCreateErr != nil {
		return m.r().store.mediaCreateErr
	}
	if m.r().vlogIndex(media.VlogID) < 0 {
		return repository.ErrVlogNotFound
	}
	m.r().st().media = append(m.r().st().media, *media)
	return nil
}

func (m *memMedia) find(vlogID uuid.UUID, kind model.MediaKind, id uuid.UUID) int {
	for i, x := range m.r().st().media {
		if x.ID == id && x.VlogID == vlogID && x.Kind == kind {
			return i
		}
	}
	return -1
}

func (m *memMedia) GetByID(ctx context.Context, vlogID uuid.UUID, kind model.MediaKind, id uuid.UUID) (*model.MediaAttachment, error) {
	defer m.r().lock()()
	i := m.find(vlogID, kind, id)
	if i < 0 {
		return nil, repository.ErrMediaNotFound
	}
	x := m.r().st().media[i]
	return &x, nil
}

func (m *memMedia) ListByVlog(ctx context.Context, vlogID uuid.UUID) ([]*model.MediaAttachment, error) {
	defer m.r().lock()()
	out := make([]*model.MediaAttachment, 0)
	for _, x := range m.r().st().media {
		if x.VlogID == vlogID {
			x := x
			out = append(out, &x)
		}
	}
	return out, nil
}

func (m *memMedia) UpdateFile(ctx context.Context, media *model.MediaAttachment) error {
	defer m.r().lock()()
	i := m.find(media.VlogID, media.Kind, media.ID)
	if i < 0 {
		return repository.ErrMediaNotFound
	}
	m.r().st().media[i].FileKey = media.FileKey
	m.r().st().media[i].ContentType = media.ContentType
	return nil
}

func (m *memMedia) Delete(ctx context.Context, vlogID uuid.UUID, kind model.MediaKind, id uuid.UUID) error {
	defer m.r().lock()()
	i := m.find(vlogID, kind, id)
	if i < 0 {
		return repository.ErrMediaNotFound
	}
	st := m.r().st()
	st.media = append(st.media[:i:i], st.media[i+1:]...)
	return nil
}

func (m *memMedia) DeleteByVlog(ctx context.Context, vlogID uuid.UUID) (int64, error) {
	defer m.r().lock()()
	st := m.r().st()
	kept := st.media[:0:0]
	var n int64
	for _, x := range st.media {
		if x.VlogID == vlogID {
			n++
			continue
		}
		kept = append(kept, x)
	}
	st.media = kept
	return n, nil
}

type memComments memRepos

func (m *memComments) r() *memRepos { return (*memRepos)(m) }

func (m *memComments) Create(ctx context.Context, comment *model.Comment) error {
	defer m.r().lock()()
	if m.r().vlogIndex(comment.VlogID) < 0 {
		return repository.ErrVlogNotFound
	}
	if _, ok := m.r().userByID(comment.AuthorID); !ok {
		return repository.ErrUserNotFound
	}
	m.r().st().comments = append(m.r().st().comments, *comment)
	return nil
}

func (m *memComments) ListByVlog(ctx context.Context, vlogID uuid.UUID) ([]*model.Comment, error) {
	defer m.r().lock()()
	st := m.r().st()
	out := make([]*model.Comment, 0)
	for i := len(st.comments) - 1; i >= 0; i-- {
		c := st.comments[i]
		if c.VlogID != vlogID {
			continue
		}
		author, _ := m.r().userByID(c.AuthorID)
		c.AuthorName = author.Username
		out = append(out, &c)
	}
	return out, nil
}

func (m *memComments) find(vlogID, authorID, id uuid.UUID) int {
	for i, c := range m.r().st().comments {
		if c.ID == id && c.VlogID == vlogID && c.AuthorID == authorID {
			return i
		}
	}
	return -1
}

func (m *memComments) Update(ctx context.Context, comment *model.Comment) error {
	defer m.r().lock()()
	i := m.find(comment.VlogID, comment.AuthorID, comment.ID)
	if i < 0 {
		return repository.ErrCommentNotFound
	}
	row := &m.r().st().comments[i]
	row.Text = comment.Text
	row.UpdatedAt = comment.UpdatedAt
	comment.PostedAt = row.PostedAt
	return nil
}

func (m *memComments) Delete(ctx context.Context, vlogID, authorID, id uuid.UUID) error {
	defer m.r().lock()()
	i := m.find(vlogID, authorID, id)
	if i < 0 {
		return repository.ErrCommentNotFound
	}
	st := m.r().st()
	st.comments = append(st.comments[:i:i], st.comments[i+1:]...)
	return nil
}

func (m *memComments) DeleteByVlog(ctx context.Context, vlogID uuid.UUID) (int64, error) {
	defer m.r().lock()()
	st := m.r().st()
	kept := st.comments[:0:0]
	var n int64
	for _, c := range st.comments {
		if c.VlogID == vlogID {
			n++
			continue
		}
		kept = append(kept, c)
	}
	st.comments = kept
	return n, nil
}

type memLikes memRepos

func (m *memLikes) r() *memRepos { return (*memRepos)(m) }

func (m *memLikes) Create(ctx context.Context, like *model.Like) error {
	defer m.r().lock()()
	if m.r().vlogIndex(like.VlogID) < 0 {
		return repository.ErrVlogNotFound
	}
	for _, l := range m.r().st().likes {
		if l.UserID == like.UserID && l.VlogID == like.VlogID {
			return repository.ErrDuplicateLike
		}
	}
	m.r().st().likes = append(m.r().st().likes, *like)
	return nil
}

func (m *memLikes) Delete(ctx context.Context, userID, vlogID uuid.UUID) error {
	defer m.r().lock()()
	st := m.r().st()
	for i, l := range st.likes {
		if l.UserID == userID && l.VlogID == vlogID {
			st.likes = append(st.likes[:i:i], st.likes[i+1:]...)
			return nil
		}
	}
	return repository.ErrLikeNotFound
}

func (m *memLikes) Exists(ctx context.Context, userID, vlogID uuid.UUID) (bool, error) {
	defer m.r().lock()()
	for _, l := range m.r().st().likes {
		if l.UserID == userID && l.VlogID == vlogID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memLikes) DeleteByVlog(ctx context.Context, vlogID uuid.UUID) (int64, error) {
	defer m.r().lock()()
	st := m.r().st()
	kept := st.likes[:0:0]
	var n int64
	for _, l := range st.likes {
		if l.VlogID == vlogID {
			n++
			continue
		}
		kept = append(kept, l)
	}
	st.likes = kept
	return n, nil
}

type memTags memRepos

func (m *memTags) r() *memRepos { return (*memRepos)(m) }

func (m *memTags) FindOrCreate(ctx context.Context, label string) (*model.Tag, error) {
	defer m.r().lock()()
	tag, err := model.NewTag(label)
	if err != nil {
		return nil, err
	}
	for _, t := range m.r().st().tags {
		if t.Label == tag.Label {
			t := t
			return &t, nil
		}
	}
	m.r().st().tags = append(m.r().st().tags, *tag)
	return tag, nil
}

type memUsers memRepos

func (m *memUsers) r() *memRepos { return (*memRepos)(m) }

func (m *memUsers) Create(ctx context.Context, user *model.User) error {
	defer m.r().lock()()
	for _, u := range m.r().st().users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
	}
	m.r().st().users = append(m.r().st().users, *user)
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	defer m.r().lock()()
	u, ok := m.r().userByID(id)
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	defer m.r().lock()()
	for _, u := range m.r().st().users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error {
	defer m.r().lock()()
	for i := range m.r().st().users {
		if m.r().st().users[i].ID == id {
			m.r().st().users[i].IsAdmin = isAdmin
			return nil
		}
	}
	return repository.ErrUserNotFound
}

package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"herelaw-backend/llm"
	"herelaw-backend/models"
	"herelaw-backend/quality"
	"herelaw-backend/repository"
	"herelaw-backend/storage"

	"github.com/google/uuid"
)

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*models.Session
	order    []uuid.UUID
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[uuid.UUID]*models.Session{}}
}

func (f *fakeSessionStore) Create(_ context.Context, s *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	f.sessions[s.ID] = &cp
	f.order = append(f.order, s.ID)
	return nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, id uuid.UUID) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) UpdateGeneratedContent(_ context.Context, id uuid.UUID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.GeneratedContent = content
	return nil
}

func (f *fakeSessionStore) UpdateRating(_ context.Context, id uuid.UUID, rating float64, feedback *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Rating = &rating
	if feedback != nil {
		s.Feedback = feedback
	}
	return nil
}

func (f *fakeSessionStore) ListByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Session
	for i := len(f.order) - 1; i >= 0; i-- {
		s := f.sessions[f.order[i]]
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// StatsByUserID mirrors the SQL aggregate: unrated sessions count but are not averaged
func (f *fakeSessionStore) StatsByUserID(_ context.Context, userID uuid.UUID) (int, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var (
		total, rated int
		sum          float64
	)
	for _, s := range f.sessions {
		if s.UserID != userID {
			continue
		}
		total++
		if s.Rating != nil {
			rated++
			sum += *s.Rating
		}
	}
	if rated == 0 {
		return total, 0, nil
	}
	return total, sum / float64(rated), nil
}

type fakeActivityStore struct {
	mu      sync.Mutex
	entries []models.ActivityLog
	err     error
}

func (f *fakeActivityStore) Insert(_ context.Context, entry *models.ActivityLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityStore) ListByUserID(_ context.Context, userID string, limit int) ([]models.ActivityLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ActivityLog
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].UserID == userID {
			out = append(out, f.entries[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeActivityStore) actions(userID uuid.UUID) []models.ActivityAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ActivityAction
	for _, e := range f.entries {
		if e.UserID == userID.String() {
			out = append(out, e.Action)
		}
	}
	return out
}

type fakeLevelRefresher struct {
	calls []uuid.UUID
	err   error
}

func (f *fakeLevelRefresher) RefreshLevel(_ context.Context, userID uuid.UUID) (int, error) {
	f.calls = append(f.calls, userID)
	return models.MinLevel, f.err
}

type fakeFeedbackStore struct {
	records   []models.FeedbackRecord
	insertErr error
	stats     *models.FeedbackStatistics
}

func (f *fakeFeedbackStore) Insert(_ context.Context, r *models.FeedbackRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if err := r.Validate(); err != nil {
		return err
	}
	f.records = append(f.records, *r)
	return nil
}

func (f *fakeFeedbackStore) ExistsForSession(_ context.Context, sessionID string) (bool, error) {
	for _, r := range f.records {
		if r.SessionID == sessionID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFeedbackStore) Statistics(context.Context) (*models.FeedbackStatistics, error) {
	if f.stats == nil {
		return &models.FeedbackStatistics{}, nil
	}
	return f.stats, nil
}

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]*models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, u *models.User) error {
	u.ID = uuid.New()
	u.Status = models.StatusActive
	u.Level = models.MinLevel
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUserStore) List(_ context.Context, limit, offset int) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		cp := *u
		out = append(out, &cp)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, id uuid.UUID, update models.UserUpdate) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if update.Email != nil {
		for other, existing := range f.users {
			if other != id && existing.Email == *update.Email {
				return nil, repository.ErrDuplicate
			}
		}
		u.Email = *update.Email
	}
	if update.Role != nil {
		u.Role = *update.Role
	}
	if update.Status != nil {
		u.Status = *update.Status
	}
	if update.Level != nil {
		u.Level = *update.Level
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) UpdateLevel(_ context.Context, id uuid.UUID, level int) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Level = level
	return nil
}

func (f *fakeUserStore) TouchLastLogin(_ context.Context, id uuid.UUID) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

type fakeFileStore struct {
	files map[uuid.UUID]*models.File
	err   error
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: map[uuid.UUID]*models.File{}}
}

func (f *fakeFileStore) Create(_ context.Context, file *models.File) error {
	if f.err != nil {
		return f.err
	}
	file.CreatedAt = time.Now()
	cp := *file
	f.files[file.ID] = &cp
	return nil
}

func (f *fakeFileStore) GetByID(_ context.Context, id uuid.UUID) (*models.File, error) {
	file, ok := f.files[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *file
	return &cp, nil
}

// memStorage is an in-memory storage.Storage
type memStorage struct {
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) Upload(_ context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	path := fileID.String() + "/" + filename
	m.objects[path] = b
	return path, nil
}

func (m *memStorage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	b, ok := m.objects[path]
	if !ok {
		return nil, storage.ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memStorage) Delete(_ context.Context, path string) error {
	delete(m.objects, path)
	return nil
}

type fakeCompleter struct {
	response string
	err      error
	calls    [][]llm.Message
}

func (f *fakeCompleter) Complete(_ context.Context, messages []llm.Message) (string, error) {
	f.calls = append(f.calls, messages)
	return f.response, f.err
}

func (f *fakeCompleter) Model() string { return "fake-model" }

type fakeBestPractices struct {
	bundle *quality.BestPracticeBundle
	err    error
}

func (f *fakeBestPractices) BestPractices(context.Context) (*quality.BestPracticeBundle, error) {
	return f.bundle, f.err
}

type fakeRetriever struct {
	chunks map[models.ReferenceDocType][]string
	err    error
}

func (f *fakeRetriever) SimilarChunks(_ context.Context, _ string, docType models.ReferenceDocType, k int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := f.chunks[docType]
	if len(c) > k {
		c = c[:k]
	}
	return c, nil
}

type fakeEmbedder struct {
	vector []float64
	err    error
}

func (f *fakeEmbedder) Embed(context.Context, string) ([]float64, error) {
	return f.vector, f.err
}

type fakeChunkSearcher struct {
	chunks  []models.ReferenceChunk
	gotType models.ReferenceDocType
}

func (f *fakeChunkSearcher) SearchByDocType(_ context.Context, _ []float64, docType models.ReferenceDocType, limit int) ([]models.ReferenceChunk, error) {
	f.gotType = docType
	if len(f.chunks) > limit {
		return f.chunks[:limit], nil
	}
	return f.chunks, nil
}

type fakeTranscriber struct {
	text string
	err  error
	got  []byte
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string, audio io.Reader) (string, error) {
	b, err := io.ReadAll(audio)
	if err != nil {
		return "", err
	}
	f.got = b
	return f.text, f.err
}

type fakeTokenIssuer struct{}

func (fakeTokenIssuer) IssueToken(u *models.User) (string, time.Time, error) {
	if u == nil {
		return "", time.Time{}, errors.New("nil user")
	}
	return "token-" + u.Username, time.Now().Add(time.Hour), nil
}

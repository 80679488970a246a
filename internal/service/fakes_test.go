package service

import (
	"context"
	"sync"

	"github.com/archimatch/archimatch/internal/model"
	"github.com/archimatch/archimatch/internal/notify"
	appErr "github.com/archimatch/archimatch/internal/pkg/errors"
)

// fakeMatchStore keeps the same uniqueness semantics as the Postgres repo:
// one row per (client, architect) pair, enforced under a lock so the
// concurrency tests are meaningful.
type fakeMatchStore struct {
	mu      sync.Mutex
	byID    map[string]*model.MatchRequest
	byPair  map[[2]string]string
	clients map[string]string
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{
		byID:    make(map[string]*model.MatchRequest),
		byPair:  make(map[[2]string]string),
		clients: make(map[string]string),
	}
}

func (f *fakeMatchStore) Create(_ context.Context, m *model.MatchRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pair := [2]string{m.ClientID, m.ArchitectID}
	if _, exists := f.byPair[pair]; exists {
		return appErr.ErrConflict
	}
	clone := *m
	f.byPair[pair] = m.ID
	f.byID[m.ID] = &clone
	return nil
}

func (f *fakeMatchStore) GetByID(_ context.Context, id string) (*model.MatchRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	clone := *m
	return &clone, nil
}

func (f *fakeMatchStore) UpdateStatus(_ context.Context, id, fromStatus, toStatus string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[id]
	if !ok || m.Status != fromStatus {
		return appErr.ErrConflict
	}
	m.Status = toStatus
	return nil
}

func (f *fakeMatchStore) ListPendingForArchitect(_ context.Context, architectID string) ([]model.PendingMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var results []model.PendingMatch
	for _, m := range f.byID {
		if m.ArchitectID == architectID && m.Status == model.MatchStatusPending {
			results = append(results, model.PendingMatch{
				MatchRequest: *m,
				ClientName:   f.clients[m.ClientID],
			})
		}
	}
	return results, nil
}

func (f *fakeMatchStore) ListByClient(_ context.Context, clientID string) ([]model.MatchRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var results []model.MatchRequest
	for _, m := range f.byID {
		if m.ClientID == clientID {
			results = append(results, *m)
		}
	}
	return results, nil
}

func (f *fakeMatchStore) StatusesForClient(_ context.Context, clientID string) (map[string]string, error) {
	matches, _ := f.ListByClient(context.Background(), clientID)
	statuses := make(map[string]string, len(matches))
	for _, m := range matches {
		statuses[m.ArchitectID] = m.Status
	}
	return statuses, nil
}

type fakeArchitectStore struct {
	mu       sync.Mutex
	profiles map[string]*model.ArchitectProfile
	updates  []map[string]interface{}
}

func newFakeArchitectStore(profiles ...*model.ArchitectProfile) *fakeArchitectStore {
	f := &fakeArchitectStore{profiles: make(map[string]*model.ArchitectProfile)}
	for _, p := range profiles {
		clone := *p
		f.profiles[p.ID] = &clone
	}
	return f
}

func (f *fakeArchitectStore) GetByID(_ context.Context, id string) (*model.ArchitectProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakeArchitectStore) Create(_ context.Context, a *model.ArchitectProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.profiles[a.ID]; exists {
		return appErr.ErrConflict
	}
	clone := *a
	f.profiles[a.ID] = &clone
	return nil
}

func (f *fakeArchitectStore) UpdateFields(_ context.Context, id string, update map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return appErr.ErrNotFound
	}
	f.updates = append(f.updates, update)
	if v, ok := update["style"].(string); ok {
		p.Style = v
	}
	if v, ok := update["specialization"].(string); ok {
		p.Specialization = v
	}
	if v, ok := update["location"].(string); ok {
		p.Location = v
	}
	if v, ok := update["budget_range"].(string); ok {
		p.BudgetRange = v
	}
	if v, ok := update["bio"].(string); ok {
		p.Bio = v
	}
	if v, ok := update["credentials_text"].(string); ok {
		p.CredentialsText = v
	}
	if v, ok := update["portfolio_text"].(string); ok {
		p.PortfolioText = v
	}
	if v, ok := update["rating"].(float64); ok {
		p.Rating = v
	}
	if v, ok := update["mtime"].(int64); ok {
		p.Mtime = v
	}
	return nil
}

func (f *fakeArchitectStore) SaveEmbedding(_ context.Context, id, embedding, embedHash string, embedMtime int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return appErr.ErrNotFound
	}
	p.PortfolioEmbedding = embedding
	p.EmbedHash = embedHash
	p.EmbedMtime = embedMtime
	return nil
}

func (f *fakeArchitectStore) ListWithEmbeddings(_ context.Context) ([]*model.ArchitectProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var results []*model.ArchitectProfile
	for _, p := range f.profiles {
		if p.PortfolioEmbedding != "" {
			clone := *p
			results = append(results, &clone)
		}
	}
	return results, nil
}

func (f *fakeArchitectStore) ListStaleEmbeddings(_ context.Context, limit int) ([]*model.ArchitectProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var results []*model.ArchitectProfile
	for _, p := range f.profiles {
		if p.PortfolioText != "" && (p.PortfolioEmbedding == "" || p.EmbedMtime < p.Mtime) {
			clone := *p
			results = append(results, &clone)
			if len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

type fakeUserStore struct {
	users map[string]*model.User
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) Upsert(_ context.Context, user *model.User) error {
	if f.users == nil {
		f.users = map[string]*model.User{}
	}
	f.users[user.ID] = user
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, event notify.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) Close() {}

type fakeEmbedder struct {
	mu    sync.Mutex
	vecs  map[string][]float32
	fixed []float32
	err   error
	texts []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string, _ string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	if vec, ok := f.vecs[text]; ok {
		return vec, nil
	}
	return f.fixed, nil
}

func (f *fakeEmbedder) ModelName() string {
	return "fake-embed"
}

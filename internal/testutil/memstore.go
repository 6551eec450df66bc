package testutil

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"rankdash/internal/db"
	"rankdash/internal/models"
)

// MemStore is an in-memory stand-in for *db.DB with the same upsert and
// ordering rules. Set Err to make every call fail.
type MemStore struct {
	mu sync.Mutex

	Keywords       []models.Keyword
	Rankings       []models.Ranking
	Clients        []models.Client
	GlobalKeywords []models.GlobalKeyword

	Err         error
	Initialized bool
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func keywordKey(kw models.Keyword) string {
	return strings.ToLower(kw.Text) + "|" + kw.State + "|" + kw.City
}

func (m *MemStore) Ping(context.Context) error {
	return m.Err
}

func (m *MemStore) InitSchema(context.Context) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Initialized = true
	return nil
}

func (m *MemStore) Reset(context.Context) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Keywords = nil
	m.Rankings = nil
	return nil
}

func (m *MemStore) SeedKeywords(ctx context.Context) (int, error) {
	before := m.count()
	_, err := m.CreateKeywords(ctx, []models.Keyword{
		{Text: "plumber near me", MonthlySearches: 10000, CurrentRank: 7, Category: "plumbing", City: "Austin", State: "TX"},
		{Text: "drain cleaning", MonthlySearches: 2000, CurrentRank: 2, Category: "plumbing", City: "Austin", State: "TX"},
	})
	return m.count() - before, err
}

func (m *MemStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Keywords)
}

func (m *MemStore) ListKeywords(_ context.Context, category string) ([]models.Keyword, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Keyword
	for _, kw := range m.Keywords {
		if category == "" || kw.Category == category {
			out = append(out, kw)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Keyword) int {
		if c := cmp.Compare(b.MonthlySearches, a.MonthlySearches); c != 0 {
			return c
		}
		return cmp.Compare(a.Text, b.Text)
	})
	return out, nil
}

func (m *MemStore) GetKeyword(_ context.Context, id uuid.UUID) (*models.Keyword, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, kw := range m.Keywords {
		if kw.ID == id {
			return &kw, nil
		}
	}
	return nil, db.ErrKeywordNotFound
}

func (m *MemStore) CreateKeywords(_ context.Context, keywords []models.Keyword) ([]models.Keyword, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	created := make([]models.Keyword, 0, len(keywords))
	for _, kw := range keywords {
		if kw.TargetRank < 1 {
			kw.TargetRank = 3
		}
		i := slices.IndexFunc(m.Keywords, func(k models.Keyword) bool { return keywordKey(k) == keywordKey(kw) })
		if i >= 0 {
			existing := m.Keywords[i]
			kw.ID, kw.CreatedAt = existing.ID, existing.CreatedAt
			kw.Text, kw.State, kw.City = existing.Text, existing.State, existing.City
			if kw.CurrentRank == 0 {
				kw.CurrentRank = existing.CurrentRank
			}
			kw.UpdatedAt = now
			m.Keywords[i] = kw
		} else {
			kw.ID = uuid.New()
			kw.CreatedAt, kw.UpdatedAt = now, now
			m.Keywords = append(m.Keywords, kw)
		}
		created = append(created, kw)
	}
	return created, nil
}

func (m *MemStore) UpdateKeywordRank(_ context.Context, id uuid.UUID, rank int) (*models.Keyword, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Keywords {
		if m.Keywords[i].ID == id {
			m.Keywords[i].CurrentRank = rank
			kw := m.Keywords[i]
			return &kw, nil
		}
	}
	return nil, db.ErrKeywordNotFound
}

func (m *MemStore) SaveKeywordRanks(_ context.Context, keywords []models.Keyword) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, kw := range keywords {
		i := slices.IndexFunc(m.Keywords, func(k models.Keyword) bool { return k.ID == kw.ID })
		if i < 0 {
			return db.ErrKeywordNotFound
		}
		m.Keywords[i].CurrentRank = kw.CurrentRank
		m.Keywords[i].Competitor1Rank = kw.Competitor1Rank
		m.Keywords[i].Competitor2Rank = kw.Competitor2Rank
		m.Keywords[i].Competitor3Rank = kw.Competitor3Rank
	}
	return nil
}

func (m *MemStore) ListRankings(_ context.Context, keywordID *uuid.UUID) ([]models.Ranking, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Ranking
	for _, r := range m.Rankings {
		if keywordID == nil || r.KeywordID == *keywordID {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Ranking) int {
		if c := cmp.Compare(a.KeywordID.String(), b.KeywordID.String()); c != 0 {
			return c
		}
		return cmp.Compare(a.Rank, b.Rank)
	})
	return out, nil
}

func (m *MemStore) UpsertRankings(_ context.Context, rankings []models.Ranking) ([]models.Ranking, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := make([]models.Ranking, 0, len(rankings))
	for _, r := range models.DedupeRankings(rankings) {
		if !slices.ContainsFunc(m.Keywords, func(k models.Keyword) bool { return k.ID == r.KeywordID }) {
			return nil, db.ErrKeywordNotFound
		}
		i := slices.IndexFunc(m.Rankings, func(s models.Ranking) bool { return s.CompositeKey() == r.CompositeKey() })
		if i >= 0 {
			r.ID = m.Rankings[i].ID
			m.Rankings[i] = r
		} else {
			if r.ID == uuid.Nil {
				r.ID = uuid.New()
			}
			m.Rankings = append(m.Rankings, r)
		}
		saved = append(saved, r)
	}
	return saved, nil
}

func (m *MemStore) UpdateRanking(_ context.Context, r *models.Ranking) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Rankings {
		if m.Rankings[i].ID == r.ID {
			r.KeywordID = m.Rankings[i].KeywordID
			m.Rankings[i] = *r
			return nil
		}
	}
	return db.ErrRankingNotFound
}

func (m *MemStore) ListClients(context.Context) ([]models.Client, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.Clients), nil
}

func (m *MemStore) CreateClients(_ context.Context, clients []models.Client) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range clients {
		c.ID = uuid.New()
		m.Clients = append(m.Clients, c)
	}
	return len(clients), nil
}

func (m *MemStore) ListGlobalKeywords(_ context.Context, category string) ([]models.GlobalKeyword, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.GlobalKeyword
	for _, k := range m.GlobalKeywords {
		if category == "" || k.Category == category {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *MemStore) UpsertGlobalKeywords(_ context.Context, keywords []models.GlobalKeyword) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keywords {
		k.ID = uuid.New()
		m.GlobalKeywords = append(m.GlobalKeywords, k)
	}
	return len(keywords), nil
}

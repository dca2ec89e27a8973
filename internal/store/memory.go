package store

import (
	"context"
	"sync"
	"time"

	"github.com/oluto/statements/internal/statement"
)

// MemoryStore is an in-memory TransactionStore for tests and local runs.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string][]statement.ExistingTransaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, rows: make(map[string][]statement.ExistingTransaction)}
}

func (s *MemoryStore) InsertTransactions(_ context.Context, businessID string, txs []*statement.ParsedTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range txs {
		s.rows[businessID] = append(s.rows[businessID], statement.ExistingTransaction{
			ID:         s.nextID,
			Date:       tx.Date,
			Amount:     tx.Amount,
			VendorName: tx.VendorName,
		})
		s.nextID++
	}
	return nil
}

func (s *MemoryStore) QueryByDateRange(_ context.Context, businessID string, start, end time.Time) ([]statement.ExistingTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []statement.ExistingTransaction
	for _, r := range s.rows[businessID] {
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Seed inserts pre-existing transactions directly, for tests.
func (s *MemoryStore) Seed(businessID string, existing ...statement.ExistingTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range existing {
		if e.ID == 0 {
			e.ID = s.nextID
			s.nextID++
		} else if e.ID >= s.nextID {
			s.nextID = e.ID + 1
		}
		s.rows[businessID] = append(s.rows[businessID], e)
	}
}

package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/eugenenazirov/molding-cutter/internal/cutting"
)

const (
	// DefaultStockLength is the molding length used when nothing else is configured.
	DefaultStockLength uint = 2200

	maxStoredPlans = 100
)

var (
	// ErrInvalidStockLength indicates the provided stock length is not positive.
	ErrInvalidStockLength = errors.New("stock length must be a positive integer")
	// ErrPlanNotFound indicates no plan is stored under the requested ID.
	ErrPlanNotFound = errors.New("plan not found")
)

// Record is a computed plan kept for later retrieval and export.
type Record struct {
	ID        string
	CreatedAt time.Time
	Plan      cutting.Plan
}

// Storage provides access to the stock length and recently computed plans.
type Storage interface {
	GetStockLength() (uint, error)
	SetStockLength(length uint) error
	SavePlan(record Record) error
	GetPlan(id string) (Record, error)
}

// MemoryStorage keeps state in-memory and guards access with a RWMutex.
// Only the most recent plans are retained.
type MemoryStorage struct {
	mu          sync.RWMutex
	stockLength uint
	plans       map[string]Record
	order       []string
	capacity    int
}

// NewMemoryStorage initialises storage with the default stock length.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		stockLength: DefaultStockLength,
		plans:       make(map[string]Record),
		capacity:    maxStoredPlans,
	}
}

// GetStockLength returns the currently configured stock length.
func (s *MemoryStorage) GetStockLength() (uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.stockLength, nil
}

// SetStockLength validates and stores the stock length.
func (s *MemoryStorage) SetStockLength(length uint) error {
	if length == 0 {
		return ErrInvalidStockLength
	}

	s.mu.Lock()
	s.stockLength = length
	s.mu.Unlock()

	return nil
}

// SavePlan stores a defensive copy of the record, evicting the oldest plan
// once the capacity is reached.
func (s *MemoryStorage) SavePlan(record Record) error {
	if record.ID == "" {
		return errors.New("plan record requires an ID")
	}
	record.Plan = record.Plan.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.plans[record.ID]; !exists {
		s.order = append(s.order, record.ID)
	}
	s.plans[record.ID] = record

	for len(s.order) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.plans, oldest)
	}
	return nil
}

// GetPlan returns a defensive copy of the stored record.
func (s *MemoryStorage) GetPlan(id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.plans[id]
	if !ok {
		return Record{}, ErrPlanNotFound
	}
	record.Plan = record.Plan.Clone()
	return record, nil
}

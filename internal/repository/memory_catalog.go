package repository

import (
	"context"
	"sync"

	"github.com/iliyamo/nihongo-sekai/internal/model"
)

// MemoryCatalog serves a fixed catalog from memory.  It has the same
// method set as CatalogRepo and backs CATALOG_SOURCE=seed.
type MemoryCatalog struct {
	mu       sync.RWMutex
	items    map[model.Kind][]model.Item
	enrolled map[uint64]map[uint64]bool
}

// NewMemoryCatalog copies items into a new catalog.
func NewMemoryCatalog(items []model.Item) *MemoryCatalog {
	m := &MemoryCatalog{
		items:    make(map[model.Kind][]model.Item),
		enrolled: make(map[uint64]map[uint64]bool),
	}
	for _, it := range items {
		m.items[it.Kind] = append(m.items[it.Kind], it)
	}
	return m
}

func (m *MemoryCatalog) Load(_ context.Context, kind model.Kind) ([]model.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Item(nil), m.items[kind]...), nil
}

func (m *MemoryCatalog) GetByID(_ context.Context, kind model.Kind, id uint64) (model.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, it := range m.items[kind] {
		if it.ID == id {
			return it, nil
		}
	}
	return model.Item{}, ErrItemNotFound
}

func (m *MemoryCatalog) Enroll(_ context.Context, classroomID, userID uint64) (model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.items[model.KindClassroom]
	for i := range list {
		it := &list[i]
		if it.ID != classroomID {
			continue
		}
		if it.IsFull() || it.Status == model.StatusFull {
			return model.Item{}, ErrClassroomFull
		}
		if m.enrolled[classroomID][userID] {
			return model.Item{}, ErrAlreadyEnrolled
		}
		if m.enrolled[classroomID] == nil {
			m.enrolled[classroomID] = make(map[uint64]bool)
		}
		m.enrolled[classroomID][userID] = true
		it.EnrolledStudents++
		it.StudentsCount++
		if it.IsFull() {
			it.Status = model.StatusFull
		}
		return *it, nil
	}
	return model.Item{}, ErrItemNotFound
}

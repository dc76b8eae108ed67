package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"aegisd/internal/models"
)

// MemoryActivationStore keeps bindings in a mutex-guarded map. It backs
// single-node deployments that run without a database and the handler tests.
// The single mutex serializes Bind, which is what upholds the first-activator-
// wins guarantee here.
type MemoryActivationStore struct {
	mu       sync.RWMutex
	bindings map[string]*models.ActivationBinding
}

func NewMemoryActivationStore() *MemoryActivationStore {
	return &MemoryActivationStore{bindings: make(map[string]*models.ActivationBinding)}
}

func (s *MemoryActivationStore) Provision(_ context.Context, b *models.ActivationBinding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bindings[b.LicenseKey]; exists {
		return fmt.Errorf("%w: activation", ErrDuplicate)
	}
	clone := *b
	s.bindings[b.LicenseKey] = &clone
	return nil
}

func (s *MemoryActivationStore) Lookup(_ context.Context, licenseKey string) (*models.ActivationBinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bindings[licenseKey]
	if !ok {
		return nil, fmt.Errorf("%w: activation", ErrNotFound)
	}
	clone := *b
	return &clone, nil
}

func (s *MemoryActivationStore) Bind(_ context.Context, licenseKey, hardwareID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bindings[licenseKey]
	if !ok {
		return fmt.Errorf("%w: activation", ErrNotFound)
	}
	if b.Status != models.BindingStatusActive {
		return fmt.Errorf("%w: status %s", ErrNotActive, b.Status)
	}
	if b.HardwareID != nil && *b.HardwareID != hardwareID {
		return fmt.Errorf("%w: license bound to another machine", ErrHardwareMismatch)
	}
	now := time.Now()
	if b.HardwareID == nil {
		b.HardwareID = &hardwareID
		b.ActivatedAt = &now
	}
	b.UpdatedAt = now
	return nil
}

func (s *MemoryActivationStore) MarkExpired(ctx context.Context, licenseKey string) error {
	return s.setStatus(licenseKey, models.BindingStatusExpired)
}

func (s *MemoryActivationStore) Revoke(ctx context.Context, licenseKey string) error {
	return s.setStatus(licenseKey, models.BindingStatusRevoked)
}

func (s *MemoryActivationStore) setStatus(licenseKey string, status models.BindingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bindings[licenseKey]
	if !ok {
		return fmt.Errorf("%w: activation", ErrNotFound)
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryActivationStore) Release(_ context.Context, licenseKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bindings[licenseKey]
	if !ok || b.Status != models.BindingStatusActive {
		return fmt.Errorf("%w: activation", ErrNotFound)
	}
	b.HardwareID = nil
	b.ActivatedAt = nil
	b.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryActivationStore) List(_ context.Context, pagination models.PaginationParams) ([]models.ActivationBinding, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.ActivationBinding, 0, len(s.bindings))
	for _, b := range s.bindings {
		all = append(all, *b)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	limit := pagination.Limit
	if limit <= 0 {
		limit = 10
	}
	page := pagination.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	total := len(all)
	if offset >= total {
		return []models.ActivationBinding{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

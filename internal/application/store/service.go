package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pugly/api/internal/domain"
	"github.com/pugly/api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, ownerID, name string) (*domain.Store, error)
	Get(ctx context.Context, storeID string) (*domain.Store, error)
	// Delete removes a store. Only the owner may delete it.
	Delete(ctx context.Context, callerID, storeID string) (*domain.Store, error)
}

type storeRepo interface {
	Put(ctx context.Context, s *domain.Store) error
	Get(ctx context.Context, storeID string) (*domain.Store, error)
	GetByStorename(ctx context.Context, storename string) (*domain.Store, error)
	Delete(ctx context.Context, storeID string) error
}

type service struct {
	repo storeRepo
}

func NewService(repo storeRepo) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, ownerID, name string) (*domain.Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("store name is required: %w", domain.ErrBadRequest)
	}
	storename := strings.ToLower(name)
	if _, err := s.repo.GetByStorename(ctx, storename); err == nil {
		return nil, fmt.Errorf("store with same name already exists: %w", domain.ErrConflict)
	}
	now := time.Now().UTC()
	st := &domain.Store{
		StoreID:    id.New(),
		Name:       name,
		Storename:  storename,
		OwnerID:    ownerID,
		Status:     domain.StoreStatusActive,
		LastActive: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Put(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) Get(ctx context.Context, storeID string) (*domain.Store, error) {
	return s.repo.Get(ctx, storeID)
}

func (s *service) Delete(ctx context.Context, callerID, storeID string) (*domain.Store, error) {
	st, err := s.repo.Get(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if st.OwnerID != callerID {
		return nil, fmt.Errorf("not authorized to delete this store: %w", domain.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, storeID); err != nil {
		return nil, err
	}
	return st, nil
}

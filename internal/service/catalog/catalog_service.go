package catalog

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/Gvirgo2/touropia/internal/domain"
	"github.com/Gvirgo2/touropia/internal/repository"
)

type CatalogUseCase interface {
	ListByKind(ctx context.Context, kind domain.ItemKind) ([]domain.CatalogItem, error)
	GetByID(ctx context.Context, id int64) (*domain.CatalogItem, error)
	Create(ctx context.Context, item *domain.CatalogItem) error
	Update(ctx context.Context, item *domain.CatalogItem) error
	Delete(ctx context.Context, id int64) error
}

type Cache interface {
	GetItems(ctx context.Context, kind domain.ItemKind) ([]domain.CatalogItem, error)
	SetItems(ctx context.Context, kind domain.ItemKind, items []domain.CatalogItem) error
	InvalidateItems(ctx context.Context, kind domain.ItemKind) error
}

type CatalogService struct {
	repo  repository.CatalogRepository
	cache Cache
	sfg   singleflight.Group // collapses concurrent cache misses per kind
}

func NewCatalogService(repo repository.CatalogRepository, cache Cache) *CatalogService {
	return &CatalogService{repo: repo, cache: cache}
}

func (s *CatalogService) ListByKind(ctx context.Context, kind domain.ItemKind) ([]domain.CatalogItem, error) {
	v, err, _ := s.sfg.Do(string(kind), func() (interface{}, error) {
		if s.cache != nil {
			if cached, err := s.cache.GetItems(ctx, kind); err == nil && cached != nil {
				return cached, nil
			}
		}

		items, err := s.repo.ListByKind(ctx, kind)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			_ = s.cache.SetItems(ctx, kind, items)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.CatalogItem), nil
}

func (s *CatalogService) GetByID(ctx context.Context, id int64) (*domain.CatalogItem, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, item *domain.CatalogItem) error {
	if err := s.repo.Create(ctx, item); err != nil {
		return err
	}
	s.invalidate(ctx, item.Kind)
	return nil
}

func (s *CatalogService) Update(ctx context.Context, item *domain.CatalogItem) error {
	if err := s.repo.Update(ctx, item); err != nil {
		return err
	}
	s.invalidate(ctx, item.Kind)
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, item.Kind)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, kind domain.ItemKind) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateItems(ctx, kind)
}

var _ CatalogUseCase = (*CatalogService)(nil)

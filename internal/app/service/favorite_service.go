package service

import (
	"context"
	"errors"

	"github.com/ikkim/storefront/pkg/backend"
	"github.com/ikkim/storefront/pkg/logger"
)

var ErrAlreadyFavorite = errors.New("already in favorites")

type FavoriteBackend interface {
	ListFavorites(ctx context.Context, token string) ([]backend.Product, error)
	AddFavorite(ctx context.Context, token string, productID uint) error
	RemoveFavorite(ctx context.Context, token string, productID uint) error
}

type FavoriteService interface {
	List(ctx context.Context, token string) ([]backend.Product, error)
	// Add returns ErrAlreadyFavorite when the backend rejects a duplicate.
	Add(ctx context.Context, token string, productID uint) error
	Remove(ctx context.Context, token string, productID uint) error
	// MoveToCart adds a favorite product to the cart with quantity 1.
	MoveToCart(ctx context.Context, cart CartManager, productID uint) error
}

type favoriteService struct {
	backend FavoriteBackend
	catalog CatalogService
}

func NewFavoriteService(backend FavoriteBackend, catalog CatalogService) FavoriteService {
	return &favoriteService{backend: backend, catalog: catalog}
}

func (s *favoriteService) List(ctx context.Context, token string) ([]backend.Product, error) {
	products, err := s.backend.ListFavorites(ctx, token)
	if err != nil {
		return nil, mapTokenError(err)
	}
	return products, nil
}

func (s *favoriteService) Add(ctx context.Context, token string, productID uint) error {
	err := s.backend.AddFavorite(ctx, token, productID)
	switch {
	case err == nil:
		logger.Info("Favorite added", map[string]interface{}{
			"product_id": productID,
		})
		return nil
	case errors.Is(err, backend.ErrBadRequest):
		return ErrAlreadyFavorite
	case errors.Is(err, backend.ErrNotFound):
		return ErrProductNotFound
	default:
		return mapTokenError(err)
	}
}

func (s *favoriteService) Remove(ctx context.Context, token string, productID uint) error {
	if err := s.backend.RemoveFavorite(ctx, token, productID); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil
		}
		return mapTokenError(err)
	}
	logger.Info("Favorite removed", map[string]interface{}{
		"product_id": productID,
	})
	return nil
}

func (s *favoriteService) MoveToCart(ctx context.Context, cart CartManager, productID uint) error {
	product, err := s.catalog.ProductSnapshot(ctx, productID, 1)
	if err != nil {
		return err
	}
	return cart.Add(ctx, product, 1)
}

func mapTokenError(err error) error {
	if errors.Is(err, backend.ErrUnauthorized) {
		return ErrSessionExpired
	}
	return err
}

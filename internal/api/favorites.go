package api

import (
	"context"
	"net/http"

	"github.com/realestate/rems-frontend/internal/models"
	"github.com/realestate/rems-frontend/pkg/logger"
)

type FavoriteService struct {
	c *Client
}

func NewFavoriteService(c *Client) *FavoriteService { return &FavoriteService{c: c} }

func (s *FavoriteService) List(ctx context.Context) ([]models.Favorite, error) {
	var out []models.Favorite
	err := s.c.do(ctx, call{
		service: "favorites", op: "list favorites",
		method: http.MethodGet, path: "/favorites",
		fallback: "Failed to fetch favorites",
	}, &out)
	return out, err
}

func (s *FavoriteService) Add(ctx context.Context, propertyID int64) (*models.APIMessage, error) {
	return s.mutate(ctx, http.MethodPost, propertyID, "add favorite", "Failed to add favorite")
}

func (s *FavoriteService) Remove(ctx context.Context, propertyID int64) (*models.APIMessage, error) {
	return s.mutate(ctx, http.MethodDelete, propertyID, "remove favorite", "Failed to remove favorite")
}

func (s *FavoriteService) mutate(ctx context.Context, method string, propertyID int64, op, fallback string) (*models.APIMessage, error) {
	var m models.APIMessage
	err := s.c.do(ctx, call{
		service: "favorites", op: op,
		method: method, path: Path("/favorites/{propertyId}", propertyID),
		fallback: fallback,
	}, &m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// IsFavorited reports whether the property is in the visitor's favorites.
// Lookup failures count as not favorited.
func (s *FavoriteService) IsFavorited(ctx context.Context, propertyID int64) bool {
	favs, err := s.List(ctx)
	if err != nil {
		logger.Debugf("favorite lookup for property %d: %v", propertyID, err)
		return false
	}
	for _, f := range favs {
		if f.Property.ID == propertyID {
			return true
		}
	}
	return false
}

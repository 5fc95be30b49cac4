package usecase

import (
	"context"

	"github.com/garncarz/kiwi-vikend/internal/domain/route"
	"github.com/garncarz/kiwi-vikend/internal/infrastructure/regiojet"
)

// RouteSource is the upstream travel portal as the usecases see it.
type RouteSource interface {
	Cities(ctx context.Context) ([]regiojet.City, error)
	Routes(ctx context.Context, req regiojet.RoutesRequest) ([]route.Entry, error)
}

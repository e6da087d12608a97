package catalog

import (
	"context"

	"libris/internal/domain"
	"libris/internal/repository"
)

// BookRepository defines the catalog store operations
type BookRepository interface {
	Create(ctx context.Context, b *domain.Book) error
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	Update(ctx context.Context, b *domain.Book) error
	List(ctx context.Context, f repository.BookFilters) ([]domain.Book, int64, error)
	Genres(ctx context.Context) ([]string, error)
}

// CoverResolver turns a stored cover reference into a serveable URL.
type CoverResolver interface {
	ResolveURL(ctx context.Context, uploadID string) (string, error)
}

// CatalogCache fronts the genre list and title-search results.
type CatalogCache interface {
	GetGenres(ctx context.Context) ([]string, bool)
	SetGenres(ctx context.Context, genres []string)
	GetSearch(ctx context.Context, q, genre string, limit, offset int) ([]domain.Book, int64, bool)
	SetSearch(ctx context.Context, q, genre string, limit, offset int, books []domain.Book, total int64)
	Invalidate(ctx context.Context)
}

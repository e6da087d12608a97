package catalog

import (
	"context"
	"fmt"

	"libris/internal/domain"
	"libris/internal/pkg/validator"
	"libris/internal/repository"
)

type Service struct {
	books  BookRepository
	covers CoverResolver
	cache  CatalogCache
}

func NewService(books BookRepository, covers CoverResolver, cache CatalogCache) *Service {
	return &Service{books: books, covers: covers, cache: cache}
}

const defaultListLimit = 50

func (s *Service) ListBooks(ctx context.Context, q ListBooksQuery) ([]domain.Book, int64, error) {
	if q.Limit <= 0 {
		q.Limit = defaultListLimit
	}

	if s.cache != nil && q.Search != "" {
		if books, total, ok := s.cache.GetSearch(ctx, q.Search, q.Genre, q.Limit, q.Offset); ok {
			return books, total, nil
		}
	}

	books, total, err := s.books.List(ctx, repository.BookFilters{
		Search: q.Search,
		Genre:  q.Genre,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		return nil, 0, err
	}

	s.resolveCovers(ctx, books)

	if s.cache != nil && q.Search != "" {
		s.cache.SetSearch(ctx, q.Search, q.Genre, q.Limit, q.Offset, books, total)
	}
	return books, total, nil
}

func (s *Service) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.resolveCover(ctx, book)
	return book, nil
}

func (s *Service) CreateBook(ctx context.Context, actorID int64, req CreateBookRequest) (*domain.Book, error) {
	book := &domain.Book{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Genre:           req.Genre,
		Description:     req.Description,
		PublishedYear:   req.PublishedYear,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies,
		AddedBy:         actorID,
	}
	if req.CoverUploadID != "" {
		v := req.CoverUploadID
		book.CoverUploadID = &v
	}

	if err := validator.Check(book); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	s.resolveCover(ctx, book)
	return book, nil
}

func (s *Service) UpdateBook(ctx context.Context, bookID int64, req UpdateBookRequest) (*domain.Book, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.ISBN != nil {
		book.ISBN = *req.ISBN
	}
	if req.Genre != nil {
		book.Genre = *req.Genre
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.PublishedYear != nil {
		book.PublishedYear = *req.PublishedYear
	}
	if req.CoverUploadID != nil {
		book.CoverUploadID = req.CoverUploadID
	}

	// Changing the shelf size shifts availability by the same delta,
	// clamped at zero while more copies are out than the new total allows.
	if req.TotalCopies != nil {
		delta := *req.TotalCopies - book.TotalCopies
		book.TotalCopies = *req.TotalCopies
		book.AvailableCopies += delta
		if book.AvailableCopies < 0 {
			book.AvailableCopies = 0
		}
	}

	if err := validator.Check(book); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	if err := s.books.Update(ctx, book); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	s.resolveCover(ctx, book)
	return book, nil
}

func (s *Service) Genres(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		if genres, ok := s.cache.GetGenres(ctx); ok {
			return genres, nil
		}
	}

	genres, err := s.books.Genres(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetGenres(ctx, genres)
	}
	return genres, nil
}

func (s *Service) resolveCovers(ctx context.Context, books []domain.Book) {
	for i := range books {
		s.resolveCover(ctx, &books[i])
	}
}

func (s *Service) resolveCover(ctx context.Context, book *domain.Book) {
	if s.covers == nil || book.CoverUploadID == nil {
		return
	}
	url, err := s.covers.ResolveURL(ctx, *book.CoverUploadID)
	if err != nil {
		return
	}
	book.CoverURL = url
}

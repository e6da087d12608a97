package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"libris/internal/domain"
	"libris/internal/repository"
)

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindActiveByUserAndBook(ctx context.Context, userID, bookID int64) (*domain.Reservation, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListActiveByUser(ctx context.Context, userID int64) ([]repository.ReservationDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ReservationDetails), args.Error(1)
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

type MockCheckoutFinder struct {
	mock.Mock
}

func (m *MockCheckoutFinder) FindActiveByUserAndBook(ctx context.Context, userID, bookID int64) (*domain.Checkout, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkout), args.Error(1)
}

func newTestService() (*Service, *MockReservationRepository, *MockBookRepository, *MockCheckoutFinder) {
	reservations := new(MockReservationRepository)
	books := new(MockBookRepository)
	checkouts := new(MockCheckoutFinder)
	return NewService(reservations, books, checkouts), reservations, books, checkouts
}

func TestService_Reserve_Success(t *testing.T) {
	service, reservations, books, checkouts := newTestService()

	books.On("GetByID", mock.Anything, int64(10)).Return(&domain.Book{
		ID: 10, TotalCopies: 1, AvailableCopies: 0,
	}, nil)
	reservations.On("FindActiveByUserAndBook", mock.Anything, int64(7), int64(10)).Return(nil, nil)
	checkouts.On("FindActiveByUserAndBook", mock.Anything, int64(7), int64(10)).Return(nil, nil)
	reservations.On("Create", mock.Anything, mock.AnythingOfType("*domain.Reservation")).Return(nil)

	res, err := service.Reserve(context.Background(), 10, 7)

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationActive, res.Status)
	assert.Equal(t, HoldPeriod, res.ExpiryDate.Sub(res.ReservationDate))
	reservations.AssertExpectations(t)
}

func TestService_Reserve_BookAvailable(t *testing.T) {
	service, _, books, _ := newTestService()

	books.On("GetByID", mock.Anything, int64(10)).Return(&domain.Book{
		ID: 10, TotalCopies: 2, AvailableCopies: 1,
	}, nil)

	_, err := service.Reserve(context.Background(), 10, 7)
	assert.ErrorIs(t, err, ErrBookAvailable)
}

func TestService_Reserve_BookNotFound(t *testing.T) {
	service, _, books, _ := newTestService()

	books.On("GetByID", mock.Anything, int64(10)).Return(nil, gorm.ErrRecordNotFound)

	_, err := service.Reserve(context.Background(), 10, 7)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestService_Reserve_DuplicateReservation(t *testing.T) {
	service, reservations, books, _ := newTestService()

	books.On("GetByID", mock.Anything, int64(10)).Return(&domain.Book{
		ID: 10, TotalCopies: 1, AvailableCopies: 0,
	}, nil)
	reservations.On("FindActiveByUserAndBook", mock.Anything, int64(7), int64(10)).
		Return(&domain.Reservation{ID: 3, BookID: 10, UserID: 7, Status: domain.ReservationActive}, nil)

	_, err := service.Reserve(context.Background(), 10, 7)
	assert.ErrorIs(t, err, ErrDuplicateReservation)
}

func TestService_Reserve_AlreadyCheckedOut(t *testing.T) {
	service, reservations, books, checkouts := newTestService()

	books.On("GetByID", mock.Anything, int64(10)).Return(&domain.Book{
		ID: 10, TotalCopies: 1, AvailableCopies: 0,
	}, nil)
	reservations.On("FindActiveByUserAndBook", mock.Anything, int64(7), int64(10)).Return(nil, nil)
	checkouts.On("FindActiveByUserAndBook", mock.Anything, int64(7), int64(10)).
		Return(&domain.Checkout{ID: 5, BookID: 10, UserID: 7, Status: domain.CheckoutActive}, nil)

	_, err := service.Reserve(context.Background(), 10, 7)
	assert.ErrorIs(t, err, ErrDuplicateCheckout)
}

func TestService_Cancel_Success(t *testing.T) {
	service, reservations, _, _ := newTestService()

	reservations.On("GetByID", mock.Anything, int64(3)).Return(&domain.Reservation{
		ID: 3, BookID: 10, UserID: 7,
		Status:     domain.ReservationActive,
		ExpiryDate: time.Now().UTC().Add(HoldPeriod),
	}, nil)
	reservations.On("UpdateStatus", mock.Anything, int64(3), domain.ReservationCancelled).Return(nil)

	err := service.Cancel(context.Background(), 3, 7)
	assert.NoError(t, err)
	reservations.AssertExpectations(t)
}

func TestService_Cancel_NotOwner(t *testing.T) {
	service, reservations, _, _ := newTestService()

	reservations.On("GetByID", mock.Anything, int64(3)).Return(&domain.Reservation{
		ID: 3, BookID: 10, UserID: 7, Status: domain.ReservationActive,
	}, nil)

	err := service.Cancel(context.Background(), 3, 8)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Cancel_NotFound(t *testing.T) {
	service, reservations, _, _ := newTestService()

	reservations.On("GetByID", mock.Anything, int64(3)).Return(nil, gorm.ErrRecordNotFound)

	err := service.Cancel(context.Background(), 3, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

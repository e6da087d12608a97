package circulation

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

// Mock repositories

type MockCheckoutRepository struct {
	mock.Mock
}

func (m *MockCheckoutRepository) Checkout(ctx context.Context, bookID, userID int64, checkedOutBy *int64, now, due time.Time) (*domain.Checkout, error) {
	args := m.Called(ctx, bookID, userID, checkedOutBy, now, due)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkout), args.Error(1)
}

func (m *MockCheckoutRepository) Return(ctx context.Context, checkoutID int64, returnedAt time.Time, fine *domain.Fine) error {
	args := m.Called(ctx, checkoutID, returnedAt, fine)
	return args.Error(0)
}

func (m *MockCheckoutRepository) Renew(ctx context.Context, checkoutID int64, newDue time.Time, newCount int) error {
	args := m.Called(ctx, checkoutID, newDue, newCount)
	return args.Error(0)
}

func (m *MockCheckoutRepository) GetByID(ctx context.Context, id int64) (*domain.Checkout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkout), args.Error(1)
}

func (m *MockCheckoutRepository) FindActiveByUserAndBook(ctx context.Context, userID, bookID int64) (*domain.Checkout, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkout), args.Error(1)
}

func (m *MockCheckoutRepository) ListByUser(ctx context.Context, userID int64) ([]repository.CheckoutDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CheckoutDetails), args.Error(1)
}

func (m *MockCheckoutRepository) ListAll(ctx context.Context, status string) ([]repository.CheckoutDetails, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CheckoutDetails), args.Error(1)
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

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) HasActiveForBook(ctx context.Context, bookID int64) (bool, error) {
	args := m.Called(ctx, bookID)
	return args.Bool(0), args.Error(1)
}

func newTestService() (*Service, *MockCheckoutRepository, *MockBookRepository, *MockReservationRepository) {
	checkouts := new(MockCheckoutRepository)
	books := new(MockBookRepository)
	reservations := new(MockReservationRepository)
	return NewService(checkouts, books, reservations), checkouts, books, reservations
}

func TestService_Checkout_Success(t *testing.T) {
	service, checkouts, books, _ := newTestService()

	books.On("GetByID", mock.Anything, int64(10)).Return(&domain.Book{
		ID: 10, Title: "Kindred", TotalCopies: 2, AvailableCopies: 1,
	}, nil)
	checkouts.On("FindActiveByUserAndBook", mock.Anything, int64(7), int64(10)).Return(nil, nil)
	checkouts.On("Checkout", mock.Anything, int64(10), int64(7), (*int64)(nil), mock.Anything, mock.Anything).
		Return(&domain.Checkout{
			ID: 99, BookID: 10, UserID: 7,
			Status: domain.CheckoutActive, RenewalCount: 0,
		}, nil)

	checkout, err := service.Checkout(context.Background(), 10, 7, domain.RoleCustomer, nil)

	assert.NoError(t, err)
	assert.NotNil(t, checkout)
	assert.Equal(t, domain.CheckoutActive, checkout.Status)
	assert.Equal(t, 0, checkout.RenewalCount)

	// Due date is one loan period after checkout
	call := checkouts.Calls[1]
	now := call.Arguments.Get(4).(time.Time)
	due := call.Arguments.Get(5).(time.Time)
	assert.Equal(t, LoanPeriod, due.Sub(now))
}

func TestService_Checkout_BookNotFound(t *testing.T) {
	service, _, books, _ := newTestService()

	books.On("GetByID", mock.Anything, int64(10)).Return(nil, gorm.ErrRecordNotFound)

	_, err := service.Checkout(context.Background(), 10, 7, domain.RoleCustomer, nil)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestService_Checkout_NoCopies(t *testing.T) {
	service, _, books, _ := newTestService()

	books.On("GetByID", mock.Anything, int64(10)).Return(&domain.Book{
		ID: 10, TotalCopies: 2, AvailableCopies: 0,
	}, nil)

	_, err := service.Checkout(context.Background(), 10, 7, domain.RoleCustomer, nil)
	assert.ErrorIs(t, err, ErrNoCopiesAvailable)
}

func TestService_Checkout_Duplicate(t *testing.T) {
	service, checkouts, books, _ := newTestService()

	books.On("GetByID", mock.Anything, int64(10)).Return(&domain.Book{
		ID: 10, TotalCopies: 2, AvailableCopies: 1,
	}, nil)
	checkouts.On("FindActiveByUserAndBook", mock.Anything, int64(7), int64(10)).
		Return(&domain.Checkout{ID: 5, BookID: 10, UserID: 7, Status: domain.CheckoutActive}, nil)

	_, err := service.Checkout(context.Background(), 10, 7, domain.RoleCustomer, nil)
	assert.ErrorIs(t, err, ErrDuplicateCheckout)
}

func TestService_Checkout_RaceFallsBackToNoCopies(t *testing.T) {
	service, checkouts, books, _ := newTestService()

	books.On("GetByID", mock.Anything, int64(10)).Return(&domain.Book{
		ID: 10, TotalCopies: 1, AvailableCopies: 1,
	}, nil)
	checkouts.On("FindActiveByUserAndBook", mock.Anything, int64(7), int64(10)).Return(nil, nil)
	checkouts.On("Checkout", mock.Anything, int64(10), int64(7), (*int64)(nil), mock.Anything, mock.Anything).
		Return(nil, repository.ErrNoAvailableCopies)

	_, err := service.Checkout(context.Background(), 10, 7, domain.RoleCustomer, nil)
	assert.ErrorIs(t, err, ErrNoCopiesAvailable)
}

func TestService_Checkout_OnBehalf_RequiresEmployee(t *testing.T) {
	service, _, _, _ := newTestService()

	target := int64(42)
	_, err := service.Checkout(context.Background(), 10, 7, domain.RoleCustomer, &target)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Checkout_OnBehalf_RecordsProcessor(t *testing.T) {
	service, checkouts, books, _ := newTestService()

	books.On("GetByID", mock.Anything, int64(10)).Return(&domain.Book{
		ID: 10, TotalCopies: 2, AvailableCopies: 2,
	}, nil)
	checkouts.On("FindActiveByUserAndBook", mock.Anything, int64(42), int64(10)).Return(nil, nil)
	checkouts.On("Checkout", mock.Anything, int64(10), int64(42),
		mock.MatchedBy(func(p *int64) bool { return p != nil && *p == 7 }),
		mock.Anything, mock.Anything).
		Return(&domain.Checkout{ID: 1, BookID: 10, UserID: 42, Status: domain.CheckoutActive}, nil)

	target := int64(42)
	checkout, err := service.Checkout(context.Background(), 10, 7, domain.RoleEmployee, &target)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), checkout.UserID)
	checkouts.AssertExpectations(t)
}

func TestService_Return_OnTime_NoFine(t *testing.T) {
	service, checkouts, _, _ := newTestService()

	checkouts.On("GetByID", mock.Anything, int64(99)).Return(&domain.Checkout{
		ID: 99, BookID: 10, UserID: 7,
		Status:  domain.CheckoutActive,
		DueDate: time.Now().UTC().Add(24 * time.Hour),
	}, nil)
	checkouts.On("Return", mock.Anything, int64(99), mock.Anything, (*domain.Fine)(nil)).Return(nil)

	fine, err := service.Return(context.Background(), 99, 7, domain.RoleCustomer)

	assert.NoError(t, err)
	assert.Nil(t, fine)
	checkouts.AssertExpectations(t)
}

func TestService_Return_Late_CreatesFine(t *testing.T) {
	service, checkouts, _, _ := newTestService()

	// Past due by a little over two 24-hour buckets: third bucket started,
	// so three days are charged.
	checkouts.On("GetByID", mock.Anything, int64(99)).Return(&domain.Checkout{
		ID: 99, BookID: 10, UserID: 7,
		Status:  domain.CheckoutActive,
		DueDate: time.Now().UTC().Add(-50 * time.Hour),
	}, nil)
	checkouts.On("Return", mock.Anything, int64(99), mock.Anything,
		mock.MatchedBy(func(f *domain.Fine) bool { return f != nil })).Return(nil)

	fine, err := service.Return(context.Background(), 99, 7, domain.RoleCustomer)

	assert.NoError(t, err)
	assert.NotNil(t, fine)
	assert.Equal(t, 1.50, fine.Amount)
	assert.Equal(t, "Late return - 3 days overdue", fine.Reason)
	assert.Equal(t, domain.FinePending, fine.Status)
	assert.Equal(t, int64(99), fine.CheckoutID)
	assert.Equal(t, int64(7), fine.UserID)
}

func TestService_Return_AlreadyReturned(t *testing.T) {
	service, checkouts, _, _ := newTestService()

	returned := time.Now().UTC().Add(-time.Hour)
	checkouts.On("GetByID", mock.Anything, int64(99)).Return(&domain.Checkout{
		ID: 99, UserID: 7, Status: domain.CheckoutReturned, ReturnDate: &returned,
	}, nil)

	_, err := service.Return(context.Background(), 99, 7, domain.RoleCustomer)
	assert.ErrorIs(t, err, ErrAlreadyReturned)
}

func TestService_Return_NotOwnerCustomer_Forbidden(t *testing.T) {
	service, checkouts, _, _ := newTestService()

	checkouts.On("GetByID", mock.Anything, int64(99)).Return(&domain.Checkout{
		ID: 99, UserID: 7, Status: domain.CheckoutActive,
	}, nil)

	_, err := service.Return(context.Background(), 99, 8, domain.RoleCustomer)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Return_EmployeeMayReturnForCustomer(t *testing.T) {
	service, checkouts, _, _ := newTestService()

	checkouts.On("GetByID", mock.Anything, int64(99)).Return(&domain.Checkout{
		ID: 99, UserID: 7, Status: domain.CheckoutActive,
		DueDate: time.Now().UTC().Add(24 * time.Hour),
	}, nil)
	checkouts.On("Return", mock.Anything, int64(99), mock.Anything, (*domain.Fine)(nil)).Return(nil)

	_, err := service.Return(context.Background(), 99, 8, domain.RoleEmployee)
	assert.NoError(t, err)
}

func TestService_Return_NotFound(t *testing.T) {
	service, checkouts, _, _ := newTestService()

	checkouts.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := service.Return(context.Background(), 99, 7, domain.RoleCustomer)
	assert.ErrorIs(t, err, ErrCheckoutNotFound)
}

func TestService_Renew_Success(t *testing.T) {
	service, checkouts, _, reservations := newTestService()

	due := time.Now().UTC().Add(48 * time.Hour)
	checkouts.On("GetByID", mock.Anything, int64(99)).Return(&domain.Checkout{
		ID: 99, BookID: 10, UserID: 7,
		Status: domain.CheckoutActive, RenewalCount: 1, DueDate: due,
	}, nil)
	reservations.On("HasActiveForBook", mock.Anything, int64(10)).Return(false, nil)
	checkouts.On("Renew", mock.Anything, int64(99), due.Add(LoanPeriod), 2).Return(nil)

	checkout, err := service.Renew(context.Background(), 99, 7)

	assert.NoError(t, err)
	assert.Equal(t, 2, checkout.RenewalCount)
	assert.Equal(t, due.Add(LoanPeriod), checkout.DueDate)
	checkouts.AssertExpectations(t)
}

func TestService_Renew_CapReached(t *testing.T) {
	service, checkouts, _, _ := newTestService()

	checkouts.On("GetByID", mock.Anything, int64(99)).Return(&domain.Checkout{
		ID: 99, BookID: 10, UserID: 7,
		Status: domain.CheckoutActive, RenewalCount: RenewalLimit,
	}, nil)

	// The cap rejects before the reservation queue is even consulted.
	_, err := service.Renew(context.Background(), 99, 7)
	assert.ErrorIs(t, err, ErrRenewalLimit)
}

func TestService_Renew_BookReserved(t *testing.T) {
	service, checkouts, _, reservations := newTestService()

	checkouts.On("GetByID", mock.Anything, int64(99)).Return(&domain.Checkout{
		ID: 99, BookID: 10, UserID: 7,
		Status: domain.CheckoutActive, RenewalCount: 0,
	}, nil)
	reservations.On("HasActiveForBook", mock.Anything, int64(10)).Return(true, nil)

	_, err := service.Renew(context.Background(), 99, 7)
	assert.ErrorIs(t, err, ErrBookReserved)
}

func TestService_Renew_NotOwner(t *testing.T) {
	service, checkouts, _, _ := newTestService()

	checkouts.On("GetByID", mock.Anything, int64(99)).Return(&domain.Checkout{
		ID: 99, BookID: 10, UserID: 7, Status: domain.CheckoutActive,
	}, nil)

	_, err := service.Renew(context.Background(), 99, 8)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Renew_Returned(t *testing.T) {
	service, checkouts, _, _ := newTestService()

	checkouts.On("GetByID", mock.Anything, int64(99)).Return(&domain.Checkout{
		ID: 99, BookID: 10, UserID: 7, Status: domain.CheckoutReturned,
	}, nil)

	_, err := service.Renew(context.Background(), 99, 7)
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestService_MyCheckouts_FlagsOverdueRows(t *testing.T) {
	service, checkouts, _, _ := newTestService()

	now := time.Now().UTC()
	checkouts.On("ListByUser", mock.Anything, int64(7)).Return([]repository.CheckoutDetails{
		{ID: 1, Status: string(domain.CheckoutActive), DueDate: now.Add(-48 * time.Hour)},
		{ID: 2, Status: string(domain.CheckoutActive), DueDate: now.Add(48 * time.Hour)},
		{ID: 3, Status: string(domain.CheckoutReturned), DueDate: now.Add(-48 * time.Hour)},
	}, nil)

	rows, err := service.MyCheckouts(context.Background(), 7)

	assert.NoError(t, err)
	assert.True(t, rows[0].Overdue)
	assert.False(t, rows[1].Overdue)
	assert.False(t, rows[2].Overdue)
}

package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"carwash/internal/database"
	"carwash/internal/domain"
	"carwash/internal/repository"
)

type MockMailer struct{ mock.Mock }

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type env struct {
	db    *gorm.DB
	repo  *repository.OrderRepository
	carID int64
	staff int64
}

func setup(t *testing.T) env {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	staff := domain.User{Email: "admin@carwash.test", PasswordHash: "x", RoleID: domain.RoleAdministrator}
	owner := domain.User{Email: "ivan@carwash.test", PasswordHash: "x", FirstName: "Иван", RoleID: domain.RoleCustomer}
	require.NoError(t, db.Create(&staff).Error)
	require.NoError(t, db.Create(&owner).Error)
	brand := domain.Brand{Name: "Lada"}
	require.NoError(t, db.Create(&brand).Error)
	car := domain.Car{BrandID: brand.ID, Model: "Vesta"}
	require.NoError(t, db.Create(&car).Error)
	cc := domain.CustomerCar{CarID: car.ID, CustomerID: owner.ID, Year: 2020, Number: "K001KK"}
	require.NoError(t, db.Create(&cc).Error)

	return env{db: db, repo: repository.NewOrderRepository(db), carID: cc.ID, staff: staff.ID}
}

func (e env) order(t *testing.T, status domain.OrderStatus, end *time.Time) domain.Order {
	t.Helper()
	o := domain.Order{
		AdministratorID: e.staff,
		EmployeeID:      e.staff,
		CustomerCarID:   e.carID,
		Status:          status,
		StartDate:       now.Add(-3 * time.Hour),
		EndDate:         end,
	}
	require.NoError(t, e.repo.Create(context.Background(), &o))
	return o
}

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func newDispatcher(e env, m Mailer) *Dispatcher {
	d := NewDispatcher(e.repo, m, "Car Wash")
	d.now = func() time.Time { return now }
	return d
}

func TestRun_CompletesAndNotifiesElapsedOrders(t *testing.T) {
	e := setup(t)
	elapsed := e.order(t, domain.OrderInProgress, at(-time.Hour))
	future := e.order(t, domain.OrderScheduled, at(time.Hour))
	open := e.order(t, domain.OrderScheduled, nil)

	m := new(MockMailer)
	m.On("Send", mock.Anything, "ivan@carwash.test", subject, mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "Иван") && strings.Contains(body, "номером 1 выполнен")
	})).Return(nil).Once()

	rep, err := newDispatcher(e, m).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Marked: 1, Sent: 1}, rep)
	m.AssertExpectations(t)

	got, err := e.repo.GetByID(context.Background(), elapsed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, got.Status)
	assert.True(t, got.Notified)

	for _, id := range []int64{future.ID, open.ID} {
		got, err := e.repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderScheduled, got.Status)
		assert.False(t, got.Notified)
	}
}

func TestRun_SecondRunSendsNothing(t *testing.T) {
	e := setup(t)
	e.order(t, domain.OrderScheduled, at(-time.Minute))

	m := new(MockMailer)
	m.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	d := newDispatcher(e, m)

	_, err := d.Run(context.Background())
	require.NoError(t, err)
	rep, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{}, rep)
	m.AssertNumberOfCalls(t, "Send", 1)
}

func TestRun_SendFailureIsRetried(t *testing.T) {
	e := setup(t)
	o := e.order(t, domain.OrderCompleted, at(-time.Hour))

	m := new(MockMailer)
	m.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()
	m.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	d := newDispatcher(e, m)

	rep, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Failed: 1}, rep)

	got, err := e.repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.False(t, got.Notified)

	rep, err = d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Sent: 1}, rep)
}

func TestRun_SkipsOrdersWithoutRecipient(t *testing.T) {
	e := setup(t)
	require.NoError(t, e.db.Model(&domain.User{}).Where("email = ?", "ivan@carwash.test").Update("email", "").Error)
	e.order(t, domain.OrderCompleted, at(-time.Hour))

	m := new(MockMailer)
	rep, err := newDispatcher(e, m).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Skipped: 1}, rep)
	m.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSchedule_RejectsBadSpec(t *testing.T) {
	e := setup(t)
	c := cron.New()
	_, err := newDispatcher(e, new(MockMailer)).Schedule(c, "not a cron line")
	assert.Error(t, err)

	id, err := newDispatcher(e, new(MockMailer)).Schedule(c, "@every 1m")
	require.NoError(t, err)
	assert.NotZero(t, id)
}

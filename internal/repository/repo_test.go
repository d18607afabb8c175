package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"carwash/internal/database"
	"carwash/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	admin, employee, owner, stranger domain.User
	car                              domain.CustomerCar
	service                          domain.Service
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	var f fixture
	mk := func(u *domain.User, role domain.Role, name string) {
		*u = domain.User{Email: fmt.Sprintf("%s@carwash.test", name), PasswordHash: "x", FirstName: name, LastName: "Test", RoleID: role}
		require.NoError(t, db.Create(u).Error)
	}
	mk(&f.admin, domain.RoleAdministrator, "admin")
	mk(&f.employee, domain.RoleEmployee, "employee")
	mk(&f.owner, domain.RoleCustomer, "owner")
	mk(&f.stranger, domain.RoleCustomer, "stranger")

	brand := domain.Brand{Name: "Toyota"}
	require.NoError(t, db.Create(&brand).Error)
	car := domain.Car{BrandID: brand.ID, Model: "Camry"}
	require.NoError(t, db.Create(&car).Error)
	f.car = domain.CustomerCar{CarID: car.ID, CustomerID: f.owner.ID, Year: 2019, Number: "A123BC"}
	require.NoError(t, db.Create(&f.car).Error)

	f.service = domain.Service{Name: "Wash", Price: 150000, Duration: 1800}
	require.NoError(t, db.Create(&f.service).Error)
	return f
}

func createOrder(t *testing.T, db *gorm.DB, adminID, employeeID, carID int64) domain.Order {
	t.Helper()
	o := domain.Order{
		AdministratorID: adminID,
		EmployeeID:      employeeID,
		CustomerCarID:   carID,
		Status:          domain.OrderScheduled,
		StartDate:       time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewOrderRepository(db).Create(t.Context(), &o))
	return o
}

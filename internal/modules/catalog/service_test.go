package catalog

import (
	"context"
	"testing"

	"carwash/internal/database"
	"carwash/internal/domain"
	"carwash/internal/pkg/paging"
	"carwash/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	svc := NewService(
		repository.NewCatalogRepository(db),
		repository.NewCustomerCarRepository(db),
		repository.NewUserRepository(db),
	)
	return svc, db
}

func TestServices_CRUDAndSort(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	for _, req := range []CreateServiceRequest{
		{Name: "Wash", Price: 50000, Time: 1200},
		{Name: "Armor", Price: 900000, Time: 7200},
		{Name: "Dry", Price: 10000, Time: 300},
	} {
		_, err := svc.CreateService(ctx, req)
		require.NoError(t, err)
	}

	list, err := svc.ListServices(ctx, paging.Params{SortBy: "price", SortDir: "desc", Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Armor", list[0].Name)
	assert.Equal(t, "Wash", list[1].Name)

	list, err = svc.ListServices(ctx, paging.Params{SortBy: "name"})
	require.NoError(t, err)
	assert.Equal(t, "Armor", list[0].Name)

	_, err = svc.ListServices(ctx, paging.Params{SortBy: "duration"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	price := int64(-1)
	_, err = svc.UpdateService(ctx, list[0].ID, UpdateServiceRequest{Price: &price})
	assert.ErrorIs(t, err, domain.ErrValidation)

	dur := int64(3600)
	updated, err := svc.UpdateService(ctx, list[0].ID, UpdateServiceRequest{Time: &dur})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), updated.Duration)

	require.NoError(t, svc.DeleteService(ctx, updated.ID))
	_, err = svc.GetService(ctx, updated.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteService(ctx, updated.ID), domain.ErrNotFound)
}

func TestCreateService_NegativeValues(t *testing.T) {
	svc, _ := setup(t)
	_, err := svc.CreateService(context.Background(), CreateServiceRequest{Name: "x", Price: -5})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.CreateService(context.Background(), CreateServiceRequest{Name: "x", Time: -5})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCars_BrandFilter(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	toyota, err := svc.CreateBrand(ctx, BrandRequest{Name: "Toyota"})
	require.NoError(t, err)
	kia, err := svc.CreateBrand(ctx, BrandRequest{Name: "Kia"})
	require.NoError(t, err)

	for _, req := range []CreateCarRequest{
		{BrandID: toyota.ID, Model: "Camry"},
		{BrandID: toyota.ID, Model: "Corolla"},
		{BrandID: kia.ID, Model: "Rio"},
	} {
		_, err := svc.CreateCar(ctx, req)
		require.NoError(t, err)
	}

	cars, err := svc.ListCars(ctx, CarListParams{Brand: "toy", Params: paging.Params{SortBy: "model", SortDir: "desc"}})
	require.NoError(t, err)
	require.Len(t, cars, 2)
	assert.Equal(t, "Corolla", cars[0].Model)
	assert.Equal(t, "Toyota", cars[0].Brand.Name)

	_, err = svc.CreateCar(ctx, CreateCarRequest{BrandID: 404, Model: "Ghost"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCustomerCars_OwnOnly(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	owner := domain.User{Email: "o@carwash.test", PasswordHash: "x", RoleID: domain.RoleCustomer}
	other := domain.User{Email: "x@carwash.test", PasswordHash: "x", RoleID: domain.RoleCustomer}
	require.NoError(t, db.Create(&owner).Error)
	require.NoError(t, db.Create(&other).Error)

	brand, err := svc.CreateBrand(ctx, BrandRequest{Name: "Lada"})
	require.NoError(t, err)
	vesta, err := svc.CreateCar(ctx, CreateCarRequest{BrandID: brand.ID, Model: "Vesta"})
	require.NoError(t, err)
	niva, err := svc.CreateCar(ctx, CreateCarRequest{BrandID: brand.ID, Model: "Niva"})
	require.NoError(t, err)

	_, err = svc.CreateCustomerCar(ctx, CreateCustomerCarRequest{CarID: vesta.ID, CustomerID: owner.ID, Year: 2021, Number: "A001AA"})
	require.NoError(t, err)
	created, err := svc.CreateCustomerCar(ctx, CreateCustomerCarRequest{CarID: niva.ID, CustomerID: owner.ID, Year: 2015, Number: "B002BB"})
	require.NoError(t, err)
	assert.Equal(t, "Niva", created.Car.Model)
	assert.Equal(t, "Lada", created.Car.Brand.Name)
	_, err = svc.CreateCustomerCar(ctx, CreateCustomerCarRequest{CarID: niva.ID, CustomerID: other.ID, Year: 2010, Number: "C003CC"})
	require.NoError(t, err)

	actor := domain.Actor{UserID: owner.ID, Role: domain.RoleCustomer}
	mine, err := svc.ListCustomerCars(ctx, actor, CustomerCarListParams{Params: paging.Params{SortBy: "year"}})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, 2015, mine[0].Year)

	mine, err = svc.ListCustomerCars(ctx, actor, CustomerCarListParams{CarModel: "VES"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "A001AA", mine[0].Number)

	_, err = svc.CreateCustomerCar(ctx, CreateCustomerCarRequest{CarID: niva.ID, CustomerID: 404, Year: 2010, Number: "D"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	year := 2016
	updated, err := svc.UpdateCustomerCar(ctx, created.ID, UpdateCustomerCarRequest{Year: &year})
	require.NoError(t, err)
	assert.Equal(t, 2016, updated.Year)

	require.NoError(t, svc.DeleteCustomerCar(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteCustomerCar(ctx, created.ID), domain.ErrNotFound)
}

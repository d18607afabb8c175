// Package catalog manages brands, cars, services and customer cars. It holds no
// business rules beyond field and reference validation.
package catalog

import (
	"cmp"
	"context"
	"errors"
	"strings"

	"carwash/internal/domain"
	"carwash/internal/pkg/paging"
	"carwash/internal/repository"
)

var (
	carSort = paging.Comparators[domain.Car]{
		"id":    func(a, b domain.Car) int { return cmp.Compare(a.ID, b.ID) },
		"model": func(a, b domain.Car) int { return strings.Compare(a.Model, b.Model) },
	}
	serviceSort = paging.Comparators[domain.Service]{
		"id":    func(a, b domain.Service) int { return cmp.Compare(a.ID, b.ID) },
		"name":  func(a, b domain.Service) int { return strings.Compare(a.Name, b.Name) },
		"price": func(a, b domain.Service) int { return cmp.Compare(a.Price, b.Price) },
	}
	customerCarSort = paging.Comparators[domain.CustomerCar]{
		"id":     func(a, b domain.CustomerCar) int { return cmp.Compare(a.ID, b.ID) },
		"year":   func(a, b domain.CustomerCar) int { return cmp.Compare(a.Year, b.Year) },
		"number": func(a, b domain.CustomerCar) int { return strings.Compare(a.Number, b.Number) },
	}
)

type Service struct {
	repo  CatalogRepository
	cars  CustomerCarRepository
	users UserLookup
}

func NewService(repo CatalogRepository, cars CustomerCarRepository, users UserLookup) *Service {
	return &Service{repo: repo, cars: cars, users: users}
}

/* ---------- BRANDS ---------- */

func (s *Service) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	return s.repo.ListBrands(ctx)
}

func (s *Service) GetBrand(ctx context.Context, id int64) (*domain.Brand, error) {
	b, err := s.repo.GetBrand(ctx, id)
	return b, repository.DomainError(err)
}

func (s *Service) CreateBrand(ctx context.Context, req BrandRequest) (*domain.Brand, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.Invalid("name", req.Name)
	}
	b := &domain.Brand{Name: name}
	if err := s.repo.CreateBrand(ctx, b); err != nil {
		return nil, repository.DomainError(err)
	}
	return b, nil
}

func (s *Service) UpdateBrand(ctx context.Context, id int64, req BrandRequest) (*domain.Brand, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.Invalid("name", req.Name)
	}
	if err := s.repo.UpdateBrand(ctx, id, map[string]any{"name": name}); err != nil {
		return nil, repository.DomainError(err)
	}
	return s.GetBrand(ctx, id)
}

func (s *Service) DeleteBrand(ctx context.Context, id int64) error {
	return repository.DomainError(s.repo.DeleteBrand(ctx, id))
}

/* ---------- CARS ---------- */

// ListCars filters by a case-insensitive brand-name substring, then sorts and pages.
func (s *Service) ListCars(ctx context.Context, p CarListParams) ([]domain.Car, error) {
	if err := p.Normalize(carSort.Fields()); err != nil {
		return nil, err
	}
	cars, err := s.repo.ListCars(ctx)
	if err != nil {
		return nil, err
	}
	if brand := strings.ToLower(strings.TrimSpace(p.Brand)); brand != "" {
		filtered := make([]domain.Car, 0, len(cars))
		for _, c := range cars {
			if c.Brand != nil && strings.Contains(strings.ToLower(c.Brand.Name), brand) {
				filtered = append(filtered, c)
			}
		}
		cars = filtered
	}
	return paging.Apply(cars, carSort, p.Params), nil
}

func (s *Service) GetCar(ctx context.Context, id int64) (*domain.Car, error) {
	c, err := s.repo.GetCar(ctx, id)
	return c, repository.DomainError(err)
}

func (s *Service) CreateCar(ctx context.Context, req CreateCarRequest) (*domain.Car, error) {
	if err := s.checkBrand(ctx, req.BrandID); err != nil {
		return nil, err
	}
	c := &domain.Car{BrandID: req.BrandID, Model: strings.TrimSpace(req.Model)}
	if err := s.repo.CreateCar(ctx, c); err != nil {
		return nil, repository.DomainError(err)
	}
	return s.GetCar(ctx, c.ID)
}

func (s *Service) UpdateCar(ctx context.Context, id int64, req UpdateCarRequest) (*domain.Car, error) {
	fields := map[string]any{}
	if req.BrandID != nil {
		if err := s.checkBrand(ctx, *req.BrandID); err != nil {
			return nil, err
		}
		fields["brand_id"] = *req.BrandID
	}
	if req.Model != nil {
		fields["model"] = strings.TrimSpace(*req.Model)
	}
	if err := s.repo.UpdateCar(ctx, id, fields); err != nil {
		return nil, repository.DomainError(err)
	}
	return s.GetCar(ctx, id)
}

func (s *Service) DeleteCar(ctx context.Context, id int64) error {
	return repository.DomainError(s.repo.DeleteCar(ctx, id))
}

func (s *Service) checkBrand(ctx context.Context, id int64) error {
	_, err := s.repo.GetBrand(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Invalid("brand_id", id)
	}
	return err
}

/* ---------- SERVICES ---------- */

func (s *Service) ListServices(ctx context.Context, p paging.Params) ([]domain.Service, error) {
	if err := p.Normalize(serviceSort.Fields()); err != nil {
		return nil, err
	}
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	return paging.Apply(services, serviceSort, p), nil
}

func (s *Service) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.repo.GetService(ctx, id)
	return svc, repository.DomainError(err)
}

func (s *Service) CreateService(ctx context.Context, req CreateServiceRequest) (*domain.Service, error) {
	if req.Price < 0 {
		return nil, domain.Invalid("price", req.Price)
	}
	if req.Time < 0 {
		return nil, domain.Invalid("time", req.Time)
	}
	svc := &domain.Service{Name: strings.TrimSpace(req.Name), Price: req.Price, Duration: req.Time}
	if err := s.repo.CreateService(ctx, svc); err != nil {
		return nil, repository.DomainError(err)
	}
	return svc, nil
}

func (s *Service) UpdateService(ctx context.Context, id int64, req UpdateServiceRequest) (*domain.Service, error) {
	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, domain.Invalid("price", *req.Price)
		}
		fields["price"] = *req.Price
	}
	if req.Time != nil {
		if *req.Time < 0 {
			return nil, domain.Invalid("time", *req.Time)
		}
		fields["duration"] = *req.Time
	}
	if err := s.repo.UpdateService(ctx, id, fields); err != nil {
		return nil, repository.DomainError(err)
	}
	return s.GetService(ctx, id)
}

func (s *Service) DeleteService(ctx context.Context, id int64) error {
	return repository.DomainError(s.repo.DeleteService(ctx, id))
}

/* ---------- CUSTOMER CARS ---------- */

// ListCustomerCars returns the actor's own cars.
func (s *Service) ListCustomerCars(ctx context.Context, actor domain.Actor, p CustomerCarListParams) ([]domain.CustomerCar, error) {
	if err := p.Normalize(customerCarSort.Fields()); err != nil {
		return nil, err
	}
	if !actor.Resolved() {
		return []domain.CustomerCar{}, nil
	}
	cars, err := s.cars.List(ctx, repository.CustomerCarFilters{CustomerID: actor.UserID, CarModel: p.CarModel})
	if err != nil {
		return nil, err
	}
	return paging.Apply(cars, customerCarSort, p.Params), nil
}

func (s *Service) CreateCustomerCar(ctx context.Context, req CreateCustomerCarRequest) (*domain.CustomerCar, error) {
	if _, err := s.repo.GetCar(ctx, req.CarID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.Invalid("car_id", req.CarID)
		}
		return nil, err
	}
	if err := s.checkCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	cc := &domain.CustomerCar{
		CarID:      req.CarID,
		CustomerID: req.CustomerID,
		Year:       req.Year,
		Number:     strings.TrimSpace(req.Number),
	}
	if err := s.cars.Create(ctx, cc); err != nil {
		return nil, repository.DomainError(err)
	}
	return s.getCustomerCar(ctx, cc.ID)
}

func (s *Service) UpdateCustomerCar(ctx context.Context, id int64, req UpdateCustomerCarRequest) (*domain.CustomerCar, error) {
	fields := map[string]any{}
	if req.CustomerID != nil {
		if err := s.checkCustomer(ctx, *req.CustomerID); err != nil {
			return nil, err
		}
		fields["customer_id"] = *req.CustomerID
	}
	if req.Year != nil {
		fields["year"] = *req.Year
	}
	if req.Number != nil {
		fields["number"] = strings.TrimSpace(*req.Number)
	}
	if err := s.cars.Update(ctx, id, fields); err != nil {
		return nil, repository.DomainError(err)
	}
	return s.getCustomerCar(ctx, id)
}

func (s *Service) DeleteCustomerCar(ctx context.Context, id int64) error {
	return repository.DomainError(s.cars.Delete(ctx, id))
}

func (s *Service) getCustomerCar(ctx context.Context, id int64) (*domain.CustomerCar, error) {
	cc, err := s.cars.GetByID(ctx, id)
	return cc, repository.DomainError(err)
}

func (s *Service) checkCustomer(ctx context.Context, id int64) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Invalid("customer_id", id)
	}
	return nil
}

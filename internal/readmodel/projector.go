// Package readmodel renders loaded orders and catalog services into the
// denormalized views returned to clients.
package readmodel

import (
	"time"

	"carwash/internal/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Price struct {
	MinValue int64  `json:"minValue"`
	MaxValue int64  `json:"maxValue"`
	Format   string `json:"format"`
}

type Time struct {
	Second int64 `json:"second"`
	Minute int64 `json:"minute"`
}

type ServiceView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price Price  `json:"price"`
	Time  Time   `json:"time"`
}

type OrderView struct {
	ID                int64              `json:"id"`
	Status            domain.OrderStatus `json:"status"`
	StartDate         time.Time          `json:"start_date"`
	EndDate           *time.Time         `json:"end_date"`
	AdministratorID   int64              `json:"administrator_id"`
	CustomerCarID     int64              `json:"customer_car_id"`
	EmployeeID        int64              `json:"employee_id"`
	Services          []ServiceView      `json:"services"`
	Car               *string            `json:"car"`
	EmployeeName      *string            `json:"employee_name"`
	AdministratorName *string            `json:"administrator_name"`
	TotalPrice        int64              `json:"total_price"`
	TotalTimeMinutes  int64              `json:"total_time_minutes"`
}

// Projector holds the display zone and locale; it has no mutable state.
type Projector struct {
	loc  *time.Location
	lang language.Tag
}

func NewProjector(loc *time.Location) *Projector {
	if loc == nil {
		loc = time.UTC
	}
	return &Projector{loc: loc, lang: language.Russian}
}

// Rubles converts kopecks to whole rubles, truncating.
func Rubles(kopecks int64) int64 { return kopecks / 100 }

// Minutes converts seconds to whole minutes, truncating.
func Minutes(seconds int64) int64 { return seconds / 60 }

func (p *Projector) Service(s *domain.Service) ServiceView {
	rub := Rubles(s.Price)
	return ServiceView{
		ID:   s.ID,
		Name: s.Name,
		Price: Price{
			MinValue: s.Price,
			MaxValue: rub,
			Format:   message.NewPrinter(p.lang).Sprintf("%d руб.", rub),
		},
		Time: Time{
			Second: s.Duration,
			Minute: Minutes(s.Duration),
		},
	}
}

func (p *Projector) Services(in []domain.Service) []ServiceView {
	out := make([]ServiceView, 0, len(in))
	for i := range in {
		out = append(out, p.Service(&in[i]))
	}
	return out
}

// Order projects an order loaded with its services, car, employee and administrator.
// Missing relations leave the matching fields absent.
func (p *Projector) Order(o *domain.Order) OrderView {
	v := OrderView{
		ID:              o.ID,
		Status:          o.Status,
		StartDate:       p.local(o.StartDate),
		AdministratorID: o.AdministratorID,
		CustomerCarID:   o.CustomerCarID,
		EmployeeID:      o.EmployeeID,
		Services:        make([]ServiceView, 0, len(o.OrderServices)),
	}
	if o.EndDate != nil {
		end := p.local(*o.EndDate)
		v.EndDate = &end
	}

	for i := range o.OrderServices {
		s := o.OrderServices[i].Service
		if s == nil {
			continue
		}
		v.Services = append(v.Services, p.Service(s))
		v.TotalPrice += Rubles(s.Price)
		v.TotalTimeMinutes += Minutes(s.Duration)
	}

	if o.CustomerCar != nil && o.CustomerCar.Car != nil {
		model := o.CustomerCar.Car.Model
		v.Car = &model
	}
	v.EmployeeName = fullName(o.Employee)
	v.AdministratorName = fullName(o.Administrator)
	return v
}

func (p *Projector) Orders(in []domain.Order) []OrderView {
	out := make([]OrderView, 0, len(in))
	for i := range in {
		out = append(out, p.Order(&in[i]))
	}
	return out
}

// local moves a stored (UTC) timestamp into the display zone.
func (p *Projector) local(t time.Time) time.Time {
	return t.In(p.loc)
}

func fullName(u *domain.User) *string {
	if u == nil {
		return nil
	}
	name := u.FullName()
	return &name
}

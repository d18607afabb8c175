package domain

import "time"

// OrderStatus separates the three concerns the old single integer field mixed:
// scheduled orders accept new services, in_progress and completed ones are locked.
type OrderStatus string

const (
	OrderScheduled  OrderStatus = "scheduled"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderScheduled, OrderInProgress, OrderCompleted:
		return true
	}
	return false
}

// AcceptsServices reports whether new services may still be attached.
func (s OrderStatus) AcceptsServices() bool { return s == OrderScheduled }

type Order struct {
	ID              int64       `json:"id" gorm:"primaryKey"`
	AdministratorID int64       `json:"administrator_id" gorm:"not null;index"`
	CustomerCarID   int64       `json:"customer_car_id" gorm:"not null;index"`
	EmployeeID      int64       `json:"employee_id" gorm:"not null;index"`
	Status          OrderStatus `json:"status" gorm:"size:20;not null;default:scheduled;index"`
	StartDate       time.Time   `json:"start_date" gorm:"not null"`
	EndDate         *time.Time  `json:"end_date,omitempty"`
	Notified        bool        `json:"notified" gorm:"not null;default:false"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	OrderServices []OrderService `json:"order_services,omitempty" gorm:"foreignKey:OrderID"`
	Administrator *User          `json:"administrator,omitempty" gorm:"foreignKey:AdministratorID"`
	Employee      *User          `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
	CustomerCar   *CustomerCar   `json:"customer_car,omitempty" gorm:"foreignKey:CustomerCarID"`
}

func (Order) TableName() string { return "orders" }

// Terminal reports whether the order's end time has already passed at now.
// An order without an end time is never terminal.
func (o *Order) Terminal(now time.Time) bool {
	return o.EndDate != nil && o.EndDate.Before(now)
}

// ExtendBy grows the end time by d, seeding it from the start time when unset.
func (o *Order) ExtendBy(d time.Duration) {
	if o.EndDate == nil {
		end := o.StartDate.Add(d)
		o.EndDate = &end
		return
	}
	end := o.EndDate.Add(d)
	o.EndDate = &end
}

// OrderService records that a service was requested for an order.
type OrderService struct {
	ID        int64 `json:"id" gorm:"primaryKey"`
	ServiceID int64 `json:"service_id" gorm:"not null;index"`
	OrderID   int64 `json:"order_id" gorm:"not null;index"`

	Service *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	Order   *Order   `json:"-" gorm:"foreignKey:OrderID"`
}

func (OrderService) TableName() string { return "order_services" }

// Tables lists every entity in migration order.
var Tables = []any{
	&User{},
	&Brand{},
	&Car{},
	&Service{},
	&CustomerCar{},
	&Order{},
	&OrderService{},
}

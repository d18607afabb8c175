package domain

import "time"

type Brand struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Brand) TableName() string { return "brands" }

type Car struct {
	ID      int64  `json:"id" gorm:"primaryKey"`
	BrandID int64  `json:"brand_id" gorm:"not null;index"`
	Model   string `json:"model" gorm:"size:100;not null"`

	Brand *Brand `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
}

func (Car) TableName() string { return "cars" }

// Service is a catalog entry. Price is kept in kopecks, Duration in seconds.
type Service struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"size:100;not null"`
	Price    int64  `json:"price" gorm:"not null;default:0"`
	Duration int64  `json:"duration" gorm:"not null;default:0"`
}

func (Service) TableName() string { return "services" }

type CustomerCar struct {
	ID         int64  `json:"id" gorm:"primaryKey"`
	CarID      int64  `json:"car_id" gorm:"not null;index"`
	CustomerID int64  `json:"customer_id" gorm:"not null;index"`
	Year       int    `json:"year"`
	Number     string `json:"number" gorm:"size:100"`

	Car      *Car  `json:"car,omitempty" gorm:"foreignKey:CarID"`
	Customer *User `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

func (CustomerCar) TableName() string { return "customer_cars" }

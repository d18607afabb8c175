package main

import (
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"carwash/internal/database"
	"carwash/internal/domain"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "carwash.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// children first so foreign keys never dangle
	log.Println("Cleaning old data...")
	for _, table := range []string{"order_services", "orders", "customer_cars", "services", "cars", "brands", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("cleanup %s failed: %v", table, err)
		}
	}

	log.Println("Creating users...")
	admin := user(db, "admin@carwash.local", "admin123", "Анна", "Администратова", domain.RoleAdministrator)
	washers := []domain.User{
		user(db, "washer1@carwash.local", "washer123", "Пётр", "Мойщиков", domain.RoleEmployee),
		user(db, "washer2@carwash.local", "washer123", "Олег", "Полировкин", domain.RoleEmployee),
	}
	customers := []domain.User{
		user(db, "client1@test.com", "client123", "Иван", "Иванов", domain.RoleCustomer),
		user(db, "client2@test.com", "client123", "Мария", "Петрова", domain.RoleCustomer),
		user(db, "client3@test.com", "client123", "Сергей", "Сидоров", domain.RoleCustomer),
	}

	log.Println("Creating brands and cars...")
	models := map[string][]string{
		"Toyota":     {"Camry", "Corolla", "RAV4"},
		"Lada":       {"Vesta", "Granta"},
		"Kia":        {"Rio", "Sportage"},
		"Volkswagen": {"Polo", "Tiguan"},
	}
	var cars []domain.Car
	for _, brandName := range []string{"Toyota", "Lada", "Kia", "Volkswagen"} {
		brand := domain.Brand{Name: brandName}
		must(db.Create(&brand).Error)
		for _, m := range models[brandName] {
			car := domain.Car{BrandID: brand.ID, Model: m}
			must(db.Create(&car).Error)
			cars = append(cars, car)
		}
	}

	log.Println("Creating services...")
	// price in kopecks, duration in seconds
	services := []domain.Service{
		{Name: "Экспресс-мойка", Price: 50000, Duration: 900},
		{Name: "Комплексная мойка", Price: 150000, Duration: 2700},
		{Name: "Химчистка салона", Price: 600000, Duration: 10800},
		{Name: "Полировка кузова", Price: 450000, Duration: 7200},
		{Name: "Чернение шин", Price: 20000, Duration: 300},
		{Name: "Мойка двигателя", Price: 100000, Duration: 1800},
	}
	must(db.Create(&services).Error)

	log.Println("Creating customer cars...")
	numbers := []string{"А001АА124", "В777ОР124", "Е555КХ24", "М123ТТ124"}
	var owned []domain.CustomerCar
	for i, num := range numbers {
		cc := domain.CustomerCar{
			CarID:      cars[i*2%len(cars)].ID,
			CustomerID: customers[i%len(customers)].ID,
			Year:       2015 + i*2,
			Number:     num,
		}
		must(db.Create(&cc).Error)
		owned = append(owned, cc)
	}

	log.Println("Creating orders...")
	today := time.Now().UTC().Truncate(24 * time.Hour)
	plan := []struct {
		car      domain.CustomerCar
		washer   domain.User
		start    time.Time
		status   domain.OrderStatus
		services []int
		notified bool
	}{
		{owned[0], washers[0], today.AddDate(0, 0, -3).Add(4 * time.Hour), domain.OrderCompleted, []int{1, 4}, true},
		{owned[1], washers[1], today.AddDate(0, 0, -1).Add(6 * time.Hour), domain.OrderCompleted, []int{2}, false},
		{owned[2], washers[0], time.Now().UTC().Add(-20 * time.Minute), domain.OrderInProgress, []int{0, 4}, false},
		{owned[3], washers[1], today.AddDate(0, 0, 1).Add(3 * time.Hour), domain.OrderScheduled, []int{1, 3}, false},
		{owned[0], washers[1], today.AddDate(0, 0, 2).Add(5 * time.Hour), domain.OrderScheduled, nil, false},
	}
	for _, p := range plan {
		o := domain.Order{
			AdministratorID: admin.ID,
			EmployeeID:      p.washer.ID,
			CustomerCarID:   p.car.ID,
			Status:          p.status,
			StartDate:       p.start,
			Notified:        p.notified,
		}
		for _, idx := range p.services {
			o.ExtendBy(time.Duration(services[idx].Duration) * time.Second)
		}
		must(db.Omit(clause.Associations).Create(&o).Error)
		for _, idx := range p.services {
			must(db.Create(&domain.OrderService{OrderID: o.ID, ServiceID: services[idx].ID}).Error)
		}
	}

	log.Println("Seed completed!")
	log.Println("Test accounts:")
	log.Println("Admin: admin@carwash.local / admin123")
	log.Println("Washers: washer1@carwash.local, washer2@carwash.local / washer123")
	log.Println("Clients: client1@test.com ... client3@test.com / client123")
}

func user(db *gorm.DB, email, password, first, last string, role domain.Role) domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	must(err)
	u := domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    first,
		LastName:     last,
		RoleID:       role,
		IsActive:     true,
	}
	must(db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "first_name", "last_name", "role_id", "is_active", "updated_at"}),
	}).Create(&u).Error)
	return u
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

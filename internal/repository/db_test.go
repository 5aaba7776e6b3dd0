package repository

import (
	"context"
	"testing"
	"time"

	"garage_manager/internal/database"
	"garage_manager/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the production schema.
// One connection keeps every query on the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type garage struct {
	db      *gorm.DB
	owner   *models.User
	staff   *models.User
	model   *models.CarModel
	service *models.Service
	part    *models.Part
	vehicle *models.Vehicle
}

// seedGarage inserts one customer with a vehicle, one staff member and a
// service and part to bill.
func seedGarage(t *testing.T) *garage {
	t.Helper()
	db := newTestDB(t)
	g := &garage{
		db:      db,
		owner:   &models.User{Username: "khach1", PasswordHash: "x", FullName: "Nguyễn Văn A", Phone: "0912345678", Role: string(models.RoleCustomer)},
		staff:   &models.User{Username: "staff2", PasswordHash: "x", FullName: "Trần Thợ", Phone: "0987654321", Role: string(models.RoleStaff)},
		model:   &models.CarModel{Brand: "Toyota", Model: "Vios"},
		service: &models.Service{Name: "Thay dầu", Price: decimal.NewFromInt(150000)},
		part:    &models.Part{Name: "Lọc dầu", Quantity: 20, Price: decimal.NewFromInt(50000), MinStock: 5},
	}
	for _, row := range []interface{}{g.owner, g.staff, g.model, g.service, g.part} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed %T: %v", row, err)
		}
	}
	g.vehicle = &models.Vehicle{Plate: "51A12345", ModelID: g.model.ID, OwnerID: g.owner.ID}
	if err := NewVehicleRepository(db).Create(context.Background(), g.vehicle); err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	return g
}

func (g *garage) ticket(t *testing.T, at time.Time) *models.Ticket {
	t.Helper()
	ticket := &models.Ticket{
		Plate:         g.vehicle.Plate,
		IntakeStaffID: g.staff.ID,
		RepairStaffID: g.staff.ID,
		IntakeTime:    at,
		PaymentStatus: models.StatusUnpaid,
	}
	if err := NewTicketRepository(g.db).Create(context.Background(), ticket, nil); err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return ticket
}

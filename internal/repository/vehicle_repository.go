package repository

import (
	"context"

	"garage_manager/internal/models"

	"gorm.io/gorm"
)

type VehicleRepository interface {
	List(ctx context.Context) ([]models.VehicleView, error)
	GetView(ctx context.Context, plate string) (*models.VehicleView, error)
	GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	Exists(ctx context.Context, plate string) (bool, error)
	Create(ctx context.Context, vehicle *models.Vehicle) error
	Update(ctx context.Context, plate string, vehicle *models.Vehicle) error
	Delete(ctx context.Context, plate string) error
}

type vehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("vehicles v").
		Select("v.bienso, v.maxe, v.makh, v.ghichu, u.full_name, u.phone, m.brand, m.model").
		Joins("JOIN users u ON u.id = v.makh").
		Joins("JOIN car_models m ON m.id = v.maxe")
}

func (r *vehicleRepository) List(ctx context.Context) ([]models.VehicleView, error) {
	var vehicles []models.VehicleView
	err := r.viewQuery(ctx).Order("v.bienso").Scan(&vehicles).Error
	return vehicles, wrap(err)
}

func (r *vehicleRepository) GetView(ctx context.Context, plate string) (*models.VehicleView, error) {
	var vehicles []models.VehicleView
	if err := r.viewQuery(ctx).Where("v.bienso = ?", plate).Limit(1).Scan(&vehicles).Error; err != nil {
		return nil, wrap(err)
	}
	if len(vehicles) == 0 {
		return nil, ErrNotFound
	}
	return &vehicles[0], nil
}

func (r *vehicleRepository) GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).Where("bienso = ?", plate).First(&vehicle).Error; err != nil {
		return nil, wrap(err)
	}
	return &vehicle, nil
}

func (r *vehicleRepository) Exists(ctx context.Context, plate string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Where("bienso = ?", plate).Count(&count).Error
	return count > 0, wrap(err)
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	return wrap(r.db.WithContext(ctx).Create(vehicle).Error)
}

// Update rewrites the vehicle stored under plate. A changed plate is carried
// over to the tickets and appointments that reference the old one.
func (r *vehicleRepository) Update(ctx context.Context, plate string, vehicle *models.Vehicle) error {
	return wrap(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Vehicle{}).Where("bienso = ?", plate).Updates(map[string]interface{}{
			"bienso": vehicle.Plate,
			"maxe":   vehicle.ModelID,
			"makh":   vehicle.OwnerID,
			"ghichu": vehicle.Note,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if vehicle.Plate == plate {
			return nil
		}
		if err := tx.Model(&models.Ticket{}).Where("plate = ?", plate).Update("plate", vehicle.Plate).Error; err != nil {
			return err
		}
		return tx.Model(&models.Appointment{}).Where("plate = ?", plate).Update("plate", vehicle.Plate).Error
	}))
}

func (r *vehicleRepository) Delete(ctx context.Context, plate string) error {
	res := r.db.WithContext(ctx).Where("bienso = ?", plate).Delete(&models.Vehicle{})
	if res.Error != nil {
		return wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

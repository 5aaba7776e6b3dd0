package repository

import (
	"context"

	"garage_manager/internal/models"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	List(ctx context.Context) ([]models.AppointmentView, error)
	GetByID(ctx context.Context, id uint) (*models.Appointment, error)
	Create(ctx context.Context, appt *models.Appointment) error
	UpdateStatus(ctx context.Context, id uint, status string) (*models.Appointment, error)
	Delete(ctx context.Context, id uint) error
}

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) List(ctx context.Context) ([]models.AppointmentView, error) {
	var list []models.AppointmentView
	err := r.db.WithContext(ctx).
		Table("appointments a").
		Select("a.*, u.full_name, u.phone, m.brand, m.model").
		Joins("JOIN users u ON u.id = a.customer_id").
		Joins("LEFT JOIN car_models m ON m.id = a.model_id").
		Order("a.scheduled_at DESC").
		Scan(&list).Error
	return list, wrap(err)
}

func (r *appointmentRepository) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.db.WithContext(ctx).First(&appt, id).Error; err != nil {
		return nil, wrap(err)
	}
	return &appt, nil
}

func (r *appointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	return wrap(r.db.WithContext(ctx).Create(appt).Error)
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uint, status string) (*models.Appointment, error) {
	res := r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *appointmentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

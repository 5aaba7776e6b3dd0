package services

import (
	"context"
	"strings"
	"time"

	"garage_manager/internal/apperr"
	"garage_manager/internal/models"
	"garage_manager/internal/repository"
)

// Appointments start on the hour between these garage-local hours.
const (
	firstSlotHour = 8
	lastSlotHour  = 16
)

type CreateAppointmentInput struct {
	Plate       *string   `json:"plate"`
	CustomerID  uint      `json:"customer_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Note        string    `json:"note"`
	Status      string    `json:"status"`
	Brand       string    `json:"brand"`
	Model       string    `json:"model"`
}

type AppointmentService interface {
	List(ctx context.Context) ([]models.AppointmentView, error)
	Create(ctx context.Context, in CreateAppointmentInput) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*models.Appointment, error)
	Delete(ctx context.Context, id uint) error
}

type appointmentService struct {
	appointments repository.AppointmentRepository
	users        repository.UserRepository
	catalog      repository.CatalogRepository
	loc          *time.Location
}

func NewAppointmentService(appointments repository.AppointmentRepository, users repository.UserRepository, catalog repository.CatalogRepository, loc *time.Location) AppointmentService {
	if loc == nil {
		loc = time.Local
	}
	return &appointmentService{appointments: appointments, users: users, catalog: catalog, loc: loc}
}

const msgAppointmentNotFound = "Không tìm thấy lịch hẹn"

func (s *appointmentService) List(ctx context.Context) ([]models.AppointmentView, error) {
	list, err := s.appointments.List(ctx)
	if err != nil {
		return nil, internal(err)
	}
	return list, nil
}

func (s *appointmentService) Create(ctx context.Context, in CreateAppointmentInput) (*models.Appointment, error) {
	status := strings.TrimSpace(in.Status)
	brand, model := strings.TrimSpace(in.Brand), strings.TrimSpace(in.Model)
	if in.CustomerID == 0 || in.ScheduledAt.IsZero() || status == "" || brand == "" || model == "" {
		return nil, apperr.Validation("Thiếu thông tin bắt buộc")
	}
	if !ValidSlot(in.ScheduledAt, s.loc) {
		return nil, apperr.Validation("Thời gian hẹn không hợp lệ. Chỉ chấp nhận giờ nguyên từ 8h đến 16h.")
	}
	var plate *string
	if in.Plate != nil {
		// Lower-case input is accepted; ValidPlate sees the upper-cased form.
		if p := NormalizePlate(*in.Plate); p != "" {
			if !ValidPlate(p) {
				return nil, apperr.Validation("Biển số xe không hợp lệ")
			}
			plate = &p
		}
	}

	customer, err := s.users.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, fromRepo(err, msgCustomerNotFound)
	}
	if customer.Role != string(models.RoleCustomer) {
		return nil, apperr.NotFound(msgCustomerNotFound)
	}
	carModel, err := s.catalog.FindCarModel(ctx, brand, model)
	if err != nil {
		return nil, fromRepo(err, "Không tìm thấy xe với brand và model đã chọn.")
	}

	appt := &models.Appointment{
		Plate:       plate,
		CustomerID:  customer.ID,
		ScheduledAt: in.ScheduledAt,
		Note:        strings.TrimSpace(in.Note),
		Status:      status,
		ModelID:     carModel.ID,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, internal(err)
	}
	return appt, nil
}

func (s *appointmentService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Appointment, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, apperr.Validation("Thiếu trạng thái")
	}
	appt, err := s.appointments.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fromRepo(err, msgAppointmentNotFound)
	}
	return appt, nil
}

func (s *appointmentService) Delete(ctx context.Context, id uint) error {
	return fromRepo(s.appointments.Delete(ctx, id), "Không tìm thấy lịch hẹn để xoá")
}

// ValidSlot reports whether t, read in loc, falls exactly on an hour from
// 08:00 to 16:00.
func ValidSlot(t time.Time, loc *time.Location) bool {
	local := t.In(loc)
	if local.Minute() != 0 || local.Second() != 0 || local.Nanosecond() != 0 {
		return false
	}
	return local.Hour() >= firstSlotHour && local.Hour() <= lastSlotHour
}

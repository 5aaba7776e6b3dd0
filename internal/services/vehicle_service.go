package services

import (
	"context"
	"strings"

	"garage_manager/internal/apperr"
	"garage_manager/internal/models"
	"garage_manager/internal/repository"

	"github.com/pkg/errors"
)

// VehicleInput is the body of register and update. The model is given either
// by catalog id or as "Brand/Model".
type VehicleInput struct {
	Plate   string  `json:"plate"`
	Phone   string  `json:"phone"`
	ModelID uint    `json:"model_id"`
	Model   string  `json:"model"`
	Note    *string `json:"note"`
}

type VehicleService interface {
	List(ctx context.Context) ([]models.VehicleView, error)
	Register(ctx context.Context, in VehicleInput) (*models.Vehicle, error)
	Update(ctx context.Context, plate string, in VehicleInput) (*models.VehicleView, error)
	Delete(ctx context.Context, plate string) error
}

type vehicleService struct {
	vehicles repository.VehicleRepository
	users    repository.UserRepository
	catalog  repository.CatalogRepository
}

func NewVehicleService(vehicles repository.VehicleRepository, users repository.UserRepository, catalog repository.CatalogRepository) VehicleService {
	return &vehicleService{vehicles: vehicles, users: users, catalog: catalog}
}

const (
	msgVehicleNotFound  = "Không tìm thấy xe"
	msgCustomerNotFound = "Không tìm thấy khách hàng"
	msgModelNotFound    = "Không tìm thấy mẫu xe"
)

func (s *vehicleService) List(ctx context.Context) ([]models.VehicleView, error) {
	list, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, internal(err)
	}
	return list, nil
}

func (s *vehicleService) Register(ctx context.Context, in VehicleInput) (*models.Vehicle, error) {
	plate, phone, err := validateVehicleInput(in)
	if err != nil {
		return nil, err
	}

	exists, err := s.vehicles.Exists(ctx, plate)
	if err != nil {
		return nil, internal(err)
	}
	if exists {
		return nil, apperr.Conflict("Biển số xe đã tồn tại")
	}
	customer, err := s.users.FindCustomerByPhone(ctx, phone)
	if err != nil {
		return nil, fromRepo(err, msgCustomerNotFound)
	}
	modelID, err := s.resolveModel(ctx, in)
	if err != nil {
		return nil, err
	}

	vehicle := &models.Vehicle{
		Plate:   plate,
		ModelID: modelID,
		OwnerID: customer.ID,
		Note:    in.Note,
	}
	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Biển số xe đã tồn tại")
		}
		return nil, internal(err)
	}
	return vehicle, nil
}

// Update checks, in order: formats, current vehicle, new plate uniqueness,
// model, customer. The row is then rewritten under its original plate.
func (s *vehicleService) Update(ctx context.Context, plate string, in VehicleInput) (*models.VehicleView, error) {
	current := NormalizePlate(plate)
	newPlate, phone, err := validateVehicleInput(in)
	if err != nil {
		return nil, err
	}

	if _, err := s.vehicles.GetByPlate(ctx, current); err != nil {
		return nil, fromRepo(err, msgVehicleNotFound)
	}
	if newPlate != current {
		taken, err := s.vehicles.Exists(ctx, newPlate)
		if err != nil {
			return nil, internal(err)
		}
		if taken {
			return nil, apperr.Conflict("Biển số xe mới đã tồn tại")
		}
	}
	modelID, err := s.resolveModel(ctx, in)
	if err != nil {
		return nil, err
	}
	customer, err := s.users.FindCustomerByPhone(ctx, phone)
	if err != nil {
		return nil, fromRepo(err, msgCustomerNotFound)
	}

	err = s.vehicles.Update(ctx, current, &models.Vehicle{
		Plate:   newPlate,
		ModelID: modelID,
		OwnerID: customer.ID,
		Note:    in.Note,
	})
	if err != nil {
		return nil, fromRepo(err, msgVehicleNotFound)
	}
	view, err := s.vehicles.GetView(ctx, newPlate)
	if err != nil {
		return nil, fromRepo(err, msgVehicleNotFound)
	}
	return view, nil
}

func (s *vehicleService) Delete(ctx context.Context, plate string) error {
	return fromRepo(s.vehicles.Delete(ctx, NormalizePlate(plate)), msgVehicleNotFound)
}

func validateVehicleInput(in VehicleInput) (plate, phone string, err error) {
	// Lower-case input is accepted; ValidPlate sees the upper-cased form.
	plate = NormalizePlate(in.Plate)
	phone = strings.TrimSpace(in.Phone)
	if plate == "" || phone == "" || (in.ModelID == 0 && strings.TrimSpace(in.Model) == "") {
		return "", "", apperr.Validation("Thiếu thông tin bắt buộc")
	}
	if !ValidPlate(plate) {
		return "", "", apperr.Validation("Biển số xe không hợp lệ")
	}
	if !ValidPhone(phone) {
		return "", "", apperr.Validation("Số điện thoại không hợp lệ")
	}
	return plate, phone, nil
}

func (s *vehicleService) resolveModel(ctx context.Context, in VehicleInput) (uint, error) {
	if in.ModelID != 0 {
		m, err := s.catalog.GetCarModel(ctx, in.ModelID)
		if err != nil {
			return 0, fromRepo(err, msgModelNotFound)
		}
		return m.ID, nil
	}
	brand, model, ok := splitModel(in.Model)
	if !ok {
		return 0, apperr.Validation("Mẫu xe phải có dạng Hãng/Mẫu")
	}
	m, err := s.catalog.FindCarModel(ctx, brand, model)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperr.NotFound(msgModelNotFound)
		}
		return 0, internal(err)
	}
	return m.ID, nil
}

// splitModel parses "Toyota/Vios" into its brand and model.
func splitModel(s string) (brand, model string, ok bool) {
	brand, model, ok = strings.Cut(s, "/")
	brand, model = strings.TrimSpace(brand), strings.TrimSpace(model)
	return brand, model, ok && brand != "" && model != ""
}

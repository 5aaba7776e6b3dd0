package repository

import (
	"context"
	"strings"

	"garage_manager/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository covers the three reference tables tickets and vehicles
// point at: car models, services and parts.
type CatalogRepository interface {
	ListCarModels(ctx context.Context) ([]models.CarModel, error)
	GetCarModel(ctx context.Context, id uint) (*models.CarModel, error)
	FindCarModel(ctx context.Context, brand, model string) (*models.CarModel, error)
	CarModelTaken(ctx context.Context, brand, model string, excludeID uint) (bool, error)
	CreateCarModel(ctx context.Context, m *models.CarModel) error
	UpdateCarModel(ctx context.Context, m *models.CarModel) error
	DeleteCarModel(ctx context.Context, id uint) error

	ListServices(ctx context.Context) ([]models.Service, error)
	SearchServices(ctx context.Context, term string, limit int) ([]models.Service, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)
	CreateService(ctx context.Context, s *models.Service) error
	UpdateService(ctx context.Context, id uint, fields map[string]interface{}) (*models.Service, error)
	DeleteService(ctx context.Context, id uint) error

	ListParts(ctx context.Context) ([]models.Part, error)
	ListLowStockParts(ctx context.Context) ([]models.Part, error)
	GetPart(ctx context.Context, id uint) (*models.Part, error)
	PartNameTaken(ctx context.Context, name string, excludeID uint) (bool, error)
	CreatePart(ctx context.Context, p *models.Part) error
	UpdatePart(ctx context.Context, id uint, fields map[string]interface{}) (*models.Part, error)
	DeletePart(ctx context.Context, id uint) error
	AddStock(ctx context.Context, id uint, quantity int) (*models.Part, error)
	ImportParts(ctx context.Context, parts []models.Part) ([]models.Part, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// Car models

func (r *catalogRepository) ListCarModels(ctx context.Context) ([]models.CarModel, error) {
	var list []models.CarModel
	err := r.db.WithContext(ctx).Order("id DESC").Find(&list).Error
	return list, wrap(err)
}

func (r *catalogRepository) GetCarModel(ctx context.Context, id uint) (*models.CarModel, error) {
	var m models.CarModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, wrap(err)
	}
	return &m, nil
}

func (r *catalogRepository) FindCarModel(ctx context.Context, brand, model string) (*models.CarModel, error) {
	var m models.CarModel
	err := r.db.WithContext(ctx).
		Where("LOWER(brand) = LOWER(?) AND LOWER(model) = LOWER(?)", brand, model).
		First(&m).Error
	if err != nil {
		return nil, wrap(err)
	}
	return &m, nil
}

func (r *catalogRepository) CarModelTaken(ctx context.Context, brand, model string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.CarModel{}).Where("brand = ? AND model = ?", brand, model)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, wrap(err)
}

func (r *catalogRepository) CreateCarModel(ctx context.Context, m *models.CarModel) error {
	return wrap(r.db.WithContext(ctx).Create(m).Error)
}

func (r *catalogRepository) UpdateCarModel(ctx context.Context, m *models.CarModel) error {
	res := r.db.WithContext(ctx).Model(&models.CarModel{}).Where("id = ?", m.ID).
		Updates(map[string]interface{}{"brand": m.Brand, "model": m.Model})
	if res.Error != nil {
		return wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteCarModel(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, &models.CarModel{}, id)
}

// Services

func (r *catalogRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	var list []models.Service
	err := r.db.WithContext(ctx).Order("id").Find(&list).Error
	return list, wrap(err)
}

func (r *catalogRepository) SearchServices(ctx context.Context, term string, limit int) ([]models.Service, error) {
	var list []models.Service
	err := r.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+escapeLike(term)+"%").
		Order("name").
		Limit(limit).
		Find(&list).Error
	return list, wrap(err)
}

func (r *catalogRepository) GetService(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, wrap(err)
	}
	return &s, nil
}

func (r *catalogRepository) CreateService(ctx context.Context, s *models.Service) error {
	return wrap(r.db.WithContext(ctx).Create(s).Error)
}

func (r *catalogRepository) UpdateService(ctx context.Context, id uint, fields map[string]interface{}) (*models.Service, error) {
	res := r.db.WithContext(ctx).Model(&models.Service{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetService(ctx, id)
}

func (r *catalogRepository) DeleteService(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, &models.Service{}, id)
}

// Parts

func (r *catalogRepository) ListParts(ctx context.Context) ([]models.Part, error) {
	var list []models.Part
	err := r.db.WithContext(ctx).Order("id").Find(&list).Error
	return list, wrap(err)
}

func (r *catalogRepository) ListLowStockParts(ctx context.Context) ([]models.Part, error) {
	var list []models.Part
	err := r.db.WithContext(ctx).Where("quantity <= min_stock").Order("quantity, id").Find(&list).Error
	return list, wrap(err)
}

func (r *catalogRepository) GetPart(ctx context.Context, id uint) (*models.Part, error) {
	var p models.Part
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, wrap(err)
	}
	return &p, nil
}

func (r *catalogRepository) PartNameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Part{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, wrap(err)
}

func (r *catalogRepository) CreatePart(ctx context.Context, p *models.Part) error {
	return wrap(r.db.WithContext(ctx).Create(p).Error)
}

func (r *catalogRepository) UpdatePart(ctx context.Context, id uint, fields map[string]interface{}) (*models.Part, error) {
	res := r.db.WithContext(ctx).Model(&models.Part{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetPart(ctx, id)
}

func (r *catalogRepository) DeletePart(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, &models.Part{}, id)
}

func (r *catalogRepository) AddStock(ctx context.Context, id uint, quantity int) (*models.Part, error) {
	res := r.db.WithContext(ctx).Model(&models.Part{}).Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", quantity))
	if res.Error != nil {
		return nil, wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetPart(ctx, id)
}

// ImportParts upserts by case-insensitive name in one transaction. Existing
// parts receive the imported quantity on top of their stock and take the
// imported price; new names are inserted as given.
func (r *catalogRepository) ImportParts(ctx context.Context, parts []models.Part) ([]models.Part, error) {
	out := make([]models.Part, 0, len(parts))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range parts {
			var existing models.Part
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("LOWER(name) = LOWER(?)", in.Name).
				First(&existing).Error
			switch {
			case err == nil:
				existing.Quantity += in.Quantity
				existing.Price = in.Price
				if err := tx.Model(&existing).Updates(map[string]interface{}{
					"quantity": existing.Quantity,
					"price":    existing.Price,
				}).Error; err != nil {
					return errors.Wrapf(err, "update part %q", in.Name)
				}
				out = append(out, existing)
			case errors.Is(err, gorm.ErrRecordNotFound):
				p := in
				if err := tx.Create(&p).Error; err != nil {
					return errors.Wrapf(err, "insert part %q", in.Name)
				}
				out = append(out, p)
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrap(err)
	}
	return out, nil
}

func (r *catalogRepository) deleteByID(ctx context.Context, model interface{}, id uint) error {
	res := r.db.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

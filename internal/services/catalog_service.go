package services

import (
	"context"
	"strings"
	"time"

	"garage_manager/internal/apperr"
	"garage_manager/internal/models"
	"garage_manager/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Cache is the subset of the Redis client used for catalog listings.
type Cache interface {
	GetCache(ctx context.Context, key string, dest interface{}) error
	SetCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteCache(ctx context.Context, keys ...string) error
}

const (
	cacheKeyCarModels = "catalog:car-models"
	cacheKeyServices  = "catalog:services"

	serviceSearchLimit = 10
)

type CarModelInput struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
}

type ServiceInput struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
}

type PartInput struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	MinStock int             `json:"min_stock"`
}

type PartUpdateInput struct {
	Name     models.Optional[string]          `json:"name"`
	Quantity models.Optional[int]             `json:"quantity"`
	Price    models.Optional[decimal.Decimal] `json:"price"`
	MinStock models.Optional[int]             `json:"min_stock"`
}

type StockInInput struct {
	PartID   uint `json:"part_id"`
	Quantity int  `json:"quantity"`
}

type CatalogService interface {
	ListCarModels(ctx context.Context) ([]models.CarModel, error)
	CreateCarModel(ctx context.Context, in CarModelInput) (*models.CarModel, error)
	UpdateCarModel(ctx context.Context, id uint, in CarModelInput) (*models.CarModel, error)
	DeleteCarModel(ctx context.Context, id uint) error

	ListServices(ctx context.Context, search string) ([]models.Service, error)
	CreateService(ctx context.Context, in ServiceInput) (*models.Service, error)
	UpdateService(ctx context.Context, id uint, in ServiceInput) (*models.Service, error)
	DeleteService(ctx context.Context, id uint) error

	ListParts(ctx context.Context) ([]models.Part, error)
	LowStockParts(ctx context.Context) ([]models.Part, error)
	CreatePart(ctx context.Context, in PartInput) (*models.Part, error)
	UpdatePart(ctx context.Context, id uint, in PartUpdateInput) (*models.Part, error)
	DeletePart(ctx context.Context, id uint) error
	StockIn(ctx context.Context, in StockInInput) (*models.Part, error)
	ImportParts(ctx context.Context, in []PartInput) ([]models.Part, error)
}

type catalogService struct {
	repo  repository.CatalogRepository
	cache Cache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewCatalogService caches car model and service listings for ttl. cache may
// be nil.
func NewCatalogService(repo repository.CatalogRepository, cache Cache, ttl time.Duration, log zerolog.Logger) CatalogService {
	return &catalogService{repo: repo, cache: cache, ttl: ttl, log: log}
}

const (
	msgServiceNotFound = "Không tìm thấy dịch vụ"
	msgPartNotFound    = "Không tìm thấy phụ tùng"
)

// Car models

func (s *catalogService) ListCarModels(ctx context.Context) ([]models.CarModel, error) {
	var list []models.CarModel
	if s.cached(ctx, cacheKeyCarModels, &list) {
		return list, nil
	}
	list, err := s.repo.ListCarModels(ctx)
	if err != nil {
		return nil, internal(err)
	}
	s.store(ctx, cacheKeyCarModels, list)
	return list, nil
}

func (s *catalogService) CreateCarModel(ctx context.Context, in CarModelInput) (*models.CarModel, error) {
	brand, model, err := validateCarModel(in)
	if err != nil {
		return nil, err
	}
	taken, err := s.repo.CarModelTaken(ctx, brand, model, 0)
	if err != nil {
		return nil, internal(err)
	}
	if taken {
		return nil, apperr.Conflict("Mẫu xe đã tồn tại")
	}
	m := &models.CarModel{Brand: brand, Model: model}
	if err := s.repo.CreateCarModel(ctx, m); err != nil {
		return nil, fromRepo(err, msgModelNotFound)
	}
	s.invalidate(ctx, cacheKeyCarModels)
	return m, nil
}

func (s *catalogService) UpdateCarModel(ctx context.Context, id uint, in CarModelInput) (*models.CarModel, error) {
	brand, model, err := validateCarModel(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetCarModel(ctx, id); err != nil {
		return nil, fromRepo(err, msgModelNotFound)
	}
	taken, err := s.repo.CarModelTaken(ctx, brand, model, id)
	if err != nil {
		return nil, internal(err)
	}
	if taken {
		return nil, apperr.Conflict("Mẫu xe đã tồn tại")
	}
	m := &models.CarModel{ID: id, Brand: brand, Model: model}
	if err := s.repo.UpdateCarModel(ctx, m); err != nil {
		return nil, fromRepo(err, msgModelNotFound)
	}
	s.invalidate(ctx, cacheKeyCarModels)
	return s.getCarModel(ctx, id)
}

func (s *catalogService) getCarModel(ctx context.Context, id uint) (*models.CarModel, error) {
	m, err := s.repo.GetCarModel(ctx, id)
	if err != nil {
		return nil, fromRepo(err, msgModelNotFound)
	}
	return m, nil
}

func (s *catalogService) DeleteCarModel(ctx context.Context, id uint) error {
	if err := s.repo.DeleteCarModel(ctx, id); err != nil {
		return fromRepo(err, msgModelNotFound)
	}
	s.invalidate(ctx, cacheKeyCarModels)
	return nil
}

func validateCarModel(in CarModelInput) (string, string, error) {
	brand, model := strings.TrimSpace(in.Brand), strings.TrimSpace(in.Model)
	if brand == "" || model == "" {
		return "", "", apperr.Validation("Thiếu hãng hoặc mẫu xe")
	}
	return brand, model, nil
}

// Services

func (s *catalogService) ListServices(ctx context.Context, search string) ([]models.Service, error) {
	if search = strings.TrimSpace(search); search != "" {
		list, err := s.repo.SearchServices(ctx, search, serviceSearchLimit)
		if err != nil {
			return nil, internal(err)
		}
		return list, nil
	}

	var list []models.Service
	if s.cached(ctx, cacheKeyServices, &list) {
		return list, nil
	}
	list, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, internal(err)
	}
	s.store(ctx, cacheKeyServices, list)
	return list, nil
}

func (s *catalogService) CreateService(ctx context.Context, in ServiceInput) (*models.Service, error) {
	name, price, err := validateService(in)
	if err != nil {
		return nil, err
	}
	svc := &models.Service{Name: name, Description: in.Description, Price: price}
	if err := s.repo.CreateService(ctx, svc); err != nil {
		return nil, internal(err)
	}
	s.invalidate(ctx, cacheKeyServices)
	return svc, nil
}

func (s *catalogService) UpdateService(ctx context.Context, id uint, in ServiceInput) (*models.Service, error) {
	name, price, err := validateService(in)
	if err != nil {
		return nil, err
	}
	svc, err := s.repo.UpdateService(ctx, id, map[string]interface{}{
		"name":        name,
		"description": in.Description,
		"price":       price,
	})
	if err != nil {
		return nil, fromRepo(err, msgServiceNotFound)
	}
	s.invalidate(ctx, cacheKeyServices)
	return svc, nil
}

func (s *catalogService) DeleteService(ctx context.Context, id uint) error {
	if err := s.repo.DeleteService(ctx, id); err != nil {
		return fromRepo(err, msgServiceNotFound)
	}
	s.invalidate(ctx, cacheKeyServices)
	return nil
}

func validateService(in ServiceInput) (string, decimal.Decimal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", decimal.Zero, apperr.Validation("Tên dịch vụ không được để trống")
	}
	price := decimal.Zero
	if in.Price != nil {
		price = *in.Price
	}
	if price.IsNegative() {
		return "", decimal.Zero, apperr.Validation("Giá không được âm")
	}
	return name, price, nil
}

// Parts

func (s *catalogService) ListParts(ctx context.Context) ([]models.Part, error) {
	list, err := s.repo.ListParts(ctx)
	if err != nil {
		return nil, internal(err)
	}
	return list, nil
}

func (s *catalogService) LowStockParts(ctx context.Context) ([]models.Part, error) {
	list, err := s.repo.ListLowStockParts(ctx)
	if err != nil {
		return nil, internal(err)
	}
	return list, nil
}

func (s *catalogService) CreatePart(ctx context.Context, in PartInput) (*models.Part, error) {
	p, err := validatePart(in)
	if err != nil {
		return nil, err
	}
	taken, err := s.repo.PartNameTaken(ctx, p.Name, 0)
	if err != nil {
		return nil, internal(err)
	}
	if taken {
		return nil, apperr.Conflict("Tên phụ tùng đã tồn tại")
	}
	if err := s.repo.CreatePart(ctx, p); err != nil {
		return nil, fromRepo(err, msgPartNotFound)
	}
	return p, nil
}

func (s *catalogService) UpdatePart(ctx context.Context, id uint, in PartUpdateInput) (*models.Part, error) {
	fields := map[string]interface{}{}
	if in.Name.Set {
		name := strings.TrimSpace(in.Name.Value)
		if in.Name.Null || name == "" {
			return nil, apperr.Validation("Tên phụ tùng không được để trống")
		}
		taken, err := s.repo.PartNameTaken(ctx, name, id)
		if err != nil {
			return nil, internal(err)
		}
		if taken {
			return nil, apperr.Conflict("Tên phụ tùng đã tồn tại")
		}
		fields["name"] = name
	}
	if in.Quantity.Set {
		if in.Quantity.Null || in.Quantity.Value < 0 {
			return nil, apperr.Validation("Số lượng không hợp lệ")
		}
		fields["quantity"] = in.Quantity.Value
	}
	if in.Price.Set {
		if in.Price.Null || in.Price.Value.IsNegative() {
			return nil, apperr.Validation("Giá không hợp lệ")
		}
		fields["price"] = in.Price.Value
	}
	if in.MinStock.Set {
		if in.MinStock.Null || in.MinStock.Value < 0 {
			return nil, apperr.Validation("Mức tồn tối thiểu không hợp lệ")
		}
		fields["min_stock"] = in.MinStock.Value
	}
	if len(fields) == 0 {
		return nil, apperr.Validation("Không có trường nào để cập nhật")
	}

	p, err := s.repo.UpdatePart(ctx, id, fields)
	if err != nil {
		return nil, fromRepo(err, msgPartNotFound)
	}
	return p, nil
}

func (s *catalogService) DeletePart(ctx context.Context, id uint) error {
	return fromRepo(s.repo.DeletePart(ctx, id), msgPartNotFound)
}

func (s *catalogService) StockIn(ctx context.Context, in StockInInput) (*models.Part, error) {
	if in.PartID == 0 {
		return nil, apperr.Validation("Thiếu phụ tùng")
	}
	if in.Quantity <= 0 {
		return nil, apperr.Validation("Số lượng nhập phải lớn hơn 0")
	}
	p, err := s.repo.AddStock(ctx, in.PartID, in.Quantity)
	if err != nil {
		return nil, fromRepo(err, msgPartNotFound)
	}
	if p.LowStock() {
		s.log.Warn().Uint("part_id", p.ID).Int("quantity", p.Quantity).Msg("part still at or below min stock")
	}
	return p, nil
}

// ImportParts validates every row before writing any of them.
func (s *catalogService) ImportParts(ctx context.Context, in []PartInput) ([]models.Part, error) {
	if len(in) == 0 {
		return nil, apperr.Validation("Danh sách phụ tùng trống")
	}
	parts := make([]models.Part, 0, len(in))
	seen := make(map[string]int, len(in))
	for _, row := range in {
		p, err := validatePart(row)
		if err != nil {
			return nil, err
		}
		// Repeated names within one file are merged before the upsert.
		key := strings.ToLower(p.Name)
		if i, ok := seen[key]; ok {
			parts[i].Quantity += p.Quantity
			parts[i].Price = p.Price
			continue
		}
		seen[key] = len(parts)
		parts = append(parts, *p)
	}
	out, err := s.repo.ImportParts(ctx, parts)
	if err != nil {
		return nil, internal(err)
	}
	return out, nil
}

func validatePart(in PartInput) (*models.Part, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("Tên phụ tùng không được để trống")
	}
	if in.Quantity < 0 || in.MinStock < 0 || in.Price.IsNegative() {
		return nil, apperr.Validation("Số lượng, giá và mức tồn tối thiểu không được âm")
	}
	return &models.Part{Name: name, Quantity: in.Quantity, Price: in.Price, MinStock: in.MinStock}, nil
}

// Cache helpers. A failed read counts as a miss and a failed write is logged.

func (s *catalogService) cached(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	return s.cache.GetCache(ctx, key, dest) == nil
}

func (s *catalogService) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	if err := s.cache.SetCache(ctx, key, value, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (s *catalogService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteCache(ctx, keys...); err != nil {
		s.log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

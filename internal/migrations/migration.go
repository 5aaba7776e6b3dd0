package migrations

import (
	"context"
	"io"
	"os"
	"strings"

	"garage_manager/internal/auth"
	"garage_manager/internal/database"
	"garage_manager/internal/models"
	"garage_manager/internal/repository"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type AdminSeed struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	FullName string `yaml:"full_name"`
	Phone    string `yaml:"phone"`
}

// Seed is the YAML document loaded by init-db.
type Seed struct {
	Admin     AdminSeed `yaml:"admin"`
	CarModels []struct {
		Brand string `yaml:"brand"`
		Model string `yaml:"model"`
	} `yaml:"car_models"`
	Services []struct {
		Name        string  `yaml:"name"`
		Description string  `yaml:"description"`
		Price       float64 `yaml:"price"`
	} `yaml:"services"`
	Parts []struct {
		Name     string  `yaml:"name"`
		Quantity int     `yaml:"quantity"`
		Price    float64 `yaml:"price"`
		MinStock int     `yaml:"min_stock"`
	} `yaml:"parts"`
}

type Options struct {
	// Drop recreates every table. Development only.
	Drop     bool
	Admin    AdminSeed
	SeedFile string
}

func ParseSeed(r io.Reader) (*Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode seed")
	}
	for i, m := range s.CarModels {
		if strings.TrimSpace(m.Brand) == "" || strings.TrimSpace(m.Model) == "" {
			return nil, errors.Errorf("car_models[%d]: brand and model are required", i)
		}
	}
	for i, p := range s.Parts {
		if strings.TrimSpace(p.Name) == "" || p.Quantity < 0 || p.Price < 0 || p.MinStock < 0 {
			return nil, errors.Errorf("parts[%d]: invalid row", i)
		}
	}
	return &s, nil
}

// RunMigrations migrates the schema, makes sure an admin exists and loads the
// optional catalog seed. Seeding is idempotent.
func RunMigrations(ctx context.Context, db *gorm.DB, opts Options, log zerolog.Logger) error {
	log.Info().Msg("running database migrations")

	if opts.Drop {
		log.Warn().Msg("dropping existing tables")
		if err := db.Migrator().DropTable(reverse(database.Models())...); err != nil {
			return errors.Wrap(err, "drop tables")
		}
	}
	if err := database.AutoMigrate(db); err != nil {
		return errors.Wrap(err, "auto migrate")
	}

	seed := &Seed{}
	if opts.SeedFile != "" {
		f, err := os.Open(opts.SeedFile)
		if err != nil {
			return errors.Wrap(err, "open seed file")
		}
		defer f.Close()
		if seed, err = ParseSeed(f); err != nil {
			return err
		}
	}
	admin := opts.Admin
	if seed.Admin.Username != "" {
		admin = seed.Admin
	}

	if err := createAdmin(ctx, repository.NewUserRepository(db), admin, log); err != nil {
		return err
	}
	if err := loadCatalog(ctx, db, seed); err != nil {
		return err
	}

	log.Info().
		Int("car_models", len(seed.CarModels)).
		Int("services", len(seed.Services)).
		Int("parts", len(seed.Parts)).
		Msg("database migrations completed")
	return nil
}

func createAdmin(ctx context.Context, users repository.UserRepository, admin AdminSeed, log zerolog.Logger) error {
	if admin.Username == "" {
		return nil
	}
	if _, err := users.GetByUsername(ctx, admin.Username); err == nil {
		log.Info().Str("username", admin.Username).Msg("admin user already exists")
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return err
	}
	fullName := admin.FullName
	if fullName == "" {
		fullName = "Quản trị viên"
	}
	u := &models.User{
		Username:     admin.Username,
		PasswordHash: hash,
		FullName:     fullName,
		Phone:        admin.Phone,
		Role:         string(models.RoleAdmin),
	}
	if err := users.Create(ctx, u); err != nil {
		return errors.Wrap(err, "create admin")
	}
	log.Info().Str("username", u.Username).Uint("id", u.ID).Msg("admin user created")
	return nil
}

func loadCatalog(ctx context.Context, db *gorm.DB, seed *Seed) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range seed.CarModels {
			row := models.CarModel{Brand: strings.TrimSpace(m.Brand), Model: strings.TrimSpace(m.Model)}
			if err := tx.Where(&row).FirstOrCreate(&row).Error; err != nil {
				return errors.Wrapf(err, "seed car model %s/%s", m.Brand, m.Model)
			}
		}
		for _, s := range seed.Services {
			row := models.Service{Name: strings.TrimSpace(s.Name)}
			attrs := models.Service{Price: decimal.NewFromFloat(s.Price)}
			if s.Description != "" {
				attrs.Description = &s.Description
			}
			if err := tx.Where(&row).Attrs(attrs).FirstOrCreate(&row).Error; err != nil {
				return errors.Wrapf(err, "seed service %s", s.Name)
			}
		}
		for _, p := range seed.Parts {
			row := models.Part{Name: strings.TrimSpace(p.Name)}
			attrs := models.Part{Quantity: p.Quantity, Price: decimal.NewFromFloat(p.Price), MinStock: p.MinStock}
			if err := tx.Where(&row).Attrs(attrs).FirstOrCreate(&row).Error; err != nil {
				return errors.Wrapf(err, "seed part %s", p.Name)
			}
		}
		return nil
	})
}

// reverse orders models children first so drops respect foreign keys.
func reverse(in []interface{}) []interface{} {
	out := make([]interface{}, len(in))
	for i, m := range in {
		out[len(in)-1-i] = m
	}
	return out
}

package repository

import (
	"context"

	"garage_manager/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type TicketItemRepository interface {
	AddService(ctx context.Context, item *models.ServiceItem) (*models.Ticket, error)
	AddPart(ctx context.Context, item *models.PartItem) (*models.Ticket, error)
	ListByTicket(ctx context.Context, ticketID uint) ([]models.ServiceItem, []models.PartItem, error)
}

type ticketItemRepository struct {
	db *gorm.DB
}

func NewTicketItemRepository(db *gorm.DB) TicketItemRepository {
	return &ticketItemRepository{db: db}
}

func (r *ticketItemRepository) AddService(ctx context.Context, item *models.ServiceItem) (*models.Ticket, error) {
	return r.addItem(ctx, item.TicketID, item)
}

func (r *ticketItemRepository) AddPart(ctx context.Context, item *models.PartItem) (*models.Ticket, error) {
	return r.addItem(ctx, item.TicketID, item)
}

// addItem inserts a line item and stores the recomputed total while holding
// the ticket row lock, so concurrent adds on one ticket serialize.
func (r *ticketItemRepository) addItem(ctx context.Context, ticketID uint, item interface{}) (*models.Ticket, error) {
	var ticket *models.Ticket
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := lockTicket(tx, ticketID)
		if err != nil {
			return err
		}
		if err := tx.Create(item).Error; err != nil {
			return errors.Wrap(err, "insert line item")
		}
		if err := computeTotal(tx, t); err != nil {
			return err
		}
		if err := tx.Model(t).Update("total", t.Total).Error; err != nil {
			return errors.Wrap(err, "update ticket total")
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, wrap(err)
	}
	return ticket, nil
}

func (r *ticketItemRepository) ListByTicket(ctx context.Context, ticketID uint) ([]models.ServiceItem, []models.PartItem, error) {
	var services []models.ServiceItem
	err := r.db.WithContext(ctx).
		Table("service_items si").
		Select("si.*, s.name AS service_name").
		Joins("LEFT JOIN services s ON s.id = si.service_id").
		Where("si.ticket_id = ?", ticketID).
		Order("si.id").
		Scan(&services).Error
	if err != nil {
		return nil, nil, wrap(err)
	}

	var parts []models.PartItem
	err = r.db.WithContext(ctx).
		Table("part_items pi").
		Select("pi.*, p.name AS part_name").
		Joins("LEFT JOIN parts p ON p.id = pi.part_id").
		Where("pi.ticket_id = ?", ticketID).
		Order("pi.id").
		Scan(&parts).Error
	if err != nil {
		return nil, nil, wrap(err)
	}
	return services, parts, nil
}

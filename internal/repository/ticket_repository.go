package repository

import (
	"context"
	"time"

	"garage_manager/internal/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TicketChanges holds the fields a ticket update overwrites.
type TicketChanges struct {
	RepairStaffID  uint
	CompletionTime *time.Time
	LaborPrice     decimal.Decimal
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *models.Ticket, opening *models.StatusEvent) error
	GetByID(ctx context.Context, id uint) (*models.Ticket, error)
	GetView(ctx context.Context, id uint) (*models.TicketView, error)
	List(ctx context.Context) ([]models.TicketView, error)
	Update(ctx context.Context, id uint, changes TicketChanges) (*models.Ticket, error)
	SetStatus(ctx context.Context, id uint, status, actor string, at time.Time) (*models.StatusEvent, error)
	History(ctx context.Context, id uint) ([]models.StatusEvent, error)
}

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketViewColumns = `t.id, t.plate, t.intake_time, t.completion_time, t.labor_price, t.total,
	t.payment_status, v.makh AS owner_id, o.full_name AS owner_name, o.phone AS owner_phone,
	t.intake_staff_id, si.full_name AS intake_staff_name,
	t.repair_staff_id, sr.full_name AS repair_staff_name`

func (r *ticketRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("tickets t").
		Select(ticketViewColumns).
		Joins("LEFT JOIN vehicles v ON v.bienso = t.plate").
		Joins("LEFT JOIN users o ON o.id = v.makh").
		Joins("LEFT JOIN users si ON si.id = t.intake_staff_id").
		Joins("LEFT JOIN users sr ON sr.id = t.repair_staff_id")
}

// Create inserts the ticket. A non-nil opening event is written in the same
// transaction so a ticket born with a non-default status has its history.
func (r *ticketRepository) Create(ctx context.Context, ticket *models.Ticket, opening *models.StatusEvent) error {
	return wrap(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ticket).Error; err != nil {
			return err
		}
		if opening == nil {
			return nil
		}
		opening.TicketID = ticket.ID
		return tx.Create(opening).Error
	}))
}

func (r *ticketRepository) GetByID(ctx context.Context, id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.WithContext(ctx).First(&ticket, id).Error; err != nil {
		return nil, wrap(err)
	}
	return &ticket, nil
}

func (r *ticketRepository) GetView(ctx context.Context, id uint) (*models.TicketView, error) {
	var views []models.TicketView
	if err := r.viewQuery(ctx).Where("t.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, wrap(err)
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

func (r *ticketRepository) List(ctx context.Context) ([]models.TicketView, error) {
	var views []models.TicketView
	err := r.viewQuery(ctx).Order("t.id DESC").Scan(&views).Error
	return views, wrap(err)
}

// Update overwrites the editable fields and recomputes the total under the
// ticket row lock.
func (r *ticketRepository) Update(ctx context.Context, id uint, changes TicketChanges) (*models.Ticket, error) {
	var ticket *models.Ticket
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := lockTicket(tx, id)
		if err != nil {
			return err
		}
		t.RepairStaffID = changes.RepairStaffID
		t.CompletionTime = changes.CompletionTime
		t.LaborPrice = changes.LaborPrice
		if err := computeTotal(tx, t); err != nil {
			return err
		}
		err = tx.Model(t).Updates(map[string]interface{}{
			"repair_staff_id": t.RepairStaffID,
			"completion_time": t.CompletionTime,
			"labor_price":     t.LaborPrice,
			"total":           t.Total,
		}).Error
		if err != nil {
			return errors.Wrap(err, "update ticket")
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, wrap(err)
	}
	return ticket, nil
}

// SetStatus writes the status column and appends the matching event in one
// transaction. Event times never go backwards for a ticket: when the clock
// reads earlier than the latest event, the latest event's time is reused.
func (r *ticketRepository) SetStatus(ctx context.Context, id uint, status, actor string, at time.Time) (*models.StatusEvent, error) {
	event := &models.StatusEvent{TicketID: id, Status: status, Actor: actor, CreatedAt: at}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := lockTicket(tx, id)
		if err != nil {
			return err
		}

		var latest []models.StatusEvent
		if err := tx.Where("ticket_id = ?", id).Order("created_at DESC, id DESC").Limit(1).Find(&latest).Error; err != nil {
			return errors.Wrap(err, "load latest status event")
		}
		if len(latest) > 0 && latest[0].CreatedAt.After(event.CreatedAt) {
			event.CreatedAt = latest[0].CreatedAt
		}

		if err := tx.Model(t).Update("payment_status", status).Error; err != nil {
			return errors.Wrap(err, "update ticket status")
		}
		if err := tx.Create(event).Error; err != nil {
			return errors.Wrap(err, "append status event")
		}
		return nil
	})
	if err != nil {
		return nil, wrap(err)
	}
	return event, nil
}

func (r *ticketRepository) History(ctx context.Context, id uint) ([]models.StatusEvent, error) {
	var events []models.StatusEvent
	err := r.db.WithContext(ctx).Where("ticket_id = ?", id).Order("created_at, id").Find(&events).Error
	return events, wrap(err)
}

func lockTicket(tx *gorm.DB, id uint) (*models.Ticket, error) {
	var t models.Ticket
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "lock ticket")
	}
	return &t, nil
}

// computeTotal reloads every line item of t and applies models.Ticket.Recompute.
func computeTotal(tx *gorm.DB, t *models.Ticket) error {
	var services []models.ServiceItem
	if err := tx.Where("ticket_id = ?", t.ID).Find(&services).Error; err != nil {
		return errors.Wrap(err, "load service items")
	}
	var parts []models.PartItem
	if err := tx.Where("ticket_id = ?", t.ID).Find(&parts).Error; err != nil {
		return errors.Wrap(err, "load part items")
	}
	t.Recompute(services, parts)
	return nil
}

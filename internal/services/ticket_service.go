package services

import (
	"context"
	"strings"
	"time"

	"garage_manager/internal/apperr"
	"garage_manager/internal/models"
	"garage_manager/internal/mq"
	"garage_manager/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type CreateTicketInput struct {
	Plate         string     `json:"plate"`
	IntakeStaffID uint       `json:"intake_staff"`
	RepairStaffID uint       `json:"repair_staff"`
	IntakeTime    *time.Time `json:"intake_time"`
	PaymentStatus string     `json:"payment_status"`
	Actor         string     `json:"actor"`
}

type UpdateTicketInput struct {
	RepairStaffID  uint            `json:"repair_staff"`
	CompletionTime *time.Time      `json:"completion_time"`
	LaborPrice     decimal.Decimal `json:"labor_price"`
}

type AddServiceItemInput struct {
	ServiceID uint             `json:"service_id"`
	Note      string           `json:"note"`
	Price     *decimal.Decimal `json:"price"`
}

type AddPartItemInput struct {
	PartID   uint             `json:"part_id"`
	Quantity int              `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
}

type SetStatusInput struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
}

// StatusPolicy is the configured allow-list for ticket statuses. Statuses[0]
// is the default for new tickets and Statuses[1], when present, is the paid
// status. In strict mode unknown statuses are rejected instead of logged.
type StatusPolicy struct {
	Statuses []string
	Strict   bool
}

func (p StatusPolicy) initial() string {
	if len(p.Statuses) > 0 {
		return p.Statuses[0]
	}
	return models.StatusUnpaid
}

func (p StatusPolicy) paid() string {
	if len(p.Statuses) > 1 {
		return p.Statuses[1]
	}
	return models.StatusPaid
}

func (p StatusPolicy) known(status string) bool {
	for _, s := range p.Statuses {
		if s == status {
			return true
		}
	}
	return len(p.Statuses) == 0
}

type TicketService interface {
	Create(ctx context.Context, in CreateTicketInput) (*models.Ticket, error)
	List(ctx context.Context) ([]models.TicketView, error)
	Get(ctx context.Context, id uint) (*models.TicketView, error)
	Update(ctx context.Context, id uint, in UpdateTicketInput) (*models.TicketView, error)
	AddServiceItem(ctx context.Context, ticketID uint, in AddServiceItemInput) (*models.Ticket, error)
	AddPartItem(ctx context.Context, ticketID uint, in AddPartItemInput) (*models.Ticket, error)
	SetStatus(ctx context.Context, ticketID uint, in SetStatusInput, caller string) (*models.StatusEvent, error)
	Items(ctx context.Context, ticketID uint) (*models.TicketItems, error)
	History(ctx context.Context, ticketID uint) ([]models.StatusEvent, error)
}

type TicketDeps struct {
	Tickets   repository.TicketRepository
	Items     repository.TicketItemRepository
	Vehicles  repository.VehicleRepository
	Users     repository.UserRepository
	Catalog   repository.CatalogRepository
	Publisher mq.Publisher
	Notifier  Notifier
}

type ticketService struct {
	tickets   repository.TicketRepository
	items     repository.TicketItemRepository
	vehicles  repository.VehicleRepository
	users     repository.UserRepository
	catalog   repository.CatalogRepository
	publisher mq.Publisher
	notifier  Notifier
	statuses  StatusPolicy
	loc       *time.Location
	log       zerolog.Logger
	now       func() time.Time
	async     bool
}

func NewTicketService(deps TicketDeps, statuses StatusPolicy, loc *time.Location, log zerolog.Logger) TicketService {
	if loc == nil {
		loc = time.Local
	}
	return &ticketService{
		tickets:   deps.Tickets,
		items:     deps.Items,
		vehicles:  deps.Vehicles,
		users:     deps.Users,
		catalog:   deps.Catalog,
		publisher: deps.Publisher,
		notifier:  deps.Notifier,
		statuses:  statuses,
		loc:       loc,
		log:       log,
		now:       time.Now,
		async:     true,
	}
}

const msgTicketNotFound = "Không tìm thấy phiếu"

func (s *ticketService) Create(ctx context.Context, in CreateTicketInput) (*models.Ticket, error) {
	// Lower-case input is accepted; ValidPlate sees the upper-cased form.
	plate := NormalizePlate(in.Plate)
	if plate == "" || in.IntakeStaffID == 0 || in.RepairStaffID == 0 {
		return nil, apperr.Validation("Thiếu thông tin bắt buộc")
	}
	if !ValidPlate(plate) {
		return nil, apperr.Validation("Biển số xe không hợp lệ")
	}
	status := strings.TrimSpace(in.PaymentStatus)
	if status == "" {
		status = s.statuses.initial()
	}
	if err := s.checkStatus(status); err != nil {
		return nil, err
	}

	if _, err := s.vehicles.GetByPlate(ctx, plate); err != nil {
		return nil, fromRepo(err, "Không tìm thấy xe")
	}
	if err := s.checkStaff(ctx, in.IntakeStaffID); err != nil {
		return nil, err
	}
	if err := s.checkStaff(ctx, in.RepairStaffID); err != nil {
		return nil, err
	}

	intake := s.now()
	if in.IntakeTime != nil {
		intake = *in.IntakeTime
	}
	ticket := &models.Ticket{
		Plate:         plate,
		IntakeStaffID: in.IntakeStaffID,
		RepairStaffID: in.RepairStaffID,
		IntakeTime:    intake,
		LaborPrice:    decimal.Zero,
		Total:         decimal.Zero,
		PaymentStatus: status,
	}
	// A ticket opened in any status other than the initial one starts its
	// history with that status.
	var opening *models.StatusEvent
	if status != s.statuses.initial() {
		actor := strings.TrimSpace(in.Actor)
		if actor == "" {
			actor = models.UnknownActor
		}
		opening = &models.StatusEvent{Status: status, Actor: actor, CreatedAt: s.now()}
	}
	if err := s.tickets.Create(ctx, ticket, opening); err != nil {
		return nil, apperr.Internal("Không thể tạo phiếu sửa chữa", err)
	}

	s.publish(ctx, mq.TicketCreated, ticket)
	return ticket, nil
}

func (s *ticketService) List(ctx context.Context) ([]models.TicketView, error) {
	views, err := s.tickets.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Không thể lấy danh sách phiếu", err)
	}
	return views, nil
}

func (s *ticketService) Get(ctx context.Context, id uint) (*models.TicketView, error) {
	view, err := s.tickets.GetView(ctx, id)
	if err != nil {
		return nil, fromRepo(err, msgTicketNotFound)
	}
	return view, nil
}

func (s *ticketService) Update(ctx context.Context, id uint, in UpdateTicketInput) (*models.TicketView, error) {
	if in.RepairStaffID == 0 {
		return nil, apperr.Validation("Thiếu nhân viên sửa chữa")
	}
	if in.LaborPrice.IsNegative() {
		return nil, apperr.Validation("Tiền công không được âm")
	}

	current, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, msgTicketNotFound)
	}
	if in.CompletionTime != nil && in.CompletionTime.Before(current.IntakeTime) {
		return nil, apperr.Validation("Thời gian hoàn thành phải sau thời gian tiếp nhận")
	}
	if err := s.checkStaff(ctx, in.RepairStaffID); err != nil {
		return nil, err
	}

	updated, err := s.tickets.Update(ctx, id, repository.TicketChanges{
		RepairStaffID:  in.RepairStaffID,
		CompletionTime: in.CompletionTime,
		LaborPrice:     in.LaborPrice,
	})
	if err != nil {
		return nil, fromRepo(err, msgTicketNotFound)
	}
	s.publish(ctx, mq.TicketUpdated, updated)

	view, err := s.tickets.GetView(ctx, id)
	if err != nil {
		return nil, fromRepo(err, msgTicketNotFound)
	}
	if current.CompletionTime == nil && view.CompletionTime != nil {
		s.notify(ctx, view, repairFinishedMessage(view, s.loc))
	}
	return view, nil
}

func (s *ticketService) AddServiceItem(ctx context.Context, ticketID uint, in AddServiceItemInput) (*models.Ticket, error) {
	if in.ServiceID == 0 {
		return nil, apperr.Validation("Thiếu dịch vụ")
	}
	price, err := linePrice(in.Price)
	if err != nil {
		return nil, err
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, fromRepo(err, msgTicketNotFound)
	}
	if _, err := s.catalog.GetService(ctx, in.ServiceID); err != nil {
		return nil, fromRepo(err, "Không tìm thấy dịch vụ")
	}

	ticket, err := s.items.AddService(ctx, &models.ServiceItem{
		TicketID:  ticketID,
		ServiceID: in.ServiceID,
		Note:      strings.TrimSpace(in.Note),
		Price:     price,
	})
	if err != nil {
		return nil, fromRepo(err, msgTicketNotFound)
	}
	s.publish(ctx, mq.TicketItemAdded, ticket)
	return ticket, nil
}

func (s *ticketService) AddPartItem(ctx context.Context, ticketID uint, in AddPartItemInput) (*models.Ticket, error) {
	if in.PartID == 0 {
		return nil, apperr.Validation("Thiếu phụ tùng")
	}
	if in.Quantity < 1 {
		return nil, apperr.Validation("Số lượng phải lớn hơn 0")
	}
	price, err := linePrice(in.Price)
	if err != nil {
		return nil, err
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, fromRepo(err, msgTicketNotFound)
	}
	if _, err := s.catalog.GetPart(ctx, in.PartID); err != nil {
		return nil, fromRepo(err, "Không tìm thấy phụ tùng")
	}

	ticket, err := s.items.AddPart(ctx, &models.PartItem{
		TicketID: ticketID,
		PartID:   in.PartID,
		Quantity: in.Quantity,
		Price:    price,
	})
	if err != nil {
		return nil, fromRepo(err, msgTicketNotFound)
	}
	s.publish(ctx, mq.TicketItemAdded, ticket)
	return ticket, nil
}

func (s *ticketService) SetStatus(ctx context.Context, ticketID uint, in SetStatusInput, caller string) (*models.StatusEvent, error) {
	status := strings.TrimSpace(in.Status)
	if status == "" {
		return nil, apperr.Validation("Thiếu trạng thái")
	}
	if err := s.checkStatus(status); err != nil {
		return nil, err
	}
	actor := strings.TrimSpace(in.Actor)
	if actor == "" {
		actor = strings.TrimSpace(caller)
	}
	if actor == "" {
		actor = models.UnknownActor
	}

	event, err := s.tickets.SetStatus(ctx, ticketID, status, actor, s.now())
	if err != nil {
		return nil, fromRepo(err, msgTicketNotFound)
	}

	view, err := s.tickets.GetView(ctx, ticketID)
	if err != nil {
		s.log.Warn().Err(err).Uint("ticket_id", ticketID).Msg("reload ticket after status change")
		return event, nil
	}
	s.publishEvent(ctx, mq.TicketStatusChanged, mq.TicketEvent{
		TicketID:   ticketID,
		Plate:      view.Plate,
		Status:     status,
		Actor:      actor,
		Total:      view.Total,
		OccurredAt: event.CreatedAt,
	})
	if status == s.statuses.paid() {
		s.notify(ctx, view, paidMessage(view))
	}
	return event, nil
}

func (s *ticketService) Items(ctx context.Context, ticketID uint) (*models.TicketItems, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, fromRepo(err, msgTicketNotFound)
	}
	services, parts, err := s.items.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, internal(err)
	}
	if services == nil {
		services = []models.ServiceItem{}
	}
	if parts == nil {
		parts = []models.PartItem{}
	}
	return &models.TicketItems{
		TicketID: ticketID,
		Services: services,
		Parts:    parts,
		Labor:    ticket.LaborPrice,
		Total:    ticket.Total,
	}, nil
}

func (s *ticketService) History(ctx context.Context, ticketID uint) ([]models.StatusEvent, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, fromRepo(err, msgTicketNotFound)
	}
	events, err := s.tickets.History(ctx, ticketID)
	if err != nil {
		return nil, internal(err)
	}
	if events == nil {
		events = []models.StatusEvent{}
	}
	return events, nil
}

func (s *ticketService) checkStatus(status string) error {
	if s.statuses.known(status) {
		return nil
	}
	if s.statuses.Strict {
		return apperr.Validation("Trạng thái không hợp lệ")
	}
	s.log.Warn().Str("status", status).Msg("ticket status outside the configured list")
	return nil
}

func (s *ticketService) checkStaff(ctx context.Context, id uint) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fromRepo(err, "Không tìm thấy nhân viên")
	}
	if !user.IsEmployee() {
		return apperr.Validation("Người dùng không phải nhân viên")
	}
	return nil
}

func linePrice(p *decimal.Decimal) (decimal.Decimal, error) {
	if p == nil {
		return decimal.Zero, nil
	}
	if p.IsNegative() {
		return decimal.Zero, apperr.Validation("Giá không được âm")
	}
	return *p, nil
}

func (s *ticketService) publish(ctx context.Context, key string, t *models.Ticket) {
	s.publishEvent(ctx, key, mq.TicketEvent{
		TicketID:   t.ID,
		Plate:      t.Plate,
		Status:     t.PaymentStatus,
		Total:      t.Total,
		OccurredAt: s.now(),
	})
}

// publishEvent is best effort: the write has already committed.
func (s *ticketService) publishEvent(ctx context.Context, key string, ev mq.TicketEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, key, ev); err != nil {
		s.log.Error().Err(err).Str("routing_key", key).Uint("ticket_id", ev.TicketID).Msg("publish ticket event failed")
	}
}

// notify messages the vehicle owner without holding up the request.
func (s *ticketService) notify(ctx context.Context, view *models.TicketView, message string) {
	if s.notifier == nil || view.OwnerPhone == nil || *view.OwnerPhone == "" {
		return
	}
	phone := *view.OwnerPhone
	send := func(ctx context.Context) {
		if err := s.notifier.Notify(ctx, phone, message); err != nil {
			s.log.Warn().Err(err).Uint("ticket_id", view.ID).Msg("customer notification failed")
		}
	}
	if !s.async {
		send(ctx)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		send(ctx)
	}()
}

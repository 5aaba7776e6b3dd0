package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"garage_manager/internal/models"
	"garage_manager/internal/repository"
)

// memDB backs every fake repository so services see one consistent store.
type memDB struct {
	mu           sync.Mutex
	nextID       uint
	users        map[uint]*models.User
	vehicles     map[string]*models.Vehicle
	carModels    map[uint]*models.CarModel
	services     map[uint]*models.Service
	parts        map[uint]*models.Part
	tickets      map[uint]*models.Ticket
	serviceItems []models.ServiceItem
	partItems    []models.PartItem
	events       []models.StatusEvent
	appointments map[uint]*models.Appointment
}

func newMemDB() *memDB {
	return &memDB{
		nextID:       100,
		users:        map[uint]*models.User{},
		vehicles:     map[string]*models.Vehicle{},
		carModels:    map[uint]*models.CarModel{},
		services:     map[uint]*models.Service{},
		parts:        map[uint]*models.Part{},
		tickets:      map[uint]*models.Ticket{},
		appointments: map[uint]*models.Appointment{},
	}
}

func (db *memDB) id() uint {
	db.nextID++
	return db.nextID
}

// seeding helpers

func (db *memDB) addUser(id uint, username, phone string, role models.UserRole) *models.User {
	u := &models.User{ID: id, Username: username, FullName: strings.ToUpper(username), Phone: phone, Role: string(role)}
	db.users[id] = u
	return u
}

func (db *memDB) addCarModel(id uint, brand, model string) {
	db.carModels[id] = &models.CarModel{ID: id, Brand: brand, Model: model}
}

// users

type fakeUsers struct{ db *memDB }

func (f fakeUsers) Create(_ context.Context, u *models.User) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.users {
		if existing.Username == u.Username || existing.Phone == u.Phone {
			return repository.ErrDuplicate
		}
	}
	u.ID = f.db.id()
	cp := *u
	f.db.users[u.ID] = &cp
	return nil
}

func (f fakeUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f fakeUsers) FindCustomerByPhone(_ context.Context, phone string) (*models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if u.Phone == phone && u.Role == string(models.RoleCustomer) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f fakeUsers) UsernameTaken(_ context.Context, username string, excludeID uint) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeUsers) PhoneTaken(_ context.Context, phone string, excludeID uint) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if u.Phone == phone && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeUsers) ListByRole(_ context.Context, role string) ([]models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.User
	for _, u := range f.db.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeUsers) UpdateFields(_ context.Context, id uint, role string, fields map[string]interface{}) (*models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok || u.Role != role {
		return nil, repository.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "username":
			u.Username = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "full_name":
			u.FullName = v.(string)
		case "password":
			u.PasswordHash = v.(string)
		case "note":
			u.Note = strPtr(v)
		case "chucvu":
			u.Position = strPtr(v)
		}
	}
	cp := *u
	return &cp, nil
}

func strPtr(v interface{}) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func (f fakeUsers) UpdatePassword(_ context.Context, id uint, hash string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f fakeUsers) Delete(_ context.Context, id uint) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.db.users, id)
	return nil
}

// vehicles

type fakeVehicles struct{ db *memDB }

func (f fakeVehicles) view(v *models.Vehicle) models.VehicleView {
	out := models.VehicleView{Vehicle: *v}
	if u, ok := f.db.users[v.OwnerID]; ok {
		out.FullName, out.Phone = u.FullName, u.Phone
	}
	if m, ok := f.db.carModels[v.ModelID]; ok {
		out.Brand, out.Model = m.Brand, m.Model
	}
	return out
}

func (f fakeVehicles) List(_ context.Context) ([]models.VehicleView, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.VehicleView
	for _, v := range f.db.vehicles {
		out = append(out, f.view(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plate < out[j].Plate })
	return out, nil
}

func (f fakeVehicles) GetView(_ context.Context, plate string) (*models.VehicleView, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	v, ok := f.db.vehicles[plate]
	if !ok {
		return nil, repository.ErrNotFound
	}
	view := f.view(v)
	return &view, nil
}

func (f fakeVehicles) GetByPlate(_ context.Context, plate string) (*models.Vehicle, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	v, ok := f.db.vehicles[plate]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f fakeVehicles) Exists(_ context.Context, plate string) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	_, ok := f.db.vehicles[plate]
	return ok, nil
}

func (f fakeVehicles) Create(_ context.Context, v *models.Vehicle) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.vehicles[v.Plate]; ok {
		return repository.ErrDuplicate
	}
	cp := *v
	f.db.vehicles[v.Plate] = &cp
	return nil
}

func (f fakeVehicles) Update(_ context.Context, plate string, v *models.Vehicle) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.vehicles[plate]; !ok {
		return repository.ErrNotFound
	}
	delete(f.db.vehicles, plate)
	cp := *v
	f.db.vehicles[v.Plate] = &cp
	for _, t := range f.db.tickets {
		if t.Plate == plate {
			t.Plate = v.Plate
		}
	}
	return nil
}

func (f fakeVehicles) Delete(_ context.Context, plate string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.vehicles[plate]; !ok {
		return repository.ErrNotFound
	}
	delete(f.db.vehicles, plate)
	return nil
}

// catalog

type fakeCatalog struct{ db *memDB }

func (f fakeCatalog) ListCarModels(_ context.Context) ([]models.CarModel, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.CarModel
	for _, m := range f.db.carModels {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f fakeCatalog) GetCarModel(_ context.Context, id uint) (*models.CarModel, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	m, ok := f.db.carModels[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f fakeCatalog) FindCarModel(_ context.Context, brand, model string) (*models.CarModel, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, m := range f.db.carModels {
		if strings.EqualFold(m.Brand, brand) && strings.EqualFold(m.Model, model) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f fakeCatalog) CarModelTaken(_ context.Context, brand, model string, excludeID uint) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, m := range f.db.carModels {
		if m.Brand == brand && m.Model == model && m.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeCatalog) CreateCarModel(_ context.Context, m *models.CarModel) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	m.ID = f.db.id()
	cp := *m
	f.db.carModels[m.ID] = &cp
	return nil
}

func (f fakeCatalog) UpdateCarModel(_ context.Context, m *models.CarModel) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.carModels[m.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *m
	f.db.carModels[m.ID] = &cp
	return nil
}

func (f fakeCatalog) DeleteCarModel(_ context.Context, id uint) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.carModels[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.db.carModels, id)
	return nil
}

func (f fakeCatalog) ListServices(_ context.Context) ([]models.Service, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Service
	for _, s := range f.db.services {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeCatalog) SearchServices(ctx context.Context, term string, limit int) ([]models.Service, error) {
	all, _ := f.ListServices(ctx)
	var out []models.Service
	for _, s := range all {
		if strings.Contains(strings.ToLower(s.Name), strings.ToLower(term)) && len(out) < limit {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f fakeCatalog) GetService(_ context.Context, id uint) (*models.Service, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	s, ok := f.db.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f fakeCatalog) CreateService(_ context.Context, s *models.Service) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	s.ID = f.db.id()
	cp := *s
	f.db.services[s.ID] = &cp
	return nil
}

func (f fakeCatalog) UpdateService(ctx context.Context, id uint, fields map[string]interface{}) (*models.Service, error) {
	f.db.mu.Lock()
	s, ok := f.db.services[id]
	if !ok {
		f.db.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	if v, ok := fields["name"].(string); ok {
		s.Name = v
	}
	f.db.mu.Unlock()
	return f.GetService(ctx, id)
}

func (f fakeCatalog) DeleteService(_ context.Context, id uint) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.services[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.db.services, id)
	return nil
}

func (f fakeCatalog) ListParts(_ context.Context) ([]models.Part, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Part
	for _, p := range f.db.parts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeCatalog) ListLowStockParts(ctx context.Context) ([]models.Part, error) {
	all, _ := f.ListParts(ctx)
	var out []models.Part
	for _, p := range all {
		if p.LowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f fakeCatalog) GetPart(_ context.Context, id uint) (*models.Part, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.parts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f fakeCatalog) PartNameTaken(_ context.Context, name string, excludeID uint) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, p := range f.db.parts {
		if strings.EqualFold(p.Name, name) && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeCatalog) CreatePart(_ context.Context, p *models.Part) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p.ID = f.db.id()
	cp := *p
	f.db.parts[p.ID] = &cp
	return nil
}

func (f fakeCatalog) UpdatePart(ctx context.Context, id uint, fields map[string]interface{}) (*models.Part, error) {
	f.db.mu.Lock()
	p, ok := f.db.parts[id]
	if !ok {
		f.db.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	if v, ok := fields["name"].(string); ok {
		p.Name = v
	}
	if v, ok := fields["quantity"].(int); ok {
		p.Quantity = v
	}
	if v, ok := fields["min_stock"].(int); ok {
		p.MinStock = v
	}
	f.db.mu.Unlock()
	return f.GetPart(ctx, id)
}

func (f fakeCatalog) DeletePart(_ context.Context, id uint) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.parts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.db.parts, id)
	return nil
}

func (f fakeCatalog) AddStock(ctx context.Context, id uint, quantity int) (*models.Part, error) {
	f.db.mu.Lock()
	p, ok := f.db.parts[id]
	if !ok {
		f.db.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	p.Quantity += quantity
	f.db.mu.Unlock()
	return f.GetPart(ctx, id)
}

func (f fakeCatalog) ImportParts(_ context.Context, parts []models.Part) ([]models.Part, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Part
	for _, in := range parts {
		var found *models.Part
		for _, p := range f.db.parts {
			if strings.EqualFold(p.Name, in.Name) {
				found = p
			}
		}
		if found != nil {
			found.Quantity += in.Quantity
			found.Price = in.Price
			out = append(out, *found)
			continue
		}
		p := in
		p.ID = f.db.id()
		cp := p
		f.db.parts[p.ID] = &cp
		out = append(out, p)
	}
	return out, nil
}

// tickets

type fakeTickets struct{ db *memDB }

func (f fakeTickets) Create(_ context.Context, t *models.Ticket, opening *models.StatusEvent) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t.ID = f.db.id()
	cp := *t
	f.db.tickets[t.ID] = &cp
	if opening != nil {
		opening.ID = f.db.id()
		opening.TicketID = t.ID
		f.db.events = append(f.db.events, *opening)
	}
	return nil
}

func (f fakeTickets) GetByID(_ context.Context, id uint) (*models.Ticket, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f fakeTickets) view(t *models.Ticket) models.TicketView {
	v := models.TicketView{
		ID:             t.ID,
		Plate:          t.Plate,
		IntakeTime:     t.IntakeTime,
		CompletionTime: t.CompletionTime,
		LaborPrice:     t.LaborPrice,
		Total:          t.Total,
		PaymentStatus:  t.PaymentStatus,
		IntakeStaffID:  t.IntakeStaffID,
		RepairStaffID:  t.RepairStaffID,
	}
	if veh, ok := f.db.vehicles[t.Plate]; ok {
		if owner, ok := f.db.users[veh.OwnerID]; ok {
			id, name, phone := owner.ID, owner.FullName, owner.Phone
			v.OwnerID, v.OwnerName, v.OwnerPhone = &id, &name, &phone
		}
	}
	return v
}

func (f fakeTickets) GetView(_ context.Context, id uint) (*models.TicketView, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v := f.view(t)
	return &v, nil
}

func (f fakeTickets) List(_ context.Context) ([]models.TicketView, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.TicketView
	for _, t := range f.db.tickets {
		out = append(out, f.view(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// recompute mirrors the repository: reload items, then models.Ticket.Recompute.
func (db *memDB) recompute(t *models.Ticket) {
	var services []models.ServiceItem
	for _, s := range db.serviceItems {
		if s.TicketID == t.ID {
			services = append(services, s)
		}
	}
	var parts []models.PartItem
	for _, p := range db.partItems {
		if p.TicketID == t.ID {
			parts = append(parts, p)
		}
	}
	t.Recompute(services, parts)
}

func (f fakeTickets) Update(_ context.Context, id uint, c repository.TicketChanges) (*models.Ticket, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.RepairStaffID = c.RepairStaffID
	t.CompletionTime = c.CompletionTime
	t.LaborPrice = c.LaborPrice
	f.db.recompute(t)
	cp := *t
	return &cp, nil
}

func (f fakeTickets) SetStatus(_ context.Context, id uint, status, actor string, at time.Time) (*models.StatusEvent, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, e := range f.db.events {
		if e.TicketID == id && e.CreatedAt.After(at) {
			at = e.CreatedAt
		}
	}
	t.PaymentStatus = status
	ev := models.StatusEvent{ID: f.db.id(), TicketID: id, Status: status, Actor: actor, CreatedAt: at}
	f.db.events = append(f.db.events, ev)
	return &ev, nil
}

func (f fakeTickets) History(_ context.Context, id uint) ([]models.StatusEvent, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.StatusEvent
	for _, e := range f.db.events {
		if e.TicketID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeItems struct{ db *memDB }

func (f fakeItems) AddService(_ context.Context, item *models.ServiceItem) (*models.Ticket, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.tickets[item.TicketID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	item.ID = f.db.id()
	f.db.serviceItems = append(f.db.serviceItems, *item)
	f.db.recompute(t)
	cp := *t
	return &cp, nil
}

func (f fakeItems) AddPart(_ context.Context, item *models.PartItem) (*models.Ticket, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.tickets[item.TicketID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	item.ID = f.db.id()
	f.db.partItems = append(f.db.partItems, *item)
	f.db.recompute(t)
	cp := *t
	return &cp, nil
}

func (f fakeItems) ListByTicket(_ context.Context, ticketID uint) ([]models.ServiceItem, []models.PartItem, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var services []models.ServiceItem
	for _, s := range f.db.serviceItems {
		if s.TicketID == ticketID {
			services = append(services, s)
		}
	}
	var parts []models.PartItem
	for _, p := range f.db.partItems {
		if p.TicketID == ticketID {
			parts = append(parts, p)
		}
	}
	return services, parts, nil
}

// appointments

type fakeAppointments struct{ db *memDB }

func (f fakeAppointments) List(_ context.Context) ([]models.AppointmentView, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.AppointmentView
	for _, a := range f.db.appointments {
		out = append(out, models.AppointmentView{Appointment: *a})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.After(out[j].ScheduledAt) })
	return out, nil
}

func (f fakeAppointments) GetByID(_ context.Context, id uint) (*models.Appointment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	a, ok := f.db.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f fakeAppointments) Create(_ context.Context, a *models.Appointment) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	a.ID = f.db.id()
	cp := *a
	f.db.appointments[a.ID] = &cp
	return nil
}

func (f fakeAppointments) UpdateStatus(ctx context.Context, id uint, status string) (*models.Appointment, error) {
	f.db.mu.Lock()
	a, ok := f.db.appointments[id]
	if !ok {
		f.db.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	a.Status = status
	f.db.mu.Unlock()
	return f.GetByID(ctx, id)
}

func (f fakeAppointments) Delete(_ context.Context, id uint) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.appointments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.db.appointments, id)
	return nil
}

// side effects

type publishedEvent struct {
	key     string
	payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{key: key, payload: payload})
	return p.err
}

func (p *fakePublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.key
	}
	return out
}

type sentMessage struct{ phone, message string }

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (n *fakeNotifier) Notify(_ context.Context, phone, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{phone, message})
	return nil
}

type fakeCache struct {
	data    map[string]interface{}
	gets    int
	deletes int
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]interface{}{}} }

func (c *fakeCache) GetCache(_ context.Context, key string, dest interface{}) error {
	c.gets++
	v, ok := c.data[key]
	if !ok {
		return repository.ErrNotFound
	}
	switch d := dest.(type) {
	case *[]models.CarModel:
		*d = v.([]models.CarModel)
	case *[]models.Service:
		*d = v.([]models.Service)
	}
	return nil
}

func (c *fakeCache) SetCache(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *fakeCache) DeleteCache(_ context.Context, keys ...string) error {
	c.deletes++
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type fakeRevoker struct {
	revoked map[string]time.Duration
}

func (r *fakeRevoker) RevokeToken(_ context.Context, id string, ttl time.Duration) error {
	if r.revoked == nil {
		r.revoked = map[string]time.Duration{}
	}
	r.revoked[id] = ttl
	return nil
}

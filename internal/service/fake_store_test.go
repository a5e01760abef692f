package service

import (
	"context"
	"sort"
	"sync"

	"github.com/mihaja/event-ticketing/internal/model"
)

// fakeStore is an in-memory implementation of every store interface.  WithTx
// serializes transactions behind the store mutex and rolls back by restoring
// a snapshot, mirroring the atomicity contract of the MySQL store.
type fakeStore struct {
	mu           sync.Mutex
	events       map[uint64]model.Event
	tickets      map[uint64]model.TicketType
	reservations map[uint64]model.Reservation
	users        map[uint64]model.User
	seq          uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:       make(map[uint64]model.Event),
		tickets:      make(map[uint64]model.TicketType),
		reservations: make(map[uint64]model.Reservation),
		users:        make(map[uint64]model.User),
	}
}

func (f *fakeStore) nextID() uint64 {
	f.seq++
	return f.seq
}

// --- EventStore ---

func (f *fakeStore) Create(ctx context.Context, ev *model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev.ID = f.nextID()
	f.events[ev.ID] = *ev
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[id]
	if !ok {
		return model.Event{}, ErrEventNotFound
	}
	return ev, nil
}

func (f *fakeStore) List(ctx context.Context) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Event, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, ev model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[ev.ID]; !ok {
		return ErrEventNotFound
	}
	f.events[ev.ID] = ev
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return ErrEventNotFound
	}
	for _, r := range f.reservations {
		if t, ok := f.tickets[r.TicketID]; ok && t.EventID == id && r.Status == model.ReservationStatusConfirmed {
			return ErrEventInUse
		}
	}
	delete(f.events, id)
	for tid, t := range f.tickets {
		if t.EventID == id {
			delete(f.tickets, tid)
		}
	}
	return nil
}

// --- TicketStore ---

// ticketStore narrows fakeStore so the Create/GetByID/... names do not
// collide with the event methods above.
type ticketStore struct{ *fakeStore }

func (f *fakeStore) ticketAPI() TicketStore { return ticketStore{f} }

func (t ticketStore) Create(ctx context.Context, tt *model.TicketType) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	tt.ID = t.nextID()
	t.tickets[tt.ID] = *tt
	return nil
}

func (t ticketStore) GetByID(ctx context.Context, id uint64) (model.TicketType, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tt, ok := t.tickets[id]
	if !ok {
		return model.TicketType{}, ErrTicketNotFound
	}
	return tt, nil
}

func (t ticketStore) List(ctx context.Context) ([]model.TicketType, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.TicketType, 0, len(t.tickets))
	for _, tt := range t.tickets {
		out = append(out, tt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t ticketStore) ListByEvent(ctx context.Context, eventID uint64) ([]model.TicketType, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.TicketType, 0)
	for _, tt := range t.tickets {
		if tt.EventID == eventID {
			out = append(out, tt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t ticketStore) Update(ctx context.Context, tt model.TicketType) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.tickets[tt.ID]; !ok {
		return ErrTicketNotFound
	}
	t.tickets[tt.ID] = tt
	return nil
}

func (t ticketStore) Delete(ctx context.Context, id uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.tickets[id]; !ok {
		return ErrTicketNotFound
	}
	delete(t.tickets, id)
	return nil
}

func (t ticketStore) CountConfirmed(ctx context.Context, ticketID uint64) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, r := range t.reservations {
		if r.TicketID == ticketID && r.Status == model.ReservationStatusConfirmed {
			n++
		}
	}
	return n, nil
}

// --- ReservationStore ---

type reservationStore struct{ *fakeStore }

func (f *fakeStore) reservationAPI() ReservationStore { return reservationStore{f} }

type fakeTx struct{ f *fakeStore }

func (s reservationStore) WithTx(ctx context.Context, fn func(tx ReservationTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticketSnap := make(map[uint64]model.TicketType, len(s.tickets))
	for k, v := range s.tickets {
		ticketSnap[k] = v
	}
	resSnap := make(map[uint64]model.Reservation, len(s.reservations))
	for k, v := range s.reservations {
		resSnap[k] = v
	}
	seqSnap := s.seq
	if err := fn(fakeTx{s.fakeStore}); err != nil {
		s.tickets = ticketSnap
		s.reservations = resSnap
		s.seq = seqSnap
		return err
	}
	return nil
}

func (tx fakeTx) TicketForUpdate(ctx context.Context, ticketID uint64) (model.TicketType, error) {
	t, ok := tx.f.tickets[ticketID]
	if !ok {
		return model.TicketType{}, ErrTicketNotFound
	}
	return t, nil
}

func (tx fakeTx) SetTicketQuantity(ctx context.Context, ticketID uint64, quantity int) error {
	t, ok := tx.f.tickets[ticketID]
	if !ok {
		return ErrTicketNotFound
	}
	t.AvailableQuantity = quantity
	tx.f.tickets[ticketID] = t
	return nil
}

func (tx fakeTx) ReservationForUpdate(ctx context.Context, id uint64) (model.Reservation, error) {
	r, ok := tx.f.reservations[id]
	if !ok {
		return model.Reservation{}, ErrReservationNotFound
	}
	return r, nil
}

func (tx fakeTx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	r.ID = tx.f.nextID()
	tx.f.reservations[r.ID] = *r
	return nil
}

func (tx fakeTx) SetReservationStatus(ctx context.Context, id uint64, status string) error {
	r, ok := tx.f.reservations[id]
	if !ok {
		return ErrReservationNotFound
	}
	r.Status = status
	tx.f.reservations[id] = r
	return nil
}

func (s reservationStore) detail(r model.Reservation) model.ReservationDetail {
	d := model.ReservationDetail{Reservation: r}
	if t, ok := s.tickets[r.TicketID]; ok {
		tc := t
		d.TicketDetails = &tc
		if ev, ok := s.events[t.EventID]; ok {
			ec := ev
			d.EventDetails = &ec
		}
	}
	return d
}

func (s reservationStore) ListAll(ctx context.Context) ([]model.ReservationDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ReservationDetail, 0, len(s.reservations))
	for _, r := range s.reservations {
		out = append(out, s.detail(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s reservationStore) ListByEvent(ctx context.Context, eventID uint64) ([]model.ReservationDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ReservationDetail, 0)
	for _, r := range s.reservations {
		if t, ok := s.tickets[r.TicketID]; ok && t.EventID == eventID {
			out = append(out, s.detail(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s reservationStore) ListByUser(ctx context.Context, userID uint64) ([]model.ReservationDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ReservationDetail, 0)
	for _, r := range s.reservations {
		if r.UserID == userID {
			out = append(out, s.detail(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- UserStore ---

type userStore struct{ *fakeStore }

func (f *fakeStore) userAPI() UserStore { return userStore{f} }

func (u userStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	usr, ok := u.users[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return usr, nil
}

func (u userStore) List(ctx context.Context) ([]model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]model.User, 0, len(u.users))
	for _, usr := range u.users {
		out = append(out, usr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (u userStore) Update(ctx context.Context, usr model.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.users[usr.ID]; !ok {
		return ErrUserNotFound
	}
	u.users[usr.ID] = usr
	return nil
}

// --- test seed helpers ---

func (f *fakeStore) seedEvent(ev model.Event) model.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ev.ID == 0 {
		ev.ID = f.nextID()
	}
	f.events[ev.ID] = ev
	return ev
}

func (f *fakeStore) seedTicket(t model.TicketType) model.TicketType {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == 0 {
		t.ID = f.nextID()
	}
	f.tickets[t.ID] = t
	return t
}

func (f *fakeStore) seedReservation(r model.Reservation) model.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == 0 {
		r.ID = f.nextID()
	}
	f.reservations[r.ID] = r
	return r
}

func (f *fakeStore) seedUser(u model.User) model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == 0 {
		u.ID = f.nextID()
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) ticket(id uint64) model.TicketType {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickets[id]
}

func (f *fakeStore) reservation(id uint64) model.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reservations[id]
}

// fakePublisher records published reservation events.
type fakePublisher struct {
	mu        sync.Mutex
	confirmed []model.Reservation
	canceled  []model.Reservation
}

func (p *fakePublisher) ReservationConfirmed(ctx context.Context, r model.Reservation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirmed = append(p.confirmed, r)
	return nil
}

func (p *fakePublisher) ReservationCanceled(ctx context.Context, r model.Reservation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.canceled = append(p.canceled, r)
	return nil
}

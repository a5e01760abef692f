package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mihaja/event-ticketing/internal/model"
	"github.com/mihaja/event-ticketing/internal/service"
)

// TicketRepo persists ticket types in the 'tickets' table.
type TicketRepo struct{ DB *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

const ticketColumns = "id, event_id, type, price, available_quantity, purchase_limit, is_active"

func scanTicket(row interface{ Scan(...any) error }) (model.TicketType, error) {
	var t model.TicketType
	err := row.Scan(&t.ID, &t.EventID, &t.Type, &t.Price, &t.AvailableQuantity, &t.PurchaseLimit, &t.IsActive)
	return t, err
}

// Create inserts the ticket type and fills in the generated id.
func (r *TicketRepo) Create(ctx context.Context, t *model.TicketType) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tickets (event_id, type, price, available_quantity, purchase_limit, is_active) VALUES (?,?,?,?,?,?)",
		t.EventID, t.Type, t.Price, t.AvailableQuantity, t.PurchaseLimit, t.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (model.TicketType, error) {
	t, err := scanTicket(r.DB.QueryRowContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.TicketType{}, service.ErrTicketNotFound
	}
	return t, err
}

func (r *TicketRepo) List(ctx context.Context) ([]model.TicketType, error) {
	return r.query(ctx, "SELECT "+ticketColumns+" FROM tickets ORDER BY id")
}

func (r *TicketRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.TicketType, error) {
	return r.query(ctx, "SELECT "+ticketColumns+" FROM tickets WHERE event_id=? ORDER BY id", eventID)
}

func (r *TicketRepo) query(ctx context.Context, q string, args ...any) ([]model.TicketType, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TicketType, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update rewrites the mutable columns; event_id is never touched.
func (r *TicketRepo) Update(ctx context.Context, t model.TicketType) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE tickets SET type=?, price=?, available_quantity=?, purchase_limit=?, is_active=? WHERE id=?",
		t.Type, t.Price, t.AvailableQuantity, t.PurchaseLimit, t.IsActive, t.ID)
	return err
}

func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM tickets WHERE id=?", id)
	if err != nil {
		return err
	}
	return mustAffect(res, service.ErrTicketNotFound)
}

// CountConfirmed returns how many confirmed reservations still reference the
// ticket type.
func (r *TicketRepo) CountConfirmed(ctx context.Context, ticketID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE ticket_id=? AND status=?",
		ticketID, model.ReservationStatusConfirmed).Scan(&n)
	return n, err
}

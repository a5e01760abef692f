package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mihaja/event-ticketing/internal/model"
	"github.com/mihaja/event-ticketing/internal/service"
)

// ReservationRepo persists reservations in the 'reservations' table and
// implements the transactional store the reservation engine runs on.
// Inventory rows are read with SELECT ... FOR UPDATE inside WithTx, so the
// availability check and the quantity update on a ticket type are a single
// indivisible step for every concurrent caller.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

// WithTx runs fn inside a transaction.  The transaction is rolled back when
// fn returns an error and committed otherwise.
func (r *ReservationRepo) WithTx(ctx context.Context, fn func(tx service.ReservationTx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(resTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// resTx implements service.ReservationTx over an open *sql.Tx.
type resTx struct{ tx *sql.Tx }

func (t resTx) TicketForUpdate(ctx context.Context, ticketID uint64) (model.TicketType, error) {
	tk, err := scanTicket(t.tx.QueryRowContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE id=? FOR UPDATE", ticketID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.TicketType{}, service.ErrTicketNotFound
	}
	return tk, err
}

func (t resTx) SetTicketQuantity(ctx context.Context, ticketID uint64, quantity int) error {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE tickets SET available_quantity=? WHERE id=?", quantity, ticketID)
	return err
}

func (t resTx) ReservationForUpdate(ctx context.Context, id uint64) (model.Reservation, error) {
	var res model.Reservation
	err := t.tx.QueryRowContext(ctx,
		"SELECT id, user_id, ticket_id, quantity, status, created_at FROM reservations WHERE id=? FOR UPDATE",
		id).Scan(&res.ID, &res.UserID, &res.TicketID, &res.Quantity, &res.Status, &res.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, service.ErrReservationNotFound
	}
	return res, err
}

func (t resTx) InsertReservation(ctx context.Context, res *model.Reservation) error {
	out, err := t.tx.ExecContext(ctx,
		"INSERT INTO reservations (user_id, ticket_id, quantity, status, created_at) VALUES (?,?,?,?,?)",
		res.UserID, res.TicketID, res.Quantity, res.Status, res.CreatedAt)
	if err != nil {
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

func (t resTx) SetReservationStatus(ctx context.Context, id uint64, status string) error {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE reservations SET status=? WHERE id=?", status, id)
	return err
}

// detailQuery joins each reservation with its ticket type and event so list
// responses carry a snapshot of both at read time.  LEFT JOINs keep
// reservations visible even when the referenced ticket type was deleted.
const detailQuery = `SELECT r.id, r.user_id, r.ticket_id, r.quantity, r.status, r.created_at,
       t.id, t.event_id, t.type, t.price, t.available_quantity, t.purchase_limit, t.is_active,
       e.id, e.title, e.description, e.date, e.location, e.category, e.organizer_id, e.status, e.image_url, e.image_alt
  FROM reservations r
  LEFT JOIN tickets t ON t.id = r.ticket_id
  LEFT JOIN events  e ON e.id = t.event_id`

func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.ReservationDetail, error) {
	return r.queryDetails(ctx, detailQuery+" ORDER BY r.id")
}

func (r *ReservationRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.ReservationDetail, error) {
	return r.queryDetails(ctx, detailQuery+" WHERE t.event_id=? ORDER BY r.id", eventID)
}

func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.ReservationDetail, error) {
	return r.queryDetails(ctx, detailQuery+" WHERE r.user_id=? ORDER BY r.id", userID)
}

func (r *ReservationRepo) queryDetails(ctx context.Context, q string, args ...any) ([]model.ReservationDetail, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ReservationDetail, 0)
	for rows.Next() {
		var d model.ReservationDetail
		var (
			tID       sql.NullInt64
			tEventID  sql.NullInt64
			tType     sql.NullString
			tPrice    sql.NullFloat64
			tQty      sql.NullInt64
			tLimit    sql.NullInt64
			tActive   sql.NullBool
			eID       sql.NullInt64
			eTitle    sql.NullString
			eDesc     sql.NullString
			eDate     sql.NullString
			eLocation sql.NullString
			eCategory sql.NullString
			eOrgID    sql.NullInt64
			eStatus   sql.NullString
			eImageURL sql.NullString
			eImageAlt sql.NullString
		)
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.TicketID, &d.Quantity, &d.Status, &d.CreatedAt,
			&tID, &tEventID, &tType, &tPrice, &tQty, &tLimit, &tActive,
			&eID, &eTitle, &eDesc, &eDate, &eLocation, &eCategory, &eOrgID, &eStatus, &eImageURL, &eImageAlt,
		); err != nil {
			return nil, err
		}
		if tID.Valid {
			d.TicketDetails = &model.TicketType{
				ID:                uint64(tID.Int64),
				EventID:           uint64(tEventID.Int64),
				Type:              tType.String,
				Price:             tPrice.Float64,
				AvailableQuantity: int(tQty.Int64),
				PurchaseLimit:     int(tLimit.Int64),
				IsActive:          tActive.Bool,
			}
		}
		if eID.Valid {
			d.EventDetails = &model.Event{
				ID:          uint64(eID.Int64),
				Title:       eTitle.String,
				Description: eDesc.String,
				Date:        eDate.String,
				Location:    eLocation.String,
				Category:    eCategory.String,
				OrganizerID: uint64(eOrgID.Int64),
				Status:      eStatus.String,
				ImageURL:    eImageURL.String,
				ImageAlt:    eImageAlt.String,
			}
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

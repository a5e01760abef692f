// Package repository contains the MySQL implementations of the storage
// contracts declared in the service package.  All SQL lives here; the
// services never see database/sql types.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mihaja/event-ticketing/internal/model"
	"github.com/mihaja/event-ticketing/internal/service"
)

// EventRepo persists events in the 'events' table.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

const eventColumns = "id, title, description, date, location, category, organizer_id, status, image_url, image_alt"

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var ev model.Event
	err := row.Scan(&ev.ID, &ev.Title, &ev.Description, &ev.Date, &ev.Location,
		&ev.Category, &ev.OrganizerID, &ev.Status, &ev.ImageURL, &ev.ImageAlt)
	return ev, err
}

// Create inserts the event and fills in the generated id.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO events (title, description, date, location, category, organizer_id, status, image_url, image_alt) VALUES (?,?,?,?,?,?,?,?,?)",
		ev.Title, ev.Description, ev.Date, ev.Location, ev.Category, ev.OrganizerID, ev.Status, ev.ImageURL, ev.ImageAlt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	return nil
}

func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	ev, err := scanEvent(r.DB.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, service.ErrEventNotFound
	}
	return ev, err
}

func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+eventColumns+" FROM events ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Update rewrites the mutable columns; organizer_id is never touched.
// A patch that changes nothing affects zero rows, so presence is not
// inferred from the affected count here.
func (r *EventRepo) Update(ctx context.Context, ev model.Event) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE events SET title=?, description=?, date=?, location=?, category=?, status=?, image_url=?, image_alt=? WHERE id=?",
		ev.Title, ev.Description, ev.Date, ev.Location, ev.Category, ev.Status, ev.ImageURL, ev.ImageAlt, ev.ID)
	return err
}

// Delete removes the event together with its ticket types so no orphaned
// inventory survives.  While any of those ticket types still carries
// confirmed reservations the delete is refused, mirroring the guard on
// single ticket-type deletion.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
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
	var confirmed int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations r JOIN tickets t ON t.id = r.ticket_id WHERE t.event_id=? AND r.status=? FOR UPDATE",
		id, model.ReservationStatusConfirmed).Scan(&confirmed)
	if err != nil {
		return err
	}
	if confirmed > 0 {
		return service.ErrEventInUse
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM tickets WHERE event_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	if err != nil {
		return err
	}
	if err := mustAffect(res, service.ErrEventNotFound); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// mustAffect converts a zero-row UPDATE/DELETE into the given not-found error.
func mustAffect(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  Dates are
// stored as YYYY-MM-DD strings and times as HH:MM strings so that slot
// matching is an exact string comparison and ordering is lexical.  All
// timestamp fields are written in UTC.
type ReservationRepo struct {
	db  execer
	now func() time.Time
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo {
	return &ReservationRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

const reservationColumns = `id, reservation_code, name, email, phone, guests, res_date, res_time,
       restaurant_slug, calendar_status, calendar_event_id, created_at, updated_at`

// scanReservation reads one row selected with reservationColumns.
func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var (
		r       model.Reservation
		status  string
		eventID sql.NullString
	)
	err := row.Scan(
		&r.ID, &r.Code, &r.Name, &r.Email, &r.Phone, &r.Guests, &r.Date, &r.Time,
		&r.RestaurantSlug, &status, &eventID, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return model.Reservation{}, err
	}
	r.CalendarStatus = model.CalendarStatus(status)
	r.CalendarEventID = stringPtr(eventID)
	return r, nil
}

// Create inserts a new reservation and populates its ID and timestamps.
// A collision on reservation_code is reported as ErrDuplicate so the
// caller can retry with a fresh code.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	now := r.now()
	const q = `INSERT INTO reservations
		(reservation_code, name, email, phone, guests, res_date, res_time,
		 restaurant_slug, calendar_status, calendar_event_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.Code, res.Name, res.Email, res.Phone, res.Guests, res.Date, res.Time,
		res.RestaurantSlug, string(res.CalendarStatus), nullString(res.CalendarEventID), now, now,
	)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	res.ID = uint64(id)
	res.CreatedAt = now
	res.UpdatedAt = now
	return nil
}

// GetByCode returns the reservation with the given guest-facing code.
func (r *ReservationRepo) GetByCode(ctx context.Context, code string) (model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_code = ? LIMIT 1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, ErrNotFound
		}
		return model.Reservation{}, fmt.Errorf("get reservation by code: %w", err)
	}
	return res, nil
}

// GetByID returns the reservation with the given primary key.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? LIMIT 1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, ErrNotFound
		}
		return model.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// UpdateDetails overwrites the guest-mutable fields of a reservation: date,
// time, party size, phone and restaurant.  The code, name, e-mail and
// calendar columns are left untouched.
func (r *ReservationRepo) UpdateDetails(ctx context.Context, res *model.Reservation) error {
	now := r.now()
	const q = `UPDATE reservations
		SET res_date = ?, res_time = ?, guests = ?, phone = ?, restaurant_slug = ?, updated_at = ?
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, res.Date, res.Time, res.Guests, res.Phone, res.RestaurantSlug, now, res.ID)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	res.UpdatedAt = now
	return nil
}

// SetCalendar records the outcome of a calendar sync.  When eventID is nil
// the stored event id is kept as is, so a failed update never forgets an
// event that still exists remotely.
func (r *ReservationRepo) SetCalendar(ctx context.Context, id uint64, status model.CalendarStatus, eventID *string) error {
	var (
		q    string
		args []any
	)
	if eventID != nil {
		q = `UPDATE reservations SET calendar_status = ?, calendar_event_id = ?, updated_at = ? WHERE id = ?`
		args = []any{string(status), *eventID, r.now(), id}
	} else {
		q = `UPDATE reservations SET calendar_status = ?, updated_at = ? WHERE id = ?`
		args = []any{string(status), r.now(), id}
	}
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("update calendar status: %w", err)
	}
	return nil
}

// Delete removes a reservation permanently.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountAt counts reservations for one restaurant at an exact date and time.
// A non-zero excludeID leaves that reservation out of the count, which is
// how an update avoids competing with itself.
func (r *ReservationRepo) CountAt(ctx context.Context, slug, date, clock string, excludeID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM reservations
		WHERE restaurant_slug = ? AND res_date = ? AND res_time = ? AND id <> ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, slug, date, clock, excludeID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reservations: %w", err)
	}
	return n, nil
}

// TimesOn returns the res_time of every reservation for a restaurant on a
// date.  Callers bucket them by hour.  An empty slug matches all
// restaurants.
func (r *ReservationRepo) TimesOn(ctx context.Context, slug, date string) ([]string, error) {
	q := `SELECT res_time FROM reservations WHERE res_date = ?`
	args := []any{date}
	if slug != "" {
		q += ` AND restaurant_slug = ?`
		args = append(args, slug)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservation times: %w", err)
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// List returns reservations ordered by date (newest first) and then time
// (earliest first).  An empty slug lists every restaurant.
func (r *ReservationRepo) List(ctx context.Context, slug string) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations`
	var args []any
	if slug != "" {
		q += ` WHERE restaurant_slug = ?`
		args = append(args, slug)
	}
	q += ` ORDER BY res_date DESC, res_time ASC, id ASC`
	return r.query(ctx, q, args...)
}

// ListSince returns reservations on or after date, optionally restricted to
// one restaurant.  It feeds the analytics aggregation.
func (r *ReservationRepo) ListSince(ctx context.Context, slug, date string) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE res_date >= ?`
	args := []any{date}
	if slug != "" {
		q += ` AND restaurant_slug = ?`
		args = append(args, slug)
	}
	q += ` ORDER BY res_date ASC, res_time ASC`
	return r.query(ctx, q, args...)
}

func (r *ReservationRepo) query(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

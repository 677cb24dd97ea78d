package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tamvems/internal/db"
)

// BookingFilter narrows admin listings and exports.
type BookingFilter struct {
	Status      db.RequestStatus
	RequesterID int
	From        *time.Time
	To          *time.Time
}

// BookingRepository is the persistence contract for booking requests.
// Interval predicates use half-open semantics: [s1,e1) overlaps [s2,e2)
// iff s1 < e2 AND e1 > s2.
type BookingRepository interface {
	Create(req *db.BookingRequest) error
	GetByID(id int) (*db.BookingRequest, error)
	List(filter BookingFilter) ([]db.BookingRequest, error)
	ListApprovedOverlapping(start, end time.Time) ([]db.BookingRequest, error)
	ListApprovedUnreturned() ([]db.BookingRequest, error)
	ListApprovedUnreturnedByUser(userID int) ([]db.BookingRequest, error)
	CountPendingOverlapping(start, end time.Time) (map[int]int, error)
	CountCreatedBetweenByDivision(division string, from, to time.Time) (int, error)
	Approve(id int, at time.Time) error
	Reject(id int, reason string, at time.Time) error
	Checkout(id int, at time.Time) error
	ExpirePending(now time.Time) (int64, error)
}

type bookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) BookingRepository {
	return &bookingRepository{DB: database}
}

const bookingColumns = `
	b.id, b.code, b.vehicle_id, b.requester_id, b.created_by_id, b.destination,
	b.start_time, b.end_time, b.status, b.rejection_reason,
	b.approved_at, b.rejected_at, b.check_out_at, b.document_url,
	b.created_at, b.updated_at,
	v.name, v.plate, u.name, u.email, u.phone, u.division`

const bookingJoins = `
	FROM booking_requests b
	JOIN vehicles v ON v.id = b.vehicle_id
	JOIN users u ON u.id = b.requester_id`

func scanBooking(row interface{ Scan(...interface{}) error }) (*db.BookingRequest, error) {
	var b db.BookingRequest
	err := row.Scan(
		&b.ID, &b.Code, &b.VehicleID, &b.RequesterID, &b.CreatedByID, &b.Destination,
		&b.StartTime, &b.EndTime, &b.Status, &b.RejectionReason,
		&b.ApprovedAt, &b.RejectedAt, &b.CheckOutAt, &b.DocumentURL,
		&b.CreatedAt, &b.UpdatedAt,
		&b.VehicleName, &b.VehiclePlate, &b.RequesterName, &b.RequesterEmail,
		&b.RequesterPhone, &b.RequesterDivision,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) queryBookings(query string, args ...interface{}) ([]db.BookingRequest, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.BookingRequest
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) Create(req *db.BookingRequest) error {
	query := `
		INSERT INTO booking_requests
		(code, vehicle_id, requester_id, created_by_id, destination,
		 start_time, end_time, status, document_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	return r.DB.QueryRow(query,
		req.Code,
		req.VehicleID,
		req.RequesterID,
		req.CreatedByID,
		req.Destination,
		req.StartTime,
		req.EndTime,
		req.Status,
		req.DocumentURL,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *bookingRepository) GetByID(id int) (*db.BookingRequest, error) {
	query := `SELECT` + bookingColumns + bookingJoins + `
		WHERE b.id = $1 AND b.deleted_at IS NULL`
	b, err := scanBooking(r.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	return b, nil
}

func (r *bookingRepository) List(filter BookingFilter) ([]db.BookingRequest, error) {
	query := `SELECT` + bookingColumns + bookingJoins + `
		WHERE b.deleted_at IS NULL`
	args := []interface{}{}
	idx := 1

	if filter.Status != "" {
		query += " AND b.status = $" + strconv.Itoa(idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.RequesterID != 0 {
		query += " AND b.requester_id = $" + strconv.Itoa(idx)
		args = append(args, filter.RequesterID)
		idx++
	}
	if filter.From != nil {
		query += " AND b.start_time >= $" + strconv.Itoa(idx)
		args = append(args, *filter.From)
		idx++
	}
	if filter.To != nil {
		query += " AND b.start_time < $" + strconv.Itoa(idx)
		args = append(args, *filter.To)
		idx++
	}
	query += " ORDER BY b.start_time DESC"

	return r.queryBookings(query, args...)
}

func (r *bookingRepository) ListApprovedOverlapping(start, end time.Time) ([]db.BookingRequest, error) {
	query := `SELECT` + bookingColumns + bookingJoins + `
		WHERE b.deleted_at IS NULL
		  AND b.status = $1
		  AND b.start_time < $3
		  AND b.end_time > $2
		ORDER BY b.start_time`
	return r.queryBookings(query, db.StatusApproved, start, end)
}

func (r *bookingRepository) ListApprovedUnreturned() ([]db.BookingRequest, error) {
	query := `SELECT` + bookingColumns + bookingJoins + `
		WHERE b.deleted_at IS NULL
		  AND b.status = $1
		  AND b.check_out_at IS NULL
		ORDER BY b.start_time`
	return r.queryBookings(query, db.StatusApproved)
}

func (r *bookingRepository) ListApprovedUnreturnedByUser(userID int) ([]db.BookingRequest, error) {
	query := `SELECT` + bookingColumns + bookingJoins + `
		WHERE b.deleted_at IS NULL
		  AND b.status = $1
		  AND b.check_out_at IS NULL
		  AND b.requester_id = $2
		ORDER BY b.start_time`
	return r.queryBookings(query, db.StatusApproved, userID)
}

func (r *bookingRepository) CountPendingOverlapping(start, end time.Time) (map[int]int, error) {
	query := `
		SELECT vehicle_id, COUNT(*)
		FROM booking_requests
		WHERE deleted_at IS NULL
		  AND status = $1
		  AND start_time < $3
		  AND end_time > $2
		GROUP BY vehicle_id`
	rows, err := r.DB.Query(query, db.StatusPending, start, end)
	if err != nil {
		return nil, fmt.Errorf("count pending overlapping: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var vehicleID, n int
		if err := rows.Scan(&vehicleID, &n); err != nil {
			return nil, fmt.Errorf("scan pending count: %w", err)
		}
		counts[vehicleID] = n
	}
	return counts, rows.Err()
}

func (r *bookingRepository) CountCreatedBetweenByDivision(division string, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM booking_requests b
		JOIN users u ON u.id = b.requester_id
		WHERE b.deleted_at IS NULL
		  AND u.division = $1
		  AND b.created_at >= $2
		  AND b.created_at < $3`
	var n int
	if err := r.DB.QueryRow(query, division, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("count daily requests: %w", err)
	}
	return n, nil
}

// Approve re-validates, inside the transaction that writes APPROVED, that no
// conflicting APPROVED request exists for the same vehicle: neither an
// overlapping window nor an unreturned checkout. Two admins racing on
// overlapping requests cannot both win.
func (r *bookingRepository) Approve(id int, at time.Time) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin approve tx: %w", err)
	}
	defer tx.Rollback()

	var vehicleID int
	var start, end time.Time
	var status db.RequestStatus
	err = tx.QueryRow(`
		SELECT vehicle_id, start_time, end_time, status
		FROM booking_requests
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE`, id).Scan(&vehicleID, &start, &end, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock booking %d: %w", id, err)
	}
	if status != db.StatusPending {
		return ErrNotPending
	}

	var conflicts int
	err = tx.QueryRow(`
		SELECT COUNT(*)
		FROM booking_requests
		WHERE deleted_at IS NULL
		  AND vehicle_id = $1
		  AND status = $2
		  AND (check_out_at IS NULL OR (start_time < $4 AND end_time > $3))`,
		vehicleID, db.StatusApproved, start, end).Scan(&conflicts)
	if err != nil {
		return fmt.Errorf("check approval conflicts: %w", err)
	}
	if conflicts > 0 {
		return ErrConflictingApproval
	}

	_, err = tx.Exec(`
		UPDATE booking_requests
		SET status = $1, approved_at = $2, updated_at = NOW()
		WHERE id = $3`, db.StatusApproved, at, id)
	if err != nil {
		return fmt.Errorf("approve booking %d: %w", id, err)
	}
	return tx.Commit()
}

func (r *bookingRepository) Reject(id int, reason string, at time.Time) error {
	result, err := r.DB.Exec(`
		UPDATE booking_requests
		SET status = $1, rejection_reason = $2, rejected_at = $3, updated_at = NOW()
		WHERE id = $4 AND deleted_at IS NULL AND status = $5`,
		db.StatusRejected, reason, at, id, db.StatusPending)
	if err != nil {
		return fmt.Errorf("reject booking %d: %w", id, err)
	}
	return requireOneRow(result, ErrNotPending)
}

// Checkout is single-use: the conditional UPDATE only matches APPROVED rows
// with no prior checkout timestamp.
func (r *bookingRepository) Checkout(id int, at time.Time) error {
	result, err := r.DB.Exec(`
		UPDATE booking_requests
		SET status = $1, check_out_at = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL AND status = $4 AND check_out_at IS NULL`,
		db.StatusCompleted, at, id, db.StatusApproved)
	if err != nil {
		return fmt.Errorf("checkout booking %d: %w", id, err)
	}
	return requireOneRow(result, ErrAlreadyCheckedOut)
}

// ExpirePending flips stale PENDING rows to CANCELLED. The predicate makes it
// idempotent under concurrent sweeps.
func (r *bookingRepository) ExpirePending(now time.Time) (int64, error) {
	result, err := r.DB.Exec(`
		UPDATE booking_requests
		SET status = $1, updated_at = NOW()
		WHERE deleted_at IS NULL AND status = $2 AND end_time < $3`,
		db.StatusCancelled, db.StatusPending, now)
	if err != nil {
		return 0, fmt.Errorf("expire pending bookings: %w", err)
	}
	return result.RowsAffected()
}

func requireOneRow(result sql.Result, mismatch error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mismatch
	}
	return nil
}

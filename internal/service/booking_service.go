package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tamvems/internal/auth"
	"tamvems/internal/db"
	"tamvems/internal/entities"
	"tamvems/internal/httperr"
	"tamvems/internal/repository"
	"tamvems/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Uploader pushes files to the media host and returns a durable URL.
type Uploader interface {
	UploadDocument(ctx context.Context, u *entities.Upload) (string, error)
	UploadPhoto(ctx context.Context, u *entities.Upload) (string, error)
}

// Notifier dispatches best-effort notifications. Implementations must never
// block the caller on delivery.
type Notifier interface {
	BookingApproved(b db.BookingRequest)
}

// BookingService governs the lifecycle of booking requests from creation
// through approval, rejection, checkout and expiry.
type BookingService struct {
	bookings          repository.BookingRepository
	vehicles          repository.VehicleRepository
	users             repository.UserRepository
	uploader          Uploader
	notifier          Notifier
	maxRequestsPerDay int
	now               func() time.Time
	log               *zap.Logger
}

func NewBookingService(
	bookings repository.BookingRepository,
	vehicles repository.VehicleRepository,
	users repository.UserRepository,
	uploader Uploader,
	notifier Notifier,
	maxRequestsPerDay int,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:          bookings,
		vehicles:          vehicles,
		users:             users,
		uploader:          uploader,
		notifier:          notifier,
		maxRequestsPerDay: maxRequestsPerDay,
		now:               time.Now,
		log:               log,
	}
}

// Create validates and files a new PENDING request. The supporting document
// is mandatory and uploaded before the row is written; only its URL is
// stored. A per-division daily quota (local day) caps submissions.
func (s *BookingService) Create(ctx context.Context, caller auth.Caller, in entities.CreateBookingInput) (*entities.BookingResponse, error) {
	if strings.TrimSpace(in.Destination) == "" {
		return nil, httperr.Validation("destination", "destination is required")
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, httperr.Validation("end_time", "end time must be after start time")
	}
	if in.Document == nil {
		return nil, httperr.Validation("document", "supporting document is required")
	}
	if err := ValidateDocument(in.Document); err != nil {
		return nil, err
	}

	requesterID := in.RequesterID
	if requesterID == 0 {
		requesterID = caller.UserID
	}
	if requesterID != caller.UserID && !caller.IsAdmin() {
		return nil, httperr.Forbidden("cannot file a request for another user")
	}

	vehicle, err := s.vehicles.GetByID(in.VehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, httperr.NotFound("vehicle not found")
		}
		s.log.Error("create booking: get vehicle", zap.Error(err))
		return nil, httperr.Internal()
	}
	if !vehicle.IsActive {
		return nil, httperr.Validation("vehicle_id", "vehicle is not active")
	}

	requester, err := s.users.GetByID(requesterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, httperr.NotFound("requester not found")
		}
		s.log.Error("create booking: get requester", zap.Error(err))
		return nil, httperr.Internal()
	}

	dayStart, dayEnd := utils.LocalDayBounds(s.now())
	count, err := s.bookings.CountCreatedBetweenByDivision(requester.Division, dayStart, dayEnd)
	if err != nil {
		s.log.Error("create booking: count daily requests", zap.Error(err))
		return nil, httperr.Internal()
	}
	if count >= s.maxRequestsPerDay {
		return nil, httperr.Conflict(httperr.CodeQuotaExceeded, "daily request quota for the division reached")
	}

	documentURL, err := s.uploader.UploadDocument(ctx, in.Document)
	if err != nil {
		s.log.Error("create booking: upload document", zap.Error(err))
		return nil, httperr.Internal()
	}

	req := &db.BookingRequest{
		Code:        uuid.NewString(),
		VehicleID:   in.VehicleID,
		RequesterID: requesterID,
		CreatedByID: caller.UserID,
		Destination: strings.TrimSpace(in.Destination),
		StartTime:   in.StartTime.UTC(),
		EndTime:     in.EndTime.UTC(),
		Status:      db.StatusPending,
		DocumentURL: &documentURL,
	}
	if err := s.bookings.Create(req); err != nil {
		s.log.Error("create booking: insert", zap.Error(err))
		return nil, httperr.Internal()
	}

	return s.respond(req.ID)
}

// ListMine returns the caller's requests, newest first, after an
// opportunistic expiry sweep.
func (s *BookingService) ListMine(caller auth.Caller) (*entities.BookingsList, error) {
	s.ExpireStalePending()
	return s.list(repository.BookingFilter{RequesterID: caller.UserID})
}

// ListAll returns every request matching the filter. Route-level middleware
// already restricts this to admins; the sweep runs first so stale PENDING
// rows never surface.
func (s *BookingService) ListAll(filter repository.BookingFilter) (*entities.BookingsList, error) {
	s.ExpireStalePending()
	return s.list(filter)
}

func (s *BookingService) list(filter repository.BookingFilter) (*entities.BookingsList, error) {
	rows, err := s.bookings.List(filter)
	if err != nil {
		s.log.Error("list bookings", zap.Error(err))
		return nil, httperr.Internal()
	}
	now := s.now()
	list := &entities.BookingsList{Bookings: make([]entities.BookingResponse, 0, len(rows))}
	for _, b := range rows {
		list.Bookings = append(list.Bookings, entities.ToBookingResponse(b, now))
	}
	list.Total = len(list.Bookings)
	return list, nil
}

// Get returns one request, visible to its requester or any admin.
func (s *BookingService) Get(caller auth.Caller, id int) (*entities.BookingResponse, error) {
	b, err := s.getBooking(id)
	if err != nil {
		return nil, err
	}
	if b.RequesterID != caller.UserID && !caller.IsAdmin() {
		return nil, httperr.Forbidden("not your request")
	}
	resp := entities.ToBookingResponse(*b, s.now())
	return &resp, nil
}

// Approve moves a PENDING request to APPROVED. The conflict re-check runs
// inside the repository transaction. Notification is fire-and-forget: once
// the transition commits, nothing rolls it back.
func (s *BookingService) Approve(caller auth.Caller, id int) (*entities.BookingResponse, error) {
	if !caller.IsAdmin() {
		return nil, httperr.Forbidden("admin role required")
	}

	err := s.bookings.Approve(id, s.now())
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, httperr.NotFound("request not found")
	case errors.Is(err, repository.ErrNotPending):
		return nil, httperr.Conflict("", "request is not pending")
	case errors.Is(err, repository.ErrConflictingApproval):
		return nil, httperr.Conflict(httperr.CodeBookingConflict, "vehicle already has a conflicting approved request")
	case err != nil:
		s.log.Error("approve booking", zap.Int("id", id), zap.Error(err))
		return nil, httperr.Internal()
	}

	approved, err := s.getBooking(id)
	if err != nil {
		return nil, err
	}
	s.notifier.BookingApproved(*approved)

	resp := entities.ToBookingResponse(*approved, s.now())
	return &resp, nil
}

// Reject moves a PENDING request to REJECTED. A reason is mandatory.
func (s *BookingService) Reject(caller auth.Caller, id int, reason string) (*entities.BookingResponse, error) {
	if !caller.IsAdmin() {
		return nil, httperr.Forbidden("admin role required")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, httperr.Validation("reason", "rejection reason is required")
	}

	if _, err := s.getBooking(id); err != nil {
		return nil, err
	}

	err := s.bookings.Reject(id, strings.TrimSpace(reason), s.now())
	switch {
	case errors.Is(err, repository.ErrNotPending):
		return nil, httperr.Conflict("", "request is not pending")
	case err != nil:
		s.log.Error("reject booking", zap.Int("id", id), zap.Error(err))
		return nil, httperr.Internal()
	}

	return s.respond(id)
}

// Checkout completes an APPROVED request. The requester may return their own
// vehicle; admins may check out any request. checkOutAt is single-use.
func (s *BookingService) Checkout(caller auth.Caller, id int) (*entities.BookingResponse, error) {
	b, err := s.getBooking(id)
	if err != nil {
		return nil, err
	}
	if b.RequesterID != caller.UserID && !caller.IsAdmin() {
		return nil, httperr.Forbidden("not your request")
	}
	if !db.CanTransition(b.Status, db.StatusCompleted) {
		return nil, httperr.Conflict("", "only approved requests can be checked out")
	}
	if b.CheckOutAt != nil {
		return nil, httperr.Conflict(httperr.CodeAlreadyCheckedOut, "request already checked out")
	}

	err = s.bookings.Checkout(id, s.now())
	switch {
	case errors.Is(err, repository.ErrAlreadyCheckedOut):
		// Lost a race with a concurrent checkout.
		return nil, httperr.Conflict(httperr.CodeAlreadyCheckedOut, "request already checked out")
	case err != nil:
		s.log.Error("checkout booking", zap.Int("id", id), zap.Error(err))
		return nil, httperr.Internal()
	}

	return s.respond(id)
}

// ExpireStalePending cancels PENDING requests whose end time has passed.
// Best-effort and idempotent; failures are logged, never surfaced.
func (s *BookingService) ExpireStalePending() {
	n, err := s.bookings.ExpirePending(s.now())
	if err != nil {
		s.log.Error("expire stale pending requests", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("cancelled stale pending requests", zap.Int64("count", n))
	}
}

// VehicleStatus classifies a user against their APPROVED, unreturned
// requests: currently in use, overdue, or neither. A current-usage match
// wins immediately and stops the scan.
func (s *BookingService) VehicleStatus(userID int) (*entities.UserVehicleStatus, error) {
	rows, err := s.bookings.ListApprovedUnreturnedByUser(userID)
	if err != nil {
		s.log.Error("user vehicle status", zap.Int("user_id", userID), zap.Error(err))
		return nil, httperr.Internal()
	}

	now := s.now()
	var overdue *entities.UserVehicleStatus
	for _, b := range rows {
		if !now.Before(b.StartTime) && now.Before(b.EndTime) {
			return &entities.UserVehicleStatus{
				State:       entities.UsageInUse,
				BookingCode: b.Code,
				VehicleName: b.VehicleName,
			}, nil
		}
		if overdue == nil && !now.Before(b.EndTime) {
			overdue = &entities.UserVehicleStatus{
				State:          entities.UsageOverdue,
				BookingCode:    b.Code,
				VehicleName:    b.VehicleName,
				MinutesOverdue: int(now.Sub(b.EndTime).Minutes()),
			}
		}
	}
	if overdue != nil {
		return overdue, nil
	}
	return &entities.UserVehicleStatus{State: entities.UsageNone}, nil
}

func (s *BookingService) getBooking(id int) (*db.BookingRequest, error) {
	b, err := s.bookings.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, httperr.NotFound("request not found")
		}
		s.log.Error("get booking", zap.Int("id", id), zap.Error(err))
		return nil, httperr.Internal()
	}
	return b, nil
}

func (s *BookingService) respond(id int) (*entities.BookingResponse, error) {
	b, err := s.getBooking(id)
	if err != nil {
		return nil, err
	}
	resp := entities.ToBookingResponse(*b, s.now())
	return &resp, nil
}

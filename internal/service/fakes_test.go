package service

import (
	"context"
	"sync"
	"time"

	"tamvems/internal/db"
	"tamvems/internal/entities"
	"tamvems/internal/repository"

	"go.uber.org/zap"
)

// In-memory repositories mirroring the SQL predicates, so the services can
// be exercised without a database.

type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int
	bookings map[int]*db.BookingRequest
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{nextID: 1, bookings: make(map[int]*db.BookingRequest)}
}

func (f *fakeBookingRepo) add(b db.BookingRequest) *db.BookingRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = f.nextID
	f.nextID++
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	f.bookings[b.ID] = &b
	return &b
}

func (f *fakeBookingRepo) Create(req *db.BookingRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req.ID = f.nextID
	f.nextID++
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	cp := *req
	f.bookings[req.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) GetByID(id int) (*db.BookingRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) List(filter repository.BookingFilter) ([]db.BookingRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.BookingRequest
	for _, b := range f.bookings {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.RequesterID != 0 && b.RequesterID != filter.RequesterID {
			continue
		}
		if filter.From != nil && b.StartTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !b.StartTime.Before(*filter.To) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBookingRepo) ListApprovedOverlapping(start, end time.Time) ([]db.BookingRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.BookingRequest
	for _, b := range f.bookings {
		if b.Status == db.StatusApproved && Overlaps(b.StartTime, b.EndTime, start, end) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListApprovedUnreturned() ([]db.BookingRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.BookingRequest
	for _, b := range f.bookings {
		if b.Status == db.StatusApproved && b.CheckOutAt == nil {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListApprovedUnreturnedByUser(userID int) ([]db.BookingRequest, error) {
	all, _ := f.ListApprovedUnreturned()
	var out []db.BookingRequest
	for _, b := range all {
		if b.RequesterID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) CountPendingOverlapping(start, end time.Time) (map[int]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[int]int)
	for _, b := range f.bookings {
		if b.Status == db.StatusPending && Overlaps(b.StartTime, b.EndTime, start, end) {
			counts[b.VehicleID]++
		}
	}
	return counts, nil
}

func (f *fakeBookingRepo) CountCreatedBetweenByDivision(division string, from, to time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.bookings {
		if b.RequesterDivision == division && !b.CreatedAt.Before(from) && b.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) Approve(id int, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if b.Status != db.StatusPending {
		return repository.ErrNotPending
	}
	for _, other := range f.bookings {
		if other.ID == id || other.VehicleID != b.VehicleID || other.Status != db.StatusApproved {
			continue
		}
		if other.CheckOutAt == nil || Overlaps(other.StartTime, other.EndTime, b.StartTime, b.EndTime) {
			return repository.ErrConflictingApproval
		}
	}
	b.Status = db.StatusApproved
	b.ApprovedAt = &at
	return nil
}

func (f *fakeBookingRepo) Reject(id int, reason string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != db.StatusPending {
		return repository.ErrNotPending
	}
	b.Status = db.StatusRejected
	b.RejectionReason = &reason
	b.RejectedAt = &at
	return nil
}

func (f *fakeBookingRepo) Checkout(id int, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != db.StatusApproved || b.CheckOutAt != nil {
		return repository.ErrAlreadyCheckedOut
	}
	b.Status = db.StatusCompleted
	b.CheckOutAt = &at
	return nil
}

func (f *fakeBookingRepo) ExpirePending(now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, b := range f.bookings {
		if b.Status == db.StatusPending && b.EndTime.Before(now) {
			b.Status = db.StatusCancelled
			n++
		}
	}
	return n, nil
}

type fakeVehicleRepo struct {
	mu       sync.Mutex
	nextID   int
	vehicles map[int]*db.Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{nextID: 1, vehicles: make(map[int]*db.Vehicle)}
}

func (f *fakeVehicleRepo) add(v db.Vehicle) *db.Vehicle {
	f.mu.Lock()
	defer f.mu.Unlock()
	v.ID = f.nextID
	f.nextID++
	f.vehicles[v.ID] = &v
	return &v
}

func (f *fakeVehicleRepo) Create(v *db.Vehicle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v.ID = f.nextID
	f.nextID++
	cp := *v
	f.vehicles[v.ID] = &cp
	return nil
}

func (f *fakeVehicleRepo) GetByID(id int) (*db.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVehicleRepo) Update(v *db.Vehicle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.vehicles[v.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *v
	f.vehicles[v.ID] = &cp
	return nil
}

func (f *fakeVehicleRepo) SetActive(id int, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vehicles[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.IsActive = active
	return nil
}

func (f *fakeVehicleRepo) SetImageURL(id int, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vehicles[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.ImageURL = &url
	return nil
}

func (f *fakeVehicleRepo) List(onlyActive bool) ([]db.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Vehicle
	for id := 1; id < f.nextID; id++ {
		v, ok := f.vehicles[id]
		if !ok {
			continue
		}
		if onlyActive && !v.IsActive {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (f *fakeVehicleRepo) PlateExists(plate string, excludeID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.vehicles {
		if v.Plate == plate && v.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*db.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]*db.User)}
}

func (f *fakeUserRepo) add(u db.User) *db.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = f.nextID
	f.nextID++
	f.users[u.ID] = &u
	return &u
}

func (f *fakeUserRepo) Create(u *db.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = f.nextID
	f.nextID++
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(id int) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && u.DeletedAt == nil {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(u *db.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdatePassword(id int, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) SoftDelete(id int, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.DeletedAt = &at
	return nil
}

func (f *fakeUserRepo) List() ([]db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.User
	for _, u := range f.users {
		if u.DeletedAt == nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) EmailExists(email string, excludeID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && u.ID != excludeID && u.DeletedAt == nil {
			return true, nil
		}
	}
	return false, nil
}

type fakeUploader struct {
	fail bool
	urls []string
}

func (f *fakeUploader) UploadDocument(ctx context.Context, u *entities.Upload) (string, error) {
	return f.upload(u)
}

func (f *fakeUploader) UploadPhoto(ctx context.Context, u *entities.Upload) (string, error) {
	return f.upload(u)
}

func (f *fakeUploader) upload(u *entities.Upload) (string, error) {
	if f.fail {
		return "", context.DeadlineExceeded
	}
	url := "https://media.example/" + u.Filename
	f.urls = append(f.urls, url)
	return url, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	approved []string
}

func (f *fakeNotifier) BookingApproved(b db.BookingRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.approved = append(f.approved, b.Code)
}

func (f *fakeNotifier) codes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.approved...)
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

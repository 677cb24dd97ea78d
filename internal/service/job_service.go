package service

import (
	"go.uber.org/zap"
)

// JobService hosts the scheduled maintenance work. The expire sweep also
// runs opportunistically on list reads; the cron schedule covers quiet
// periods when no one is querying.
type JobService struct {
	bookings *BookingService
	log      *zap.Logger
}

func NewJobService(bookings *BookingService, log *zap.Logger) *JobService {
	return &JobService{bookings: bookings, log: log}
}

// ExpireStaleRequests is the cron entrypoint. Safe to run concurrently with
// the read-path sweep: the underlying update only matches rows still
// PENDING and past their end time.
func (s *JobService) ExpireStaleRequests() {
	s.log.Debug("cron: expiring stale pending requests")
	s.bookings.ExpireStalePending()
}

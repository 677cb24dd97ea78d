package service

import (
	"time"

	"tamvems/internal/httperr"
	"tamvems/internal/repository"
	"tamvems/internal/utils"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportService renders the booking table to a spreadsheet for admin
// reporting. Read-only; the lifecycle state is untouched.
type ExportService struct {
	bookings repository.BookingRepository
	log      *zap.Logger
}

func NewExportService(bookings repository.BookingRepository, log *zap.Logger) *ExportService {
	return &ExportService{bookings: bookings, log: log}
}

var exportHeader = []string{
	"Code", "Vehicle", "Plate", "Requester", "Division", "Destination",
	"Start", "End", "Status", "Checked Out At",
}

// BookingsWorkbook builds an xlsx of requests whose start falls in
// [from, to). Times are rendered in local wall-clock time.
func (s *ExportService) BookingsWorkbook(from, to time.Time) (*excelize.File, error) {
	rows, err := s.bookings.List(repository.BookingFilter{From: &from, To: &to})
	if err != nil {
		s.log.Error("export: list bookings", zap.Error(err))
		return nil, httperr.Internal()
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	now := time.Now()

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for i, b := range rows {
		checkedOut := ""
		if b.CheckOutAt != nil {
			checkedOut = utils.FormatLocal(*b.CheckOutAt)
		}
		values := []interface{}{
			b.Code, b.VehicleName, b.VehiclePlate, b.RequesterName, b.RequesterDivision,
			b.Destination, utils.FormatLocal(b.StartTime), utils.FormatLocal(b.EndTime),
			string(b.DisplayStatus(now)), checkedOut,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f, nil
}

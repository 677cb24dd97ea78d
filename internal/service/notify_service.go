package service

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"tamvems/internal/db"
	"tamvems/internal/entities"
	"tamvems/internal/utils"

	"go.uber.org/zap"
)

// NotifyService builds and dispatches approval notifications. Delivery runs
// on a goroutine after the state change has committed; failures are logged
// and never reach the caller.
type NotifyService struct {
	sender *SenderService
	log    *zap.Logger
}

func NewNotifyService(sender *SenderService, log *zap.Logger) *NotifyService {
	return &NotifyService{sender: sender, log: log}
}

// BookingApproved emails the requester the booking details, plus an SMS
// heads-up when a phone number is on file.
func (n *NotifyService) BookingApproved(b db.BookingRequest) {
	data := entities.BookingEmailData{
		UserName:           b.RequesterName,
		BookingCode:        b.Code,
		VehicleName:        b.VehicleName,
		VehiclePlate:       b.VehiclePlate,
		Destination:        b.Destination,
		StartTimeFormatted: utils.FormatLocal(b.StartTime),
		EndTimeFormatted:   utils.FormatLocal(b.EndTime),
		CurrentYear:        time.Now().In(utils.BusinessLocation()).Year(),
	}

	subject := fmt.Sprintf("Your vehicle booking is approved - %s", data.BookingCode)
	plainBody := fmt.Sprintf(
		"Hello %s,\n\nYour vehicle booking request has been approved.\n\n"+
			"Booking Details:\n"+
			"Booking Code: %s\n"+
			"Vehicle: %s (Plate: %s)\n"+
			"Destination: %s\n"+
			"Start: %s\n"+
			"End: %s\n\n"+
			"Please return the vehicle on time.\n",
		data.UserName, data.BookingCode, data.VehicleName, data.VehiclePlate,
		data.Destination, data.StartTimeFormatted, data.EndTimeFormatted,
	)

	htmlBody := n.renderHTML(data)

	go func(toEmail, toName string) {
		if err := n.sender.SendEmail(toEmail, toName, subject, plainBody, htmlBody); err != nil {
			n.log.Warn("approval email failed",
				zap.String("booking_code", data.BookingCode),
				zap.Error(err))
		}
	}(b.RequesterEmail, b.RequesterName)

	if b.RequesterPhone != nil && *b.RequesterPhone != "" {
		sms := fmt.Sprintf("TamVems: booking %s approved. Vehicle %s, start %s. Details in your email.",
			data.BookingCode, data.VehicleName, data.StartTimeFormatted)
		go func(toNumber string) {
			if err := n.sender.SendSMS(toNumber, sms); err != nil {
				n.log.Warn("approval SMS failed",
					zap.String("booking_code", data.BookingCode),
					zap.Error(err))
			}
		}(*b.RequesterPhone)
	}
}

func (n *NotifyService) renderHTML(data entities.BookingEmailData) string {
	tmplPath := filepath.Join("internal", "templates", "booking_email.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		n.log.Warn("parse email template", zap.String("path", tmplPath), zap.Error(err))
		return ""
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		n.log.Warn("render email template", zap.String("booking_code", data.BookingCode), zap.Error(err))
		return ""
	}
	return buf.String()
}

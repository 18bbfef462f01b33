package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/kraakman/autoservice-backend/internal/app/model"
	"github.com/kraakman/autoservice-backend/pkg/logger"
	"github.com/kraakman/autoservice-backend/pkg/mail"
)

var ErrMailFailed = errors.New("failed to send mail")

// Mailer sends one transactional mail.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) (string, error)
}

// TestDriveRequest is a proefrit request from the vehicle detail page.
type TestDriveRequest struct {
	Name    string
	Email   string
	Phone   string
	Message string
	CarID   uint
}

// ContactMessage is a general inquiry from the contact page.
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

type ContactService interface {
	SendTestDriveRequest(ctx context.Context, req TestDriveRequest) error
	SendContactMessage(ctx context.Context, msg ContactMessage) error
}

type contactService struct {
	mailer        Mailer
	carService    CarService
	businessEmail string
}

func NewContactService(mailer Mailer, carService CarService, businessEmail string) ContactService {
	return &contactService{
		mailer:        mailer,
		carService:    carService,
		businessEmail: businessEmail,
	}
}

// SendTestDriveRequest mails the request to the garage and a confirmation
// to the customer. The customer confirmation is best-effort: the request
// succeeded once the garage has it.
func (s *contactService) SendTestDriveRequest(ctx context.Context, req TestDriveRequest) error {
	car, err := s.carService.GetCarByID(req.CarID)
	if err != nil {
		return err
	}

	carName := fmt.Sprintf("%s %s", car.Merk, car.Model)

	notification := mail.Message{
		To:      s.businessEmail,
		ReplyTo: req.Email,
		Subject: fmt.Sprintf("Proefrit aanvraag: %s", carName),
		HTML:    testDriveNotificationHTML(req, car),
	}
	if _, err := s.mailer.Send(ctx, notification); err != nil {
		logger.Error("Failed to send test drive notification", err, map[string]interface{}{
			"car_id": req.CarID,
		})
		return fmt.Errorf("%w: %v", ErrMailFailed, err)
	}

	confirmation := mail.Message{
		To:      req.Email,
		Subject: fmt.Sprintf("Bevestiging proefrit aanvraag - %s", carName),
		HTML:    testDriveConfirmationHTML(req, car),
	}
	if _, err := s.mailer.Send(ctx, confirmation); err != nil {
		logger.Warn("Failed to send test drive confirmation to customer", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Test drive request sent", map[string]interface{}{
		"car_id": req.CarID,
		"merk":   car.Merk,
		"model":  car.Model,
	})
	return nil
}

// SendContactMessage relays a general inquiry to the garage inbox.
func (s *contactService) SendContactMessage(ctx context.Context, msg ContactMessage) error {
	subject := msg.Subject
	if subject == "" {
		subject = "Bericht via de website"
	}

	message := mail.Message{
		To:      s.businessEmail,
		ReplyTo: msg.Email,
		Subject: fmt.Sprintf("Contactformulier: %s", subject),
		HTML:    contactMessageHTML(msg),
	}
	if _, err := s.mailer.Send(ctx, message); err != nil {
		logger.Error("Failed to send contact message", err)
		return fmt.Errorf("%w: %v", ErrMailFailed, err)
	}

	logger.Info("Contact message sent", map[string]interface{}{
		"subject": subject,
	})
	return nil
}

func testDriveNotificationHTML(req TestDriveRequest, car *model.Car) string {
	var b strings.Builder
	b.WriteString("<h2>Nieuwe proefrit aanvraag</h2>")
	b.WriteString(fmt.Sprintf("<p><strong>Auto:</strong> %s %s (%d)</p>",
		html.EscapeString(car.Merk), html.EscapeString(car.Model), car.Bouwjaar))
	b.WriteString(fmt.Sprintf("<p><strong>Prijs:</strong> € %d</p>", car.Prijs))
	b.WriteString("<hr>")
	b.WriteString(fmt.Sprintf("<p><strong>Naam:</strong> %s</p>", html.EscapeString(req.Name)))
	b.WriteString(fmt.Sprintf("<p><strong>E-mail:</strong> %s</p>", html.EscapeString(req.Email)))
	if req.Phone != "" {
		b.WriteString(fmt.Sprintf("<p><strong>Telefoon:</strong> %s</p>", html.EscapeString(req.Phone)))
	}
	if req.Message != "" {
		b.WriteString(fmt.Sprintf("<p><strong>Bericht:</strong><br>%s</p>", html.EscapeString(req.Message)))
	}
	return b.String()
}

func testDriveConfirmationHTML(req TestDriveRequest, car *model.Car) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<h2>Beste %s,</h2>", html.EscapeString(req.Name)))
	b.WriteString(fmt.Sprintf("<p>Bedankt voor uw proefrit aanvraag voor de <strong>%s %s</strong>.</p>",
		html.EscapeString(car.Merk), html.EscapeString(car.Model)))
	b.WriteString("<p>Wij nemen zo snel mogelijk contact met u op om een afspraak in te plannen.</p>")
	b.WriteString("<p>Met vriendelijke groet,<br>Auto Service van der Waals</p>")
	return b.String()
}

func contactMessageHTML(msg ContactMessage) string {
	var b strings.Builder
	b.WriteString("<h2>Nieuw bericht via het contactformulier</h2>")
	b.WriteString(fmt.Sprintf("<p><strong>Naam:</strong> %s</p>", html.EscapeString(msg.Name)))
	b.WriteString(fmt.Sprintf("<p><strong>E-mail:</strong> %s</p>", html.EscapeString(msg.Email)))
	if msg.Phone != "" {
		b.WriteString(fmt.Sprintf("<p><strong>Telefoon:</strong> %s</p>", html.EscapeString(msg.Phone)))
	}
	b.WriteString(fmt.Sprintf("<p><strong>Bericht:</strong><br>%s</p>", html.EscapeString(msg.Message)))
	return b.String()
}

package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"
	"github.com/tripgo/booking-backend/internal/config"
	"github.com/tripgo/booking-backend/internal/models"
	"gopkg.in/gomail.v2"
)

var invoiceEmailTemplate = template.Must(template.New("invoice").Parse(`
<h2>Pembayaran Berhasil</h2>
<p>Terima kasih, pembayaran untuk pesanan <strong>{{.BookingCode}}</strong> telah kami terima.</p>
<table>
  <tr><td>Nomor Invoice</td><td>{{.InvoiceNumber}}</td></tr>
  <tr><td>Kode Booking</td><td>{{.BookingCode}}</td></tr>
  <tr><td>Total</td><td>Rp {{printf "%.0f" .Amount}}</td></tr>
</table>
<p>Tiket Anda dapat diunduh melalui aplikasi TripGo.</p>
`))

type invoiceEmailData struct {
	BookingCode   string
	InvoiceNumber string
	Amount        float64
}

// MailerService sends transactional email. It is disabled (all sends are
// no-ops) when SMTP is not configured, so local and test environments
// run without a mail relay.
type MailerService struct {
	cfg    config.SMTPConfig
	logger *logrus.Logger
}

// NewMailerService creates a new MailerService
func NewMailerService(cfg config.SMTPConfig, logger *logrus.Logger) *MailerService {
	return &MailerService{cfg: cfg, logger: logger}
}

// Enabled reports whether SMTP is configured
func (s *MailerService) Enabled() bool {
	return s.cfg.Host != ""
}

// SendInvoice emails the settlement invoice to the customer
func (s *MailerService) SendInvoice(to string, booking *models.Booking, invoice *models.Invoice) error {
	if !s.Enabled() {
		return nil
	}

	var body bytes.Buffer
	err := invoiceEmailTemplate.Execute(&body, invoiceEmailData{
		BookingCode:   booking.BookingCode,
		InvoiceNumber: invoice.InvoiceNumber,
		Amount:        invoice.Amount,
	})
	if err != nil {
		return fmt.Errorf("failed to render invoice email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Invoice "+invoice.InvoiceNumber+" - TripGo")
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send invoice email: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"to":      to,
		"invoice": invoice.InvoiceNumber,
	}).Info("Invoice email sent")
	return nil
}

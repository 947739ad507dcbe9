// Package notify delivers tickets to customers by email.  Delivery is
// best effort and runs after the booking is committed; a dead SMTP
// server never fails a booking.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
	"gopkg.in/gomail.v2"

	"github.com/ExplorerSKD/BookMyShows/internal/model"
)

// SMTPConfig holds mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends booking confirmation emails with the ticket QR code
// embedded inline.
type Mailer struct {
	cfg SMTPConfig
}

func NewMailer(cfg SMTPConfig) *Mailer { return &Mailer{cfg: cfg} }

var ticketTmpl = template.Must(template.New("ticket").Parse(`
<h2>Your booking is confirmed</h2>
<p><strong>{{.MovieTitle}}</strong><br>
{{.CinemaName}} · {{.ScreenName}}<br>
{{.StartsAt}}</p>
<p>Seats: {{.Seats}}<br>
Total: {{.Total}}</p>
<p>Show this code at the entrance:</p>
<p><img src="cid:ticket-qr.png" alt="{{.Code}}"></p>
<p>Ticket code: <code>{{.Code}}</code></p>
`))

type ticketData struct {
	MovieTitle string
	CinemaName string
	ScreenName string
	StartsAt   string
	Seats      string
	Total      string
	Code       string
}

// BookingConfirmed renders the ticket email and sends it.  The QR code
// encodes the full booking code, the same value staff scanners accept.
func (m *Mailer) BookingConfirmed(_ context.Context, email string, b *model.Booking, show *model.Show) error {
	png, err := qrcode.Encode(b.Code, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode qr: %w", err)
	}

	var body bytes.Buffer
	err = ticketTmpl.Execute(&body, ticketData{
		MovieTitle: show.MovieTitle,
		CinemaName: show.CinemaName,
		ScreenName: show.ScreenName,
		StartsAt:   show.StartsAt.UTC().Format(time.RFC1123),
		Seats:      strings.Join(b.Seats, ", "),
		Total:      fmt.Sprintf("%.2f", float64(b.TotalAmountCents)/100),
		Code:       b.Code,
	})
	if err != nil {
		return fmt.Errorf("render ticket email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Your ticket for "+show.MovieTitle)
	msg.SetBody("text/html", body.String())
	msg.Embed("ticket-qr.png", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(png)
		return err
	}))

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return d.DialAndSend(msg)
}

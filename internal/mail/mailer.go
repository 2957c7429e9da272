// Package mail sends transactional email over SMTP. OTP and reset-code
// sends propagate failures (the recipient cannot proceed without the code);
// everything else is best-effort at the call site.
package mail

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"time"

	"github.com/voyage/server/internal/model"
)

// Mailer is the outbound notification capability consumed by the auth flows
// and the booking/contact handlers.
type Mailer interface {
	SendOTP(to, code string) error
	SendAdminResetCode(to, code string) error
	SendBookingConfirmation(to string, booking model.Request) error
	SendAdminResponse(to, name, subject, responseText string) error
}

// SMTPMailer sends mail through a single SMTP endpoint. Port 465 uses
// implicit TLS; other ports go through smtp.SendMail, which upgrades via
// STARTTLS when the server offers it.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer creates a mailer. The From header uses the authenticated
// account address.
func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     username,
	}
}

var otpTmpl = template.Must(template.New("otp").Parse(`
<div style="font-family: Arial, sans-serif; color: #333; padding: 20px; max-width: 600px; margin: auto;">
  <h2 style="color: #0d9488; text-align: center;">Welcome to Voyage!</h2>
  <p style="text-align: center;">Thank you for registering. Please use the following One-Time Password (OTP) to verify your email address:</p>
  <p style="font-size: 32px; font-weight: bold; letter-spacing: 8px; text-align: center; margin: 30px 0; color: #0d9488;">{{.Code}}</p>
  <p style="text-align: center; font-size: 14px;">This code is valid for 10 minutes.</p>
  <p style="text-align: center; font-size: 12px; color: #777;">If you did not request this, please ignore this email.</p>
</div>`))

var resetTmpl = template.Must(template.New("reset").Parse(`
<div style="font-family: Arial, sans-serif; color: #333; padding: 20px; max-width: 600px; margin: auto;">
  <h2 style="color: #0d9488; text-align: center;">Voyage Password Reset</h2>
  <p style="text-align: center;">Use the following code to reset your administrator password:</p>
  <p style="font-size: 32px; font-weight: bold; letter-spacing: 8px; text-align: center; margin: 30px 0; color: #0d9488;">{{.Code}}</p>
  <p style="text-align: center; font-size: 14px;">This code is valid for 10 minutes.</p>
</div>`))

var bookingTmpl = template.Must(template.New("booking").Parse(`
<div style="font-family: Arial, sans-serif; color: #333; line-height: 1.6; max-width: 600px; margin: auto;">
  <h1 style="color: #0d9488; text-align: center;">Booking Confirmed!</h1>
  <h2>Thank You for Your Booking, {{.ClientName}}!</h2>
  <p>We are thrilled to confirm your adventure with Voyage. Get ready for an unforgettable experience with <strong>{{.PackageName}}</strong>!</p>
  <h3>Your Trip Details:</h3>
  <ul>
    <li><strong>Package:</strong> {{.PackageName}}</li>
    <li><strong>Date:</strong> {{.TravelDate.Format "02 Jan 2006"}}</li>
    <li><strong>Number of Guests:</strong> {{.Guests}}</li>
    <li><strong>Total Amount Paid:</strong> {{printf "%.2f" .TotalAmount}}</li>
    <li><strong>Transaction ID:</strong> {{.TransactionID}}</li>
  </ul>
  <p style="text-align: center; margin-top: 30px;">We wish you a fantastic and memorable journey!</p>
  <p><strong>The Voyage Team</strong></p>
</div>`))

var responseTmpl = template.Must(template.New("response").Parse(`
<div style="font-family: sans-serif; color: #333; line-height: 1.6;">
  <h3>Hello {{.Name}},</h3>
  <p>Thank you for contacting Voyage. Here is the response to your query:</p>
  <div style="background-color: #f9f9f9; border-left: 4px solid #0d9488; padding: 15px; margin: 20px 0;">
    <p>{{.Response}}</p>
  </div>
  <p>If you have any further questions, please feel free to reply to this email.</p>
  <p>Best regards,</p>
  <p><strong>The Voyage Support Team</strong></p>
</div>`))

// SendOTP mails a registration verification code.
func (m *SMTPMailer) SendOTP(to, code string) error {
	var body bytes.Buffer
	if err := otpTmpl.Execute(&body, struct{ Code string }{code}); err != nil {
		return fmt.Errorf("render otp mail: %w", err)
	}
	return m.send(to, "Your Verification Code for Voyage", body.Bytes())
}

// SendAdminResetCode mails an administrator password reset code.
func (m *SMTPMailer) SendAdminResetCode(to, code string) error {
	var body bytes.Buffer
	if err := resetTmpl.Execute(&body, struct{ Code string }{code}); err != nil {
		return fmt.Errorf("render reset mail: %w", err)
	}
	return m.send(to, "Voyage Admin Password Reset", body.Bytes())
}

// SendBookingConfirmation mails the trip summary for a new booking.
func (m *SMTPMailer) SendBookingConfirmation(to string, booking model.Request) error {
	var body bytes.Buffer
	if err := bookingTmpl.Execute(&body, booking); err != nil {
		return fmt.Errorf("render booking mail: %w", err)
	}
	subject := fmt.Sprintf("Your Voyage Booking for %s is Confirmed!", booking.PackageName)
	return m.send(to, subject, body.Bytes())
}

// SendAdminResponse mails the admin's reply to a contact message.
func (m *SMTPMailer) SendAdminResponse(to, name, subject, responseText string) error {
	var body bytes.Buffer
	err := responseTmpl.Execute(&body, struct {
		Name     string
		Response string
	}{name, responseText})
	if err != nil {
		return fmt.Errorf("render response mail: %w", err)
	}
	return m.send(to, "Re: "+subject, body.Bytes())
}

func (m *SMTPMailer) send(to, subject string, htmlBody []byte) error {
	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: \"Voyage\" <%s>\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if m.port == 465 {
		return m.sendImplicitTLS(addr, auth, to, msg.Bytes())
	}
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// sendImplicitTLS handles the port-465 case where the connection is TLS from
// the first byte, which smtp.SendMail does not support.
func (m *SMTPMailer) sendImplicitTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: m.host})
	if err != nil {
		return fmt.Errorf("smtp tls dial: %w", err)
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return fmt.Errorf("smtp new client: %w", err)
	}
	defer c.Quit()

	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(m.from); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp RCPT TO %s: %w", to, err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return nil
}

package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strconv"

	"gopkg.in/gomail.v2"

	"ordnery-backend/config"
	"ordnery-backend/models"
)

const fromName = "The Ordnery"

// Mailer sends transactional email over SMTP. Every send is best-effort:
// callers log failures and move on.
type Mailer struct {
	dialer      *gomail.Dialer
	from        string
	frontendURL string
}

func New(cfg *config.Config) *Mailer {
	port, err := strconv.Atoi(cfg.EmailPort)
	if err != nil {
		port = 587
	}
	return &Mailer{
		dialer:      gomail.NewDialer(cfg.EmailHost, port, cfg.EmailUser, cfg.EmailPass),
		from:        cfg.EmailUser,
		frontendURL: cfg.FrontendURL,
	}
}

// Verify dials the SMTP server once at boot to catch DNS and credential
// problems early. Failure is logged, never fatal.
func (m *Mailer) Verify() {
	closer, err := m.dialer.Dial()
	if err != nil {
		log.Printf("[MAILER] SMTP verify failed: %v", err)
		return
	}
	_ = closer.Close()
	log.Printf("[MAILER] SMTP connection verified.")
}

// SendOrderConfirmation emails the order summary with a tracking link.
func (m *Mailer) SendOrderConfirmation(to string, conf models.OrderConfirmation) error {
	data := struct {
		models.OrderConfirmation
		TrackURL string
	}{conf, m.frontendURL + "/track/" + conf.TrackingID}

	var body bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&body, data); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Reply-To", "support@theordnery.com")
	msg.SetHeader("Subject", fmt.Sprintf("Your Order Confirmation - #%d", conf.OrderID))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Thanks for your purchase! Order #%d. Track: %s. Total: PKR %.2f. Ship to: %s",
		conf.OrderID, data.TrackURL, conf.TotalPrice, conf.ShippingAddress))
	msg.AddAlternative("text/html", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		return err
	}
	log.Printf("[MAILER] Sent order confirmation for order %d to %s", conf.OrderID, to)
	return nil
}

// SendVerificationEmail emails the account verification link.
func (m *Mailer) SendVerificationEmail(to, link string) error {
	var body bytes.Buffer
	if err := verificationTmpl.Execute(&body, struct{ Link string }{link}); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Verify Your Account for The Ordnery")
	msg.SetBody("text/html", body.String())
	return m.dialer.DialAndSend(msg)
}

// SendPasswordResetEmail emails the password reset link.
func (m *Mailer) SendPasswordResetEmail(to, name, link string) error {
	if name == "" {
		name = "Customer"
	}
	var body bytes.Buffer
	if err := resetTmpl.Execute(&body, struct{ Name, Link string }{name, link}); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password Reset for The Ordnery")
	msg.SetBody("text/html", body.String())
	return m.dialer.DialAndSend(msg)
}

var orderConfirmationTmpl = template.Must(template.New("order").Parse(`<!doctype html>
<html>
<body style="margin:0;padding:0;background:#f6f7fb;">
  <table role="presentation" cellpadding="0" cellspacing="0" width="100%" style="background:#f6f7fb;">
    <tr><td align="center" style="padding:24px;">
      <table role="presentation" cellpadding="0" cellspacing="0" width="600" style="background:#ffffff;border:1px solid #e9e9ef;border-radius:8px;">
        <tr><td style="padding:28px 28px 4px 28px;">
          <h2 style="margin:0 0 8px 0;font:700 22px/28px Arial,sans-serif;color:#111;">Order Placed Successfully!</h2>
          <p style="margin:0 0 20px 0;font:14px/20px Arial,sans-serif;color:#555;">
            Thank you for your purchase. Your order <strong>#{{.OrderID}}</strong> is now being processed.
          </p>
        </td></tr>
        <tr><td align="center" style="padding:0 28px 24px 28px;">
          <a href="{{.TrackURL}}" style="display:inline-block;padding:12px 18px;background:#000;color:#fff;text-decoration:none;border-radius:6px;font:700 14px Arial,sans-serif;">Track Order</a>
        </td></tr>
        <tr><td style="padding:0 28px;">
          <h3 style="margin:0 0 10px 0;font:700 16px/22px Arial,sans-serif;color:#111;">Order Summary</h3>
          <table role="presentation" cellpadding="0" cellspacing="0" width="100%" style="border-collapse:collapse;">
            <thead><tr>
              <th align="left" style="padding:0 0 8px 0;border-bottom:2px solid #111;font:700 12px Arial,sans-serif;color:#111;">PRODUCT</th>
              <th align="center" style="padding:0 0 8px 0;border-bottom:2px solid #111;font:700 12px Arial,sans-serif;color:#111;">QTY</th>
              <th align="right" style="padding:0 0 8px 0;border-bottom:2px solid #111;font:700 12px Arial,sans-serif;color:#111;">PRICE</th>
            </tr></thead>
            <tbody>
            {{range .Items}}
              <tr>
                <td style="padding:12px 0;border-bottom:1px solid #eee;font:14px Arial,sans-serif;color:#222;font-weight:600;">
                  {{if .ImageSrc}}<img src="{{.ImageSrc}}" alt="{{.Name}}" width="60" height="60" style="border-radius:4px;object-fit:cover;vertical-align:middle;margin-right:12px;">{{end}}{{.Name}}
                </td>
                <td align="center" style="padding:12px 0;border-bottom:1px solid #eee;font:14px Arial,sans-serif;color:#555;">{{.Quantity}}</td>
                <td align="right" style="padding:12px 0;border-bottom:1px solid #eee;font:14px Arial,sans-serif;color:#222;">PKR {{printf "%.2f" .Price}}</td>
              </tr>
            {{end}}
            </tbody>
            <tfoot><tr>
              <td colspan="2" align="right" style="padding:16px 0 0 0;font:700 14px Arial,sans-serif;color:#111;">Total:</td>
              <td align="right" style="padding:16px 0 0 0;font:700 14px Arial,sans-serif;color:#111;">PKR {{printf "%.2f" .TotalPrice}}</td>
            </tr></tfoot>
          </table>
        </td></tr>
        <tr><td style="padding:20px 28px 28px 28px;">
          <h3 style="margin:0 0 10px 0;font:700 16px/22px Arial,sans-serif;color:#111;">Shipping Address</h3>
          <div style="background:#f8f9fb;border:1px solid #e9e9ef;border-radius:6px;padding:12px;">
            <p style="margin:0;font:14px/20px Arial,sans-serif;color:#444;">{{.ShippingAddress}}</p>
          </div>
        </td></tr>
        <tr><td align="center" style="background:#f1f3f8;padding:16px;font:12px Arial,sans-serif;color:#888;">
          © The Ordnery. All rights reserved.
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

var verificationTmpl = template.Must(template.New("verify").Parse(`<p>Dear User,</p>
<p>Thank you for registering with The Ordnery!</p>
<p>Please click on the following link to verify your email and set your password:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>This link will expire in 1 hour.</p>
<p>If you did not register for this account, please ignore this email.</p>
<p>Best regards,<br/>The Ordnery Team</p>`))

var resetTmpl = template.Must(template.New("reset").Parse(`<p>Dear {{.Name}},</p>
<p>You requested a password reset. Click the link to set a new password:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>This link will expire in 1 hour.</p>
<p>If you did not request this, please ignore this email.</p>
<p>Best regards,<br/>The Ordnery Team</p>`))

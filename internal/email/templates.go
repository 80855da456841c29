package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// templateData carries the fields the message templates interpolate.
type templateData struct {
	Name      string
	Link      string
	OTP       string
	Device    string
	Location  string
	Timestamp string
	Year      int
}

const baseStyle = `
    .container { font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #2563eb; color: white; padding: 20px; text-align: center; border-radius: 5px; }
    .content { padding: 20px; background: #f8fafc; border-radius: 5px; margin-top: 20px; }
    .button { background: #2563eb; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px; display: inline-block; margin: 20px 0; }
    .otp { font-size: 32px; letter-spacing: 8px; font-weight: bold; text-align: center; margin: 20px 0; }
    .footer { text-align: center; margin-top: 20px; color: #64748b; font-size: 12px; }`

var verifyEmailTmpl = template.Must(template.New("verify").Parse(`<!DOCTYPE html>
<html>
<head><style>` + baseStyle + `</style></head>
<body>
  <div class="container">
    <div class="header"><h1>Welcome to Our Platform!</h1></div>
    <div class="content">
      <h2>Hello {{.Name}},</h2>
      <p>Thank you for registering with us. Please verify your email address to get started.</p>
      <div style="text-align: center;"><a href="{{.Link}}" class="button">Verify Email Address</a></div>
      <p>This link will expire in 24 hours.</p>
      <p>If you didn't create an account, you can safely ignore this email.</p>
    </div>
    <div class="footer"><p>&copy; {{.Year}} Your E-commerce Platform. All rights reserved.</p></div>
  </div>
</body>
</html>`))

var resetPasswordTmpl = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<head><style>` + baseStyle + `</style></head>
<body>
  <div class="container">
    <div class="header"><h1>Password Reset Request</h1></div>
    <div class="content">
      <h2>Hello {{.Name}},</h2>
      <p>We received a request to reset your password. Click the button below to create a new password:</p>
      <div style="text-align: center;"><a href="{{.Link}}" class="button">Reset Password</a></div>
      <p>This link will expire in 1 hour.</p>
      <p>If you didn't request a password reset, please ignore this email or contact support if you have concerns.</p>
    </div>
    <div class="footer"><p>&copy; {{.Year}} Your E-commerce Platform. All rights reserved.</p></div>
  </div>
</body>
</html>`))

var mfaCodeTmpl = template.Must(template.New("mfa").Parse(`<!DOCTYPE html>
<html>
<head><style>` + baseStyle + `</style></head>
<body>
  <div class="container">
    <div class="header"><h1>Your Login Code</h1></div>
    <div class="content">
      <h2>Hello {{.Name}},</h2>
      <p>Use the code below to finish signing in:</p>
      <div class="otp">{{.OTP}}</div>
      <p>This code will expire in 5 minutes.</p>
      <p>If you didn't try to sign in, please change your password immediately.</p>
    </div>
    <div class="footer"><p>&copy; {{.Year}} Your E-commerce Platform. All rights reserved.</p></div>
  </div>
</body>
</html>`))

var loginAlertTmpl = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html>
<head><style>` + baseStyle + `</style></head>
<body>
  <div class="container">
    <div class="header"><h1>New Login to Your Account</h1></div>
    <div class="content">
      <h2>Hello {{.Name}},</h2>
      <p>We noticed a new login to your account:</p>
      <p><strong>Device:</strong> {{.Device}}<br>
         <strong>Location:</strong> {{.Location}}<br>
         <strong>Time:</strong> {{.Timestamp}}</p>
      <p>If this was you, no action is needed. If you don't recognize this activity, please change your password immediately.</p>
    </div>
    <div class="footer"><p>&copy; {{.Year}} Your E-commerce Platform. All rights reserved.</p></div>
  </div>
</body>
</html>`))

func render(tmpl *template.Template, data templateData) (string, error) {
	data.Year = time.Now().Year()
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// VerifyEmailMessage builds the account verification email.
func VerifyEmailMessage(to, name, link string) (Message, error) {
	html, err := render(verifyEmailTmpl, templateData{Name: name, Link: link})
	return Message{To: to, Subject: "Verify Your Email - E-commerce Platform", HTML: html}, err
}

// ResetPasswordMessage builds the password reset email.
func ResetPasswordMessage(to, name, link string) (Message, error) {
	html, err := render(resetPasswordTmpl, templateData{Name: name, Link: link})
	return Message{To: to, Subject: "Reset Your Password - E-commerce Platform", HTML: html}, err
}

// MfaCodeMessage builds the one-time-password email.
func MfaCodeMessage(to, name, otp string) (Message, error) {
	html, err := render(mfaCodeTmpl, templateData{Name: name, OTP: otp})
	return Message{To: to, Subject: "Your Login Code - E-commerce Platform", HTML: html}, err
}

// LoginAlertMessage builds the new-login notification email.
func LoginAlertMessage(to, name, device, location string, at time.Time) (Message, error) {
	html, err := render(loginAlertTmpl, templateData{
		Name:      name,
		Device:    device,
		Location:  location,
		Timestamp: at.Format("2006-01-02 15:04 MST"),
	})
	return Message{To: to, Subject: "New Login Alert - E-commerce Platform", HTML: html}, err
}

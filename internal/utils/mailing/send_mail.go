package mailing

import (
	"MenuLens/internal/utils"
	"fmt"
	"gopkg.in/gomail.v2"
	"strconv"
)

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

func SendMail(toEmail string, subject string, body string) error {
	emailConfig := LoadMailConfig()

	mailer := gomail.NewMessage()
	mailer.SetHeader("From", emailConfig.SMTPEmail)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(emailConfig.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		emailConfig.SMTPHost,
		port,
		emailConfig.SMTPEmail,
		emailConfig.SMTPPassword,
	)

	err = dialer.DialAndSend(mailer)
	if err != nil {
		return err
	}

	return nil
}

// SendVerificationEmail sends the MenuLens address-confirmation email with a
// signed verify link.
func SendVerificationEmail(toEmail string, token string) error {
	appURL := utils.GetConfig("APP_URL")
	verifyLink := fmt.Sprintf("%s/api/v1/users/verify?token=%s", appURL, token)

	body := fmt.Sprintf(`
		<h3>Welcome to MenuLens</h3>
		<p>Confirm your email address to start scanning menus:</p>
		<p><a href="%s">Verify my email</a></p>
		<p>If you did not create this account, you can ignore this message.</p>
	`, verifyLink)

	return SendMail(toEmail, "Verify your MenuLens account", body)
}

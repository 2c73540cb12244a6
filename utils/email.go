package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func GetEmailConfig() *EmailConfig {
	return &EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

func SendEmail(to, subject, htmlBody string) error {
	config := GetEmailConfig()
	if config.Host == "" || config.Port == "" || config.From == "" {
		return fmt.Errorf("SMTP not configured")
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		config.From, to, subject)
	msg := []byte(headers + htmlBody)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	addr := config.Host + ":" + config.Port
	return smtp.SendMail(addr, auth, config.From, []string{to}, msg)
}

// SendWelcomeEmail sends a welcome message after registration. Best
// effort and non-blocking.
func SendWelcomeEmail(email, name string) {
	go func() {
		firstName := strings.Split(name, " ")[0]
		if firstName == "" {
			firstName = "there"
		}
		subject := "Welcome to our store!"
		body := fmt.Sprintf(`<h2>Hi %s,</h2>
<p>Thank you for creating your account. You can now browse the catalog,
fill your cart and place orders.</p>
<p>Happy shopping!</p>`, firstName)
		if err := SendEmail(email, subject, body); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", email, err)
		}
	}()
}

// SendOrderConfirmation notifies a customer that their order was placed.
// Best effort and non-blocking.
func SendOrderConfirmation(email, name, orderID, total string) {
	go func() {
		subject := "Your order has been placed"
		body := fmt.Sprintf(`<h2>Thanks for your order, %s!</h2>
<p>Order <strong>%s</strong> has been received and is now pending.</p>
<p>Order total: <strong>%s</strong></p>
<p>We will let you know when it ships.</p>`, strings.Split(name, " ")[0], orderID, total)
		if err := SendEmail(email, subject, body); err != nil {
			log.Printf("Failed to send order confirmation to %s: %v", email, err)
		}
	}()
}

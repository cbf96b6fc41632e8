package utils

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
	"sync"
)

var (
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	smtpUsername  = os.Getenv("SMTP_USERNAME")
	smtpPassword  = os.Getenv("SMTP_PASSWORD")
	smtpFromName  = os.Getenv("SMTP_FROM_NAME")
	smtpFromEmail = os.Getenv("SMTP_FROM_EMAIL")
)

// sendEmail dials, upgrades to TLS and delivers a single plain-text mail.
// When SMTP is not configured it logs and returns nil so workflows keep moving.
func sendEmail(to, subject, body string) error {
	if smtpHost == "" || smtpUsername == "" || smtpPassword == "" {
		fmt.Println("⚠️ SMTP not configured. Email not sent.")
		return nil
	}

	if smtpFromEmail == "" {
		smtpFromEmail = smtpUsername
	}

	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         smtpHost,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", smtpUsername, smtpPassword, smtpHost)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err := client.Mail(smtpFromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	from := smtpFromName
	if from == "" {
		from = smtpFromEmail
	} else {
		from = fmt.Sprintf("%s <%s>", smtpFromName, smtpFromEmail)
	}

	msg := []byte(fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n%s", from, to, subject, body))

	if _, err = w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		fmt.Printf("⚠️ QUIT command error (non-critical): %v\n", err)
	}
	return nil
}

// SendBulkEmailsAsync fans a message out to every recipient without blocking
// the caller.
func SendBulkEmailsAsync(recipients []string, subject, body string) {
	go func() {
		var wg sync.WaitGroup
		for _, email := range recipients {
			wg.Add(1)
			go func(to string) {
				defer wg.Done()
				if err := sendEmail(to, subject, body); err != nil {
					fmt.Printf("❌ Failed to send email to %s: %v\n", to, err)
				}
			}(email)
		}
		wg.Wait()
	}()
}

// ======================
// Submission workflow emails
// ======================

func SendSubmissionReceivedEmail(toEmail, templateName, departmentName, yearName string) {
	subject := fmt.Sprintf("Submission received: %s", templateName)
	body := fmt.Sprintf("The %s submission for %s (%s) has been submitted and is awaiting review.",
		templateName, departmentName, yearName)
	_ = sendEmail(toEmail, subject, body)
}

func SendSubmissionApprovedEmail(toEmail, templateName, yearName string) {
	subject := fmt.Sprintf("Submission approved: %s", templateName)
	body := fmt.Sprintf("Your %s submission for %s has been approved.", templateName, yearName)
	_ = sendEmail(toEmail, subject, body)
}

func SendSubmissionRejectedEmail(toEmail, templateName, yearName, reason string) {
	subject := fmt.Sprintf("Submission rejected: %s", templateName)
	body := fmt.Sprintf("Your %s submission for %s was rejected.\nReason: %s\n\nPlease correct the data and resubmit.",
		templateName, yearName, reason)
	_ = sendEmail(toEmail, subject, body)
}

func SendTransitionCompletedEmail(toEmail, fromYear, toYear string) {
	subject := fmt.Sprintf("Academic year transition completed: %s → %s", fromYear, toYear)
	body := fmt.Sprintf("The transition from %s to %s has completed. Draft submissions for the new year are ready.",
		fromYear, toYear)
	_ = sendEmail(toEmail, subject, body)
}

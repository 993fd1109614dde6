package mailer

import "fmt"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

// WelcomeJob builds the signup welcome email for a new user.
func WelcomeJob(name, email string) EmailJob {
	return EmailJob{
		To:      email,
		Subject: "Welcome to YourPlaces",
		Text: fmt.Sprintf(
			"Hi %s,\n\nyour account is ready. Share your first place whenever you like.\n",
			name,
		),
	}
}

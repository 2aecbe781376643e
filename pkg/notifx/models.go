package notifx

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	From     string   `json:"from,omitempty"`
	To       []string `json:"to"`
	ReplyTo  string   `json:"reply_to,omitempty"`
	Subject  string   `json:"subject"`
	TextBody string   `json:"text_body,omitempty"`
	HTMLBody string   `json:"html_body,omitempty"`
}

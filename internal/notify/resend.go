package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"
)

const interviewSubject = "Interview Scheduled - ServiceNova"

// ResendDispatcher delivers interview emails through the Resend HTTP API.
type ResendDispatcher struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
}

func NewResendDispatcher(baseURL, apiKey, from string) *ResendDispatcher {
	return &ResendDispatcher{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		from:       from,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type resendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (d *ResendDispatcher) Send(ctx context.Context, n InterviewNotification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(resendEmailRequest{
		From:    d.from,
		To:      []string{n.To},
		Subject: interviewSubject,
		HTML:    interviewHTML(n),
	})
	if err != nil {
		return fmt.Errorf("failed to encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", d.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email send failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

func interviewHTML(n InterviewNotification) string {
	link := html.EscapeString(n.MeetingLink)

	var b strings.Builder
	b.WriteString("<h2>Interview Scheduled - ServiceNova</h2>")
	fmt.Fprintf(&b, "<p>Dear %s,</p>", html.EscapeString(n.ApplicantName))
	fmt.Fprintf(&b, "<p>Your interview has been scheduled for %s.</p>", html.EscapeString(n.FormattedDate()))
	fmt.Fprintf(&b, `<p>Please join the interview using this link: <a href="%s">%s</a></p>`, link, link)
	b.WriteString("<p>Best regards,<br>ServiceNova Team</p>")
	return b.String()
}

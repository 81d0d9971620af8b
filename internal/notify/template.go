package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const dateLayout = "02/01/2006"

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background: #f4f5f7; padding: 24px;">
  <div style="max-width: 560px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 24px;">
    <h2 style="margin-top: 0;">{{.Title}}</h2>
    <p>{{.Intro}}</p>
    <p>{{.Main}}</p>
    {{if .ButtonURL}}<p><a href="{{.ButtonURL}}" style="display: inline-block; background: #2563eb; color: #ffffff; padding: 10px 18px; border-radius: 6px; text-decoration: none;">{{.ButtonText}}</a></p>{{end}}
    <p style="color: #6b7280; font-size: 12px;">{{.Footer}}</p>
  </div>
</body>
</html>
`))

// EmailContent fills the shared e-mail layout. Main may carry markup.
type EmailContent struct {
	Title      string
	Intro      string
	Main       template.HTML
	ButtonText string
	ButtonURL  string
	Footer     string
}

const defaultFooter = "You received this email because you are registered in the team availability tool."

func RenderEmail(c EmailContent) (string, error) {
	if c.Footer == "" {
		c.Footer = defaultFooter
	}
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, c); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}

// NewRequestEmail is sent to a manager when a vacation request is filed.
func NewRequestEmail(managerEmail, managerName, requester string, from, to time.Time, dashboardURL string) (Message, error) {
	main := fmt.Sprintf("%s has requested vacation from <strong>%s</strong> to <strong>%s</strong>.",
		template.HTMLEscapeString(requester), from.Format(dateLayout), to.Format(dateLayout))

	body, err := RenderEmail(EmailContent{
		Title:      "New Vacation Request",
		Intro:      fmt.Sprintf("Hi %s, you have a new vacation request to review:", managerName),
		Main:       template.HTML(main),
		ButtonText: "Review Request",
		ButtonURL:  dashboardURL,
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:       managerEmail,
		Subject:  "New vacation request from " + requester,
		HTMLBody: body,
	}, nil
}

// DecisionEmail tells the requester how their request was decided.
func DecisionEmail(requester, status, decidedBy string, from, to time.Time, dashboardURL string) (Message, error) {
	main := fmt.Sprintf("Your vacation request from <strong>%s</strong> to <strong>%s</strong> was <strong>%s</strong> by %s.",
		from.Format(dateLayout), to.Format(dateLayout),
		template.HTMLEscapeString(status), template.HTMLEscapeString(decidedBy))

	body, err := RenderEmail(EmailContent{
		Title:      "Vacation Request " + status,
		Intro:      "Hello,",
		Main:       template.HTML(main),
		ButtonText: "Open dashboard",
		ButtonURL:  dashboardURL,
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:       requester,
		Subject:  "Your vacation request was " + status,
		HTMLBody: body,
	}, nil
}

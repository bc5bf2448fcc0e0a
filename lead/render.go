package lead

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"
	_ "time/tzdata"
)

//go:embed templates/notification.html
var notificationHTML string

var notificationTmpl = template.Must(template.New("notification").Parse(notificationHTML))

const receivedLayout = "02.01.2006, 15:04"

// Renderer builds the notification email for a lead. html/template escapes
// every field, so submitted text never becomes markup.
type Renderer struct {
	Company  string
	Location *time.Location
	Now      func() time.Time
}

// NewRenderer returns a renderer stamping times in Moscow time.
func NewRenderer(company string) *Renderer {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		loc = time.FixedZone("MSK", 3*60*60)
	}
	return &Renderer{Company: company, Location: loc, Now: time.Now}
}

type notificationData struct {
	Company   string
	Source    string
	Received  string
	Name      string
	Phone     string
	PhoneHref string
	Email     string
	Message   string
}

// HTML renders the notification body.
func (r *Renderer) HTML(l Lead) (string, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}

	data := notificationData{
		Company:   r.Company,
		Source:    l.Source,
		Received:  now().In(loc).Format(receivedLayout),
		Name:      l.Name,
		Phone:     l.Phone,
		PhoneHref: l.PhoneHref(),
		Email:     l.Email,
		Message:   l.Message,
	}

	var buf bytes.Buffer
	if err := notificationTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render notification: %w", err)
	}
	return buf.String(), nil
}

// Subject returns the plain-text subject line for l.
func Subject(l Lead) string {
	return fmt.Sprintf("Новая заявка: %s — %s", l.Name, l.PhoneHref())
}

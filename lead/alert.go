package lead

import "fmt"

// Alerter is told about every lead the email provider accepted. It must not block.
type Alerter interface {
	LeadDelivered(l Lead)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(l Lead)

func (f AlerterFunc) LeadDelivered(l Lead) { f(l) }

// AlertText is the short notice sent by SMS.
func AlertText(l Lead) string {
	return fmt.Sprintf("Новая заявка: %s, %s (%s)", l.Name, l.DisplayPhone(), l.Source)
}

package dto

import (
	"fmt"

	"emi-genie/internal/message"
	"emi-genie/internal/pkg/apperrors"
)

// CallRequest optionally overrides the template used for a manual reminder
// call. An empty template means the standard overdue reminder.
type CallRequest struct {
	Template string `json:"template"`
}

func (r *CallRequest) TemplateKey() (message.Key, error) {
	switch key := message.Key(r.Template); key {
	case "", message.KeyReminder, message.KeyPreDueReminder:
		return key, nil
	default:
		return "", fmt.Errorf("%w: unknown template %q", apperrors.ErrInvalidArgument, r.Template)
	}
}

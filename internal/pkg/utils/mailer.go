package utils

import (
	"encoding/base64"
	"fmt"
	"html"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/dto/requests"
	"onboarding-service/internal/pkg/exceptions"
)

// BuildNotificationEmailPayload renders the template kind into a queued mailer payload.
func BuildNotificationEmailPayload(fromEmail, toEmail, templateKind string, fields map[string]string) (*requests.EmailPayload, error) {
	field := func(key string) string {
		return html.EscapeString(fields[key])
	}

	var subject, htmlCode string
	switch templateKind {
	case constvars.TemplateRegistrantConfirmation:
		subject = constvars.NotificationSubjectRegistrantConfirmation
		htmlCode = fmt.Sprintf(constvars.EmailBodyRegistrantConfirmation,
			field(constvars.NotificationFieldFullName),
			field(constvars.NotificationFieldRole),
		)
	case constvars.TemplateAdminNewRequest:
		subject = constvars.NotificationSubjectAdminNewRequest
		htmlCode = fmt.Sprintf(constvars.EmailBodyAdminNewRequest,
			field(constvars.NotificationFieldRole),
			field(constvars.NotificationFieldFullName),
			field(constvars.NotificationFieldEmail),
			field(constvars.NotificationFieldPortalUrl),
		)
	case constvars.TemplateApprovalWelcome:
		subject = constvars.NotificationSubjectApprovalWelcome
		htmlCode = fmt.Sprintf(constvars.EmailBodyApprovalWelcome,
			field(constvars.NotificationFieldFullName),
			field(constvars.NotificationFieldPortalUrl),
		)
	case constvars.TemplateRejectionNotice:
		subject = constvars.NotificationSubjectRejectionNotice
		htmlCode = fmt.Sprintf(constvars.EmailBodyRejectionNotice,
			field(constvars.NotificationFieldFullName),
			field(constvars.NotificationFieldReason),
		)
	case constvars.TemplateAdminStatusChanged:
		subject = constvars.NotificationSubjectAdminStatusChanged
		htmlCode = fmt.Sprintf(constvars.EmailBodyAdminStatusChanged,
			field(constvars.NotificationFieldFullName),
			field(constvars.NotificationFieldEmail),
			field(constvars.NotificationFieldPreviousStatus),
			field(constvars.NotificationFieldStatus),
			field(constvars.NotificationFieldPortalUrl),
		)
	default:
		return nil, exceptions.ErrNotificationUnknownTemplate(nil, templateKind)
	}

	return &requests.EmailPayload{
		Subject:  subject,
		From:     fromEmail,
		To:       []string{toEmail},
		Cc:       []string{},
		Bcc:      []string{},
		HTMLCode: base64.StdEncoding.EncodeToString([]byte(htmlCode)),
		Encoded:  true,
	}, nil
}

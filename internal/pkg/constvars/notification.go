package constvars

// Notification template kinds accepted by the notification port.
const (
	TemplateRegistrantConfirmation = "registrant-confirmation"
	TemplateAdminNewRequest        = "admin-new-request"
	TemplateApprovalWelcome        = "approval-welcome"
	TemplateRejectionNotice        = "rejection-notice"
	TemplateAdminStatusChanged     = "admin-status-changed"
)

const (
	NotificationSubjectRegistrantConfirmation = "We received your registration"
	NotificationSubjectAdminNewRequest        = "New professional registration pending review"
	NotificationSubjectApprovalWelcome        = "Your account has been approved"
	NotificationSubjectRejectionNotice        = "Your registration request"
	NotificationSubjectAdminStatusChanged     = "Registration status changed"
)

const (
	RedisKeyNotificationDedupFormat = "notif:%s:%s:%s"
	RedisKeyClaimsFormat            = "claims:%s"
	RedisKeyReprocessLockFormat     = "onboarding:reprocess:%s"
	RedisKeyReconcilerLock          = "onboarding:claims:reconciler:lock"
	RedisChannelClaimsInvalidation  = "claims:invalidate"
)

// Context field keys passed to the notification port.
const (
	NotificationFieldFullName       = "fullName"
	NotificationFieldEmail          = "email"
	NotificationFieldRole           = "role"
	NotificationFieldTargetID       = "targetId"
	NotificationFieldStatus         = "status"
	NotificationFieldPreviousStatus = "previousStatus"
	NotificationFieldReason         = "reason"
	NotificationFieldPortalUrl      = "portalUrl"
)

// HTML bodies, formatted with fmt and base64 encoded before being queued for the mailer.
const (
	EmailBodyRegistrantConfirmation = "<p>Hello %s,</p><p>We received your registration as <b>%s</b>. Our team will contact you shortly to schedule a short interview.</p>"
	EmailBodyAdminNewRequest        = "<p>A new <b>%s</b> registration from %s (%s) is waiting for review.</p><p><a href=\"%s\">Open the request</a></p>"
	EmailBodyApprovalWelcome        = "<p>Hello %s,</p><p>Your account has been approved. You can now <a href=\"%s\">sign in</a>.</p>"
	EmailBodyRejectionNotice        = "<p>Hello %s,</p><p>After review we are unable to approve your registration.</p><p>Reason: %s</p>"
	EmailBodyAdminStatusChanged     = "<p>Registration of %s (%s) moved from <b>%s</b> to <b>%s</b>.</p><p><a href=\"%s\">Open the request</a></p>"
)

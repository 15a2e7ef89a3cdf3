package constants

// Static route constants
const (
	APIRoute               = "/api"
	WebhookRoute           = "/payments/webhook"
	VerifyRoute            = "/payments/verify"
	MembershipStatusRoute  = "/memberships/status"
	DownloadAuthorizeRoute = "/downloads/authorize"
	AdminRoute             = "/admin"
	AdminRefundRoute       = "/payments/:reference/refund"
)

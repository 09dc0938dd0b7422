package types

const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"

	// HeaderRazorpaySignature carries hex(hmac-sha256(webhook secret, body))
	HeaderRazorpaySignature = "X-Razorpay-Signature"
	HeaderStripeSignature   = "Stripe-Signature"
	// HeaderWhatsAppSignature carries "sha256=<hex>" computed with the Meta app secret
	HeaderWhatsAppSignature = "X-Hub-Signature-256"
	// HeaderCronSecret authenticates the external scheduler
	HeaderCronSecret = "X-Cron-Secret"
)

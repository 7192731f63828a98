package middlewares

const (
	ctxClaimsKey    = "auth.claims"
	ctxRequestIDKey = "request_id"
)

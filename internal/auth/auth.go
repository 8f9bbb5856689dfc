package auth

// Known role claims. Tokens are issued by the main backend; this service only
// reads them.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Claims carries the identity attributes of an authenticated connection.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// Verifier validates a bearer token and extracts its claims. Token issuing
// lives in the main backend; implementations here only check signatures.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

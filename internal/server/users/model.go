package users

// Record is the stored form of a registered user. It is created once on
// signup and never modified by this service.
type Record struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

const (
	keyPrefix = "users/"
	keySuffix = ".json"
)

// Key returns the blob key a user's record lives under.
func Key(username string) string {
	return keyPrefix + username + keySuffix
}

package common

// SessionContextKey is the gin context key under which the per-request
// session value is stored.
const SessionContextKey = "session"

// JSONContentType is the content type written alongside user records.
const JSONContentType = "application/json"

package model

// AdminCredentials is the single configured identity of this system.
// Subject is the opaque identifier embedded in session tokens; keeping it
// separate from the username means multi-user support is an extension of
// the credential source, not a token format change.
type AdminCredentials struct {
	Username string
	Password string
	Subject  string
}

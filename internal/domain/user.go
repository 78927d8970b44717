package domain

// User is the credential record. MFASecret holds a base32-encoded TOTP
// shared secret; it stays empty until MFA setup runs. MFAEnabled only
// flips to true once the user proves possession of a valid code, so
// MFAEnabled implies a non-empty MFASecret.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	MFASecret    string
	MFAEnabled   bool
}

package model

import "time"

// User is a registered account. TeamID is nil until the user creates or
// joins a team. Login is refused until IsVerified is set by the email OTP
// flow.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	TeamID       *int64
	IsVerified   bool

	// Email verification OTP. Cleared once verification completes.
	VerificationToken   string
	VerificationExpires *time.Time

	// Password reset OTP. Cleared after a successful reset.
	ResetToken   string
	ResetExpires *time.Time

	CreatedAt time.Time
}

// VerificationTokenValid reports whether token matches the pending
// verification OTP and the OTP has not expired.
func (u User) VerificationTokenValid(token string, now time.Time) bool {
	return u.VerificationToken != "" &&
		u.VerificationToken == token &&
		u.VerificationExpires != nil &&
		now.Before(*u.VerificationExpires)
}

// ResetTokenValid reports whether token matches the pending password reset
// OTP and the OTP has not expired.
func (u User) ResetTokenValid(token string, now time.Time) bool {
	return u.ResetToken != "" &&
		u.ResetToken == token &&
		u.ResetExpires != nil &&
		now.Before(*u.ResetExpires)
}

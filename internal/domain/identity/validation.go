package identity

import "regexp"

// Fixed user-visible validation and failure messages.
const (
	MsgInvalidEmail       = "Please enter a valid email address (example@domain.com)."
	MsgShortPassword      = "Password must be at least 6 characters long."
	MsgPasswordMismatch   = "Passwords do not match."
	MsgInvalidCredentials = "Invalid credentials."
	MsgEmailInUse         = "This email address is already in use. Please use another or sign in."
	MsgSignUpFailed       = "Could not create the account. Please try again."
)

// MinPasswordLength is the pre-flight minimum; the provider's own policy is
// authoritative.
const MinPasswordLength = 6

// emailPattern requires one @ with non-whitespace on both sides and a dot
// after the @. A syntactic shape check only, not RFC validation.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail reports whether email passes the pre-flight shape check.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword reports whether password meets the pre-flight minimum.
func ValidatePassword(password string) bool {
	return len(password) >= MinPasswordLength
}

// ValidateCredentials runs the sign-in pre-flight checks and returns the
// user-visible message for the first failure, or empty when valid.
func ValidateCredentials(email, password string) string {
	if !ValidateEmail(email) {
		return MsgInvalidEmail
	}
	if !ValidatePassword(password) {
		return MsgShortPassword
	}
	return ""
}

// ValidateSignUp runs the sign-up pre-flight checks, which additionally
// require the password confirmation to match.
func ValidateSignUp(email, password, confirm string) string {
	if msg := ValidateCredentials(email, password); msg != "" {
		return msg
	}
	if password != confirm {
		return MsgPasswordMismatch
	}
	return ""
}

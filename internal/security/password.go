package security

// MinPasswordLength is the minimum accepted password length for registration.
const MinPasswordLength = 8

// IsStrong reports whether password satisfies the registration strength rule:
// at least MinPasswordLength characters, printable ASCII only (0x20–0x7E, so
// no control characters or Unicode), no whitespace, and at least one lowercase
// letter, one uppercase letter, one digit, and one non-alphanumeric character.
// Empty or malformed input simply returns false; IsStrong never fails.
func IsStrong(password string) bool {
	if len(password) < MinPasswordLength {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for i := 0; i < len(password); i++ {
		c := password[i]
		if c < 0x20 || c > 0x7E {
			return false
		}
		switch {
		case c == ' ':
			return false
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= '0' && c <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSpecial
}

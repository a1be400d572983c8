package service

import "net/http"

// Error is a typed service failure. The handler maps Status onto the HTTP
// response and serializes Code and Message into the error envelope.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two service errors by code and message so sentinel comparisons
// work through errors.Is even after Wrap.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code && t.Message == e.Message
}

// Wrap returns a copy of e carrying cause as the underlying error.
func (e *Error) Wrap(cause error) *Error {
	clone := *e
	clone.Err = cause
	return &clone
}

// Sentinel errors for the auth service; the handler maps them to HTTP responses.
var (
	ErrEmailAlreadyRegistered = &Error{
		Status:  http.StatusBadRequest,
		Code:    "email_already_registered",
		Message: "A verified account with this email already exists.",
	}
	ErrVerificationEmailAlreadySent = &Error{
		Status:  http.StatusBadRequest,
		Code:    "verification_email_already_sent",
		Message: "A verification email has already been sent to this address. Please check your inbox.",
	}
	ErrWeakPassword = &Error{
		Status:  http.StatusBadRequest,
		Code:    "weak_password",
		Message: "Password is not strong enough. It must be at least 8 characters long and include uppercase letters, lowercase letters, digits, and special characters.",
	}
	ErrRegistrationFailed = &Error{
		Status:  http.StatusInternalServerError,
		Code:    "registration_failed",
		Message: "Registration failed due to an internal error.",
	}
	ErrInvalidEmail = &Error{
		Status:  http.StatusUnauthorized,
		Code:    "invalid_credentials",
		Message: "Invalid email",
	}
	ErrInvalidPassword = &Error{
		Status:  http.StatusUnauthorized,
		Code:    "invalid_credentials",
		Message: "Invalid password",
	}
	ErrLoginFailed = &Error{
		Status:  http.StatusInternalServerError,
		Code:    "login_failed",
		Message: "Login failed due to an internal error.",
	}
	ErrTokenRevoked = &Error{
		Status:  http.StatusUnauthorized,
		Code:    "token_revoked",
		Message: "Refresh token has been revoked",
	}
	ErrInvalidRefreshToken = &Error{
		Status:  http.StatusUnauthorized,
		Code:    "invalid_token",
		Message: "Invalid or expired refresh token",
	}
	ErrInvalidToken = &Error{
		Status:  http.StatusUnauthorized,
		Code:    "invalid_token",
		Message: "Invalid token",
	}
	ErrInvalidAccessToken = &Error{
		Status:  http.StatusUnauthorized,
		Code:    "invalid_token",
		Message: "Invalid or expired access token",
	}
	ErrNotRefreshToken = &Error{
		Status:  http.StatusBadRequest,
		Code:    "invalid_token_type",
		Message: "Provided token is not a valid refresh token",
	}
	ErrNotAccessToken = &Error{
		Status:  http.StatusBadRequest,
		Code:    "invalid_token_type",
		Message: "Provided token is not a valid access token",
	}
	ErrMalformedPayload = &Error{
		Status:  http.StatusBadRequest,
		Code:    "invalid_payload",
		Message: "Malformed token payload",
	}
	ErrUserNotFound = &Error{
		Status:  http.StatusNotFound,
		Code:    "invalid_user",
		Message: "User not found",
	}
)

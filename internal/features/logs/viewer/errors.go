package logs_viewer

import "errors"

// Authentication failures are all recoverable: the caller keeps its dialog
// open and lets the user retry. Each maps to a distinct user-facing message.
var (
	// ErrUntrustedServer means the mutual-authentication handshake could not
	// verify the server's identity.
	ErrUntrustedServer = errors.New("server identity cannot be trusted")

	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrCookieFailure is reported when the server refused to establish the
	// session cookie (HTTP 409).
	ErrCookieFailure = errors.New("session cookie could not be set")

	ErrLoginFailed = errors.New("login failed")
)

// UserMessage maps an authentication error to the message shown in the login
// dialog. Unknown errors fall back to a generic message.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrUntrustedServer):
		return "This server cannot prove its identity. Check the address and try again."
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, ErrCookieFailure):
		return "Login failed because a session cookie could not be set. Clear cookies and retry."
	default:
		return "Login failed. Please try again."
	}
}

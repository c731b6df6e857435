package registration

import "errors"

// Domain errors surfaced to HTTP handlers. Validation errors map to 4xx
// responses verbatim; anything else is reported as a generic store failure.
var (
	// ErrInvalidDomain is returned when an email is not on the allowed domain.
	ErrInvalidDomain = errors.New("email domain is not allowed")

	// ErrMissingFields is returned when a required field is absent.
	ErrMissingFields = errors.New("name, email, phone, and otp are required")

	// ErrInvalidPhone is returned when a phone number has fewer than ten digits.
	ErrInvalidPhone = errors.New("phone number must have at least 10 digits")

	// ErrAlreadyRegistered is returned when the email already has a registration.
	// The store's unique index on email is the authoritative guard; the
	// application pre-check is a fast-fail optimization.
	ErrAlreadyRegistered = errors.New("email is already registered for this event")

	// ErrInvalidOTP covers both a wrong code and a code that was never issued.
	// The two cases are deliberately indistinguishable to the caller.
	ErrInvalidOTP = errors.New("invalid otp")

	// ErrOTPExpired is returned when a presented code is past its expiry.
	ErrOTPExpired = errors.New("otp has expired")

	// ErrOTPNotVerified is returned by Register when no matching live OTP row
	// exists for the submitted email and code.
	ErrOTPNotVerified = errors.New("otp not verified")

	// ErrNotificationFailure is returned when the OTP email cannot be sent.
	// OTP delivery failure is fatal to issuance; the user has no other way to
	// receive the code. Confirmation email failure is never surfaced.
	ErrNotificationFailure = errors.New("failed to send notification email")

	// ErrNotFound is returned when a registration lookup by id fails.
	ErrNotFound = errors.New("registration not found")

	// ErrStoreFailure is the catch-all for unexpected store errors. The
	// underlying detail is logged server-side and never leaks to the caller.
	ErrStoreFailure = errors.New("store operation failed")
)

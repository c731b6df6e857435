package problem

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

const contentType = "application/problem+json"

// Problem type URIs for the error taxonomy. Clients branch on these rather
// than parsing detail strings.
const (
	TypeInvalidDomain       = "https://openseat.dev/problems/invalid-domain"
	TypeMissingFields       = "https://openseat.dev/problems/missing-fields"
	TypeInvalidPhone        = "https://openseat.dev/problems/invalid-phone"
	TypeAlreadyRegistered   = "https://openseat.dev/problems/already-registered"
	TypeEventFull           = "https://openseat.dev/problems/event-full"
	TypeEventNotFound       = "https://openseat.dev/problems/event-not-found"
	TypeInvalidOTP          = "https://openseat.dev/problems/invalid-otp"
	TypeOTPExpired          = "https://openseat.dev/problems/otp-expired"
	TypeOTPNotVerified      = "https://openseat.dev/problems/otp-not-verified"
	TypeNotificationFailure = "https://openseat.dev/problems/notification-failure"
	TypeNotFound            = "https://openseat.dev/problems/not-found"
	TypeValidationFailed    = "https://openseat.dev/problems/validation-failed"
	TypeUnauthorized        = "https://openseat.dev/problems/unauthorized"
	TypeRateLimited         = "https://openseat.dev/problems/rate-limited"
	TypeBadRequest          = "https://openseat.dev/problems/bad-request"
	TypeServerError         = "https://openseat.dev/problems/server-error"
)

type ProblemDetails struct {
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Status   int                    `json:"status"`
	Detail   string                 `json:"detail,omitempty"`
	Instance string                 `json:"instance,omitempty"`
	Errors   map[string]interface{} `json:"errors,omitempty"`
}

type Option func(*ProblemDetails)

func WithDetail(detail string) Option {
	return func(p *ProblemDetails) {
		p.Detail = detail
	}
}

func WithErrors(errs map[string]interface{}) Option {
	return func(p *ProblemDetails) {
		p.Errors = errs
	}
}

// Write renders an RFC 7807 response. In production the detail falls back to
// the generic status text so internal error strings never leak; 5xx responses
// log at error level, 4xx at warn.
func Write(w http.ResponseWriter, r *http.Request, status int, typ, title string, err error, env string, opts ...Option) {
	p := ProblemDetails{
		Type:   typ,
		Title:  title,
		Status: status,
	}

	for _, opt := range opts {
		opt(&p)
	}

	if p.Detail == "" && err != nil {
		if env == "development" || env == "test" {
			p.Detail = err.Error()
		} else {
			p.Detail = http.StatusText(status)
		}
	}

	if p.Instance == "" && r != nil {
		p.Instance = r.URL.Path
	}

	if err != nil && r != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Err(err).
			Int("status", status).
			Str("type", typ).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(title)
	}

	WriteProblem(w, p)
}

func WriteProblem(w http.ResponseWriter, p ProblemDetails) {
	payload, err := json.Marshal(p)
	if err != nil {
		fallback := fmt.Sprintf("{\"type\":\"about:blank\",\"title\":\"%s\",\"status\":500}", http.StatusText(http.StatusInternalServerError))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(fallback))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(p.Status)
	_, _ = w.Write(payload)
}

package apperrors

import (
	"errors"
	"strings"
	"sync"
)

type Kind string

const (
	KindAuth        Kind = "auth"
	KindRateLimit   Kind = "rate_limit"
	KindTransient   Kind = "transient"
	KindRejected    Kind = "submission_rejected"
	KindEmptyResult Kind = "empty_result"
	KindFetch       Kind = "fetch_failure"
	KindPersistence Kind = "persistence"
)

// Kinds lists every kind that has user-facing text, in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindAuth,
		KindRateLimit,
		KindTransient,
		KindRejected,
		KindEmptyResult,
		KindFetch,
		KindPersistence,
	}
}

type Error struct {
	Kind Kind
	// SafeMessage is intended for user-facing output and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.SafeMessage); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

var messagesMu sync.RWMutex

// messages maps each kind to the text shown in the error dialog. Callers
// may override individual entries with SetUserMessage.
var messages = map[Kind]string{
	KindAuth:        "API key was rejected. Please set a valid API key.",
	KindRateLimit:   "Rate limit exceeded. Please try again later.",
	KindTransient:   "Temporary upstream error. Please try again.",
	KindRejected:    "Video generation is not available for this API key. Use a key from a project with Veo access.",
	KindEmptyResult: "Generation finished without producing any videos. Try a different prompt, or use a key from a project with Veo access.",
	KindFetch:       "A generated video could not be downloaded. Please try again.",
	KindPersistence: "Saving gallery data failed.",
}

// SetUserMessage overrides the user-facing text for a kind.
func SetUserMessage(kind Kind, msg string) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return
	}
	messagesMu.Lock()
	messages[kind] = msg
	messagesMu.Unlock()
}

// UserMessage returns the user-facing text configured for a kind.
func UserMessage(kind Kind) string {
	messagesMu.RLock()
	msg := messages[kind]
	messagesMu.RUnlock()
	if msg == "" {
		return "Request failed."
	}
	return msg
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = UserMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

func Auth(err error) error {
	return New(KindAuth, "", err)
}

func RateLimit(err error) error {
	return New(KindRateLimit, "", err)
}

func Transient(err error) error {
	return New(KindTransient, "", err)
}

func Rejected(err error) error {
	return New(KindRejected, "", err)
}

func EmptyResult(err error) error {
	return New(KindEmptyResult, "", err)
}

func Fetch(err error) error {
	return New(KindFetch, "", err)
}

func Persistence(err error) error {
	return New(KindPersistence, "", err)
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

// PublicMessage returns text safe to show in the error dialog. Technical
// detail stays in the wrapped cause and is only ever logged.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// IsRetryable reports whether re-submitting the same request may succeed.
// The gallery never retries automatically; the CLI uses this for exit hints.
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == KindTransient || e.Kind == KindRateLimit
}

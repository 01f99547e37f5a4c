package veo

import (
	"fmt"

	"github.com/maraval/veogallery/internal/apperrors"
)

// classifyStatus maps an HTTP status from the generation service onto the
// app error taxonomy. Submission rejections (quota tier, unknown model) are
// distinguishable from auth and transient failures so the caller can pick
// the right remediation text.
func classifyStatus(code int, context string, detail string) error {
	wrapped := fmt.Errorf("veo %s failed: http %d: %s", context, code, detail)

	switch {
	case code == 400 || code == 404:
		return apperrors.Rejected(wrapped)
	case code == 401 || code == 403:
		return apperrors.Auth(wrapped)
	case code == 429:
		return apperrors.RateLimit(wrapped)
	case code >= 500:
		return apperrors.Transient(wrapped)
	default:
		return apperrors.Rejected(wrapped)
	}
}

// classifyTransport wraps DNS/socket/timeout failures, which are usually
// transient.
func classifyTransport(context string, err error) error {
	return apperrors.Transient(fmt.Errorf("veo %s failed: %w", context, err))
}

// classifyFetch maps a failed result download. The transport status is kept
// in the wrapped cause per the all-or-nothing batch rule.
func classifyFetch(code int, uri string) error {
	return apperrors.Fetch(fmt.Errorf("video download failed: http %d for %s", code, uri))
}

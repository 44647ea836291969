package services

import (
	"strings"

	"mediagate/internal/core/domain"
)

// ResolveSubject classifies a request's credentials into a Subject. A
// live session wins; a bare code makes a CodeBearer; neither makes
// Anonymous. The code string is never validated here: invalid or
// expired codes must surface through the decision engine's unified
// deny reasons, not through a separate failure path.
func ResolveSubject(claims *Claims, code string) domain.Subject {
	code = strings.TrimSpace(code)

	if claims != nil && claims.UserID != "" {
		subject := domain.UserSubject(claims.UserID)
		// A code presented alongside a session can only add access.
		subject.Code = code
		return subject
	}
	if code != "" {
		return domain.CodeSubject(code)
	}
	return domain.AnonymousSubject()
}

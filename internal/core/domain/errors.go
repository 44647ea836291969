package domain

import "errors"

var (
	ErrResourceNotFound   = errors.New("resource not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrCodeNotFound       = errors.New("access code not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrStoreUnavailable   = errors.New("store unavailable")
)

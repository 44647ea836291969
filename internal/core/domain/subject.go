package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

type SubjectKind string

const (
	SubjectAnonymous  SubjectKind = "anonymous"
	SubjectUser       SubjectKind = "user"
	SubjectCodeBearer SubjectKind = "code_bearer"
)

// Subject is a resolved requester identity. UserID is set only for
// SubjectUser. Code carries the raw, not-yet-validated access code
// string; it may accompany an authenticated subject, in which case the
// session's own grants are checked first and the code can only add
// access, never narrow it.
type Subject struct {
	Kind   SubjectKind `json:"kind"`
	UserID UserID      `json:"user_id,omitempty"`
	Code   string      `json:"code,omitempty"`
}

func AnonymousSubject() Subject {
	return Subject{Kind: SubjectAnonymous}
}

func UserSubject(id UserID) Subject {
	return Subject{Kind: SubjectUser, UserID: id}
}

func CodeSubject(code string) Subject {
	return Subject{Kind: SubjectCodeBearer, Code: code}
}

// Fingerprint returns a stable opaque digest of the subject identity,
// used to bind delegation tokens to the session that minted them.
func (s Subject) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(s.Kind))
	h.Write([]byte{0})
	h.Write([]byte(s.UserID))
	h.Write([]byte{0})
	h.Write([]byte(s.Code))
	return hex.EncodeToString(h.Sum(nil))
}

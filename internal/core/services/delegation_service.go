package services

import (
	"context"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

// StreamClaims is the payload of a delegation token: proof that a full
// authorization check already succeeded for this subject and resource,
// stamped with the resource's revocation generation at mint time.
type StreamClaims struct {
	ResourceID  string `json:"rid"`
	Capability  int    `json:"cap"`
	Fingerprint string `json:"fpr"`
	Generation  int64  `json:"gen"`
	jwt.RegisteredClaims
}

type delegationService struct {
	authz       ports.AuthzService
	generations ports.GenerationStore
	secret      []byte
	tokenTTL    time.Duration
	metrics     *MetricsService
	now         func() time.Time
}

func NewDelegationService(
	authz ports.AuthzService,
	generations ports.GenerationStore,
	secret string,
	tokenTTL time.Duration,
	metrics *MetricsService,
) ports.DelegationService {
	return &delegationService{
		authz:       authz,
		generations: generations,
		secret:      []byte(secret),
		tokenTTL:    tokenTTL,
		metrics:     metrics,
		now:         time.Now,
	}
}

// IssueStreamToken runs a full access check and, on Allow, mints a
// token bound to (resource, capability, subject fingerprint) and the
// resource's current generation. On Deny the decision is returned and
// no token is minted.
//
// The generation is read before the check, not after: a revocation that
// commits while the check runs bumps the counter past the stamped
// value, so the token is born stale and the next segment falls back to
// a fresh check. Stamping the post-check generation would let such a
// token outlive the revocation for its whole TTL.
func (s *delegationService) IssueStreamToken(ctx context.Context, subject domain.Subject, resourceID domain.ResourceID) (string, domain.Decision, error) {
	generation, err := s.generations.Current(ctx, resourceID)
	if err != nil {
		return "", domain.Decision{}, err
	}

	decision, err := s.authz.CheckAccess(ctx, subject, resourceID, domain.CapabilityRead)
	if err != nil {
		return "", domain.Decision{}, err
	}
	if !decision.Allowed {
		return "", decision, nil
	}

	token, err := s.mint(subject, resourceID, decision.Capability, generation)
	if err != nil {
		return "", domain.Decision{}, err
	}
	if s.metrics != nil {
		s.metrics.RecordTokenIssued()
	}
	return token, decision, nil
}

// ValidateStreamToken is the O(1) fast path for segment sub-fetches:
// signature, expiry, resource and subject binding, and generation
// currency. Any failure means "fall back", never a hard error.
func (s *delegationService) ValidateStreamToken(ctx context.Context, token string, subject domain.Subject, resourceID domain.ResourceID) bool {
	valid := s.validate(ctx, token, subject, resourceID)
	if s.metrics != nil {
		s.metrics.RecordTokenValidation(valid)
	}
	return valid
}

func (s *delegationService) validate(ctx context.Context, token string, subject domain.Subject, resourceID domain.ResourceID) bool {
	claims, err := s.parse(token)
	if err != nil {
		return false
	}
	if claims.ResourceID != string(resourceID) {
		return false
	}
	if claims.Fingerprint != subject.Fingerprint() {
		return false
	}

	current, err := s.generations.Current(ctx, resourceID)
	if err != nil {
		// Indeterminate generation: fail closed into the fallback path.
		return false
	}
	return claims.Generation == current
}

// AuthorizeSegment is the per-sub-fetch entry point. A valid token
// passes untouched; a missing, expired, or stale token degrades to one
// full check, which mints a replacement on success. Only a denying full
// check terminates the stream.
func (s *delegationService) AuthorizeSegment(ctx context.Context, subject domain.Subject, resourceID domain.ResourceID, token string) (string, domain.Decision, error) {
	if token != "" && s.ValidateStreamToken(ctx, token, subject, resourceID) {
		return token, domain.Allow(domain.CapabilityRead), nil
	}
	return s.IssueStreamToken(ctx, subject, resourceID)
}

func (s *delegationService) mint(subject domain.Subject, resourceID domain.ResourceID, capability domain.Capability, generation int64) (string, error) {
	now := s.now()
	claims := &StreamClaims{
		ResourceID:  string(resourceID),
		Capability:  int(capability),
		Fingerprint: subject.Fingerprint(),
		Generation:  generation,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *delegationService) parse(token string) (*StreamClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &StreamClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*StreamClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

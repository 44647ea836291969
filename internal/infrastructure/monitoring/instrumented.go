package monitoring

import (
	"context"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
)

// InstrumentedAuthzService exports decision outcomes to Prometheus
// without the core service knowing about the collector.
type InstrumentedAuthzService struct {
	inner     ports.AuthzService
	collector *PrometheusCollector
}

func NewInstrumentedAuthzService(inner ports.AuthzService, collector *PrometheusCollector) *InstrumentedAuthzService {
	return &InstrumentedAuthzService{
		inner:     inner,
		collector: collector,
	}
}

func (s *InstrumentedAuthzService) CheckAccess(ctx context.Context, subject domain.Subject, resourceID domain.ResourceID, required domain.Capability) (domain.Decision, error) {
	start := time.Now()
	decision, err := s.inner.CheckAccess(ctx, subject, resourceID, required)
	if err != nil {
		s.collector.RecordCheckError()
		return decision, err
	}
	s.collector.RecordDecision(decision, time.Since(start))
	return decision, nil
}

func (s *InstrumentedAuthzService) ListResourcesForCode(ctx context.Context, code string) ([]*domain.Resource, domain.Decision, error) {
	resources, decision, err := s.inner.ListResourcesForCode(ctx, code)
	if err != nil {
		s.collector.RecordCheckError()
		return resources, decision, err
	}
	s.collector.RecordDecision(decision, 0)
	return resources, decision, nil
}

// InstrumentedDelegationService exports token issuance and validation
// counters.
type InstrumentedDelegationService struct {
	inner     ports.DelegationService
	collector *PrometheusCollector
}

func NewInstrumentedDelegationService(inner ports.DelegationService, collector *PrometheusCollector) *InstrumentedDelegationService {
	return &InstrumentedDelegationService{
		inner:     inner,
		collector: collector,
	}
}

func (s *InstrumentedDelegationService) IssueStreamToken(ctx context.Context, subject domain.Subject, resourceID domain.ResourceID) (string, domain.Decision, error) {
	start := time.Now()
	token, decision, err := s.inner.IssueStreamToken(ctx, subject, resourceID)
	if err == nil && decision.Allowed {
		s.collector.RecordTokenIssued(time.Since(start))
	}
	return token, decision, err
}

func (s *InstrumentedDelegationService) ValidateStreamToken(ctx context.Context, token string, subject domain.Subject, resourceID domain.ResourceID) bool {
	valid := s.inner.ValidateStreamToken(ctx, token, subject, resourceID)
	s.collector.RecordTokenValidation(valid)
	return valid
}

func (s *InstrumentedDelegationService) AuthorizeSegment(ctx context.Context, subject domain.Subject, resourceID domain.ResourceID, token string) (string, domain.Decision, error) {
	return s.inner.AuthorizeSegment(ctx, subject, resourceID, token)
}

// InstrumentedGenerationStore counts revocation bumps. Every
// grant-affecting write funnels through Bump, so the counter tracks
// revocation activity across all write paths.
type InstrumentedGenerationStore struct {
	inner     ports.GenerationStore
	collector *PrometheusCollector
}

func NewInstrumentedGenerationStore(inner ports.GenerationStore, collector *PrometheusCollector) *InstrumentedGenerationStore {
	return &InstrumentedGenerationStore{
		inner:     inner,
		collector: collector,
	}
}

func (s *InstrumentedGenerationStore) Current(ctx context.Context, id domain.ResourceID) (int64, error) {
	return s.inner.Current(ctx, id)
}

func (s *InstrumentedGenerationStore) Bump(ctx context.Context, id domain.ResourceID) (int64, error) {
	generation, err := s.inner.Bump(ctx, id)
	if err == nil {
		s.collector.RecordRevocationBump()
	}
	return generation, err
}

// InstrumentedResourceService keeps the per-kind resource gauge.
type InstrumentedResourceService struct {
	inner     ports.ResourceService
	collector *PrometheusCollector
}

func NewInstrumentedResourceService(inner ports.ResourceService, collector *PrometheusCollector) *InstrumentedResourceService {
	return &InstrumentedResourceService{
		inner:     inner,
		collector: collector,
	}
}

func (s *InstrumentedResourceService) Register(ctx context.Context, owner domain.UserID, kind domain.ResourceKind, title string, groupID domain.GroupID, isPublic bool) (*domain.Resource, error) {
	resource, err := s.inner.Register(ctx, owner, kind, title, groupID, isPublic)
	if err == nil {
		s.collector.RecordResourceRegistered(resource.Kind)
	}
	return resource, err
}

func (s *InstrumentedResourceService) Get(ctx context.Context, id domain.ResourceID) (*domain.Resource, error) {
	return s.inner.Get(ctx, id)
}

func (s *InstrumentedResourceService) SetVisibility(ctx context.Context, subject domain.Subject, id domain.ResourceID, isPublic bool) (*domain.Resource, error) {
	return s.inner.SetVisibility(ctx, subject, id, isPublic)
}

func (s *InstrumentedResourceService) AssignGroup(ctx context.Context, subject domain.Subject, id domain.ResourceID, groupID domain.GroupID) (*domain.Resource, error) {
	return s.inner.AssignGroup(ctx, subject, id, groupID)
}

// InstrumentedCodeService keeps the active-codes gauge. Deactivation is
// idempotent in the service, so the gauge only moves when the code was
// actually still active.
type InstrumentedCodeService struct {
	inner     ports.CodeService
	codes     ports.AccessCodeRepository
	collector *PrometheusCollector
}

func NewInstrumentedCodeService(inner ports.CodeService, codes ports.AccessCodeRepository, collector *PrometheusCollector) *InstrumentedCodeService {
	return &InstrumentedCodeService{
		inner:     inner,
		codes:     codes,
		collector: collector,
	}
}

func (s *InstrumentedCodeService) CreateCode(ctx context.Context, subject domain.Subject, scope domain.CodeScope, description string, expiresAt *time.Time) (*domain.AccessCode, error) {
	code, err := s.inner.CreateCode(ctx, subject, scope, description, expiresAt)
	if err == nil {
		s.collector.RecordCodeCreated()
	}
	return code, err
}

func (s *InstrumentedCodeService) DeactivateCode(ctx context.Context, subject domain.Subject, code string) error {
	prior, lookupErr := s.codes.GetByCode(ctx, code)
	err := s.inner.DeactivateCode(ctx, subject, code)
	if err == nil && lookupErr == nil && prior.IsActive {
		s.collector.RecordCodeDeactivated()
	}
	return err
}

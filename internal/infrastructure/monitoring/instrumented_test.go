package monitoring

import (
	"context"
	"testing"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/internal/core/services"
	"mediagate/internal/infrastructure/repositories/memory"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// One collector for the whole test: promauto registers on the default
// registry, and a second registration of the same metrics panics.
func TestCollectorWiring(t *testing.T) {
	collector := NewPrometheusCollector()

	resourceRepo := memory.NewMemoryResourceRepository()
	groupRepo := memory.NewMemoryGroupRepository()
	codeRepo := memory.NewMemoryAccessCodeRepository()
	var generations ports.GenerationStore = NewInstrumentedGenerationStore(memory.NewMemoryGenerationStore(), collector)

	authz := services.NewAuthzService(resourceRepo, groupRepo, codeRepo, nil)
	var resourceService ports.ResourceService = NewInstrumentedResourceService(
		services.NewResourceService(resourceRepo, groupRepo, authz, generations),
		collector,
	)
	var codeService ports.CodeService = NewInstrumentedCodeService(
		services.NewCodeService(codeRepo, resourceRepo, groupRepo, authz, generations),
		codeRepo,
		collector,
	)

	ctx := context.Background()
	owner := domain.UserSubject("alice")

	video, err := resourceService.Register(ctx, "alice", domain.ResourceKindVideo, "clip", "", false)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if _, err := resourceService.Register(ctx, "alice", domain.ResourceKindImage, "still", "", false); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if got := testutil.ToFloat64(collector.resourcesByKind.WithLabelValues("video")); got != 1 {
		t.Errorf("video gauge = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.resourcesByKind.WithLabelValues("image")); got != 1 {
		t.Errorf("image gauge = %v, want 1", got)
	}

	expiresAt := time.Now().Add(time.Hour)
	code, err := codeService.CreateCode(ctx, owner, domain.CodeScope{
		Kind:       domain.ScopeResource,
		ResourceID: video.ID,
	}, "", &expiresAt)
	if err != nil {
		t.Fatalf("CreateCode error: %v", err)
	}
	if got := testutil.ToFloat64(collector.activeCodes); got != 1 {
		t.Errorf("active codes gauge = %v, want 1", got)
	}

	// Visibility change is a grant-affecting write: it bumps.
	if _, err := resourceService.SetVisibility(ctx, owner, video.ID, true); err != nil {
		t.Fatalf("SetVisibility error: %v", err)
	}
	if got := testutil.ToFloat64(collector.revocationBumps); got != 1 {
		t.Errorf("revocation bumps = %v, want 1", got)
	}

	if err := codeService.DeactivateCode(ctx, owner, code.Code); err != nil {
		t.Fatalf("DeactivateCode error: %v", err)
	}
	if got := testutil.ToFloat64(collector.activeCodes); got != 0 {
		t.Errorf("active codes gauge after deactivation = %v, want 0", got)
	}
	if got := testutil.ToFloat64(collector.revocationBumps); got != 2 {
		t.Errorf("revocation bumps after deactivation = %v, want 2", got)
	}

	// Repeat deactivation is a no-op in the service and must not move
	// the gauge again.
	if err := codeService.DeactivateCode(ctx, owner, code.Code); err != nil {
		t.Fatalf("repeat DeactivateCode error: %v", err)
	}
	if got := testutil.ToFloat64(collector.activeCodes); got != 0 {
		t.Errorf("active codes gauge after repeat deactivation = %v, want 0", got)
	}
}

package services

import (
	"sync"
	"time"

	"mediagate/internal/core/domain"
)

// DecisionStats is a point-in-time snapshot of engine activity, served
// by the health endpoint.
type DecisionStats struct {
	Allowed          int64                       `json:"allowed"`
	Denied           int64                       `json:"denied"`
	Indeterminate    int64                       `json:"indeterminate"`
	DeniedByReason   map[domain.DenyReason]int64 `json:"denied_by_reason"`
	TokensIssued     int64                       `json:"tokens_issued"`
	TokenValidations int64                       `json:"token_validations"`
	TokenFallbacks   int64                       `json:"token_fallbacks"`
	AverageCheckTime time.Duration               `json:"average_check_time"`
}

type MetricsService struct {
	mu sync.RWMutex

	allowed       int64
	denied        int64
	indeterminate int64
	byReason      map[domain.DenyReason]int64

	tokensIssued     int64
	tokenValidations int64
	tokenFallbacks   int64

	checkCount    int64
	totalDuration time.Duration
}

func NewMetricsService() *MetricsService {
	return &MetricsService{
		byReason: make(map[domain.DenyReason]int64),
	}
}

func (m *MetricsService) RecordDecision(decision domain.Decision, err error, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkCount++
	m.totalDuration += elapsed

	switch {
	case err != nil:
		m.indeterminate++
	case decision.Allowed:
		m.allowed++
	default:
		m.denied++
		m.byReason[decision.Reason]++
	}
}

func (m *MetricsService) RecordTokenIssued() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokensIssued++
}

func (m *MetricsService) RecordTokenValidation(valid bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokenValidations++
	if !valid {
		m.tokenFallbacks++
	}
}

func (m *MetricsService) Stats() DecisionStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byReason := make(map[domain.DenyReason]int64, len(m.byReason))
	for reason, count := range m.byReason {
		byReason[reason] = count
	}

	avg := time.Duration(0)
	if m.checkCount > 0 {
		avg = m.totalDuration / time.Duration(m.checkCount)
	}

	return DecisionStats{
		Allowed:          m.allowed,
		Denied:           m.denied,
		Indeterminate:    m.indeterminate,
		DeniedByReason:   byReason,
		TokensIssued:     m.tokensIssued,
		TokenValidations: m.tokenValidations,
		TokenFallbacks:   m.tokenFallbacks,
		AverageCheckTime: avg,
	}
}

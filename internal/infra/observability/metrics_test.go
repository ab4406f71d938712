package observability_test

import (
	"testing"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
	"github.com/boddenberg/whichcard-bfa-go/internal/infra/observability"
)

func TestUsageSnapshot(t *testing.T) {
	m := observability.NewMetrics()

	m.IncrEvaluation(&domain.CardResult{CardID: domain.CardADCB365})
	m.IncrEvaluation(&domain.CardResult{CardID: domain.CardADCB365})
	m.IncrEvaluation(&domain.CardResult{CardID: domain.CardSIBCashback})
	m.IncrEvaluation(nil)
	m.IncrUsageLog(observability.UsageQueued)
	m.IncrUsageLog(observability.UsageWritten)
	m.IncrUsageLog(observability.UsageDropped)
	m.IncrCacheHit("settings")
	m.IncrCacheMiss("settings")
	m.IncrCacheMiss("settings")
	m.IncrCacheMiss("settings")

	snap := m.GetUsageSnapshot()

	if snap.Evaluations != 4 {
		t.Errorf("expected 4 evaluations, got %d", snap.Evaluations)
	}
	if snap.BestCardCounts[domain.CardADCB365] != 2 {
		t.Errorf("expected 2 ADCB wins, got %d", snap.BestCardCounts[domain.CardADCB365])
	}
	if snap.NoBestCard != 1 {
		t.Errorf("expected 1 evaluation without a winner, got %d", snap.NoBestCard)
	}
	if snap.UsageLogQueued != 1 || snap.UsageLogWritten != 1 || snap.UsageLogDropped != 1 || snap.UsageLogFailed != 0 {
		t.Errorf("unexpected usage-log counters: %+v", snap)
	}
	if snap.SettingsCacheHit != 0.25 {
		t.Errorf("expected hit rate 0.25, got %v", snap.SettingsCacheHit)
	}
}

func TestNewMetrics_Twice(t *testing.T) {
	// Private registries: a second instance must not panic.
	observability.NewMetrics()
	observability.NewMetrics()
}

func TestNewLogger_Levels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "bogus"} {
		if l := observability.NewLogger(lvl, "whichcard-test"); l == nil {
			t.Errorf("level %q: expected a logger", lvl)
		}
	}
}

package engine_test

import (
	"math"
	"reflect"
	"sync"
	"testing"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
	"github.com/boddenberg/whichcard-bfa-go/internal/engine"
)

func TestEvaluate_NonPositiveAmount(t *testing.T) {
	bundles := []domain.CardSettings{domain.DefaultSettings(), allDisabled(), {}}
	for _, amount := range []float64{0, -1, -250.5, math.NaN()} {
		for _, s := range bundles {
			res := engine.Evaluate(purchase(amount, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryDining), s)
			if res.BestCard != nil {
				t.Errorf("amount %v: expected no best card, got %+v", amount, res.BestCard)
			}
			if res.Results == nil || len(res.Results) != 0 {
				t.Errorf("amount %v: expected empty non-nil results, got %v", amount, res.Results)
			}
		}
	}
}

func TestEvaluate_DiningScenario(t *testing.T) {
	res := engine.Evaluate(purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryDining), domain.DefaultSettings())

	want := map[domain.CardID]float64{
		domain.CardADCB365:        6,
		domain.CardEISwitch:       4,
		domain.CardAjmanUltracash: 1,
		domain.CardSIBCashback:    1,
	}
	for _, r := range res.Results {
		if v, ok := want[r.CardID]; ok {
			if !approx(r.RewardValueAED, v) || !approx(r.EffectiveRate, v/100) {
				t.Errorf("%s: expected %v AED at %v, got %v at %v", r.CardID, v, v/100, r.RewardValueAED, r.EffectiveRate)
			}
		}
	}

	if res.BestCard == nil || res.BestCard.CardID != domain.CardADCB365 {
		t.Fatalf("expected ADCB 365 to win, got %+v", res.BestCard)
	}

	order := []domain.CardID{
		domain.CardADCB365,
		domain.CardEISwitch,
		domain.CardCitiPremier,
		domain.CardDIBWalaa,
		domain.CardAjmanUltracash,
		domain.CardSIBCashback,
	}
	for i, r := range res.Results {
		if r.CardID != order[i] {
			t.Errorf("rank %d: expected %s, got %s", i, order[i], r.CardID)
		}
	}
}

func TestEvaluate_FuelWalletConservative(t *testing.T) {
	p := purchase(100, domain.LocationDomestic, domain.ChannelDigitalWallet, domain.CategoryFuel)
	r := resultFor(t, domain.CardSIBCashback, p, domain.DefaultSettings())
	if !approx(r.RewardValueAED, 1) {
		t.Errorf("expected 1 AED, got %v", r.RewardValueAED)
	}
}

func TestEvaluate_TravelPlanAirline(t *testing.T) {
	s := domain.DefaultSettings()
	s.Cards.EISwitch.Plan = domain.PlanTravel
	s.Cards.EISwitch.MinSpendMet = true

	r := resultFor(t, domain.CardEISwitch, purchase(500, domain.LocationInternational, domain.ChannelOnline, domain.CategoryTravelAir), s)
	if !approx(r.RewardValueAED, 20) || !approx(r.EffectiveRate, 0.04) {
		t.Errorf("expected 20 AED at 4%%, got %v at %v", r.RewardValueAED, r.EffectiveRate)
	}
}

func TestEvaluate_SuppressedGroceryPoints(t *testing.T) {
	r := resultFor(t, domain.CardDIBWalaa, purchase(200, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryGrocery), domain.DefaultSettings())

	// 0.2 pts/AED x 200 = 40 points, valued at 0.005 AED each.
	if r.RawPoints == nil || !approx(*r.RawPoints, 40) {
		t.Fatalf("expected 40 points, got %v", r.RawPoints)
	}
	if !approx(r.RewardValueAED, 0.2) {
		t.Errorf("expected 0.2 AED, got %v", r.RewardValueAED)
	}
	if !approx(r.EffectiveRate, 0.001) {
		t.Errorf("expected rate 0.001, got %v", r.EffectiveRate)
	}
}

func TestEvaluate_TieBreakKeepsCardOrder(t *testing.T) {
	s := domain.DefaultSettings()
	s.Cards.DIBWalaa.Enabled = false

	// A, B, C and D all pay a flat 1% on domestic in-person "other".
	res := engine.Evaluate(purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryOther), s)

	want := []domain.CardID{domain.CardADCB365, domain.CardEISwitch, domain.CardAjmanUltracash, domain.CardSIBCashback}
	for i, id := range want {
		if res.Results[i].CardID != id {
			t.Errorf("rank %d: expected %s, got %s", i, id, res.Results[i].CardID)
		}
		if !approx(res.Results[i].EffectiveRate, 0.01) {
			t.Errorf("rank %d: expected 1%%, got %v", i, res.Results[i].EffectiveRate)
		}
	}
	if res.BestCard == nil || res.BestCard.CardID != domain.CardADCB365 {
		t.Errorf("expected first-listed card to win the tie, got %+v", res.BestCard)
	}
	if last := res.Results[len(res.Results)-1].CardID; last != domain.CardDIBWalaa {
		t.Errorf("expected disabled card last, got %s", last)
	}
}

func TestEvaluate_BestCardSkipsZeroRates(t *testing.T) {
	s := allDisabled()
	s.Cards.CitiPremier.Enabled = true

	res := engine.Evaluate(purchase(50, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryOther), s)
	if res.BestCard == nil || res.BestCard.CardID != domain.CardCitiPremier {
		t.Fatalf("expected Citi Premier as the only earning card, got %+v", res.BestCard)
	}
	if res.Results[0].CardID != domain.CardCitiPremier {
		t.Errorf("expected Citi Premier ranked first, got %s", res.Results[0].CardID)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	p := purchase(321.5, domain.LocationInternational, domain.ChannelDigitalWallet, domain.CategoryFuel)
	s := domain.DefaultSettings()

	first := engine.Evaluate(p, s)
	second := engine.Evaluate(p, s)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results:\n%+v\n%+v", first, second)
	}
}

func TestEvaluate_DoesNotMutateSettings(t *testing.T) {
	s := domain.DefaultSettings()
	before := s.Clone()

	engine.Evaluate(purchase(100, domain.LocationDomestic, domain.ChannelOnline, domain.CategoryGrocery), s)

	if !reflect.DeepEqual(s, before) {
		t.Errorf("settings were mutated: %+v", s)
	}
}

func TestEvaluate_ConcurrentCallers(t *testing.T) {
	p := purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryDining)
	s := domain.DefaultSettings()
	want := engine.Evaluate(p, s)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := engine.Evaluate(p, s); !reflect.DeepEqual(got, want) {
				t.Errorf("concurrent evaluation diverged")
			}
		}()
	}
	wg.Wait()
}

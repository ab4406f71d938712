package engine_test

import (
	"math"
	"strings"
	"testing"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
	"github.com/boddenberg/whichcard-bfa-go/internal/engine"
)

const tolerance = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func purchase(amount float64, loc domain.Location, ch domain.Channel, cat domain.Category) domain.Purchase {
	return domain.Purchase{AmountAED: amount, Location: loc, Channel: ch, Category: cat}
}

// resultFor runs the full evaluation and picks out one card.
func resultFor(t *testing.T, id domain.CardID, p domain.Purchase, s domain.CardSettings) domain.CardResult {
	t.Helper()
	res := engine.Evaluate(p, s)
	for _, r := range res.Results {
		if r.CardID == id {
			return r
		}
	}
	t.Fatalf("no result for card %s", id)
	return domain.CardResult{}
}

func allDisabled() domain.CardSettings {
	s := domain.DefaultSettings()
	s.Cards.ADCB365.Enabled = false
	s.Cards.EISwitch.Enabled = false
	s.Cards.AjmanUltracash.Enabled = false
	s.Cards.SIBCashback.Enabled = false
	s.Cards.DIBWalaa.Enabled = false
	s.Cards.CitiPremier.Enabled = false
	return s
}

func TestCards_EvaluationOrder(t *testing.T) {
	want := []domain.CardID{
		domain.CardADCB365,
		domain.CardEISwitch,
		domain.CardAjmanUltracash,
		domain.CardSIBCashback,
		domain.CardDIBWalaa,
		domain.CardCitiPremier,
	}
	got := engine.Cards()
	if len(got) != len(want) {
		t.Fatalf("expected %d cards, got %d", len(want), len(got))
	}
	for i, c := range got {
		if c.ID() != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], c.ID())
		}
	}
}

func TestADCB365_Rates(t *testing.T) {
	tests := []struct {
		name string
		p    domain.Purchase
		rate float64
	}{
		{"international beats dining", purchase(100, domain.LocationInternational, domain.ChannelInPerson, domain.CategoryDining), 0.01},
		{"dining", purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryDining), 0.06},
		{"online dining", purchase(100, domain.LocationDomestic, domain.ChannelOnline, domain.CategoryOnlineDining), 0.06},
		{"grocery", purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryGrocery), 0.05},
		{"fuel", purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryFuel), 0.03},
		{"utilities", purchase(100, domain.LocationDomestic, domain.ChannelOnline, domain.CategoryUtilities), 0.03},
		{"base", purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryTravelAir), 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := resultFor(t, domain.CardADCB365, tt.p, domain.DefaultSettings())
			if !approx(r.EffectiveRate, tt.rate) {
				t.Errorf("expected rate %v, got %v", tt.rate, r.EffectiveRate)
			}
			if r.RewardType != domain.RewardCashback || r.RawPoints != nil {
				t.Errorf("expected plain cashback result, got %+v", r)
			}
		})
	}
}

func TestADCB365_MinSpendGate(t *testing.T) {
	s := domain.DefaultSettings()
	s.Cards.ADCB365.MinSpendMet = false

	r := resultFor(t, domain.CardADCB365, purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryDining), s)
	if r.RewardValueAED != 0 || r.EffectiveRate != 0 {
		t.Errorf("expected zero reward when min spend not met, got %+v", r)
	}
	if !strings.Contains(r.Note, "AED 5,000") {
		t.Errorf("expected min-spend note, got %q", r.Note)
	}
}

func TestEISwitch_LifestylePlan(t *testing.T) {
	tests := []struct {
		name string
		p    domain.Purchase
		rate float64
	}{
		{"domestic fuel", purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryFuel), 0.08},
		{"international fuel falls to base", purchase(100, domain.LocationInternational, domain.ChannelInPerson, domain.CategoryFuel), 0.01},
		{"domestic grocery", purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryGrocery), 0.04},
		{"international grocery falls to base", purchase(100, domain.LocationInternational, domain.ChannelInPerson, domain.CategoryGrocery), 0.01},
		{"dining", purchase(100, domain.LocationInternational, domain.ChannelInPerson, domain.CategoryDining), 0.04},
		{"education", purchase(100, domain.LocationDomestic, domain.ChannelOnline, domain.CategoryEducation), 0.04},
		{"government", purchase(100, domain.LocationDomestic, domain.ChannelOnline, domain.CategoryGovernment), 0.005},
		{"travel is base on lifestyle", purchase(100, domain.LocationDomestic, domain.ChannelOnline, domain.CategoryTravelHotel), 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := resultFor(t, domain.CardEISwitch, tt.p, domain.DefaultSettings())
			if !approx(r.EffectiveRate, tt.rate) {
				t.Errorf("expected rate %v, got %v (%s)", tt.rate, r.EffectiveRate, r.Note)
			}
		})
	}
}

func TestEISwitch_TravelPlan(t *testing.T) {
	s := domain.DefaultSettings()
	s.Cards.EISwitch.Plan = domain.PlanTravel

	tests := []struct {
		name string
		p    domain.Purchase
		rate float64
	}{
		{"air", purchase(100, domain.LocationDomestic, domain.ChannelOnline, domain.CategoryTravelAir), 0.04},
		{"hotel", purchase(100, domain.LocationInternational, domain.ChannelInPerson, domain.CategoryTravelHotel), 0.04},
		{"dining", purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryDining), 0.04},
		{"utilities", purchase(100, domain.LocationDomestic, domain.ChannelOnline, domain.CategoryUtilities), 0.005},
		{"fuel is base on travel", purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryFuel), 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := resultFor(t, domain.CardEISwitch, tt.p, s)
			if !approx(r.EffectiveRate, tt.rate) {
				t.Errorf("expected rate %v, got %v (%s)", tt.rate, r.EffectiveRate, r.Note)
			}
			if !strings.Contains(r.Note, "(Travel)") {
				t.Errorf("expected travel plan note, got %q", r.Note)
			}
		})
	}
}

func TestEISwitch_MinSpendGate(t *testing.T) {
	s := domain.DefaultSettings()
	s.Cards.EISwitch.MinSpendMet = false

	r := resultFor(t, domain.CardEISwitch, purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryFuel), s)
	if r.RewardValueAED != 0 || r.EffectiveRate != 0 {
		t.Errorf("expected zero reward, got %+v", r)
	}
}

func TestAjmanUltracash_Buckets(t *testing.T) {
	tests := []struct {
		name   string
		p      domain.Purchase
		chosen []domain.AjmanCategory
		rate   float64
		note   string
	}{
		{
			name:   "fuel selected",
			p:      purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryFuel),
			chosen: []domain.AjmanCategory{domain.AjmanFuel, domain.AjmanSupermarket},
			rate:   0.05,
			note:   "'fuel'",
		},
		{
			name:   "online channel wins over fuel",
			p:      purchase(100, domain.LocationDomestic, domain.ChannelDigitalWallet, domain.CategoryFuel),
			chosen: []domain.AjmanCategory{domain.AjmanFuel, domain.AjmanSupermarket},
			rate:   0.01,
			note:   "'online' not in your chosen",
		},
		{
			name:   "online selected",
			p:      purchase(100, domain.LocationDomestic, domain.ChannelOnline, domain.CategoryOnlineShopping),
			chosen: []domain.AjmanCategory{domain.AjmanOnline, domain.AjmanSchool},
			rate:   0.05,
			note:   "'online'",
		},
		{
			name:   "school selected",
			p:      purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryEducation),
			chosen: []domain.AjmanCategory{domain.AjmanOnline, domain.AjmanSchool},
			rate:   0.05,
			note:   "'school'",
		},
		{
			name:   "no bucket",
			p:      purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryDining),
			chosen: []domain.AjmanCategory{domain.AjmanFuel, domain.AjmanSupermarket},
			rate:   0.01,
			note:   "category not eligible for 5%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.DefaultSettings()
			s.Cards.AjmanUltracash.ActiveCategories = tt.chosen
			r := resultFor(t, domain.CardAjmanUltracash, tt.p, s)
			if !approx(r.EffectiveRate, tt.rate) {
				t.Errorf("expected rate %v, got %v", tt.rate, r.EffectiveRate)
			}
			if !strings.Contains(r.Note, tt.note) {
				t.Errorf("expected note to contain %q, got %q", tt.note, r.Note)
			}
		})
	}
}

func TestAjmanUltracash_MalformedSetIsTrusted(t *testing.T) {
	s := domain.DefaultSettings()
	s.Cards.AjmanUltracash.ActiveCategories = []domain.AjmanCategory{domain.AjmanOnline}

	r := resultFor(t, domain.CardAjmanUltracash, purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryFuel), s)
	if !approx(r.RewardValueAED, 1) || !approx(r.EffectiveRate, 0.01) {
		t.Errorf("expected 1%% base rate, got %+v", r)
	}

	s.Cards.AjmanUltracash.ActiveCategories = nil
	r = resultFor(t, domain.CardAjmanUltracash, purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryFuel), s)
	if !approx(r.EffectiveRate, 0.01) {
		t.Errorf("expected base rate with an empty set, got %v", r.EffectiveRate)
	}
}

func TestSIBCashback_Rates(t *testing.T) {
	tests := []struct {
		name    string
		p       domain.Purchase
		toggle  bool
		rate    float64
		comment string
	}{
		{"grocery excluded even online", purchase(100, domain.LocationDomestic, domain.ChannelOnline, domain.CategoryOnlineGrocery), false, 0.005, "0.5%"},
		{"education excluded", purchase(100, domain.LocationInternational, domain.ChannelInPerson, domain.CategoryEducation), false, 0.005, "0.5%"},
		{"domestic fuel wallet conservative", purchase(100, domain.LocationDomestic, domain.ChannelDigitalWallet, domain.CategoryFuel), false, 0.01, "Conservative"},
		{"international fuel wallet conservative", purchase(100, domain.LocationInternational, domain.ChannelDigitalWallet, domain.CategoryFuel), false, 0.02, "Conservative"},
		{"fuel wallet with toggle", purchase(100, domain.LocationDomestic, domain.ChannelDigitalWallet, domain.CategoryFuel), true, 0.1, "10%"},
		{"fuel online is not wallet", purchase(100, domain.LocationDomestic, domain.ChannelOnline, domain.CategoryFuel), false, 0.1, "10%"},
		{"online shopping", purchase(100, domain.LocationInternational, domain.ChannelOnline, domain.CategoryOnlineShopping), false, 0.1, "10%"},
		{"international in person", purchase(100, domain.LocationInternational, domain.ChannelInPerson, domain.CategoryDining), false, 0.02, "2% international"},
		{"domestic in person", purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryFuel), false, 0.01, "1% domestic retail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.DefaultSettings()
			s.Cards.SIBCashback.Apply10OnFuelWallet = tt.toggle
			r := resultFor(t, domain.CardSIBCashback, tt.p, s)
			if !approx(r.EffectiveRate, tt.rate) {
				t.Errorf("expected rate %v, got %v (%s)", tt.rate, r.EffectiveRate, r.Note)
			}
			if !strings.Contains(r.Note, tt.comment) {
				t.Errorf("expected note to contain %q, got %q", tt.comment, r.Note)
			}
		})
	}
}

func TestDIBWalaa_Points(t *testing.T) {
	tests := []struct {
		name   string
		p      domain.Purchase
		points float64
	}{
		{"suppressed grocery", purchase(200, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryGrocery), 40},
		{"suppressed utilities abroad", purchase(200, domain.LocationInternational, domain.ChannelOnline, domain.CategoryUtilities), 40},
		{"international", purchase(200, domain.LocationInternational, domain.ChannelInPerson, domain.CategoryDining), 700},
		{"domestic", purchase(200, domain.LocationDomestic, domain.ChannelOnline, domain.CategoryOnlineShopping), 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := resultFor(t, domain.CardDIBWalaa, tt.p, domain.DefaultSettings())
			if r.RawPoints == nil || !approx(*r.RawPoints, tt.points) {
				t.Fatalf("expected %v points, got %v", tt.points, r.RawPoints)
			}
			if !approx(r.RewardValueAED, tt.points*0.005) {
				t.Errorf("expected value %v, got %v", tt.points*0.005, r.RewardValueAED)
			}
			if r.RewardType != domain.RewardPoints {
				t.Errorf("expected points reward, got %s", r.RewardType)
			}
		})
	}
}

func TestCitiPremier_Points(t *testing.T) {
	const aedPerUsd = 3.67
	const valuePerPoint = 500.0 / 15000.0

	tests := []struct {
		name       string
		p          domain.Purchase
		ptsPerUsd  float64
		noteSubstr string
	}{
		{"dining", purchase(367, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryDining), 3, "dining/grocery/fuel"},
		{"fuel abroad still 3", purchase(367, domain.LocationInternational, domain.ChannelInPerson, domain.CategoryFuel), 3, "dining/grocery/fuel"},
		{"international", purchase(367, domain.LocationInternational, domain.ChannelOnline, domain.CategoryTravelHotel), 2, "international"},
		{"base", purchase(367, domain.LocationDomestic, domain.ChannelOnline, domain.CategoryUtilities), 1, "base rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := resultFor(t, domain.CardCitiPremier, tt.p, domain.DefaultSettings())
			wantPoints := tt.p.AmountAED * tt.ptsPerUsd / aedPerUsd
			if r.RawPoints == nil || !approx(*r.RawPoints, wantPoints) {
				t.Fatalf("expected %v points, got %v", wantPoints, r.RawPoints)
			}
			if !approx(r.RewardValueAED, wantPoints*valuePerPoint) {
				t.Errorf("expected value %v, got %v", wantPoints*valuePerPoint, r.RewardValueAED)
			}
			if !strings.Contains(r.Note, tt.noteSubstr) || !strings.HasPrefix(r.Note, "~") {
				t.Errorf("unexpected note %q", r.Note)
			}
		})
	}
}

func TestCitiPremier_MissingExchangeRate(t *testing.T) {
	s := domain.DefaultSettings()
	s.Cards.CitiPremier.AedPerUsd = 0

	r := resultFor(t, domain.CardCitiPremier, purchase(100, domain.LocationDomestic, domain.ChannelInPerson, domain.CategoryDining), s)
	if r.RewardValueAED != 0 || r.EffectiveRate != 0 {
		t.Errorf("expected zero reward without an exchange rate, got %+v", r)
	}
	if r.RawPoints == nil || *r.RawPoints != 0 {
		t.Errorf("expected zero raw points, got %v", r.RawPoints)
	}
}

func TestPointsCards_ValuePerPointSensitivity(t *testing.T) {
	p := purchase(250, domain.LocationInternational, domain.ChannelInPerson, domain.CategoryDining)
	base := domain.DefaultSettings()
	doubled := domain.DefaultSettings()
	doubled.Cards.DIBWalaa.WalaaValuePerPointAED *= 2
	doubled.Cards.CitiPremier.TyValuePerPointAED *= 2

	for _, id := range []domain.CardID{domain.CardDIBWalaa, domain.CardCitiPremier} {
		before := resultFor(t, id, p, base)
		after := resultFor(t, id, p, doubled)
		if *before.RawPoints != *after.RawPoints {
			t.Errorf("%s: raw points changed from %v to %v", id, *before.RawPoints, *after.RawPoints)
		}
		if !approx(after.EffectiveRate, 2*before.EffectiveRate) {
			t.Errorf("%s: expected rate to double from %v, got %v", id, before.EffectiveRate, after.EffectiveRate)
		}
	}
}

func TestAllCards_DisabledYieldsZero(t *testing.T) {
	s := allDisabled()
	// Leave every other knob at a value that would otherwise pay out.
	s.Cards.SIBCashback.Apply10OnFuelWallet = true

	for _, c := range domain.Categories() {
		for _, ch := range []domain.Channel{domain.ChannelInPerson, domain.ChannelOnline, domain.ChannelDigitalWallet} {
			for _, loc := range []domain.Location{domain.LocationDomestic, domain.LocationInternational} {
				res := engine.Evaluate(purchase(123.45, loc, ch, c), s)
				if len(res.Results) != 6 {
					t.Fatalf("expected 6 results, got %d", len(res.Results))
				}
				for _, r := range res.Results {
					if r.RewardValueAED != 0 || r.EffectiveRate != 0 {
						t.Errorf("%s/%s/%s: card %s not zero: %+v", c, ch, loc, r.CardID, r)
					}
				}
				if res.BestCard != nil {
					t.Errorf("expected no best card, got %s", res.BestCard.CardID)
				}
			}
		}
	}
}

func TestAllCards_EffectiveRateIsValueOverAmount(t *testing.T) {
	s := domain.DefaultSettings()
	for _, c := range domain.Categories() {
		for _, ch := range []domain.Channel{domain.ChannelInPerson, domain.ChannelOnline, domain.ChannelDigitalWallet} {
			for _, loc := range []domain.Location{domain.LocationDomestic, domain.LocationInternational} {
				p := purchase(987.65, loc, ch, c)
				for _, r := range engine.Evaluate(p, s).Results {
					if !approx(r.EffectiveRate, r.RewardValueAED/p.AmountAED) {
						t.Errorf("%s %s/%s/%s: rate %v != value/amount %v", r.CardID, c, ch, loc, r.EffectiveRate, r.RewardValueAED/p.AmountAED)
					}
				}
			}
		}
	}
}

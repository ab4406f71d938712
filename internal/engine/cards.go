package engine

import (
	"fmt"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
)

// Card computes one card's reward for a purchase.
// Implementations never fail: a disabled or gated card reports zero.
type Card interface {
	ID() domain.CardID
	RewardType() domain.RewardType
	Evaluate(p domain.Purchase, f Flags, s domain.PerCardSettings) domain.CardResult
}

// cards is the evaluation order, which is also the tie-break order.
var cards = []Card{
	adcb365{},
	eiSwitch{},
	ajmanUltracash{},
	sibCashback{},
	dibWalaa{},
	citiPremier{},
}

// Cards returns the supported cards in evaluation order.
func Cards() []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}

// ============================================================
// ADCB 365
// ============================================================

var adcbTable = Table{
	{When: isInternational, Rate: 0.01, Note: "1% international"},
	{When: isDining, Rate: 0.06, Note: "6% dining"},
	{When: isGrocery, Rate: 0.05, Note: "5% grocery"},
	{When: AnyOf(isFuel, isUtilities), Rate: 0.03, Note: "3% fuel/utilities"},
	{When: Always, Rate: 0.01, Note: "1% base rate"},
}

type adcb365 struct{}

func (adcb365) ID() domain.CardID             { return domain.CardADCB365 }
func (adcb365) RewardType() domain.RewardType { return domain.RewardCashback }

func (c adcb365) Evaluate(p domain.Purchase, f Flags, s domain.PerCardSettings) domain.CardResult {
	cfg := s.ADCB365
	if !cfg.Enabled || !cfg.MinSpendMet {
		return ineligible(c, "Requires AED 5,000 monthly spend for cashback.")
	}
	rule, _ := adcbTable.Match(f)
	return cashback(c, p.AmountAED, rule.Rate,
		fmt.Sprintf("%s cashback (ignoring monthly caps; assumes AED 5k min spend met).", rule.Note))
}

// ============================================================
// Emirates Islamic SWITCH
// ============================================================

var eiLifestyleTable = Table{
	{When: AllOf(isFuel, isDomestic), Rate: 0.08, Note: "8% domestic fuel (Lifestyle)"},
	{When: AllOf(isGrocery, isDomestic), Rate: 0.04, Note: "4% domestic grocery (Lifestyle)"},
	{When: isDining, Rate: 0.04, Note: "4% dining (Lifestyle)"},
	{When: isEducation, Rate: 0.04, Note: "4% education (Lifestyle)"},
	{When: AnyOf(isUtilities, isGovernment), Rate: 0.005, Note: "0.5% utilities/government (Lifestyle)"},
	{When: Always, Rate: 0.01, Note: "1% base rate (Lifestyle)"},
}

var eiTravelTable = Table{
	{When: isTravelAir, Rate: 0.04, Note: "4% airline tickets (Travel)"},
	{When: isTravelHotel, Rate: 0.04, Note: "4% hotels (Travel)"},
	{When: isDining, Rate: 0.04, Note: "4% dining (Travel)"},
	{When: AnyOf(isUtilities, isGovernment), Rate: 0.005, Note: "0.5% utilities/government (Travel)"},
	{When: Always, Rate: 0.01, Note: "1% base rate (Travel)"},
}

type eiSwitch struct{}

func (eiSwitch) ID() domain.CardID             { return domain.CardEISwitch }
func (eiSwitch) RewardType() domain.RewardType { return domain.RewardCashback }

func (c eiSwitch) Evaluate(p domain.Purchase, f Flags, s domain.PerCardSettings) domain.CardResult {
	cfg := s.EISwitch
	if !cfg.Enabled || !cfg.MinSpendMet {
		return ineligible(c, "Requires AED 2,500 monthly spend for cashback.")
	}
	table := eiLifestyleTable
	if cfg.Plan != domain.PlanLifestyle {
		table = eiTravelTable
	}
	rule, _ := table.Match(f)
	return cashback(c, p.AmountAED, rule.Rate, fmt.Sprintf("%s (category caps ignored).", rule.Note))
}

// ============================================================
// Ajman Bank ULTRACASH
// ============================================================

// ajmanBuckets maps a purchase onto the card's selectable bonus buckets.
// Purchases matching none of them are never eligible for 5%.
var ajmanBuckets = []struct {
	When   Predicate
	Bucket domain.AjmanCategory
}{
	{When: isOnlineOrWallet, Bucket: domain.AjmanOnline},
	{When: isFuel, Bucket: domain.AjmanFuel},
	{When: isGrocery, Bucket: domain.AjmanSupermarket},
	{When: isEducation, Bucket: domain.AjmanSchool},
}

const (
	ajmanBonusRate = 0.05
	ajmanBaseRate  = 0.01
)

// AjmanBucket returns the bonus bucket a purchase falls into, if any.
func AjmanBucket(f Flags) (domain.AjmanCategory, bool) {
	for _, b := range ajmanBuckets {
		if b.When(f) {
			return b.Bucket, true
		}
	}
	return "", false
}

type ajmanUltracash struct{}

func (ajmanUltracash) ID() domain.CardID             { return domain.CardAjmanUltracash }
func (ajmanUltracash) RewardType() domain.RewardType { return domain.RewardCashback }

// Evaluate trusts the caller on the size of the chosen set: a bucket that
// is not listed simply earns the base rate.
func (c ajmanUltracash) Evaluate(p domain.Purchase, f Flags, s domain.PerCardSettings) domain.CardResult {
	cfg := s.AjmanUltracash
	if !cfg.Enabled {
		return ineligible(c, "Card disabled.")
	}

	rate := ajmanBaseRate
	var note string
	bucket, ok := AjmanBucket(f)
	switch {
	case ok && cfg.IsActive(bucket):
		rate = ajmanBonusRate
		note = fmt.Sprintf("5%% on your selected '%s' category", bucket)
	case ok:
		note = fmt.Sprintf("1%% base rate; '%s' not in your chosen 5%% categories", bucket)
	default:
		note = "1% base rate; category not eligible for 5%"
	}
	return cashback(c, p.AmountAED, rate, note+" (monthly caps per category not tracked).")
}

// ============================================================
// SIB Cashback
// ============================================================

func sibTable(apply10OnFuelWallet bool) Table {
	t := Table{
		{
			When: AnyOf(isGrocery, isUtilities, isGovernment, isEducation),
			Rate: 0.005,
			Note: "0.5% on utilities/telecom/supermarket/govt/education",
		},
	}
	if !apply10OnFuelWallet {
		fuelWallet := AllOf(isFuel, isWalletPay)
		t = append(t,
			Rule{
				When: AllOf(fuelWallet, isInternational),
				Rate: 0.02,
				Note: "Conservative: fuel with wallet treated as international retail (no 10%)",
			},
			Rule{
				When: fuelWallet,
				Rate: 0.01,
				Note: "Conservative: fuel with wallet treated as domestic retail (no 10%)",
			},
		)
	}
	return append(t,
		Rule{When: isOnlineOrWallet, Rate: 0.1, Note: "10% online/digital wallet"},
		Rule{When: isInternational, Rate: 0.02, Note: "2% international"},
		Rule{When: Always, Rate: 0.01, Note: "1% domestic retail"},
	)
}

var (
	sibConservativeTable = sibTable(false)
	sibFuelWalletTable   = sibTable(true)
)

type sibCashback struct{}

func (sibCashback) ID() domain.CardID             { return domain.CardSIBCashback }
func (sibCashback) RewardType() domain.RewardType { return domain.RewardCashback }

func (c sibCashback) Evaluate(p domain.Purchase, f Flags, s domain.PerCardSettings) domain.CardResult {
	cfg := s.SIBCashback
	if !cfg.Enabled {
		return ineligible(c, "Card disabled.")
	}
	table := sibConservativeTable
	if cfg.Apply10OnFuelWallet {
		table = sibFuelWalletTable
	}
	rule, _ := table.Match(f)
	return cashback(c, p.AmountAED, rule.Rate,
		fmt.Sprintf("%s cashback (up to AED 300/month; not tracked).", rule.Note))
}

// ============================================================
// DIB Wala'a (points)
// ============================================================

// dibTable rates are Wala'a points per AED.
var dibTable = Table{
	{
		When: AnyOf(isGrocery, isFuel, isEducation, isUtilities, isGovernment),
		Rate: 0.2,
		Note: "0.2 pts/AED (suppressed: grocery/fuel/telecom/education/government/utility)",
	},
	{When: isInternational, Rate: 3.5, Note: "3.5 pts/AED international"},
	{When: Always, Rate: 3.0, Note: "3 pts/AED domestic"},
}

type dibWalaa struct{}

func (dibWalaa) ID() domain.CardID             { return domain.CardDIBWalaa }
func (dibWalaa) RewardType() domain.RewardType { return domain.RewardPoints }

func (c dibWalaa) Evaluate(p domain.Purchase, f Flags, s domain.PerCardSettings) domain.CardResult {
	cfg := s.DIBWalaa
	if !cfg.Enabled {
		return ineligible(c, "Card disabled.")
	}
	rule, _ := dibTable.Match(f)
	pts := p.AmountAED * rule.Rate
	value := pts * cfg.WalaaValuePerPointAED
	return pointsResult(c, p.AmountAED, pts, value,
		fmt.Sprintf("%s; %.0f Wala'a Rewards (~AED %.2f equivalent).", rule.Note, pts, value))
}

// ============================================================
// Citi Premier (points)
// ============================================================

// citiTable rates are ThankYou points per USD.
var citiTable = Table{
	{When: AnyOf(isDining, isGrocery, isFuel), Rate: 3, Note: "3 TY pts/USD (dining/grocery/fuel)"},
	{When: isInternational, Rate: 2, Note: "2 TY pts/USD (international)"},
	{When: Always, Rate: 1, Note: "1 TY pt/USD (base rate)"},
}

type citiPremier struct{}

func (citiPremier) ID() domain.CardID             { return domain.CardCitiPremier }
func (citiPremier) RewardType() domain.RewardType { return domain.RewardPoints }

func (c citiPremier) Evaluate(p domain.Purchase, f Flags, s domain.PerCardSettings) domain.CardResult {
	cfg := s.CitiPremier
	if !cfg.Enabled {
		return ineligible(c, "Card disabled.")
	}
	if cfg.AedPerUsd <= 0 {
		return ineligible(c, "AED per USD exchange rate not configured.")
	}
	rule, _ := citiTable.Match(f)
	pointsPerAED := rule.Rate / cfg.AedPerUsd
	pts := p.AmountAED * pointsPerAED
	value := pts * cfg.TyValuePerPointAED
	rate := effectiveRate(value, p.AmountAED)
	return pointsResult(c, p.AmountAED, pts, value,
		fmt.Sprintf("~%.2f%% equivalent; %s; %.0f ThankYou Points.", rate*100, rule.Note, pts))
}

// ============================================================
// Result builders
// ============================================================

func effectiveRate(value, amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	return value / amount
}

func cashback(c Card, amount, rate float64, note string) domain.CardResult {
	value := amount * rate
	return domain.CardResult{
		CardID:         c.ID(),
		CardName:       c.ID().Name(),
		RewardType:     domain.RewardCashback,
		RewardValueAED: value,
		EffectiveRate:  effectiveRate(value, amount),
		Note:           note,
	}
}

func pointsResult(c Card, amount, pts, value float64, note string) domain.CardResult {
	return domain.CardResult{
		CardID:         c.ID(),
		CardName:       c.ID().Name(),
		RewardType:     domain.RewardPoints,
		RewardValueAED: value,
		RawPoints:      &pts,
		EffectiveRate:  effectiveRate(value, amount),
		Note:           note,
	}
}

func ineligible(c Card, note string) domain.CardResult {
	r := domain.CardResult{
		CardID:     c.ID(),
		CardName:   c.ID().Name(),
		RewardType: c.RewardType(),
		Note:       note,
	}
	if r.RewardType == domain.RewardPoints {
		zero := 0.0
		r.RawPoints = &zero
	}
	return r
}

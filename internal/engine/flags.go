// Package engine computes which card pays the most for a single purchase.
//
// Everything here is pure: no I/O, no shared mutable state, and the same
// inputs always produce the same EvaluationResult.
package engine

import "github.com/boddenberg/whichcard-bfa-go/internal/domain"

// Flags caches the predicates every card table asks about a purchase.
type Flags struct {
	Domestic       bool
	International  bool
	Online         bool
	WalletPay      bool
	OnlineOrWallet bool
	Dining         bool
	Grocery        bool
	Fuel           bool
	Education      bool
	Government     bool
	Utilities      bool
	TravelAir      bool
	TravelHotel    bool
	GeneralRetail  bool
}

// DeriveFlags computes the flags for p.
func DeriveFlags(p domain.Purchase) Flags {
	c := p.Category
	f := Flags{
		Domestic:      p.Location == domain.LocationDomestic,
		International: p.Location == domain.LocationInternational,
		Online:        p.Channel == domain.ChannelOnline,
		WalletPay:     p.Channel == domain.ChannelDigitalWallet,
		Dining:        c == domain.CategoryDining || c == domain.CategoryOnlineDining,
		Grocery:       c == domain.CategoryGrocery || c == domain.CategoryOnlineGrocery,
		Fuel:          c == domain.CategoryFuel,
		Education:     c == domain.CategoryEducation,
		Government:    c == domain.CategoryGovernment,
		Utilities:     c == domain.CategoryUtilities,
		TravelAir:     c == domain.CategoryTravelAir,
		TravelHotel:   c == domain.CategoryTravelHotel,
		GeneralRetail: c == domain.CategoryOnlineShopping || c == domain.CategoryInStoreShopping || c == domain.CategoryOther,
	}
	f.OnlineOrWallet = f.Online || f.WalletPay
	return f
}

package engine

// Predicate tests a purchase's flags.
type Predicate func(f Flags) bool

// Rule is one row of a card's decision table. Rate is a cashback fraction
// for cashback cards and points per currency unit for points cards.
type Rule struct {
	When Predicate
	Rate float64
	Note string
}

// Table is an ordered decision table: the first rule whose predicate holds wins.
// Every table ends with an Always rule so Match never falls through.
type Table []Rule

// Match returns the first rule matching f.
func (t Table) Match(f Flags) (Rule, bool) {
	for _, r := range t {
		if r.When(f) {
			return r, true
		}
	}
	return Rule{}, false
}

// Always matches every purchase.
func Always(Flags) bool { return true }

// AnyOf holds when at least one of preds holds.
func AnyOf(preds ...Predicate) Predicate {
	return func(f Flags) bool {
		for _, p := range preds {
			if p(f) {
				return true
			}
		}
		return false
	}
}

// AllOf holds when every one of preds holds.
func AllOf(preds ...Predicate) Predicate {
	return func(f Flags) bool {
		for _, p := range preds {
			if !p(f) {
				return false
			}
		}
		return true
	}
}

// Single-flag predicates used by the card tables.
var (
	isDomestic       Predicate = func(f Flags) bool { return f.Domestic }
	isInternational  Predicate = func(f Flags) bool { return f.International }
	isWalletPay      Predicate = func(f Flags) bool { return f.WalletPay }
	isOnlineOrWallet Predicate = func(f Flags) bool { return f.OnlineOrWallet }
	isDining         Predicate = func(f Flags) bool { return f.Dining }
	isGrocery        Predicate = func(f Flags) bool { return f.Grocery }
	isFuel           Predicate = func(f Flags) bool { return f.Fuel }
	isEducation      Predicate = func(f Flags) bool { return f.Education }
	isGovernment     Predicate = func(f Flags) bool { return f.Government }
	isUtilities      Predicate = func(f Flags) bool { return f.Utilities }
	isTravelAir      Predicate = func(f Flags) bool { return f.TravelAir }
	isTravelHotel    Predicate = func(f Flags) bool { return f.TravelHotel }
)

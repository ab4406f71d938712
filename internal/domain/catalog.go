package domain

import "strings"

// ============================================================
// Category catalogue (purchase form picker)
// ============================================================

// CategoryGroup buckets categories in the picker.
type CategoryGroup string

const (
	GroupFood     CategoryGroup = "food"
	GroupBills    CategoryGroup = "bills"
	GroupShopping CategoryGroup = "shopping"
	GroupTravel   CategoryGroup = "travel"
)

// Label returns the heading shown above the group.
func (g CategoryGroup) Label() string {
	switch g {
	case GroupFood:
		return "Food & Groceries"
	case GroupBills:
		return "Bills & Services"
	case GroupShopping:
		return "Shopping"
	case GroupTravel:
		return "Travel"
	}
	return string(g)
}

// CategoryOption is one searchable entry of the picker.
type CategoryOption struct {
	Value    Category      `json:"value"`
	Label    string        `json:"label"`
	Keywords []string      `json:"keywords"`
	Group    CategoryGroup `json:"group"`
}

// Matches reports whether query appears in the label or any keyword.
// An empty query matches everything.
func (o CategoryOption) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(o.Label), q) {
		return true
	}
	for _, k := range o.Keywords {
		if strings.Contains(k, q) {
			return true
		}
	}
	return false
}

// CategoryOptions returns the picker entries in display order.
func CategoryOptions() []CategoryOption {
	return []CategoryOption{
		{
			Value:    CategoryOnlineDining,
			Label:    "Food delivery – Talabat / Deliveroo / Careem Food",
			Keywords: []string{"talabat", "careem", "careem food", "deliveroo", "zomato", "food", "delivery", "restaurant", "order", "app"},
			Group:    GroupFood,
		},
		{
			Value:    CategoryOnlineGrocery,
			Label:    "Online groceries – Talabat Mart / Careem / Instashop",
			Keywords: []string{"talabat mart", "talabat grocery", "careem", "careem mart", "careem market", "careem quik", "instashop", "grocery app", "online grocery", "noon minutes"},
			Group:    GroupFood,
		},
		{
			Value:    CategoryGrocery,
			Label:    "Groceries – supermarket / hypermarket (Carrefour, Lulu, etc.)",
			Keywords: []string{"carrefour", "lulu", "supermarket", "hypermarket", "grocery", "spinneys", "waitrose", "union coop"},
			Group:    GroupFood,
		},
		{
			Value:    CategoryDining,
			Label:    "Dining in-store – restaurants / cafes",
			Keywords: []string{"restaurant", "cafe", "dine in", "eat out", "coffee", "brunch", "dinner", "lunch"},
			Group:    GroupFood,
		},
		{
			Value:    CategoryFuel,
			Label:    "Fuel / Petrol station",
			Keywords: []string{"fuel", "petrol", "gas station", "adnoc", "enoc", "epco", "emarat", "gas"},
			Group:    GroupBills,
		},
		{
			Value:    CategoryUtilities,
			Label:    "Utilities / Telecom / Salik / Etisalat / Du",
			Keywords: []string{"utility", "utilities", "etisalat", "du", "salik", "bill", "dewa", "fewa", "sewa", "telecom", "phone"},
			Group:    GroupBills,
		},
		{
			Value:    CategoryGovernment,
			Label:    "Government / Real estate / Traffic fines",
			Keywords: []string{"rta", "tasheel", "government", "traffic fine", "ejari", "visa", "emirates id", "amer", "typsa"},
			Group:    GroupBills,
		},
		{
			Value:    CategoryEducation,
			Label:    "Education / School / University fees",
			Keywords: []string{"school", "university", "tuition", "education", "college", "nursery", "fees"},
			Group:    GroupBills,
		},
		{
			Value:    CategoryOnlineShopping,
			Label:    "Online shopping – Amazon / Noon / websites",
			Keywords: []string{"amazon", "noon", "online shopping", "ecommerce", "namshi", "ounass", "shein", "aliexpress"},
			Group:    GroupShopping,
		},
		{
			Value:    CategoryInStoreShopping,
			Label:    "In-store shopping – clothes / electronics / malls",
			Keywords: []string{"mall", "clothes", "electronics", "shop", "store", "dubai mall", "moe", "zara", "h&m", "sharaf dg"},
			Group:    GroupShopping,
		},
		{
			Value:    CategoryTravelAir,
			Label:    "Travel – airline tickets",
			Keywords: []string{"flight", "airline", "emirates", "etihad", "flydubai", "air arabia", "ticket", "booking"},
			Group:    GroupTravel,
		},
		{
			Value:    CategoryTravelHotel,
			Label:    "Travel – hotels",
			Keywords: []string{"hotel", "booking.com", "airbnb", "stay", "agoda", "expedia", "resort", "accommodation"},
			Group:    GroupTravel,
		},
		{
			Value:    CategoryOther,
			Label:    "Other / not sure",
			Keywords: []string{"other", "misc", "unknown", "not sure"},
			Group:    GroupShopping,
		},
	}
}

// CardInfo is a catalogue entry for GET /v1/cards.
type CardInfo struct {
	ID         CardID     `json:"id"`
	Name       string     `json:"name"`
	RewardType RewardType `json:"rewardType"`
}

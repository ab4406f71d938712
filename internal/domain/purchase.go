package domain

import (
	"encoding/json"
	"fmt"
)

// ============================================================
// Purchase description
// ============================================================

// Location says whether the merchant is inside or outside the UAE.
type Location string

const (
	LocationDomestic      Location = "domestic"
	LocationInternational Location = "international"
)

// Channel is how the payment was made.
type Channel string

const (
	ChannelInPerson      Channel = "in_person"
	ChannelOnline        Channel = "online"
	ChannelDigitalWallet Channel = "digital_wallet"
)

// Category is the closed set of purchase categories understood by the engine.
type Category string

const (
	CategoryGrocery         Category = "grocery"
	CategoryOnlineGrocery   Category = "online_grocery"
	CategoryDining          Category = "dining"
	CategoryOnlineDining    Category = "online_dining"
	CategoryFuel            Category = "fuel"
	CategoryUtilities       Category = "utilities"
	CategoryGovernment      Category = "government"
	CategoryEducation       Category = "education"
	CategoryOnlineShopping  Category = "online_shopping"
	CategoryInStoreShopping Category = "in_store_shopping"
	CategoryTravelAir       Category = "travel_air"
	CategoryTravelHotel     Category = "travel_hotel"
	CategoryOther           Category = "other"
)

// Legacy wire values still sent by older front-end builds.
var (
	channelAliases = map[string]Channel{
		"pos":    ChannelInPerson,
		"wallet": ChannelDigitalWallet,
	}
	categoryAliases = map[string]Category{
		"online_food":      CategoryOnlineDining,
		"instore_shopping": CategoryInStoreShopping,
	}
)

// Categories returns every purchase category in display order.
func Categories() []Category {
	return []Category{
		CategoryGrocery,
		CategoryOnlineGrocery,
		CategoryDining,
		CategoryOnlineDining,
		CategoryFuel,
		CategoryUtilities,
		CategoryGovernment,
		CategoryEducation,
		CategoryOnlineShopping,
		CategoryInStoreShopping,
		CategoryTravelAir,
		CategoryTravelHotel,
		CategoryOther,
	}
}

// Valid reports whether l is a known location.
func (l Location) Valid() bool {
	return l == LocationDomestic || l == LocationInternational
}

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	switch c {
	case ChannelInPerson, ChannelOnline, ChannelDigitalWallet:
		return true
	}
	return false
}

// UnmarshalJSON accepts the legacy "pos" and "wallet" values.
func (c *Channel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if alias, ok := channelAliases[s]; ok {
		*c = alias
		return nil
	}
	*c = Channel(s)
	return nil
}

// Valid reports whether c is one of the closed set of categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts the legacy "online_food" and "instore_shopping" values.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if alias, ok := categoryAliases[s]; ok {
		*c = alias
		return nil
	}
	*c = Category(s)
	return nil
}

// Purchase describes the single transaction being evaluated.
// AmountAED is not checked here: the engine treats a non-positive amount
// as "nothing to compare" rather than as an error.
type Purchase struct {
	AmountAED float64  `json:"amountAED"`
	Location  Location `json:"location"`
	Channel   Channel  `json:"channel"`
	Category  Category `json:"category"`
}

// Validate checks that every enum field holds a known value.
func (p Purchase) Validate() error {
	if !p.Location.Valid() {
		return &ErrValidation{Field: "location", Message: fmt.Sprintf("unknown location %q", p.Location)}
	}
	if !p.Channel.Valid() {
		return &ErrValidation{Field: "channel", Message: fmt.Sprintf("unknown channel %q", p.Channel)}
	}
	if !p.Category.Valid() {
		return &ErrValidation{Field: "category", Message: fmt.Sprintf("unknown category %q", p.Category)}
	}
	return nil
}

package domain

import (
	"fmt"
	"slices"
)

// ============================================================
// Cards
// ============================================================

// CardID identifies one of the supported credit cards.
type CardID string

const (
	CardADCB365        CardID = "ADCB_365"
	CardEISwitch       CardID = "EI_SWITCH"
	CardAjmanUltracash CardID = "AJMAN_ULTRACASH"
	CardSIBCashback    CardID = "SIB_CASHBACK"
	CardDIBWalaa       CardID = "DIB_WALAA"
	CardCitiPremier    CardID = "CITI_PREMIER"
)

// Name returns the display name of the card.
func (id CardID) Name() string {
	switch id {
	case CardADCB365:
		return "ADCB 365"
	case CardEISwitch:
		return "Emirates Islamic SWITCH"
	case CardAjmanUltracash:
		return "Ajman Bank ULTRACASH"
	case CardSIBCashback:
		return "SIB Cashback"
	case CardDIBWalaa:
		return "DIB Wala'a"
	case CardCitiPremier:
		return "Citi Premier"
	}
	return string(id)
}

// SwitchPlan is the reward plan selected on the Emirates Islamic SWITCH card.
type SwitchPlan string

const (
	PlanLifestyle SwitchPlan = "lifestyle"
	PlanTravel    SwitchPlan = "travel"
)

// AjmanCategory is one of the bonus buckets a ULTRACASH holder can pick.
type AjmanCategory string

const (
	AjmanFuel        AjmanCategory = "fuel"
	AjmanSupermarket AjmanCategory = "supermarket"
	AjmanOnline      AjmanCategory = "online"
	AjmanSchool      AjmanCategory = "school"
)

// AjmanChosenCategories is how many bonus buckets the card lets you pick.
const AjmanChosenCategories = 2

// AjmanCategories returns the selectable buckets in display order.
func AjmanCategories() []AjmanCategory {
	return []AjmanCategory{AjmanFuel, AjmanSupermarket, AjmanOnline, AjmanSchool}
}

// ============================================================
// Per-card settings
// ============================================================

// AdcbSettings configures ADCB 365 (AED 5,000 monthly minimum spend).
type AdcbSettings struct {
	Enabled     bool `json:"enabled" yaml:"enabled"`
	MinSpendMet bool `json:"minSpendMet" yaml:"minSpendMet"`
}

// EiSwitchSettings configures Emirates Islamic SWITCH (AED 2,500 monthly minimum spend).
type EiSwitchSettings struct {
	Enabled     bool       `json:"enabled" yaml:"enabled"`
	Plan        SwitchPlan `json:"plan" yaml:"plan"`
	MinSpendMet bool       `json:"minSpendMet" yaml:"minSpendMet"`
}

// AjmanSettings configures Ajman Bank ULTRACASH.
type AjmanSettings struct {
	Enabled          bool            `json:"enabled" yaml:"enabled"`
	ActiveCategories []AjmanCategory `json:"activeCategories" yaml:"activeCategories"`
}

// IsActive reports whether c is one of the chosen 5% buckets.
func (s AjmanSettings) IsActive(c AjmanCategory) bool {
	return slices.Contains(s.ActiveCategories, c)
}

// SibSettings configures SIB Cashback.
type SibSettings struct {
	Enabled             bool `json:"enabled" yaml:"enabled"`
	Apply10OnFuelWallet bool `json:"apply10OnFuelWallet" yaml:"apply10OnFuelWallet"`
}

// DibSettings configures DIB Wala'a.
type DibSettings struct {
	Enabled               bool    `json:"enabled" yaml:"enabled"`
	WalaaValuePerPointAED float64 `json:"walaaValuePerPointAED" yaml:"walaaValuePerPointAED"`
}

// CitiSettings configures Citi Premier.
type CitiSettings struct {
	Enabled            bool    `json:"enabled" yaml:"enabled"`
	AedPerUsd          float64 `json:"aedPerUsd" yaml:"aedPerUsd"`
	TyValuePerPointAED float64 `json:"tyValuePerPointAED" yaml:"tyValuePerPointAED"`
}

// PerCardSettings holds one settings record per card.
type PerCardSettings struct {
	ADCB365        AdcbSettings     `json:"ADCB_365" yaml:"ADCB_365"`
	EISwitch       EiSwitchSettings `json:"EI_SWITCH" yaml:"EI_SWITCH"`
	AjmanUltracash AjmanSettings    `json:"AJMAN_ULTRACASH" yaml:"AJMAN_ULTRACASH"`
	SIBCashback    SibSettings      `json:"SIB_CASHBACK" yaml:"SIB_CASHBACK"`
	DIBWalaa       DibSettings      `json:"DIB_WALAA" yaml:"DIB_WALAA"`
	CitiPremier    CitiSettings     `json:"CITI_PREMIER" yaml:"CITI_PREMIER"`
}

// CardSettings is the full bundle handed to the engine.
type CardSettings struct {
	Cards PerCardSettings `json:"cards" yaml:"cards"`
}

// defaultSettings is never handed out directly; see DefaultSettings.
var defaultSettings = CardSettings{
	Cards: PerCardSettings{
		ADCB365: AdcbSettings{
			Enabled:     true,
			MinSpendMet: true,
		},
		EISwitch: EiSwitchSettings{
			Enabled:     true,
			Plan:        PlanLifestyle,
			MinSpendMet: true,
		},
		AjmanUltracash: AjmanSettings{
			Enabled:          true,
			ActiveCategories: []AjmanCategory{AjmanFuel, AjmanSupermarket},
		},
		SIBCashback: SibSettings{
			Enabled:             true,
			Apply10OnFuelWallet: false,
		},
		DIBWalaa: DibSettings{
			Enabled:               true,
			WalaaValuePerPointAED: 0.005,
		},
		CitiPremier: CitiSettings{
			Enabled:            true,
			AedPerUsd:          3.67,
			TyValuePerPointAED: 500.0 / 15000.0,
		},
	},
}

// DefaultSettings returns a fresh copy of the built-in defaults.
func DefaultSettings() CardSettings {
	return defaultSettings.Clone()
}

// Clone deep-copies the bundle so the copy can be edited freely.
func (s CardSettings) Clone() CardSettings {
	out := s
	if s.Cards.AjmanUltracash.ActiveCategories != nil {
		out.Cards.AjmanUltracash.ActiveCategories = slices.Clone(s.Cards.AjmanUltracash.ActiveCategories)
	}
	return out
}

// Validate enforces the constraints of the settings editor.
// The engine itself does not call this and tolerates malformed bundles.
func (s CardSettings) Validate() error {
	switch s.Cards.EISwitch.Plan {
	case PlanLifestyle, PlanTravel:
	default:
		return &ErrValidation{Field: "cards.EI_SWITCH.plan", Message: fmt.Sprintf("unknown plan %q", s.Cards.EISwitch.Plan)}
	}

	chosen := s.Cards.AjmanUltracash.ActiveCategories
	if len(chosen) != AjmanChosenCategories {
		return &ErrValidation{
			Field:   "cards.AJMAN_ULTRACASH.activeCategories",
			Message: fmt.Sprintf("exactly %d categories must be selected, got %d", AjmanChosenCategories, len(chosen)),
		}
	}
	seen := make(map[AjmanCategory]bool, len(chosen))
	for _, c := range chosen {
		if !slices.Contains(AjmanCategories(), c) {
			return &ErrValidation{Field: "cards.AJMAN_ULTRACASH.activeCategories", Message: fmt.Sprintf("unknown category %q", c)}
		}
		if seen[c] {
			return &ErrValidation{Field: "cards.AJMAN_ULTRACASH.activeCategories", Message: fmt.Sprintf("category %q selected twice", c)}
		}
		seen[c] = true
	}

	if s.Cards.DIBWalaa.WalaaValuePerPointAED < 0 {
		return &ErrValidation{Field: "cards.DIB_WALAA.walaaValuePerPointAED", Message: "must not be negative"}
	}
	if s.Cards.CitiPremier.AedPerUsd <= 0 {
		return &ErrValidation{Field: "cards.CITI_PREMIER.aedPerUsd", Message: "must be greater than zero"}
	}
	if s.Cards.CitiPremier.TyValuePerPointAED < 0 {
		return &ErrValidation{Field: "cards.CITI_PREMIER.tyValuePerPointAED", Message: "must not be negative"}
	}
	return nil
}

package domain

// RewardType distinguishes direct cashback from points converted to AED.
type RewardType string

const (
	RewardCashback RewardType = "cashback"
	RewardPoints   RewardType = "points"
)

// CardResult is the reward estimate for one card.
// RawPoints is set only for points cards. EffectiveRate is RewardValueAED
// divided by the purchase amount.
type CardResult struct {
	CardID         CardID     `json:"cardId"`
	CardName       string     `json:"cardName"`
	RewardType     RewardType `json:"rewardType"`
	RewardValueAED float64    `json:"rewardValueAED"`
	RawPoints      *float64   `json:"rawPoints,omitempty"`
	EffectiveRate  float64    `json:"effectiveRate"`
	Note           string     `json:"note"`
}

// EvaluationResult holds every card's estimate, best first, and the winner.
// BestCard is nil when no card earns anything.
type EvaluationResult struct {
	BestCard *CardResult  `json:"bestCard"`
	Results  []CardResult `json:"results"`
}

package models

import "gorm.io/gorm"

// AccountSnapshot is the most recent account state reported by the broker.
// The sync loop overwrites it on every cycle; only the latest row matters.
type AccountSnapshot struct {
	gorm.Model
	Broker        string  `json:"broker"`
	AccountNumber string  `json:"account_number"`
	Balance       float64 `json:"balance"`
	Equity        float64 `json:"equity"`
	Margin        float64 `json:"margin"`
	FreeMargin    float64 `json:"free_margin"`
}

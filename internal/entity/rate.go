package domain

import "time"

type Metal string

const (
	MetalGold   Metal = "gold"
	MetalSilver Metal = "silver"
)

// ParseMetal maps a request string onto a known metal.
func ParseMetal(s string) (Metal, bool) {
	switch Metal(s) {
	case MetalGold, MetalSilver:
		return Metal(s), true
	}
	return "", false
}

// Rate is the current per-gram buy/sell price of a metal. It is replaced
// wholesale on every refresh; consumers never see a partial update.
type Rate struct {
	Metal       Metal     `json:"metal"`
	BuyPerGram  float64   `json:"buyRate"`
	SellPerGram float64   `json:"sellRate"`
	UpdatedAt   time.Time `json:"timestamp"`
	Source      string    `json:"source,omitempty"`
}

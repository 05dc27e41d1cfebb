package models

import "time"

// Wallet is a watchlist entry: an address the user tracks, with an optional
// human label and chain name.
type Wallet struct {
	ID        string
	UserID    string
	Address   string
	Label     string
	Chain     string
	CreatedAt time.Time
}

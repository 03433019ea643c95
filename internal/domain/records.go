package domain

import "time"

// Activity is a single public audit-feed entry. Records are immutable once
// written; there is no update or delete path.
type Activity struct {
	ID          string    `bson:"_id,omitempty"`
	Wallet      string    `bson:"wallet"`
	TxSignature string    `bson:"tx_signature"`
	AmountSOL   float64   `bson:"amount_sol"`
	Timestamp   time.Time `bson:"timestamp"`
	// CreatedAt exists only on legacy documents and serves as a timestamp
	// fallback when Timestamp is unset.
	CreatedAt time.Time `bson:"created_at,omitempty"`
}

// Metric holds the running aggregate totals shown to users. Exactly one
// authoritative document is expected; totals only ever increase.
type Metric struct {
	ID                   string    `bson:"_id,omitempty"`
	TotalSOLRecovered    float64   `bson:"total_sol_recovered"`
	TotalAccountsClaimed int64     `bson:"total_accounts_claimed"`
	UpdatedAt            time.Time `bson:"updated_at"`
}

// Claim records a user intent to reclaim funds prior to any on-chain
// execution. TxSignature stays nil until an external chain operation assigns
// one, which is outside this service.
type Claim struct {
	ID             string    `bson:"_id,omitempty"`
	Wallet         string    `bson:"wallet"`
	Accounts       []string  `bson:"accounts"`
	TotalAmountSOL float64   `bson:"total_amount_sol"`
	FeePercent     float64   `bson:"fee_percent"`
	TxSignature    *string   `bson:"tx_signature"`
	CreatedAt      time.Time `bson:"created_at"`
}

// RedactWallet shortens a wallet address for the public feed: first two
// characters, an ellipsis, last three. Wallets too short to redact are
// returned unchanged.
func RedactWallet(wallet string) string {
	if len(wallet) < 5 {
		return wallet
	}
	return wallet[:2] + "..." + wallet[len(wallet)-3:]
}

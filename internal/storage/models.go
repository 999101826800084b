package storage

import (
	"time"
)

// SlippageConfigModel is the persisted per-owner tolerance record. It is
// addressed by the owner's pubkey; the owner is the only writer.
type SlippageConfigModel struct {
	ID          string    `json:"id" bson:"_id,omitempty" db:"id"`
	Owner       string    `json:"owner" bson:"owner" db:"owner"`
	SlippageBps uint16    `json:"slippage_bps" bson:"slippage_bps" db:"slippage_bps"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at" db:"updated_at"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// NewSlippageConfigModel creates a record keyed by the owner's pubkey.
func NewSlippageConfigModel(owner string, bps uint16) *SlippageConfigModel {
	now := time.Now().UTC()
	return &SlippageConfigModel{
		ID:          owner,
		Owner:       owner,
		SlippageBps: bps,
		UpdatedAt:   now,
		CreatedAt:   now,
	}
}

// EventModel is an append-only record of a completed relay action. Events
// are written once and never read back by the relay itself.
type EventModel struct {
	ID        string                 `json:"id" bson:"_id,omitempty" db:"id"`
	Kind      string                 `json:"kind" bson:"kind" db:"kind"`
	Actor     string                 `json:"actor" bson:"actor" db:"actor"`
	Data      map[string]interface{} `json:"data" bson:"data" db:"data"`
	Timestamp int64                  `json:"timestamp" bson:"timestamp" db:"timestamp"`
	CreatedAt time.Time              `json:"created_at" bson:"created_at" db:"created_at"`
}

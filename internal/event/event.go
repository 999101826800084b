// Package event defines the notification events emitted after relay
// operations complete, together with the sinks that receive them.
package event

import (
	"github.com/lugondev/clmm-relay/pkg/types"
)

// Event kinds, one per relay operation.
const (
	KindSlippageSet        = "slippage_set"
	KindSwapExecuted       = "swap_executed"
	KindPositionOpened     = "position_opened"
	KindLiquidityIncreased = "liquidity_increased"
	KindLiquidityDecreased = "liquidity_decreased"
)

// Event is a notification record produced after an operation has
// fully succeeded. Events are observational and never re-validated.
type Event interface {
	Kind() string
	Actor() types.Pubkey
	UnixTimestamp() int64
}

// SlippageSet records a user updating their slippage tolerance.
type SlippageSet struct {
	User        types.Pubkey `json:"user"`
	SlippageBps uint16       `json:"slippage_bps"`
	Timestamp   int64        `json:"timestamp"`
}

func (e *SlippageSet) Kind() string         { return KindSlippageSet }
func (e *SlippageSet) Actor() types.Pubkey  { return e.User }
func (e *SlippageSet) UnixTimestamp() int64 { return e.Timestamp }

// SwapExecuted records a relayed swap. AmountIn is always the caller's fixed
// amount and AmountOut the caller's expected counter-amount, regardless of
// direction; neither is an engine-confirmed fill.
type SwapExecuted struct {
	User           types.Pubkey `json:"user"`
	Pool           types.Pubkey `json:"pool"`
	AmountIn       uint64       `json:"amount_in"`
	AmountOut      uint64       `json:"amount_out"`
	ExpectedAmount uint64       `json:"expected_amount"`
	SlippageBps    uint16       `json:"slippage_bps"`
	IsBaseInput    bool         `json:"is_base_input"`
	Timestamp      int64        `json:"timestamp"`
}

func (e *SwapExecuted) Kind() string         { return KindSwapExecuted }
func (e *SwapExecuted) Actor() types.Pubkey  { return e.User }
func (e *SwapExecuted) UnixTimestamp() int64 { return e.Timestamp }

// PositionOpened records a relayed position open. Amount0 and Amount1 carry
// the caller's deposit caps, not the amounts the engine actually drew.
type PositionOpened struct {
	User        types.Pubkey `json:"user"`
	Pool        types.Pubkey `json:"pool"`
	PositionNFT types.Pubkey `json:"position_nft"`
	TickLower   int32        `json:"tick_lower"`
	TickUpper   int32        `json:"tick_upper"`
	Liquidity   string       `json:"liquidity"`
	Amount0     uint64       `json:"amount_0"`
	Amount1     uint64       `json:"amount_1"`
	Timestamp   int64        `json:"timestamp"`
}

func (e *PositionOpened) Kind() string         { return KindPositionOpened }
func (e *PositionOpened) Actor() types.Pubkey  { return e.User }
func (e *PositionOpened) UnixTimestamp() int64 { return e.Timestamp }

// LiquidityIncreased records liquidity added to an existing position.
type LiquidityIncreased struct {
	User       types.Pubkey `json:"user"`
	Pool       types.Pubkey `json:"pool"`
	Liquidity  string       `json:"liquidity"`
	Amount0Max uint64       `json:"amount_0_max"`
	Amount1Max uint64       `json:"amount_1_max"`
	Timestamp  int64        `json:"timestamp"`
}

func (e *LiquidityIncreased) Kind() string         { return KindLiquidityIncreased }
func (e *LiquidityIncreased) Actor() types.Pubkey  { return e.User }
func (e *LiquidityIncreased) UnixTimestamp() int64 { return e.Timestamp }

// LiquidityDecreased records liquidity removed from an existing position.
type LiquidityDecreased struct {
	User       types.Pubkey `json:"user"`
	Pool       types.Pubkey `json:"pool"`
	Liquidity  string       `json:"liquidity"`
	Amount0Min uint64       `json:"amount_0_min"`
	Amount1Min uint64       `json:"amount_1_min"`
	Timestamp  int64        `json:"timestamp"`
}

func (e *LiquidityDecreased) Kind() string         { return KindLiquidityDecreased }
func (e *LiquidityDecreased) Actor() types.Pubkey  { return e.User }
func (e *LiquidityDecreased) UnixTimestamp() int64 { return e.Timestamp }

package dexparser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type TradeType string

const (
	TradeBuy  TradeType = "BUY"
	TradeSell TradeType = "SELL"
)

type TransferType string

const (
	TransferSPL     TransferType = "transfer"
	TransferChecked TransferType = "transferChecked"
	TransferNative  TransferType = "nativeTransfer"
	TransferMintTo  TransferType = "mintTo"
	TransferBurn    TransferType = "burn"
)

type PoolEventType string

const (
	PoolCreate PoolEventType = "CREATE"
	PoolAdd    PoolEventType = "ADD"
	PoolRemove PoolEventType = "REMOVE"
)

type MemeEventType string

const (
	MemeCreate  MemeEventType = "CREATE"
	MemeBuy     MemeEventType = "BUY"
	MemeSell    MemeEventType = "SELL"
	MemeMigrate MemeEventType = "MIGRATE"
)

// TokenInfo describes one token leg. Amount is the UI-scaled value,
// AmountRaw the integer base-unit amount: Amount == AmountRaw / 10^Decimals.
type TokenInfo struct {
	Mint             string          `json:"mint"`
	Amount           decimal.Decimal `json:"amount"`
	AmountRaw        uint64          `json:"amountRaw,string"`
	Decimals         uint8           `json:"decimals"`
	Authority        string          `json:"authority,omitempty"`
	Source           string          `json:"source,omitempty"`
	Destination      string          `json:"destination,omitempty"`
	DestinationOwner string          `json:"destinationOwner,omitempty"`
	SourceBalance    *TokenBalance   `json:"sourceBalance,omitempty"`
	DestBalance      *TokenBalance   `json:"destinationBalance,omitempty"`
}

// TokenBalance is a pre/post pair for one token account, in raw base units.
type TokenBalance struct {
	PreAmount  uint64 `json:"preAmount,string"`
	PostAmount uint64 `json:"postAmount,string"`
}

func newTokenInfo(mint string, amountRaw uint64, decimals uint8) TokenInfo {
	return TokenInfo{
		Mint:      mint,
		Amount:    uiAmount(amountRaw, decimals),
		AmountRaw: amountRaw,
		Decimals:  decimals,
	}
}

func uiAmount(raw uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromUint64(raw).Shift(-int32(decimals))
}

// TransferData is one detected token-movement side effect.
type TransferData struct {
	Type      TransferType `json:"type"`
	ProgramID string       `json:"programId"`
	Idx       string       `json:"idx"`
	Info      TokenInfo    `json:"info"`
	IsFee     bool         `json:"isFee,omitempty"`
}

// TradeInfo is one reconstructed swap (or one route leg before merging).
type TradeInfo struct {
	Type        TradeType  `json:"type"`
	InputToken  TokenInfo  `json:"inputToken"`
	OutputToken TokenInfo  `json:"outputToken"`
	User        string     `json:"user"`
	ProgramID   string     `json:"programId"`
	Amm         string     `json:"amm,omitempty"`
	Route       string     `json:"route,omitempty"`
	Slot        uint64     `json:"slot"`
	Timestamp   int64      `json:"timestamp"`
	Signature   string     `json:"signature"`
	Idx         string     `json:"idx"`
	Fee         *TokenInfo `json:"fee,omitempty"`
	Fees        []TokenInfo `json:"fees,omitempty"`
}

// PoolEvent is one liquidity-pool lifecycle event.
type PoolEvent struct {
	Type            PoolEventType `json:"type"`
	PoolID          string        `json:"poolId,omitempty"`
	Config          string        `json:"config,omitempty"`
	Token0Mint      string        `json:"token0Mint,omitempty"`
	Token1Mint      string        `json:"token1Mint,omitempty"`
	Token0Amount    decimal.Decimal `json:"token0Amount"`
	Token1Amount    decimal.Decimal `json:"token1Amount"`
	Token0AmountRaw uint64        `json:"token0AmountRaw,string"`
	Token1AmountRaw uint64        `json:"token1AmountRaw,string"`
	LPMint          string        `json:"lpMint,omitempty"`
	Signer          string        `json:"signer"`
	ProgramID       string        `json:"programId"`
	Signature       string        `json:"signature"`
	Slot            uint64        `json:"slot"`
	Timestamp       int64         `json:"timestamp"`
	Idx             string        `json:"idx"`
}

// MemeEvent is one token-launch (bonding curve) lifecycle event.
type MemeEvent struct {
	Type         MemeEventType `json:"type"`
	BaseMint     string        `json:"baseMint"`
	QuoteMint    string        `json:"quoteMint,omitempty"`
	User         string        `json:"user"`
	BondingCurve string        `json:"bondingCurve,omitempty"`
	Pool         string        `json:"pool,omitempty"`
	InputToken   *TokenInfo    `json:"inputToken,omitempty"`
	OutputToken  *TokenInfo    `json:"outputToken,omitempty"`
	Name         string        `json:"name,omitempty"`
	Symbol       string        `json:"symbol,omitempty"`
	URI          string        `json:"uri,omitempty"`
	Decimals     uint8         `json:"decimals,omitempty"`
	TotalSupply  uint64        `json:"totalSupply,omitempty,string"`
	Fee          *TokenInfo    `json:"fee,omitempty"`
	ProgramID    string        `json:"programId"`
	Signature    string        `json:"signature"`
	Slot         uint64        `json:"slot"`
	Timestamp    int64         `json:"timestamp"`
	Idx          string        `json:"idx"`
}

// BalanceChange is the signer-visible delta for one mint.
type BalanceChange struct {
	Mint     string          `json:"mint"`
	Decimals uint8           `json:"decimals"`
	PreRaw   uint64          `json:"preRaw,string"`
	PostRaw  uint64          `json:"postRaw,string"`
	Delta    decimal.Decimal `json:"delta"`
}

// ParseResult aggregates everything extracted from one transaction. It is
// mutated in place by the orchestrator and immutable once returned.
type ParseResult struct {
	State              bool                      `json:"state"`
	Fee                TokenInfo                 `json:"fee"`
	Trades             []TradeInfo               `json:"trades"`
	Liquidities        []PoolEvent               `json:"liquidities"`
	Transfers          []TransferData            `json:"transfers"`
	MemeEvents         []MemeEvent               `json:"memeEvents"`
	SolBalanceChange   int64                     `json:"solBalanceChange"`
	TokenBalanceChange map[string]*BalanceChange `json:"tokenBalanceChange,omitempty"`
	Slot               uint64                    `json:"slot"`
	Timestamp          int64                     `json:"timestamp"`
	Signature          string                    `json:"signature"`
	Signers            []string                  `json:"signer"`
	ComputeUnits       uint64                    `json:"computeUnits"`
	TxStatus           string                    `json:"txStatus"`
	Msg                string                    `json:"msg,omitempty"`
}

// ParseConfig is the configuration surface consumed by the core.
type ParseConfig struct {
	TryUnknownDEX    bool
	AggregateTrades  bool
	ProgramIDs       []string // allow-list; empty means all
	IgnoreProgramIDs []string // deny-list
	ThrowError       bool
}

// DexInfo identifies the protocol a transaction (or instruction group)
// belongs to.
type DexInfo struct {
	ProgramID string `json:"programId,omitempty"`
	Name      string `json:"name,omitempty"`
	Route     string `json:"route,omitempty"`
}

func makeIdx(outer, inner int) string {
	if inner < 0 {
		return fmt.Sprintf("%d-0", outer)
	}
	return fmt.Sprintf("%d-%d", outer, inner)
}

// parseIdx splits "outer-inner" into its numeric components. Malformed parts
// compare as zero so sorting stays total.
func parseIdx(idx string) (int, int) {
	main, sub := idx, ""
	if i := strings.IndexByte(idx, '-'); i >= 0 {
		main, sub = idx[:i], idx[i+1:]
	}
	m, _ := strconv.Atoi(main)
	s, _ := strconv.Atoi(sub)
	return m, s
}

func idxLess(a, b string) bool {
	am, as := parseIdx(a)
	bm, bs := parseIdx(b)
	if am != bm {
		return am < bm
	}
	return as < bs
}

func sortTradesByIdx(trades []TradeInfo) {
	sort.SliceStable(trades, func(i, j int) bool { return idxLess(trades[i].Idx, trades[j].Idx) })
}

func sortPoolEventsByIdx(events []PoolEvent) {
	sort.SliceStable(events, func(i, j int) bool { return idxLess(events[i].Idx, events[j].Idx) })
}

func sortTransfersByIdx(transfers []TransferData) {
	sort.SliceStable(transfers, func(i, j int) bool { return idxLess(transfers[i].Idx, transfers[j].Idx) })
}

func sortMemeEventsByIdx(events []MemeEvent) {
	sort.SliceStable(events, func(i, j int) bool { return idxLess(events[i].Idx, events[j].Idx) })
}

// dedupeTrades keeps the first trade for every (idx, signature) pair,
// preserving order. Two grouping paths can discover the same trade.
func dedupeTrades(trades []TradeInfo) []TradeInfo {
	if len(trades) < 2 {
		return trades
	}
	seen := make(map[string]struct{}, len(trades))
	out := trades[:0]
	for _, t := range trades {
		key := t.Idx + "|" + t.Signature
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

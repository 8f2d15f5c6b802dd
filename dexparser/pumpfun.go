package dexparser

import (
	"bytes"
	"fmt"

	ag_binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Pump.fun bonding curve. The program emits self-CPI events carrying the
// authoritative trade amounts; instruction account layout: #2 mint,
// #3 bonding curve, #6 user.
const (
	pumpfunMintIndex         = 2
	pumpfunBondingCurveIndex = 3
	pumpfunUserIndex         = 6

	pumpfunTokenDecimals = 6
)

var (
	pumpfunBuyRules     = []instructionRule{anchorRule(string(MemeBuy), "buy")}
	pumpfunSellRules    = []instructionRule{anchorRule(string(MemeSell), "sell")}
	pumpfunCreateRules  = []instructionRule{anchorRule(string(MemeCreate), "create")}
	pumpfunMigrateRules = []instructionRule{anchorRule(string(MemeMigrate), "migrate")}

	pumpfunTradeEventDisc  = anchorEventDiscriminator("TradeEvent")
	pumpfunCreateEventDisc = anchorEventDiscriminator("CreateEvent")
)

// pumpfunTradeEvent is the borsh TradeEvent payload after the 16-byte
// event discriminator.
type pumpfunTradeEvent struct {
	Mint                 solana.PublicKey
	SolAmount            uint64
	TokenAmount          uint64
	IsBuy                bool
	User                 solana.PublicKey
	Timestamp            int64
	VirtualSolReserves   uint64
	VirtualTokenReserves uint64
	RealSolReserves      uint64
	RealTokenReserves    uint64
}

// pumpfunCreateEvent is the borsh CreateEvent payload.
type pumpfunCreateEvent struct {
	Name         string
	Symbol       string
	URI          string
	Mint         solana.PublicKey
	BondingCurve solana.PublicKey
	User         solana.PublicKey
}

// pumpfunEventFor finds the self-CPI event emitted under the same outer
// instruction as the given buy/sell, preferring the closest one after it.
func pumpfunEventFor(ctx *parseContext, ci ClassifiedInstruction) *pumpfunTradeEvent {
	for _, cand := range ctx.classifier.GetInstructions(ci.ProgramID) {
		if cand.OuterIndex != ci.OuterIndex || cand.InnerIndex <= ci.InnerIndex {
			continue
		}
		data := ctx.adapter.dataOf(cand.Instruction)
		if len(data) < 16 || !bytes.Equal(data[:16], pumpfunTradeEventDisc) {
			continue
		}
		var ev pumpfunTradeEvent
		if err := ag_binary.NewBorshDecoder(data[16:]).Decode(&ev); err != nil {
			continue
		}
		return &ev
	}
	return nil
}

func decodePumpfunTrades(ctx *parseContext, programID string) ([]TradeInfo, error) {
	var trades []TradeInfo
	for _, ci := range ctx.classifier.GetInstructions(programID) {
		data := ctx.adapter.dataOf(ci.Instruction)
		var typ MemeEventType
		switch {
		case matchRule(data, pumpfunBuyRules) != nil:
			typ = MemeBuy
		case matchRule(data, pumpfunSellRules) != nil:
			typ = MemeSell
		default:
			continue
		}

		accounts := ctx.adapter.accountsOf(ci.Instruction)
		if len(accounts) <= pumpfunUserIndex {
			continue
		}
		baseMint := accounts[pumpfunMintIndex]

		dex := DexInfo{ProgramID: programID, Name: protocolName(programID)}
		trade := tradeFromTransfers(ctx, ci, dex)
		if trade == nil {
			trade = pumpfunTradeFromEvent(ctx, ci, typ, dex)
		}
		if trade == nil {
			continue
		}
		if err := validateMemeTrade(typ, trade, baseMint); err != nil {
			return nil, err
		}
		trade.Amm = accounts[pumpfunBondingCurveIndex]
		trade.User = accounts[pumpfunUserIndex]
		trades = append(trades, *trade)
	}
	sortTradesByIdx(trades)
	return trades, nil
}

// pumpfunTradeFromEvent reconstructs the trade purely from the emitted
// TradeEvent when no transfer legs were visible (older program versions move
// SOL through the curve PDA directly).
func pumpfunTradeFromEvent(ctx *parseContext, ci ClassifiedInstruction, typ MemeEventType, dex DexInfo) *TradeInfo {
	ev := pumpfunEventFor(ctx, ci)
	if ev == nil {
		return nil
	}
	sol := newTokenInfo(WSOL_MINT, ev.SolAmount, 9)
	token := newTokenInfo(ev.Mint.String(), ev.TokenAmount, pumpfunTokenDecimals)

	trade := &TradeInfo{
		User:      ev.User.String(),
		ProgramID: dex.ProgramID,
		Amm:       dex.Name,
		Slot:      ctx.adapter.Slot(),
		Timestamp: ctx.adapter.BlockTime(),
		Signature: ctx.adapter.Signature(),
		Idx:       ci.Idx(),
	}
	if typ == MemeBuy {
		trade.Type = TradeBuy
		trade.InputToken = sol
		trade.OutputToken = token
	} else {
		trade.Type = TradeSell
		trade.InputToken = token
		trade.OutputToken = sol
	}
	return trade
}

// validateMemeTrade enforces that a bonding-curve buy receives (and a sell
// spends) the curve's base mint. A mismatch means the transfer attribution
// went wrong and the whole transaction must not be trusted.
func validateMemeTrade(typ MemeEventType, trade *TradeInfo, baseMint string) error {
	switch typ {
	case MemeBuy:
		if trade.OutputToken.Mint != baseMint {
			return fmt.Errorf("buy output mint %s does not match curve mint %s", trade.OutputToken.Mint, baseMint)
		}
	case MemeSell:
		if trade.InputToken.Mint != baseMint {
			return fmt.Errorf("sell input mint %s does not match curve mint %s", trade.InputToken.Mint, baseMint)
		}
	}
	return nil
}

func decodePumpfunEvents(ctx *parseContext, programID string) ([]MemeEvent, error) {
	var events []MemeEvent
	for _, ci := range ctx.classifier.GetInstructions(programID) {
		data := ctx.adapter.dataOf(ci.Instruction)
		accounts := ctx.adapter.accountsOf(ci.Instruction)

		switch {
		case matchRule(data, pumpfunCreateRules) != nil:
			ev := MemeEvent{
				Type:      MemeCreate,
				ProgramID: programID,
				Signature: ctx.adapter.Signature(),
				Slot:      ctx.adapter.Slot(),
				Timestamp: ctx.adapter.BlockTime(),
				Idx:       ci.Idx(),
				Decimals:  pumpfunTokenDecimals,
			}
			if ce := pumpfunCreateEventFor(ctx, ci); ce != nil {
				ev.Name = ce.Name
				ev.Symbol = ce.Symbol
				ev.URI = ce.URI
				ev.BaseMint = ce.Mint.String()
				ev.BondingCurve = ce.BondingCurve.String()
				ev.User = ce.User.String()
			} else if len(accounts) > 0 {
				ev.BaseMint = accounts[0]
			}
			events = append(events, ev)

		case matchRule(data, pumpfunMigrateRules) != nil:
			if len(accounts) <= pumpfunBondingCurveIndex {
				continue
			}
			events = append(events, MemeEvent{
				Type:         MemeMigrate,
				BaseMint:     accounts[pumpfunMintIndex],
				BondingCurve: accounts[pumpfunBondingCurveIndex],
				User:         ctx.adapter.Signer(),
				ProgramID:    programID,
				Signature:    ctx.adapter.Signature(),
				Slot:         ctx.adapter.Slot(),
				Timestamp:    ctx.adapter.BlockTime(),
				Idx:          ci.Idx(),
			})

		case matchRule(data, pumpfunBuyRules) != nil, matchRule(data, pumpfunSellRules) != nil:
			typ := MemeBuy
			if matchRule(data, pumpfunSellRules) != nil {
				typ = MemeSell
			}
			if len(accounts) <= pumpfunUserIndex {
				continue
			}
			ev := MemeEvent{
				Type:         typ,
				BaseMint:     accounts[pumpfunMintIndex],
				QuoteMint:    WSOL_MINT,
				BondingCurve: accounts[pumpfunBondingCurveIndex],
				User:         accounts[pumpfunUserIndex],
				ProgramID:    programID,
				Signature:    ctx.adapter.Signature(),
				Slot:         ctx.adapter.Slot(),
				Timestamp:    ctx.adapter.BlockTime(),
				Idx:          ci.Idx(),
			}
			if te := pumpfunEventFor(ctx, ci); te != nil {
				sol := newTokenInfo(WSOL_MINT, te.SolAmount, 9)
				token := newTokenInfo(te.Mint.String(), te.TokenAmount, pumpfunTokenDecimals)
				if typ == MemeBuy {
					ev.InputToken = &sol
					ev.OutputToken = &token
				} else {
					ev.InputToken = &token
					ev.OutputToken = &sol
				}
			}
			events = append(events, ev)
		}
	}
	sortMemeEventsByIdx(events)
	return events, nil
}

func pumpfunCreateEventFor(ctx *parseContext, ci ClassifiedInstruction) *pumpfunCreateEvent {
	for _, cand := range ctx.classifier.GetInstructions(ci.ProgramID) {
		if cand.OuterIndex != ci.OuterIndex || cand.InnerIndex <= ci.InnerIndex {
			continue
		}
		data := ctx.adapter.dataOf(cand.Instruction)
		if len(data) < 16 || !bytes.Equal(data[:16], pumpfunCreateEventDisc) {
			continue
		}
		var ev pumpfunCreateEvent
		if err := ag_binary.NewBorshDecoder(data[16:]).Decode(&ev); err != nil {
			continue
		}
		return &ev
	}
	return nil
}

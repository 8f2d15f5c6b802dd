package dexparser

import (
	ag_binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Jupiter v6 aggregator. The router emits one self-CPI SwapEvent per route
// leg with exact amounts; decoding the events is authoritative and the
// underlying pool programs must not be decoded again for the same flow.

var jupiterSwapEventDisc = anchorEventDiscriminator("SwapEvent")

// jupiterSwapEvent is the borsh SwapEvent payload after the 16-byte event
// discriminator.
type jupiterSwapEvent struct {
	Amm          solana.PublicKey
	InputMint    solana.PublicKey
	InputAmount  uint64
	OutputMint   solana.PublicKey
	OutputAmount uint64
}

func decodeJupiterTrades(ctx *parseContext, programID string) ([]TradeInfo, error) {
	var legs []TradeInfo
	for _, ci := range ctx.classifier.GetInstructions(programID) {
		data := ctx.adapter.dataOf(ci.Instruction)
		if len(data) < 16 {
			continue
		}
		rule := matchRule(data, []instructionRule{{
			name:           "SwapEvent",
			discriminators: [][]byte{jupiterSwapEventDisc},
			sliceLength:    16,
		}})
		if rule == nil {
			continue
		}

		var ev jupiterSwapEvent
		if err := ag_binary.NewBorshDecoder(data[16:]).Decode(&ev); err != nil {
			continue
		}

		inMint := ev.InputMint.String()
		outMint := ev.OutputMint.String()
		inDec, _ := ctx.adapter.DecimalsFor(inMint)
		outDec, _ := ctx.adapter.DecimalsFor(outMint)

		leg := TradeInfo{
			Type:        tradeDirection(inMint, outMint),
			InputToken:  newTokenInfo(inMint, ev.InputAmount, inDec),
			OutputToken: newTokenInfo(outMint, ev.OutputAmount, outDec),
			User:        swapUser(ctx.adapter),
			ProgramID:   programID,
			Amm:         ev.Amm.String(),
			Slot:        ctx.adapter.Slot(),
			Timestamp:   ctx.adapter.BlockTime(),
			Signature:   ctx.adapter.Signature(),
			Idx:         ci.Idx(),
		}
		legs = append(legs, leg)
	}
	if len(legs) == 0 {
		return nil, nil
	}

	// Circular routes (arbitrage back into the starting mint) do not merge
	// into a trade; the pool legs are reported individually instead.
	merged, err := getFinalSwap(legs)
	if err != nil {
		return nil, nil
	}
	attachTokenTransferInfo(ctx.adapter, merged)
	return []TradeInfo{*merged}, nil
}

package dexparser

// OKX DEX router. The router has no reliable self-CPI event stream; legs are
// reconstructed from the transfer side effects of each routing instruction
// and merged like any other route.

var okxTradeRules = []instructionRule{
	anchorRule("SWAP", "swap", "swap2", "swap_v3", "commission_spl_swap", "commission_sol_swap", "commission_spl_swap2", "commission_sol_swap2"),
}

func decodeOKXTrades(ctx *parseContext, programID string) ([]TradeInfo, error) {
	var legs []TradeInfo
	for _, ci := range ctx.classifier.GetInstructions(programID) {
		data := ctx.adapter.dataOf(ci.Instruction)
		if matchRule(data, okxTradeRules) == nil {
			continue
		}
		dex := DexInfo{ProgramID: programID, Name: protocolName(programID)}
		trade := tradeFromTransfers(ctx, ci, dex)
		if trade == nil {
			continue
		}
		legs = append(legs, *trade)
	}
	if len(legs) == 0 {
		return nil, nil
	}

	// Circular routes do not merge into a trade; see decodeJupiterTrades.
	merged, err := getFinalSwap(legs)
	if err != nil {
		return nil, nil
	}
	attachTokenTransferInfo(ctx.adapter, merged)
	return []TradeInfo{*merged}, nil
}

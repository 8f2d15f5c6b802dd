package dexparser

import "bytes"

// Orca Whirlpool (anchor). Swap account layout: #0 token program, #1 token
// authority, #2 whirlpool. swap_v2 inserts the second token program, pushing
// the whirlpool to #4; both positions are checked.

var orcaSwapRules = []instructionRule{
	anchorRule("SWAP", "swap", "swap_v2", "two_hop_swap", "two_hop_swap_v2"),
}

var orcaLiquidityRules = []instructionRule{
	anchorRule(string(PoolCreate), "initialize_pool", "initialize_pool_v2"),
	anchorRule(string(PoolAdd), "increase_liquidity", "increase_liquidity_v2"),
	anchorRule(string(PoolRemove), "decrease_liquidity", "decrease_liquidity_v2"),
}

var orcaSwapV2Discriminator = anchorDiscriminator("swap_v2")

func decodeOrcaTrades(ctx *parseContext, programID string) ([]TradeInfo, error) {
	var trades []TradeInfo
	for _, ci := range ctx.classifier.GetInstructions(programID) {
		data := ctx.adapter.dataOf(ci.Instruction)
		if matchRule(data, orcaSwapRules) == nil {
			continue
		}
		poolIndex := 2
		if len(data) >= 8 && bytes.Equal(data[:8], orcaSwapV2Discriminator) {
			poolIndex = 4
		}
		dex := DexInfo{ProgramID: programID, Name: protocolName(programID)}
		trade := tradeFromTransfers(ctx, ci, dex)
		if trade == nil {
			continue
		}
		if amm := ammFromAccounts(ctx, ci, poolIndex); amm != "" {
			trade.Amm = amm
		}
		trades = append(trades, *trade)
	}
	sortTradesByIdx(trades)
	return trades, nil
}

var decodeOrcaLiquidity = ruleLiquidityDecoder(orcaLiquidityRules, liquidityLayout{
	poolIndex:   0,
	signerIndex: -1,
	lpMintIndex: -1,
})

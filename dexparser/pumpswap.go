package dexparser

// PumpSwap (the pump.fun AMM tokens graduate into). Anchor program; buy/sell
// account layout: #0 pool, #1 user, #3 base mint, #4 quote mint.

const (
	pumpSwapPoolIndex      = 0
	pumpSwapUserIndex      = 1
	pumpSwapBaseMintIndex  = 3
	pumpSwapQuoteMintIndex = 4
)

var pumpSwapTradeRules = []instructionRule{
	anchorRule("SWAP", "buy", "sell"),
}

var pumpSwapLiquidityRules = []instructionRule{
	anchorRule(string(PoolCreate), "create_pool"),
	anchorRule(string(PoolAdd), "deposit"),
	anchorRule(string(PoolRemove), "withdraw"),
}

func decodePumpSwapTrades(ctx *parseContext, programID string) ([]TradeInfo, error) {
	var trades []TradeInfo
	for _, ci := range ctx.classifier.GetInstructions(programID) {
		data := ctx.adapter.dataOf(ci.Instruction)
		if matchRule(data, pumpSwapTradeRules) == nil {
			continue
		}
		dex := DexInfo{ProgramID: programID, Name: protocolName(programID)}
		trade := tradeFromTransfers(ctx, ci, dex)
		if trade == nil {
			continue
		}
		accounts := ctx.adapter.accountsOf(ci.Instruction)
		if len(accounts) > pumpSwapUserIndex {
			trade.Amm = accounts[pumpSwapPoolIndex]
			trade.User = accounts[pumpSwapUserIndex]
		}
		trades = append(trades, *trade)
	}
	sortTradesByIdx(trades)
	return trades, nil
}

var decodePumpSwapLiquidity = ruleLiquidityDecoder(pumpSwapLiquidityRules, liquidityLayout{
	poolIndex:   pumpSwapPoolIndex,
	signerIndex: -1,
	lpMintIndex: -1,
})

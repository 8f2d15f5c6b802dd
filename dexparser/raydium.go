package dexparser

// Raydium family: V4 AMM (single-byte discriminators), CPMM and CLMM
// (anchor discriminators), and the LaunchLab launchpad.

// Raydium V4 instruction opcodes (non-anchor, single leading byte).
var raydiumV4TradeRules = []instructionRule{
	byteRule("SWAP", 9, 11), // swapBaseIn / swapBaseOut
}

var raydiumV4LiquidityRules = []instructionRule{
	byteRule(string(PoolCreate), 1), // initialize2
	byteRule(string(PoolAdd), 3),    // deposit
	byteRule(string(PoolRemove), 4), // withdraw
}

// V4 swap account layout: #0 token program, #1 amm, #2 authority, … user
// token accounts and owner trail the serum accounts.
var decodeRaydiumV4Trades = ruleTradeDecoder("RaydiumV4", raydiumV4TradeRules, 1)

var decodeRaydiumV4Liquidity = ruleLiquidityDecoder(raydiumV4LiquidityRules, liquidityLayout{
	poolIndex:   1,
	signerIndex: -1,
	lpMintIndex: -1,
})

// CPMM swap account layout (stable contract of the on-chain program):
// #0 payer, #3 pool, #4/#5 user token accounts, #6/#7 vaults,
// #10/#11 input/output mints.
var raydiumCPMMTradeRules = []instructionRule{
	anchorRule("SWAP", "swap_base_input", "swap_base_output"),
}

var raydiumCPMMLiquidityRules = []instructionRule{
	anchorRule(string(PoolCreate), "initialize"),
	anchorRule(string(PoolAdd), "deposit"),
	anchorRule(string(PoolRemove), "withdraw"),
}

var decodeRaydiumCPMMTrades = ruleTradeDecoder("RaydiumCPMM", raydiumCPMMTradeRules, 3)

var decodeRaydiumCPMMLiquidity = ruleLiquidityDecoder(raydiumCPMMLiquidityRules, liquidityLayout{
	poolIndex:   3,
	signerIndex: 0,
	lpMintIndex: -1,
})

// CLMM swap account layout: #0 payer, #1 amm config, #2 pool state.
var raydiumCLMMTradeRules = []instructionRule{
	anchorRule("SWAP", "swap", "swap_v2", "swap_router_base_in"),
}

var raydiumCLMMLiquidityRules = []instructionRule{
	anchorRule(string(PoolCreate), "create_pool"),
	anchorRule(string(PoolAdd), "increase_liquidity", "increase_liquidity_v2", "open_position", "open_position_v2", "open_position_with_token22_nft"),
	anchorRule(string(PoolRemove), "decrease_liquidity", "decrease_liquidity_v2", "close_position"),
}

var decodeRaydiumCLMMTrades = ruleTradeDecoder("RaydiumCLMM", raydiumCLMMTradeRules, 2)

var decodeRaydiumCLMMLiquidity = ruleLiquidityDecoder(raydiumCLMMLiquidityRules, liquidityLayout{
	poolIndex:   2,
	signerIndex: 0,
	lpMintIndex: -1,
})

// LaunchLab buy/sell account layout: #0 payer, #4 pool state, #9 base mint,
// #10 quote mint.
const (
	launchLabPayerIndex     = 0
	launchLabPoolIndex      = 4
	launchLabBaseMintIndex  = 9
	launchLabQuoteMintIndex = 10
)

var launchLabBuyRules = []instructionRule{
	anchorRule(string(MemeBuy), "buy_exact_in", "buy_exact_out"),
}

var launchLabSellRules = []instructionRule{
	anchorRule(string(MemeSell), "sell_exact_in", "sell_exact_out"),
}

var launchLabCreateRules = []instructionRule{
	anchorRule(string(MemeCreate), "initialize"),
}

var launchLabMigrateRules = []instructionRule{
	anchorRule(string(MemeMigrate), "migrate_to_amm", "migrate_to_cpswap"),
}

var decodeLaunchLabTrades = ruleTradeDecoder(
	"RaydiumLaunchLab",
	append(append([]instructionRule{}, launchLabBuyRules...), launchLabSellRules...),
	launchLabPoolIndex,
)

func decodeLaunchLabEvents(ctx *parseContext, programID string) ([]MemeEvent, error) {
	var events []MemeEvent
	for _, ci := range ctx.classifier.GetInstructions(programID) {
		data := ctx.adapter.dataOf(ci.Instruction)
		accounts := ctx.adapter.accountsOf(ci.Instruction)

		var typ MemeEventType
		switch {
		case matchRule(data, launchLabBuyRules) != nil:
			typ = MemeBuy
		case matchRule(data, launchLabSellRules) != nil:
			typ = MemeSell
		case matchRule(data, launchLabCreateRules) != nil:
			typ = MemeCreate
		case matchRule(data, launchLabMigrateRules) != nil:
			typ = MemeMigrate
		default:
			continue
		}
		if len(accounts) <= launchLabQuoteMintIndex {
			continue
		}

		ev := MemeEvent{
			Type:      typ,
			BaseMint:  accounts[launchLabBaseMintIndex],
			QuoteMint: accounts[launchLabQuoteMintIndex],
			User:      accounts[launchLabPayerIndex],
			Pool:      accounts[launchLabPoolIndex],
			ProgramID: programID,
			Signature: ctx.adapter.Signature(),
			Slot:      ctx.adapter.Slot(),
			Timestamp: ctx.adapter.BlockTime(),
			Idx:       ci.Idx(),
		}

		if typ == MemeBuy || typ == MemeSell {
			trade := tradeFromTransfers(ctx, ci, DexInfo{ProgramID: programID, Name: protocolName(programID)})
			if trade != nil {
				if err := validateMemeTrade(typ, trade, ev.BaseMint); err != nil {
					return nil, err
				}
				in, out := trade.InputToken, trade.OutputToken
				ev.InputToken = &in
				ev.OutputToken = &out
				ev.Fee = trade.Fee
			}
		}

		events = append(events, ev)
	}
	sortMemeEventsByIdx(events)
	return events, nil
}

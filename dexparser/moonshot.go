package dexparser

// Moonshot launchpad. Buy/sell payloads carry the token amount, collateral
// amount and a fixed-side flag after the anchor discriminator; account
// layout: #0 user, #2 curve account, #6 mint.

const (
	moonshotUserIndex  = 0
	moonshotCurveIndex = 2
	moonshotMintIndex  = 6

	moonshotTokenDecimals = 9

	// fixedSide selects which of the two amounts the user pinned.
	moonshotFixedSideToken      = 0
	moonshotFixedSideCollateral = 1
)

var (
	moonshotBuyRules  = []instructionRule{anchorRule(string(MemeBuy), "buy")}
	moonshotSellRules = []instructionRule{anchorRule(string(MemeSell), "sell")}
)

// moonshotTradeParams is the instruction payload after the discriminator.
type moonshotTradeParams struct {
	TokenAmount      uint64
	CollateralAmount uint64
	FixedSide        uint8
	SlippageBps      uint64
}

func decodeMoonshotParams(data []byte) (*moonshotTradeParams, error) {
	r := newByteReader(data)
	var p moonshotTradeParams
	var err error
	if p.TokenAmount, err = r.readU64(); err != nil {
		return nil, err
	}
	if p.CollateralAmount, err = r.readU64(); err != nil {
		return nil, err
	}
	if p.FixedSide, err = r.readU8(); err != nil {
		return nil, err
	}
	if p.SlippageBps, err = r.readU64(); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeMoonshotTrades(ctx *parseContext, programID string) ([]TradeInfo, error) {
	var trades []TradeInfo
	for _, ci := range ctx.classifier.GetInstructions(programID) {
		data := ctx.adapter.dataOf(ci.Instruction)
		var isBuy bool
		switch {
		case matchRule(data, moonshotBuyRules) != nil:
			isBuy = true
		case matchRule(data, moonshotSellRules) != nil:
			isBuy = false
		default:
			continue
		}

		accounts := ctx.adapter.accountsOf(ci.Instruction)
		if len(accounts) <= moonshotMintIndex || len(data) < 8 {
			continue
		}
		mint := accounts[moonshotMintIndex]

		dex := DexInfo{ProgramID: programID, Name: protocolName(programID)}
		trade := tradeFromTransfers(ctx, ci, dex)
		if trade == nil {
			// No visible transfer legs: fall back to the declared params. The
			// fixed side is exact, the other side is the pre-slippage quote.
			params, err := decodeMoonshotParams(data[8:])
			if err != nil {
				continue
			}
			trade = moonshotTradeFromParams(ctx, ci, params, mint, isBuy, dex)
		}
		trade.Amm = accounts[moonshotCurveIndex]
		trade.User = accounts[moonshotUserIndex]
		trades = append(trades, *trade)
	}
	sortTradesByIdx(trades)
	return trades, nil
}

func moonshotTradeFromParams(ctx *parseContext, ci ClassifiedInstruction, p *moonshotTradeParams, mint string, isBuy bool, dex DexInfo) *TradeInfo {
	decimals, ok := ctx.adapter.DecimalsFor(mint)
	if !ok {
		decimals = moonshotTokenDecimals
	}
	sol := newTokenInfo(WSOL_MINT, p.CollateralAmount, 9)
	token := newTokenInfo(mint, p.TokenAmount, decimals)

	trade := &TradeInfo{
		ProgramID: dex.ProgramID,
		Slot:      ctx.adapter.Slot(),
		Timestamp: ctx.adapter.BlockTime(),
		Signature: ctx.adapter.Signature(),
		Idx:       ci.Idx(),
	}
	if isBuy {
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

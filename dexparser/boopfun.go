package dexparser

// Boop.fun launchpad. Anchor program; amounts come from transfer side
// effects. Buy/sell account layout: #1 mint, #2 bonding curve; the signer is
// the trading wallet.

const (
	boopfunMintIndex  = 1
	boopfunCurveIndex = 2
)

var (
	boopfunBuyRules     = []instructionRule{anchorRule(string(MemeBuy), "buy_token")}
	boopfunSellRules    = []instructionRule{anchorRule(string(MemeSell), "sell_token")}
	boopfunCreateRules  = []instructionRule{anchorRule(string(MemeCreate), "create_token", "deploy_bonding_curve")}
	boopfunMigrateRules = []instructionRule{anchorRule(string(MemeMigrate), "graduate")}
)

func decodeBoopfunEvents(ctx *parseContext, programID string) ([]MemeEvent, error) {
	var events []MemeEvent
	for _, ci := range ctx.classifier.GetInstructions(programID) {
		data := ctx.adapter.dataOf(ci.Instruction)
		accounts := ctx.adapter.accountsOf(ci.Instruction)

		var typ MemeEventType
		switch {
		case matchRule(data, boopfunBuyRules) != nil:
			typ = MemeBuy
		case matchRule(data, boopfunSellRules) != nil:
			typ = MemeSell
		case matchRule(data, boopfunCreateRules) != nil:
			typ = MemeCreate
		case matchRule(data, boopfunMigrateRules) != nil:
			typ = MemeMigrate
		default:
			continue
		}
		if len(accounts) <= boopfunCurveIndex {
			continue
		}

		ev := MemeEvent{
			Type:         typ,
			BaseMint:     accounts[boopfunMintIndex],
			QuoteMint:    WSOL_MINT,
			BondingCurve: accounts[boopfunCurveIndex],
			User:         ctx.adapter.Signer(),
			ProgramID:    programID,
			Signature:    ctx.adapter.Signature(),
			Slot:         ctx.adapter.Slot(),
			Timestamp:    ctx.adapter.BlockTime(),
			Idx:          ci.Idx(),
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

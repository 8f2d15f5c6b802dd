package dexparser

// Shared plumbing for the protocol decoder families. Every decoder walks its
// program's classified instructions, slices the leading discriminator bytes,
// and dispatches through an instructionRule table; unmatched instructions are
// silently skipped.

// transfersFor returns the transfer group produced by one classified
// instruction.
func transfersFor(ctx *parseContext, ci ClassifiedInstruction) []TransferData {
	return ctx.transfers[ci.Key()]
}

// tradeFromTransfers reconstructs a swap for one protocol instruction from
// its transfer side effects. Native legs are skipped first; when that leaves
// fewer than two tokens (SOL pairs), the native leg is kept.
func tradeFromTransfers(ctx *parseContext, ci ClassifiedInstruction, dex DexInfo) *TradeInfo {
	transfers := transfersFor(ctx, ci)
	if len(transfers) == 0 {
		return nil
	}
	trade := processSwapData(ctx.adapter, transfers, dex, true)
	if trade == nil {
		trade = processSwapData(ctx.adapter, transfers, dex, false)
	}
	if trade == nil {
		return nil
	}
	trade.Idx = ci.Idx()
	attachTokenTransferInfo(ctx.adapter, trade)
	attachTradeFee(trade, transfers)
	return trade
}

// ammFromAccounts resolves the pool account from a protocol's fixed account
// layout. Account ordering is a stable contract of each on-chain program.
func ammFromAccounts(ctx *parseContext, ci ClassifiedInstruction, index int) string {
	accounts := ctx.adapter.accountsOf(ci.Instruction)
	if index < 0 || index >= len(accounts) {
		return ""
	}
	return accounts[index]
}

// ruleTradeDecoder builds the common trade decoder: match the discriminator
// table, reconstruct from transfers, stamp the pool account from the fixed
// layout position. The protocol name is passed in rather than looked up so
// the package-level decoder vars never reference the registry during
// initialization.
func ruleTradeDecoder(name string, rules []instructionRule, ammIndex int) tradeDecoder {
	return func(ctx *parseContext, programID string) ([]TradeInfo, error) {
		var trades []TradeInfo
		for _, ci := range ctx.classifier.GetInstructions(programID) {
			data := ctx.adapter.dataOf(ci.Instruction)
			if matchRule(data, rules) == nil {
				continue
			}
			dex := DexInfo{ProgramID: programID, Name: name}
			trade := tradeFromTransfers(ctx, ci, dex)
			if trade == nil {
				continue
			}
			if amm := ammFromAccounts(ctx, ci, ammIndex); amm != "" {
				trade.Amm = amm
			}
			trades = append(trades, *trade)
		}
		sortTradesByIdx(trades)
		return trades, nil
	}
}

// liquidityLayout captures the fixed account positions a liquidity decoder
// needs from its program's instruction.
type liquidityLayout struct {
	poolIndex   int
	signerIndex int
	lpMintIndex int // -1 when the protocol has no LP mint account
}

// ruleLiquidityDecoder builds the common liquidity decoder: each rule name is
// the pool event type; token amounts come from the instruction's transfer
// group (first two distinct mints, in order).
func ruleLiquidityDecoder(rules []instructionRule, layout liquidityLayout) liquidityDecoder {
	return func(ctx *parseContext, programID string) ([]PoolEvent, error) {
		var events []PoolEvent
		for _, ci := range ctx.classifier.GetInstructions(programID) {
			data := ctx.adapter.dataOf(ci.Instruction)
			rule := matchRule(data, rules)
			if rule == nil {
				continue
			}
			ev := buildPoolEvent(ctx, ci, PoolEventType(rule.name), layout)
			if ev != nil {
				events = append(events, *ev)
			}
		}
		sortPoolEventsByIdx(events)
		return events, nil
	}
}

func buildPoolEvent(ctx *parseContext, ci ClassifiedInstruction, typ PoolEventType, layout liquidityLayout) *PoolEvent {
	adapter := ctx.adapter
	accounts := adapter.accountsOf(ci.Instruction)

	ev := &PoolEvent{
		Type:      typ,
		ProgramID: ci.ProgramID,
		Signer:    adapter.Signer(),
		Signature: adapter.Signature(),
		Slot:      adapter.Slot(),
		Timestamp: adapter.BlockTime(),
		Idx:       ci.Idx(),
	}
	if layout.poolIndex >= 0 && layout.poolIndex < len(accounts) {
		ev.PoolID = accounts[layout.poolIndex]
	}
	if layout.signerIndex >= 0 && layout.signerIndex < len(accounts) {
		ev.Signer = accounts[layout.signerIndex]
	}
	if layout.lpMintIndex >= 0 && layout.lpMintIndex < len(accounts) {
		ev.LPMint = accounts[layout.lpMintIndex]
	}

	for _, t := range transfersFor(ctx, ci) {
		if t.Info.Mint == "" || t.IsFee {
			continue
		}
		switch {
		case ev.Token0Mint == "" || ev.Token0Mint == t.Info.Mint:
			ev.Token0Mint = t.Info.Mint
			ev.Token0AmountRaw += t.Info.AmountRaw
			ev.Token0Amount = uiAmount(ev.Token0AmountRaw, t.Info.Decimals)
		case ev.Token1Mint == "" || ev.Token1Mint == t.Info.Mint:
			ev.Token1Mint = t.Info.Mint
			ev.Token1AmountRaw += t.Info.AmountRaw
			ev.Token1Amount = uiAmount(ev.Token1AmountRaw, t.Info.Decimals)
		}
	}
	return ev
}

// decodeProgramTransfers is the transfer-only role: report the raw transfer
// side effects of a program that produced neither trades nor liquidity
// events (pure order placement and similar).
func decodeProgramTransfers(ctx *parseContext, programID string) []TransferData {
	var out []TransferData
	for _, ci := range ctx.classifier.GetInstructions(programID) {
		out = append(out, transfersFor(ctx, ci)...)
	}
	return out
}

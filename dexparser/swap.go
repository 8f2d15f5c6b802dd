package dexparser

import (
	"fmt"
	"sort"
)

// processSwapData infers one swap from the transfer set attributable to a
// single instruction. Returns nil (not an error) when the set cannot
// represent a swap.
func processSwapData(adapter *TransactionAdapter, transfers []TransferData, dex DexInfo, skipNative bool) *TradeInfo {
	if len(transfers) == 0 {
		return nil
	}

	// Unique mints in first-seen order. Native legs are usually fee/rent/tip
	// noise unless the caller asks to keep them.
	var uniqueMints []string
	seen := make(map[string]struct{})
	for _, t := range transfers {
		mint := t.Info.Mint
		if mint == "" {
			continue
		}
		if skipNative && mint == WSOL_MINT {
			continue
		}
		if _, dup := seen[mint]; dup {
			continue
		}
		seen[mint] = struct{}{}
		uniqueMints = append(uniqueMints, mint)
	}
	if len(uniqueMints) < 2 {
		return nil
	}

	signer := swapUser(adapter)

	inputMint := uniqueMints[0]
	outputMint := uniqueMints[len(uniqueMints)-1]

	// Orientation: money flows out of the signer for the input and into the
	// signer for the output. When the last-seen token leaves the signer (or a
	// router-controlled authority), the assignment is reversed. Fee legs are
	// not principal and must not decide orientation.
	for i := len(transfers) - 1; i >= 0; i-- {
		t := transfers[i]
		if t.Info.Mint != outputMint || t.IsFee {
			continue
		}
		auth := t.Info.Authority
		if t.Info.Source == signer || auth == signer || isRouterOverride(auth) {
			inputMint, outputMint = outputMint, inputMint
		}
		break
	}

	input := sumTransfers(transfers, inputMint)
	output := sumTransfers(transfers, outputMint)
	if input.AmountRaw == 0 && output.AmountRaw == 0 {
		return nil
	}

	trade := &TradeInfo{
		Type:        tradeDirection(inputMint, outputMint),
		InputToken:  input,
		OutputToken: output,
		User:        signer,
		ProgramID:   dex.ProgramID,
		Amm:         dex.Name,
		Route:       dex.Route,
		Slot:        adapter.Slot(),
		Timestamp:   adapter.BlockTime(),
		Signature:   adapter.Signature(),
		Idx:         transfers[0].Idx,
	}

	for _, t := range transfers {
		if t.IsFee {
			fee := t.Info
			trade.Fee = &fee
			trade.Fees = append(trade.Fees, t.Info)
		}
	}

	return trade
}

// swapUser picks the economic user of a swap. For DCA-style flows the
// nominal fee payer is a program authority; the wallet sits at a fixed
// position instead.
func swapUser(adapter *TransactionAdapter) string {
	if adapter.HasAccount(JUPITER_DCA_PROGRAM_ID) {
		if key, ok := adapter.AccountKey(2); ok {
			return key
		}
	}
	return adapter.Signer()
}

func isRouterOverride(account string) bool {
	_, ok := routerOverridePrograms[account]
	return ok
}

// sumTransfers totals raw amounts for one mint, skipping fee legs and exact
// duplicate (amount, mint) pairs, which show up when the same movement is
// visible from two scan paths.
func sumTransfers(transfers []TransferData, mint string) TokenInfo {
	var total uint64
	var decimals uint8
	var sample *TransferData
	dedup := make(map[uint64]struct{})

	for i := range transfers {
		t := &transfers[i]
		if t.Info.Mint != mint || t.IsFee {
			continue
		}
		if _, dup := dedup[t.Info.AmountRaw]; dup {
			continue
		}
		dedup[t.Info.AmountRaw] = struct{}{}
		total += t.Info.AmountRaw
		decimals = t.Info.Decimals
		if sample == nil {
			sample = t
		}
	}

	info := newTokenInfo(mint, total, decimals)
	if sample != nil {
		info.Authority = sample.Info.Authority
		info.Source = sample.Info.Source
		info.Destination = sample.Info.Destination
		info.DestinationOwner = sample.Info.DestinationOwner
	}
	return info
}

// tradeDirection ranks against the reference-token hierarchy: native first,
// then configured bases. Direction is relative to that hierarchy, not to
// absolute token identity.
func tradeDirection(inputMint, outputMint string) TradeType {
	switch {
	case inputMint == WSOL_MINT:
		return TradeBuy
	case outputMint == WSOL_MINT:
		return TradeSell
	case isBaseToken(inputMint):
		return TradeBuy
	default:
		return TradeSell
	}
}

// attachTokenTransferInfo overrides transfer-derived amounts with the user's
// on-chain balance change when available. Protocol fees and rounding can make
// the literal transfer amount diverge from what the user actually paid or
// received; the balance delta is authoritative.
func attachTokenTransferInfo(adapter *TransactionAdapter, trade *TradeInfo) {
	changes := adapter.TokenBalanceChanges(trade.User)
	if changes == nil {
		return
	}
	if c, ok := changes[trade.InputToken.Mint]; ok {
		delta := int64(c.PostRaw) - int64(c.PreRaw)
		if delta != 0 {
			raw := uint64(abs64(delta))
			trade.InputToken.AmountRaw = raw
			trade.InputToken.Amount = uiAmount(raw, trade.InputToken.Decimals)
		}
	}
	if c, ok := changes[trade.OutputToken.Mint]; ok {
		delta := int64(c.PostRaw) - int64(c.PreRaw)
		if delta != 0 {
			raw := uint64(abs64(delta))
			trade.OutputToken.AmountRaw = raw
			trade.OutputToken.Amount = uiAmount(raw, trade.OutputToken.Decimals)
		}
	}
}

// attachTradeFee attaches the first fee-flagged transfer of the instruction
// group to the trade when the decoder itself did not set one.
func attachTradeFee(trade *TradeInfo, transfers []TransferData) {
	if trade.Fee != nil {
		return
	}
	for _, t := range transfers {
		if t.IsFee {
			fee := t.Info
			trade.Fee = &fee
			trade.Fees = append(trade.Fees, t.Info)
			return
		}
	}
}

// getFinalSwap merges route legs (A→B, B→C, …) into one logical trade:
// input from the first leg, output from the last, amounts summed only across
// legs matching those mints so shared intermediates are not double counted.
func getFinalSwap(trades []TradeInfo) (*TradeInfo, error) {
	if len(trades) == 0 {
		return nil, fmt.Errorf("no route legs provided")
	}
	if len(trades) == 1 {
		t := trades[0]
		return &t, nil
	}

	legs := make([]TradeInfo, len(trades))
	copy(legs, trades)
	if len(legs) > 2 {
		sort.SliceStable(legs, func(i, j int) bool { return idxLess(legs[i].Idx, legs[j].Idx) })
	}

	first, last := legs[0], legs[len(legs)-1]
	// A route that ends where it started (arbitrage) is not a trade of one
	// token for another; there is nothing meaningful to merge.
	if first.InputToken.Mint == last.OutputToken.Mint {
		return nil, fmt.Errorf("circular route through %s", first.InputToken.Mint)
	}
	merged := first
	merged.OutputToken = last.OutputToken
	merged.Route = "route"

	var inRaw, outRaw uint64
	for _, leg := range legs {
		if leg.InputToken.Mint == first.InputToken.Mint {
			inRaw += leg.InputToken.AmountRaw
		}
		if leg.OutputToken.Mint == last.OutputToken.Mint {
			outRaw += leg.OutputToken.AmountRaw
		}
		if leg.Fee != nil {
			merged.Fees = append(merged.Fees, *leg.Fee)
		}
	}
	merged.InputToken.AmountRaw = inRaw
	merged.InputToken.Amount = uiAmount(inRaw, merged.InputToken.Decimals)
	merged.OutputToken.AmountRaw = outRaw
	merged.OutputToken.Amount = uiAmount(outRaw, merged.OutputToken.Decimals)
	merged.Type = tradeDirection(merged.InputToken.Mint, merged.OutputToken.Mint)
	if len(merged.Fees) > 0 {
		merged.Fee = &merged.Fees[0]
	}

	return &merged, nil
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

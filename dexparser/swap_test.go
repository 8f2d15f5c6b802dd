package dexparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkedTransfer(idx, mint string, amount uint64, decimals uint8, source, destination, authority string) TransferData {
	info := newTokenInfo(mint, amount, decimals)
	info.Source = source
	info.Destination = destination
	info.Authority = authority
	return TransferData{Type: TransferChecked, ProgramID: TOKEN_PROGRAM_ID, Idx: idx, Info: info}
}

func TestProcessSwapDataSingleMintIsNotASwap(t *testing.T) {
	adapter := newTxFixture().adapter()
	transfers := []TransferData{
		checkedTransfer("0-0", testMintA, 1000, 6, testUserAcctA, testVaultA, testSigner),
	}
	trade := processSwapData(adapter, transfers, DexInfo{}, false)
	assert.Nil(t, trade)
}

func TestProcessSwapDataSellForSol(t *testing.T) {
	adapter := newTxFixture().adapter()
	transfers := []TransferData{
		checkedTransfer("2-0", testMintA, 1000, 6, testUserAcctA, testVaultA, testSigner),
		checkedTransfer("2-1", WSOL_MINT, 2_000_000_000, 9, testVaultSOL, testUserWSOL, testPool),
	}

	// Skipping native legs leaves a single mint, so this path must decline.
	assert.Nil(t, processSwapData(adapter, transfers, DexInfo{}, true))

	trade := processSwapData(adapter, transfers, DexInfo{ProgramID: RAYDIUM_V4_PROGRAM_ID, Name: "RaydiumV4"}, false)
	require.NotNil(t, trade)
	assert.Equal(t, TradeSell, trade.Type)
	assert.Equal(t, testMintA, trade.InputToken.Mint)
	assert.Equal(t, "0.001", trade.InputToken.Amount.String())
	assert.Equal(t, WSOL_MINT, trade.OutputToken.Mint)
	assert.Equal(t, "2", trade.OutputToken.Amount.String())
	assert.Equal(t, testSigner, trade.User)
	assert.Equal(t, "2-0", trade.Idx)
}

func TestProcessSwapDataFlipsWhenSignerSendsLastSeenMint(t *testing.T) {
	adapter := newTxFixture().adapter()
	// WSOL appears last but leaves the signer, so WSOL is the input side.
	transfers := []TransferData{
		checkedTransfer("0-0", testMintA, 5000, 6, testVaultA, testUserAcctA, testPool),
		checkedTransfer("0-1", WSOL_MINT, 1_000_000_000, 9, testUserWSOL, testVaultSOL, testSigner),
	}
	trade := processSwapData(adapter, transfers, DexInfo{}, false)
	require.NotNil(t, trade)
	assert.Equal(t, TradeBuy, trade.Type)
	assert.Equal(t, WSOL_MINT, trade.InputToken.Mint)
	assert.Equal(t, testMintA, trade.OutputToken.Mint)
}

func TestProcessSwapDataSkipsFeeLegs(t *testing.T) {
	adapter := newTxFixture().adapter()
	fee := checkedTransfer("0-2", WSOL_MINT, 10_000_000, 9, testUserWSOL, testKey(9), testSigner)
	fee.IsFee = true
	transfers := []TransferData{
		checkedTransfer("0-0", testMintA, 1000, 6, testUserAcctA, testVaultA, testSigner),
		checkedTransfer("0-1", WSOL_MINT, 2_000_000_000, 9, testVaultSOL, testUserWSOL, testPool),
		fee,
	}
	trade := processSwapData(adapter, transfers, DexInfo{}, false)
	require.NotNil(t, trade)
	assert.Equal(t, TradeSell, trade.Type, "a fee leg authorized by the signer must not flip orientation")
	assert.Equal(t, testMintA, trade.InputToken.Mint)
	assert.Equal(t, WSOL_MINT, trade.OutputToken.Mint)
	assert.Equal(t, uint64(2_000_000_000), trade.OutputToken.AmountRaw, "fee leg must not join the principal")
	require.NotNil(t, trade.Fee)
	assert.Equal(t, uint64(10_000_000), trade.Fee.AmountRaw)
}

func TestGetFinalSwapMergesRouteLegs(t *testing.T) {
	mintB := testKey(11)
	mintC := testKey(12)
	legs := []TradeInfo{
		{Idx: "10-0", InputToken: newTokenInfo(mintB, 50, 6), OutputToken: newTokenInfo(mintC, 70, 6), Signature: testSignature},
		{Idx: "2-0", InputToken: newTokenInfo(WSOL_MINT, 1_000_000_000, 9), OutputToken: newTokenInfo(mintB, 50, 6), Signature: testSignature},
		{Idx: "11-0", InputToken: newTokenInfo(mintC, 70, 6), OutputToken: newTokenInfo(testMintA, 90, 6), Signature: testSignature},
	}

	merged, err := getFinalSwap(legs)
	require.NoError(t, err)
	assert.Equal(t, WSOL_MINT, merged.InputToken.Mint, "numeric idx order must place 2-0 before 10-0")
	assert.Equal(t, testMintA, merged.OutputToken.Mint)
	assert.Equal(t, uint64(1_000_000_000), merged.InputToken.AmountRaw)
	assert.Equal(t, uint64(90), merged.OutputToken.AmountRaw)
	assert.Equal(t, "route", merged.Route)
	assert.Equal(t, TradeBuy, merged.Type)
}

func TestGetFinalSwapSingleLegPassesThrough(t *testing.T) {
	leg := TradeInfo{Idx: "0-0", InputToken: newTokenInfo(WSOL_MINT, 5, 9), OutputToken: newTokenInfo(testMintA, 9, 6)}
	merged, err := getFinalSwap([]TradeInfo{leg})
	require.NoError(t, err)
	assert.Equal(t, leg.InputToken, merged.InputToken)
	assert.Empty(t, merged.Route)
}

func TestGetFinalSwapEmptyIsError(t *testing.T) {
	_, err := getFinalSwap(nil)
	assert.Error(t, err)
}

func TestGetFinalSwapRejectsCircularRoute(t *testing.T) {
	// Arbitrage: WSOL -> A -> WSOL. Input and output mint would be identical.
	legs := []TradeInfo{
		{Idx: "0-0", InputToken: newTokenInfo(WSOL_MINT, 1_000_000_000, 9), OutputToken: newTokenInfo(testMintA, 500, 6)},
		{Idx: "0-1", InputToken: newTokenInfo(testMintA, 500, 6), OutputToken: newTokenInfo(WSOL_MINT, 1_050_000_000, 9)},
	}
	_, err := getFinalSwap(legs)
	assert.Error(t, err)
}

func TestIdxOrderingIsNumeric(t *testing.T) {
	assert.True(t, idxLess("2-0", "10-0"))
	assert.False(t, idxLess("10-0", "2-0"))
	assert.True(t, idxLess("3-2", "3-10"))
}

func TestDedupeTradesKeepsFirst(t *testing.T) {
	a := TradeInfo{Idx: "1-0", Signature: testSignature, Amm: "first"}
	b := TradeInfo{Idx: "1-0", Signature: testSignature, Amm: "second"}
	c := TradeInfo{Idx: "2-0", Signature: testSignature}

	out := dedupeTrades([]TradeInfo{a, b, c})
	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Amm)
	assert.Equal(t, "2-0", out[1].Idx)
}

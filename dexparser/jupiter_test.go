package dexparser

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSwapEventData(amm, inputMint solana.PublicKey, inputAmount uint64, outputMint solana.PublicKey, outputAmount uint64) []byte {
	data := append([]byte{}, anchorEventDiscriminator("SwapEvent")...)
	data = append(data, amm[:]...)
	data = append(data, inputMint[:]...)
	data = appendU64(data, inputAmount)
	data = append(data, outputMint[:]...)
	data = appendU64(data, outputAmount)
	return data
}

func TestJupiterRouteEventsMergeIntoOneTrade(t *testing.T) {
	wsol := solana.MustPublicKeyFromBase58(WSOL_MINT)
	mintA := testPubkey(7)
	mintB := testPubkey(11)
	pool1 := testPubkey(21)
	pool2 := testPubkey(22)

	fx := newTxFixture().
		withOuter(rawInstruction(JUPITER_PROGRAM_ID, anchorDiscriminator("route"), testSigner)).
		withInner(0,
			rawInstruction(JUPITER_PROGRAM_ID, buildSwapEventData(pool1, wsol, 1_000_000_000, mintA, 500)),
			rawInstruction(JUPITER_PROGRAM_ID, buildSwapEventData(pool2, mintA, 500, mintB, 900)),
		)

	p := NewDexParser(ParseConfig{})
	result, err := p.ParseTransactionFromParsed(fx.tx, 100, 1700000000)
	require.NoError(t, err)
	require.True(t, result.State, result.Msg)

	require.Len(t, result.Trades, 1)
	trade := result.Trades[0]
	assert.Equal(t, WSOL_MINT, trade.InputToken.Mint)
	assert.Equal(t, uint64(1_000_000_000), trade.InputToken.AmountRaw)
	assert.Equal(t, mintB.String(), trade.OutputToken.Mint)
	assert.Equal(t, uint64(900), trade.OutputToken.AmountRaw)
	assert.Equal(t, "route", trade.Route)
	assert.Equal(t, TradeBuy, trade.Type)
	assert.Equal(t, JUPITER_PROGRAM_ID, trade.ProgramID)
}

func TestJupiterTradesShortCircuitPoolDecoding(t *testing.T) {
	wsol := solana.MustPublicKeyFromBase58(WSOL_MINT)
	mintA := testPubkey(7)
	pool := testPubkey(21)

	// The aggregator routed through Raydium; the pool leg must not surface as
	// a second trade.
	fx := newTxFixture().
		withOuter(rawInstruction(JUPITER_PROGRAM_ID, anchorDiscriminator("route"), testSigner)).
		withInner(0,
			rawInstruction(RAYDIUM_V4_PROGRAM_ID, []byte{9}, TOKEN_PROGRAM_ID, testPool),
			parsedTransferChecked(testUserWSOL, WSOL_MINT, testVaultSOL, testSigner, "1000000000", 9),
			parsedTransferChecked(testVaultA, testMintA, testUserAcctA, testPool, "500", 6),
			rawInstruction(JUPITER_PROGRAM_ID, buildSwapEventData(pool, wsol, 1_000_000_000, mintA, 500)),
		)

	p := NewDexParser(ParseConfig{})
	result, err := p.ParseTransactionFromParsed(fx.tx, 100, 1700000000)
	require.NoError(t, err)
	require.True(t, result.State, result.Msg)
	require.Len(t, result.Trades, 1)
	assert.Equal(t, JUPITER_PROGRAM_ID, result.Trades[0].ProgramID)
}

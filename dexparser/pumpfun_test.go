package dexparser

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendBorshString(b []byte, s string) []byte {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
	b = append(b, n[:]...)
	return append(b, s...)
}

func appendU64(b []byte, v uint64) []byte {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], v)
	return append(b, n[:]...)
}

func buildCreateEventData(name, symbol, uri string, mint, curve, user solana.PublicKey) []byte {
	data := append([]byte{}, anchorEventDiscriminator("CreateEvent")...)
	data = appendBorshString(data, name)
	data = appendBorshString(data, symbol)
	data = appendBorshString(data, uri)
	data = append(data, mint[:]...)
	data = append(data, curve[:]...)
	data = append(data, user[:]...)
	return data
}

func buildTradeEventData(mint, user solana.PublicKey, solAmount, tokenAmount uint64, isBuy bool) []byte {
	data := append([]byte{}, anchorEventDiscriminator("TradeEvent")...)
	data = append(data, mint[:]...)
	data = appendU64(data, solAmount)
	data = appendU64(data, tokenAmount)
	if isBuy {
		data = append(data, 1)
	} else {
		data = append(data, 0)
	}
	data = append(data, user[:]...)
	data = appendU64(data, 1700000000) // timestamp i64
	data = appendU64(data, 0)          // virtual sol reserves
	data = appendU64(data, 0)          // virtual token reserves
	data = appendU64(data, 0)          // real sol reserves
	data = appendU64(data, 0)          // real token reserves
	return data
}

func TestPumpfunCreateEventDecoding(t *testing.T) {
	mint := testPubkey(7)
	curve := testPubkey(8)
	user := testPubkey(1)

	create := rawInstruction(PUMPFUN_PROGRAM_ID, anchorDiscriminator("create"), mint.String())
	eventCPI := rawInstruction(PUMPFUN_PROGRAM_ID, buildCreateEventData("Test Token", "TT", "https://example.com/meta.json", mint, curve, user))

	fx := newTxFixture().withOuter(create).withInner(0, eventCPI)

	p := NewDexParser(ParseConfig{})
	result, err := p.ParseTransactionFromParsed(fx.tx, 100, 1700000000)
	require.NoError(t, err)
	require.True(t, result.State)

	require.Len(t, result.MemeEvents, 1)
	ev := result.MemeEvents[0]
	assert.Equal(t, MemeCreate, ev.Type)
	assert.Equal(t, "Test Token", ev.Name)
	assert.Equal(t, "TT", ev.Symbol)
	assert.Equal(t, "https://example.com/meta.json", ev.URI)
	assert.Equal(t, mint.String(), ev.BaseMint)
	assert.Equal(t, curve.String(), ev.BondingCurve)
	assert.Equal(t, user.String(), ev.User)
	assert.Equal(t, uint8(6), ev.Decimals)
}

func TestPumpfunTradeEventBackfillsAmounts(t *testing.T) {
	mint := testPubkey(7)
	user := testPubkey(1)

	// Seven accounts, mint at #2, curve at #3, user at #6; no visible token
	// transfers, only the emitted event.
	buy := rawInstruction(PUMPFUN_PROGRAM_ID, anchorDiscriminator("buy"),
		testKey(20), testKey(21), mint.String(), testKey(22), testKey(23), testKey(24), user.String())
	eventCPI := rawInstruction(PUMPFUN_PROGRAM_ID, buildTradeEventData(mint, user, 1_000_000_000, 34_000_000_000, true))

	fx := newTxFixture().withOuter(buy).withInner(0, eventCPI)

	p := NewDexParser(ParseConfig{})
	result, err := p.ParseTransactionFromParsed(fx.tx, 100, 1700000000)
	require.NoError(t, err)
	require.True(t, result.State, result.Msg)

	require.Len(t, result.Trades, 1)
	trade := result.Trades[0]
	assert.Equal(t, TradeBuy, trade.Type)
	assert.Equal(t, WSOL_MINT, trade.InputToken.Mint)
	assert.Equal(t, uint64(1_000_000_000), trade.InputToken.AmountRaw)
	assert.Equal(t, mint.String(), trade.OutputToken.Mint)
	assert.Equal(t, uint64(34_000_000_000), trade.OutputToken.AmountRaw)
	assert.Equal(t, user.String(), trade.User)

	require.Len(t, result.MemeEvents, 1)
	ev := result.MemeEvents[0]
	assert.Equal(t, MemeBuy, ev.Type)
	require.NotNil(t, ev.OutputToken)
	assert.Equal(t, uint64(34_000_000_000), ev.OutputToken.AmountRaw)
}

func TestPumpfunUnknownDiscriminatorIsIgnored(t *testing.T) {
	fx := newTxFixture().withOuter(
		rawInstruction(PUMPFUN_PROGRAM_ID, []byte{1, 2, 3, 4, 5, 6, 7, 8}, testKey(20)),
	)
	p := NewDexParser(ParseConfig{})
	result, err := p.ParseTransactionFromParsed(fx.tx, 100, 1700000000)
	require.NoError(t, err)
	assert.True(t, result.State)
	assert.Empty(t, result.MemeEvents)
	assert.Empty(t, result.Trades)
}

func TestValidateMemeTrade(t *testing.T) {
	trade := &TradeInfo{
		InputToken:  newTokenInfo(WSOL_MINT, 1, 9),
		OutputToken: newTokenInfo(testMintA, 1, 6),
	}
	assert.NoError(t, validateMemeTrade(MemeBuy, trade, testMintA))
	assert.Error(t, validateMemeTrade(MemeBuy, trade, testKey(50)))
	assert.Error(t, validateMemeTrade(MemeSell, trade, testMintA))

	sell := &TradeInfo{
		InputToken:  newTokenInfo(testMintA, 1, 6),
		OutputToken: newTokenInfo(WSOL_MINT, 1, 9),
	}
	assert.NoError(t, validateMemeTrade(MemeSell, sell, testMintA))
}

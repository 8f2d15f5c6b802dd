package dexparser

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compiledTxFixture(sigByte byte) BlockTransaction {
	var sig solana.Signature
	sig[0] = sigByte

	tx := &solana.Transaction{
		Signatures: []solana.Signature{sig},
		Message: solana.Message{
			Header:      solana.MessageHeader{NumRequiredSignatures: 1},
			AccountKeys: []solana.PublicKey{testPubkey(1), solana.MustPublicKeyFromBase58(SYSTEM_PROGRAM_ID)},
			Instructions: []solana.CompiledInstruction{
				{
					ProgramIDIndex: 1,
					Accounts:       []uint16{0, 0},
					Data:           []byte{2, 0, 0, 0, 64, 66, 15, 0, 0, 0, 0, 0}, // transfer 1_000_000
				},
			},
		},
	}
	return BlockTransaction{
		Transaction: tx,
		Meta:        &rpc.TransactionMeta{Fee: 5000},
	}
}

func TestParseBlockPreservesInputOrder(t *testing.T) {
	block := &Block{
		Slot:      200,
		BlockTime: 1700000000,
		Transactions: []BlockTransaction{
			compiledTxFixture(10),
			compiledTxFixture(11),
			compiledTxFixture(12),
		},
	}

	p := NewDexParser(ParseConfig{})
	results, err := p.ParseBlock(block)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, block.Transactions[i].Transaction.Signatures[0].String(), res.Signature)
		assert.Equal(t, uint64(200), res.Slot)
	}
}

func TestParseBlockConfinesFailures(t *testing.T) {
	broken := compiledTxFixture(11)
	broken.Meta = nil

	block := &Block{
		Slot: 200,
		Transactions: []BlockTransaction{
			compiledTxFixture(10),
			broken,
			compiledTxFixture(12),
		},
	}

	p := NewDexParser(ParseConfig{})
	results, err := p.ParseBlock(block)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].State)
	assert.False(t, results[1].State)
	assert.NotEmpty(t, results[1].Msg)
	assert.True(t, results[2].State)
}

func TestParseBlockDropsChainFailedTransactions(t *testing.T) {
	// A failed transaction's transfers never settled; it must not be parsed
	// at all, not merely flagged afterwards.
	failed := compiledTxFixture(11)
	failed.Meta = &rpc.TransactionMeta{Err: map[string]interface{}{"InstructionError": []interface{}{0}}}

	block := &Block{
		Slot: 200,
		Transactions: []BlockTransaction{
			compiledTxFixture(10),
			failed,
			compiledTxFixture(12),
		},
	}

	p := NewDexParser(ParseConfig{})
	results, err := p.ParseBlock(block)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, block.Transactions[0].Transaction.Signatures[0].String(), results[0].Signature)
	assert.Equal(t, block.Transactions[2].Transaction.Signatures[0].String(), results[1].Signature)
	for _, res := range results {
		assert.Equal(t, "success", res.TxStatus)
	}
}

func TestParseBlockNilIsError(t *testing.T) {
	p := NewDexParser(ParseConfig{})
	_, err := p.ParseBlock(nil)
	assert.Error(t, err)
}

package dexparser

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"
)

// Deterministic account keys for fixtures.
func testKey(n byte) string {
	var b [32]byte
	b[0] = n
	b[31] = n
	return solana.PublicKeyFromBytes(b[:]).String()
}

func testPubkey(n byte) solana.PublicKey {
	var b [32]byte
	b[0] = n
	b[31] = n
	return solana.PublicKeyFromBytes(b[:])
}

var (
	testSigner    = testKey(1)
	testPool      = testKey(2)
	testVaultA    = testKey(3)
	testVaultSOL  = testKey(4)
	testUserAcctA = testKey(5)
	testUserWSOL  = testKey(6)
	testMintA     = testKey(7)
	testSignature = "5tx1111111111111111111111111111111111111111111111111111111111111111111111111111111111"
)

// txFixture assembles a jsonParsed-shape transaction incrementally.
type txFixture struct {
	tx *ParsedTransaction
}

func newTxFixture() *txFixture {
	return &txFixture{tx: &ParsedTransaction{
		Signatures:  []string{testSignature},
		AccountKeys: []string{testSigner},
		NumSigners:  1,
		Meta:        &ParsedTransactionMeta{},
	}}
}

func (f *txFixture) withAccounts(keys ...string) *txFixture {
	f.tx.AccountKeys = append(f.tx.AccountKeys, keys...)
	return f
}

func (f *txFixture) withOuter(ins ...*ParsedInstruction) *txFixture {
	f.tx.Instructions = append(f.tx.Instructions, ins...)
	return f
}

func (f *txFixture) withInner(outerIndex uint16, ins ...*ParsedInstruction) *txFixture {
	f.tx.Meta.InnerInstructions = append(f.tx.Meta.InnerInstructions, ParsedInnerInstructionSet{
		Index:        outerIndex,
		Instructions: ins,
	})
	return f
}

func (f *txFixture) withTokenBalance(accountIndex uint16, mint, owner, amount string, decimals uint8, post bool) *txFixture {
	ownerPK := solana.MustPublicKeyFromBase58(owner)
	tb := rpc.TokenBalance{
		AccountIndex: accountIndex,
		Mint:         solana.MustPublicKeyFromBase58(mint),
		Owner:        &ownerPK,
		UiTokenAmount: &rpc.UiTokenAmount{
			Amount:   amount,
			Decimals: decimals,
		},
	}
	if post {
		f.tx.Meta.PostTokenBalances = append(f.tx.Meta.PostTokenBalances, tb)
	} else {
		f.tx.Meta.PreTokenBalances = append(f.tx.Meta.PreTokenBalances, tb)
	}
	return f
}

func (f *txFixture) adapter() *TransactionAdapter {
	a, err := NewTransactionAdapterFromParsed(f.tx, 100, 1700000000)
	if err != nil {
		panic(err)
	}
	return a
}

// rawInstruction builds an instruction with opaque binary data.
func rawInstruction(programID string, data []byte, accounts ...string) *ParsedInstruction {
	return &ParsedInstruction{
		ProgramID: programID,
		Accounts:  accounts,
		Data:      base58.Encode(data),
	}
}

// parsedTransferChecked mirrors the node-decoded spl transferChecked shape.
func parsedTransferChecked(source, mint, destination, authority, amount string, decimals int) *ParsedInstruction {
	return &ParsedInstruction{
		Program:   "spl-token",
		ProgramID: TOKEN_PROGRAM_ID,
		Parsed: &ParsedInfo{
			Type: "transferChecked",
			Info: map[string]interface{}{
				"source":      source,
				"mint":        mint,
				"destination": destination,
				"authority":   authority,
				"tokenAmount": map[string]interface{}{
					"amount":   amount,
					"decimals": float64(decimals),
				},
			},
		},
	}
}

func parsedSystemTransfer(source, destination string, lamports uint64) *ParsedInstruction {
	return &ParsedInstruction{
		Program:   "system",
		ProgramID: SYSTEM_PROGRAM_ID,
		Parsed: &ParsedInfo{
			Type: "transfer",
			Info: map[string]interface{}{
				"source":      source,
				"destination": destination,
				"lamports":    float64(lamports),
			},
		},
	}
}

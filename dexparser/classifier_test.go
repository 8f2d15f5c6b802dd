package dexparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifierGroupsByProgram(t *testing.T) {
	f := newTxFixture().
		withOuter(
			rawInstruction(RAYDIUM_V4_PROGRAM_ID, []byte{9, 0, 0}, TOKEN_PROGRAM_ID, testPool),
			rawInstruction(COMPUTE_BUDGET_ID, []byte{2, 0, 0, 0}),
		).
		withInner(0,
			parsedTransferChecked(testUserAcctA, testMintA, testVaultA, testSigner, "1000", 6),
			parsedTransferChecked(testVaultSOL, WSOL_MINT, testUserWSOL, testPool, "2000000000", 9),
		)

	c := NewInstructionClassifier(f.adapter())

	raydium := c.GetInstructions(RAYDIUM_V4_PROGRAM_ID)
	require.Len(t, raydium, 1)
	assert.Equal(t, RAYDIUM_V4_PROGRAM_ID+":0", raydium[0].Key())
	assert.Equal(t, "0-0", raydium[0].Idx())
	assert.Equal(t, -1, raydium[0].InnerIndex)

	token := c.GetInstructions(TOKEN_PROGRAM_ID)
	require.Len(t, token, 2)
	assert.Equal(t, TOKEN_PROGRAM_ID+":0-1", token[1].Key())
	assert.Equal(t, "0-1", token[1].Idx())

	// Infrastructure programs must not leak into dispatch.
	ids := c.GetAllProgramIDs()
	assert.Equal(t, []string{RAYDIUM_V4_PROGRAM_ID}, ids)
}

func TestClassifierRepeatedBuildsAreIdentical(t *testing.T) {
	f := newTxFixture().withOuter(
		rawInstruction(RAYDIUM_V4_PROGRAM_ID, []byte{9}, TOKEN_PROGRAM_ID, testPool),
	)
	adapter := f.adapter()

	first := NewInstructionClassifier(adapter)
	second := NewInstructionClassifier(adapter)

	assert.Equal(t, first.GetAllProgramIDs(), second.GetAllProgramIDs())
	assert.Len(t, second.GetInstructions(RAYDIUM_V4_PROGRAM_ID), 1)
}

func TestClassifierDiscriminatorLookup(t *testing.T) {
	disc := anchorDiscriminator("swap_base_input")
	data := append(append([]byte{}, disc...), 1, 2, 3)

	f := newTxFixture().withOuter(
		rawInstruction(RAYDIUM_CPMM_PROGRAM_ID, data, testSigner, testSigner, testSigner, testPool),
	)
	c := NewInstructionClassifier(f.adapter())

	found := c.GetInstructionByDiscriminator(disc, 8)
	require.NotNil(t, found)
	assert.Equal(t, RAYDIUM_CPMM_PROGRAM_ID, found.ProgramID)

	missing := c.GetInstructionByDiscriminator(anchorDiscriminator("swap_base_output"), 8)
	assert.Nil(t, missing)
}

func TestClassifierMultiInstructions(t *testing.T) {
	f := newTxFixture().withOuter(
		rawInstruction(RAYDIUM_V4_PROGRAM_ID, []byte{9}, testPool),
		rawInstruction(ORCA_WHIRLPOOL_PROGRAM_ID, []byte{1}, testPool),
	)
	c := NewInstructionClassifier(f.adapter())

	both := c.GetMultiInstructions(RAYDIUM_V4_PROGRAM_ID, ORCA_WHIRLPOOL_PROGRAM_ID)
	require.Len(t, both, 2)
	assert.Equal(t, RAYDIUM_V4_PROGRAM_ID, both[0].ProgramID)
	assert.Equal(t, ORCA_WHIRLPOOL_PROGRAM_ID, both[1].ProgramID)
}

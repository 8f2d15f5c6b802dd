package dexparser

// Program ids and reference-token mints used across the parsing engine.
// These are external contracts of the chain and of each on-chain program;
// keep them in one auditable place.

const (
	TOKEN_PROGRAM_ID      = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	TOKEN_2022_PROGRAM_ID = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"
	SYSTEM_PROGRAM_ID     = "11111111111111111111111111111111"
	ASSOCIATED_TOKEN_ID   = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	COMPUTE_BUDGET_ID     = "ComputeBudget111111111111111111111111111111"
	MEMO_PROGRAM_ID       = "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr"
)

const (
	WSOL_MINT = "So11111111111111111111111111111111111111112"
	USDC_MINT = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	USDT_MINT = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
)

// DEX / launchpad / router programs.
const (
	RAYDIUM_V4_PROGRAM_ID        = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	RAYDIUM_CPMM_PROGRAM_ID      = "CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C"
	RAYDIUM_CLMM_PROGRAM_ID      = "CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK"
	RAYDIUM_LAUNCHLAB_PROGRAM_ID = "LanMV9sAd7wArD4vJFi2qDdfnVhFxYSUg6eADduJ3uj"

	ORCA_WHIRLPOOL_PROGRAM_ID = "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"

	METEORA_DLMM_PROGRAM_ID    = "LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo"
	METEORA_POOLS_PROGRAM_ID   = "Eo7WjKq67rjJQSZxS6z3YkapzY3eMj6Xy8X5EQVn5UaB"
	METEORA_DAMM_V2_PROGRAM_ID = "cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG"
	METEORA_DBC_PROGRAM_ID     = "dbcij3LWUppWqq96dh6gJWwBifmcGfLSB5D4DuSMaqN"

	PUMPFUN_PROGRAM_ID  = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	PUMPSWAP_PROGRAM_ID = "pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA"
	BOOPFUN_PROGRAM_ID  = "boop8hVGQGqehUK2iVEMEnMrL5RbjywRzHKBmBE7ry4"

	MOONSHOT_PROGRAM_ID = "MoonCVVNZFSYkqNXP6bxHLPL6QQJiMagDL3qcqUQTrG"

	JUPITER_PROGRAM_ID     = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
	JUPITER_DCA_PROGRAM_ID = "DCA265Vj8a9CEuX1eb1LWRnDT7uK6q1xMipnNyatn23M"
	OKX_ROUTER_PROGRAM_ID  = "6m2CDdhRgxpH4WjvdzxAYbGxwdGUz5MziiL5jek2kBma"

	PHOENIX_PROGRAM_ID     = "PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLR89jjFHGqdXY"
	LIFINITY_V2_PROGRAM_ID = "2wT8Yq49kHgDzXuPxZSaeLaH1qbmGXtEyPy64bL7aD3c"
)

// Trading-bot routers. These wrap a pool CPI and carry no stable instruction
// surface of their own; the wrapped program's decoder reconstructs the swap,
// and the bot registers the transfer role so its movements stay visible when
// nothing underneath matched.
const (
	BANANA_GUN_PROGRAM_ID = "BANANAjs7FJiPQqJTGFzkZJndT9o7UmKiYYGaJz6frGu"
	MINTECH_PROGRAM_ID    = "minTcHYRLVPubRK8nt6sqe2ZpWrGDLQoNLipDJCGocY"
	BLOOM_PROGRAM_ID      = "b1oomGGqPKGD6errbyfbVMBuzSC8WtAAYo8MwNafWW1"
	NOVA_PROGRAM_ID       = "NoVA1TmDUqksaj2hB1nayFkPysjJbFiU76dT4qPw2wm"
	MAESTRO_PROGRAM_ID    = "MaestroAAe9ge5HTc64VbBQZ6fP77pwvrhM8i1XWSAx"
)

// systemProgramIDs: infrastructure programs whose outer instructions carry no
// DEX semantics. The classifier hides them from downstream dispatch.
var systemProgramIDs = map[string]struct{}{
	SYSTEM_PROGRAM_ID:   {},
	COMPUTE_BUDGET_ID:   {},
	ASSOCIATED_TOKEN_ID: {},
	MEMO_PROGRAM_ID:     {},
}

// passThroughProgramIDs: programs that appear as CPI callees inside a DEX
// instruction without changing which protocol owns the economic action
// (token programs moving vault funds, system rent payments, ATA creation).
// The transfer extractor keeps the current group key when it meets one.
var passThroughProgramIDs = map[string]struct{}{
	TOKEN_PROGRAM_ID:      {},
	TOKEN_2022_PROGRAM_ID: {},
	SYSTEM_PROGRAM_ID:     {},
	ASSOCIATED_TOKEN_ID:   {},
	MEMO_PROGRAM_ID:       {},
}

// aggregatorProgramIDs: router family whose decoded trades are authoritative.
// When one of these produced a trade, underlying pool legs must not be
// double-counted.
var aggregatorProgramIDs = map[string]struct{}{
	JUPITER_PROGRAM_ID:    {},
	OKX_ROUTER_PROGRAM_ID: {},
}

// routerOverridePrograms: when the last transfer of a swap is authorized by
// one of these instead of the signer, orientation is still flipped as if the
// signer authorized it (router-controlled intermediate accounts).
var routerOverridePrograms = map[string]struct{}{
	JUPITER_PROGRAM_ID:     {},
	JUPITER_DCA_PROGRAM_ID: {},
	OKX_ROUTER_PROGRAM_ID:  {},
}

// baseTokenMints decide trade direction: native first, then configured bases.
// An input mint found here makes the trade a BUY of the other side.
var baseTokenMints = map[string]struct{}{
	WSOL_MINT: {},
	USDC_MINT: {},
	USDT_MINT: {},
}

// supportedQuoteMints gates the try-unknown-DEX fallback: a reconstructed
// trade for an unregistered program is only kept when it touches one of these.
var supportedQuoteMints = map[string]struct{}{
	WSOL_MINT: {},
	USDC_MINT: {},
	USDT_MINT: {},
}

// feeCollectorAccounts: known protocol fee sinks. Transfers landing here are
// tagged IsFee and excluded from principal summation.
var feeCollectorAccounts = map[string]struct{}{
	// pump.fun bonding-curve fee recipient
	"CebN5WGQ4jvEPvsVU4EoHEpgzq1VV7AbicfhtW4xC9iM": {},
	// pump.fun AMM protocol fee wallet
	"62qc2CNXwrYqQScmEdiZFFAnJR262PxWEuNQtxfafNgV": {},
}

func isSystemProgram(programID string) bool {
	_, ok := systemProgramIDs[programID]
	return ok
}

func isPassThroughProgram(programID string) bool {
	_, ok := passThroughProgramIDs[programID]
	return ok
}

func isTokenProgram(programID string) bool {
	return programID == TOKEN_PROGRAM_ID || programID == TOKEN_2022_PROGRAM_ID
}

func isAggregatorProgram(programID string) bool {
	_, ok := aggregatorProgramIDs[programID]
	return ok
}

func isBaseToken(mint string) bool {
	_, ok := baseTokenMints[mint]
	return ok
}

func isSupportedQuote(mint string) bool {
	_, ok := supportedQuoteMints[mint]
	return ok
}

func isFeeCollector(account string) bool {
	_, ok := feeCollectorAccounts[account]
	return ok
}

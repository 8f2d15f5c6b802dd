package dexparser

// Decoder roles per program. A program registers only the roles it has;
// selection is by program id through this static table, never by type
// hierarchy.
type (
	tradeDecoder     func(ctx *parseContext, programID string) ([]TradeInfo, error)
	liquidityDecoder func(ctx *parseContext, programID string) ([]PoolEvent, error)
	memeDecoder      func(ctx *parseContext, programID string) ([]MemeEvent, error)
	transferDecoder  func(ctx *parseContext, programID string) []TransferData
)

type decoderSet struct {
	name      string
	trade     tradeDecoder
	liquidity liquidityDecoder
	meme      memeDecoder
	transfer  transferDecoder
}

// decoderRegistry is the auditable program-id → decoder table. Discriminator
// tables live next to each family's decode functions. Populated in init to
// break the initialization cycle through protocolName.
var decoderRegistry map[string]decoderSet

func init() {
	decoderRegistry = map[string]decoderSet{
		RAYDIUM_V4_PROGRAM_ID: {
			name:      "RaydiumV4",
			trade:     decodeRaydiumV4Trades,
			liquidity: decodeRaydiumV4Liquidity,
		},
		RAYDIUM_CPMM_PROGRAM_ID: {
			name:      "RaydiumCPMM",
			trade:     decodeRaydiumCPMMTrades,
			liquidity: decodeRaydiumCPMMLiquidity,
		},
		RAYDIUM_CLMM_PROGRAM_ID: {
			name:      "RaydiumCLMM",
			trade:     decodeRaydiumCLMMTrades,
			liquidity: decodeRaydiumCLMMLiquidity,
		},
		RAYDIUM_LAUNCHLAB_PROGRAM_ID: {
			name:  "RaydiumLaunchLab",
			trade: decodeLaunchLabTrades,
			meme:  decodeLaunchLabEvents,
		},
		ORCA_WHIRLPOOL_PROGRAM_ID: {
			name:      "OrcaWhirlpool",
			trade:     decodeOrcaTrades,
			liquidity: decodeOrcaLiquidity,
		},
		METEORA_DLMM_PROGRAM_ID: {
			name:      "MeteoraDLMM",
			trade:     decodeMeteoraDLMMTrades,
			liquidity: decodeMeteoraDLMMLiquidity,
		},
		METEORA_POOLS_PROGRAM_ID: {
			name:      "MeteoraPools",
			trade:     decodeMeteoraPoolsTrades,
			liquidity: decodeMeteoraPoolsLiquidity,
		},
		METEORA_DAMM_V2_PROGRAM_ID: {
			name:      "MeteoraDAMMv2",
			trade:     decodeMeteoraDAMMTrades,
			liquidity: decodeMeteoraDAMMLiquidity,
		},
		METEORA_DBC_PROGRAM_ID: {
			name:  "MeteoraDBC",
			trade: decodeMeteoraDBCTrades,
		},
		PUMPFUN_PROGRAM_ID: {
			name:  "Pumpfun",
			trade: decodePumpfunTrades,
			meme:  decodePumpfunEvents,
		},
		PUMPSWAP_PROGRAM_ID: {
			name:      "PumpSwap",
			trade:     decodePumpSwapTrades,
			liquidity: decodePumpSwapLiquidity,
		},
		BOOPFUN_PROGRAM_ID: {
			name: "Boopfun",
			meme: decodeBoopfunEvents,
		},
		MOONSHOT_PROGRAM_ID: {
			name:  "Moonshot",
			trade: decodeMoonshotTrades,
		},
		JUPITER_PROGRAM_ID: {
			name:  "Jupiter",
			trade: decodeJupiterTrades,
		},
		JUPITER_DCA_PROGRAM_ID: {
			name:     "JupiterDCA",
			transfer: decodeProgramTransfers,
		},
		OKX_ROUTER_PROGRAM_ID: {
			name:  "OKXRouter",
			trade: decodeOKXTrades,
		},
		PHOENIX_PROGRAM_ID: {
			name:     "Phoenix",
			trade:    decodePhoenixTrades,
			transfer: decodeProgramTransfers,
		},
		LIFINITY_V2_PROGRAM_ID: {
			name:  "LifinityV2",
			trade: decodeLifinityTrades,
		},

		// Trading bots delegate the swap itself to a pool program, which the
		// classifier surfaces on its own; only the transfer role is registered.
		BANANA_GUN_PROGRAM_ID: {
			name:     "BananaGun",
			transfer: decodeProgramTransfers,
		},
		MINTECH_PROGRAM_ID: {
			name:     "Mintech",
			transfer: decodeProgramTransfers,
		},
		BLOOM_PROGRAM_ID: {
			name:     "Bloom",
			transfer: decodeProgramTransfers,
		},
		NOVA_PROGRAM_ID: {
			name:     "Nova",
			transfer: decodeProgramTransfers,
		},
		MAESTRO_PROGRAM_ID: {
			name:     "Maestro",
			transfer: decodeProgramTransfers,
		},
	}
}

func lookupDecoder(programID string) (decoderSet, bool) {
	d, ok := decoderRegistry[programID]
	return d, ok
}

func protocolName(programID string) string {
	if d, ok := decoderRegistry[programID]; ok {
		return d.name
	}
	return ""
}

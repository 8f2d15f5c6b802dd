package dexparser

// Meteora family: DLMM bin pools, the legacy constant-product Pools program,
// DAMM v2, and the Dynamic Bonding Curve launchpad. All four are anchor
// programs; the pool account leads each instruction's account list.

var meteoraDLMMTradeRules = []instructionRule{
	anchorRule("SWAP", "swap", "swap2", "swap_exact_out", "swap_exact_out2", "swap_with_price_impact", "swap_with_price_impact2"),
}

var meteoraDLMMLiquidityRules = []instructionRule{
	anchorRule(string(PoolCreate), "initialize_lb_pair", "initialize_lb_pair2", "initialize_customizable_permissionless_lb_pair"),
	anchorRule(string(PoolAdd), "add_liquidity", "add_liquidity2", "add_liquidity_by_strategy", "add_liquidity_by_strategy2", "add_liquidity_one_side_precise"),
	anchorRule(string(PoolRemove), "remove_liquidity", "remove_liquidity2", "remove_liquidity_by_range", "remove_liquidity_by_range2"),
}

// DLMM swap layout: #0 lb_pair.
var decodeMeteoraDLMMTrades = ruleTradeDecoder("MeteoraDLMM", meteoraDLMMTradeRules, 0)

var decodeMeteoraDLMMLiquidity = ruleLiquidityDecoder(meteoraDLMMLiquidityRules, liquidityLayout{
	poolIndex:   1,
	signerIndex: -1,
	lpMintIndex: -1,
})

var meteoraPoolsTradeRules = []instructionRule{
	anchorRule("SWAP", "swap"),
}

var meteoraPoolsLiquidityRules = []instructionRule{
	anchorRule(string(PoolCreate), "initialize_permissionless_pool", "initialize_permissionless_constant_product_pool_with_config"),
	anchorRule(string(PoolAdd), "add_balance_liquidity", "add_imbalance_liquidity"),
	anchorRule(string(PoolRemove), "remove_balance_liquidity", "remove_liquidity_single_side"),
}

// Pools swap layout: #0 pool.
var decodeMeteoraPoolsTrades = ruleTradeDecoder("MeteoraPools", meteoraPoolsTradeRules, 0)

var decodeMeteoraPoolsLiquidity = ruleLiquidityDecoder(meteoraPoolsLiquidityRules, liquidityLayout{
	poolIndex:   0,
	signerIndex: -1,
	lpMintIndex: -1,
})

var meteoraDAMMTradeRules = []instructionRule{
	anchorRule("SWAP", "swap"),
}

var meteoraDAMMLiquidityRules = []instructionRule{
	anchorRule(string(PoolCreate), "initialize_pool", "initialize_customizable_pool"),
	anchorRule(string(PoolAdd), "add_liquidity"),
	anchorRule(string(PoolRemove), "remove_liquidity", "remove_all_liquidity"),
}

// DAMM v2 swap layout: #0 pool authority, #1 pool.
var decodeMeteoraDAMMTrades = ruleTradeDecoder("MeteoraDAMMv2", meteoraDAMMTradeRules, 1)

var decodeMeteoraDAMMLiquidity = ruleLiquidityDecoder(meteoraDAMMLiquidityRules, liquidityLayout{
	poolIndex:   1,
	signerIndex: -1,
	lpMintIndex: -1,
})

var meteoraDBCTradeRules = []instructionRule{
	anchorRule("SWAP", "swap"),
}

// DBC swap layout: #0 pool authority, #1 config, #2 pool (virtual curve).
var decodeMeteoraDBCTrades = ruleTradeDecoder("MeteoraDBC", meteoraDBCTradeRules, 2)

package dexparser

// Phoenix (on-chain order book) and Lifinity v2 (proactive market maker).
// Both settle swaps through plain token transfers; reconstruction from side
// effects is sufficient and keeps the decoders free of per-version layouts.

// Phoenix uses single-byte instruction tags; 0 is Swap.
var phoenixTradeRules = []instructionRule{
	byteRule("SWAP", 0),
}

// Phoenix swap layout: #0 phoenix program, #1 log authority, #2 market.
var decodePhoenixTrades = ruleTradeDecoder("Phoenix", phoenixTradeRules, 2)

var lifinityTradeRules = []instructionRule{
	anchorRule("SWAP", "swap"),
}

// Lifinity v2 swap layout: #0 authority, #1 amm.
var decodeLifinityTrades = ruleTradeDecoder("LifinityV2", lifinityTradeRules, 1)

package dexparser

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"
)

// parseContext is the per-transaction working state shared by every decoder.
// Built once, read-only during dispatch.
type parseContext struct {
	adapter    *TransactionAdapter
	classifier *InstructionClassifier
	transfers  map[string][]TransferData
	cfg        ParseConfig
	log        *logrus.Entry
	result     *ParseResult

	// transfer-role decoder output, surfaced only when the transaction
	// produced no trades or liquidity events
	roleTransfers []TransferData
}

// DexParser turns one confirmed transaction into trades, liquidity events,
// meme events and transfers. Safe for concurrent use.
type DexParser struct {
	cfg ParseConfig
	log *logrus.Entry
}

func NewDexParser(cfg ParseConfig) *DexParser {
	return &DexParser{
		cfg: cfg,
		log: logrus.WithField("component", "dexparser"),
	}
}

// ParseTransaction processes one compiled-shape transaction. A panic anywhere
// in decoding is confined to this transaction: the result comes back with
// State=false and the message instead of crashing the caller.
func (p *DexParser) ParseTransaction(tx *solana.Transaction, meta *rpc.TransactionMeta, slot uint64, blockTime int64) (result *ParseResult, err error) {
	adapter, aerr := NewTransactionAdapter(tx, meta, slot, blockTime)
	if aerr != nil {
		return nil, aerr
	}
	return p.parse(adapter)
}

// ParseTransactionFromParsed processes one jsonParsed-shape transaction.
func (p *DexParser) ParseTransactionFromParsed(tx *ParsedTransaction, slot uint64, blockTime int64) (*ParseResult, error) {
	adapter, err := NewTransactionAdapterFromParsed(tx, slot, blockTime)
	if err != nil {
		return nil, err
	}
	return p.parse(adapter)
}

func (p *DexParser) parse(adapter *TransactionAdapter) (result *ParseResult, err error) {
	result = &ParseResult{
		State:        true,
		Slot:         adapter.Slot(),
		Timestamp:    adapter.BlockTime(),
		Signature:    adapter.Signature(),
		Signers:      adapter.Signers(),
		ComputeUnits: adapter.ComputeUnits(),
		TxStatus:     adapter.TxStatus(),
		Fee:          newTokenInfo(WSOL_MINT, adapter.Fee(), 9),
	}

	defer func() {
		if r := recover(); r != nil {
			perr := fmt.Errorf("parse error: %s %v", adapter.Signature(), r)
			p.log.WithField("signature", adapter.Signature()).Error(perr)
			result.State = false
			result.Msg = perr.Error()
			if p.cfg.ThrowError {
				err = perr
			} else {
				err = nil
			}
		}
	}()

	ctx := &parseContext{
		adapter:    adapter,
		classifier: NewInstructionClassifier(adapter),
		transfers:  extractTransfers(adapter),
		cfg:        p.cfg,
		log:        p.log,
		result:     result,
	}

	if derr := p.dispatch(ctx); derr != nil {
		p.log.WithField("signature", adapter.Signature()).Error(derr)
		result.State = false
		result.Msg = fmt.Sprintf("parse error: %s %v", adapter.Signature(), derr)
		if p.cfg.ThrowError {
			return result, derr
		}
		return result, nil
	}

	// Allow-list miss: dispatch ended the parse before any decode work, so no
	// report is assembled either.
	if !result.State {
		return result, nil
	}

	p.finalize(ctx)
	return result, nil
}

// dispatch runs decoder selection: aggregator-owned flows first (their legs
// are authoritative), then registered pool/launchpad programs, then the
// unknown-DEX fallback.
func (p *DexParser) dispatch(ctx *parseContext) error {
	touched := ctx.classifier.GetAllProgramIDs()
	programIDs := p.filterPrograms(touched)

	// Allow-list configured but nothing matched: no decode work to do.
	if len(p.cfg.ProgramIDs) > 0 && len(programIDs) == 0 {
		ctx.result.State = false
		return nil
	}

	// An aggregator that produced a trade owns the flow; decoding the pools
	// it routed through would double-count the same swap.
	for _, progID := range programIDs {
		if !isAggregatorProgram(progID) {
			continue
		}
		dec, ok := lookupDecoder(progID)
		if !ok || dec.trade == nil {
			continue
		}
		trades, err := dec.trade(ctx, progID)
		if err != nil {
			return err
		}
		if len(trades) > 0 {
			ctx.result.Trades = append(ctx.result.Trades, trades...)
			return nil
		}
	}

	for _, progID := range programIDs {
		if isAggregatorProgram(progID) {
			continue
		}
		dec, ok := lookupDecoder(progID)
		if !ok {
			if ctx.cfg.TryUnknownDEX {
				p.tryUnknown(ctx, progID)
			}
			continue
		}
		if dec.trade != nil {
			trades, err := dec.trade(ctx, progID)
			if err != nil {
				return err
			}
			ctx.result.Trades = append(ctx.result.Trades, trades...)
		}
		if dec.liquidity != nil {
			events, err := dec.liquidity(ctx, progID)
			if err != nil {
				return err
			}
			ctx.result.Liquidities = append(ctx.result.Liquidities, events...)
		}
		if dec.meme != nil {
			events, err := dec.meme(ctx, progID)
			if err != nil {
				return err
			}
			ctx.result.MemeEvents = append(ctx.result.MemeEvents, events...)
		}
		if dec.transfer != nil {
			ctx.roleTransfers = append(ctx.roleTransfers, dec.transfer(ctx, progID)...)
		}
	}

	return nil
}

// tryUnknown attempts swap reconstruction for a program without a registered
// decoder. Only trades touching a supported quote mint are kept; anything
// else is too likely to be a false positive.
func (p *DexParser) tryUnknown(ctx *parseContext, programID string) {
	for _, ci := range ctx.classifier.GetInstructions(programID) {
		dex := DexInfo{ProgramID: programID}
		trade := tradeFromTransfers(ctx, ci, dex)
		if trade == nil {
			continue
		}
		if !isSupportedQuote(trade.InputToken.Mint) && !isSupportedQuote(trade.OutputToken.Mint) {
			continue
		}
		ctx.result.Trades = append(ctx.result.Trades, *trade)
	}
}

// finalize dedupes and orders the result, optionally collapses route legs,
// fills balance changes, and falls back to raw transfers when the
// transaction produced no DEX activity at all.
func (p *DexParser) finalize(ctx *parseContext) {
	result := ctx.result

	result.Trades = dedupeTrades(result.Trades)
	sortTradesByIdx(result.Trades)
	sortPoolEventsByIdx(result.Liquidities)
	sortMemeEventsByIdx(result.MemeEvents)

	if p.cfg.AggregateTrades && len(result.Trades) > 1 {
		if merged, err := getFinalSwap(result.Trades); err == nil {
			result.Trades = []TradeInfo{*merged}
		}
	}

	signer := ctx.adapter.Signer()
	result.SolBalanceChange = ctx.adapter.SolBalanceChange(signer)
	result.TokenBalanceChange = ctx.adapter.TokenBalanceChanges(signer)

	// A transaction that moved tokens without matching any trade or
	// liquidity shape is still reported, as transfers.
	if len(result.Trades) == 0 && len(result.Liquidities) == 0 {
		if len(ctx.roleTransfers) > 0 {
			result.Transfers = append(result.Transfers, ctx.roleTransfers...)
		} else if len(result.MemeEvents) == 0 {
			for _, group := range ctx.transfers {
				result.Transfers = append(result.Transfers, group...)
			}
		}
	}
	sortTransfersByIdx(result.Transfers)
}

// filterPrograms applies the allow- and deny-lists from the config.
func (p *DexParser) filterPrograms(programIDs []string) []string {
	if len(p.cfg.ProgramIDs) == 0 && len(p.cfg.IgnoreProgramIDs) == 0 {
		return programIDs
	}

	allow := make(map[string]struct{}, len(p.cfg.ProgramIDs))
	for _, id := range p.cfg.ProgramIDs {
		allow[id] = struct{}{}
	}
	deny := make(map[string]struct{}, len(p.cfg.IgnoreProgramIDs))
	for _, id := range p.cfg.IgnoreProgramIDs {
		deny[id] = struct{}{}
	}

	out := make([]string, 0, len(programIDs))
	for _, id := range programIDs {
		if _, ignored := deny[id]; ignored {
			continue
		}
		if len(allow) > 0 {
			if _, ok := allow[id]; !ok {
				continue
			}
		}
		out = append(out, id)
	}
	return out
}

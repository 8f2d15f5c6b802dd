package dexparser

import (
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// BlockTransaction is one transaction of a block in the compiled wire shape.
type BlockTransaction struct {
	Transaction *solana.Transaction
	Meta        *rpc.TransactionMeta
}

// Block is the normalized input to the block driver.
type Block struct {
	Slot         uint64
	BlockTime    int64
	Transactions []BlockTransaction
}

// NewBlockFromRPC normalizes a getBlock response. Transactions whose envelope
// cannot be decoded are skipped rather than failing the block, and so are
// chain-failed transactions: a failed transaction cannot have produced a
// meaningful swap.
func NewBlockFromRPC(res *rpc.GetBlockResult, slot uint64) (*Block, error) {
	if res == nil {
		return nil, fmt.Errorf("block result is nil")
	}

	b := &Block{Slot: slot}
	if res.BlockTime != nil {
		b.BlockTime = res.BlockTime.Time().Unix()
	}

	for _, txm := range res.Transactions {
		if txm.Meta != nil && txm.Meta.Err != nil {
			continue
		}
		tx, err := txm.GetTransaction()
		if err != nil || tx == nil {
			continue
		}
		b.Transactions = append(b.Transactions, BlockTransaction{
			Transaction: tx,
			Meta:        txm.Meta,
		})
	}
	return b, nil
}

// ParseBlock parses every non-failed transaction of the block concurrently
// and returns the results in the block's transaction order. Chain-failed
// transactions are dropped before the fan-out; their transfer side effects
// never settled, so decoding them would fabricate trades. Parse faults are
// confined by ParseTransaction: a faulting transaction occupies its slot
// with State=false instead of shifting later results.
func (p *DexParser) ParseBlock(block *Block) ([]*ParseResult, error) {
	if block == nil {
		return nil, fmt.Errorf("block is nil")
	}

	start := time.Now()
	txs := make([]BlockTransaction, 0, len(block.Transactions))
	for _, tx := range block.Transactions {
		if tx.Meta != nil && tx.Meta.Err != nil {
			continue
		}
		txs = append(txs, tx)
	}
	results := make([]*ParseResult, len(txs))

	var wg sync.WaitGroup
	for i := range txs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tx := txs[i]
			res, err := p.ParseTransaction(tx.Transaction, tx.Meta, block.Slot, block.BlockTime)
			if err != nil {
				res = &ParseResult{
					State: false,
					Slot:  block.Slot,
					Msg:   err.Error(),
				}
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	p.log.WithFields(map[string]interface{}{
		"slot":         block.Slot,
		"transactions": len(txs),
		"elapsed":      time.Since(start).String(),
	}).Info("block parsed")

	return results, nil
}

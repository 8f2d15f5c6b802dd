package dexparser

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"
)

// Two wire shapes reach the parser: instructions already decoded into named
// fields by the RPC node ("parsed"), and raw account-index encoded
// instructions ("compiled"). Instruction is the tagged union; exactly one
// side is set.
type Instruction struct {
	Parsed   *ParsedInstruction
	Compiled *CompiledInstruction
}

// ParsedInstruction mirrors the jsonParsed encoding of one instruction.
type ParsedInstruction struct {
	Program   string      `json:"program,omitempty"`
	ProgramID string      `json:"programId"`
	Parsed    *ParsedInfo `json:"parsed,omitempty"`
	Accounts  []string    `json:"accounts,omitempty"`
	Data      string      `json:"data,omitempty"` // base58
}

// ParsedInfo is the node-decoded payload of a parsed instruction.
type ParsedInfo struct {
	Type string                 `json:"type"`
	Info map[string]interface{} `json:"info"`
}

// CompiledInstruction is the raw wire shape: indexes into the transaction's
// account-key table plus opaque binary data.
type CompiledInstruction struct {
	ProgramIDIndex uint16
	Accounts       []uint16
	Data           []byte
}

// InnerInstructionSet carries the CPI calls triggered by one outer
// instruction, in execution order.
type InnerInstructionSet struct {
	OuterIndex   int
	Instructions []Instruction
}

// TokenAccountInfo is what the adapter knows about one SPL token account.
type TokenAccountInfo struct {
	Mint     string
	Decimals uint8
	Owner    string
}

// TransactionAdapter is the uniform view over both wire shapes: account-key
// resolution, signer list, fee, balances, inner-instruction sets. All state
// is built once at construction and read-only afterward.
type TransactionAdapter struct {
	accountKeys []string
	signers     []string
	signature   string
	slot        uint64
	blockTime   int64
	fee         uint64
	compute     uint64
	txErr       interface{}

	preBalances       []uint64
	postBalances      []uint64
	preTokenBalances  []rpc.TokenBalance
	postTokenBalances []rpc.TokenBalance
	logMessages       []string

	outer []Instruction
	inner []InnerInstructionSet

	tokenAccounts map[string]TokenAccountInfo // token account -> mint/decimals/owner
	tokenAmounts  map[string]*TokenBalance    // token account -> pre/post raw amounts
	mintDecimals  map[string]uint8
}

// NewTransactionAdapter builds the adapter from the compiled wire shape.
func NewTransactionAdapter(tx *solana.Transaction, meta *rpc.TransactionMeta, slot uint64, blockTime int64) (*TransactionAdapter, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction is nil")
	}
	if meta == nil {
		return nil, fmt.Errorf("transaction meta is nil")
	}

	keys := make([]string, 0, len(tx.Message.AccountKeys)+len(meta.LoadedAddresses.Writable)+len(meta.LoadedAddresses.ReadOnly))
	for _, k := range tx.Message.AccountKeys {
		keys = append(keys, k.String())
	}
	for _, k := range meta.LoadedAddresses.Writable {
		keys = append(keys, k.String())
	}
	for _, k := range meta.LoadedAddresses.ReadOnly {
		keys = append(keys, k.String())
	}

	a := &TransactionAdapter{
		accountKeys:       keys,
		slot:              slot,
		blockTime:         blockTime,
		fee:               meta.Fee,
		txErr:             meta.Err,
		preBalances:       meta.PreBalances,
		postBalances:      meta.PostBalances,
		preTokenBalances:  meta.PreTokenBalances,
		postTokenBalances: meta.PostTokenBalances,
		logMessages:       meta.LogMessages,
	}
	if meta.ComputeUnitsConsumed != nil {
		a.compute = *meta.ComputeUnitsConsumed
	}
	if len(tx.Signatures) > 0 {
		a.signature = tx.Signatures[0].String()
	}
	numSigners := int(tx.Message.Header.NumRequiredSignatures)
	if numSigners > len(keys) {
		numSigners = len(keys)
	}
	a.signers = keys[:numSigners]

	a.outer = make([]Instruction, 0, len(tx.Message.Instructions))
	for _, in := range tx.Message.Instructions {
		a.outer = append(a.outer, Instruction{Compiled: &CompiledInstruction{
			ProgramIDIndex: in.ProgramIDIndex,
			Accounts:       in.Accounts,
			Data:           in.Data,
		}})
	}
	for _, set := range meta.InnerInstructions {
		ins := make([]Instruction, 0, len(set.Instructions))
		for _, in := range set.Instructions {
			ins = append(ins, Instruction{Compiled: &CompiledInstruction{
				ProgramIDIndex: in.ProgramIDIndex,
				Accounts:       in.Accounts,
				Data:           in.Data,
			}})
		}
		a.inner = append(a.inner, InnerInstructionSet{OuterIndex: int(set.Index), Instructions: ins})
	}

	a.buildTokenMaps()
	return a, nil
}

// ParsedTransaction is the normalized form of a jsonParsed transaction.
type ParsedTransaction struct {
	Signatures   []string               `json:"signatures"`
	AccountKeys  []string               `json:"accountKeys"`
	NumSigners   int                    `json:"numSigners"`
	Instructions []*ParsedInstruction   `json:"instructions"`
	Meta         *ParsedTransactionMeta `json:"meta"`
}

// ParsedTransactionMeta carries the metadata record of a parsed transaction.
type ParsedTransactionMeta struct {
	Err                  interface{}                 `json:"err"`
	Fee                  uint64                      `json:"fee"`
	PreBalances          []uint64                    `json:"preBalances"`
	PostBalances         []uint64                    `json:"postBalances"`
	PreTokenBalances     []rpc.TokenBalance          `json:"preTokenBalances"`
	PostTokenBalances    []rpc.TokenBalance          `json:"postTokenBalances"`
	InnerInstructions    []ParsedInnerInstructionSet `json:"innerInstructions"`
	LogMessages          []string                    `json:"logMessages"`
	ComputeUnitsConsumed *uint64                     `json:"computeUnitsConsumed"`
}

// ParsedInnerInstructionSet is one inner set of the parsed wire shape.
type ParsedInnerInstructionSet struct {
	Index        uint16               `json:"index"`
	Instructions []*ParsedInstruction `json:"instructions"`
}

// NewTransactionAdapterFromParsed builds the adapter from the parsed wire
// shape. Both constructors normalize to the same contracts.
func NewTransactionAdapterFromParsed(tx *ParsedTransaction, slot uint64, blockTime int64) (*TransactionAdapter, error) {
	if tx == nil || tx.Meta == nil {
		return nil, fmt.Errorf("parsed transaction or meta is nil")
	}

	a := &TransactionAdapter{
		accountKeys:       tx.AccountKeys,
		slot:              slot,
		blockTime:         blockTime,
		fee:               tx.Meta.Fee,
		txErr:             tx.Meta.Err,
		preBalances:       tx.Meta.PreBalances,
		postBalances:      tx.Meta.PostBalances,
		preTokenBalances:  tx.Meta.PreTokenBalances,
		postTokenBalances: tx.Meta.PostTokenBalances,
		logMessages:       tx.Meta.LogMessages,
	}
	if tx.Meta.ComputeUnitsConsumed != nil {
		a.compute = *tx.Meta.ComputeUnitsConsumed
	}
	if len(tx.Signatures) > 0 {
		a.signature = tx.Signatures[0]
	}
	numSigners := tx.NumSigners
	if numSigners <= 0 {
		numSigners = 1
	}
	if numSigners > len(tx.AccountKeys) {
		numSigners = len(tx.AccountKeys)
	}
	a.signers = tx.AccountKeys[:numSigners]

	a.outer = make([]Instruction, 0, len(tx.Instructions))
	for _, in := range tx.Instructions {
		a.outer = append(a.outer, Instruction{Parsed: in})
	}
	for _, set := range tx.Meta.InnerInstructions {
		ins := make([]Instruction, 0, len(set.Instructions))
		for _, in := range set.Instructions {
			ins = append(ins, Instruction{Parsed: in})
		}
		a.inner = append(a.inner, InnerInstructionSet{OuterIndex: int(set.Index), Instructions: ins})
	}

	a.buildTokenMaps()
	return a, nil
}

func (a *TransactionAdapter) Signature() string { return a.signature }
func (a *TransactionAdapter) Slot() uint64      { return a.slot }
func (a *TransactionAdapter) BlockTime() int64  { return a.blockTime }
func (a *TransactionAdapter) Fee() uint64       { return a.fee }
func (a *TransactionAdapter) ComputeUnits() uint64 { return a.compute }
func (a *TransactionAdapter) Signers() []string { return a.signers }
func (a *TransactionAdapter) LogMessages() []string { return a.logMessages }

func (a *TransactionAdapter) Success() bool { return a.txErr == nil }

func (a *TransactionAdapter) TxStatus() string {
	if a.txErr == nil {
		return "success"
	}
	return "failed"
}

// Signer returns the fee payer (first required signer).
func (a *TransactionAdapter) Signer() string {
	if len(a.signers) > 0 {
		return a.signers[0]
	}
	return ""
}

func (a *TransactionAdapter) AccountKey(i int) (string, bool) {
	if i < 0 || i >= len(a.accountKeys) {
		return "", false
	}
	return a.accountKeys[i], true
}

func (a *TransactionAdapter) AccountKeys() []string { return a.accountKeys }

func (a *TransactionAdapter) OuterInstructions() []Instruction { return a.outer }

func (a *TransactionAdapter) InnerSets() []InnerInstructionSet { return a.inner }

// HasAccount reports whether the transaction references the given key
// anywhere in its account table.
func (a *TransactionAdapter) HasAccount(key string) bool {
	for _, k := range a.accountKeys {
		if k == key {
			return true
		}
	}
	return false
}

// programIDOf resolves the owning program of either wire shape. Empty string
// means the instruction is malformed (index out of table).
func (a *TransactionAdapter) programIDOf(in Instruction) string {
	switch {
	case in.Parsed != nil:
		return in.Parsed.ProgramID
	case in.Compiled != nil:
		key, ok := a.AccountKey(int(in.Compiled.ProgramIDIndex))
		if !ok {
			return ""
		}
		return key
	}
	return ""
}

// accountsOf resolves the instruction's account list to base58 keys.
// Unresolvable indexes are dropped rather than failing the whole list.
func (a *TransactionAdapter) accountsOf(in Instruction) []string {
	switch {
	case in.Parsed != nil:
		return in.Parsed.Accounts
	case in.Compiled != nil:
		out := make([]string, 0, len(in.Compiled.Accounts))
		for _, idx := range in.Compiled.Accounts {
			key, ok := a.AccountKey(int(idx))
			if !ok {
				continue
			}
			out = append(out, key)
		}
		return out
	}
	return nil
}

// dataOf returns the raw instruction payload. Parsed-shape instructions that
// were fully decoded by the node carry no payload.
func (a *TransactionAdapter) dataOf(in Instruction) []byte {
	switch {
	case in.Parsed != nil:
		if in.Parsed.Data == "" {
			return nil
		}
		raw, err := base58.Decode(in.Parsed.Data)
		if err != nil {
			return nil
		}
		return raw
	case in.Compiled != nil:
		return in.Compiled.Data
	}
	return nil
}

// SolBalanceChange returns post-pre lamports for one account key, zero when
// the account is not in the balance arrays.
func (a *TransactionAdapter) SolBalanceChange(account string) int64 {
	for i, k := range a.accountKeys {
		if k != account {
			continue
		}
		if i < len(a.preBalances) && i < len(a.postBalances) {
			return int64(a.postBalances[i]) - int64(a.preBalances[i])
		}
		return 0
	}
	return 0
}

// TokenBalanceChanges returns the per-mint raw balance deltas of all token
// accounts owned by the given wallet.
func (a *TransactionAdapter) TokenBalanceChanges(owner string) map[string]*BalanceChange {
	changes := make(map[string]*BalanceChange)

	record := func(tb rpc.TokenBalance, post bool) {
		if tb.Owner == nil || tb.Owner.String() != owner || tb.UiTokenAmount == nil {
			return
		}
		mint := tb.Mint.String()
		c, ok := changes[mint]
		if !ok {
			c = &BalanceChange{Mint: mint, Decimals: tb.UiTokenAmount.Decimals}
			changes[mint] = c
		}
		amt := parseRawAmount(tb.UiTokenAmount.Amount)
		if post {
			c.PostRaw += amt
		} else {
			c.PreRaw += amt
		}
	}

	for _, tb := range a.preTokenBalances {
		record(tb, false)
	}
	for _, tb := range a.postTokenBalances {
		record(tb, true)
	}
	for _, c := range changes {
		delta := int64(c.PostRaw) - int64(c.PreRaw)
		c.Delta = decimal.NewFromInt(delta).Shift(-int32(c.Decimals))
	}
	if len(changes) == 0 {
		return nil
	}
	return changes
}

// TokenAccountInfo returns mint/decimals/owner for a token account when the
// transaction's balance records or instructions revealed it.
func (a *TransactionAdapter) TokenAccountInfo(account string) (TokenAccountInfo, bool) {
	info, ok := a.tokenAccounts[account]
	return info, ok
}

// TokenAccountBalance returns the pre/post raw amounts of one token account.
func (a *TransactionAdapter) TokenAccountBalance(account string) *TokenBalance {
	return a.tokenAmounts[account]
}

// DecimalsFor resolves a mint's decimals; native SOL is always 9.
func (a *TransactionAdapter) DecimalsFor(mint string) (uint8, bool) {
	if mint == WSOL_MINT {
		return 9, true
	}
	d, ok := a.mintDecimals[mint]
	return d, ok
}

// buildTokenMaps seeds token-account -> mint/decimals/owner from pre+post
// token balances, then backfills from TransferChecked (mint is an explicit
// account) and plain Transfer (both sides share a mint, propagate the known
// side) across both wire shapes.
func (a *TransactionAdapter) buildTokenMaps() {
	a.tokenAccounts = make(map[string]TokenAccountInfo)
	a.tokenAmounts = make(map[string]*TokenBalance)
	a.mintDecimals = map[string]uint8{WSOL_MINT: 9}

	seed := func(tb rpc.TokenBalance, post bool) {
		if tb.Mint.IsZero() || tb.UiTokenAmount == nil {
			return
		}
		key, ok := a.AccountKey(int(tb.AccountIndex))
		if !ok {
			return
		}
		info := TokenAccountInfo{Mint: tb.Mint.String(), Decimals: tb.UiTokenAmount.Decimals}
		if tb.Owner != nil {
			info.Owner = tb.Owner.String()
		}
		a.tokenAccounts[key] = info
		a.mintDecimals[info.Mint] = info.Decimals

		bal, ok := a.tokenAmounts[key]
		if !ok {
			bal = &TokenBalance{}
			a.tokenAmounts[key] = bal
		}
		if post {
			bal.PostAmount = parseRawAmount(tb.UiTokenAmount.Amount)
		} else {
			bal.PreAmount = parseRawAmount(tb.UiTokenAmount.Amount)
		}
	}
	for _, tb := range a.preTokenBalances {
		seed(tb, false)
	}
	for _, tb := range a.postTokenBalances {
		seed(tb, true)
	}

	scan := func(in Instruction) {
		progID := a.programIDOf(in)
		if !isTokenProgram(progID) {
			return
		}
		if in.Parsed != nil && in.Parsed.Parsed != nil {
			a.backfillFromParsedToken(in.Parsed.Parsed)
			return
		}
		data := a.dataOf(in)
		accounts := a.accountsOf(in)
		if len(data) == 0 || len(accounts) < 2 {
			return
		}
		switch data[0] {
		case splTransferChecked:
			if len(accounts) >= 3 {
				a.propagateMint(accounts[0], accounts[1])
				a.propagateMint(accounts[2], accounts[1])
			}
		case splTransfer:
			src, ok1 := a.tokenAccounts[accounts[0]]
			dst, ok2 := a.tokenAccounts[accounts[1]]
			switch {
			case ok1 && !ok2:
				a.tokenAccounts[accounts[1]] = TokenAccountInfo{Mint: src.Mint, Decimals: src.Decimals}
			case ok2 && !ok1:
				a.tokenAccounts[accounts[0]] = TokenAccountInfo{Mint: dst.Mint, Decimals: dst.Decimals}
			}
		}
	}

	for _, in := range a.outer {
		scan(in)
	}
	for _, set := range a.inner {
		for _, in := range set.Instructions {
			scan(in)
		}
	}
}

func (a *TransactionAdapter) propagateMint(account, mint string) {
	if info, ok := a.tokenAccounts[account]; !ok || info.Mint == "" {
		dec := a.mintDecimals[mint]
		a.tokenAccounts[account] = TokenAccountInfo{Mint: mint, Decimals: dec, Owner: a.tokenAccounts[account].Owner}
	}
}

func (a *TransactionAdapter) backfillFromParsedToken(info *ParsedInfo) {
	if info.Type != "transferChecked" {
		return
	}
	mint := infoString(info.Info, "mint")
	if mint == "" {
		return
	}
	if src := infoString(info.Info, "source"); src != "" {
		a.propagateMint(src, mint)
	}
	if dst := infoString(info.Info, "destination"); dst != "" {
		a.propagateMint(dst, mint)
	}
	if ta, ok := info.Info["tokenAmount"].(map[string]interface{}); ok {
		if dec, ok := infoUint(ta, "decimals"); ok {
			a.mintDecimals[mint] = uint8(dec)
		}
	}
}

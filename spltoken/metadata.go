package spltoken

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Env var holding the RPC endpoint used for mint lookups.
const EnvRPCURL = "SOLANA_RPC_URL"

// SPL program IDs.
var (
	ProgramToken     = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	ProgramToken2022 = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
)

// Mint account layout offsets (fixed by the token program).
const (
	mintSupplyOffset   = 36
	mintDecimalsOffset = 44
	mintMinDataSize    = 45
)

// Metadata is what the cache knows about one mint.
type Metadata struct {
	Mint        solana.PublicKey
	Supply      uint64
	Decimals    uint8
	IsToken2022 bool
}

// Cache resolves mint metadata on demand and memoizes it. Decimals and
// supply of a mint are effectively immutable for parsing purposes, so
// entries never expire. Safe for concurrent use.
type Cache struct {
	client *rpc.Client

	mu      sync.RWMutex
	entries map[solana.PublicKey]*Metadata
}

// NewCache builds a cache over the given client. Pass nil to construct from
// the SOLANA_RPC_URL environment variable.
func NewCache(client *rpc.Client) (*Cache, error) {
	if client == nil {
		rpcURL := os.Getenv(EnvRPCURL)
		if rpcURL == "" {
			return nil, fmt.Errorf("%s is not set", EnvRPCURL)
		}
		client = rpc.New(rpcURL)
	}
	return &Cache{
		client:  client,
		entries: make(map[solana.PublicKey]*Metadata),
	}, nil
}

// Seed records metadata learned elsewhere (balance records of a parsed
// transaction) without an RPC round trip.
func (c *Cache) Seed(mint solana.PublicKey, decimals uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[mint]; !ok {
		c.entries[mint] = &Metadata{Mint: mint, Decimals: decimals}
	}
}

// Get returns the metadata for a mint, fetching the account once on a miss.
func (c *Cache) Get(ctx context.Context, mint solana.PublicKey) (*Metadata, error) {
	c.mu.RLock()
	md, ok := c.entries[mint]
	c.mu.RUnlock()
	if ok {
		return md, nil
	}

	md, err := c.fetch(ctx, mint)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[mint] = md
	c.mu.Unlock()
	return md, nil
}

// Decimals is the common fast path for parsers.
func (c *Cache) Decimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	md, err := c.Get(ctx, mint)
	if err != nil {
		return 0, err
	}
	return md.Decimals, nil
}

// fetch pulls the mint account with jittered retries on throttling. Non
// rate-limit errors bubble up immediately.
func (c *Cache) fetch(ctx context.Context, mint solana.PublicKey) (*Metadata, error) {
	const maxAttempts = 8
	const base = 250 * time.Millisecond

	var out *rpc.GetAccountInfoResult
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out, err = c.client.GetAccountInfoWithOpts(ctx, mint, &rpc.GetAccountInfoOpts{
			Commitment: rpc.CommitmentConfirmed,
		})
		if err == nil {
			break
		}
		if !isRateLimited(err) {
			return nil, fmt.Errorf("get mint %s: %w", mint, err)
		}
		j := time.Duration(rand.Int63n(int64(150 * time.Millisecond)))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(base*time.Duration(attempt) + j):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("get mint %s: %w", mint, err)
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("mint %s not found", mint)
	}

	md, derr := DecodeMintAccount(out.Value.Data.GetBinary())
	if derr != nil {
		return nil, fmt.Errorf("decode mint %s: %w", mint, derr)
	}
	md.Mint = mint
	md.IsToken2022 = out.Value.Owner.Equals(ProgramToken2022)
	return md, nil
}

// DecodeMintAccount reads supply and decimals from a raw mint account.
func DecodeMintAccount(data []byte) (*Metadata, error) {
	if len(data) < mintMinDataSize {
		return nil, fmt.Errorf("mint data too short: %d bytes", len(data))
	}
	return &Metadata{
		Supply:   binary.LittleEndian.Uint64(data[mintSupplyOffset:]),
		Decimals: data[mintDecimalsOffset],
	}, nil
}

func isRateLimited(err error) bool {
	return containsAny(err, "rate limit", "rate-limited", "429", "too many requests", "server busy", "try again later")
}

func containsAny(err error, subs ...string) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

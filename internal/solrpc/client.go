// Package solrpc wraps solana-go's rpc.Client for its two callers: the
// trader's build/sign/broadcast/confirm path, and the offline verifier's
// getTransaction fetch.
package solrpc

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"raydiumsentry/internal/errs"
	"raydiumsentry/internal/raydium"
)

// maxConfirmAttempts bounds how many times the trader polls for
// confirmation before giving up and treating the broadcast as failed.
const maxConfirmAttempts = 20

const confirmPollInterval = 500 * time.Millisecond

// Client wraps a dialed Solana JSON-RPC client.
type Client struct {
	rpc *rpc.Client
}

// New dials endpoint. No handshake happens until the first call.
func New(endpoint string) *Client {
	return &Client{rpc: rpc.New(endpoint)}
}

// BuildSignSend builds a transaction from ixs payed and signed by signer,
// broadcasts it with preflight skipped (the trader cannot afford to wait on
// simulation for a pool it is racing to enter), and polls for confirmation.
// A broadcast or confirmation failure is returned to the caller, which logs
// it and continues to vault-watching rather than treating it as fatal.
func (c *Client) BuildSignSend(ctx context.Context, signer solana.PrivateKey, ixs ...solana.Instruction) (solana.Signature, error) {
	recent, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return solana.Signature{}, errs.Wrap(err)
	}

	tx, err := solana.NewTransaction(ixs, recent.Value.Blockhash, solana.TransactionPayer(signer.PublicKey()))
	if err != nil {
		return solana.Signature{}, errs.Wrap(err)
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(signer.PublicKey()) {
			return &signer
		}
		return nil
	}); err != nil {
		return solana.Signature{}, errs.Wrap(err)
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       true,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, errs.Wrap(err)
	}

	if err := c.confirm(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

func (c *Client) confirm(ctx context.Context, sig solana.Signature) error {
	for attempt := 0; attempt < maxConfirmAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return errs.Wrap(ctx.Err())
		case <-time.After(confirmPollInterval):
		}

		statuses, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil || statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
			continue
		}
		status := statuses.Value[0]
		if status.Err != nil {
			return errs.New(errs.UnreachableState)
		}
		if status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
			status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
			return nil
		}
	}
	return errs.New(errs.OutOfRange)
}

// ResolveAmmState fetches and decodes the pool's AMM state account.
func (c *Client) ResolveAmmState(ctx context.Context, ammID solana.PublicKey) (*raydium.AmmState, error) {
	info, err := c.rpc.GetAccountInfo(ctx, ammID)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	if info == nil || info.Value == nil {
		return nil, errs.New(errs.ValueDoesNotExist)
	}
	return raydium.UnpackAmmState(info.Value.Data.GetBinary())
}

// ResolveMarketVaults fetches and decodes the serum/OpenBook market's own
// coin and PC vaults, distinct from the AMM pool's PoolCoinVault/PoolPcVault.
func (c *Client) ResolveMarketVaults(ctx context.Context, market solana.PublicKey) (*raydium.MarketVaults, error) {
	info, err := c.rpc.GetAccountInfo(ctx, market)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	if info == nil || info.Value == nil {
		return nil, errs.New(errs.ValueDoesNotExist)
	}
	return raydium.UnpackMarketVaults(info.Value.Data.GetBinary())
}

// GetFinalizedTransaction fetches tx at Finalized commitment with base58
// encoding and max supported version 0, the offline verifier's sole read
// path, bounded by a 90s timeout.
func (c *Client) GetFinalizedTransaction(ctx context.Context, sig solana.Signature) (*rpc.GetTransactionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 90*time.Second)
	defer cancel()

	version := uint64(0)
	result, err := c.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase58,
		Commitment:                     rpc.CommitmentFinalized,
		MaxSupportedTransactionVersion: &version,
	})
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return result, nil
}

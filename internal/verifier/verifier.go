// Package verifier implements the parse_transaction subcommand: an offline,
// one-shot run over a configured list of signatures that replays the
// classifier against each transaction fetched from a public JSON-RPC
// endpoint instead of the Geyser stream, for regression-testing the
// classifier against known mainnet transactions.
package verifier

import (
	"context"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"raydiumsentry/internal/classify"
	"raydiumsentry/internal/config"
	"raydiumsentry/internal/solrpc"
	"raydiumsentry/internal/txmodel"
)

// Run fetches and classifies every signature in cfg's registry, logging a
// result for each and never stopping early on a per-signature failure.
func Run(ctx context.Context, cfg *config.ParseTransaction, logger *zap.Logger) error {
	client := solrpc.New(cfg.RPCEndpoint)

	for _, raw := range cfg.SignatureRegistry {
		decoded, err := base58.Decode(raw)
		if err != nil || len(decoded) != len(solana.Signature{}) {
			logger.Warn("skipping malformed signature", zap.String("signature", raw), zap.Error(err))
			continue
		}
		verifyOne(ctx, client, solana.SignatureFromBytes(decoded), logger)
	}
	return nil
}

func verifyOne(ctx context.Context, client *solrpc.Client, sig solana.Signature, logger *zap.Logger) {
	result, err := client.GetFinalizedTransaction(ctx, sig)
	if err != nil {
		logger.Warn("getTransaction failed", zap.String("signature", sig.String()), zap.Error(err))
		return
	}
	if result == nil || result.Transaction == nil {
		logger.Warn("getTransaction returned no transaction", zap.String("signature", sig.String()))
		return
	}

	decoder := bin.NewBinDecoder(result.Transaction.GetBinary())
	tx, err := solana.TransactionFromDecoder(decoder)
	if err != nil {
		logger.Warn("failed to decode transaction envelope", zap.String("signature", sig.String()), zap.Error(err))
		return
	}

	if len(tx.Signatures) == 0 || !tx.Signatures[0].Equals(sig) {
		logger.Warn("first signature does not match the requested signature", zap.String("signature", sig.String()))
		return
	}

	if !tx.Message.IsVersioned() {
		logger.Warn("rejecting non-v0 message", zap.String("signature", sig.String()))
		return
	}

	model := toTxModel(sig, tx, result.Meta)

	pool, params, err := classify.Classify(model)
	if err != nil {
		logger.Warn("matched transaction failed to decode", zap.String("signature", sig.String()), zap.Error(err))
		return
	}
	if pool == nil {
		logger.Info("transaction is not a pool-creation match", zap.String("signature", sig.String()))
		return
	}

	logger.Info("matched pool-creation transaction",
		zap.String("signature", sig.String()),
		zap.String("amm_market", pool.AmmMarket.String()),
		zap.String("amm_coin_vault", pool.AmmCoinVault.String()),
		zap.String("amm_pc_vault", pool.AmmPcVault.String()),
		zap.Uint8("nonce", params.Nonce),
		zap.Uint64("open_time", params.OpenTime),
		zap.Uint64("init_pc_amount", params.InitPcAmount),
		zap.Uint64("init_coin_amount", params.InitCoinAmount),
	)
}

func toTxModel(sig solana.Signature, tx *solana.Transaction, meta *rpc.TransactionMeta) *txmodel.Transaction {
	model := &txmodel.Transaction{
		Signature:    sig,
		AccountKeys:  tx.Message.AccountKeys,
		Instructions: toInstructions(tx.Message.Instructions),
	}

	if meta == nil {
		return model
	}

	model.Meta.LogMessages = meta.LogMessages
	if meta.Err != nil {
		model.Meta.Err = errTransactionFailed
	}
	for _, group := range meta.InnerInstructions {
		model.Meta.InnerInstructions = append(model.Meta.InnerInstructions, txmodel.InnerInstructionGroup{
			Index:        uint8(group.Index),
			Instructions: toInstructions(group.Instructions),
		})
	}
	return model
}

func toInstructions(ixs []solana.CompiledInstruction) []txmodel.Instruction {
	out := make([]txmodel.Instruction, 0, len(ixs))
	for _, ix := range ixs {
		out = append(out, txmodel.Instruction{
			ProgramIDIndex: ix.ProgramIDIndex,
			Accounts:       ix.Accounts,
			Data:           ix.Data,
		})
	}
	return out
}

var errTransactionFailed = &transactionFailedError{}

type transactionFailedError struct{}

func (*transactionFailedError) Error() string { return "verifier: meta.err is set" }

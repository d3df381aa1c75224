// Command raydiumsentry is the trading robot's single entrypoint: a
// mandatory --environment_configuration_file_path flag and one of two
// subcommands, trade (the streaming pipeline) or parse_transaction (the
// offline classifier run).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"raydiumsentry/internal/classify"
	"raydiumsentry/internal/config"
	"raydiumsentry/internal/geyser"
	gproto "raydiumsentry/internal/geyser/proto"
	"raydiumsentry/internal/logging"
	"raydiumsentry/internal/router"
	"raydiumsentry/internal/solrpc"
	"raydiumsentry/internal/supervisor"
	"raydiumsentry/internal/trader"
	"raydiumsentry/internal/verifier"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: raydiumsentry --environment_configuration_file_path <path> <trade|parse_transaction>")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("raydiumsentry", flag.ContinueOnError)
	configPath := fs.String("environment_configuration_file_path", "", "path to the TOML configuration file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *configPath == "" || fs.NArg() != 1 {
		usage()
		return 2
	}

	switch fs.Arg(0) {
	case "trade":
		return runTrade(*configPath)
	case "parse_transaction":
		return runParseTransaction(*configPath)
	default:
		usage()
		return 2
	}
}

func runTrade(configPath string) int {
	cfg, err := config.LoadTrade(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.LogDirectory, cfg.LogFilePrefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	runtime.GOMAXPROCS(cfg.TokioRuntime.WorkerThreadsQuantity)
	logger.Info("starting trade subcommand",
		zap.Int("worker_threads_quantity", cfg.TokioRuntime.WorkerThreadsQuantity),
		zap.Int("maximum_blocking_threads_quantity", cfg.TokioRuntime.MaximumBlockingThreadsQuantity),
		zap.Int("worker_thread_stack_size", cfg.TokioRuntime.WorkerThreadStackSize),
	)

	sup, err := supervisor.New(cfg, logger)
	if err != nil {
		logger.Error("failed to wire supervisor", zap.Error(err))
		return 1
	}

	rpcClient := solrpc.New(defaultTradeRPCEndpoint)
	policy := trader.FixedBandPolicy{
		TakeProfitBps: cfg.Trading.TakeProfitBps,
		StopLossBps:   cfg.Trading.StopLossBps,
	}
	r := sup.Router()

	onTransaction := func(tx *gproto.TransactionUpdate) {
		model := geyser.ToTransaction(tx)
		pool, params, err := classify.Classify(model)
		if err != nil {
			logger.Warn("matched transaction failed to decode", zap.Error(err))
			return
		}
		if pool == nil {
			return
		}
		logger.Info("pool creation matched, starting trader",
			zap.String("amm_market", pool.AmmMarket.String()),
			zap.String("amm_coin_vault", pool.AmmCoinVault.String()),
			zap.String("amm_pc_vault", pool.AmmPcVault.String()),
		)
		trader.Spawn(context.Background(), pool, params, trader.Params{
			InitialPcAmount: cfg.Trading.InitialPcAmount,
			Signer:          cfg.Trading.PrivateKey,
			RPC:             rpcClient,
			Register:        r.RegisterChan(),
			Unregister:      r.UnregisterChan(),
			Counter:         sup.Counter(),
			Policy:          policy,
			Logger:          logger.Named("trader"),
		})
	}

	onAccount := func(acct *gproto.AccountUpdate) {
		r.AccountUpdateChan() <- router.AccountUpdate{
			Pubkey: solana.PublicKeyFromBytes(acct.Pubkey),
			Data:   acct.Data,
		}
	}

	if err := sup.Run(context.Background(), onTransaction, onAccount); err != nil {
		logger.Error("supervisor exited with error", zap.Error(err))
		return 1
	}
	return 0
}

func runParseTransaction(configPath string) int {
	cfg, err := config.LoadParseTransaction(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	logger, err := logging.New("", "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	runtime.GOMAXPROCS(verifierGOMAXPROCS)

	if err := verifier.Run(context.Background(), cfg, logger); err != nil {
		logger.Error("verifier run failed", zap.Error(err))
		return 1
	}
	return 0
}

// defaultTradeRPCEndpoint is the JSON-RPC endpoint the trader's signing
// wrapper sends transactions to. The trading configuration schema carries
// no RPC endpoint leaf of its own, unlike the verifier's, so the trade
// subcommand uses the same public default the verifier falls back to.
const defaultTradeRPCEndpoint = "https://api.mainnet-beta.solana.com"

// verifierGOMAXPROCS is the fixed, small runtime profile the verifier
// subcommand runs under.
const verifierGOMAXPROCS = 2

// Package config loads the robot's two-layer TOML configuration: a raw,
// file-shaped struct whose leaves are { value = ... } wrappers, converted
// into a validated runtime struct. The file format predates this module and
// is fixed, including the "traiding" section name, which is accepted
// verbatim for configuration-file compatibility.
package config

import (
	"net"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/gagliardetto/solana-go"

	"raydiumsentry/internal/errs"
)

// Value wraps a single TOML leaf as { value = ... }.
type Value[T any] struct {
	Value T `toml:"value"`
}

// rawTrade is the on-disk shape of the trade subcommand's configuration
// file.
type rawTrade struct {
	TokioRuntime rawTokioRuntime `toml:"tokio_runtime"`
	HTTPServer   rawHTTPServer   `toml:"http_server"`
	Logging      rawLogging      `toml:"logging"`
	Geyser       rawGeyser       `toml:"geyser"`
	Traiding     rawTrading      `toml:"traiding"`
}

type rawTokioRuntime struct {
	MaximumBlockingThreadsQuantity Value[int] `toml:"maximum_blocking_threads_quantity"`
	WorkerThreadsQuantity          Value[int] `toml:"worker_threads_quantity"`
	WorkerThreadStackSize          Value[int] `toml:"worker_thread_stack_size"`
}

type rawHTTPServer struct {
	TCPSocketAddress Value[string] `toml:"tcp_socket_address"`
}

type rawLogging struct {
	DirectoryPath  Value[string] `toml:"directory_path"`
	FileNamePrefix Value[string] `toml:"file_name_prefix"`
}

type rawGeyser struct {
	GRPCURL       Value[string] `toml:"grpc_url"`
	GRPCAuthToken Value[string] `toml:"grpc_auth_token"`
}

type rawTrading struct {
	PrivateKey      Value[[]byte] `toml:"private_key"`
	InitialPcAmount Value[uint64] `toml:"initial_pc_amount"`
	TakeProfitBps   Value[int64]  `toml:"take_profit_bps"`
	StopLossBps     Value[int64]  `toml:"stop_loss_bps"`
}

// rawParseTransaction is the on-disk shape of the parse_transaction
// subcommand's configuration file.
type rawParseTransaction struct {
	SolanaTransactionSignatureRegistry Value[[]string] `toml:"solana_transaction_signature_registry"`
	SolanaRPCEndpoint                  Value[string]   `toml:"solana_rpc_endpoint"`
}

// TokioRuntime is the validated runtime-sizing configuration.
type TokioRuntime struct {
	MaximumBlockingThreadsQuantity int
	WorkerThreadsQuantity          int
	WorkerThreadStackSize          int
}

// Trading is the validated trading-economics and signing configuration.
type Trading struct {
	PrivateKey      solana.PrivateKey
	InitialPcAmount uint64
	// TakeProfitBps and StopLossBps parameterize the trader's default
	// fixed-threshold sell-policy oracle; a worsening by StopLossBps or an
	// improvement by TakeProfitBps, relative to entry, triggers a sell.
	// Zero means "not configured" and disables that side of the band.
	TakeProfitBps int64
	StopLossBps   int64
}

// Trade is the validated configuration for the trade subcommand.
type Trade struct {
	TokioRuntime  TokioRuntime
	HTTPAddr      *net.TCPAddr
	LogDirectory  string
	LogFilePrefix string
	GRPCURL       string
	GRPCAuthToken string
	Trading       Trading
}

// ParseTransaction is the validated configuration for the parse_transaction
// subcommand.
type ParseTransaction struct {
	SignatureRegistry []string
	RPCEndpoint       string
}

func load[T any](path string) (T, error) {
	var out T
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return out, errs.Newf(errs.ValueDoesNotExist, "the environment configuration file does not exist")
		}
		return out, errs.Wrap(err)
	}
	md, err := toml.DecodeFile(path, &out)
	if err != nil {
		return out, errs.Wrap(err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return out, errs.New(errs.ValueDoesNotExist)
	}
	return out, nil
}

// LoadTrade reads and validates the trade subcommand's configuration file.
func LoadTrade(path string) (*Trade, error) {
	raw, err := load[rawTrade](path)
	if err != nil {
		return nil, err
	}

	addr, err := net.ResolveTCPAddr("tcp", raw.HTTPServer.TCPSocketAddress.Value)
	if err != nil {
		return nil, errs.Wrap(err)
	}

	if raw.TokioRuntime.MaximumBlockingThreadsQuantity.Value <= 0 ||
		raw.TokioRuntime.WorkerThreadsQuantity.Value <= 0 {
		return nil, errs.New(errs.OutOfRange)
	}
	const minStackBytes = 1 << 20 // 1 MiB
	if raw.TokioRuntime.WorkerThreadStackSize.Value < minStackBytes {
		return nil, errs.New(errs.OutOfRange)
	}

	privateKey := solana.PrivateKey(raw.Traiding.PrivateKey.Value)

	return &Trade{
		TokioRuntime: TokioRuntime{
			MaximumBlockingThreadsQuantity: raw.TokioRuntime.MaximumBlockingThreadsQuantity.Value,
			WorkerThreadsQuantity:          raw.TokioRuntime.WorkerThreadsQuantity.Value,
			WorkerThreadStackSize:          raw.TokioRuntime.WorkerThreadStackSize.Value,
		},
		HTTPAddr:      addr,
		LogDirectory:  raw.Logging.DirectoryPath.Value,
		LogFilePrefix: raw.Logging.FileNamePrefix.Value,
		GRPCURL:       raw.Geyser.GRPCURL.Value,
		GRPCAuthToken: raw.Geyser.GRPCAuthToken.Value,
		Trading: Trading{
			PrivateKey:      privateKey,
			InitialPcAmount: raw.Traiding.InitialPcAmount.Value,
			TakeProfitBps:   raw.Traiding.TakeProfitBps.Value,
			StopLossBps:     raw.Traiding.StopLossBps.Value,
		},
	}, nil
}

const defaultRPCEndpoint = "https://api.mainnet-beta.solana.com"

// LoadParseTransaction reads and validates the parse_transaction
// subcommand's configuration file.
func LoadParseTransaction(path string) (*ParseTransaction, error) {
	raw, err := load[rawParseTransaction](path)
	if err != nil {
		return nil, err
	}
	endpoint := raw.SolanaRPCEndpoint.Value
	if endpoint == "" {
		endpoint = defaultRPCEndpoint
	}
	return &ParseTransaction{
		SignatureRegistry: raw.SolanaTransactionSignatureRegistry.Value,
		RPCEndpoint:       endpoint,
	}, nil
}

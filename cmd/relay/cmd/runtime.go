package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/lugondev/clmm-relay/internal/clmm"
	"github.com/lugondev/clmm-relay/internal/config"
	"github.com/lugondev/clmm-relay/internal/event"
	"github.com/lugondev/clmm-relay/internal/metrics"
	"github.com/lugondev/clmm-relay/internal/relay"
	"github.com/lugondev/clmm-relay/internal/slippage"
	relaysol "github.com/lugondev/clmm-relay/internal/solana"
	"github.com/lugondev/clmm-relay/internal/storage"
	"github.com/lugondev/clmm-relay/pkg/types"
)

// runtime wires configuration, storage, and services for a single command
// invocation.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	manager  *storage.ConnectionManager
	repo     storage.Repository
	slippage *slippage.Service

	wallet *relaysol.Wallet
	client *relaysol.Client
	state  clmm.StateReader
	engine *clmm.TransactionEngine
	relay  *relay.Service
}

// newRuntime loads configuration and connects storage. The engine side is
// wired lazily by relayService, so storage-only commands never need a
// keypair or an RPC endpoint.
func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	manager := storage.NewConnectionManager(&cfg.Database)
	repo, err := manager.Connect(ctx)
	if err != nil {
		return nil, err
	}

	emitter := event.NewMultiEmitter(
		event.NewLogEmitter(logger),
		event.NewRepositoryEmitter(repo.Events()),
	)

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		manager:  manager,
		repo:     repo,
		slippage: slippage.NewService(repo.SlippageConfigs(), emitter, logger).
			WithMetrics(metrics.NewLogMetrics(logger)),
	}, nil
}

// relayService wires the RPC client, wallet, and engine on first use.
func (r *runtime) relayService() (*relay.Service, error) {
	if r.relay != nil {
		return r.relay, nil
	}

	if r.cfg.Relay.Keypair == "" {
		return nil, fmt.Errorf("a payer keypair is required (set --keypair or relay.keypair)")
	}
	wallet, err := relaysol.WalletFromFile(r.cfg.Relay.Keypair)
	if err != nil {
		return nil, err
	}

	programID, err := r.programID()
	if err != nil {
		return nil, err
	}

	client := relaysol.NewClient(r.cfg.Solana.GetRPCEndpoint()).
		WithCommitment(r.cfg.Relay.Commitment)

	engine := clmm.NewTransactionEngine(programID, client, wallet).
		WithLogger(r.logger)

	emitter := event.NewMultiEmitter(
		event.NewLogEmitter(r.logger),
		event.NewRepositoryEmitter(r.repo.Events()),
	)

	r.wallet = wallet
	r.client = client
	r.state = clmm.NewRPCStateReader(client)
	r.engine = engine
	r.relay = relay.NewService(programID, r.state, engine, r.slippage).
		WithEmitter(emitter).
		WithMetrics(metrics.NewLogMetrics(r.logger)).
		WithLogger(r.logger)
	return r.relay, nil
}

// programID returns the configured CLMM program id, falling back to mainnet.
func (r *runtime) programID() (types.Pubkey, error) {
	if r.cfg.Relay.ClmmProgram == "" {
		return clmm.DefaultProgramID, nil
	}
	return parsePubkey(r.cfg.Relay.ClmmProgram)
}

// owner returns the acting owner: the payer wallet when loaded, otherwise
// the keypair file referenced by config.
func (r *runtime) owner() (types.Pubkey, error) {
	if r.wallet != nil {
		return r.wallet.PublicKey(), nil
	}
	if r.cfg.Relay.Keypair == "" {
		return types.Pubkey{}, fmt.Errorf("a payer keypair is required (set --keypair or relay.keypair)")
	}
	wallet, err := relaysol.WalletFromFile(r.cfg.Relay.Keypair)
	if err != nil {
		return types.Pubkey{}, err
	}
	r.wallet = wallet
	return wallet.PublicKey(), nil
}

func (r *runtime) Close() {
	if r.client != nil {
		if err := r.client.Close(); err != nil {
			r.logger.Warn("failed to close rpc client", "error", err)
		}
	}
	if err := r.manager.Close(); err != nil {
		r.logger.Warn("failed to close storage", "error", err)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

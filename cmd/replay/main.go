package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/ledger-replay/internal/config"
	"github.com/sheikh-saqib/ledger-replay/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/ledger-replay/internal/interfaces"
	"github.com/sheikh-saqib/ledger-replay/internal/ledger"
	"github.com/sheikh-saqib/ledger-replay/internal/logging"
	"github.com/sheikh-saqib/ledger-replay/internal/models"
	"github.com/sheikh-saqib/ledger-replay/internal/sink"
	"github.com/sheikh-saqib/ledger-replay/internal/source"
	"github.com/sheikh-saqib/ledger-replay/internal/storage/memory"
	"github.com/sheikh-saqib/ledger-replay/internal/storage/postgres"
)

func main() {
	envFlag := flag.String("env", ".env", "Optional dotenv file with LOG_LEVEL, LEDGER_SINK, ... settings")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <transactions.csv>\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*envFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.New()
	logger = logger.With(zap.String("run_id", runID.String()))

	if err := run(ctx, cfg, runID, flag.Arg(0), os.Stdout, logger); err != nil {
		logger.Error("replay failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// run replays the log at path and hands the account table to the configured
// sink. Nothing is written to the sink unless the whole log replayed.
func run(ctx context.Context, cfg config.Config, runID uuid.UUID, path string, stdout io.Writer, logger *zap.Logger) error {
	start := time.Now()
	logger.Info("replay started",
		zap.String("input", path),
		zap.String("index_mode", string(cfg.IndexMode)),
		zap.String("sink", string(cfg.Sink)),
	)

	in, err := source.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	reader, err := source.NewCSVReader(in)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	l := ledger.NewLedger(memory.NewTransactionIndex())
	if err := replay(ctx, cfg.IndexMode, l, reader); err != nil {
		return err
	}

	accountSink, closeSink, err := newSink(ctx, cfg, runID, stdout)
	if err != nil {
		return err
	}
	defer closeSink()

	accounts := l.Accounts()
	if err := accountSink.WriteAccounts(ctx, accounts); err != nil {
		return fmt.Errorf("write accounts: %w", err)
	}

	stats := l.Stats()
	logger.Debug("replay stats",
		zap.Int("deposits", stats.ByAction[models.ActionDeposit]),
		zap.Int("withdrawals", stats.ByAction[models.ActionWithdrawal]),
		zap.Int("disputes", stats.ByAction[models.ActionDispute]),
		zap.Int("resolves", stats.ByAction[models.ActionResolve]),
		zap.Int("chargebacks", stats.ByAction[models.ActionChargeback]),
		zap.Int("ignored", stats.Ignored),
		zap.Int("indexed_deposits", l.IndexSize()),
	)
	logger.Info("replay finished",
		zap.Int("rows", stats.Rows),
		zap.Int("accounts", len(accounts)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// replay streams the log in lazy mode. Eager mode reads the whole log first
// so every deposit is indexed before the first row is applied.
func replay(ctx context.Context, mode config.IndexMode, l *ledger.Ledger, reader *source.CSVReader) error {
	if mode != config.IndexEager {
		return l.Replay(ctx, reader)
	}

	txs, err := reader.ReadAll()
	if err != nil {
		return err
	}
	l.Prime(txs)
	for _, tx := range txs {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.Apply(tx)
	}
	return nil
}

func newSink(ctx context.Context, cfg config.Config, runID uuid.UUID, stdout io.Writer) (interfaces.AccountSink, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Sink {
	case config.SinkPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		store := postgres.NewAccountStore(db, runID)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	case config.SinkKafka:
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		return kafka.NewAccountSink(publisher, runID), publisher.Close, nil

	default:
		return sink.NewCSVWriter(stdout), noop, nil
	}
}

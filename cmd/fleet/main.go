// Package main provides the wallet fleet CLI.
// Modes: init (create main wallet), distribute, collect, status, log, report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"solana-wallet-fleet/internal/config"
	"solana-wallet-fleet/internal/domain"
	"solana-wallet-fleet/internal/fleet"
	"solana-wallet-fleet/internal/lamports"
	"solana-wallet-fleet/internal/observability"
	"solana-wallet-fleet/internal/reporting"
	"solana-wallet-fleet/internal/solana"
	"solana-wallet-fleet/internal/storage"
	chstore "solana-wallet-fleet/internal/storage/clickhouse"
	"solana-wallet-fleet/internal/storage/memory"
	"solana-wallet-fleet/internal/storage/migrations"
	pgstore "solana-wallet-fleet/internal/storage/postgres"
)

func main() {
	// Parse flags
	mode := flag.String("mode", "status", "Operation: init, distribute, collect, status, log, or report")
	rpcEndpoint := flag.String("rpc-endpoint", "", "Solana RPC HTTP endpoint (overrides SOLANA_RPC_URL)")
	wsEndpoint := flag.String("ws-endpoint", "", "Solana WebSocket endpoint for confirmations (overrides SOLANA_WS_URL)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (overrides POSTGRES_DSN)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse DSN for the transfer archive (overrides CLICKHOUSE_DSN)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL (dry runs only)")
	wallets := flag.Int("wallets", 0, "Number of wallets to distribute to")
	amount := flag.String("amount", "", "SOL amount per wallet for distribute (e.g. 0.1)")
	keep := flag.String("keep", "0", "SOL amount to leave in each wallet on collect")
	memo := flag.String("memo", "", "Memo attached to each transfer")
	batchID := flag.String("batch-id", "", "Batch ID for log and report modes")
	outputDir := flag.String("output-dir", "reports", "Output directory for report mode")
	pacing := flag.Duration("pacing", 0, "Inter-transfer delay (overrides PACING_DELAY_MS)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (overrides METRICS_ADDR, empty to disable)")
	verbose := flag.Bool("verbose", false, "Verbose output")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[fleet] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}
	if *rpcEndpoint != "" {
		cfg.SolanaRPCURL = *rpcEndpoint
	}
	if *wsEndpoint != "" {
		cfg.SolanaWSURL = *wsEndpoint
	}
	if *postgresDSN != "" {
		cfg.PostgresDSN = *postgresDSN
	}
	if *clickhouseDSN != "" {
		cfg.ClickhouseDSN = *clickhouseDSN
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	pacingDelay := cfg.PacingDelay()
	if *pacing > 0 {
		pacingDelay = *pacing
	}

	// Start metrics server if enabled
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Handle shutdown signals: first signal cancels between transfers,
	// second forces exit
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Printf("Received signal %v, finishing current transfer...", sig)
			cancel()
		case <-done:
			return
		}
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(2 * time.Minute):
			logger.Println("Graceful shutdown timed out, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	err = run(ctx, logger, cfg, runOptions{
		mode:        *mode,
		useMemory:   *useMemory,
		wallets:     *wallets,
		amount:      *amount,
		keep:        *keep,
		memo:        *memo,
		batchID:     *batchID,
		outputDir:   *outputDir,
		pacingDelay: pacingDelay,
		verbose:     *verbose,
	})

	close(done)
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Error: %v", err)
	}
}

type runOptions struct {
	mode        string
	useMemory   bool
	wallets     int
	amount      string
	keep        string
	memo        string
	batchID     string
	outputDir   string
	pacingDelay time.Duration
	verbose     bool
}

func run(ctx context.Context, logger *log.Logger, cfg *config.Config, opts runOptions) error {
	walletStore, transferLog, cleanup, err := setupStorage(ctx, logger, cfg, opts.useMemory)
	if err != nil {
		return err
	}
	defer cleanup()

	clientOpts := []solana.ClientOption{}
	if cfg.SolanaWSURL != "" {
		watcher, err := solana.NewWSWatcher(ctx, cfg.SolanaWSURL, nil)
		if err != nil {
			return fmt.Errorf("connect confirmation watcher: %w", err)
		}
		defer watcher.Close()
		clientOpts = append(clientOpts, solana.WithConfirmationWatcher(watcher))
	}
	client := solana.NewClient(cfg.SolanaRPCURL, clientOpts...)

	orch := fleet.New(fleet.Options{
		WalletStore: walletStore,
		Oracle:      client,
		Executor:    client,
		TransferLog: transferLog,
		FeeEstimate: cfg.FeeEstimateLamports,
		PacingDelay: opts.pacingDelay,
		Logger:      logger,
		Verbose:     opts.verbose,
	})

	switch opts.mode {
	case "init":
		return runInit(ctx, walletStore)
	case "distribute":
		return runDistribute(ctx, orch, opts)
	case "collect":
		return runCollect(ctx, orch, opts)
	case "status":
		return runStatus(ctx, orch)
	case "log":
		return runLog(ctx, transferLog, opts.batchID)
	case "report":
		return runReport(ctx, transferLog, opts.batchID, opts.outputDir)
	default:
		return fmt.Errorf("unknown mode: %s", opts.mode)
	}
}

// setupStorage selects the wallet store and transfer archive backends.
// Postgres holds the wallet hierarchy; the transfer archive goes to
// ClickHouse when configured, otherwise to the same Postgres database.
func setupStorage(ctx context.Context, logger *log.Logger, cfg *config.Config, useMemory bool) (storage.WalletStore, storage.TransferLogStore, func(), error) {
	if useMemory || cfg.PostgresDSN == "" {
		logger.Println("Using in-memory storage (wallets will not survive this process)")
		return memory.NewWalletStore(), memory.NewTransferLogStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	walletStore := pgstore.NewWalletStore(pool)

	if cfg.ClickhouseDSN == "" {
		return walletStore, pgstore.NewTransferLogStore(pool), pool.Close, nil
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
	}

	cleanup := func() {
		conn.Close()
		pool.Close()
	}
	return walletStore, chstore.NewTransferLogStore(conn), cleanup, nil
}

// runInit creates the main wallet. Idempotent: an existing main wallet is
// reported, not overwritten.
func runInit(ctx context.Context, wallets storage.WalletStore) error {
	existing, err := wallets.LoadMain(ctx)
	if err == nil {
		fmt.Printf("Main wallet already exists: %s\n", existing.Keypair.Address)
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("load main wallet: %w", err)
	}

	kp := solana.GenerateKeypair()
	if err := wallets.CreateMain(ctx, kp); err != nil {
		return fmt.Errorf("create main wallet: %w", err)
	}

	fmt.Printf("Created main wallet: %s\n", kp.Address)
	fmt.Println("Fund this address before running distribute.")
	return nil
}

func runDistribute(ctx context.Context, orch *fleet.Orchestrator, opts runOptions) error {
	if opts.wallets <= 0 {
		return fmt.Errorf("distribute requires --wallets > 0")
	}
	if opts.amount == "" {
		return fmt.Errorf("distribute requires --amount")
	}
	perWallet, err := lamports.FromSOL(opts.amount)
	if err != nil {
		return fmt.Errorf("parse --amount: %w", err)
	}

	result, err := orch.Distribute(ctx, domain.DistributionRequest{
		WalletCount:    opts.wallets,
		AmountLamports: perWallet,
		Memo:           opts.memo,
	})
	if result != nil {
		printResult(result)
	}
	return err
}

func runCollect(ctx context.Context, orch *fleet.Orchestrator, opts runOptions) error {
	keepLamports, err := lamports.FromSOL(opts.keep)
	if err != nil {
		return fmt.Errorf("parse --keep: %w", err)
	}

	result, err := orch.Collect(ctx, domain.CollectionRequest{
		KeepLamports: keepLamports,
		Memo:         opts.memo,
	})
	if result != nil {
		printResult(result)
	}
	return err
}

func runStatus(ctx context.Context, orch *fleet.Orchestrator) error {
	status, err := orch.Status(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if status.Main != nil {
		fmt.Fprintf(w, "main\t%s\t%s SOL\n", status.Main.Address, lamports.ToSOL(status.Main.Lamports))
	} else {
		fmt.Fprintln(w, "main\t(not created)\t-")
	}
	for _, wb := range status.Distributed {
		fmt.Fprintf(w, "%d\t%s\t%s SOL\n", wb.SlotIndex, wb.Address, lamports.ToSOL(wb.Lamports))
	}
	w.Flush()

	fmt.Printf("\n%d distributed wallets, %s SOL distributed total\n",
		len(status.Distributed), lamports.ToSOL(status.TotalDistributed))
	return nil
}

func runLog(ctx context.Context, transferLog storage.TransferLogStore, batchID string) error {
	if batchID == "" {
		return fmt.Errorf("log mode requires --batch-id")
	}

	records, err := transferLog.GetByBatchID(ctx, batchID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No records for batch", batchID)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, rec := range records {
		outcome := rec.Signature
		if rec.Err != "" {
			outcome = "FAILED: " + rec.Err
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s SOL\t%s\n",
			rec.Operation, rec.SlotIndex, rec.Address, lamports.ToSOL(rec.Lamports), outcome)
	}
	return w.Flush()
}

// runReport writes Markdown and CSV reports for one archived batch.
func runReport(ctx context.Context, transferLog storage.TransferLogStore, batchID, outputDir string) error {
	if batchID == "" {
		return fmt.Errorf("report mode requires --batch-id")
	}

	report, err := reporting.NewGenerator(transferLog).Generate(ctx, batchID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	short := batchID
	if len(short) > 8 {
		short = short[:8]
	}
	mdPath := filepath.Join(outputDir, fmt.Sprintf("batch_%s.md", short))
	csvPath := filepath.Join(outputDir, fmt.Sprintf("batch_%s.csv", short))

	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Rows)), 0o644); err != nil {
		return fmt.Errorf("write csv report: %w", err)
	}

	fmt.Printf("Wrote %s and %s\n", mdPath, csvPath)
	return nil
}

func printResult(result *domain.BatchResult) {
	fmt.Printf("Batch %s (%s)\n", result.BatchID, result.Operation)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, o := range result.Outcomes {
		if o.Succeeded() {
			fmt.Fprintf(w, "  %d\t%s\t%s SOL\t%s\n", o.SlotIndex, o.Address, lamports.ToSOL(o.Lamports), o.Signature)
		} else {
			fmt.Fprintf(w, "  %d\t%s\t%s SOL\tFAILED: %s\n", o.SlotIndex, o.Address, lamports.ToSOL(o.Lamports), o.Err)
		}
	}
	w.Flush()

	succeeded := len(result.Outcomes) - len(result.Failures)
	fmt.Printf("%d/%d transfers confirmed, %s SOL moved\n",
		succeeded, len(result.Outcomes), lamports.ToSOL(result.TotalMoved))
	if !result.Success {
		fmt.Printf("%d transfers failed:\n", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Printf("  - %s\n", f)
		}
	}
}

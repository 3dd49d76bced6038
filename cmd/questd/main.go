package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"questd/internal/chat"
	"questd/internal/common/fsutil"
	"questd/internal/config"
	"questd/internal/engine"
	"questd/internal/httpapi"
	"questd/internal/nlu"
	"questd/internal/session"
	"questd/internal/store"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildRootCmd constructs the Cobra command for the daemon.
func buildRootCmd() *cobra.Command {
	var (
		cfgPath  string
		addr     string
		model    string
		dataDir  string
		logLevel string
		logJSON  bool
	)

	defaultAddr := config.DefaultAddr
	if v := os.Getenv("QUESTD_ADDR"); v != "" {
		defaultAddr = v
	}
	defaultModel := os.Getenv("QUESTD_MODEL")

	root := &cobra.Command{
		Use:           "questd",
		Short:         "Local task chat daemon over an on-device language model",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fl := cliFlags{
				addr:       addr,
				model:      model,
				dataDir:    dataDir,
				addrSet:    cmd.Flags().Changed("addr"),
				modelSet:   cmd.Flags().Changed("model"),
				dataDirSet: cmd.Flags().Changed("data-dir"),
			}
			return run(cfgPath, fl, logLevel, logJSON)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "Path to config file (.yaml/.json/.toml)")
	root.Flags().StringVar(&addr, "addr", defaultAddr, "HTTP listen address, e.g. :8090 (defaults QUESTD_ADDR)")
	root.Flags().StringVar(&model, "model", defaultModel, "Path to the GGUF model file (defaults QUESTD_MODEL)")
	root.Flags().StringVar(&dataDir, "data-dir", "", "Directory for the task database (default ~/.questd)")
	root.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	root.Flags().BoolVar(&logJSON, "log-json", false, "Emit JSON logs instead of console output")

	return root
}

// cliFlags carries flag values plus whether each was explicitly set, so a
// flag left at its default never clobbers a config-file value.
type cliFlags struct {
	addr       string
	model      string
	dataDir    string
	addrSet    bool
	modelSet   bool
	dataDirSet bool
}

// mergeFlags resolves precedence: explicit flag > config file > env/default.
func mergeFlags(cfg config.Config, fl cliFlags) config.Config {
	if fl.addrSet || cfg.Addr == "" {
		cfg.Addr = fl.addr
	}
	if fl.modelSet || cfg.ModelPath == "" {
		cfg.ModelPath = fl.model
	}
	if fl.dataDirSet || cfg.DataDir == "" {
		cfg.DataDir = fl.dataDir
	}
	return cfg
}

func run(cfgPath string, fl cliFlags, logLevel string, logJSON bool) error {
	cfg := config.Config{}
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	cfg = mergeFlags(cfg, fl).WithDefaults()

	logger := newLogger(logLevel, logJSON)

	modelPath, err := fsutil.ExpandHome(cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("resolve model path: %w", err)
	}
	dbDir, err := fsutil.ExpandHome(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	st, err := store.Open(dbDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	binding := engine.New(engine.NewRuntime(), engine.Params{
		CtxWindow:   cfg.CtxWindow,
		BatchSize:   cfg.BatchSize,
		Threads:     cfg.Threads,
		Temperature: float32(cfg.Temperature),
		TopK:        cfg.TopK,
		TopP:        float32(cfg.TopP),
		Seed:        cfg.Seed,
		TokenMargin: cfg.TokenMargin,
	})

	sess := session.New(binding, session.Config{
		ModelPath:      modelPath,
		MaxTokens:      cfg.MaxTokens,
		DefaultTimeout: time.Duration(cfg.AnswerTimeoutMS) * time.Millisecond,
		Logger:         logger,
		Publisher:      httpapi.MetricsPublisher{},
	})
	defer sess.Release()

	pipeline := nlu.New(sess, nlu.Config{
		IntentTimeout: time.Duration(cfg.IntentTimeoutMS) * time.Millisecond,
		TitleTimeout:  time.Duration(cfg.TitleTimeoutMS) * time.Millisecond,
		Logger:        logger,
	})

	orch := chat.New(pipeline, sess, st, chat.Config{
		ConfirmTimeout: time.Duration(cfg.TitleTimeoutMS) * time.Millisecond,
		AnswerTimeout:  time.Duration(cfg.AnswerTimeoutMS) * time.Millisecond,
		Logger:         logger,
	})

	// Model load happens off the serving path; /readyz flips once ready.
	go func() {
		if err := sess.Initialize(context.Background()); err != nil {
			logger.Warn().Err(err).Str("model", modelPath).Msg("session initialize failed")
		}
	}()

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	httpapi.SetLogger(logger)
	httpapi.SetBaseContext(baseCtx)
	mux := httpapi.NewMux(orch, sess, st)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("model", modelPath).Msg("questd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

func newLogger(level string, jsonOut bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if jsonOut {
		return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

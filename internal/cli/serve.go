package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/HartBrook/promptcraft/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

type serveOptions struct {
	addr    string
	verbose bool
}

// NewServeCmd creates the serve command.
func NewServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface",
		Long: `Serves the PromptCraft web page.

Each browser gets its own session with its own prompts and selection.
The server stops gracefully on Ctrl-C.`,
		Example: `  promptcraft serve
  promptcraft serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (default from config, :8501)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output")

	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	optimizer, err := root.newOptimizer(cfg)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	// Match GOMAXPROCS to the container CPU quota
	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))
	if err != nil {
		logger.Warn("failed to set GOMAXPROCS", "error", err)
	}
	defer undo()

	serverOpts := []web.Option{web.WithLogger(logger)}
	if opts.addr != "" {
		serverOpts = append(serverOpts, web.WithAddr(opts.addr))
	}
	srv := web.NewServer(cfg, optimizer, serverOpts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printSuccess(cmd.OutOrStdout(), "PromptCraft running at %s", info("http://"+displayAddr(srv.Addr())))
	return srv.ListenAndServe(ctx)
}

// displayAddr turns a bare ":port" listen address into a browsable host.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

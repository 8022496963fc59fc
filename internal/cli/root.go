// Package cli defines the docqa command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"docqa/internal/app"
	"docqa/internal/config"
	"docqa/internal/console"
	"docqa/internal/logger"
	"docqa/internal/render"
	"docqa/internal/tui"
)

const tuiLogFile = "docqa-debug.log"

type rootOptions struct {
	configPath string
	verbose    bool
	plain      bool
}

// NewRootCmd builds the root command. Running it with no arguments starts
// the interactive session.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "docqa",
		Short: "Ask questions about your indexed documentation",
		Long: `docqa embeds each question, retrieves the closest chunks from a vector
index, and asks a language model to answer from that context only.

Credentials are read from OPENAI_API_KEY, PINECONE_KEY, PINECONE_ENVIRONMENT
and PINECONE_INDEX (a .env file in the working directory is loaded first).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to YAML config file (default ./docqa.yaml, then ~/.config/docqa/config.yaml)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline steps")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "use the line-oriented console instead of the full-screen UI")
	cmd.AddCommand(newConfigCmd())
	return cmd
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, args []string, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

func runSession(cmd *cobra.Command, opts *rootOptions) error {
	config.LoadDotEnv()
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	config.Apply(cfg, config.LoadEnv())
	if opts.verbose {
		cfg.Log.Verbose = true
	}

	useTUI := chooseTUI(cfg.UI.Mode, opts.plain, cmd.InOrStdin(), cmd.OutOrStdout())
	closer, err := logger.Setup(logPath(cfg.Log.File, useTUI), cfg.Log.Verbose)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	style := "notty"
	if useTUI || isTerminal(cmd.OutOrStdout()) {
		style = "auto"
	}
	md, err := render.New(style, cfg.UI.WordWrap)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}

	if useTUI {
		return runTUI(ctx, cmd, a, md)
	}
	return console.New(a.Pipeline, md, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
}

func runTUI(ctx context.Context, cmd *cobra.Command, a *app.App, md *render.Renderer) error {
	m := tui.New(ctx, a.Pipeline, md)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil && !m.Pending() {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), md.Markdown(render.Farewell))
			return nil
		}
		return err
	}
	return m.Err()
}

// logPath keeps records off the terminal while the full-screen UI owns it.
func logPath(file string, useTUI bool) string {
	if file == "" && useTUI {
		return tuiLogFile
	}
	return file
}

// chooseTUI resolves the UI mode. "auto" picks the full-screen UI only when
// both streams are terminals.
func chooseTUI(mode string, plain bool, in io.Reader, out io.Writer) bool {
	if plain {
		return false
	}
	switch mode {
	case "tui":
		return true
	case "plain":
		return false
	}
	return isTerminal(in) && isTerminal(out)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/dtannen/scrivo/internal/app"
	"github.com/dtannen/scrivo/internal/config"
	"github.com/dtannen/scrivo/internal/infrastructure/sqlite"
	"github.com/dtannen/scrivo/internal/log"
	"github.com/dtannen/scrivo/internal/sessions"
	"github.com/dtannen/scrivo/internal/tracing"
	"github.com/dtannen/scrivo/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in the buffer.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// defaultDocument is opened when no file argument is given.
const defaultDocument = "untitled.md"

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "scrivo [file]",
	Short:   "A distraction-free writing environment for the terminal",
	Long: `Scrivo is a terminal editor for prose. It detects sentence boundaries
as you type and, in focus mode, dims everything except the sentence
under the caret.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/scrivo/config.yaml)")
	rootCmd.Flags().Bool("no-focus", false,
		"start with focus mode disabled")
	rootCmd.Flags().Bool("no-sessions", false,
		"disable writing session tracking")
	rootCmd.Flags().Bool("debug", false,
		"write a debug log next to the config file")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".scrivo"
	}
	return filepath.Join(home, ".config", "scrivo")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("engine.sentence_endings", defaults.Engine.SentenceEndings)
	viper.SetDefault("engine.focus_mode", defaults.Engine.FocusMode)
	viper.SetDefault("engine.focus_dim_opacity", defaults.Engine.FocusDimOpacity)
	viper.SetDefault("engine.auto_scroll", defaults.Engine.AutoScroll)
	viper.SetDefault("engine.smooth_scroll", defaults.Engine.SmoothScroll)
	viper.SetDefault("engine.heading_tags", defaults.Engine.HeadingTags)
	viper.SetDefault("engine.update_debounce_ms", defaults.Engine.UpdateDebounceMS)
	viper.SetDefault("engine.update_throttle_ms", defaults.Engine.UpdateThrottleMS)
	viper.SetDefault("engine.fast_path_delay_ms", defaults.Engine.FastPathDelayMS)
	viper.SetDefault("engine.scan_cache", defaults.Engine.ScanCache)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("sessions.enabled", defaults.Sessions.Enabled)
	viper.SetDefault("sessions.db_path", defaults.Sessions.DBPath)
	viper.SetDefault("sessions.idle_timeout_ms", defaults.Sessions.IdleTimeoutMS)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config anywhere yet: create one so runtime toggles (focus
		// mode, endings) have somewhere to persist.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := filepath.Join(configDir(), "config.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	docPath := defaultDocument
	if len(args) > 0 {
		docPath = args[0]
	}
	docPath, err := filepath.Abs(docPath)
	if err != nil {
		return fmt.Errorf("resolving document path: %w", err)
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cleanup, logErr := log.Init(filepath.Join(configDir(), "scrivo.log"))
		if logErr != nil {
			return fmt.Errorf("opening debug log: %w", logErr)
		}
		defer cleanup()
	}

	if noFocus, _ := cmd.Flags().GetBool("no-focus"); noFocus {
		cfg.Engine.FocusMode = false
	}

	if err := styles.ApplyTheme(styles.ThemeConfig{
		Mode:   cfg.Theme.Mode,
		Colors: cfg.Theme.FlattenedColors(),
	}); err != nil {
		return fmt.Errorf("applying theme: %w", err)
	}

	tracer, shutdownTracing, err := initTracing()
	if err != nil {
		return err
	}
	defer shutdownTracing()

	recorder, closeSessions, err := initSessions(cmd, docPath)
	if err != nil {
		return err
	}
	defer closeSessions()

	configFilePath := viper.ConfigFileUsed()
	if configFilePath == "" {
		configFilePath = filepath.Join(configDir(), "config.yaml")
	}

	zone.NewGlobal()

	model, err := app.New(cfg, docPath, configFilePath, app.Services{
		Recorder: recorder,
		Tracer:   tracer,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, runErr := p.Run()

	if closeErr := model.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	if runErr != nil {
		return fmt.Errorf("running program: %w", runErr)
	}
	return nil
}

func initTracing() (trace.Tracer, func(), error) {
	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing tracing: %w", err)
	}
	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "shutting down tracing", err)
		}
	}
	return provider.Tracer(), shutdown, nil
}

func initSessions(cmd *cobra.Command, docPath string) (*sessions.Recorder, func(), error) {
	noop := func() {}

	if noSessions, _ := cmd.Flags().GetBool("no-sessions"); noSessions || !cfg.Sessions.Enabled {
		return nil, noop, nil
	}

	dbPath := cfg.Sessions.DBPath
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	db, err := sqlite.NewDB(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening sessions database: %w", err)
	}

	// The recorder diffs against the text on disk so loading a document
	// never counts as writing.
	initial := ""
	if data, readErr := os.ReadFile(docPath); readErr == nil { //nolint:gosec // G304: user-supplied document path
		initial = string(data)
	}

	idleTimeout := time.Duration(cfg.Sessions.IdleTimeoutMS) * time.Millisecond
	recorder := sessions.NewRecorder(db.SessionRepository(), docPath, initial, idleTimeout)

	return recorder, func() { _ = db.Close() }, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

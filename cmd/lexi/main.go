// lexi is a terminal vocabulary trainer. Five new words a day, a streak to
// keep, and a short first-run wizard that tailors the deck.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"lexi/cmd/lexi/ui"
	"lexi/internal/analytics"
	"lexi/internal/config"
	"lexi/internal/deck"
	"lexi/internal/feedback"
	"lexi/internal/logging"
	"lexi/internal/onboarding"
	"lexi/internal/profile"
	"lexi/internal/progress"
	"lexi/internal/speech"
	"lexi/internal/store"
)

// Version is stamped by the release build.
var Version = "0.3.0"

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger for non-interactive subcommands
	logger *zap.Logger
)

// rootCmd launches the interactive app.
var rootCmd = &cobra.Command{
	Use:   "lexi",
	Short: "lexi - learn five new words a day",
	Long: `lexi is a terminal vocabulary trainer.

Every day it deals five words from your packs. Flip each card to see the
definition, mark the ones you now own, and keep your streak alive. The first
run asks a few questions so the words fit you.

Run without arguments to start the interactive interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Use == "lexi" && cmd.CalledAs() == "lexi" {
			return nil
		}

		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp()
	},
}

// statsCmd prints streak and learning totals without entering the UI.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show streak, learned words, and onboarding status",
	RunE:  runStats,
}

var resetYes bool

// resetCmd wipes the saved profile so the wizard runs again.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the saved profile and restart onboarding",
	Long: `Removes the stored onboarding answers. Learned words and the streak
are kept. The wizard runs again on the next launch.`,
	RunE: runReset,
}

// deckCmd lists today's words and the loaded packs.
var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "List today's five words and the loaded packs",
	RunE:  runDeck,
}

// versionCmd prints the version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lexi version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lexi %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.lexi/config.yaml)")
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(statsCmd, resetCmd, deckCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// =============================================================================
// BOOTSTRAP
// =============================================================================

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*store.Store, error) {
	dbPath := cfg.DatabasePath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return store.Open(dbPath, store.Options{
		ValidateOnSave: cfg.Storage.ValidateOnSave,
		Limits: profile.Limits{
			MaxNameLength: cfg.Onboarding.MaxNameLength,
			MaxGoals:      cfg.Onboarding.MaxGoals,
			MaxTopics:     cfg.Onboarding.MaxTopics,
		},
	})
}

// dayIndex is the number of whole days since the Unix epoch for the local
// calendar date. It drives the deterministic daily selection.
func dayIndex(now time.Time) int {
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return int(midnight.Unix() / 86400)
}

// buildSession deals today's five words over the current store state.
func buildSession(st *store.Store, decksDir string) (*progress.Session, error) {
	pack, err := deck.LoadDir(decksDir)
	if err != nil {
		return nil, err
	}
	words := deck.DailyFive(dayIndex(time.Now()), pack.Words)

	learned, err := st.LearnedWords()
	if err != nil {
		return nil, err
	}
	streak, err := st.Streak()
	if err != nil {
		return nil, err
	}
	return progress.NewSession(words, learned, streak, st), nil
}

func runApp() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dataDir := filepath.Dir(cfg.DatabasePath())
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := logging.Initialize(dataDir, cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.CloseAll()

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	var tracker analytics.Tracker = analytics.Noop{}
	var trackerClose func()
	if cfg.Analytics.Enabled {
		t := analytics.NewStoreTracker(st)
		tracker = t
		trackerClose = t.Close
	}

	var fb feedback.Provider = feedback.Noop{}
	if cfg.Feedback.Bell {
		fb = feedback.NewTerminal(os.Stderr)
	}

	var speaker speech.Speaker = speech.Noop{}
	if cfg.Feedback.Speech {
		speaker = speech.NewCommand()
	}

	flow := onboarding.NewFlow(onboarding.Config{
		Gateway:   st,
		Feedback:  fb,
		Analytics: tracker,
		AllowBack: cfg.Onboarding.AllowBack,
	})

	session, err := buildSession(st, cfg.DecksDir())
	if err != nil {
		return fmt.Errorf("failed to load word packs: %w", err)
	}

	app := ui.NewApp(flow, session, speaker, ui.DefaultStyles())
	p := tea.NewProgram(app, tea.WithAltScreen())

	// Snapshots from the flow's save goroutines reach the UI as messages.
	flow.Subscribe(func(snap onboarding.Snapshot) {
		p.Send(ui.FlowMsg{Snap: snap})
	})

	var watcher *deck.Watcher
	if cfg.Learning.WatchDecks {
		watcher, err = deck.WatchDir(cfg.DecksDir())
		if err != nil {
			logging.DeckWarn("Deck watching disabled: %v", err)
		} else {
			go func() {
				for range watcher.Reload() {
					fresh, err := buildSession(st, cfg.DecksDir())
					if err != nil {
						logging.DeckWarn("Pack reload failed: %v", err)
						continue
					}
					p.Send(ui.DeckReloadedMsg{Session: fresh})
				}
			}()
		}
	}

	_, err = p.Run()

	if watcher != nil {
		_ = watcher.Close()
	}
	flow.Wait()
	if trackerClose != nil {
		trackerClose()
	}
	return err
}

// =============================================================================
// SUBCOMMANDS
// =============================================================================

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	streak, err := st.Streak()
	if err != nil {
		return err
	}
	learned, err := st.LearnedCount()
	if err != nil {
		return err
	}

	label := lipgloss.NewStyle().Bold(true).Width(15)
	fmt.Printf("%s %d day(s)\n", label.Render("Streak:"), streak.Count)
	if !streak.LastActivity.IsZero() {
		fmt.Printf("%s %s\n", label.Render("Last activity:"), streak.LastActivity.Format("2006-01-02"))
	}
	fmt.Printf("%s %d\n", label.Render("Words learned:"), learned)

	rec, err := st.FetchProfile()
	switch {
	case err == nil:
		if rec.Profile.CompletedAt != nil {
			fmt.Printf("%s completed %s\n", label.Render("Onboarding:"), rec.Profile.CompletedAt.Format("2006-01-02"))
		} else {
			fmt.Printf("%s in progress (%.0f%%)\n", label.Render("Onboarding:"), rec.Completion*100)
		}
	case errors.Is(err, store.ErrNotFound):
		fmt.Printf("%s not started\n", label.Render("Onboarding:"))
	default:
		logger.Warn("Failed to read profile", zap.Error(err))
	}
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetYes {
		fmt.Print("This clears your onboarding answers. Continue? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.ClearProfile(); err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}
	logger.Info("Profile cleared")
	fmt.Println("Profile cleared. The wizard runs on the next launch.")
	return nil
}

func runDeck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pack, err := deck.LoadDir(cfg.DecksDir())
	if err != nil {
		return err
	}
	words := deck.DailyFive(dayIndex(time.Now()), pack.Words)

	fmt.Printf("Pack: %d words (%s)\n\n", len(pack.Words), cfg.DecksDir())
	fmt.Println("Today's five:")
	for i, w := range words {
		fmt.Printf("  %d. %-16s %s\n", i+1, w.Term, w.Definition)
	}
	return nil
}

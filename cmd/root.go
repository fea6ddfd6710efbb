package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"cinema-scheduler-cli/config"
	"cinema-scheduler-cli/service"
	"cinema-scheduler-cli/store"
	"cinema-scheduler-cli/tui"
)

var (
	// set via -ldflags at release time
	Version = "dev"
	Commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:   "cinema-scheduler",
	Short: "Schedule cinema showtimes from the terminal",
	Long:  `A login-gated dashboard for scheduling cinema showtimes: enter shows in a validated form, browse the list with sort and pagination, export it as CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := setup()
		if err != nil {
			return err
		}
		if err := redirectLog(cfg, st); err != nil {
			return err
		}
		_, err = tea.NewProgram(tui.New(cfg, st), tea.WithAltScreen()).Run()
		return err
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored shows to " + service.ExportFileName,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := setup()
		if err != nil {
			return err
		}
		dir, err := cmd.Flags().GetString("out")
		if err != nil {
			return err
		}
		path, err := service.ExportCSV(dir, st.LoadShows())
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every stored show",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := setup()
		if err != nil {
			return err
		}
		return st.ClearShows()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cinema-scheduler %s", Version)
		if Commit != "none" && Commit != "" {
			fmt.Printf(" (%s)", Commit)
		}
		fmt.Println()
	},
}

func setup() (*config.Config, *store.Store, error) {
	cfg := config.Load()
	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}

// redirectLog points diagnostics at a file; the TUI owns the terminal.
func redirectLog(cfg *config.Config, st *store.Store) error {
	path := cfg.LogFile
	if path == "" {
		path = filepath.Join(st.Dir(), "cinema-scheduler.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	log.SetOutput(f)
	return nil
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "directory to write the CSV into (default: working directory)")
	rootCmd.AddCommand(exportCmd, clearCmd, versionCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

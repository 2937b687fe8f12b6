package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ensigniasec/flightleg/internal/config"
	"github.com/ensigniasec/flightleg/internal/driver"
	"github.com/ensigniasec/flightleg/internal/flight"
	"github.com/ensigniasec/flightleg/internal/report"
	"github.com/ensigniasec/flightleg/internal/storage"
	"github.com/ensigniasec/flightleg/internal/tui"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	configFile      string
	preferencesFile = storage.DefaultPath
	logFile         string
	verbose         bool
	jsonOutput      bool
	plainMode       bool
	untilArrival    bool
	overrides       config.Overrides

	rootCmd = &cobra.Command{
		Use:   "flightleg",
		Short: "Countdown and progress display for the connecting leg of a two-segment flight.",
		Long: `flightleg tracks a journey with a stopover: it counts down to each departure and the final arrival, ` +
			`shows whether the connecting flight is upcoming, in flight, or arrived, and draws its progress along the route. ` +
			`Instants must be RFC3339 timestamps with an explicit UTC offset.`,
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for --json output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().
		StringVarP(&configFile, "config", "c", "", "Path to the flight YAML file [Defaults to ./flightleg.yaml, then ~/.config/flightleg/flight.yaml]")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().
		StringVar(&logFile, "log-file", "", "Optional: write logs to this rotating file while the interactive view is open")
	rootCmd.PersistentFlags().
		StringVar(&preferencesFile, "preferences", preferencesFile, "Where the theme preference is stored")
	rootCmd.PersistentFlags().
		StringVar(&overrides.DepartureOrigin, "departure-origin", "", "Override: departure from the origin (RFC3339)")
	rootCmd.PersistentFlags().
		StringVar(&overrides.DepartureWaypoint, "departure-waypoint", "", "Override: departure from the stopover (RFC3339)")
	rootCmd.PersistentFlags().
		StringVar(&overrides.ArrivalDestination, "arrival-destination", "", "Override: arrival at the destination (RFC3339)")

	statusCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the snapshot in JSON format instead of rich text")
	watchCmd.Flags().BoolVar(&plainMode, "plain", false, "Print one line per tick instead of the interactive view")
	watchCmd.Flags().BoolVar(&untilArrival, "until-arrival", false, "With --plain: exit once the flight has arrived")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(listCmd)

	themeCmd.AddCommand(themeShowCmd)
	themeCmd.AddCommand(themeToggleCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func main() {
	Execute()
}

func setLogLevel(quiet bool) {
	switch {
	case verbose:
		logrus.SetLevel(logrus.DebugLevel)
	case quiet:
		logrus.SetLevel(logrus.WarnLevel)
	}
}

// loadConfig reads --config, falling back to the first well-known file.
func loadConfig() (*config.Config, error) {
	path := configFile
	if path == "" {
		path = config.FindDefault()
	}
	return config.Load(path, overrides)
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the live countdown (interactive unless --plain)",
	Long:  "Open the interactive display and refresh it every second. With --plain, stream one line per second to stdout instead.",
	Run: func(cmd *cobra.Command, args []string) {
		if untilArrival && !plainMode {
			logrus.Fatal("--until-arrival requires --plain")
		}
		setLogLevel(!plainMode)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if plainMode {
			if err := watchPlain(ctx, cmd.OutOrStdout()); err != nil {
				logrus.Fatal(err)
			}
			return
		}

		var logOut io.Writer
		if logFile != "" {
			w := &lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    8, // MB
				MaxBackups: 2,
				MaxAge:     14,
			}
			defer w.Close()
			logOut = w
		}

		cfg, cfgErr := loadConfig()
		opts := tui.Options{Cfg: cfg, CfgErr: cfgErr, Prefs: storage.OpenPreferences(preferencesFile)}
		if err := tui.Run(ctx, opts, logOut); err != nil && !errors.Is(err, context.Canceled) {
			logrus.Fatalf("interactive view failed: %v", err)
		}
	},
}

// watchPlain runs the driver with no display surfaces and prints every frame.
func watchPlain(ctx context.Context, out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var d *driver.Driver
	opts := cfg.DriverOptions(driver.Surfaces{})
	opts.Observer = func(f driver.Frame) {
		fmt.Fprintln(out, report.Line(f))
		if untilArrival && f.Status == flight.Arrived {
			d.Stop()
		}
	}
	d, err = driver.New(opts)
	if err != nil {
		return err
	}
	logrus.WithField("driver", d.ID().String()).Debug("streaming frames")

	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current flight state once and exit",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(jsonOutput)

		cfg, err := loadConfig()
		if err != nil {
			logrus.Fatal(err)
		}
		snap, err := report.Take(cfg.DriverOptions(driver.Surfaces{}))
		if err != nil {
			logrus.Fatal(err)
		}
		if err := report.Print(cmd.OutOrStdout(), snap, jsonOutput); err != nil {
			logrus.Fatal(err)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or toggle the persisted light/dark theme",
	Run: func(cmd *cobra.Command, args []string) {
		themeShowCmd.Run(cmd, args)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var themeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current theme",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(false)
		prefs := storage.OpenPreferences(preferencesFile)
		fmt.Fprintln(cmd.OutOrStdout(), themeName(prefs.Dark()))
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between the light and dark theme",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(false)
		prefs := storage.OpenPreferences(preferencesFile)
		fmt.Fprintln(cmd.OutOrStdout(), themeName(prefs.Toggle()))
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var listCmd = &cobra.Command{
	Use:   "list [DIR]",
	Short: "Find flight files below a directory and show the status of each",
	Long:  "Walk DIR (default: the current directory) for YAML flight files and print one status line per file. Files that are not flight documents are skipped.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(false)
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		entries := config.Scan(cmd.Context(), root)
		sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No flight files found.")
			return
		}
		for _, e := range entries {
			if e.Err != nil {
				fmt.Fprintf(out, "%s\n    ✗ %v\n", e.Path, e.Err)
				continue
			}
			d, err := driver.New(e.Config.DriverOptions(driver.Surfaces{}))
			if err != nil {
				fmt.Fprintf(out, "%s\n    ✗ %v\n", e.Path, err)
				continue
			}
			fmt.Fprintf(out, "%s\n    %s\n", e.Path, report.Line(d.Refresh()))
		}
	},
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

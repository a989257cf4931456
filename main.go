package main

import (
	"fmt"
	"os"

	"beacon-watch.klederson.com/internal/app"
	"beacon-watch.klederson.com/internal/beacon"
	"beacon-watch.klederson.com/internal/config"
	"beacon-watch.klederson.com/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	flagDemo        bool
	flagAdapter     string
	flagUUID        string
	flagRegion      string
	flagMajor       int
	flagMinor       int
	flagMonitor     bool
	flagRange       float64
	flagLogFile     string
	flagLogLevel    string
	flagDemoAuth    string
	flagDemoVersion string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "beacon-watch",
		Short: "Beacon Watch - Terminal iBeacon proximity monitor",
		Long: `Beacon Watch ranges the iBeacons of one region and shows the first one
it hears: UUID, major, minor, proximity, accuracy and signal strength.

Requires sudo or CAP_NET_ADMIN capability for real Bluetooth scanning.
Use --demo flag for demonstration mode without Bluetooth hardware.`,
		SilenceUsage: true,
		RunE:         run,
	}

	f := rootCmd.Flags()
	f.BoolVar(&flagDemo, "demo", false, "Run in demo mode with fake beacons (no Bluetooth required)")
	f.StringVar(&flagAdapter, "adapter", "hci0", "Bluetooth adapter to use")
	f.StringVar(&flagUUID, "uuid", config.DefaultProximityUUID, "Proximity UUID of the beacon region")
	f.StringVar(&flagRegion, "region", config.DefaultRegionID, "Region identifier")
	f.IntVar(&flagMajor, "major", -1, "Only match this major value (-1 for any)")
	f.IntVar(&flagMinor, "minor", -1, "Only match this minor value (-1 for any)")
	f.BoolVar(&flagMonitor, "monitor", true, "Also monitor the region for entry and exit")
	f.Float64Var(&flagRange, "range", config.MaxRange, "Maximum radar range in meters")
	f.StringVar(&flagLogFile, "log-file", "beacon-watch.log", "Log file path (empty to disable)")
	f.StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	f.StringVar(&flagDemoAuth, "demo-auth", "authorized", "Demo authorization status (authorized, when-in-use, not-determined, restricted, denied)")
	f.StringVar(&flagDemoVersion, "demo-version", "8.0", "Demo host version")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	region, err := buildRegion()
	if err != nil {
		return err
	}
	demoAuth, err := beacon.ParseAuthorizationStatus(flagDemoAuth)
	if err != nil {
		return err
	}

	log, closer, err := logging.New(flagLogFile, flagLogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()
	log.WithField("region", region.String()).WithField("demo", flagDemo).Info("starting")

	model := app.New(app.Options{
		Demo:        flagDemo,
		Adapter:     flagAdapter,
		Region:      region,
		Monitor:     flagMonitor,
		MaxRange:    flagRange,
		DemoAuth:    demoAuth,
		DemoVersion: flagDemoVersion,
	}, log)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(config.TargetFPS),
	)

	// Start the location service with reference to the tea program
	model.Start(p)
	defer model.Stop()

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(app.AppModel); ok {
		if d := m.Controller().Display(); d.Status == app.StatusRestricted {
			fmt.Fprintln(os.Stderr, "Bluetooth access was not authorized.")
			fmt.Fprintln(os.Stderr, "Try one of:")
			fmt.Fprintln(os.Stderr, "  sudo ./beacon-watch")
			fmt.Fprintln(os.Stderr, "  bluetoothctl power on")
			fmt.Fprintln(os.Stderr, "  ./beacon-watch --demo    (demo mode, no hardware needed)")
		}
	}
	return nil
}

func buildRegion() (beacon.Region, error) {
	region, err := beacon.NewRegion(flagUUID, flagRegion)
	if err != nil {
		return region, err
	}
	if flagMajor >= 0 {
		if flagMajor > 0xFFFF {
			return region, fmt.Errorf("major %d out of range", flagMajor)
		}
		region = region.WithMajor(uint16(flagMajor))
	}
	if flagMinor >= 0 {
		if flagMinor > 0xFFFF {
			return region, fmt.Errorf("minor %d out of range", flagMinor)
		}
		region = region.WithMinor(uint16(flagMinor))
	}
	return region, nil
}

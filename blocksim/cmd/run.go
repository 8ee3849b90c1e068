package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ChloapSoap/blocksim/buscontroller"
	"github.com/ChloapSoap/blocksim/datarecording"
	"github.com/ChloapSoap/blocksim/driver"
	"github.com/ChloapSoap/blocksim/monitoring"
	"github.com/ChloapSoap/blocksim/trace"
	"github.com/ChloapSoap/blocksim/workload"
)

var runCmd = &cobra.Command{
	Use:   "run [workload file]",
	Short: "Run a workload script against a simulated device.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Environment variables from a .env file, when present, fill in
		// settings that are not passed as flags.
		_ = godotenv.Load()

		if err := runWorkload(cmd, args[0]); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("cache-size", 64,
		"Number of frames the driver cache holds")
	runCmd.Flags().Int("frame-capacity", 65536,
		"Number of frames on the device")
	runCmd.Flags().Int("max-retries", 0,
		"Bus retries per operation before giving up, 0 retries forever")
	runCmd.Flags().Bool("trace", false,
		"Record bus traffic into a SQLite database")
	runCmd.Flags().String("trace-db", "",
		"Path of the trace database, without extension")
	runCmd.Flags().Bool("monitor", false,
		"Serve driver and controller state over HTTP")
	runCmd.Flags().Int("monitor-port", 0,
		"Port of the monitoring server, 0 picks a random port")
	runCmd.Flags().Bool("open-dashboard", false,
		"Open the monitoring dashboard in the default browser")
}

func runWorkload(cmd *cobra.Command, path string) error {
	ops, err := workload.ParseFile(path)
	if err != nil {
		return err
	}

	cacheSize, _ := cmd.Flags().GetInt("cache-size")
	frameCapacity, _ := cmd.Flags().GetInt("frame-capacity")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")

	controller := buscontroller.MakeBuilder().
		WithFrameCapacity(frameCapacity).
		Build("Controller")

	drv := driver.MakeBuilder().
		WithTransport(controller).
		WithCacheCapacity(cacheSize).
		WithFrameCapacity(frameCapacity).
		WithMaxRetries(maxRetries).
		Build("Driver")

	if enabled, _ := cmd.Flags().GetBool("trace"); enabled {
		dbPath, _ := cmd.Flags().GetString("trace-db")
		tracer := trace.NewBusTracer(datarecording.New(dbPath))

		drv.Engine().AcceptHook(tracer)
		controller.AcceptHook(tracer)
	}

	if enabled, _ := cmd.Flags().GetBool("monitor"); enabled {
		startMonitor(cmd, drv, controller)
	}

	if err := drv.PowerOn(); err != nil {
		return fmt.Errorf("power on: %w", err)
	}

	runner := workload.NewRunner(drv, os.Stdout)
	if err := runner.Run(ops); err != nil {
		return err
	}

	if err := drv.PowerOff(); err != nil {
		return fmt.Errorf("power off: %w", err)
	}

	return nil
}

func startMonitor(
	cmd *cobra.Command,
	drv *driver.Driver,
	controller *buscontroller.Comp,
) {
	port, _ := cmd.Flags().GetInt("monitor-port")

	monitor := monitoring.NewMonitor()
	if port != 0 {
		monitor.WithPortNumber(port)
	}

	if open, _ := cmd.Flags().GetBool("open-dashboard"); open {
		monitor.WithDashboardOpen()
	}

	monitor.RegisterDriver(drv)
	monitor.RegisterComponent(controller)
	monitor.StartServer()
}

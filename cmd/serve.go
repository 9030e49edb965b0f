package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/minoslab/minos/monitoring"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a kernel and expose its state over HTTP.",
	Long: `serve runs the demo workload and keeps the kernel alive behind ` +
		`a monitoring server, so its processes, memory, and timeline can be ` +
		`inspected over HTTP.`,
	Run: func(cmd *cobra.Command, _ []string) {
		k := kernelFromFlags(cmd)

		port, _ := cmd.Flags().GetInt("port")
		open, _ := cmd.Flags().GetBool("open")

		monitor := monitoring.NewMonitor().WithPortNumber(port)
		monitor.RegisterKernel(k)

		if open {
			monitor.StartDashboard()
		} else {
			monitor.StartServer()
		}

		runDemo(k)

		fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop.")

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		<-sig
	},
}

func init() {
	serveCmd.Flags().Int("port", envInt("MINOS_PORT", 8080),
		"port for the monitoring server")
	serveCmd.Flags().Bool("open", false,
		"open the monitoring server in the default browser")

	rootCmd.AddCommand(serveCmd)
}

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/minoslab/minos/eventlog"
	"github.com/minoslab/minos/kernel"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted workload and print the kernel timeline.",
	Long: `demo admits a small mix of processes, runs them under the ` +
		`configured scheduling policy, raises a device interrupt, and kills ` +
		`one process, printing every kernel event as it happens.`,
	Run: func(cmd *cobra.Command, _ []string) {
		k := kernelFromFlags(cmd)

		logHook := eventlog.NewLogHook(log.New(os.Stdout, "", 0))
		k.AcceptHook(logHook)

		record, _ := cmd.Flags().GetBool("record")
		if record {
			recorder := eventlog.NewDBRecorder("")
			k.AcceptHook(recorder)
		}

		runDemo(k)
	},
}

func init() {
	demoCmd.Flags().Bool("record", false,
		"record the timeline into a SQLite database")

	rootCmd.AddCommand(demoCmd)
}

func runDemo(k *kernel.Kernel) {
	editor, _, err := k.CreateProcess("editor", 5, 256)
	exitOnErr(err)

	compiler, _, err := k.CreateProcess("compiler", 8, 400)
	exitOnErr(err)

	_, _, err = k.CreateProcess("daemon", 2, 128)
	exitOnErr(err)

	for i := 0; i < 6; i++ {
		k.RunCycle()
	}

	if !k.SetSchedulerPolicy("PRIORITY") {
		fmt.Fprintln(os.Stderr, "cannot switch to PRIORITY")
	}

	for i := 0; i < 4; i++ {
		k.RunCycle()
	}

	_, _, err = k.TriggerInterrupt("keyboard", 1)
	exitOnErr(err)

	exitUnless(k.KillProcess(editor.PID))

	for i := 0; i < 4; i++ {
		k.RunCycle()
	}

	exitUnless(k.KillProcess(compiler.PID))

	printSummary(k)
}

func printSummary(k *kernel.Kernel) {
	info := k.SystemInfo()

	fmt.Println()
	fmt.Printf("Memory: %d/%d bytes in use\n",
		info.Memory.Used, info.Memory.Total)
	fmt.Printf("Frames: %d/%d in use, %d page faults\n",
		info.VM.FramesUsed, info.VM.FramesTotal, info.VM.PageFaults)
	fmt.Printf("TLB: %d hits, %d misses\n",
		info.TLB.Hits, info.TLB.Misses)

	for _, p := range k.Processes() {
		fmt.Printf("pid %d (%s): %s, %d cycles of CPU time\n",
			p.PID, p.Name, p.State, p.CPUTime)
	}
}

func exitOnErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func exitUnless(ok bool, msg string) {
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		os.Exit(1)
	}
}

// Package cmd provides the command-line interface for Minos.
package cmd

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/minoslab/minos/kernel"
	"github.com/minoslab/minos/sched"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "minos",
	Short: "Minos simulates the resource management of a single-node " +
		"operating system.",
	Long: `Minos simulates the resource management of a single-node ` +
		`operating system, including process scheduling, physical memory ` +
		`allocation, and demand-paged virtual memory with a TLB.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Missing .env files are fine, the defaults below apply.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().Uint64("memory",
		envUint64("MINOS_MEMORY", 1024),
		"total physical memory in bytes")
	rootCmd.PersistentFlags().Int("quantum",
		envInt("MINOS_QUANTUM", 2),
		"scheduler time quantum in cycles")
	rootCmd.PersistentFlags().String("policy",
		envString("MINOS_POLICY", "RR"),
		"scheduling policy (RR, FIFO, SJF, PRIORITY)")
	rootCmd.PersistentFlags().Int("frames",
		envInt("MINOS_FRAMES", 64),
		"number of physical page frames")
	rootCmd.PersistentFlags().Uint64("page-size",
		envUint64("MINOS_PAGE_SIZE", 16),
		"page size in bytes")
	rootCmd.PersistentFlags().Int("tlb-capacity",
		envInt("MINOS_TLB_CAPACITY", 8),
		"number of TLB entries")
	rootCmd.PersistentFlags().Int64("seed",
		envInt64("MINOS_SEED", 0),
		"random seed, 0 picks a time-based seed")
}

func kernelFromFlags(cmd *cobra.Command) *kernel.Kernel {
	memory, _ := cmd.Flags().GetUint64("memory")
	quantum, _ := cmd.Flags().GetInt("quantum")
	policyName, _ := cmd.Flags().GetString("policy")
	frames, _ := cmd.Flags().GetInt("frames")
	pageSize, _ := cmd.Flags().GetUint64("page-size")
	tlbCapacity, _ := cmd.Flags().GetInt("tlb-capacity")
	seed, _ := cmd.Flags().GetInt64("seed")

	policy, err := sched.ParsePolicy(policyName)
	if err != nil {
		panic(err)
	}

	return kernel.MakeBuilder().
		WithTotalMemory(memory).
		WithQuantum(quantum).
		WithPolicy(policy).
		WithNumFrames(frames).
		WithPageSize(pageSize).
		WithTLBCapacity(tlbCapacity).
		WithRandSeed(seed).
		Build()
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return fallback
}

func envInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}

	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return n
		}
	}

	return fallback
}

func envUint64(key string, fallback uint64) uint64 {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err == nil {
			return n
		}
	}

	return fallback
}

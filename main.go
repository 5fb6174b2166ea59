package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gopherriscv/rv32i-emulator/api"
	"github.com/gopherriscv/rv32i-emulator/config"
	"github.com/gopherriscv/rv32i-emulator/debugger"
	"github.com/gopherriscv/rv32i-emulator/loader"
	"github.com/gopherriscv/rv32i-emulator/vm"
)

// Version information, overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3 -X main.Commit=... -X main.Date=..."
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

const shutdownTimeout = 5 * time.Second

// configPath is bound to the root command's persistent --config flag; empty
// means "use the platform default location" (config.GetConfigPath()).
var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rv32i-emu",
		Short: "A RISC-V RV32I instruction set emulator",
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: platform config directory)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newRunObjectCmd())
	root.AddCommand(newDebugCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// loadConfig reads the TOML config file named by --config, or the platform
// default location when --config is unset. A missing file is not an error;
// LoadFrom/Load return the package defaults in that case.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("rv32i-emu %s\n", Version)
			if Commit != "unknown" {
				fmt.Printf("commit: %s\n", Commit)
			}
			if Date != "unknown" {
				fmt.Printf("built: %s\n", Date)
			}
			return nil
		},
	}
}

// newConfigCmd groups commands that manage the TOML config file itself.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or initialize the emulator's config file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path that would be used",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				fmt.Println(configPath)
			} else {
				fmt.Println(config.GetConfigPath())
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default config file so it can be edited",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if configPath != "" {
				if err := cfg.SaveTo(configPath); err != nil {
					return err
				}
				fmt.Println(configPath)
				return nil
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Println(config.GetConfigPath())
			return nil
		},
	})

	return cmd
}

func newRunCmd() *cobra.Command {
	var maxSteps uint64
	var trace bool
	var stats bool

	cmd := &cobra.Command{
		Use:   "run <program.hex> [memory.hex]",
		Short: "Load and run a text-hex program to completion",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			program, err := loader.LoadHexProgram(args[0])
			if err != nil {
				return err
			}

			var memory *vm.Memory
			if len(args) == 2 {
				memory, err = loader.LoadHexMemory(args[1])
				if err != nil {
					return err
				}
			} else {
				memory = vm.NewMemory(cfg.Execution.MemoryWords)
			}

			proc := vm.NewProcessor(program, memory)
			if maxSteps > 0 {
				proc.MaxSteps = maxSteps
			} else {
				proc.MaxSteps = cfg.Execution.MaxSteps
			}
			if trace || cfg.Execution.EnableTrace {
				proc.Trace = vm.NewExecutionTrace(cfg.Execution.TraceEntries)
			}
			if stats || cfg.Execution.EnableStats {
				proc.Stats = vm.NewStatistics()
			}

			if err := runToCompletion(proc); err != nil {
				return err
			}
			if proc.Stats != nil {
				return writeStatsFile(proc.Stats, cfg)
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&maxSteps, "max-steps", 0, "step budget (default: config's execution.max_steps)")
	cmd.Flags().BoolVar(&trace, "trace", false, "record an execution trace (default: config's execution.enable_trace)")
	cmd.Flags().BoolVar(&stats, "stats", false, "record per-family instruction statistics (default: config's execution.enable_stats)")

	return cmd
}

func newRunObjectCmd() *cobra.Command {
	var maxSteps uint64

	cmd := &cobra.Command{
		Use:   "run-object <program.robj>",
		Short: "Load and run a linked object file to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			program, memory, err := loader.LoadObject(args[0])
			if err != nil {
				return err
			}

			proc := vm.NewProcessor(program, memory)
			proc.MaxSteps = cfg.Execution.MaxSteps
			if maxSteps > 0 {
				proc.MaxSteps = maxSteps
			}

			return runToCompletion(proc)
		},
	}

	cmd.Flags().Uint64Var(&maxSteps, "max-steps", 0, "step budget (default: config's execution.max_steps)")

	return cmd
}

func runToCompletion(proc *vm.Processor) error {
	if err := proc.Run(); err != nil {
		return err
	}

	fmt.Printf("state: %s, steps: %d, pc: 0x%08X\n", proc.State, proc.Steps, proc.CPU.PC)
	for i := 0; i < vm.RegisterCount; i++ {
		if v := proc.CPU.GetRegister(i); v != 0 {
			fmt.Printf("  x%-2d/%-4s = 0x%08X\n", i, vm.RegisterName(i), v)
		}
	}

	if proc.State == vm.StateError {
		return proc.LastError
	}
	return nil
}

// writeStatsFile writes per-family instruction counts to the file named by
// cfg.Statistics.OutputFile, under the platform log directory when the
// configured name is not already absolute.
func writeStatsFile(stats *vm.Statistics, cfg *config.Config) error {
	counts := make(map[string]uint64)
	for family := vm.FamilyAluR; family <= vm.FamilyIllegal; family++ {
		if n := stats.Count(family); n > 0 {
			counts[family.String()] = n
		}
	}

	data, err := json.MarshalIndent(counts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode statistics: %w", err)
	}

	path := cfg.Statistics.OutputFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(config.GetLogPath(), path)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write statistics file: %w", err)
	}
	fmt.Printf("statistics written to %s\n", path)
	return nil
}

func newDebugCmd() *cobra.Command {
	var tui bool

	cmd := &cobra.Command{
		Use:   "debug <program.hex> [memory.hex]",
		Short: "Load a program into the interactive debugger",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			program, err := loader.LoadHexProgram(args[0])
			if err != nil {
				return err
			}

			var memory *vm.Memory
			if len(args) == 2 {
				memory, err = loader.LoadHexMemory(args[1])
				if err != nil {
					return err
				}
			} else {
				memory = vm.NewMemory(cfg.Execution.MemoryWords)
			}

			proc := vm.NewProcessor(program, memory)
			proc.MaxSteps = cfg.Execution.MaxSteps

			dbg := debugger.NewDebugger(proc)

			if tui {
				return debugger.RunTUI(dbg)
			}
			return debugger.RunCLI(dbg)
		},
	}

	cmd.Flags().BoolVar(&tui, "tui", false, "use the full-screen text debugger instead of the line interface")

	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP inspection API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.API.ListenAddr
			}

			server := api.NewServer(addr, cfg)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config's api.listen_addr)")

	return cmd
}

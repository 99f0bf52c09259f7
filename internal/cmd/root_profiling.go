//go:build profiling

package cmd

import (
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"
)

func init() {
	var cpuProfilePath string
	var memProfilePath string
	RootCmd.PersistentFlags().StringVar(&cpuProfilePath, "cpuprofile", "", "enables CPU profiling and sets its output path")
	RootCmd.PersistentFlags().StringVar(&memProfilePath, "memprofile", "", "writes a heap profile to the path on exit")

	var cpuProfile *os.File
	originalPersistentPreRunE := RootCmd.PersistentPreRunE
	RootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cpuProfilePath != "" {
			f, err := os.Create(cpuProfilePath)
			if err != nil {
				return err
			}

			log.Println("enabling CPU profiling")
			if err := pprof.StartCPUProfile(f); err != nil {
				_ = f.Close()
				return err
			}

			cpuProfile = f
		}

		if originalPersistentPreRunE != nil {
			return originalPersistentPreRunE(cmd, args)
		}

		return nil
	}

	originalPersistentPostRun := RootCmd.PersistentPostRun
	RootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if cpuProfile != nil {
			log.Println("shutting down CPU profiling")
			pprof.StopCPUProfile()
			_ = cpuProfile.Close()
		}

		if memProfilePath != "" {
			writeHeapProfile(memProfilePath)
		}

		if originalPersistentPostRun != nil {
			originalPersistentPostRun(cmd, args)
		}
	}
}

func writeHeapProfile(path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Printf("unable to create the heap profile: %v", err)
		return
	}

	defer f.Close()

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Printf("unable to write the heap profile: %v", err)
	}
}

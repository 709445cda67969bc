// pileup is a physics-driven falling-block puzzle for the terminal.
//
// Usage:
//
//	pileup list              - List available game modes
//	pileup play [mode]       - Play a mode (default: pileup)
//	pileup serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import game modes to register them
	_ "github.com/pileupgame/pileup/internal/games/pileup"
)

var (
	// Global flags
	flagFPS  int
	flagSeed int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pileup",
	Short: "Pileup - A physics falling-block puzzle in your terminal",
	Long: `Pileup is a terminal puzzle where pieces are clusters of jointed rigid
bodies under a continuous physics simulation. Pieces lean, topple, and wedge;
fill a row edge to edge to clear it, and keep blocks from spilling out of
the pit.

Available commands:
  list     - Show all available game modes
  play     - Play a mode directly
  serve    - Start SSH server for remote play

Examples:
  pileup list
  pileup play
  pileup play pileup_slick --difficulty hard
  pileup serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
}

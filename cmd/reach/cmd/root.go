package cmd

import (
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jt05610/reach"
	"github.com/jt05610/reach/netfile"
	"github.com/jt05610/reach/netfile/yaml"
)

// rootCmd represents the root command
var rootCmd = &cobra.Command{
	Use:   "reach",
	Short: "SMT-based reachability checking for Petri nets",
	Long: `reach decides reachability formulas over Petri nets by racing
several proof strategies (BMC, k-induction, induction, state
equation) against an SMT solver.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func failOnError(err error, msg string) {
	if err != nil {
		log.Fatalf("%s: %s", msg, err)
	}
}

// loadNet reads a net in .net format, or YAML when the path says so.
func loadNet(path string) *reach.Net {
	var (
		n   *reach.Net
		err error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		n, err = yaml.LoadFile(path)
	} else {
		n, err = netfile.LoadFile(path)
	}
	failOnError(err, "Failed to load net")
	return n
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jt05610/reach/env"
	"github.com/jt05610/reach/formula"
	"github.com/jt05610/reach/solver"
	"github.com/jt05610/reach/supervisor"
)

var (
	netPath     string
	formulaText string
	formulaFile string
	methods     []string
	timeout     int
	verbose     bool
	debug       bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Race the proof strategies on a net and a formula",
	Long: `Race the selected proof strategies on a reachability formula.
Prints "FORMULA <verdict>" once a strategy concludes; prints nothing
when the time budget elapses first.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := zap.NewNop()
		if verbose {
			var err error
			logger, err = zap.NewDevelopment()
			failOnError(err, "Failed to build logger")
		}

		environment := env.LoadEnv(logger)
		if timeout > 0 {
			environment.Timeout = time.Duration(timeout) * time.Second
		}
		if debug {
			environment.Debug = true
		}

		net := loadNet(netPath)

		var (
			f   formula.Expression
			err error
		)
		if formulaText != "" {
			f, err = formula.Parse(formulaText)
		} else {
			f, err = formula.ParseFile(formulaFile)
		}
		failOnError(err, "Failed to parse formula")
		failOnError(formula.Validate(f, net), "Invalid formula")

		if verbose {
			fmt.Println(net)
			fmt.Println(f)
		}

		sup, err := supervisor.New(net, f, methods,
			supervisor.WithTimeout(environment.Timeout),
			supervisor.WithLogger(logger),
			supervisor.WithFactory(func(c *supervisor.Cohort) solver.Factory {
				return func() (solver.Solver, error) {
					return solver.NewZ3(
						solver.WithPath(environment.Z3),
						solver.WithTimeout(int(environment.Timeout.Seconds())),
						solver.WithDebug(environment.Debug),
						solver.WithLogger(logger),
						solver.WithRegistry(c.Register),
					)
				}
			}),
		)
		failOnError(err, "Failed to configure run")

		if verdict, ok := sup.Run(context.Background()); ok {
			fmt.Printf("FORMULA %s\n", verdict)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&netPath, "net", "n", "", "path to Petri net (.net or .yaml format)")
	runCmd.Flags().StringVarP(&formulaText, "formula", "f", "", "reachability formula")
	runCmd.Flags().StringVar(&formulaFile, "formula-file", "", "path to reachability formula")
	runCmd.Flags().StringSliceVar(&methods, "methods", supervisor.Methods, "proof strategies to race")
	runCmd.Flags().IntVar(&timeout, "timeout", 0, "time budget in seconds (default REACH_TIMEOUT or 225)")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "increase output verbosity")
	runCmd.Flags().BoolVar(&debug, "debug", false, "echo the SMT-LIB input/output")
	_ = runCmd.MarkFlagRequired("net")
	runCmd.MarkFlagsMutuallyExclusive("formula", "formula-file")
	runCmd.MarkFlagsOneRequired("formula", "formula-file")
}

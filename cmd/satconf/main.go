// Command satconf is the reference front-end for the resolver core: an
// interactive REPL by default, or a terminal table-driven GUI via the
// "gui" subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xDarkicex/satconf/cmd/satconf/gui"
	"github.com/xDarkicex/satconf/cmd/satconf/repl"
	"github.com/xDarkicex/satconf/internal/config"
	"github.com/xDarkicex/satconf/model"
)

var (
	modelPath  string
	solverName string
)

var rootCmd = &cobra.Command{
	Use:   "satconf",
	Short: "Interactive configuration-conflict resolver",
	RunE:  runREPL,
}

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Launch the table-driven terminal GUI",
	RunE:  runGUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&modelPath, "model", "", "path to a YAML symbol database to load at startup")
	rootCmd.PersistentFlags().StringVar(&solverName, "solver", "cdcl", "registered SAT solver driver to use")
	rootCmd.AddCommand(guiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadSession() (*model.Session, error) {
	if modelPath == "" {
		return model.NewSession(), nil
	}
	f, err := os.Open(modelPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return model.LoadYAML(f)
}

func loadPrefs() config.Prefs {
	path, err := config.Path()
	if err != nil {
		return config.Default()
	}
	prefs, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "satconf: ignoring malformed %s: %v\n", path, err)
		return config.Default()
	}
	return prefs
}

func runREPL(cmd *cobra.Command, args []string) error {
	sess, err := loadSession()
	if err != nil {
		return err
	}
	r := repl.New(sess, solverName, loadPrefs(), os.Stdout)
	return r.Run(os.Stdin)
}

func runGUI(cmd *cobra.Command, args []string) error {
	sess, err := loadSession()
	if err != nil {
		return err
	}
	return gui.Run(sess, nil, nil)
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/mathfacts/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default config file",
	Long: `Write the default configuration to path, or to ~/.mathfacts/config.yaml
when no path is given. An existing file is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after the config file, MATHFACTS_* environment
variables and global flags have been applied.`,
	Run: runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(_ *cobra.Command, args []string) {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			exitf("cannot get home directory: %v", err)
		}
		path = filepath.Join(home, ".mathfacts", "config.yaml")
	}

	if err := config.WriteDefault(path); err != nil {
		exitf("%v", err)
	}
	fmt.Printf("Wrote %s\n", path)
}

func runConfigShow(cmd *cobra.Command, _ []string) {
	cfg, src := loadConfig(cmd)

	out, err := yaml.Marshal(cfg)
	if err != nil {
		exitf("cannot encode config: %v", err)
	}
	fmt.Printf("# source: %s\n", src)
	fmt.Print(string(out))
}

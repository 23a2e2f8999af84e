package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration to the --config path",
	Long: `Write the configuration in effect, defaults included, as YAML so it
can be edited. An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := os.Stat(cfgPath)
		switch {
		case err == nil && !initForce:
			return fmt.Errorf("%s already exists, pass --force to overwrite it", cfgPath)
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return err
		}
		if dir := filepath.Dir(cfgPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := cfg.Save(cfgPath); err != nil {
			return err
		}
		logger.Infof("wrote config to %s", cfgPath)
		fmt.Fprintln(cmd.OutOrStdout(), cfgPath)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

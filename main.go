package main

import (
	"os"
	"strings"

	"SceneBoard/internal/config"
	"SceneBoard/internal/logging"
	boardnet "SceneBoard/internal/net"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logger = log.WithField("prefix", "main")

var (
	cfgPath  string
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "sceneboard",
	Short:         "Shared vector whiteboard for the local network",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			c.LogLevel = logLevel
		}
		if err := logging.Setup(c.LogLevel, os.Stderr); err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath, "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

// resolveArgs maps a bare launch to host and a launch through a share link,
// as the OS does for the URL scheme, to join.
func resolveArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"host"}
	}
	if len(args) == 1 && strings.HasPrefix(args[0], boardnet.LinkScheme) {
		return []string{"join", args[0]}
	}
	return args
}

func main() {
	rootCmd.SetArgs(resolveArgs(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SceneBoard/internal/input"
	boardnet "SceneBoard/internal/net"
	"SceneBoard/internal/session"
	"SceneBoard/internal/state"
	"SceneBoard/internal/ui"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var errNoHosts = errors.New("no hosted boards found on the local network")

var (
	discoverTimeout time.Duration
	dialTimeout     time.Duration
)

var joinCmd = &cobra.Command{
	Use:   "join [link]",
	Short: "Join a hosted board",
	Long: `Join the board behind a share link such as sceneboard://192.168.1.5:8888.
Without a link the local network is searched over mDNS.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		link := ""
		if len(args) == 1 {
			link = args[0]
		}
		return runJoin(cmd.Context(), link)
	},
}

func init() {
	joinCmd.Flags().DurationVar(&discoverTimeout, "discover-timeout", 3*time.Second, "how long to search for hosts")
	joinCmd.Flags().DurationVar(&dialTimeout, "dial-timeout", 10*time.Second, "how long to wait for the host")
	rootCmd.AddCommand(joinCmd)
}

func findHost() (string, error) {
	if !cfg.Discovery {
		return "", fmt.Errorf("%w: discovery is disabled, pass a link", errNoHosts)
	}
	links, err := boardnet.Discover(discoverTimeout)
	if err != nil {
		logger.Warnf("discovery: %v", err)
	}
	if len(links) == 0 {
		return "", errNoHosts
	}
	logger.Infof("found %d host(s), joining %s", len(links), links[0])
	return links[0], nil
}

func runJoin(parent context.Context, link string) error {
	logger.Info("Starting as CLIENT")
	if link == "" {
		found, err := findHost()
		if err != nil {
			return err
		}
		link = found
	}
	gesture, err := cfg.Gesture()
	if err != nil {
		return err
	}

	dialCtx, cancelDial := context.WithTimeout(parent, dialTimeout)
	client, err := boardnet.Dial(dialCtx, link)
	cancelDial()
	if err != nil {
		return err
	}
	defer client.Close()
	logger.Infof("connected to host as %s", client.LocalAddr())

	site := state.NewSiteID()
	win := ui.NewApp("SceneBoard - "+link, cfg.Window.Width, cfg.Window.Height, gesture)
	in := newInterpreter(cfg, win.Board, win.Prompter(), site, input.WithHistoryObserver(win.HistoryChanged))
	in.Hooks = shareHooks(site, in, func(msg boardnet.Message) {
		if err := client.Send(msg); err != nil {
			logger.Warnf("failed to send %s: %v", msg.Type, err)
		}
	})
	loop := session.NewLoop(in, session.DefaultBuffer)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return loop.Run(gctx) })
	g.Go(func() error {
		err := client.Listen(gctx, func(msg boardnet.Message) {
			// the host never echoes, but a relayed message may still be ours
			if msg.Site == site {
				return
			}
			if err := loop.Submit(gctx, session.Remote{Msg: msg}); err != nil {
				logger.Debugf("dropping %s: %v", msg.Type, err)
			}
		})
		if err != nil && gctx.Err() == nil {
			// keep the board open for local drawing
			logger.Warn(err)
			win.Board.SetStatus("Disconnected from host")
		}
		return nil
	})

	win.Board.StatusBar().SetText("Connected to host as " + client.LocalAddr())
	runWindow(gctx, win, loop, "")
	cancel()
	return g.Wait()
}

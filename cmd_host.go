package main

import (
	"context"

	"SceneBoard/internal/input"
	boardnet "SceneBoard/internal/net"
	"SceneBoard/internal/session"
	"SceneBoard/internal/state"
	"SceneBoard/internal/ui"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var hostPort int

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Host a board and share it on the local network",
	Long: `Open a board window and accept joining boards over WebSocket.
The share link shown in the window lets others on the LAN join.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := cfg.Port
		if hostPort > 0 {
			port = hostPort
		}
		return runHost(cmd.Context(), port)
	},
}

func init() {
	hostCmd.Flags().IntVar(&hostPort, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(hostCmd)
}

func runHost(parent context.Context, port int) error {
	logger.Info("Starting as HOST")
	gesture, err := cfg.Gesture()
	if err != nil {
		return err
	}
	site := state.NewSiteID()
	ip, err := boardnet.GetOutgoingIP()
	if err != nil {
		logger.Warnf("no local IP: %v", err)
		ip = "127.0.0.1"
	}
	link := boardnet.ShareLink(ip, port)

	win := ui.NewApp("SceneBoard (host)", cfg.Window.Width, cfg.Window.Height, gesture)
	in := newInterpreter(cfg, win.Board, win.Prompter(), site, input.WithHistoryObserver(win.HistoryChanged))
	hub := boardnet.NewHub()
	// the host's own changes go to every peer
	in.Hooks = shareHooks(site, in, func(msg boardnet.Message) { hub.Broadcast(msg, nil) })
	loop := session.NewLoop(in, session.DefaultBuffer)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	hub.OnJoin = func(p *boardnet.Peer) {
		var msg boardnet.Message
		err := loop.Do(gctx, func(in *input.Interpreter) {
			msg = boardnet.SyncMessage(site, in.Revision(), in.Elements())
		})
		if err != nil {
			return
		}
		if err := p.Send(msg); err != nil {
			logger.Warnf("sending scene to %s: %v", p.Addr(), err)
		}
	}
	hub.OnMessage = func(p *boardnet.Peer, msg boardnet.Message) {
		forward := func(m boardnet.Message) { hub.Broadcast(m, p) }
		reply := func(m boardnet.Message) {
			if err := p.Send(m); err != nil {
				logger.Warnf("sending scene to %s: %v", p.Addr(), err)
			}
		}
		ev := session.Remote{Msg: msg, Done: relayHook(site, msg, forward, reply)}
		if err := loop.Submit(gctx, ev); err != nil {
			logger.Debugf("dropping %s from %s: %v", msg.Type, p.Addr(), err)
		}
	}

	g.Go(func() error { return loop.Run(gctx) })
	g.Go(func() error { return hub.ListenAndServe(gctx, port) })

	if cfg.Discovery {
		server, err := boardnet.Advertise(port)
		if err != nil {
			logger.Warnf("mDNS advertising disabled: %v", err)
		} else {
			defer server.Shutdown()
		}
	}

	logger.Infof("share link: %s", link)
	runWindow(gctx, win, loop, link)
	cancel()
	return g.Wait()
}

// runWindow blocks on the UI until the window closes or ctx ends.
func runWindow(ctx context.Context, win *ui.App, loop *session.Loop, link string) {
	closed := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			win.Quit()
		case <-closed:
		}
	}()
	win.Run(loop, link)
	close(closed)
}

package net

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("prefix", "net")

const writeWait = 5 * time.Second

// Peer is one websocket connection. Writes are serialised.
type Peer struct {
	conn *websocket.Conn
	addr string
	mu   sync.Mutex
}

func newPeer(conn *websocket.Conn) *Peer {
	return &Peer{conn: conn, addr: conn.RemoteAddr().String()}
}

func (p *Peer) Addr() string { return p.addr }

func (p *Peer) Send(msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return p.conn.WriteJSON(msg)
}

func (p *Peer) Close() error {
	return p.conn.Close()
}

// Hub is run by the HOST. It accepts peers and relays their messages.
type Hub struct {
	peers    map[*Peer]struct{}
	mu       sync.RWMutex
	upgrader websocket.Upgrader

	// OnJoin runs on the peer's goroutine before its messages are read.
	OnJoin func(p *Peer)
	// OnMessage receives every valid message read from a peer.
	OnMessage func(p *Peer, msg Message)
}

func NewHub() *Hub {
	return &Hub{
		peers: make(map[*Peer]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// boards are shared by link on the local network
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Hub) add(p *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[p] = struct{}{}
	logger.Infof("peer connected: %s", p.Addr())
}

func (h *Hub) remove(p *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, p)
	logger.Infof("peer disconnected: %s", p.Addr())
}

// Len reports the number of connected peers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Broadcast sends msg to every peer except exclude.
func (h *Hub) Broadcast(msg Message, exclude *Peer) {
	h.mu.RLock()
	targets := make([]*Peer, 0, len(h.peers))
	for p := range h.peers {
		if p != exclude {
			targets = append(targets, p)
		}
	}
	h.mu.RUnlock()

	for _, p := range targets {
		if err := p.Send(msg); err != nil {
			logger.Warnf("error sending %s to %s: %v", msg.Type, p.Addr(), err)
		}
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	p := newPeer(conn)
	h.add(p)
	defer func() {
		h.remove(p)
		p.Close()
	}()

	if h.OnJoin != nil {
		h.OnJoin(p)
	}
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warnf("peer %s: %v", p.Addr(), err)
			}
			return
		}
		if err := msg.Validate(); err != nil {
			logger.Warnf("dropping message from %s: %v", p.Addr(), err)
			continue
		}
		logger.Debugf("received %s from %s", msg.Type, p.Addr())
		if h.OnMessage != nil {
			h.OnMessage(p, msg)
		}
	}
}

// Close drops every peer connection.
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for p := range h.peers {
		p.Close()
	}
}

// ListenAndServe serves the hub on BoardPath until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, port int) error {
	mux := http.NewServeMux()
	mux.Handle(BoardPath, h)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("host listening on port %d", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve board: %w", err)
	}
	return nil
}

// Client is a joined board's connection to its host.
type Client struct {
	peer  *Peer
	local string
}

// Dial connects to the host behind a share link.
func Dial(ctx context.Context, link string) (*Client, error) {
	hostPort, err := ParseLink(link)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, boardURL(hostPort), nil)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", hostPort, err)
	}
	return &Client{peer: newPeer(conn), local: conn.LocalAddr().String()}, nil
}

// LocalAddr is the client's own address, used as its identity by the host.
func (c *Client) LocalAddr() string { return c.local }

func (c *Client) Send(msg Message) error {
	return c.peer.Send(msg)
}

// Listen reads messages from the host until the connection drops or ctx is
// cancelled.
func (c *Client) Listen(ctx context.Context, fn func(Message)) error {
	stop := context.AfterFunc(ctx, func() { c.peer.Close() })
	defer stop()

	for {
		var msg Message
		if err := c.peer.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("disconnected from host: %w", err)
		}
		if err := msg.Validate(); err != nil {
			logger.Warnf("dropping message from host: %v", err)
			continue
		}
		fn(msg)
	}
}

func (c *Client) Close() error {
	return c.peer.Close()
}

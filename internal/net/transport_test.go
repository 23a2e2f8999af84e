package net

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SceneBoard/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_Validate(t *testing.T) {
	e := state.Element{ID: "a", Kind: state.KindLine}
	assert.NoError(t, CommitMessage("s", 1, e).Validate())
	assert.NoError(t, EraseMessage("s", 1, []string{"a"}).Validate())
	assert.NoError(t, ClearMessage("s", 1).Validate())
	assert.NoError(t, SnapshotMessage("s", 1, nil).Validate())

	bad := []Message{
		{Type: MsgCommit},
		{Type: MsgCommit, Element: &state.Element{Kind: "star"}},
		{Type: MsgErase},
		{Type: "draw"},
	}
	for _, m := range bad {
		assert.True(t, errors.Is(m.Validate(), ErrBadMessage), "%+v", m)
	}
}

func TestParseLink(t *testing.T) {
	cases := map[string]string{
		"sceneboard://192.168.1.5:8888":  "192.168.1.5:8888",
		"sceneboard://192.168.1.5:8888/": "192.168.1.5:8888",
		"localhost:9000":                 "localhost:9000",
	}
	for in, want := range cases {
		got, err := ParseLink(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"sceneboard://", "sceneboard://host", "sceneboard://:80", "sceneboard://h:99999"} {
		_, err := ParseLink(in)
		assert.True(t, errors.Is(err, ErrBadLink), in)
	}
}

func TestShareLinkRoundTrip(t *testing.T) {
	link := ShareLink("10.0.0.2", 8888)
	assert.Equal(t, "sceneboard://10.0.0.2:8888", link)
	got, err := ParseLink(link)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2:8888", got)
}

func TestHub_RelaysToOtherPeers(t *testing.T) {
	hub := NewHub()
	joined := make(chan *Peer, 2)
	hub.OnJoin = func(p *Peer) {
		assert.NoError(t, p.Send(SnapshotMessage("host", 7, nil)))
		joined <- p
	}
	hub.OnMessage = func(p *Peer, msg Message) {
		hub.Broadcast(msg, p)
	}
	srv := httptest.NewServer(hub)
	defer srv.Close()
	link := LinkScheme + strings.TrimPrefix(srv.URL, "http://")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	listen := func(c *Client) <-chan Message {
		ch := make(chan Message, 4)
		go c.Listen(ctx, func(m Message) { ch <- m })
		return ch
	}

	c1, err := Dial(ctx, link)
	require.NoError(t, err)
	defer c1.Close()
	in1 := listen(c1)
	<-joined

	c2, err := Dial(ctx, link)
	require.NoError(t, err)
	defer c2.Close()
	in2 := listen(c2)
	<-joined

	for _, in := range []<-chan Message{in1, in2} {
		select {
		case m := <-in:
			assert.Equal(t, MsgSnapshot, m.Type)
			assert.Equal(t, uint64(7), m.Revision)
		case <-ctx.Done():
			t.Fatal("no snapshot on join")
		}
	}
	assert.Equal(t, 2, hub.Len())

	e := state.Element{ID: "x", Kind: state.KindFreehand, Points: []state.Point{{X: 1, Y: 2}}, Color: "#000000", Width: 2}
	require.NoError(t, c1.Send(CommitMessage("c1", 1, e)))

	select {
	case m := <-in2:
		assert.Equal(t, MsgCommit, m.Type)
		require.NotNil(t, m.Element)
		assert.Equal(t, e, *m.Element)
		assert.Equal(t, "c1", m.Site)
	case <-ctx.Done():
		t.Fatal("commit was not relayed")
	}

	select {
	case m := <-in1:
		t.Fatalf("sender received its own message: %+v", m)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDial_BadLink(t *testing.T) {
	_, err := Dial(context.Background(), "nonsense")
	assert.True(t, errors.Is(err, ErrBadLink))
}

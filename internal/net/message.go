package net

import (
	"errors"
	"fmt"

	"SceneBoard/internal/state"
)

type MessageType string

const (
	MsgCommit   MessageType = "commit"
	MsgErase    MessageType = "erase"
	MsgClear    MessageType = "clear"
	MsgSnapshot MessageType = "snapshot"
	// MsgSync carries the host's scene to a board that just joined.
	MsgSync MessageType = "sync"
)

// Message is one scene change exchanged between boards.
type Message struct {
	Type     MessageType     `json:"type"`
	Element  *state.Element  `json:"element,omitempty"`
	IDs      []string        `json:"ids,omitempty"`
	Elements []state.Element `json:"elements,omitempty"`
	Site     string          `json:"site"`
	Revision uint64          `json:"revision"`
}

var ErrBadMessage = errors.New("malformed message")

func (m Message) Validate() error {
	switch m.Type {
	case MsgCommit:
		if m.Element == nil {
			return fmt.Errorf("%w: commit without element", ErrBadMessage)
		}
		if _, err := state.ParseKind(string(m.Element.Kind)); err != nil {
			return fmt.Errorf("%w: %v", ErrBadMessage, err)
		}
	case MsgErase:
		if len(m.IDs) == 0 {
			return fmt.Errorf("%w: erase without ids", ErrBadMessage)
		}
	case MsgClear, MsgSnapshot, MsgSync:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrBadMessage, m.Type)
	}
	return nil
}

func CommitMessage(site string, rev uint64, e state.Element) Message {
	return Message{Type: MsgCommit, Element: &e, Site: site, Revision: rev}
}

func EraseMessage(site string, rev uint64, ids []string) Message {
	return Message{Type: MsgErase, IDs: ids, Site: site, Revision: rev}
}

func ClearMessage(site string, rev uint64) Message {
	return Message{Type: MsgClear, Site: site, Revision: rev}
}

func SnapshotMessage(site string, rev uint64, elements []state.Element) Message {
	return Message{Type: MsgSnapshot, Elements: elements, Site: site, Revision: rev}
}

func SyncMessage(site string, rev uint64, elements []state.Element) Message {
	return Message{Type: MsgSync, Elements: elements, Site: site, Revision: rev}
}

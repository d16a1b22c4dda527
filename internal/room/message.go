// Package room synchronizes whole scenes between the members of a named
// room. Every committed change is broadcast as a full snapshot and the last
// snapshot received wins; there is no merging.
package room

import (
	"encoding/json"
	"errors"
	"fmt"

	"RoomBoard/internal/state"
)

const (
	TypeJoin        = "join"
	TypeSceneUpdate = "scene-update"
)

var (
	ErrUnknownType = errors.New("room: unknown message type")
	ErrMissingRoom = errors.New("room: missing room id")
)

// Message is one frame of the room protocol. Shapes is only meaningful for
// scene-update.
type Message struct {
	Type   string
	RoomID string
	Sender string
	Shapes state.Scene
}

type wireMessage struct {
	Type   string       `json:"type"`
	RoomID string       `json:"roomId"`
	Sender string       `json:"sender,omitempty"`
	Shapes *state.Scene `json:"shapes,omitempty"`
}

func Join(roomID, sender string) Message {
	return Message{Type: TypeJoin, RoomID: roomID, Sender: sender}
}

// SceneUpdate carries a copy of scene.
func SceneUpdate(roomID, sender string, scene state.Scene) Message {
	return Message{Type: TypeSceneUpdate, RoomID: roomID, Sender: sender, Shapes: scene.Clone()}
}

func (m Message) validate() error {
	if m.Type != TypeJoin && m.Type != TypeSceneUpdate {
		return fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}
	if m.RoomID == "" {
		return ErrMissingRoom
	}
	return nil
}

// Encode serializes m. A scene-update always carries a shapes array, even
// an empty one.
func Encode(m Message) ([]byte, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	w := wireMessage{Type: m.Type, RoomID: m.RoomID, Sender: m.Sender}
	if m.Type == TypeSceneUpdate {
		shapes := m.Shapes
		if shapes == nil {
			shapes = state.Scene{}
		}
		w.Shapes = &shapes
	}
	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.Type, err)
	}
	return data, nil
}

func Decode(data []byte) (Message, error) {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	m := Message{Type: w.Type, RoomID: w.RoomID, Sender: w.Sender}
	if err := m.validate(); err != nil {
		return Message{}, err
	}
	if m.Type == TypeSceneUpdate {
		m.Shapes = state.Scene{}
		if w.Shapes != nil {
			m.Shapes = *w.Shapes
		}
	}
	return m, nil
}

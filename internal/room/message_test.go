package room

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RoomBoard/internal/state"
)

func arrowShape(t *testing.T) state.Shape {
	t.Helper()
	s, err := state.NewShape(state.KindArrow, state.Style{Color: "red", StrokeWidth: 2},
		state.Segment{Start: state.Point{X: 1, Y: 1}, End: state.Point{X: 5, Y: 9}})
	require.NoError(t, err)
	return s
}

func TestEncodeDecode_SceneUpdate(t *testing.T) {
	y := arrowShape(t)
	data, err := Encode(SceneUpdate("r1", "client-a", state.Scene{y}))
	require.NoError(t, err)

	m, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, TypeSceneUpdate, m.Type)
	assert.Equal(t, "r1", m.RoomID)
	assert.Equal(t, "client-a", m.Sender)
	require.Len(t, m.Shapes, 1)
	assert.Equal(t, y.ID, m.Shapes[0].ID)
	assert.Equal(t, y.Geometry, m.Shapes[0].Geometry)
}

func TestEncode_EmptySceneKeepsShapesArray(t *testing.T) {
	data, err := Encode(SceneUpdate("r1", "a", nil))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"shapes":[]`)

	m, err := Decode(data)
	require.NoError(t, err)
	assert.NotNil(t, m.Shapes)
	assert.Empty(t, m.Shapes)
}

func TestEncode_JoinHasNoShapes(t *testing.T) {
	data, err := Encode(Join("r1", "a"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"join","roomId":"r1","sender":"a"}`, string(data))
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"unknown type", `{"type":"draw","roomId":"r1"}`, ErrUnknownType},
		{"missing room", `{"type":"join"}`, ErrMissingRoom},
		{"unknown kind", `{"type":"scene-update","roomId":"r1","shapes":[{"id":"x","kind":"star"}]}`, state.ErrUnknownKind},
		{"payload mismatch", `{"type":"scene-update","roomId":"r1","shapes":[{"id":"x","kind":"arrow"}]}`, state.ErrKindMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
}

func TestEncode_RejectsInvalid(t *testing.T) {
	_, err := Encode(Message{Type: TypeJoin})
	assert.ErrorIs(t, err, ErrMissingRoom)
	_, err = Encode(Message{Type: "clear", RoomID: "r"})
	assert.ErrorIs(t, err, ErrUnknownType)
}

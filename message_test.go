package relink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageDecodeJSON(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    any
	}{
		{"object", `{"a":1,"ok":true}`, map[string]any{"a": float64(1), "ok": true}},
		{"array", `[1,"two"]`, []any{float64(1), "two"}},
		{"number", `42`, float64(42)},
		{"bool", `false`, false},
		{"quoted string", `"hi"`, "hi"},
		{"null", `null`, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewDataMessage([]byte(tc.payload))
			require.True(t, m.IsJSON())
			assert.Equal(t, tc.want, m.Value())
			assert.Equal(t, []byte(tc.payload), m.Data())
		})
	}
}

func TestMessageDecodeFallback(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"bare word", "pong"},
		{"empty", ""},
		{"truncated json", `{"a":`},
		{"free text", "welcome to the lobby!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewDataMessage([]byte(tc.payload))
			require.False(t, m.IsJSON())
			assert.Equal(t, tc.payload, m.Value())
		})
	}
}

func TestMessageBinaryPassthrough(t *testing.T) {
	raw := []byte{0x00, 0x01, 0xFF}
	m := NewBinaryMessage(raw)

	require.False(t, m.IsJSON())
	assert.Equal(t, raw, m.Value())
	assert.Equal(t, raw, m.Data())
	assert.True(t, m.Type().IsBinary())
}

func TestMessageTypeHelpers(t *testing.T) {
	assert.True(t, DataMessage.IsData())
	assert.True(t, BinaryMessage.IsBinary())
	assert.True(t, PingMessage.IsPing())
	assert.True(t, PongMessage.IsPong())
	assert.True(t, CloseMessage.IsClose())
	assert.False(t, DataMessage.Is(BinaryMessage))
}

func TestMessageString(t *testing.T) {
	m := NewDataMessage([]byte("pong"))
	assert.Equal(t, "Message{type=1,data=pong}", m.String())
}

package relink

import (
	"fmt"

	"github.com/tidwall/gjson"
)

type MessageType byte

const (
	DataMessage   MessageType = 1
	BinaryMessage MessageType = 2
	CloseMessage  MessageType = 8
	PingMessage   MessageType = 9
	PongMessage   MessageType = 10
)

func (t MessageType) Is(other MessageType) bool {
	return t == other
}

func (t MessageType) IsData() bool {
	return t.Is(DataMessage)
}

func (t MessageType) IsBinary() bool {
	return t.Is(BinaryMessage)
}

func (t MessageType) IsPing() bool {
	return t.Is(PingMessage)
}

func (t MessageType) IsPong() bool {
	return t.Is(PongMessage)
}

func (t MessageType) IsClose() bool {
	return t.Is(CloseMessage)
}

type Message interface {
	Type() MessageType
	Data() []byte
	// Value is the decoded payload. Text frames holding valid JSON yield
	// the parsed document (map[string]any, []any, string, float64, bool
	// or nil); any other text frame yields the payload as a plain string.
	// Binary frames yield the raw bytes.
	Value() any
	// IsJSON reports whether Value holds a parsed JSON document.
	IsJSON() bool
	String() string
}

type message struct {
	MessageType MessageType
	MessageData []byte

	value  any
	isJSON bool
}

func (m message) Type() MessageType {
	return m.MessageType
}

func (m message) Data() []byte {
	return m.MessageData
}

func (m message) Value() any {
	return m.value
}

func (m message) IsJSON() bool {
	return m.isJSON
}

func (m message) String() string {
	return fmt.Sprintf("Message{type=%d,data=%s}",
		m.MessageType, m.MessageData)
}

// NewMessage builds a Message, decoding text payloads as described by
// Message.Value. Frames like `pong` or `welcome!` that a server sends as
// bare text survive as strings instead of turning into decode errors.
func NewMessage(mt MessageType, data []byte) Message {
	m := message{MessageType: mt, MessageData: data}
	switch {
	case mt.IsData():
		m.value, m.isJSON = decodePayload(data)
	default:
		m.value = data
	}
	return m
}

func NewDataMessage(data []byte) Message {
	return NewMessage(DataMessage, data)
}

func NewBinaryMessage(data []byte) Message {
	return NewMessage(BinaryMessage, data)
}

func decodePayload(data []byte) (any, bool) {
	if gjson.ValidBytes(data) {
		return gjson.ParseBytes(data).Value(), true
	}
	return string(data), false
}

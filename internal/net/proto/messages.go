package proto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"tower-survival/server/internal/sim"
	"tower-survival/server/internal/world"
)

// Client message type identifiers.
const (
	TypeStartWave    = "START_WAVE"
	TypeUpgrade      = "UPGRADE"
	TypeMetaUpgrade  = "META_UPGRADE"
	TypeRetry        = "RETRY"
	TypeCursorAttack = "CURSOR_ATTACK"
)

// Server message type identifiers.
const (
	TypeInit   = "INIT"
	TypeUpdate = "UPDATE"
)

// Encoding selects the frame format of a subscriber.
type Encoding string

const (
	EncodingJSON    Encoding = "json"
	EncodingMsgpack Encoding = "msgpack"
)

// ParseEncoding maps a query value onto an Encoding. Empty selects JSON.
func ParseEncoding(value string) (Encoding, bool) {
	switch Encoding(strings.ToLower(strings.TrimSpace(value))) {
	case "", EncodingJSON:
		return EncodingJSON, true
	case EncodingMsgpack:
		return EncodingMsgpack, true
	default:
		return "", false
	}
}

// Binary reports whether frames of this encoding go out as binary messages.
func (e Encoding) Binary() bool {
	return e == EncodingMsgpack
}

// ClientMessage captures an inbound websocket message from the client.
type ClientMessage struct {
	Type        string `json:"type"`
	UpgradeType string `json:"upgradeType,omitempty"`
	MetaType    string `json:"metaType,omitempty"`
	TargetID    *int   `json:"targetId,omitempty"`
}

// ServerMessage is the envelope of every outbound frame.
type ServerMessage struct {
	Type string          `json:"type"`
	Data world.GameState `json:"data"`
}

// DecodeClientMessage parses an inbound frame in the given encoding.
func DecodeClientMessage(enc Encoding, data []byte) (ClientMessage, error) {
	var msg ClientMessage
	var err error
	if enc == EncodingMsgpack {
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		err = dec.Decode(&msg)
	} else {
		err = json.Unmarshal(data, &msg)
	}
	if err != nil {
		return ClientMessage{}, fmt.Errorf("proto: decode client message: %w", err)
	}
	return msg, nil
}

// EncodeServerMessage renders an outbound frame.
func EncodeServerMessage(enc Encoding, msg ServerMessage) ([]byte, error) {
	if enc == EncodingMsgpack {
		var buf bytes.Buffer
		encoder := msgpack.NewEncoder(&buf)
		encoder.SetCustomStructTag("json")
		if err := encoder.Encode(&msg); err != nil {
			return nil, fmt.Errorf("proto: encode %s: %w", msg.Type, err)
		}
		return buf.Bytes(), nil
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("proto: encode %s: %w", msg.Type, err)
	}
	return data, nil
}

// ClientCommand converts a client message into a simulation command. Unknown
// message types report false.
func ClientCommand(msg ClientMessage) (sim.Command, bool) {
	switch msg.Type {
	case TypeStartWave:
		return sim.Command{Type: sim.CommandStartWave}, true
	case TypeRetry:
		return sim.Command{Type: sim.CommandRetry}, true
	case TypeUpgrade:
		return sim.Command{
			Type:    sim.CommandUpgrade,
			Upgrade: &sim.UpgradeCommand{Type: msg.UpgradeType},
		}, true
	case TypeMetaUpgrade:
		return sim.Command{
			Type:    sim.CommandBuyMeta,
			Upgrade: &sim.UpgradeCommand{Type: msg.MetaType},
		}, true
	case TypeCursorAttack:
		cmd := sim.Command{Type: sim.CommandCursorAttack}
		if msg.TargetID != nil {
			cmd.Cursor = &sim.CursorCommand{TargetID: *msg.TargetID}
		}
		return cmd, true
	default:
		return sim.Command{}, false
	}
}

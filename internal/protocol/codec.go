package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoType marks a datagram without a "type" discriminant.
var ErrNoType = errors.New("message has no type field")

// ErrUnknownType marks a datagram whose type the server does not handle.
var ErrUnknownType = errors.New("unknown message type")

// Decode parses one inbound datagram and returns either *Register or
// *Update. Undecodable bytes, a missing discriminant, and unknown types
// are all errors; the dispatcher drops those without reply.
func Decode(data []byte) (any, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	switch head.Type {
	case MsgTypeRegister:
		msg := &Register{}
		if err := json.Unmarshal(data, msg); err != nil {
			return nil, fmt.Errorf("decode register: %w", err)
		}
		return msg, nil
	case MsgTypeUpdate:
		msg := &Update{}
		if err := json.Unmarshal(data, msg); err != nil {
			return nil, fmt.Errorf("decode update: %w", err)
		}
		return msg, nil
	case "":
		return nil, ErrNoType
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, head.Type)
	}
}

// Encode marshals an outbound message.
func Encode(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return data, nil
}

// Package wire implements the JSON message envelope every framed message
// uses, and its type-dependent payloads.
package wire

import "encoding/json"

// Type is the message envelope's discriminator.
type Type string

const (
	TypeUpdate  Type = "update"
	TypeRevoke  Type = "revoke"
	TypeData    Type = "data"
	TypeNoRoute Type = "no route"
	TypeDump    Type = "dump"
	TypeTable   Type = "table"
)

// Message is the envelope every frame carries: src/dst endpoint addresses,
// a type, and a type-dependent payload carried as raw JSON until the
// dispatcher (router package) decodes it against the concrete payload type
// implied by Type.
type Message struct {
	Src  string          `json:"src"`
	Dst  string          `json:"dst"`
	Type Type            `json:"type"`
	Msg  json.RawMessage `json:"msg"`
}

// UpdatePayload is update.msg.
type UpdatePayload struct {
	Network    string `json:"network"`
	Netmask    string `json:"netmask"`
	LocalPref  uint32 `json:"localpref"`
	SelfOrigin bool   `json:"selfOrigin"`
	ASPath     []int  `json:"ASPath"`
	Origin     string `json:"origin"`
}

// RevokeEntry is one element of revoke.msg, an ordered list.
type RevokeEntry struct {
	Network string `json:"network"`
	Netmask string `json:"netmask"`
}

// RevokePayload is revoke.msg: an ordered list of revoked prefixes.
type RevokePayload []RevokeEntry

// DumpPayload is dump.msg: always empty.
type DumpPayload struct{}

// TableRow is one element of table.msg.
type TableRow struct {
	Network string `json:"network"`
	Netmask string `json:"netmask"`
	Peer    string `json:"peer"`
}

// TablePayload is table.msg: the current routes, reduced.
type TablePayload []TableRow

// NoRoutePayload is "no route".msg: always empty.
type NoRoutePayload struct{}

// Encode marshals a typed payload into the envelope's msg field.
func Encode(src, dst string, typ Type, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Src: src, Dst: dst, Type: typ, Msg: raw}, nil
}

// Decode unmarshals a full framed JSON message. A malformed frame (invalid
// JSON, missing required envelope field) is reported to the caller, which
// must skip it silently rather than reply.
func Decode(frame []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(frame, &m); err != nil {
		return Message{}, err
	}
	if m.Src == "" || m.Dst == "" || m.Type == "" {
		return Message{}, errMissingField
	}
	return m, nil
}

// Marshal serializes a Message back to its JSON frame for transmission.
func Marshal(m Message) ([]byte, error) {
	return json.Marshal(m)
}

type missingFieldError string

func (e missingFieldError) Error() string { return string(e) }

const errMissingField = missingFieldError("wire: message missing required field")

// Package wire implements the on-the-wire message envelope shared with the
// broker: an immutable Header + Body pair that interoperates with the
// reference implementation's header map and body encoding.
package wire

import (
	"github.com/google/uuid"
)

// MessageType discriminates the payload carried by a Message.
type MessageType string

const (
	// MessageTypeUnacceptable marks a message that failed tolerant parsing.
	MessageTypeUnacceptable MessageType = "unacceptable"
	// MessageTypeNone marks the absence of a message, e.g. a receive timeout.
	MessageTypeNone MessageType = "none"
	// MessageTypeCommand carries a serialized command request.
	MessageTypeCommand MessageType = "command"
	// MessageTypeEvent carries a serialized event request.
	MessageTypeEvent MessageType = "event"
	// MessageTypeQuit is the termination sentinel for a Channel/Pump.
	MessageTypeQuit MessageType = "quit"
)

const (
	defaultContentType = "text/plain"
	defaultBodyType    = "text/plain"
)

// Header carries routing and envelope metadata for a Message. Zero value is
// not meaningful; construct via NewHeader.
type Header struct {
	id            uuid.UUID
	topic         string
	messageType   MessageType
	correlationID uuid.UUID
	replyTo       string
	contentType   string
}

// NewHeader builds a Header. correlationID may be uuid.Nil to mean absent.
func NewHeader(id uuid.UUID, topic string, messageType MessageType, correlationID uuid.UUID, replyTo, contentType string) Header {
	if contentType == "" {
		contentType = defaultContentType
	}
	return Header{
		id:            id,
		topic:         topic,
		messageType:   messageType,
		correlationID: correlationID,
		replyTo:       replyTo,
		contentType:   contentType,
	}
}

func (h Header) ID() uuid.UUID              { return h.id }
func (h Header) Topic() string              { return h.topic }
func (h Header) MessageType() MessageType   { return h.messageType }
func (h Header) ContentType() string        { return h.contentType }
func (h Header) ReplyTo() string            { return h.replyTo }
func (h Header) CorrelationID() uuid.UUID   { return h.correlationID }
func (h Header) HasCorrelationID() bool     { return h.correlationID != uuid.Nil }

// Body carries the payload bytes and their declared MIME type.
type Body struct {
	payload  []byte
	bodyType string
}

// NewBody builds a Body. An empty bodyType defaults to "text/plain".
func NewBody(payload []byte, bodyType string) Body {
	if bodyType == "" {
		bodyType = defaultBodyType
	}
	return Body{payload: payload, bodyType: bodyType}
}

func (b Body) Payload() []byte   { return b.payload }
func (b Body) BodyType() string  { return b.bodyType }
func (b Body) Text() string      { return string(b.payload) }
func (b Body) Len() int          { return len(b.payload) }

// Message is the immutable Wire Message envelope: a Header plus a Body.
// Once constructed via New, neither field can be mutated.
type Message struct {
	header Header
	body   Body
}

// New constructs an immutable Message from a Header and Body.
func New(header Header, body Body) *Message {
	return &Message{header: header, body: body}
}

func (m *Message) Header() Header { return m.header }
func (m *Message) Body() Body     { return m.body }

// IsQuit reports whether this message is the termination sentinel.
func (m *Message) IsQuit() bool {
	return m.header.messageType == MessageTypeQuit
}

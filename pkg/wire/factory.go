package wire

import (
	"github.com/brightside-go/brightside/pkg/errors"
	"github.com/google/uuid"
)

// Header map keys, exact strings, case-sensitive, as carried over the wire.
const (
	HeaderMessageType         = "MessageType"
	HeaderMessageID           = "MessageId"
	HeaderCorrelationID       = "CorrelationId"
	HeaderTopic               = "Topic"
	HeaderHandledCount        = "HandledCount"
	HeaderDelay               = "x-delay"
	HeaderOriginalMessageID   = "x-original-message-id"
	HeaderDeliveryTag         = "DeliveryTag"
)

// RawMessage is the tolerant input to Parse: a vendor-specific received
// message flattened into the fields the factory understands.
type RawMessage struct {
	Headers     map[string]string
	RoutingKey  string
	ContentType string
	Body        []byte
}

// Parse converts a vendor-specific received message into a Message,
// following the robustness principle: a missing or malformed required
// header never fails the parse, it substitutes a safe default and the
// result is tagged unacceptable so downstream consumers can filter on it.
func Parse(raw RawMessage) *Message {
	ok := true

	id, err := uuid.Parse(raw.Headers[HeaderMessageID])
	if err != nil {
		id = uuid.New()
		ok = false
	}

	topic := raw.Headers[HeaderTopic]
	if topic == "" {
		topic = raw.RoutingKey
	}
	if topic == "" {
		ok = false
	}

	messageType := MessageType(raw.Headers[HeaderMessageType])
	switch messageType {
	case MessageTypeCommand, MessageTypeEvent, MessageTypeQuit, MessageTypeNone:
		// recognized
	default:
		ok = false
	}

	var correlationID uuid.UUID
	if raw := raw.Headers[HeaderCorrelationID]; raw != "" {
		if parsed, err := uuid.Parse(raw); err == nil {
			correlationID = parsed
		}
	}

	if !ok {
		return New(
			NewHeader(id, "", MessageTypeUnacceptable, correlationID, "", raw.ContentType),
			NewBody(nil, ""),
		)
	}

	header := NewHeader(id, topic, messageType, correlationID, "", raw.ContentType)
	body := NewBody(unquote(raw.Body), raw.ContentType)
	return New(header, body)
}

// unquote strips exactly one layer of outer quoting added by the producing
// ecosystem: a single leading and trailing quote character, but only when
// both are present and match.
func unquote(b []byte) []byte {
	if len(b) < 2 {
		return b
	}
	first, last := b[0], b[len(b)-1]
	if (first == '"' || first == '\'') && first == last {
		return b[1 : len(b)-1]
	}
	return b
}

// Encode builds the outgoing header map from a Message. MessageId and
// MessageType are mandatory; absence of either is an internal invariant
// violation (the Message was built illegally) and yields MessagingError.
// CorrelationId is included only when present.
func Encode(msg *Message) (map[string]string, error) {
	h := msg.Header()

	if h.ID() == uuid.Nil {
		return nil, errors.Messaging("wire message missing required MessageId")
	}
	if h.MessageType() == "" {
		return nil, errors.Messaging("wire message missing required MessageType")
	}

	headers := map[string]string{
		HeaderMessageID:   h.ID().String(),
		HeaderMessageType: string(h.MessageType()),
	}
	if h.Topic() != "" {
		headers[HeaderTopic] = h.Topic()
	}
	if h.HasCorrelationID() {
		headers[HeaderCorrelationID] = h.CorrelationID().String()
	}
	return headers, nil
}

// Quit produces a fresh termination sentinel: empty topic, empty body,
// messageType = quit.
func Quit() *Message {
	header := NewHeader(uuid.New(), "", MessageTypeQuit, uuid.Nil, "", "")
	return New(header, NewBody(nil, ""))
}

// None constructs the timeout-signalling Message returned by Consumer.Receive.
func None() *Message {
	header := NewHeader(uuid.New(), "", MessageTypeNone, uuid.Nil, "", "")
	return New(header, NewBody(nil, ""))
}

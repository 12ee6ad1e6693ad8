package wire

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Serializable is implemented by request types so they can be turned into a
// Wire Message body without reflecting over their fields. This replaces the
// reflection-based attribute-dictionary serialisation of the original
// ecosystem: each request variant exposes its own canonical encoding.
type Serializable interface {
	Serialize() (payload []byte, bodyType string, err error)
}

// Identity wraps a uuid.UUID so it round-trips through JSON as canonical
// text, the way the serialiser contract requires 128-bit identities to be
// written.
type Identity uuid.UUID

func (id Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(uuid.UUID(id).String())
}

func (id *Identity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*id = Identity(parsed)
	return nil
}

// ProbeIdentity reports whether s is valid identity syntax, and if so
// returns the parsed value. Used on deserialise to rehydrate string fields
// that look like identities.
func ProbeIdentity(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// MarshalCanonical marshals v to JSON, the canonical serialiser used for
// object → mapping of public attribute name to value. Callers that want
// identity probing on decode should decode into a map[string]any and run
// ProbeIdentity over string values themselves; this helper covers the
// common encode path used by Serializable implementations.
func MarshalCanonical(v any) ([]byte, error) {
	return json.Marshal(v)
}

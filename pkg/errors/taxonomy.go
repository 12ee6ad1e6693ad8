package errors

// Error codes for the command-dispatch and broker-gateway taxonomy:
// ConfigurationError, MessagingError, ChannelFailureError,
// CircuitBrokenError. Transient broker errors are never surfaced under
// their own code. They are consumed by the retry policy and escalated to
// CodeChannelFailure on exhaustion.
const (
	CodeConfiguration  = "CONFIGURATION_ERROR"
	CodeMessaging      = "MESSAGING_ERROR"
	CodeChannelFailure = "CHANNEL_FAILURE_ERROR"
	CodeCircuitBroken  = "CIRCUIT_BROKEN_ERROR"
)

// Configuration reports a missing/duplicate registration, a missing
// producer or mapper for post, or a bad decorator target.
func Configuration(message string) *AppError {
	return New(CodeConfiguration, message, nil)
}

// Messaging reports a broken framework invariant, typically a required
// Wire Header field missing during encode.
func Messaging(message string) *AppError {
	return New(CodeMessaging, message, nil)
}

// ChannelFailure reports a broker interaction that failed after the retry
// policy was exhausted. It wraps the underlying transport error.
func ChannelFailure(cause error) *AppError {
	return New(CodeChannelFailure, "broker interaction failed after retries", cause)
}

// CircuitBroken reports that the named circuit breaker is open and is
// rejecting calls without invoking the wrapped handler.
func CircuitBroken(name string) *AppError {
	return New(CodeCircuitBroken, "circuit breaker \""+name+"\" is open", nil)
}

// IsConfiguration reports whether err is (or wraps) a ConfigurationError.
func IsConfiguration(err error) bool { return Is(err, CodeConfiguration) }

// IsChannelFailure reports whether err is (or wraps) a ChannelFailureError.
func IsChannelFailure(err error) bool { return Is(err, CodeChannelFailure) }

// IsCircuitBroken reports whether err is (or wraps) a CircuitBrokenError.
func IsCircuitBroken(err error) bool { return Is(err, CodeCircuitBroken) }

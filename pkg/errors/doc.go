/*
Package errors provides structured error handling for the module.

It defines a standard AppError type that includes:
  - Error Code (standardized strings like CONFIGURATION_ERROR, CHANNEL_FAILURE_ERROR)
  - Message (human-readable description)
  - Underlying Error (chaining)

taxonomy.go layers the command-dispatch/broker-gateway error taxonomy
(ConfigurationError, MessagingError, ChannelFailureError, CircuitBrokenError)
on top of the generic AppError defined here.
*/
package errors

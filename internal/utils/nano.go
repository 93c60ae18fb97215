package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	SessionIDSize = 32
	RequestIDSize = 12

	sessionIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	requestIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// SessionID names a row in the server-side session table. It is only ever
// sent to the browser inside the encrypted session cookie.
func SessionID() (string, error) {
	return gonanoid.Generate(sessionIDAlphabet, SessionIDSize)
}

// RequestID tags every log line of one request.
func RequestID() string {
	return gonanoid.MustGenerate(requestIDAlphabet, RequestIDSize)
}

package server

// Client is one connected subscriber. The session loop reads commands from it while
// broadcasts write to it from other goroutines, so writes must be safe for concurrent use.
type Client interface {
	// ReadLine blocks until a non-empty command line arrives.
	ReadLine() (string, error)

	// WriteLine sends one text message.
	WriteLine(message string) error

	// Write sends raw bytes as one text message.
	Write(data []byte) error

	Close() error

	// RemoteAddr returns the client's address for logging.
	RemoteAddr() string
}

package interfaces

// Service is the lifecycle of the daemon's network interfaces. Start must not
// block, Stop gracefully drains in-flight requests.
type Service interface {
	Start() error
	Stop()
}

package serviceiface

// Service is a long-running component managed by the app manager.
// Start must not block; servers run in their own goroutine.
type Service interface {
	Name() string
	Start() error
	Stop() error
}

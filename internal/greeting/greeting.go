// Package greeting holds the service's only piece of business logic: the
// fixed greeting returned from the root endpoint.
package greeting

// Message is the greeting returned by Greet.  It never changes at runtime.
const Message = "Hello Devops ..."

// Service answers greeting requests.  It carries no state, so a single value
// can be shared by every request goroutine.
type Service struct{}

// New returns a ready to use Service.
func New() *Service {
	return &Service{}
}

// Greet returns Message.
func (s *Service) Greet() string {
	return Message
}

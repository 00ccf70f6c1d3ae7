package relink

type (
	// Notifier receives user-facing notices about degraded operation,
	// such as attempting to send over a closed connection or running out
	// of reconnection attempts. Implementations forward them to whatever
	// surface the application exposes.
	Notifier interface {
		Warn(msg string)
		Error(msg string)
	}

	noopNotifier struct{}
)

// NewNoopNotifier returns a Notifier that discards every notice. It is the
// default when no notifier is configured.
func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) Warn(string)  {}
func (noopNotifier) Error(string) {}

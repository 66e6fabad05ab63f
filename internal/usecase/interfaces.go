package usecase

// Publisher forwards reconciled state changes to whatever renders them.
// Satisfied by the widget stream hub; tests plug in a recorder.
type Publisher interface {
	Publish(event string, data interface{})
}

// NopPublisher discards every update. The usecase constructors fall back to
// it when no widget surface is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(event string, data interface{}) {}

package service

// Publisher receives marketplace events. *events.Hub satisfies it.
type Publisher interface {
	Publish(eventType string, data any)
}

// publish is a no-op when p is nil.
func publish(p Publisher, eventType string, data any) {
	if p != nil {
		p.Publish(eventType, data)
	}
}

// directPublisher can address a single user. *events.Hub implements it.
type directPublisher interface {
	PublishTo(username, eventType string, data any)
}

// notify delivers to one user when p supports it and drops the event otherwise.
func notify(p Publisher, username, eventType string, data any) {
	if d, ok := p.(directPublisher); ok && username != "" {
		d.PublishTo(username, eventType, data)
	}
}

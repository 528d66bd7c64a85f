package ecs

// System represents a behavior that operates on entities with specific components.
// Systems can include Query and Singleton fields, which the Scheduler binds on
// registration, as well as custom state fields that persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// Exiter is implemented by systems that hold external resources
// (pointer lock, sound handles) which must be released when the owning state exits.
type Exiter interface {
	Exit()
}

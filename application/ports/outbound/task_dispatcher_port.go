package outbound

// TaskDispatcher submits work onto a bounded worker pool. Satisfied by
// *ants.Pool.
type TaskDispatcher interface {
	Submit(task func()) error
}

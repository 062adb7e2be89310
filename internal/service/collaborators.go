package service

// Notifier receives fire-and-forget user notifications. Implementations
// must never block the caller.
type Notifier interface {
	Alert(message string)
}

// Confirmer asks the user to approve a destructive action before it
// runs. A false return is a full no-op for the operation that asked.
type Confirmer interface {
	Confirm(prompt, details string) bool
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

func (f NotifierFunc) Alert(message string) { f(message) }

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt, details string) bool

func (f ConfirmerFunc) Confirm(prompt, details string) bool { return f(prompt, details) }

// NopNotifier discards notifications. Used where the transport already
// reports outcomes in its responses.
var NopNotifier = NotifierFunc(func(string) {})

// AlwaysConfirm approves every destructive action. The HTTP transport
// uses it: issuing a DELETE is the confirmation.
var AlwaysConfirm = ConfirmerFunc(func(string, string) bool { return true })

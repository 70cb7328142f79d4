package service

// Actor is the authenticated caller as established by the auth middleware:
// identity plus role set. Services gate mutations on it rather than reaching
// back into transport concerns.
type Actor struct {
	ID    uint
	Name  string
	Roles []string
}

package directory

// Balancer picks one instance from a room's instance list.
type Balancer interface {
	Pick(instances []Instance) (*Instance, error)
	Name() string
}

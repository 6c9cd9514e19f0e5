package lifetime

// Lifetime controls how long a constructed instance lives. Singleton
// instances are cached in the scope that owns their binding; Transient
// instances are built on every resolution and never cached.
type Lifetime int

const (
	Singleton Lifetime = iota
	Transient
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

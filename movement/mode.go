package movement

// Mode is the movement mode of a component. It decides which physics step runs each tick.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeWalking
	ModeNavWalking
	ModeFalling
	ModeSwimming
	ModeFlying
	ModeCustom
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeWalking:
		return "walking"
	case ModeNavWalking:
		return "nav_walking"
	case ModeFalling:
		return "falling"
	case ModeSwimming:
		return "swimming"
	case ModeFlying:
		return "flying"
	case ModeCustom:
		return "custom"
	}
	return "unknown"
}

// Grounded returns true for the modes that move along a floor.
func (m Mode) Grounded() bool {
	return m == ModeWalking || m == ModeNavWalking
}

// Role is the network role a component simulates under.
type Role uint8

const (
	// RoleAuthority runs each move once, for real, on the server.
	RoleAuthority Role = iota
	// RoleAutonomousProxy is the owning client predicting ahead of the server.
	RoleAutonomousProxy
	// RoleSimulatedProxy is a non-owning copy driven only by replicated state.
	RoleSimulatedProxy
)

func (r Role) String() string {
	switch r {
	case RoleAuthority:
		return "authority"
	case RoleAutonomousProxy:
		return "autonomous_proxy"
	case RoleSimulatedProxy:
		return "simulated_proxy"
	}
	return "unknown"
}

package domain

// Stone represents the content of a board cell.
type Stone uint8

const (
	Outside Stone = iota
	Empty
	DarkStone
	LightStone
)

// Opposite returns the other color. Empty and Outside map to themselves.
func (s Stone) Opposite() Stone {
	switch s {
	case DarkStone:
		return LightStone
	case LightStone:
		return DarkStone
	default:
		return s
	}
}

// IsColor reports whether s is a placed stone.
func (s Stone) IsColor() bool { return s == DarkStone || s == LightStone }

func (s Stone) String() string {
	switch s {
	case Outside:
		return "outside"
	case Empty:
		return "empty"
	case DarkStone:
		return "dark"
	case LightStone:
		return "light"
	default:
		return "unknown"
	}
}

// Side is one of the two players.
type Side uint8

const (
	Dark Side = iota
	Light
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Dark {
		return Light
	}
	return Dark
}

// Stone returns the stone color placed by s.
func (s Side) Stone() Stone {
	if s == Dark {
		return DarkStone
	}
	return LightStone
}

func (s Side) String() string {
	if s == Dark {
		return "dark"
	}
	return "light"
}

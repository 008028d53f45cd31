package engine

// Mode identifies one of the supported workout timing protocols.
type Mode string

const (
	ModeAMRAP   Mode = "amrap"
	ModeEMOM    Mode = "emom"
	ModeForTime Mode = "fortime"
	ModeTabata  Mode = "tabata"
	ModeCustom  Mode = "custom"
)

// Descriptor carries the display metadata for a mode.
type Descriptor struct {
	Mode        Mode
	Label       string
	Icon        string
	Color       string
	Description string
}

var descriptors = []Descriptor{
	{ModeAMRAP, "AMRAP", "∞", "203", "As many rounds as possible in a fixed time"},
	{ModeEMOM, "EMOM", "◷", "214", "Every minute on the minute"},
	{ModeForTime, "For Time", "↑", "82", "Finish the work, clock counts up to a cap"},
	{ModeTabata, "Tabata", "▮▯", "169", "20s work / 10s rest, eight rounds"},
	{ModeCustom, "Custom", "⚙", "69", "Your own work/rest intervals"},
}

// Modes returns the mode descriptors in display order.
func Modes() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Describe returns the descriptor for a mode, falling back to AMRAP
// for unknown values.
func Describe(m Mode) Descriptor {
	for _, d := range descriptors {
		if d.Mode == m {
			return d
		}
	}
	return descriptors[0]
}

// Valid reports whether m names a known mode.
func Valid(m Mode) bool {
	for _, d := range descriptors {
		if d.Mode == m {
			return true
		}
	}
	return false
}

// DefaultConfig returns the preset configuration for a mode. Changing
// mode always starts from this preset; edits are applied on top by the
// caller.
func DefaultConfig(m Mode) Config {
	switch m {
	case ModeEMOM:
		return Config{Mode: m, TotalSeconds: 600, Intervals: 10, Rounds: 1, WorkSeconds: 1, RestSeconds: 1, CountUp: true}
	case ModeForTime:
		return Config{Mode: m, TotalSeconds: 900, Intervals: 1, Rounds: 1, WorkSeconds: 1, RestSeconds: 1, CountUp: true}
	case ModeTabata:
		return Config{Mode: m, TotalSeconds: 240, WorkSeconds: 20, RestSeconds: 10, Rounds: 8, Intervals: 1}
	case ModeCustom:
		return Config{Mode: m, TotalSeconds: 600, WorkSeconds: 40, RestSeconds: 20, Rounds: 10, Intervals: 1}
	default:
		return Config{Mode: ModeAMRAP, TotalSeconds: 720, Intervals: 1, Rounds: 1, WorkSeconds: 1, RestSeconds: 1}
	}
}

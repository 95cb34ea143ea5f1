package emission

// TransportMode is the closed set of modes the engine can price.
type TransportMode int

const (
	ModeUnknown TransportMode = iota
	ModeWalking
	ModeBicycle
	ModeCar
	ModeMotorcycle
	ModeBus
	ModeTrain
)

// strategy selects how a mode resolves its emission factor.
type strategy int

const (
	strategyNone strategy = iota
	// category + human/na
	strategyHumanPowered
	// category + the vehicle's own fuel and engine size
	strategyPersonalVehicle
	// category alone, one representative row per mode
	strategyPublicTransport
)

var modeNames = map[TransportMode]string{
	ModeWalking:    "walking",
	ModeBicycle:    "bicycle",
	ModeCar:        "car",
	ModeMotorcycle: "motorcycle",
	ModeBus:        "bus",
	ModeTrain:      "train",
}

// modeAliases maps normalized input to a mode. motorbike is a synonym.
var modeAliases = map[string]TransportMode{
	"walking":    ModeWalking,
	"bicycle":    ModeBicycle,
	"car":        ModeCar,
	"motorcycle": ModeMotorcycle,
	"motorbike":  ModeMotorcycle,
	"bus":        ModeBus,
	"train":      ModeTrain,
}

var modeStrategies = map[TransportMode]strategy{
	ModeWalking:    strategyHumanPowered,
	ModeBicycle:    strategyHumanPowered,
	ModeCar:        strategyPersonalVehicle,
	ModeMotorcycle: strategyPersonalVehicle,
	ModeBus:        strategyPublicTransport,
	ModeTrain:      strategyPublicTransport,
}

// ParseMode normalizes s and returns its mode, or ModeUnknown.
func ParseMode(s string) TransportMode {
	return modeAliases[Normalize(s)]
}

// Category is the vehicleCategory value this mode is stored under.
func (m TransportMode) Category() string {
	return modeNames[m]
}

func (m TransportMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

func (m TransportMode) strategy() strategy {
	return modeStrategies[m]
}

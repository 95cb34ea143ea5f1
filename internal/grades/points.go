package grades

import (
	"math"
	"math/rand"
	"strings"
)

// DefaultMotivation is shown to users who have not earned points yet.
const DefaultMotivation = "Start your journey!"

var modeMultipliers = map[string]float64{
	"walk":      10,
	"bicycle":   10,
	"bus":       5,
	"train":     5,
	"metro":     5,
	"tram":      5,
	"ev":        3,
	"carpool":   3,
	"car":       0,
	"motorbike": 0,
	"flight":    0,
}

var motivations = [...]string{
	"You're off to a great start! Keep it up!",
	"You're doing great! Keep it up!",
	"You're doing great! Keep it up!",
	"Great Job..!",
	"Keep it up..!",
	"Every sustainable trip is a step toward a cleaner planet.",
	"Small travel choices create big environmental impact.",
	"Choose smarter routes, not just faster ones.",
	"Your journey matters, for you and the planet.",
	"Reducing emissions starts with everyday decisions.",
	"Travel light on the Earth, travel strong in impact.",
	"Sustainability begins the moment you move.",
	"One eco-friendly trip can inspire many more.",
	"Cleaner transport today means healthier cities tomorrow.",
	"Every kilometer saved is a win for the environment.",
	"Your travel choices shape the world you live in.",
	"Sustainable journeys lead to sustainable futures.",
	"Think beyond distance, think about impact.",
	"The greenest route is often the smartest one.",
	"Better transport choices build a better planet.",
	"Every low-carbon trip counts.",
	"Travel responsibly, inspire change silently.",
	"You're not just moving, you're making a difference.",
	"Progress begins with conscious travel.",
	"Choose sustainability, one trip at a time.",
}

// Points is distance times the mode multiplier, rounded half away from zero.
// Unknown modes score zero. The result is clamped to [0, math.MaxInt64].
func Points(mode string, distanceKm float64) int64 {
	m := modeMultipliers[strings.ToLower(strings.TrimSpace(mode))]
	p := math.Round(distanceKm * m)
	switch {
	case math.IsNaN(p) || p <= 0:
		return 0
	case p >= math.MaxInt64:
		return math.MaxInt64
	}
	return int64(p)
}

// Motivation picks one of the fixed messages using intn.
func Motivation(intn func(int) int) string {
	if intn == nil {
		intn = rand.Intn
	}
	return motivations[intn(len(motivations))]
}

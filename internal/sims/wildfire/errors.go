package wildfire

import "errors"

var (
	// ErrUnknownRule reports a rule name missing from the registry.
	ErrUnknownRule = errors.New("unknown propagation rule")
	// ErrDimension reports an input matrix that does not match the grid.
	ErrDimension = errors.New("grid dimension mismatch")
	// ErrNoFuel reports a grid whose maximum rate of spread is zero, which
	// would make every normalised rule divide by zero.
	ErrNoFuel = errors.New("maximum rate of spread is zero")
	// ErrWeather reports a step whose day has no weather row.
	ErrWeather = errors.New("weather table exhausted")
	// ErrRain reports a failure loading the day's rain matrix.
	ErrRain = errors.New("rain data unavailable")
)

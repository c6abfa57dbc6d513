package radiostation

import "errors"

var (
	// ErrAlreadyInitialized is returned by Scope.Init while a previous
	// station is still live in the same scope.
	ErrAlreadyInitialized = errors.New("radiostation: station already initialized in this scope")

	// ErrReentrantAccess is returned when a goroutine requests a guard
	// that conflicts with a guard it already holds on the same station.
	ErrReentrantAccess = errors.New("radiostation: goroutine already holds a guard on this station")

	// ErrUnknownSubscriber is returned when an operation references a
	// subscriber id that is not in the registry, typically a double
	// dispose or use after dispose.
	ErrUnknownSubscriber = errors.New("radiostation: unknown subscriber id")

	// ErrTornDown is returned by operations on a station after teardown.
	ErrTornDown = errors.New("radiostation: station has been torn down")
)

package bootstrap

// State is a step of the bootstrap sequence.
type State int

const (
	StateStarting State = iota
	StateHealthBound
	StateCleaning
	StateIdentityReady
	StateConfigWritten
	StateFetchingPrimary
	StateFetchingBackup
	StateLaunched
	StateScheduled

	StateFetchFailed
	StateLaunchFailed
	StateStorageFailed
)

var stateNames = map[State]string{
	StateStarting:        "starting",
	StateHealthBound:     "health_bound",
	StateCleaning:        "cleaning",
	StateIdentityReady:   "identity_ready",
	StateConfigWritten:   "config_written",
	StateFetchingPrimary: "fetching_primary",
	StateFetchingBackup:  "fetching_backup",
	StateLaunched:        "launched",
	StateScheduled:       "scheduled",
	StateFetchFailed:     "fetch_failed",
	StateLaunchFailed:    "launch_failed",
	StateStorageFailed:   "storage_failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Failed reports whether s is a terminal failure.
func (s State) Failed() bool {
	return s == StateFetchFailed || s == StateLaunchFailed || s == StateStorageFailed
}

// Terminal reports whether the sequence can make no further progress.
func (s State) Terminal() bool {
	return s == StateScheduled || s.Failed()
}

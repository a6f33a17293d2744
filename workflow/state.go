package workflow

import "fmt"

// State is a step of a signing workflow.
type State int

const (
	Idle State = iota
	DeviceDiscovery
	PublicKeyRetrieval
	BalanceFetch
	Build
	Sign
	Attach
	Broadcast
	Done
	Failed
)

var stateNames = [...]string{
	Idle:               "idle",
	DeviceDiscovery:    "device_discovery",
	PublicKeyRetrieval: "public_key_retrieval",
	BalanceFetch:       "balance_fetch",
	Build:              "build",
	Sign:               "sign",
	Attach:             "attach",
	Broadcast:          "broadcast",
	Done:               "done",
	Failed:             "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// StepError is the terminal failure of a workflow. State is the step that
// failed and Err the reason.
type StepError struct {
	State State
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("workflow: %s: %v", e.State, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

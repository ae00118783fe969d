package submission

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle position of one form instance.
type State string

// Submission states. Transitions:
// idle --submit--> submitting --ok--> succeeded --timeout--> idle
// submitting --error--> failed --retry--> submitting
const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Domain errors
var (
	ErrInFlight  = errors.New("a submission is already in flight for this form")
	ErrCompleted = errors.New("this form has already been submitted")
	ErrNotActive = errors.New("no submission is in flight")
)

// ValidationError reports required fields that were left empty. It is raised
// before any transition to submitting, so a validation failure never issues
// a network call.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "required fields missing: " + strings.Join(e.Missing, ", ")
}

// ValidateRequired checks that every required field has a non-blank value.
// POST: Returns *ValidationError listing all missing fields, or nil
func ValidateRequired(values map[string]string, required []string) error {
	var missing []string
	for _, name := range required {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Machine drives a single form instance through its lifecycle. One machine
// exists per mounted form and is never shared across instances. All methods
// are safe for concurrent use; entering submitting is exclusive, so rapid
// duplicate submits produce exactly one backend call.
type Machine struct {
	ID      string
	Form    string
	Created time.Time

	mu         sync.Mutex
	state      State
	failReason string
	effectDone bool
	abandoned  bool
}

// NewMachine creates an idle machine for the named form.
func NewMachine(form string) *Machine {
	return &Machine{
		ID:      uuid.New().String(),
		Form:    form,
		Created: time.Now(),
		state:   StateIdle,
	}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// FailReason returns the human-readable reason of the last failure.
func (m *Machine) FailReason() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failReason
}

// Begin transitions idle or failed into submitting.
// POST: On nil return the caller owns the single in-flight submission
func (m *Machine) Begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case StateSubmitting:
		return ErrInFlight
	case StateSucceeded:
		return ErrCompleted
	}
	m.state = StateSubmitting
	m.failReason = ""
	return nil
}

// Succeed marks the in-flight submission as succeeded.
// If the machine was abandoned while the request was in flight the result
// is discarded and the machine stays inert.
func (m *Machine) Succeed() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.abandoned {
		return nil
	}
	if m.state != StateSubmitting {
		return ErrNotActive
	}
	m.state = StateSucceeded
	return nil
}

// Fail marks the in-flight submission as failed with a user-facing reason.
// Entered field values are the caller's to keep; failing the machine must
// not erase them.
func (m *Machine) Fail(reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.abandoned {
		return nil
	}
	if m.state != StateSubmitting {
		return ErrNotActive
	}
	m.state = StateFailed
	m.failReason = reason
	return nil
}

// ConsumeSideEffect reports whether the success side effect (close modal,
// reset fields, redirect) should fire now. It returns true exactly once per
// successful submission, no matter how often the success state is re-rendered.
func (m *Machine) ConsumeSideEffect() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateSucceeded || m.effectDone {
		return false
	}
	m.effectDone = true
	return true
}

// Reset returns a succeeded or failed machine to idle, ready for reuse.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateSubmitting {
		return
	}
	m.state = StateIdle
	m.failReason = ""
	m.effectDone = false
}

// Abandon marks the machine as unmounted. A response arriving afterwards is
// discarded; the request itself is not aborted over the wire.
func (m *Machine) Abandon() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.abandoned = true
}

// Abandoned reports whether the machine was unmounted.
func (m *Machine) Abandoned() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.abandoned
}

// String implements fmt.Stringer for log output.
func (m *Machine) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("%s[%s]=%s", m.Form, m.ID, m.state)
}

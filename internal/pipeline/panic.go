package pipeline

import "fmt"

// panicError converts a recovered stage panic into an ordinary error so the
// orchestrator's boolean-result contract holds even for programming errors.
type panicError struct {
	stage string
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("stage %s panicked: %v", e.stage, e.value)
}

package invoker

import (
	"time"

	"github.com/zen-systems/specroute/pkg/adapter"
)

// Result captures one specialist invocation. Numeric fields default to
// zero when the backend does not report them; a zero is "unknown", not
// an error. Results are never mutated after construction.
type Result struct {
	// Response is the cleaned generated text, or an error marker string
	// when the invocation failed. Check Failed, not the text.
	Response string                 `json:"response"`
	Meta     adapter.GenerationMeta `json:"meta"`

	// Failed is set for transport errors and gate timeouts. These are
	// soft failures; the benchmark run continues.
	Failed bool   `json:"failed,omitempty"`
	Error  string `json:"error,omitempty"`

	// Overloaded marks a server-side load rejection (429/503), counted
	// separately from client-side gate timeouts.
	Overloaded bool `json:"overloaded,omitempty"`

	// GateWait is how long the invocation waited for a concurrency
	// slot; GateTimeout is set when the wait hit the hard limit.
	GateWait    time.Duration `json:"gate_wait,omitempty"`
	GateTimeout bool          `json:"gate_timeout,omitempty"`
}

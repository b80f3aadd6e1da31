// Package ir defines the canonical three-address tree IR: Exp, Stm, the
// tri-modal Tree value translate produces expressions as, and the Label and
// Temp identifiers that thread through both the translator and the tiler.
package ir

import (
	"fmt"
	"sync/atomic"
)

// Label is an opaque jump target. LabelFromFixed gives a guaranteed external
// name (e.g. "main", "malloc"); LabelFromStr mints a fresh, monotonically
// unique one for internal control flow.
type Label struct {
	name string
}

func (l Label) String() string { return l.name }

var labelCounter uint64

// LabelFromFixed returns a label with a guaranteed deterministic external
// name, used for externs and user function entry points.
func LabelFromFixed(name string) Label { return Label{name: name} }

// LabelFromStr mints a fresh label; hint appears in the name for
// readability but plays no role in identity.
func LabelFromStr(hint string) Label {
	n := atomic.AddUint64(&labelCounter, 1)
	return Label{name: fmt.Sprintf("%s.%d", hint, n)}
}

// ResetLabelCounter reseeds label freshness to zero. Tests use this to get
// deterministic label names across runs; production call sites never need
// it since freshness only has to hold within one invocation.
func ResetLabelCounter() { atomic.StoreUint64(&labelCounter, 0) }

// Package convergence decides whether an interface's live configuration matches its desired
// configuration and, when asked, brings it back in line through an injected applier.
package convergence

import (
	"github.com/google/go-cmp/cmp"

	"golang-ifupdown/internal/pkg/iface"
)

// SyncStatus is the result of comparing desired and live configuration.
type SyncStatus string

const (
	InSync    SyncStatus = "insync"
	OutOfSync SyncStatus = "outofsync"
)

func (s SyncStatus) String() string {
	return string(s)
}

// Compare reports InSync when live is structurally equal to desired. Sequence attributes are
// compared in order. A nil live config (nothing on the system) is OutOfSync.
func Compare(desired, live *iface.Config) SyncStatus {
	if len(Diff(desired, live)) == 0 {
		return InSync
	}
	return OutOfSync
}

// Diff lists the attributes whose presence or value differs between desired and live.
func Diff(desired, live *iface.Config) []string {
	var out []string
	for _, name := range iface.AttributeNames() {
		dv, dok := desired.Value(name)
		lv, lok := live.Value(name)
		if dok != lok || !cmp.Equal(dv, lv) {
			out = append(out, name)
		}
	}
	return out
}

// Report renders the drift between live and desired for humans; "-" lines are live values
// and "+" lines are desired values.
func Report(desired, live *iface.Config) string {
	var liveAttrs map[string]interface{}
	if live != nil {
		liveAttrs = live.Attributes()
	}
	return cmp.Diff(liveAttrs, desired.Attributes())
}

package redistribution

import (
	"fmt"
	"strings"
)

type Policy uint8

const (
	NoRedist Policy = iota
	FluxRedist
	StateRedist
	NewStateRedist // Weighted state redistribution
)

var (
	PolicyNames = map[string]Policy{
		"noredist":       NoRedist,
		"none":           NoRedist,
		"fluxredist":     FluxRedist,
		"flux":           FluxRedist,
		"stateredist":    StateRedist,
		"state":          StateRedist,
		"srd":            StateRedist,
		"newstateredist": NewStateRedist,
		"newstate":       NewStateRedist,
		"wsrd":           NewStateRedist,
	}
	PolicyPrintNames = []string{
		"NoRedist",
		"FluxRedist",
		"StateRedist",
		"NewStateRedist",
	}
	PolicyDescriptions = []string{
		"No redistribution, the update passes through",
		"Volume weighted flux redistribution",
		"State redistribution over merged neighborhoods",
		"Weighted state redistribution, blend weights from the target volume fraction",
	}
)

func (p Policy) String() string {
	if int(p) < len(PolicyPrintNames) {
		return PolicyPrintNames[p]
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

func (p Policy) Print() string {
	return fmt.Sprintf("%s: %s", p.String(), PolicyDescriptions[p])
}

// IsState is true for the policies built on merged neighborhoods
func (p Policy) IsState() bool { return p == StateRedist || p == NewStateRedist }

func NewPolicy(label string) (p Policy) {
	var (
		ok  bool
		err error
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if p, ok = PolicyNames[label]; !ok {
		err = fmt.Errorf("unable to use redistribution policy named [%s]", label)
		panic(err)
	}
	return
}

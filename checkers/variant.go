package checkers

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// ErrUnknownVariant is returned by Lookup for names not in the registry.
var ErrUnknownVariant = errors.New("checkers: unknown rules variant")

// A CaptureRule constrains which of a player's moves are legal when some of
// them capture.
type CaptureRule uint8

const (
	// NoConstraints leaves the choice between captures and plain moves free.
	NoConstraints CaptureRule = iota
	// MustCapture forbids plain moves while any capture is available.
	MustCapture
	// MustMaximiseCapture only allows captures starting the longest chain.
	MustMaximiseCapture
)

var captureRuleNames = [...]string{
	NoConstraints:       "no constraints",
	MustCapture:         "must capture",
	MustMaximiseCapture: "must maximise capture",
}

// String implements the fmt.Stringer interface.
func (c CaptureRule) String() string {
	if int(c) < len(captureRuleNames) {
		return captureRuleNames[c]
	}
	return "unknown"
}

// A Variant is an immutable set of checkers rules. Boards are square.
type Variant struct {
	Name            string
	Size            int
	BackwardCapture bool // men may capture backwards
	FlyingKings     bool // crowned kings slide any distance
	Capture         CaptureRule
}

var (
	American      = Variant{Name: "American Checkers", Size: 8, Capture: MustCapture}
	Brazilian     = Variant{Name: "Brazilian Draughts", Size: 8, BackwardCapture: true, FlyingKings: true, Capture: MustMaximiseCapture}
	Canadian      = Variant{Name: "Canadian Draughts", Size: 12, BackwardCapture: true, FlyingKings: true, Capture: MustMaximiseCapture}
	International = Variant{Name: "International Draughts", Size: 10, BackwardCapture: true, FlyingKings: true, Capture: MustMaximiseCapture}
	Pool          = Variant{Name: "Pool Checkers", Size: 8, Capture: MustCapture}
)

var registry = []Variant{American, Brazilian, Canadian, International, Pool}

// Variants returns the registered variants in presentation order.
func Variants() []Variant {
	return slices.Clone(registry)
}

// VariantNames returns the names of the registered variants.
func VariantNames() []string {
	names := make([]string, len(registry))
	for i, v := range registry {
		names[i] = v.Name
	}
	return names
}

// Lookup returns the variant called name.
func Lookup(name string) (Variant, error) {
	idx := slices.IndexFunc(registry, func(v Variant) bool { return v.Name == name })
	if idx < 0 {
		return Variant{}, errors.Wrapf(ErrUnknownVariant, "%q", name)
	}
	return registry[idx], nil
}

package grid

import (
	"fmt"
	"strings"
)

// BCType is the physical boundary policy applied at a domain face
type BCType uint8

const (
	// BCInterior indicates no boundary condition (interior face)
	BCInterior BCType = iota
	BCPeriodic
	// BCExtDir is an external Dirichlet value, stored in the first ghost cell
	// and located on the domain face
	BCExtDir
	BCFOExtrap // First order (zero gradient) extrapolation
	BCHOExtrap // Higher order extrapolation
	BCReflectEven
	BCReflectOdd
)

var (
	BCPrintNames = []string{"Interior", "Periodic", "ExtDir", "FOExtrap", "HOExtrap",
		"ReflectEven", "ReflectOdd"}
	// BCNameMap maps common boundary condition names to BCType
	// Keys are lowercase for case-insensitive matching
	BCNameMap = map[string]BCType{
		"interior":     BCInterior,
		"none":         BCInterior,
		"periodic":     BCPeriodic,
		"int_dir":      BCPeriodic,
		"ext_dir":      BCExtDir,
		"extdir":       BCExtDir,
		"dirichlet":    BCExtDir,
		"inflow":       BCExtDir,
		"foextrap":     BCFOExtrap,
		"outflow":      BCFOExtrap,
		"neumann":      BCFOExtrap,
		"hoextrap":     BCHOExtrap,
		"reflect_even": BCReflectEven,
		"reflecteven":  BCReflectEven,
		"symmetry":     BCReflectEven,
		"slip":         BCReflectEven,
		"reflect_odd":  BCReflectOdd,
		"reflectodd":   BCReflectOdd,
	}
)

func (bc BCType) String() string {
	if int(bc) < len(BCPrintNames) {
		return BCPrintNames[bc]
	}
	return "Unknown"
}

func NewBCType(label string) (bc BCType) {
	var (
		ok  bool
		err error
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if bc, ok = BCNameMap[label]; !ok {
		err = fmt.Errorf("unable to use boundary condition named [%s]", label)
		panic(err)
	}
	return
}

// IsExtrap is true for the outflow-like extrapolating policies
func (bc BCType) IsExtrap() bool { return bc == BCFOExtrap || bc == BCHOExtrap }

// HoldsFaceValue is true when the first ghost cell stores a value located on
// the domain face rather than at a ghost cell center
func (bc BCType) HoldsFaceValue() bool { return bc == BCExtDir || bc == BCHOExtrap }

// BCRec holds the low and high side policy in each direction
type BCRec struct {
	Lo, Hi [SpaceDim]BCType
}

func NewBCRec(xlo, ylo, xhi, yhi BCType) BCRec {
	return BCRec{
		Lo: [SpaceDim]BCType{xlo, ylo},
		Hi: [SpaceDim]BCType{xhi, yhi},
	}
}

// UniformBCRec applies the same policy on every side
func UniformBCRec(bc BCType) BCRec { return NewBCRec(bc, bc, bc, bc) }

func (r BCRec) String() string {
	return fmt.Sprintf("lo(%v,%v) hi(%v,%v)", r.Lo[0], r.Lo[1], r.Hi[0], r.Hi[1])
}

/*
Component carries everything the core needs to know about one field
component: its boundary record, whether it is advected in conservative form,
and, for velocity fields, which direction it is the velocity of.
*/
type Component struct {
	BC           BCRec
	Conservative bool
	IsVelocity   bool
	Dir          Direction
}

// IsNormalVelocity is true for the velocity component normal to faces of direction d
func (c Component) IsNormalVelocity(d Direction) bool {
	return c.IsVelocity && c.Dir == d
}

func ScalarComponents(ncomp int, bc BCRec, conservative bool) (comps []Component) {
	comps = make([]Component, ncomp)
	for n := range comps {
		comps[n] = Component{BC: bc, Conservative: conservative}
	}
	return
}

// VelocityComponents builds the x and y velocity components, in that order
func VelocityComponents(bcx, bcy BCRec) []Component {
	return []Component{
		{BC: bcx, IsVelocity: true, Dir: XDir},
		{BC: bcy, IsVelocity: true, Dir: YDir},
	}
}

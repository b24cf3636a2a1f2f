package InputParameters

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/ebhydro/geometry2D"
	"github.com/notargets/ebhydro/grid"
	"github.com/notargets/ebhydro/redistribution"
)

type Wall struct {
	Origin [2]float64 `yaml:"Origin"`
	Normal [2]float64 `yaml:"Normal"` // points into the fluid
}

// Parameters obtained from the YAML case file
type RedistParameters struct {
	Title            string            `yaml:"Title"`
	Nx               int               `yaml:"Nx"`
	Ny               int               `yaml:"Ny"`
	XMax             float64           `yaml:"XMax"`
	YMax             float64           `yaml:"YMax"`
	Periodic         [2]bool           `yaml:"Periodic"`
	Walls            []Wall            `yaml:"Walls"`
	BCs              map[string]string `yaml:"BCs"` // XLo, YLo, XHi, YHi -> BC name
	Policy           string            `yaml:"Policy"`
	MaxOrder         int               `yaml:"MaxOrder"`
	TargetVolfrac    float64           `yaml:"TargetVolfrac"`
	Reconstruction   string            `yaml:"Reconstruction"`
	UseForcesInTrans bool              `yaml:"UseForcesInTrans"`
	Velocity         [2]float64        `yaml:"Velocity"`
	CFL              float64           `yaml:"CFL"`
	Steps            int               `yaml:"Steps"`
}

// NewRedistParameters is the default case, a ramp across a closed unit box
func NewRedistParameters() (ip *RedistParameters) {
	return &RedistParameters{
		Title:          "Ramp",
		Nx:             32,
		Ny:             32,
		XMax:           1,
		YMax:           1,
		Walls:          []Wall{{Origin: [2]float64{0, 0.3013}, Normal: [2]float64{-0.37, 1}}},
		Policy:         "StateRedist",
		MaxOrder:       2,
		TargetVolfrac:  redistribution.DefaultTargetVolfrac,
		Reconstruction: "ppm",
		Velocity:       [2]float64{1, 0.5},
		CFL:            0.5,
		Steps:          1,
	}
}

func (ip *RedistParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	if ip.Nx <= 0 || ip.Ny <= 0 {
		return fmt.Errorf("grid must have at least one cell in each direction, have %d x %d", ip.Nx, ip.Ny)
	}
	if ip.XMax <= 0 || ip.YMax <= 0 {
		return fmt.Errorf("domain extent must be positive, have %v x %v", ip.XMax, ip.YMax)
	}
	for _, w := range ip.Walls {
		if w.Normal[0] == 0 && w.Normal[1] == 0 {
			return fmt.Errorf("wall at %v has a zero normal", w.Origin)
		}
	}
	if ip.Periodic[0] || ip.Periodic[1] {
		_, err = ip.CutGeometry(4)
	}
	return
}

func (ip *RedistParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d x %d]\t\t= Grid\n", ip.Nx, ip.Ny)
	fmt.Printf("[%v]\t\t= Periodic\n", ip.Periodic)
	fmt.Printf("[%s]\t\t= Policy\n", ip.Policy)
	fmt.Printf("[%d]\t\t\t= Max Order\n", ip.MaxOrder)
	fmt.Printf("%8.5f\t\t= Target Volume Fraction\n", ip.TargetVolfrac)
	fmt.Printf("[%s]\t\t\t= Reconstruction\n", ip.Reconstruction)
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("[%d]\t\t\t= Steps\n", ip.Steps)
	for i, w := range ip.Walls {
		fmt.Printf("Walls[%d] = origin %v, normal %v\n", i, w.Origin, w.Normal)
	}
	keys := make([]string, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
}

func (ip *RedistParameters) Geometry() (bx grid.Box, geom grid.Geometry) {
	bx = grid.NewBox(grid.IntVect{0, 0}, grid.IntVect{ip.Nx - 1, ip.Ny - 1})
	geom = grid.NewGeometry(bx, ip.XMax/float64(ip.Nx), ip.YMax/float64(ip.Ny), ip.Periodic)
	return
}

// BCRec uses FOExtrap on every non periodic side not named in BCs
func (ip *RedistParameters) BCRec() (r grid.BCRec) {
	var (
		sides = [4]string{"xlo", "ylo", "xhi", "yhi"}
		bcs   [4]grid.BCType
		named = make(map[string]string, len(ip.BCs))
	)
	for k, v := range ip.BCs {
		named[strings.ToLower(k)] = v
	}
	for n, side := range sides {
		d := grid.Direction(n % 2)
		switch label, ok := named[side]; {
		case ip.Periodic[d]:
			bcs[n] = grid.BCPeriodic
		case ok:
			bcs[n] = grid.NewBCType(label)
		default:
			bcs[n] = grid.BCFOExtrap
		}
	}
	return grid.NewBCRec(bcs[0], bcs[1], bcs[2], bcs[3])
}

// EBGeometry cuts the walls out of bx.Grow(ngrow), images filled across
// periodic sides. It panics on walls that do not repeat across a periodic side.
func (ip *RedistParameters) EBGeometry(ngrow int) (eb redistribution.EBGeometry) {
	var err error
	if eb, err = ip.CutGeometry(ngrow); err != nil {
		panic(err)
	}
	return
}

// seam geometry must match its periodic image to within this
const seamTol = 1.e-12

// CutGeometry is EBGeometry returning an error for walls that break periodicity
func (ip *RedistParameters) CutGeometry(ngrow int) (eb redistribution.EBGeometry, err error) {
	var (
		bx, geom = ip.Geometry()
		hps      = make([]geometry2D.HalfPlane, len(ip.Walls))
	)
	for i, w := range ip.Walls {
		hps[i] = geometry2D.NewHalfPlane(geometry2D.NewPoint(w.Origin[0], w.Origin[1]), w.Normal[0], w.Normal[1])
	}
	eb = redistribution.EBGeometry(*geometry2D.NewCutCells(bx.Grow(ngrow), geom, hps...))
	var (
		names = []string{"volume fraction", "x aperture", "y aperture"}
		cut   = []*grid.Field{eb.Vfrac.Copy(), eb.Apx.Copy(), eb.Apy.Copy()}
	)
	eb.FillPeriodic(geom)
	for n, f := range []*grid.Field{eb.Vfrac, eb.Apx, eb.Apy} {
		for ii, v := range f.Data {
			if math.Abs(v-cut[n].Data[ii]) > seamTol {
				i, j := f.Box.Lo[0]+ii%f.Box.Length(grid.XDir), f.Box.Lo[1]+ii/f.Box.Length(grid.XDir)
				return eb, fmt.Errorf("walls do not repeat across the periodic sides: %s at (%d,%d) is %v, its periodic image %v",
					names[n], i, j, cut[n].Data[ii], v)
			}
		}
	}
	return
}

func (ip *RedistParameters) Options() (opts redistribution.Options) {
	return redistribution.Options{
		Policy:        redistribution.NewPolicy(ip.Policy),
		MaxOrder:      ip.MaxOrder,
		TargetVolfrac: ip.TargetVolfrac,
	}
}

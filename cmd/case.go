package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/spf13/viper"

	"github.com/notargets/ebhydro/InputParameters"
	"github.com/notargets/ebhydro/grid"
)

const exampleCase = `
########################################
Title: "Ramp"
Nx: 32
Ny: 32
Periodic: [false, false]
Policy: StateRedist # NoRedist, FluxRedist, StateRedist, NewStateRedist
MaxOrder: 2
TargetVolfrac: 0.5
Reconstruction: ppm # plm, plm4, ppm
Velocity: [1, 0.5]
CFL: 0.5
Steps: 10
Walls: # fluid lies on the side the normal points to
  - Origin: [0, 0.3013]
    Normal: [-0.37, 1]
BCs:
  XLo: ExtDir
  XHi: FOExtrap
########################################
`

// loadCase reads the case file, if any, over the defaults and applies the
// flags set on the command line or in the config file
func loadCase(file string) (ip *InputParameters.RedistParameters, err error) {
	ip = InputParameters.NewRedistParameters()
	if len(file) != 0 {
		var data []byte
		if data, err = os.ReadFile(file); err != nil {
			return nil, fmt.Errorf("reading case file: %w", err)
		}
		if err = ip.Parse(data); err != nil {
			return nil, fmt.Errorf("parsing case file %s: %w\nExample File:%s", file, err, exampleCase)
		}
	}
	if viper.IsSet("policy") && len(viper.GetString("policy")) != 0 {
		ip.Policy = viper.GetString("policy")
	}
	if viper.IsSet("maxOrder") {
		ip.MaxOrder = viper.GetInt("maxOrder")
	}
	if viper.IsSet("targetVolfrac") {
		ip.TargetVolfrac = viper.GetFloat64("targetVolfrac")
	}
	return
}

// initialState is the smooth field every command transports
func initialState(ip *InputParameters.RedistParameters) func(x, y float64) float64 {
	return func(x, y float64) float64 {
		return 1 + 0.5*math.Sin(2*math.Pi*x/ip.XMax)*math.Cos(2*math.Pi*y/ip.YMax)
	}
}

func cellCenter(geom grid.Geometry, i, j int) (x, y float64) {
	return (float64(i) + 0.5) * geom.Dx[0], (float64(j) + 0.5) * geom.Dx[1]
}

/*
fillGhosts sets the cells of q outside the domain: periodic images, the
boundary function at the nearest domain point for ExtDir, mirrored values for
the reflecting policies and the nearest domain value otherwise.
*/
func fillGhosts(q *grid.Field, geom grid.Geometry, bc grid.BCRec, qf func(x, y float64) float64) {
	var (
		dom  = geom.Domain
		xmax = float64(dom.Hi[0]+1) * geom.Dx[0]
		ymax = float64(dom.Hi[1]+1) * geom.Dx[1]
	)
	q.Box.ForEach(func(i, j int) {
		if dom.Contains(i, j) {
			return
		}
		var (
			ii, jj = geom.PeriodicImage(i, j)
			idx    = [2]int{ii, jj}
			sign   = 1.
			extDir bool
		)
		for d := grid.XDir; d <= grid.YDir; d++ {
			var (
				side          grid.BCType
				mirror, clamp int
			)
			switch {
			case idx[d] < dom.Lo[d]:
				side, mirror, clamp = bc.Lo[d], 2*dom.Lo[d]-1-idx[d], dom.Lo[d]
			case idx[d] > dom.Hi[d]:
				side, mirror, clamp = bc.Hi[d], 2*dom.Hi[d]+1-idx[d], dom.Hi[d]
			default:
				continue
			}
			switch side {
			case grid.BCExtDir:
				extDir = true
			case grid.BCReflectEven:
				idx[d] = mirror
			case grid.BCReflectOdd:
				idx[d], sign = mirror, -sign
			default:
				idx[d] = clamp
			}
		}
		if extDir {
			x, y := cellCenter(geom, i, j)
			q.Set(i, j, 0, qf(math.Min(math.Max(x, 0), xmax), math.Min(math.Max(y, 0), ymax)))
			return
		}
		q.Set(i, j, 0, sign*q.At(idx[0], idx[1], 0))
	})
}

func writeCSV(file string, records interface{}) (err error) {
	var f *os.File
	if f, err = os.Create(file); err != nil {
		return fmt.Errorf("creating %s: %w", file, err)
	}
	defer f.Close()
	if err = gocsv.Marshal(records, f); err != nil {
		return fmt.Errorf("writing %s: %w", file, err)
	}
	return
}

package cmd

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/ebhydro/InputParameters"
	"github.com/notargets/ebhydro/grid"
)

// periodicCase is a channel between two horizontal walls, which repeats
// across both periodic seams. The floor cuts the cells above it to slivers.
func periodicCase(n int) (ip *InputParameters.RedistParameters) {
	ip = InputParameters.NewRedistParameters()
	ip.Nx, ip.Ny = n, n
	ip.Periodic = [2]bool{true, true}
	ip.Walls = []InputParameters.Wall{
		{Origin: [2]float64{0, 0.36}, Normal: [2]float64{0, 1}},
		{Origin: [2]float64{0, 0.8}, Normal: [2]float64{0, -1}},
	}
	ip.Steps = 3
	return
}

func TestRunRedistribute(t *testing.T) {
	{ // Periodic in both directions nothing leaves the box
		for _, policy := range []string{"NoRedist", "FluxRedist", "StateRedist", "NewStateRedist"} {
			ip := periodicCase(16)
			ip.Policy = policy
			if policy == "NoRedist" {
				// small cells grow without bound, one step only
				ip.Steps = 1
			}
			res := RunRedistribute(ip, false)
			require.Len(t, res.Steps, ip.Steps+1)
			m0 := res.Steps[0].Mass
			for _, rep := range res.Steps {
				assert.InDelta(t, m0, rep.Mass, 1.e-12*m0, "policy %s step %d", policy, rep.Step)
				assert.InDelta(t, 0, rep.Defect, 1.e-12, "policy %s step %d", policy, rep.Step)
				assert.False(t, math.IsNaN(rep.Min) || math.IsNaN(rep.Max))
			}
			assert.Len(t, res.Cells, 256)
			if policy == "StateRedist" || policy == "NewStateRedist" {
				var merged int
				for _, c := range res.Cells {
					if c.Neighbors > 0 {
						merged++
					}
				}
				assert.Equal(t, 16, merged, "policy %s", policy)
			}
		}
	}
	{ // A ramp does not repeat across the x seam
		ip := InputParameters.NewRedistParameters()
		ip.Periodic = [2]bool{true, false}
		assert.Panics(t, func() { RunRedistribute(ip, false) })
	}
	{ // The closed ramp with an inflow side, verbose
		ip := InputParameters.NewRedistParameters()
		ip.Nx, ip.Ny, ip.Steps = 12, 12, 2
		ip.BCs = map[string]string{"XLo": "ExtDir", "YLo": "ReflectEven"}
		ip.Policy = "wsrd"
		res := RunRedistribute(ip, true)
		for _, rep := range res.Steps {
			assert.InDelta(t, 0, rep.Defect, 1.e-12)
			assert.Greater(t, rep.Min, 0.)
		}
		var merged int
		for _, c := range res.Cells {
			if c.Neighbors > 0 {
				merged++
				assert.Equal(t, grid.Cut.String(), c.Flag)
				assert.Less(t, c.Vfrac, 0.5)
			}
		}
		assert.Greater(t, merged, 0)
	}
}

func TestRunEdgeState(t *testing.T) {
	ip := periodicCase(8)
	ip.Walls = nil
	ip.Velocity = [2]float64{1, 0}
	faces := RunEdgeState(ip)
	require.Len(t, faces, 9*8+8*9)
	for _, f := range faces {
		assert.Equal(t, 1., f.Aperture)
		if f.Dir == "x" {
			assert.Equal(t, 1., f.Velocity)
		} else {
			assert.Equal(t, 0., f.Velocity)
		}
	}
	// faces on opposite periodic sides carry the same state
	var lo, hi float64
	for _, f := range faces {
		switch {
		case f.Dir == "x" && f.I == 0 && f.J == 3:
			lo = f.Edge
		case f.Dir == "x" && f.I == 8 && f.J == 3:
			hi = f.Edge
		}
	}
	assert.InDelta(t, lo, hi, 1.e-14)
}

func TestRunAudit(t *testing.T) {
	{
		ip := periodicCase(8)
		for _, policy := range []string{"srd", "wsrd"} {
			ip.Policy = policy
			res, err := RunAudit(ip)
			require.NoError(t, err)
			assert.Equal(t, 64, res.Cells)
			assert.GreaterOrEqual(t, res.NNZ, 64)
			assert.InDelta(t, 0, res.Conservation, 1.e-13)
			assert.InDelta(t, 0, res.Consistency, 1.e-13)
			for _, r := range res.Records {
				assert.InDelta(t, r.Vfrac, r.ColumnMass, 1.e-13)
			}
		}
	}
	{
		ip := InputParameters.NewRedistParameters()
		_, err := RunAudit(ip)
		assert.Error(t, err)
	}
	{
		ip := periodicCase(8)
		ip.Policy = "flux"
		_, err := RunAudit(ip)
		assert.Error(t, err)
	}
	{
		ip := periodicCase(8)
		ip.Walls[1].Normal = [2]float64{-0.2, -1}
		_, err := RunAudit(ip)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "periodic")
	}
}

func TestLoadCase(t *testing.T) {
	dir := t.TempDir()
	{ // The case file replaces the defaults it names
		file := filepath.Join(dir, "case.yaml")
		require.NoError(t, os.WriteFile(file, []byte("Title: Box\nNx: 6\nPolicy: flux\n"), 0644))
		ip, err := loadCase(file)
		require.NoError(t, err)
		assert.Equal(t, "Box", ip.Title)
		assert.Equal(t, 6, ip.Nx)
		assert.Equal(t, 32, ip.Ny)
		assert.Equal(t, "flux", ip.Policy)

		// a policy flag overrides the file
		viper.Set("policy", "wsrd")
		defer viper.Set("policy", "")
		ip, err = loadCase(file)
		require.NoError(t, err)
		assert.Equal(t, "wsrd", ip.Policy)
	}
	{
		_, err := loadCase(filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	}
	{
		file := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(file, []byte("Nx: -1\n"), 0644))
		_, err := loadCase(file)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Example File")
	}
}

func TestWriteCSV(t *testing.T) {
	var (
		file    = filepath.Join(t.TempDir(), "cells.csv")
		records = []CellRecord{
			{I: 1, J: 2, Vfrac: 0.25, Flag: "Cut", Neighbors: 1, State: 1.5},
			{I: 2, J: 2, Vfrac: 1, Flag: "Regular", State: 0.5},
		}
		read []CellRecord
	)
	require.NoError(t, writeCSV(file, records))
	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, gocsv.UnmarshalFile(f, &read))
	assert.Equal(t, records, read)
	assert.Error(t, writeCSV(filepath.Join(t.TempDir(), "nodir", "cells.csv"), records))
}

func TestFillGhosts(t *testing.T) {
	var (
		bx   = grid.NewBox(grid.IntVect{0, 0}, grid.IntVect{3, 3})
		geom = grid.NewGeometry(bx, 0.25, 0.25, [2]bool{true, false})
		bc   = grid.NewBCRec(grid.BCPeriodic, grid.BCReflectOdd, grid.BCPeriodic, grid.BCExtDir)
		q    = grid.NewField(bx.Grow(2), 1)
		qf   = func(x, y float64) float64 { return 10 + y }
	)
	bx.ForEach(func(i, j int) { q.Set(i, j, 0, float64(10*i+j)) })
	fillGhosts(q, geom, bc, qf)
	assert.Equal(t, q.At(3, 1, 0), q.At(-1, 1, 0))
	assert.Equal(t, q.At(0, 2, 0), q.At(4, 2, 0))
	assert.Equal(t, -q.At(2, 0, 0), q.At(2, -1, 0))
	assert.Equal(t, -q.At(2, 1, 0), q.At(2, -2, 0))
	// Dirichlet data is taken on the domain face
	assert.Equal(t, 11., q.At(1, 4, 0))
	assert.Equal(t, 11., q.At(-1, 5, 0))
}

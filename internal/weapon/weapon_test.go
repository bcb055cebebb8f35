package weapon

import (
	"testing"

	"github.com/seawolf/tactsim/internal/geo"
	"github.com/seawolf/tactsim/internal/gunnery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnv struct {
	target    geo.Vec2
	hasTarget bool
	hitAt     float64 // run length from which TorpedoHit returns true, 0 never
	hitCalls  int
	impacts   []geo.Vec3
	blasts    []geo.Vec3
}

func (f *fakeEnv) LoudestTarget(*Torpedo) (geo.Vec2, bool) { return f.target, f.hasTarget }

func (f *fakeEnv) TorpedoHit(t *Torpedo) bool {
	f.hitCalls++
	return f.hitAt > 0 && t.RunLength >= f.hitAt
}

func (f *fakeEnv) ShellImpact(s *Shell)    { f.impacts = append(f.impacts, s.Pos) }
func (f *fakeEnv) Explode(d *DepthCharge) { f.blasts = append(f.blasts, d.Pos) }

func newTestTorpedo(t *testing.T, steer Steering) *Torpedo {
	t.Helper()
	tp, err := NewTorpedo(TorpedoSpec{Kind: "G7a", Speed: 20, Range: 5000, ArmingDistance: 300, TurnRate: 0.05}, steer, geo.Vec2{}, 0, 0)
	require.NoError(t, err)
	return tp
}

func TestSearchPatternInitialTurn(t *testing.T) {
	tp := newTestTorpedo(t, Steering{PrimaryRange: 1600, InitialTurnLeft: true, TurnAngle: 90})
	env := &fakeEnv{}

	for tp.RunLength < 1600-1e-9 {
		require.Equal(t, Running, tp.Step(env, 0.5))
		if tp.RunLength < 1600-1e-9 {
			assert.Equal(t, 0.0, tp.Motion.Heading.Value())
		}
	}
	tp.Step(env, 0.5)
	assert.Greater(t, tp.RunLength, 1600.0)
	assert.InDelta(t, 270.0, tp.Motion.Heading.Value(), 1e-9)

	// no further turns without a secondary range
	for i := 0; i < 50; i++ {
		tp.Step(env, 0.5)
	}
	assert.InDelta(t, 270.0, tp.Motion.Heading.Value(), 1e-9)
}

func TestSearchPatternAlternates(t *testing.T) {
	tp := newTestTorpedo(t, Steering{PrimaryRange: 1000, SecondaryRange: 400, TurnAngle: 90})
	env := &fakeEnv{}

	headings := map[int]float64{}
	for tp.RunLength < 2300 {
		tp.Step(env, 1)
		headings[tp.Phase] = tp.Motion.Heading.Value()
	}
	assert.InDelta(t, 90.0, headings[1], 1e-9)
	assert.InDelta(t, 270.0, headings[2], 1e-9)
	assert.InDelta(t, 90.0, headings[3], 1e-9)
	assert.Equal(t, 4, tp.Phase)
}

func TestTorpedoRunsOutStrictlyAboveRange(t *testing.T) {
	tp := newTestTorpedo(t, Steering{})
	tp.Spec.Range = 100
	env := &fakeEnv{}

	prev := 0.0
	for i := 0; i < 5; i++ {
		require.Equal(t, Running, tp.Step(env, 1))
		assert.GreaterOrEqual(t, tp.RunLength, prev)
		prev = tp.RunLength
	}
	assert.Equal(t, 100.0, tp.RunLength, "exactly at range is still running")
	assert.Equal(t, RanOut, tp.Step(env, 0.01))
}

func TestTorpedoHitCheckAfterSafetyRun(t *testing.T) {
	tp := newTestTorpedo(t, Steering{})
	env := &fakeEnv{hitAt: 30}

	assert.Equal(t, Running, tp.Step(env, 0.25)) // 5 m
	assert.Zero(t, env.hitCalls)
	assert.Equal(t, Running, tp.Step(env, 0.5)) // 15 m
	assert.Equal(t, 1, env.hitCalls)
	assert.Equal(t, Hit, tp.Step(env, 1)) // 35 m
	assert.False(t, tp.Armed())
}

func TestTorpedoFail(t *testing.T) {
	tp := newTestTorpedo(t, Steering{})
	tp.Fail()
	assert.True(t, tp.HasFailed())
	assert.Equal(t, Failed, tp.Step(&fakeEnv{}, 1))
	assert.Zero(t, tp.RunLength)
}

func TestTorpedoHoming(t *testing.T) {
	tp, err := NewTorpedo(TorpedoSpec{Speed: 20, Range: 5000, TurnRate: 0.05, Seeker: "t5", ActivationDistance: 100}, Steering{}, geo.Vec2{}, 0, 0)
	require.NoError(t, err)
	require.NotNil(t, tp.Seeker)
	env := &fakeEnv{target: geo.Vec2{X: 1000, Y: 1000}, hasTarget: true}

	tp.Step(env, 1)
	assert.False(t, tp.Motion.Steering, "seeker not active before activation distance")
	for i := 0; i < 5; i++ {
		tp.Step(env, 1)
	}
	assert.True(t, tp.Motion.Steering)
	assert.Greater(t, tp.Motion.Heading.Value(), 0.0)
	assert.Less(t, tp.Motion.Heading.Value(), 45.0)

	_, err = NewTorpedo(TorpedoSpec{Seeker: "nope"}, Steering{}, geo.Vec2{}, 0, 0)
	assert.Error(t, err)
}

func TestShellFlight(t *testing.T) {
	s := NewShell(geo.Vec3{Z: 4}, geo.Deg(90), 10, 300, 25, 0)
	env := &fakeEnv{}
	steps := 0
	for !s.Step(env, 0.01) {
		steps++
		require.Less(t, steps, 100000)
	}
	require.Len(t, env.impacts, 1)
	assert.Zero(t, env.impacts[0].Z)
	assert.Greater(t, env.impacts[0].X, 3000.0)
	assert.InDelta(t, 0, env.impacts[0].Y, 1e-6)
	// lands on the first step past the tabulated range
	want := gunnery.FlightDistance(300, 10)
	assert.GreaterOrEqual(t, env.impacts[0].X, want)
	assert.Less(t, env.impacts[0].X, want+300*gunnery.TimeStep)
}

func TestDepthChargeExplodesAtDepth(t *testing.T) {
	dc := NewDepthCharge(geo.Vec3{}, 100, 0)
	env := &fakeEnv{}
	steps := 0
	for !dc.Step(env, 0.1) {
		steps++
	}
	assert.Equal(t, 249, steps)
	require.Len(t, env.blasts, 1)
	assert.Equal(t, -100.0, env.blasts[0].Z)
}

func TestConstantFailure(t *testing.T) {
	var p FailurePolicy = ConstantFailure(0.25)
	assert.Equal(t, 0.25, p.FailureChance("G7e", 1000))
}

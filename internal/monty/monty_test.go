package monty

import (
	"errors"
	"testing"

	"github.com/lox/montyhall/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays fixed draws so a round can be forced.
type scriptedSource struct {
	t     *testing.T
	draws []int
	calls int
}

func (s *scriptedSource) IntN(n int) int {
	s.t.Helper()
	require.Less(s.t, s.calls, len(s.draws), "unexpected draw #%d", s.calls+1)
	v := s.draws[s.calls]
	require.Less(s.t, v, n, "scripted draw out of range")
	s.calls++
	return v
}

func script(t *testing.T, draws ...int) *scriptedSource {
	return &scriptedSource{t: t, draws: draws}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"classic", Classic},
		{"Evil", Evil},
		{"  evil ", Evil},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseMode("nice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownMode))

	_, err = ParseMode("")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("switch")
	require.NoError(t, err)
	assert.Equal(t, Switch, a)

	a, err = ParseAction("0")
	require.NoError(t, err)
	assert.Equal(t, Stay, a)

	_, err = ParseAction("jump")
	assert.Error(t, err)
}

func TestModeStrings(t *testing.T) {
	assert.Equal(t, "classic", Classic.String())
	assert.Equal(t, "evil", Evil.String())
	assert.Equal(t, "Classic Monty", Classic.Label())
	assert.Equal(t, "Evil Monty", Evil.Label())
	assert.False(t, Mode(7).Valid())
	assert.Equal(t, "stay", Stay.String())
	assert.Equal(t, "switch", Switch.String())
}

func TestClassicSwitchFromGoatWins(t *testing.T) {
	// Car behind door 0, contestant picks door 1: host must open door 2.
	src := script(t, 0, 1)
	r := PlayRound(src, Switch, Classic)

	assert.Equal(t, 2, src.calls, "no tie-break draw when the car is among the other doors")
	assert.Equal(t, 2, r.Revealed)
	assert.Equal(t, 0, r.Final)
	assert.True(t, r.Win)
	assert.Equal(t, 1, r.Outcome())
	assert.True(t, r.SwitchOffered)
}

func TestClassicTieBreakIsRandom(t *testing.T) {
	r := PlayRound(script(t, 0, 0, 1), Switch, Classic)
	assert.Equal(t, 2, r.Revealed)
	assert.Equal(t, 1, r.Final)
	assert.False(t, r.Win)

	r = PlayRound(script(t, 0, 0, 0), Stay, Classic)
	assert.Equal(t, 1, r.Revealed)
	assert.Equal(t, 0, r.Final)
	assert.True(t, r.Win)
}

func TestClassicNeverRevealsCarOrPick(t *testing.T) {
	rng := randutil.New(7)
	for i := 0; i < 2000; i++ {
		r := PlayRound(rng, Actions[i%2], Classic)
		assert.NotEqual(t, r.Car, r.Revealed)
		assert.NotEqual(t, r.Initial, r.Revealed)
		assert.NotEqual(t, r.Revealed, r.Final)
	}
}

func TestEvilHolderOfCar(t *testing.T) {
	for car := 0; car < Doors; car++ {
		r := PlayRound(script(t, car, car), Stay, Evil)
		assert.True(t, r.Win, "stay with car %d", car)
		assert.True(t, r.SwitchOffered)

		r = PlayRound(script(t, car, car), Switch, Evil)
		assert.False(t, r.Win, "switch away from car %d", car)
		assert.Equal(t, Switch, r.Action)
		assert.False(t, r.Overridden())
	}
}

func TestEvilGoatPickForcesStay(t *testing.T) {
	for car := 0; car < Doors; car++ {
		for initial := 0; initial < Doors; initial++ {
			if car == initial {
				continue
			}
			for _, a := range Actions {
				r := PlayRound(script(t, car, initial), a, Evil)
				assert.Equal(t, Stay, r.Action)
				assert.False(t, r.SwitchOffered)
				assert.Equal(t, initial, r.Final)
				assert.Equal(t, 0, r.Outcome())
				assert.Equal(t, a == Switch, r.Overridden())
			}
		}
	}
}

func TestEvilRevealIsDeterministic(t *testing.T) {
	// Contestant holds the car on door 0: both 1 and 2 are goats, host opens 1.
	src := script(t, 0, 0)
	r := PlayRound(src, Switch, Evil)
	assert.Equal(t, 2, src.calls)
	assert.Equal(t, 1, r.Revealed)
	assert.Equal(t, 2, r.Final)

	// Car on 1, pick 0: the only goat among {1,2} is 2.
	r = PlayRound(script(t, 1, 0), Stay, Evil)
	assert.Equal(t, 2, r.Revealed)
}

func TestPlayRoundPanicsOnInvalidInput(t *testing.T) {
	assert.Panics(t, func() { PlayRound(randutil.New(1), Action(5), Classic) })
	assert.Panics(t, func() { PlayRound(randutil.New(1), Stay, Mode(9)) })
}

func TestSeededRoundsAreReproducible(t *testing.T) {
	a := randutil.New(99)
	b := randutil.New(99)
	for i := 0; i < 500; i++ {
		mode := Classic
		if i%3 == 0 {
			mode = Evil
		}
		require.Equal(t, PlayRound(a, Actions[i%2], mode), PlayRound(b, Actions[i%2], mode))
	}
}

func TestWinRates(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}
	const rounds = 100000
	tests := []struct {
		mode   Mode
		action Action
		want   float64
	}{
		{Classic, Stay, 1.0 / 3},
		{Classic, Switch, 2.0 / 3},
		{Evil, Stay, 1.0 / 3},
		{Evil, Switch, 0},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String()+"/"+tt.action.String(), func(t *testing.T) {
			rng := randutil.New(2024)
			wins := 0
			for i := 0; i < rounds; i++ {
				wins += Play(rng, tt.action, tt.mode)
			}
			assert.InDelta(t, tt.want, float64(wins)/rounds, 0.01)
		})
	}
}

package replay

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/curlcount/internal/rep"
	"github.com/ayusman/curlcount/internal/session"
	"github.com/ayusman/curlcount/testdata"
)

func runFixture(t *testing.T, name string, cfg rep.Config) (Summary, []session.Result) {
	t.Helper()
	f, err := testdata.OpenRecording(name)
	require.NoError(t, err)
	defer f.Close()

	var results []session.Result
	sum, err := Run(f, cfg, func(r session.Result) { results = append(results, r) })
	require.NoError(t, err)
	return sum, results
}

func TestRun_SingleRepRight(t *testing.T) {
	sum, results := runFixture(t, testdata.SingleRepRight, rep.DefaultConfig())

	assert.Equal(t, 45, sum.Frames)
	assert.Equal(t, 44*66*time.Millisecond, sum.Duration)
	assert.Equal(t, 1, sum.TotalReps)
	assert.Equal(t, 1, sum.RightReps)
	assert.Zero(t, sum.LeftReps)
	assert.NotEmpty(t, sum.SessionID)

	var sawUp bool
	for _, r := range results {
		assert.Equal(t, rep.Right, r.Side, "right arm drives the display")
		if r.Status == session.StatusCurlUp {
			sawUp = true
		}
	}
	assert.True(t, sawUp)
	assert.Equal(t, Epoch.Add(sum.Duration), results[len(results)-1].Timestamp)
}

func TestRun_BothArms(t *testing.T) {
	sum, results := runFixture(t, testdata.BothArms, rep.DefaultConfig())

	assert.Equal(t, 90, sum.Frames)
	assert.Equal(t, 4, sum.TotalReps)
	assert.Equal(t, 2, sum.RightReps)
	assert.Equal(t, 2, sum.LeftReps)

	var repFrames int
	for _, r := range results {
		if r.Rep {
			repFrames++
			assert.ElementsMatch(t, []rep.Side{rep.Right, rep.Left}, r.RepSides)
		}
	}
	assert.Equal(t, 2, repFrames)
}

func TestRun_CooldownLongerThanCycle(t *testing.T) {
	cfg := rep.DefaultConfig()
	cfg.RepCooldown = time.Minute

	sum, _ := runFixture(t, testdata.BothArms, cfg)
	assert.Equal(t, 2, sum.TotalReps, "only the first curl of each arm counts")
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := rep.DefaultConfig()
	cfg.SmoothingWindow = 0

	_, err := Run(strings.NewReader(""), cfg, nil)
	assert.ErrorIs(t, err, rep.ErrInvalidConfig)
}

func TestRun_BadLine(t *testing.T) {
	input := `{"t_ms":0,"pose":[]}` + "\n" + `{"t_ms":` + "\n"

	sum, err := Run(strings.NewReader(input), rep.DefaultConfig(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 1, sum.Frames)
}

func TestRun_Empty(t *testing.T) {
	sum, err := Run(strings.NewReader("\n\n"), rep.DefaultConfig(), nil)
	require.NoError(t, err)
	assert.Zero(t, sum.Frames)
	assert.Zero(t, sum.TotalReps)
}

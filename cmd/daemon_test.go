package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "--addr", ":9000", "--detach=true"})
	require.Equal(t, []string{"daemon", "--addr", ":9000"}, got)
}

func TestPIDFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arsavingsd.pid")
	require.NoError(t, writePID(path, 4242))

	pid, err := readPID(path)
	require.NoError(t, err)
	require.Equal(t, 4242, pid)
}

func TestEnsureDaemonNotRunning_NoPIDFile(t *testing.T) {
	require.NoError(t, ensureDaemonNotRunning(filepath.Join(t.TempDir(), "missing.pid")))
}

func TestRuntimeState(t *testing.T) {
	path := statePath(filepath.Join(t.TempDir(), "arsavingsd.pid"))
	want := daemonRuntimeState{
		PID:       7,
		Addr:      "127.0.0.1:8797",
		StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		AssetsDir: "/srv/assets",
	}
	require.NoError(t, writeState(path, want))

	got, err := readState(path)
	require.NoError(t, err)
	require.True(t, want.StartedAt.Equal(got.StartedAt))
	got.StartedAt = want.StartedAt
	require.Equal(t, want, got)
}

func TestInputParams_RejectsNegative(t *testing.T) {
	defer func(m, s, y int64) { flagMonthly, flagStart, flagYears = m, s, y }(flagMonthly, flagStart, flagYears)

	flagMonthly, flagStart, flagYears = 1000, 0, 5
	p, err := inputParams()
	require.NoError(t, err)
	require.EqualValues(t, 1000, p.MonthlySavings)

	flagStart = -1
	_, err = inputParams()
	require.Error(t, err)
}

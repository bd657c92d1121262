package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("CONGRESS_YEAR", "2019")
	t.Setenv("UPDATES_ONLY", "false")
	t.Setenv("DEBUG", "true")
	t.Setenv("DATA_DIR", "/tmp/congress")
	t.Setenv("MAX_ROLL_CALLS", "25")
	t.Setenv("BILL_TYPES", "house_bills, nominations")
	t.Setenv("INTERVAL", "30m")

	c, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, 2019, c.Year)
	require.False(t, c.UpdatesOnly)
	require.True(t, c.Debug)
	require.Equal(t, 25, c.MaxRollCalls)
	require.Equal(t, 30*time.Minute, c.Interval)
	require.Equal(t, []string{"house_bills", "nominations"}, c.BillTypes)
	require.Equal(t, slog.LevelDebug, c.LogLevel())

	require.Equal(t, filepath.Join("/tmp/congress", "house_votes_2019"), c.HouseVotesDir())
	require.Equal(t, filepath.Join("/tmp/congress", "senate_votes_2019"), c.SenateVotesDir())
	require.Equal(t, filepath.Join("/tmp/congress", "congress_bills_2019"), c.BillsDir())

	require.Equal(t, 116, c.Session().Congress)

	types := c.SelectedBillTypes()
	require.Len(t, types, 2)
	require.Equal(t, "nominations", types[1].Key)
}

func TestFromEnvErrors(t *testing.T) {
	t.Setenv("CONGRESS_YEAR", "nineteen")
	_, err := FromEnv()
	require.Error(t, err)

	t.Setenv("CONGRESS_YEAR", "1700")
	_, err = FromEnv()
	require.Error(t, err)

	t.Setenv("CONGRESS_YEAR", "2019")
	t.Setenv("BILL_TYPES", "treaties")
	_, err = FromEnv()
	require.Error(t, err)

	t.Setenv("BILL_TYPES", "")
	t.Setenv("INTERVAL", "0s")
	_, err = FromEnv()
	require.Error(t, err)
}

func TestDefaults(t *testing.T) {
	c := Default()
	require.True(t, c.UpdatesOnly)
	require.Equal(t, 2000, c.MaxRollCalls)
	require.Len(t, c.SelectedBillTypes(), 7)
	require.Equal(t, slog.LevelInfo, c.LogLevel())
	require.NoError(t, c.Validate())
}

package proc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKillPatternInvocation(t *testing.T) {
	var got []string
	e := NewExec()
	e.runFn = func(_ context.Context, name string, args ...string) error {
		got = append([]string{name}, args...)
		return nil
	}

	require.NoError(t, e.KillPattern(context.Background(), "opendkim"))
	assert.Equal(t, []string{"pkill", "-f", "opendkim"}, got)
}

func TestKillPatternRealFailure(t *testing.T) {
	e := NewExec()
	e.runFn = func(context.Context, string, ...string) error {
		return errors.New("pkill: command not found")
	}

	err := e.KillPattern(context.Background(), "postsrsd")

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "pkill -f postsrsd"))
}

func TestLaunchMissingBinary(t *testing.T) {
	e := NewExec()

	err := e.Launch(context.Background(), "/nonexistent/daemon", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to launch")
}

package statsd

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMetricName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		" auth/login ":   "auth_login",
		"recipes..search": "recipes.search",
		".leading.":       "leading",
		"":                "",
	}
	for input, want := range tests {
		assert.Equal(t, want, normalizeMetricName(input), input)
	}
}

func TestFormatTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{"env": "prod", " service ": " recipe-finder "}
	local := map[string]string{"result": " ok ", "": "ignored", "env": "stage"}

	assert.Equal(t, "|#env:stage,result:ok,service:recipe-finder", formatTags(global, local))
	assert.Equal(t, "", formatTags(nil, nil))
}

func TestLine(t *testing.T) {
	t.Parallel()

	c := &Client{prefix: "recipe_finder"}
	assert.Equal(t, "recipe_finder.auth.login:1|c|#result:ok",
		c.line("auth.login", "1", "c", map[string]string{"result": "ok"}))
	assert.Equal(t, "", c.line("  ", "1", "c", nil))
}

func TestNew_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	sink, closeFn, err := New(Config{Enabled: false, Address: "127.0.0.1:8125"})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, sink)
	assert.NoError(t, closeFn())

	sink, _, err = New(Config{Enabled: true, Address: " "})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, sink)
}

func TestClientEmitsOverUDP(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	sink, closeFn, err := New(Config{
		Enabled:    true,
		Address:    pc.LocalAddr().String(),
		Prefix:     ".recipe_finder.",
		GlobalTags: map[string]string{"env": "test"},
	})
	require.NoError(t, err)
	defer closeFn()

	read := func() string {
		t.Helper()
		buf := make([]byte, 512)
		require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
		n, _, err := pc.ReadFrom(buf)
		require.NoError(t, err)
		return string(buf[:n])
	}

	sink.Count("auth.signup", 1, map[string]string{"result": "ok"})
	assert.Equal(t, "recipe_finder.auth.signup:1|c|#env:test,result:ok", read())

	sink.Timing("recipes.search.duration", 1500*time.Microsecond, nil)
	assert.Equal(t, "recipe_finder.recipes.search.duration:1.5|ms|#env:test", read())

	sink.Gauge("sessions.active", 3, nil)
	assert.True(t, strings.HasPrefix(read(), "recipe_finder.sessions.active:3|g"))
}

func TestClientCloseDropsWrites(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	c, err := NewClient(Config{Address: pc.LocalAddr().String()})
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	c.Count("after.close", 1, nil)
}

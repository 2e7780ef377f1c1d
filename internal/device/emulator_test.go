package device

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"lumibear/internal/config"
	"lumibear/internal/logger"
	"lumibear/internal/lumibear"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmulator(t *testing.T) (*Emulator, *logger.Log) {
	t.Helper()
	log, err := logger.New(config.LogConf{Level: "debug"}, io.Discard)
	require.NoError(t, err)
	e, err := NewEmulator(log, "127.0.0.1:0")
	require.NoError(t, err)
	return e, log
}

func TestEmulatorApply(t *testing.T) {
	e, _ := newEmulator(t)
	defer e.conn.Close()

	e.Apply(lumibear.On())
	e.Apply(lumibear.Rotate("ff0000", "0000ff"))
	e.Apply(lumibear.Brightness(75))

	s := e.State()
	assert.True(t, s.Power)
	assert.Equal(t, lumibear.OpRotate, s.Mode)
	assert.Equal(t, []string{"ff0000", "0000ff"}, s.Colors)
	assert.Equal(t, "75", s.Brightness)
	assert.Equal(t, 3, s.Received)

	e.Apply(lumibear.Lighthouse("north"))
	e.Apply(lumibear.Off())
	s = e.State()
	assert.False(t, s.Power)
	assert.Equal(t, "north", s.Lighthouse)
	assert.Empty(t, s.Colors)
}

func TestEmulatorReceivesFromSender(t *testing.T) {
	e, log := newEmulator(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	port := e.Addr().(*net.UDPAddr).Port
	s, err := lumibear.NewSender(log, lumibear.Config{
		Destination: lumibear.Destination{Host: "127.0.0.1", Port: port},
	})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.On())
	require.NoError(t, s.SetColor("a1b2c3"))
	require.NoError(t, s.SetRotWait(40))

	require.Eventually(t, func() bool { return e.State().Received == 3 }, 2*time.Second, 10*time.Millisecond)
	st := e.State()
	assert.True(t, st.Power)
	assert.Equal(t, []string{"a1b2c3"}, st.Colors)
	assert.Equal(t, "40", st.RotWait)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("emulator did not stop")
	}
}

func TestEmulatorRejectsUnknown(t *testing.T) {
	e, _ := newEmulator(t)
	defer e.conn.Close()

	e.handle("blink?3", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 1})
	s := e.State()
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, 0, s.Received)
}

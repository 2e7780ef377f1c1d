package lumibear

import (
	"bytes"
	"net"
	"testing"
	"time"

	"lumibear/internal/config"
	"lumibear/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*logger.Log, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	log, err := logger.New(config.LogConf{Level: "debug"}, buf)
	require.NoError(t, err)
	return log, buf
}

// listen returns a loopback socket standing in for the lamp.
func listen(t *testing.T) (net.PacketConn, Destination) {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	addr := conn.LocalAddr().(*net.UDPAddr)
	return conn, Destination{Host: "127.0.0.1", Port: addr.Port}
}

func receive(t *testing.T, conn net.PacketConn) string {
	t.Helper()
	buf := make([]byte, 1024)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err := conn.ReadFrom(buf)
	require.NoError(t, err)
	return string(buf[:n])
}

func newTestSender(t *testing.T, dest Destination) (*Sender, *bytes.Buffer) {
	t.Helper()
	log, buf := newTestLogger(t)
	s, err := NewSender(log, Config{
		Destination: dest,
		Palette:     Palette{Primary: "#a1b2c3ff", Rotate1: "#111111ff", Rotate2: "#222222ff"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, buf
}

func TestSenderOperations(t *testing.T) {
	conn, dest := listen(t)
	s, _ := newTestSender(t, dest)

	tests := []struct {
		send func() error
		want string
	}{
		{func() error { return s.SetColor("a1b2c3") }, "color?a1b2c3"},
		{func() error { return s.SetColor("") }, "color?a1b2c3"},
		{func() error { return s.SetTwo("ff0000", "00ff00") }, "two?ff0000,00ff00"},
		{func() error { return s.SetRotate("ff0000", "00ff00") }, "rotate?ff0000,00ff00"},
		{func() error { return s.SetSweep("ff0000", "00ff00") }, "sweep?ff0000,00ff00"},
		{func() error { return s.SetWave("ff0000", "00ff00") }, "wave?ff0000,00ff00"},
		{func() error { return s.SetLighthouse("north") }, "lighthouse?north"},
		{func() error { return s.SetBrightness(75) }, "brightness?75"},
		{func() error { return s.SetRotWait(20) }, "rotwait?20"},
		{s.On, "on"},
		{s.Off, "off"},
	}
	for _, tt := range tests {
		require.NoError(t, tt.send())
		assert.Equal(t, tt.want, receive(t, conn))
	}
}

func TestSenderDuplicateDatagrams(t *testing.T) {
	conn, dest := listen(t)
	s, _ := newTestSender(t, dest)

	require.NoError(t, s.SetColor("a1b2c3"))
	require.NoError(t, s.SetColor("a1b2c3"))
	assert.Equal(t, "color?a1b2c3", receive(t, conn))
	assert.Equal(t, "color?a1b2c3", receive(t, conn))
}

func TestSenderDispatchPalette(t *testing.T) {
	conn, dest := listen(t)
	s, _ := newTestSender(t, dest)

	require.NoError(t, s.Dispatch(Command{Op: OpRotate}))
	assert.Equal(t, "rotate?111111,222222", receive(t, conn))

	s.SetPalette(Palette{Primary: "#00ff00ff"})
	require.NoError(t, s.Dispatch(Color("")))
	assert.Equal(t, "color?00ff00", receive(t, conn))
}

func TestSenderSetDestination(t *testing.T) {
	first, dest1 := listen(t)
	second, dest2 := listen(t)
	s, _ := newTestSender(t, dest1)

	require.NoError(t, s.On())
	assert.Equal(t, "on", receive(t, first))

	s.SetDestination(dest2)
	assert.Equal(t, dest2, s.Destination())
	require.NoError(t, s.Off())
	assert.Equal(t, "off", receive(t, second))
}

func TestSenderTrace(t *testing.T) {
	conn, dest := listen(t)
	s, buf := newTestSender(t, dest)

	require.NoError(t, s.SetLighthouse("north"))
	receive(t, conn)
	assert.Contains(t, buf.String(), "lighthouse?north")
	assert.Contains(t, buf.String(), "module=lumibear")
}

func TestSenderResolveError(t *testing.T) {
	s, buf := newTestSender(t, Destination{Host: "host.invalid", Port: 8888})

	err := s.On()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host.invalid")
	assert.NotContains(t, buf.String(), "level=info")
}

func TestDestinationString(t *testing.T) {
	assert.Equal(t, "10.0.0.5:9999", Destination{Host: "10.0.0.5", Port: 9999}.String())
	assert.Equal(t, "[::1]:8888", Destination{Host: "::1", Port: 8888}.String())
}

func TestConfigFrom(t *testing.T) {
	cfg := config.Default()
	c := ConfigFrom(&cfg)
	assert.Equal(t, Destination{Host: "192.168.178.83", Port: 8888}, c.Destination)
	assert.Equal(t, "#FFFFFFFF", c.Palette.Primary)
}

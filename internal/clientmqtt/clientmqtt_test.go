package clientmqtt

import (
	"errors"
	"io"
	"testing"

	"lumibear/internal/config"
	"lumibear/internal/logger"
	"lumibear/internal/lumibear"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	sent []lumibear.Command
	err  error
}

func (f *fakeDispatcher) Dispatch(cmd lumibear.Command) error {
	f.sent = append(f.sent, cmd)
	return f.err
}

func newTestClient(t *testing.T, d lumibear.Dispatcher) *ClientMQTT {
	t.Helper()
	log, err := logger.New(config.LogConf{Level: "debug"}, io.Discard)
	require.NoError(t, err)
	return NewClient(log, MQTTConf{TopicPrefix: "lumibear/"}, d)
}

func TestHandle(t *testing.T) {
	d := &fakeDispatcher{}
	c := newTestClient(t, d)

	c.handle("lumibear/brightness", "75")
	c.handle("lumibear/rotate", "ff0000,0000ff\n")
	c.handle("lumibear/on", "")
	c.handle("lumibear/color", "")

	require.Len(t, d.sent, 4)
	assert.Equal(t, "brightness?75", d.sent[0].String())
	assert.Equal(t, "rotate?ff0000,0000ff", d.sent[1].String())
	assert.Equal(t, "on", d.sent[2].String())
	// empty payload is filled from the palette by the sender.
	assert.Equal(t, lumibear.Color(""), d.sent[3])
}

func TestHandleKeepsPayload(t *testing.T) {
	d := &fakeDispatcher{}
	c := newTestClient(t, d)

	c.handle("lumibear/lighthouse", " north  west \r\n")
	require.Len(t, d.sent, 1)
	assert.Equal(t, "lighthouse? north  west ", d.sent[0].String())
}

func TestStopWithoutConnection(t *testing.T) {
	c := newTestClient(t, &fakeDispatcher{})
	assert.NoError(t, c.Stop())
}

func TestHandleIgnored(t *testing.T) {
	d := &fakeDispatcher{}
	c := newTestClient(t, d)

	c.handle("lumibear/available", "online")
	c.handle("lumibear/blink", "1")
	assert.Empty(t, d.sent)
}

func TestHandleSendError(t *testing.T) {
	d := &fakeDispatcher{err: errors.New("unreachable")}
	c := newTestClient(t, d)

	assert.NotPanics(t, func() { c.handle("lumibear/off", "") })
	assert.Len(t, d.sent, 1)
}

func TestTopic(t *testing.T) {
	c := newTestClient(t, &fakeDispatcher{})
	assert.Equal(t, "lumibear/available", c.topic(availableTopic))
	assert.Equal(t, "tcp", c.cfgClient.Schema)
}

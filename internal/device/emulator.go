// Package device emulates a Lumibear lamp: it receives command datagrams,
// decodes them and keeps the resulting lamp state.
package device

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"lumibear/internal/logger"
	"lumibear/internal/lumibear"
)

const maxDatagram = 1500

// State is what the lamp currently shows.
type State struct {
	Power      bool
	Mode       lumibear.Op // last color or effect operation.
	Colors     []string
	Lighthouse string
	Brightness string
	RotWait    string
	Received   int
	Rejected   int
}

// Emulator listens for commands like a real lamp does.
type Emulator struct {
	log  logger.Logger
	conn net.PacketConn

	mu    sync.Mutex
	state State
}

// NewEmulator binds addr immediately so Addr is valid before Run.
func NewEmulator(log logger.Logger, addr string) (*Emulator, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("emulator listen %s: %w", addr, err)
	}
	return &Emulator{log: log, conn: conn}, nil
}

// Addr is the local address datagrams should be sent to.
func (e *Emulator) Addr() net.Addr {
	return e.conn.LocalAddr()
}

// Run reads datagrams until ctx is done.
func (e *Emulator) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		e.conn.Close()
	}()

	e.log.With(logger.Fields{"module": "emulator"}).Infof("listening on %s", e.conn.LocalAddr())
	buf := make([]byte, maxDatagram)
	for {
		n, from, err := e.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("emulator read: %w", err)
		}
		e.handle(string(buf[:n]), from)
	}
}

func (e *Emulator) handle(text string, from net.Addr) {
	log := e.log.With(logger.Fields{"module": "emulator", "from": from.String()})
	cmd, err := lumibear.Parse(text)
	if err != nil {
		e.mu.Lock()
		e.state.Rejected++
		e.mu.Unlock()
		log.Warnf("rejected datagram %q: %v", text, err)
		return
	}
	e.Apply(cmd)
	log.Debugf("applied %s", cmd)
}

// Apply changes the state the way the lamp reacts to cmd.
func (e *Emulator) Apply(cmd lumibear.Command) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Received++
	switch {
	case cmd.Op == lumibear.OpOn:
		e.state.Power = true
	case cmd.Op == lumibear.OpOff:
		e.state.Power = false
	case cmd.Op == lumibear.OpBrightness:
		e.state.Brightness = cmd.Payload
	case cmd.Op == lumibear.OpRotWait:
		e.state.RotWait = cmd.Payload
	case cmd.Op == lumibear.OpLighthouse:
		e.state.Mode = cmd.Op
		e.state.Lighthouse = cmd.Payload
		e.state.Colors = nil
	case cmd.Op == lumibear.OpColor:
		e.state.Mode = cmd.Op
		e.state.Colors = []string{cmd.Payload}
	case cmd.Op.TwoColor():
		e.state.Mode = cmd.Op
		c1, c2, _ := cmd.Colors()
		e.state.Colors = []string{c1, c2}
	}
}

// State returns a copy of the current state.
func (e *Emulator) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	s.Colors = append([]string(nil), e.state.Colors...)
	return s
}

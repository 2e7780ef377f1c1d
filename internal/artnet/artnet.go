package artnet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/Haba1234/go-artnet"
	"github.com/Haba1234/go-artnet/packet"
	"lumibear/internal/logger"
	"lumibear/internal/lumibear"
)

// maxPacket fits the largest Art-Net packet (ArtDMX: 18 byte header + 512 channels).
const maxPacket = 1024

// Listener turns DMX frames from a lighting console into lamp commands.
type Listener struct {
	logger     logger.Logger
	cfg        Conf
	dispatcher lumibear.Dispatcher
	conn       net.PacketConn

	last frame
	seen bool
}

// NewListener конструктор.
func NewListener(log logger.Logger, cfg Conf, dispatcher lumibear.Dispatcher) *Listener {
	return &Listener{
		logger:     log,
		cfg:        cfg,
		dispatcher: dispatcher,
	}
}

// Start binds the Art-Net port and processes packets until ctx is done or Stop is called.
func (l *Listener) Start(ctx context.Context) error {
	addr, err := l.listenAddr()
	if err != nil {
		return err
	}
	conn, err := net.ListenPacket("udp4", addr)
	if err != nil {
		return fmt.Errorf("failed to listen art-net on %s: %w", addr, err)
	}
	l.conn = conn

	address := universeToAddress(l.cfg.Universe)
	l.logger.With(logger.Fields{"module": "art-net"}).Infof("listening on %s, universe %s, channel %d",
		conn.LocalAddr(), address.String(), l.cfg.Channel)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go l.receive(ctx)
	return nil
}

// Stop the Listener.
func (l *Listener) Stop() {
	if l.conn != nil {
		l.conn.Close()
	}
}

// Addr returns the bound address, nil before Start.
func (l *Listener) Addr() net.Addr {
	if l.conn == nil {
		return nil
	}
	return l.conn.LocalAddr()
}

func (l *Listener) listenAddr() (string, error) {
	if l.cfg.Listen != ListenAuto {
		return l.cfg.Listen, nil
	}
	ip, err := FindArtNetIP(l.cfg.Network)
	if err != nil {
		return "", fmt.Errorf("failed to find the art-net IP: %w", err)
	}
	return net.JoinHostPort(ip.String(), strconv.Itoa(Port)), nil
}

func (l *Listener) receive(ctx context.Context) {
	buf := make([]byte, maxPacket)
	for {
		n, _, err := l.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				l.logger.With(logger.Fields{"module": "art-net"}).Errorf("read: %v", err)
			}
			return
		}
		l.handle(buf[:n])
	}
}

// handle decodes one packet. Only ArtDMX for the configured universe matters,
// and only changes of color or dimmer produce commands.
func (l *Listener) handle(b []byte) {
	log := l.logger.With(logger.Fields{"module": "art-net"})

	p, err := packet.Unmarshal(b)
	if err != nil {
		log.Debugf("packet dropped: %v", err)
		return
	}
	dmx, ok := p.(*packet.ArtDMXPacket)
	if !ok {
		return
	}
	if addressToUniverse(dmx.Net, dmx.SubUni) != l.cfg.Universe {
		return
	}

	// a frame shorter than the lamp's channels does not address the lamp.
	start := l.cfg.Channel - 1
	if start < 0 || start+footprint > int(dmx.Length) || start+footprint > len(dmx.Data) {
		return
	}
	f := frame{
		Red:    dmx.Data[start],
		Green:  dmx.Data[start+1],
		Blue:   dmx.Data[start+2],
		Dimmer: dmx.Data[start+3],
	}

	if !l.seen || !f.sameColor(l.last) {
		l.dispatch(lumibear.Color(f.hex()))
	}
	if !l.seen || f.Dimmer != l.last.Dimmer {
		l.dispatch(lumibear.Brightness(int(f.Dimmer)))
	}
	l.last, l.seen = f, true
}

func (l *Listener) dispatch(cmd lumibear.Command) {
	if err := l.dispatcher.Dispatch(cmd); err != nil {
		l.logger.With(logger.Fields{"module": "art-net"}).Errorf("failed to send %s: %v", cmd, err)
	}
}

// universeToAddress converts a dmx universe to art-net address
// universe: старший байт - Net, младший байт - SubUni.
func universeToAddress(universe uint16) artnet.Address {
	return artnet.Address{
		Net:    uint8(universe >> 8),
		SubUni: uint8(universe),
	}
}

func addressToUniverse(netAddr, subUni uint8) uint16 {
	return uint16(netAddr)<<8 | uint16(subUni)
}

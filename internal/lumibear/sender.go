package lumibear

import (
	"fmt"
	"net"
	"strconv"
	"sync"

	"lumibear/internal/config"
	"lumibear/internal/logger"
)

// Destination is the address of the lamp.
type Destination struct {
	Host string
	Port int
}

func (d Destination) String() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// Config is what a Sender needs to start.
type Config struct {
	Destination Destination
	Palette     Palette
}

// ConfigFrom converts the loaded configuration file.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Destination: Destination{Host: cfg.Device.Host, Port: cfg.Device.Port},
		Palette:     PaletteFromConfig(cfg.Colors),
	}
}

// Sender writes commands to the lamp, one datagram each.
// It is safe for use by several front-ends at once.
type Sender struct {
	log  logger.Logger
	conn net.PacketConn

	mu      sync.Mutex
	dest    Destination
	palette Palette
}

// Dispatcher is implemented by Sender; front-ends depend on it.
type Dispatcher interface {
	Dispatch(cmd Command) error
}

// NewSender opens the socket used for every send until Close.
func NewSender(log logger.Logger, cfg Config) (*Sender, error) {
	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return nil, fmt.Errorf("failed to open udp socket: %w", err)
	}
	return &Sender{
		log:     log,
		conn:    conn,
		dest:    cfg.Destination,
		palette: cfg.Palette,
	}, nil
}

func (s *Sender) Destination() Destination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dest
}

// SetDestination takes effect with the next send.
func (s *Sender) SetDestination(d Destination) {
	s.mu.Lock()
	s.dest = d
	s.mu.Unlock()
}

func (s *Sender) Palette() Palette {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.palette
}

func (s *Sender) SetPalette(p Palette) {
	s.mu.Lock()
	s.palette = p
	s.mu.Unlock()
}

// Send writes cmd as a single datagram. There is no reply, no retry and no
// delivery confirmation; resolution and socket errors are returned as is.
func (s *Sender) Send(cmd Command) error {
	dest := s.Destination()
	addr, err := net.ResolveUDPAddr("udp", dest.String())
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dest, err)
	}
	if _, err = s.conn.WriteTo(cmd.Encode(), addr); err != nil {
		return fmt.Errorf("send %q to %s: %w", cmd, dest, err)
	}
	s.log.With(logger.Fields{"module": "lumibear", "dest": dest.String()}).Info(cmd.String())
	return nil
}

// Dispatch sends cmd, taking empty color payloads from the palette.
func (s *Sender) Dispatch(cmd Command) error {
	return s.Send(s.Palette().fill(cmd))
}

// SetColor sends color?RRGGBB. An empty color uses the primary palette color.
func (s *Sender) SetColor(color string) error {
	return s.Dispatch(Color(color))
}

func (s *Sender) SetTwo(c1, c2 string) error {
	return s.Send(Two(c1, c2))
}

func (s *Sender) SetRotate(c1, c2 string) error {
	return s.Send(Rotate(c1, c2))
}

func (s *Sender) SetSweep(c1, c2 string) error {
	return s.Send(Sweep(c1, c2))
}

func (s *Sender) SetWave(c1, c2 string) error {
	return s.Send(Wave(c1, c2))
}

func (s *Sender) SetLighthouse(id string) error {
	return s.Send(Lighthouse(id))
}

func (s *Sender) SetBrightness(value int) error {
	return s.Send(Brightness(value))
}

func (s *Sender) SetRotWait(value int) error {
	return s.Send(RotWait(value))
}

func (s *Sender) On() error {
	return s.Send(On())
}

func (s *Sender) Off() error {
	return s.Send(Off())
}

// Close releases the socket.
func (s *Sender) Close() error {
	return s.conn.Close()
}

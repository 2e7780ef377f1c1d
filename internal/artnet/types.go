package artnet

import "fmt"

// Port is the UDP port Art-Net nodes listen on.
const Port = 6454

// ListenAuto binds to the local address found inside Conf.Network.
const ListenAuto = "auto"

// footprint is the number of DMX channels the lamp occupies: R, G, B, dimmer.
const footprint = 4

// Conf описывает какие каналы DMX управляют лампой.
type Conf struct {
	Listen   string // Listen - адрес приёма, ":6454" или "auto".
	Network  string // Network - CIDR сети Art-Net для "auto".
	Universe uint16 // Universe: старший байт - Net, младший байт - SubUni.
	Channel  int    // Channel: первый канал (1-based).
}

// frame is the lamp's slice of a DMX universe.
type frame struct {
	Red, Green, Blue, Dimmer uint8
}

func (f frame) hex() string {
	return fmt.Sprintf("%02x%02x%02x", f.Red, f.Green, f.Blue)
}

func (f frame) sameColor(o frame) bool {
	return f.Red == o.Red && f.Green == o.Green && f.Blue == o.Blue
}

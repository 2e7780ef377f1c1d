// Package lumibear encodes lamp commands and sends them as UDP datagrams.
package lumibear

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownOp is returned when a front-end names an operation the lamp does not know.
var ErrUnknownOp = errors.New("unknown operation")

// Op is the operation name that starts every command.
type Op string

func (o Op) String() string {
	return string(o)
}

// Supported operations.
const (
	OpColor      Op = "color"
	OpTwo        Op = "two"
	OpRotate     Op = "rotate"
	OpSweep      Op = "sweep"
	OpWave       Op = "wave"
	OpLighthouse Op = "lighthouse"
	OpBrightness Op = "brightness"
	OpRotWait    Op = "rotwait"
	OpOn         Op = "on"
	OpOff        Op = "off"
)

const (
	payloadSep = "?"
	colorSep   = ","
)

var ops = map[Op]struct{}{
	OpColor: {}, OpTwo: {}, OpRotate: {}, OpSweep: {}, OpWave: {},
	OpLighthouse: {}, OpBrightness: {}, OpRotWait: {}, OpOn: {}, OpOff: {},
}

// Known reports whether o is a supported operation.
func (o Op) Known() bool {
	_, ok := ops[o]
	return ok
}

// Bare reports whether the operation is sent without payload.
func (o Op) Bare() bool {
	return o == OpOn || o == OpOff
}

// TwoColor reports whether the payload is a comma-joined color pair.
func (o Op) TwoColor() bool {
	switch o {
	case OpTwo, OpRotate, OpSweep, OpWave:
		return true
	}
	return false
}

// Command is one datagram worth of instruction for the lamp.
type Command struct {
	Op      Op
	Payload string
}

// String returns the wire text of the command.
func (c Command) String() string {
	if c.Op.Bare() {
		return string(c.Op)
	}
	return string(c.Op) + payloadSep + c.Payload
}

// Encode returns the UTF-8 datagram payload.
func (c Command) Encode() []byte {
	return []byte(c.String())
}

func Color(color string) Command {
	return Command{Op: OpColor, Payload: color}
}

func Two(c1, c2 string) Command {
	return pair(OpTwo, c1, c2)
}

func Rotate(c1, c2 string) Command {
	return pair(OpRotate, c1, c2)
}

func Sweep(c1, c2 string) Command {
	return pair(OpSweep, c1, c2)
}

func Wave(c1, c2 string) Command {
	return pair(OpWave, c1, c2)
}

// Lighthouse selects a lighthouse pattern by its identifier, passed as is.
func Lighthouse(id string) Command {
	return Command{Op: OpLighthouse, Payload: id}
}

// Brightness is not range checked.
func Brightness(value int) Command {
	return Command{Op: OpBrightness, Payload: strconv.Itoa(value)}
}

func RotWait(value int) Command {
	return Command{Op: OpRotWait, Payload: strconv.Itoa(value)}
}

func On() Command {
	return Command{Op: OpOn}
}

func Off() Command {
	return Command{Op: OpOff}
}

func pair(op Op, c1, c2 string) Command {
	return Command{Op: op, Payload: c1 + colorSep + c2}
}

// Decode builds a command from an operation name and its raw payload as
// received by a front-end. The payload is kept verbatim; on and off drop it.
func Decode(op, payload string) (Command, error) {
	o := Op(strings.ToLower(strings.TrimSpace(op)))
	if !o.Known() {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
	if o.Bare() {
		return Command{Op: o}, nil
	}
	return Command{Op: o, Payload: payload}, nil
}

// Parse decodes the wire text of a datagram.
func Parse(text string) (Command, error) {
	op, payload := text, ""
	if i := strings.Index(text, payloadSep); i >= 0 {
		op, payload = text[:i], text[i+1:]
	}
	if !Op(op).Known() {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
	return Command{Op: Op(op), Payload: payload}, nil
}

// Colors splits a two-color payload. ok is false when there is no separator.
func (c Command) Colors() (c1, c2 string, ok bool) {
	i := strings.Index(c.Payload, colorSep)
	if i < 0 {
		return c.Payload, "", false
	}
	return c.Payload[:i], c.Payload[i+1:], true
}

package isg

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// Transport sends a request PDU to a unit and returns the response PDU.
type Transport interface {
	Request(ctx context.Context, unitID byte, pdu []byte) ([]byte, error)
	Close() error
}

// RTUTransport talks Modbus RTU over a serial port. The port is opened for
// every request so a replugged adapter is picked up again.
type RTUTransport struct {
	serialPort string
	mode       *serial.Mode
	timeout    time.Duration
	mutex      sync.Mutex
}

func NewRTUTransport(serialPort string, baudRate int, timeout time.Duration) *RTUTransport {
	return &RTUTransport{
		serialPort: serialPort,
		mode: &serial.Mode{
			BaudRate: baudRate,
			DataBits: 8,
			Parity:   serial.EvenParity,
			StopBits: serial.OneStopBit,
		},
		timeout: timeout,
	}
}

func (t *RTUTransport) Request(ctx context.Context, unitID byte, pdu []byte) ([]byte, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	port, err := serial.Open(t.serialPort, t.mode)
	if err != nil {
		return nil, err
	}
	defer port.Close()

	timeout := t.timeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		return nil, err
	}

	return rtuRoundTrip(port, unitID, pdu)
}

func (t *RTUTransport) Close() error {
	return nil
}

func rtuRoundTrip(rw io.ReadWriter, unitID byte, pdu []byte) ([]byte, error) {
	packed := packRTU(unitID, pdu)

	n, err := rw.Write(packed)
	if err != nil {
		return nil, err
	}
	if n != len(packed) {
		return nil, fmt.Errorf("short write: %v of %v bytes", n, len(packed))
	}

	r := &timeoutReader{r: rw}

	header := make([]byte, 3)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	var remaining int
	if header[1]&0x80 != 0 {
		remaining = 2
	} else {
		remaining = int(header[2]) + 2
	}

	frame := make([]byte, 3+remaining)
	copy(frame, header)
	if _, err := io.ReadFull(r, frame[3:]); err != nil {
		return nil, err
	}

	return unpackRTU(unitID, frame)
}

// timeoutReader turns the (0, nil) a serial port returns on read timeout into
// ErrNoResponse.
type timeoutReader struct {
	r io.Reader
}

func (t *timeoutReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if n == 0 && err == nil {
		return 0, ErrNoResponse
	}

	return n, err
}

// TCPTransport talks Modbus TCP, e.g. to the ISG web gateway on port 502.
// The connection is kept open between requests and redialed after errors.
type TCPTransport struct {
	address       string
	timeout       time.Duration
	dial          func(ctx context.Context, network, address string) (net.Conn, error)
	mutex         sync.Mutex
	conn          net.Conn
	transactionID uint16
}

func NewTCPTransport(address string, timeout time.Duration) *TCPTransport {
	dialer := &net.Dialer{Timeout: timeout}

	return &TCPTransport{
		address: address,
		timeout: timeout,
		dial:    dialer.DialContext,
	}
}

func (t *TCPTransport) Request(ctx context.Context, unitID byte, pdu []byte) ([]byte, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.conn == nil {
		conn, err := t.dial(ctx, "tcp", t.address)
		if err != nil {
			return nil, err
		}
		log.Debugf("Connected to %v", t.address)
		t.conn = conn
	}

	response, err := t.roundTrip(ctx, unitID, pdu)
	if err != nil {
		t.conn.Close()
		t.conn = nil
		return nil, err
	}

	return response, nil
}

func (t *TCPTransport) roundTrip(ctx context.Context, unitID byte, pdu []byte) ([]byte, error) {
	deadline := time.Now().Add(t.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := t.conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	t.transactionID++
	if _, err := t.conn.Write(packTCP(t.transactionID, unitID, pdu)); err != nil {
		return nil, err
	}

	header := make([]byte, 7)
	if _, err := io.ReadFull(t.conn, header); err != nil {
		return nil, err
	}

	if id := binary.BigEndian.Uint16(header[0:2]); id != t.transactionID {
		return nil, fmt.Errorf("%w: transaction id %v, expected %v", ErrInvalidResponse, id, t.transactionID)
	}
	if protocol := binary.BigEndian.Uint16(header[2:4]); protocol != 0 {
		return nil, fmt.Errorf("%w: protocol id %v", ErrInvalidResponse, protocol)
	}

	length := int(binary.BigEndian.Uint16(header[4:6]))
	if length < 2 || length > 254 {
		return nil, fmt.Errorf("%w: length %v", ErrInvalidResponse, length)
	}

	response := make([]byte, length-1)
	if _, err := io.ReadFull(t.conn, response); err != nil {
		return nil, err
	}

	return response, nil
}

func (t *TCPTransport) Close() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.conn == nil {
		return nil
	}

	err := t.conn.Close()
	t.conn = nil

	return err
}

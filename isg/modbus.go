package isg

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	funcReadInputRegisters   = 0x04
	funcReadHoldingRegisters = 0x03

	maxRegistersPerRead = 125
)

var (
	ErrNoResponse      = errors.New("no response")
	ErrCRC             = errors.New("crc mismatch")
	ErrInvalidResponse = errors.New("invalid response")
)

// ExceptionError is returned when the device answers with a Modbus exception.
type ExceptionError struct {
	Function byte
	Code     byte
}

func (e *ExceptionError) Error() string {
	var reason string
	switch e.Code {
	case 0x01:
		reason = "illegal function"
	case 0x02:
		reason = "illegal data address"
	case 0x03:
		reason = "illegal data value"
	case 0x04:
		reason = "server device failure"
	case 0x06:
		reason = "server device busy"
	default:
		reason = fmt.Sprintf("code %#02x", e.Code)
	}

	return fmt.Sprintf("modbus exception on function %#02x: %v", e.Function, reason)
}

func readRequest(function byte, address uint16, count uint16) ([]byte, error) {
	if count == 0 || count > maxRegistersPerRead {
		return nil, fmt.Errorf("invalid register count %v", count)
	}

	pdu := make([]byte, 5)
	pdu[0] = function
	binary.BigEndian.PutUint16(pdu[1:3], address)
	binary.BigEndian.PutUint16(pdu[3:5], count)

	return pdu, nil
}

// parseReadResponse validates a read response PDU and returns its registers.
func parseReadResponse(function byte, count uint16, pdu []byte) ([]uint16, error) {
	if len(pdu) < 2 {
		return nil, ErrInvalidResponse
	}

	if pdu[0] == function|0x80 {
		return nil, &ExceptionError{Function: function, Code: pdu[1]}
	}

	if pdu[0] != function {
		return nil, fmt.Errorf("%w: expected function %#02x, got %#02x", ErrInvalidResponse, function, pdu[0])
	}

	byteCount := int(pdu[1])
	if byteCount != int(count)*2 || len(pdu) != 2+byteCount {
		return nil, fmt.Errorf("%w: expected %v registers, got %v bytes", ErrInvalidResponse, count, len(pdu)-2)
	}

	registers := make([]uint16, count)
	for i := range registers {
		registers[i] = binary.BigEndian.Uint16(pdu[2+2*i:])
	}

	return registers, nil
}

func crc16(data []byte) uint16 {
	crc := uint16(0xffff)

	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc = crc>>1 ^ 0xa001
			} else {
				crc >>= 1
			}
		}
	}

	return crc
}

// packRTU frames a PDU for a serial line: slave id, PDU, CRC little endian.
func packRTU(slaveID byte, pdu []byte) []byte {
	packed := make([]byte, 0, len(pdu)+3)
	packed = append(packed, slaveID)
	packed = append(packed, pdu...)

	crc := crc16(packed)

	return append(packed, byte(crc), byte(crc>>8))
}

func unpackRTU(slaveID byte, frame []byte) ([]byte, error) {
	if len(frame) < 4 {
		return nil, ErrNoResponse
	}

	n := len(frame)
	expected := binary.LittleEndian.Uint16(frame[n-2:])
	if crc16(frame[:n-2]) != expected {
		return nil, ErrCRC
	}

	if frame[0] != slaveID {
		return nil, fmt.Errorf("%w: response from slave %v, expected %v", ErrInvalidResponse, frame[0], slaveID)
	}

	return frame[1 : n-2], nil
}

// packTCP frames a PDU with the MBAP header used by Modbus TCP.
func packTCP(transactionID uint16, unitID byte, pdu []byte) []byte {
	packed := make([]byte, 7, 7+len(pdu))
	binary.BigEndian.PutUint16(packed[0:2], transactionID)
	binary.BigEndian.PutUint16(packed[2:4], 0)
	binary.BigEndian.PutUint16(packed[4:6], uint16(len(pdu)+1))
	packed[6] = unitID

	return append(packed, pdu...)
}

package dexparser

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// byteReader walks an instruction payload sequentially. All integers are
// little-endian, strings are u32-length-prefixed UTF-8 (borsh layout).
type byteReader struct {
	data []byte
	pos  int
}

func newByteReader(data []byte) *byteReader {
	return &byteReader{data: data}
}

func (r *byteReader) remaining() int {
	return len(r.data) - r.pos
}

func (r *byteReader) readU8() (uint8, error) {
	if r.remaining() < 1 {
		return 0, fmt.Errorf("read u8 at %d: data too short (%d)", r.pos, len(r.data))
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *byteReader) readU16() (uint16, error) {
	if r.remaining() < 2 {
		return 0, fmt.Errorf("read u16 at %d: data too short (%d)", r.pos, len(r.data))
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *byteReader) readU32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, fmt.Errorf("read u32 at %d: data too short (%d)", r.pos, len(r.data))
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *byteReader) readU64() (uint64, error) {
	if r.remaining() < 8 {
		return 0, fmt.Errorf("read u64 at %d: data too short (%d)", r.pos, len(r.data))
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *byteReader) readI64() (int64, error) {
	v, err := r.readU64()
	return int64(v), err
}

func (r *byteReader) readBool() (bool, error) {
	v, err := r.readU8()
	return v != 0, err
}

func (r *byteReader) readPubkey() (solana.PublicKey, error) {
	var pk solana.PublicKey
	if r.remaining() < 32 {
		return pk, fmt.Errorf("read pubkey at %d: data too short (%d)", r.pos, len(r.data))
	}
	copy(pk[:], r.data[r.pos:r.pos+32])
	r.pos += 32
	return pk, nil
}

func (r *byteReader) readString() (string, error) {
	n, err := r.readU32()
	if err != nil {
		return "", err
	}
	if uint32(r.remaining()) < n {
		return "", fmt.Errorf("read string at %d: length %d exceeds data (%d)", r.pos, n, len(r.data))
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

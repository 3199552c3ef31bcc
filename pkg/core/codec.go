package core

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrMalformedObject = errors.New("malformed object")
	ErrUnknownType     = errors.New("unknown object type")
)

// Encode returns the canonical form of obj:
//
//	<type> SP <decimal payload length> NUL <payload>
//
// The object name is the SHA-1 of exactly these bytes.
func Encode(obj Object) []byte {
	payload := obj.Payload()
	size := strconv.Itoa(len(payload))

	buf := make([]byte, 0, len(obj.Type())+1+len(size)+1+len(payload))
	buf = append(buf, obj.Type()...)
	buf = append(buf, ' ')
	buf = append(buf, size...)
	buf = append(buf, 0)
	buf = append(buf, payload...)
	return buf
}

// Header is the parsed prefix of an encoded object.
type Header struct {
	Type ObjectType
	Size int64
	// Offset is the index of the first payload byte.
	Offset int
}

// ParseHeader reads the type tag and the declared length and checks
// the length against the bytes that follow the NUL.
func ParseHeader(raw []byte) (Header, error) {
	// 1. type tag ends at the first space
	sp := bytes.IndexByte(raw, ' ')
	if sp < 0 {
		return Header{}, fmt.Errorf("%w: missing type separator", ErrMalformedObject)
	}

	// 2. length field ends at the first NUL after it
	nul := bytes.IndexByte(raw[sp+1:], 0)
	if nul < 0 {
		return Header{}, fmt.Errorf("%w: missing header terminator", ErrMalformedObject)
	}
	nul += sp + 1

	sizeField := raw[sp+1 : nul]
	size, err := strconv.ParseInt(string(sizeField), 10, 64)
	if err != nil || size < 0 {
		return Header{}, fmt.Errorf("%w: invalid length %q", ErrMalformedObject, sizeField)
	}
	if size != int64(len(raw)-nul-1) {
		return Header{}, fmt.Errorf("%w: bad length (declared %d, actual %d)", ErrMalformedObject, size, len(raw)-nul-1)
	}

	// 3. tag must be one of the known variants
	t, err := ParseObjectType(raw[:sp])
	if err != nil {
		return Header{}, err
	}

	return Header{Type: t, Size: size, Offset: nul + 1}, nil
}

// Decode parses canonical bytes back into a typed object.
// The returned object does not alias raw.
func Decode(raw []byte) (Object, error) {
	hdr, err := ParseHeader(raw)
	if err != nil {
		return nil, err
	}
	payload := make([]byte, len(raw)-hdr.Offset)
	copy(payload, raw[hdr.Offset:])
	return New(hdr.Type, payload)
}

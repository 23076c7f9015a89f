package hash

import (
	"bytes"
	"encoding/gob"
)

// Compile-time checks to ensure the hash families satisfy the gob interfaces.
var (
	_ gob.GobEncoder = (*SRP)(nil)
	_ gob.GobDecoder = (*SRP)(nil)
	_ gob.GobEncoder = (*L2)(nil)
	_ gob.GobDecoder = (*L2)(nil)
	_ gob.GobEncoder = (*MIPS)(nil)
	_ gob.GobDecoder = (*MIPS)(nil)
)

// GobEncode method for SRP.
func (s *SRP) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)

	if err := encoder.Encode(s.planes); err != nil {
		return nil, err
	}

	if err := encoder.Encode(s.dim); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode method for SRP.
func (s *SRP) GobDecode(data []byte) error {
	decoder := gob.NewDecoder(bytes.NewBuffer(data))

	if err := decoder.Decode(&s.planes); err != nil {
		return err
	}

	return decoder.Decode(&s.dim)
}

// GobEncode method for L2.
func (l *L2) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)

	if err := encoder.Encode(l.a); err != nil {
		return nil, err
	}

	if err := encoder.Encode(l.b); err != nil {
		return nil, err
	}

	if err := encoder.Encode(l.r); err != nil {
		return nil, err
	}

	if err := encoder.Encode(l.dim); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode method for L2.
func (l *L2) GobDecode(data []byte) error {
	decoder := gob.NewDecoder(bytes.NewBuffer(data))

	if err := decoder.Decode(&l.a); err != nil {
		return err
	}

	if err := decoder.Decode(&l.b); err != nil {
		return err
	}

	if err := decoder.Decode(&l.r); err != nil {
		return err
	}

	return decoder.Decode(&l.dim)
}

// GobEncode method for MIPS.
func (p *MIPS) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)

	if err := encoder.Encode(p.u); err != nil {
		return nil, err
	}

	if err := encoder.Encode(p.m); err != nil {
		return nil, err
	}

	if err := encoder.Encode(p.dim); err != nil {
		return nil, err
	}

	if err := encoder.Encode(p.hasher); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode method for MIPS.
func (p *MIPS) GobDecode(data []byte) error {
	decoder := gob.NewDecoder(bytes.NewBuffer(data))

	if err := decoder.Decode(&p.u); err != nil {
		return err
	}

	if err := decoder.Decode(&p.m); err != nil {
		return err
	}

	if err := decoder.Decode(&p.dim); err != nil {
		return err
	}

	p.hasher = &L2{}

	return decoder.Decode(p.hasher)
}

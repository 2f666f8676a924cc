package storage

import (
	"bytes"
	"encoding/binary"
	"math/big"
	"sync"

	bin "github.com/gagliardetto/binary"

	"github.com/oyllabs/bonding-curve-go/u128"
)

// Store is the host-provided keyed record binding. Get returns nil when the
// key has never been written; Set overwrites unconditionally.
type Store interface {
	Get(key string) []byte
	Set(key string, value []byte)
	Delete(key string)
}

// MemoryStore is the in-process Store used by tests and local tooling.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (m *MemoryStore) Get(key string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.records[key]
	if !ok {
		return nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out
}

func (m *MemoryStore) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.records[key] = v
}

func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
}

// SetUint128 persists v as a 16-byte little-endian borsh value.
func SetUint128(s Store, key string, v *big.Int) error {
	val, err := u128.FromBig(v)
	if err != nil {
		return err
	}
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteUint128(val, binary.LittleEndian); err != nil {
		return err
	}
	s.Set(key, buf.Bytes())
	return nil
}

// GetUint128 reads a value written by SetUint128. Missing keys decode as zero.
func GetUint128(s Store, key string) (*big.Int, error) {
	raw := s.Get(key)
	if len(raw) == 0 {
		return big.NewInt(0), nil
	}
	dec := bin.NewBorshDecoder(raw)
	v, err := dec.ReadUint128(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	return v.BigInt(), nil
}

func SetUint64(s Store, key string, v uint64) error {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteUint64(v, binary.LittleEndian); err != nil {
		return err
	}
	s.Set(key, buf.Bytes())
	return nil
}

func GetUint64(s Store, key string) (uint64, error) {
	raw := s.Get(key)
	if len(raw) == 0 {
		return 0, nil
	}
	dec := bin.NewBorshDecoder(raw)
	return dec.ReadUint64(binary.LittleEndian)
}

func SetBool(s Store, key string, v bool) error {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteBool(v); err != nil {
		return err
	}
	s.Set(key, buf.Bytes())
	return nil
}

func GetBool(s Store, key string) (bool, error) {
	raw := s.Get(key)
	if len(raw) == 0 {
		return false, nil
	}
	dec := bin.NewBorshDecoder(raw)
	return dec.ReadBool()
}

func SetString(s Store, key, v string) {
	s.Set(key, []byte(v))
}

func GetString(s Store, key string) string {
	return string(s.Get(key))
}

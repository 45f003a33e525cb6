package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainMachine = "fsmcheck/machine/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// MachineHash computes the content-addressed identity of a machine
// definition. Two snapshots with the same canonical form share a hash,
// regardless of how they were authored (CUE, YAML or JSON).
func MachineHash(m *StateMachine) (string, error) {
	canonical, err := MarshalCanonical(m)
	if err != nil {
		return "", fmt.Errorf("MachineHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainMachine, canonical), nil
}

// MustMachineHash is like MachineHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustMachineHash(m *StateMachine) string {
	h, err := MachineHash(m)
	if err != nil {
		panic(err)
	}
	return h
}

// Package solanakey validates Solana public keys and derives program addresses.
package solanakey

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// PumpFunProgram is the pump.fun bonding curve program ID.
const PumpFunProgram = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"

// Valid reports whether s is a well-formed base58-encoded 32-byte key.
func Valid(s string) bool {
	b, err := base58.Decode(s)
	return err == nil && len(b) == 32
}

// OnCurve reports whether s decodes to a point on the ed25519 curve.
// Wallet addresses are on-curve; program derived addresses are not.
func OnCurve(s string) bool {
	b, err := base58.Decode(s)
	if err != nil || len(b) != 32 {
		return false
	}
	return isOnCurve(b)
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

// DerivePDA derives a Program Derived Address for the given seeds.
// Tries bump seeds from 255 down until the hash lands off-curve.
// Returns "" if no valid bump exists or inputs are malformed.
func DerivePDA(seeds [][]byte, programID string) string {
	programBytes, err := base58.Decode(programID)
	if err != nil || len(programBytes) != 32 {
		return ""
	}

	for bump := byte(255); bump > 0; bump-- {
		data := make([]byte, 0)
		for _, seed := range seeds {
			data = append(data, seed...)
		}
		data = append(data, bump)
		data = append(data, programBytes...)
		data = append(data, []byte("ProgramDerivedAddress")...)

		hash := sha256.Sum256(data)

		if !isOnCurve(hash[:]) {
			return base58.Encode(hash[:])
		}
	}

	return ""
}

// BondingCurve derives the pump.fun bonding curve address for a mint.
// Seeds: ["bonding-curve", mint]
func BondingCurve(mint string) string {
	mintBytes, err := base58.Decode(mint)
	if err != nil || len(mintBytes) != 32 {
		return ""
	}

	seeds := [][]byte{
		[]byte("bonding-curve"),
		mintBytes,
	}
	return DerivePDA(seeds, PumpFunProgram)
}

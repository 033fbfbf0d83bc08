// Package merkle builds and verifies the allow-list trees gating claim
// conditions for mints and drops.
package merkle

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Entry is one allow-list line: who may claim, how much, and at what
// price in which currency.
type Entry struct {
	Address      common.Address
	MaxClaimable *big.Int
	Price        *big.Int
	Currency     common.Address
}

// Tree is a Merkle tree over allow-list entries with sorted-pair interior
// hashing, so sibling order never affects a parent hash.
type Tree struct {
	root   common.Hash
	proofs map[common.Address][]common.Hash
}

// Root returns the tree root committed on chain.
func (t *Tree) Root() common.Hash {
	return t.root
}

// Proof returns the inclusion proof for an address, or false when the
// address is not in the tree.
func (t *Tree) Proof(addr common.Address) ([]common.Hash, bool) {
	proof, ok := t.proofs[addr]
	return proof, ok
}

// Generate builds the tree for a set of entries. The root is invariant
// under permutation of the input because leaves are sorted before the
// tree is built. Native-currency entries are normalized to the sentinel
// address before hashing, matching the on-chain verifier.
func Generate(entries []Entry, nativeSentinel common.Address) *Tree {
	leaves := make([][]byte, len(entries))
	for i, entry := range entries {
		leaves[i] = leafHash(entry, nativeSentinel)
	}
	sort.Slice(leaves, func(i, j int) bool {
		return bytes.Compare(leaves[i], leaves[j]) < 0
	})

	// Build every level bottom-up, keeping them for proof extraction. An
	// odd node is promoted to the next level unchanged.
	levels := [][][]byte{leaves}
	for len(levels[len(levels)-1]) > 1 {
		current := levels[len(levels)-1]
		next := make([][]byte, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			if i+1 == len(current) {
				next = append(next, current[i])
				continue
			}
			next = append(next, sortedPairHash(current[i], current[i+1]))
		}
		levels = append(levels, next)
	}

	var root common.Hash
	if len(leaves) > 0 {
		root = common.BytesToHash(levels[len(levels)-1][0])
	}

	proofs := make(map[common.Address][]common.Hash, len(entries))
	for _, entry := range entries {
		leaf := leafHash(entry, nativeSentinel)
		proofs[entry.Address] = proofFor(levels, leaf)
	}

	return &Tree{root: root, proofs: proofs}
}

// Verify re-hashes the entry and folds the proof up to the root. It is a
// predicate: a bad proof yields false, never an error.
func Verify(entry Entry, proof []common.Hash, root common.Hash, nativeSentinel common.Address) bool {
	node := leafHash(entry, nativeSentinel)
	for _, sibling := range proof {
		node = sortedPairHash(node, sibling.Bytes())
	}
	return common.BytesToHash(node) == root
}

// leafHash packs address, claimable quantity, scaled price and normalized
// currency into the fixed leaf layout the claim contract hashes.
func leafHash(entry Entry, nativeSentinel common.Address) []byte {
	currency := entry.Currency
	if currency == (common.Address{}) {
		currency = nativeSentinel
	}

	maxClaimable := entry.MaxClaimable
	if maxClaimable == nil {
		maxClaimable = big.NewInt(0)
	}
	price := entry.Price
	if price == nil {
		price = big.NewInt(0)
	}

	packed := make([]byte, 0, 20+32+32+20)
	packed = append(packed, entry.Address.Bytes()...)
	packed = append(packed, common.LeftPadBytes(maxClaimable.Bytes(), 32)...)
	packed = append(packed, common.LeftPadBytes(price.Bytes(), 32)...)
	packed = append(packed, currency.Bytes()...)
	return crypto.Keccak256(packed)
}

func sortedPairHash(a, b []byte) []byte {
	if bytes.Compare(a, b) > 0 {
		a, b = b, a
	}
	return crypto.Keccak256(append(append([]byte{}, a...), b...))
}

// proofFor walks the stored levels collecting the sibling of the node's
// position at each level.
func proofFor(levels [][][]byte, leaf []byte) []common.Hash {
	idx := -1
	for i, node := range levels[0] {
		if bytes.Equal(node, leaf) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	var proof []common.Hash
	for _, level := range levels[:len(levels)-1] {
		sibling := idx ^ 1
		if sibling < len(level) {
			proof = append(proof, common.BytesToHash(level[sibling]))
		}
		idx /= 2
	}
	return proof
}

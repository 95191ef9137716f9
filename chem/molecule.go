// Package chem defines the contract between the search core and the
// chemistry kernel: molecules, retrons, reaction rules, and the kernel
// capability itself. The kernel's actual chemistry (canonicalization,
// aromaticity, graph-edit rule application) is an external collaborator;
// this package only states what the core needs from it.
package chem

import "fmt"

// Molecule is an opaque, canonical chemical structure. All molecules
// entering the core are assumed already canonical; the kernel is
// responsible for that invariant.
type Molecule interface {
	fmt.Stringer

	// Eq reports structural (canonical-form) equality.
	Eq(other Molecule) bool

	// Hash returns a stable hash suitable for set/map membership.
	Hash() uint64

	// Size returns the atom count.
	Size() int
}

// RuleHandle is an opaque reference to a reaction rule. Only the
// ChemKernel interprets it.
type RuleHandle any

// ProductSet is one possible outcome of applying a rule to a molecule: an
// ordered multiset of product molecules.
type ProductSet []Molecule

// ChemKernel is the capability the search core depends on but never
// implements: canonicalization, rule application, and molecule
// comparison/sizing (the latter two live on Molecule itself).
type ChemKernel interface {
	// Apply applies rule to molecule, yielding a lazy sequence of candidate
	// product multisets. An empty sequence means the rule is inapplicable.
	// Implementations must enumerate in a deterministic order (spec
	// requirement for reproducible search).
	Apply(molecule Molecule, rule RuleHandle) ([]ProductSet, error)

	// Canonicalize returns the canonical form of a molecule.
	Canonicalize(molecule Molecule) (Molecule, error)
}

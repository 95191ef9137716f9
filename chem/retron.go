package chem

// Retron wraps a molecule with the ancestor chain of retrons that led to
// it along one path from the tree root. Equality and hashing delegate to
// the underlying molecule: two Retrons are the same retron iff their
// molecules are structurally equal.
type Retron struct {
	Molecule  Molecule
	Ancestors []Retron // ancestors[0] is this retron itself, by value/hash, not by pointer
}

// NewRootRetron builds a retron for a target molecule: its own ancestor
// chain contains only itself, matching the root-retron construction in
// spec.md §4.1.
func NewRootRetron(mol Molecule) Retron {
	r := Retron{Molecule: mol}
	r.Ancestors = []Retron{r}
	return r
}

// NewRetron builds a retron produced by expanding parentAncestors; its
// ancestor chain is itself followed by the parent's chain.
func NewRetron(mol Molecule, parentAncestors []Retron) Retron {
	r := Retron{Molecule: mol}
	chain := make([]Retron, 0, len(parentAncestors)+1)
	chain = append(chain, r)
	chain = append(chain, parentAncestors...)
	r.Ancestors = chain
	return r
}

// Eq reports whether two retrons wrap the same molecule.
func (r Retron) Eq(other Retron) bool {
	return r.Molecule.Eq(other.Molecule)
}

// Hash delegates to the molecule.
func (r Retron) Hash() uint64 {
	return r.Molecule.Hash()
}

// String delegates to the molecule.
func (r Retron) String() string {
	return r.Molecule.String()
}

// IsBuildingBlock reports whether this retron is a terminal leaf of a
// valid retrosynthetic route: either trivially small, or present in the
// purchasable stock.
func (r Retron) IsBuildingBlock(stock map[string]struct{}, minSize int) bool {
	if r.Molecule.Size() <= minSize {
		return true
	}
	_, ok := stock[r.Molecule.String()]
	return ok
}

// DisjointFromAncestors reports whether none of the given retrons appear
// in prevAncestors, by molecule equality (spec.md §4.7 Expand step 6: loop
// rejection against the ancestor chain).
func DisjointFromAncestors(prevAncestors []Retron, candidates []Retron) bool {
	for _, c := range candidates {
		for _, a := range prevAncestors {
			if c.Eq(a) {
				return false
			}
		}
	}
	return true
}

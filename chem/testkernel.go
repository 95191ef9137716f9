package chem

import (
	"fmt"
	"hash/fnv"
	"sort"
)

// SimpleMolecule is a minimal Molecule implementation identifying a
// molecule purely by a canonical SMILES-like string and an atom count.
// It stands in for a real cheminformatics kernel's molecule type in tests
// and in the TestKernel below.
type SimpleMolecule struct {
	SMILES string
	Atoms  int
}

// NewSimpleMolecule builds a SimpleMolecule with the given SMILES string
// and atom count; the count is stored as given.
func NewSimpleMolecule(smiles string, atoms int) *SimpleMolecule {
	return &SimpleMolecule{SMILES: smiles, Atoms: atoms}
}

func (m *SimpleMolecule) String() string { return m.SMILES }

func (m *SimpleMolecule) Eq(other Molecule) bool {
	o, ok := other.(*SimpleMolecule)
	if !ok {
		return false
	}
	return m.SMILES == o.SMILES
}

func (m *SimpleMolecule) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(m.SMILES))
	return h.Sum64()
}

func (m *SimpleMolecule) Size() int { return m.Atoms }

// CompositeMolecule is the disjoint union of several molecules, used by
// chem.Compose when more than one retron survives the exclude-small
// filter. Its string form is a deterministic, sorted dot-joined SMILES
// list so composing the same set twice always yields the same molecule.
type CompositeMolecule struct {
	smiles string
	atoms  int
}

// NewCompositeMolecule builds the disjoint union of mols.
func NewCompositeMolecule(mols []Molecule) *CompositeMolecule {
	parts := make([]string, len(mols))
	atoms := 0
	for i, m := range mols {
		parts[i] = m.String()
		atoms += m.Size()
	}
	sort.Strings(parts)
	joined := ""
	for i, p := range parts {
		if i > 0 {
			joined += "."
		}
		joined += p
	}
	return &CompositeMolecule{smiles: joined, atoms: atoms}
}

func (m *CompositeMolecule) String() string { return m.smiles }

func (m *CompositeMolecule) Eq(other Molecule) bool {
	o, ok := other.(*CompositeMolecule)
	if !ok {
		return false
	}
	return m.smiles == o.smiles
}

func (m *CompositeMolecule) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(m.smiles))
	return h.Sum64()
}

func (m *CompositeMolecule) Size() int { return m.atoms }

// Rule is a deterministic reaction rule for TestKernel: applying it to a
// molecule whose SMILES equals Reactant yields Products, once.
type Rule struct {
	ID       uint32
	Reactant string
	Products []string // product SMILES; each entry becomes a SimpleMolecule of size 1 unless overridden in Sizes
	Sizes    map[string]int
}

// TestKernel is a deterministic, in-memory ChemKernel used to drive the
// concrete scenarios in spec.md §8. Rule application order follows the
// order rules were registered, matching the determinism the spec demands
// of ChemKernel enumeration.
type TestKernel struct {
	rules map[string][]Rule // reactant SMILES -> applicable rules, in registration order
}

// NewTestKernel builds an empty TestKernel.
func NewTestKernel() *TestKernel {
	return &TestKernel{rules: make(map[string][]Rule)}
}

// AddRule registers rule so that applying its RuleHandle to a molecule with
// SMILES r.Reactant produces r.Products.
func (k *TestKernel) AddRule(r Rule) RuleHandle {
	k.rules[r.Reactant] = append(k.rules[r.Reactant], r)
	return r
}

// Apply implements ChemKernel.
func (k *TestKernel) Apply(molecule Molecule, rule RuleHandle) ([]ProductSet, error) {
	r, ok := rule.(Rule)
	if !ok {
		return nil, fmt.Errorf("chem: TestKernel.Apply: not a TestKernel rule: %T", rule)
	}
	if molecule.String() != r.Reactant {
		return nil, nil
	}
	products := make(ProductSet, len(r.Products))
	for i, p := range r.Products {
		size := 1
		if r.Sizes != nil {
			if s, ok := r.Sizes[p]; ok {
				size = s
			}
		}
		products[i] = NewSimpleMolecule(p, size)
	}
	return []ProductSet{products}, nil
}

// Canonicalize implements ChemKernel; SimpleMolecule is trusted already
// canonical.
func (k *TestKernel) Canonicalize(molecule Molecule) (Molecule, error) {
	return molecule, nil
}

// RulesFor returns the registered rules (as RuleHandles, paired with their
// rule ids) applicable to a molecule with the given SMILES, in
// registration order — used by test-double expansion policies.
func (k *TestKernel) RulesFor(smiles string) []Rule {
	return k.rules[smiles]
}

package chem

// Compose combines a node's new retrons into a single molecule for value
// prediction, per spec.md §4.5. A single retron is returned unchanged;
// multiple retrons are merged into the disjoint union of their atoms and
// bonds, renumbered so no bonds cross between source retrons.
//
// Grounded on original_source/SynTool/chem/retron.py's retrons_to_cgr.
func Compose(retrons []Retron, excludeSmall bool, minSize int) Molecule {
	if len(retrons) == 1 {
		return retrons[0].Molecule
	}

	kept := retrons
	if excludeSmall {
		var big []Retron
		for _, r := range retrons {
			if r.Molecule.Size() > minSize {
				big = append(big, r)
			}
		}
		if len(big) > 0 {
			kept = big
		}
	}

	mols := make([]Molecule, len(kept))
	for i, r := range kept {
		mols[i] = r.Molecule
	}
	return DisjointUnion(mols)
}

// DisjointUnion is implemented by the concrete Molecule type in use; the
// core never constructs the union itself since atom/bond representation is
// kernel-specific. See chem.SetJoiner for the extension point a real kernel
// registers.
var DisjointUnion = defaultDisjointUnion

// SetJoiner lets a ChemKernel implementation register how disjoint unions of
// its own Molecule type are built, since atom/bond layout is kernel
// specific and opaque to this package.
func SetJoiner(fn func([]Molecule) Molecule) {
	DisjointUnion = fn
}

func defaultDisjointUnion(mols []Molecule) Molecule {
	if len(mols) == 0 {
		return nil
	}
	return NewCompositeMolecule(mols)
}

package ranking

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Subfield is a static keyword-based topical classification. Keywords are
// matched as case-insensitive substrings of publication titles.
type Subfield struct {
	Key      string
	Label    string
	Keywords []string
}

// Subfields is the fixed reference table; there is no dynamic subfield
// creation. Order here is the display order.
var Subfields = []Subfield{
	{
		Key:   "algorithms",
		Label: "Quantum Algorithms",
		Keywords: []string{
			"quantum algorithm", "quantum circuit", "quantum walk",
			"quantum optimization", "variational quantum", "vqe", "qaoa",
			"amplitude amplification", "quantum speedup",
		},
	},
	{
		Key:   "complexity",
		Label: "Quantum Complexity Theory",
		Keywords: []string{
			"quantum advantage", "quantum supremacy", "bqp", "qma", "qcma",
			"qszk", "classical simulation of quantum", "quantum lower bound",
			"query complexity",
		},
	},
	{
		Key:   "cryptography",
		Label: "Quantum Cryptography",
		Keywords: []string{
			"quantum cryptography", "quantum key distribution", "qkd",
			"post-quantum", "quantum money", "quantum randomness",
			"randomness amplification", "device-independent",
		},
	},
	{
		Key:   "error-correction",
		Label: "Error Correction & Fault Tolerance",
		Keywords: []string{
			"quantum error correction", "qec", "surface code",
			"stabilizer code", "fault tolerant", "fault-tolerant",
			"ldpc code", "magic state",
		},
	},
	{
		Key:   "information-theory",
		Label: "Quantum Information Theory",
		Keywords: []string{
			"quantum channel", "quantum capacity", "quantum entropy",
			"coherent information", "quantum mutual information",
			"quantum de finetti", "quantum shannon",
		},
	},
	{
		Key:   "foundations",
		Label: "Foundations & Nonlocality",
		Keywords: []string{
			"bell inequality", "nonlocality", "entanglement", "contextuality",
			"self-testing", "self testing", "measurement-based quantum", "mbqc",
		},
	},
	{
		Key:   "interactive-proofs",
		Label: "Interactive Proofs & Verification",
		Keywords: []string{
			"interactive proof", "nonlocal game", "entangled prover",
			"multiprover", "multi-prover", "mip*", "quantum pcp",
			"classical verification of quantum", "verifiable quantum",
		},
	},
	{
		Key:   "simulation",
		Label: "Quantum Simulation",
		Keywords: []string{
			"quantum simulation", "hamiltonian simulation", "analog simulator",
			"many-body", "quantum chemistry",
		},
	},
	{
		Key:   "machine-learning",
		Label: "Quantum Machine Learning",
		Keywords: []string{
			"quantum machine learning", "quantum neural", "quantum kernel",
			"quantum learning theory", "shadow tomography",
		},
	},
	{
		Key:   "superconducting",
		Label: "Superconducting Platforms",
		Keywords: []string{
			"superconducting qubit", "transmon", "josephson",
			"circuit qed", "flux qubit",
		},
	},
	{
		Key:   "trapped-ion",
		Label: "Trapped Ions & Neutral Atoms",
		Keywords: []string{
			"trapped ion", "trapped-ion", "ion trap", "neutral atom",
			"rydberg", "optical lattice",
		},
	},
	{
		Key:   "photonics",
		Label: "Photonic Platforms",
		Keywords: []string{
			"photonic", "boson sampling", "boson-sampling",
			"linear optic", "squeezed light", "single photon",
		},
	},
}

// SubfieldByKey returns the subfield definition, or false if unknown.
func SubfieldByKey(key string) (Subfield, bool) {
	for _, s := range Subfields {
		if s.Key == key {
			return s, true
		}
	}
	return Subfield{}, false
}

func normalizeKeyword(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(norm.NFKC.String(s))
}

// ActiveKeywords flattens the selected subfields into the union of their
// keywords, normalized and lower-cased with empties discarded. This set is
// everything the aggregation pass needs from the classifier.
func ActiveKeywords(selected map[string]bool) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, sf := range Subfields {
		if !selected[sf.Key] {
			continue
		}
		for _, kw := range sf.Keywords {
			normed := normalizeKeyword(kw)
			if normed == "" {
				continue
			}
			if _, ok := seen[normed]; ok {
				continue
			}
			seen[normed] = struct{}{}
			out = append(out, normed)
		}
	}
	return out
}

// titleMatches reports whether the normalized title contains at least one
// active keyword. An empty title never matches: a publication that cannot
// be classified is excluded under active subfield filtering.
func titleMatches(title string, keywords []string) bool {
	if title == "" {
		return false
	}
	t := normalizeKeyword(title)
	for _, kw := range keywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

// Package harvest builds the rankings dataset from public bibliography
// APIs: conference streams come from DBLP and are resolved to OpenAlex
// works, journals are harvested from OpenAlex directly by source id.
package harvest

// VenueConfig describes one venue to harvest. Exactly one of DBLPVenue or
// SourceIDs drives the harvest; RequireKeywords gates generic venues (FOCS,
// Nature, PRL, ...) so only quantum-related papers are kept.
type VenueConfig struct {
	Code            string   `json:"code"`
	Name            string   `json:"name"`
	DBLPVenue       string   `json:"dblp_venue,omitempty"`
	SourceIDs       []string `json:"source_ids,omitempty"`
	RequireKeywords bool     `json:"require_keywords"`
}

// DefaultVenues is the stock venue table. Conference acronyms match DBLP's
// venue field; journal source ids are the stable OpenAlex identifiers.
var DefaultVenues = []VenueConfig{
	{Code: "FOCS", Name: "IEEE Symposium on Foundations of Computer Science (FOCS)", DBLPVenue: "FOCS", RequireKeywords: true},
	{Code: "STOC", Name: "ACM Symposium on Theory of Computing (STOC)", DBLPVenue: "STOC", RequireKeywords: true},
	{Code: "SODA", Name: "ACM-SIAM Symposium on Discrete Algorithms (SODA)", DBLPVenue: "SODA", RequireKeywords: true},
	{Code: "CCC", Name: "IEEE Conference on Computational Complexity (CCC)", DBLPVenue: "CCC", RequireKeywords: true},
	{Code: "ITCS", Name: "Innovations in Theoretical Computer Science (ITCS)", DBLPVenue: "ITCS", RequireKeywords: true},
	{Code: "CRYPTO", Name: "International Cryptology Conference (CRYPTO)", DBLPVenue: "CRYPTO", RequireKeywords: true},
	{Code: "EUROCRYPT", Name: "European Cryptology Conference (EUROCRYPT)", DBLPVenue: "EUROCRYPT", RequireKeywords: true},
	{Code: "QCRYPT", Name: "Conference on Quantum Cryptography (QCrypt)", DBLPVenue: "QCRYPT"},
	{Code: "TQC", Name: "Theory of Quantum Computation, Communication and Cryptography (TQC)", DBLPVenue: "TQC"},
	{Code: "NPJQI", Name: "npj Quantum Information", SourceIDs: []string{"https://openalex.org/S2738600312"}},
	{Code: "PRXQ", Name: "PRX Quantum", SourceIDs: []string{"https://openalex.org/S4210195673"}},
	{Code: "QUANTUM", Name: "Quantum (open journal)", SourceIDs: []string{"https://openalex.org/S4210226432"}},
	{Code: "QIC", Name: "Quantum Information and Computation", SourceIDs: []string{"https://openalex.org/S41034432"}},
	{Code: "ACMTQC", Name: "ACM Transactions on Quantum Computing", SourceIDs: []string{"https://openalex.org/S4210170170"}},
	{Code: "NATCOMM", Name: "Nature Communications", SourceIDs: []string{"https://openalex.org/S64187185"}, RequireKeywords: true},
	{Code: "NATPHYS", Name: "Nature Physics", SourceIDs: []string{"https://openalex.org/S156274416"}, RequireKeywords: true},
	{Code: "NATURE", Name: "Nature", SourceIDs: []string{"https://openalex.org/S137773608"}, RequireKeywords: true},
	{Code: "SCIENCE", Name: "Science", SourceIDs: []string{"https://openalex.org/S3880285"}, RequireKeywords: true},
	{Code: "PRL", Name: "Physical Review Letters", SourceIDs: []string{"https://openalex.org/S24807848"}, RequireKeywords: true},
	{Code: "PRA", Name: "Physical Review A", SourceIDs: []string{"https://openalex.org/S164566984"}, RequireKeywords: true},
	{Code: "PRX", Name: "Physical Review X", SourceIDs: []string{"https://openalex.org/S137042341"}, RequireKeywords: true},
	{Code: "ISIT", Name: "IEEE Transactions on Information Theory", SourceIDs: []string{"https://openalex.org/S4502562"}, RequireKeywords: true},
}

// QuantumKeywords marks a generic-venue paper as quantum-related when any
// of them appears in the title or abstract.
var QuantumKeywords = []string{
	"quantum", "qubit", "qudit", "qutrit",

	"quantum algorithm", "quantum circuit", "quantum optimization",
	"variational quantum", "vqa", "vqe", "qaoa", "quantum walk",
	"boson sampling", "hamiltonian simulation", "quantum simulation",

	"entanglement", "bell inequality", "nonlocality",
	"quantum key distribution", "qkd", "device-independent",
	"measurement-based quantum", "mbqc",

	"quantum advantage", "quantum supremacy", "bqp", "qma", "qcma", "qszk",
	"boson-sampling", "classical simulation of quantum",

	"quantum error correction", "qec", "surface code", "stabilizer code",
	"fault tolerant", "fault-tolerant",

	"quantum channel", "quantum capacity", "quantum information",
	"quantum entropy", "coherent information", "quantum mutual information",

	"quantum cryptography", "post-quantum", "quantum randomness",
	"randomness amplification", "quantum de finetti",

	"mip", "mip*", "nonlocal game", "nonlocal games", "entangled game",
	"entangled games", "entangled prover", "entangled provers",
	"xor game", "xor games", "interactive proof", "interactive proofs",
	"multiprover", "multi-prover", "rigidity", "rigidity theorem",
	"self-testing", "self testing", "quantum pcp", "pcp for entangled",
	"quantum low-degree test", "classical verification of quantum",
	"verifiable quantum",
}

package analyzer

// VisitPhase tells the analyzer whether the traversal is entering or
// leaving a node.
type VisitPhase int

const (
	PhaseEnter VisitPhase = iota
	PhaseExit
)

// NodeKind classifies a visited tree node. Only fields participate in rate
// limiting; the zero value deliberately matches nothing.
type NodeKind int

const (
	KindUnknown NodeKind = iota
	KindField
)

// Node is the analyzer's view of one visited tree node, as supplied by the
// host traversal framework.
type Node struct {
	// OwnerTypeName is the type the node is declared on. Only fields owned
	// by the root query type are rate limited.
	OwnerTypeName string

	// Kind is the AST node kind.
	Kind NodeKind

	// DeclaredName is the field's declared (static) name. Runtime aliases
	// must not be passed here, so every invocation of the same field shares
	// one counter.
	DeclaredName string
}

// Request carries the per-request inputs supplied by the host at Initial
// time.
type Request struct {
	// ClientIdentity partitions counters between callers, e.g. a network
	// address. Opaque to the analyzer.
	ClientIdentity string
}

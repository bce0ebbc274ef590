// Package graphml reads and writes annotation graphs as GraphML.
//
// Every node and edge carries its kind in a "salt::type" data element.
// Textual data sources hold the document text in "salt::SDATA"; tokens are
// bound to it by textual relations carrying "salt::SSTART" and "salt::SEND"
// offsets. Relation types are stored in "salt::STYPE" and layer membership
// in "salt::layer". Other keys are annotations named by their attr.name.
// A file holds one <graph> per document, identified by the document name.
package graphml

// Namespace is the GraphML XML namespace.
const Namespace = "http://graphml.graphdrawing.org/xmlns"

// Reserved key names.
const (
	keyType  = "salt::type"
	keyData  = "salt::SDATA"
	keyStart = "salt::SSTART"
	keyEnd   = "salt::SEND"
	keySType = "salt::STYPE"
	keyLayer = "salt::layer"
)

// saltNamespace prefixes keys that describe the graph rather than annotate it.
const saltNamespace = "salt"

// Node and edge types.
const (
	typeText       = "STEXTUAL_DS"
	typeToken      = "STOKEN"
	typeSpan       = "SSPAN"
	typeStructure  = "SSTRUCTURE"
	typeTextual    = "STEXTUAL_RELATION"
	typeSpanning   = "SSPANNING_RELATION"
	typeDominance  = "SDOMINANCE_RELATION"
	typePointing   = "SPOINTING_RELATION"
	typeOrder      = "SORDER_RELATION"
	layerSeparator = ","
)

package inbound

import "generate-lecture-service/domain"

// ScriptAssemblerPort renders the final time-marked script. Pure formatting:
// identical input yields byte-identical output.
type ScriptAssemblerPort interface {
	Assemble(script domain.Script) string
}

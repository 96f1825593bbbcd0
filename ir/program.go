package ir

import "github.com/leoscript/leoscript/value"

// Program is the immutable output of codegen: a flat instruction stream and
// the global names (classes, enums, modules, free functions, imported
// sub-scripts) it resolves against. Globals remains mutable after load so
// the driver can install the standard library into it before running.
type Program struct {
	Instructions []Instruction
	Globals      map[string]value.Value
}

// NewProgram returns an empty Program ready for codegen to append to.
func NewProgram() *Program {
	return &Program{Globals: make(map[string]value.Value)}
}

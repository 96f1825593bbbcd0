package compiler

import (
	"fmt"

	"github.com/leoscript/leoscript/token"
)

// ErrorKind enumerates the compiler (codegen) error families from §7.2.
type ErrorKind int

const (
	NoTokens ErrorKind = iota
	GlobalNotFound
	VariableNotDeclared
	VariableAlreadyDeclared
	UnableToAssign
	BreakOutsideOfLoop
	ContinueOutsideOfLoop
	InvalidChainItem
	InvalidDefaultCase
	InvalidMatchArm
	FeatureNotImplemented
	AttributeDefaultNotConstant
	DuplicateDeclaration
	UnableToCompileFunction
	NoInstructionsGenerated
)

func (k ErrorKind) String() string {
	switch k {
	case NoTokens:
		return "NoTokens"
	case GlobalNotFound:
		return "GlobalNotFound"
	case VariableNotDeclared:
		return "VariableNotDeclared"
	case VariableAlreadyDeclared:
		return "VariableAlreadyDeclared"
	case UnableToAssign:
		return "UnableToAssign"
	case BreakOutsideOfLoop:
		return "BreakOutsideOfLoop"
	case ContinueOutsideOfLoop:
		return "ContinueOutsideOfLoop"
	case InvalidChainItem:
		return "InvalidChainItem"
	case InvalidDefaultCase:
		return "InvalidDefaultCase"
	case InvalidMatchArm:
		return "InvalidMatchArm"
	case FeatureNotImplemented:
		return "FeatureNotImplemented"
	case AttributeDefaultNotConstant:
		return "AttributeDefaultNotConstant"
	case DuplicateDeclaration:
		return "DuplicateDeclaration"
	case UnableToCompileFunction:
		return "UnableToCompileFunction"
	case NoInstructionsGenerated:
		return "NoInstructionsGenerated"
	default:
		return "UnknownCompilerError"
	}
}

// Error is a positioned compiler error, e.g. a double declaration of a local
// variable at an exact line/column per §8's worked examples.
type Error struct {
	Kind   ErrorKind
	Pos    token.Position
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s at %v", e.Kind, e.Detail, e.Pos)
	}
	return fmt.Sprintf("%s at %v", e.Kind, e.Pos)
}

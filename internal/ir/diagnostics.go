// Package ir implements the LLVM textual IR data model: the Context that
// owns interned types and symbols, the Value/Constant/Instruction
// hierarchy, and the Module graph the parser and builder both populate.
package ir

import (
	"fmt"
)

// SourcePosition is a single point in a source file.
type SourcePosition struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

func (pos SourcePosition) String() string {
	return fmt.Sprintf("%s:%d:%d", pos.Filename, pos.Line, pos.Column)
}

// SourceRange spans two positions, possibly within the same line.
type SourceRange struct {
	Start SourcePosition
	End   SourcePosition
}

func (r SourceRange) String() string {
	if r.Start.Filename == r.End.Filename {
		if r.Start.Line == r.End.Line {
			return fmt.Sprintf("%s:%d:%d-%d", r.Start.Filename, r.Start.Line, r.Start.Column, r.End.Column)
		}
		return fmt.Sprintf("%s:%d:%d-%d:%d", r.Start.Filename, r.Start.Line, r.Start.Column, r.End.Line, r.End.Column)
	}
	return fmt.Sprintf("%s-%s", r.Start.String(), r.End.String())
}

// PointRange builds a zero-width range at a single position.
func PointRange(pos SourcePosition) SourceRange {
	return SourceRange{Start: pos, End: pos}
}

// ErrorType classifies a CompilerError by the phase that raised it.
type ErrorType int

const (
	LexError ErrorType = iota
	ParseError
	TypeConflictError
	VerifierError
	InternalCompilerError
)

func (et ErrorType) String() string {
	switch et {
	case LexError:
		return "lex error"
	case ParseError:
		return "parse error"
	case TypeConflictError:
		return "type error"
	case VerifierError:
		return "verifier diagnostic"
	case InternalCompilerError:
		return "internal error"
	default:
		return "unknown error"
	}
}

// CompilerError is a single diagnostic: a lex/parse hard error, a type
// interner conflict, or one verifier rule violation.
type CompilerError struct {
	Type     ErrorType
	Message  string
	Location SourceRange
	Context  string
	Hints    []string
}

func (e CompilerError) Error() string {
	return fmt.Sprintf("%s: %s at %s", e.Type, e.Message, e.Location)
}

// ErrorReporter accumulates or forwards diagnostics. The lexer and
// parser are fail-fast and report at most one hard error before
// aborting; the verifier reports every rule violation it finds before
// returning.
type ErrorReporter interface {
	ReportError(err CompilerError)
	ReportWarning(warning CompilerError)
	HasErrors() bool
	HasWarnings() bool
	GetErrors() []CompilerError
	GetWarnings() []CompilerError
	Clear()
}

// VerifierDiagnostic is one rule violation reported by Verify. Kind
// mirrors the rule that fired (e.g. "terminator", "phi-incoming",
// "gep-through-pointer"); LocationHint is best-effort — some rules
// (module-flags, dominance across the whole function) can only point at
// the owning function or block rather than a single instruction.
type VerifierDiagnostic struct {
	Kind         string
	LocationHint string
	Message      string
}

func (d VerifierDiagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.LocationHint, d.Message, d.Kind)
}

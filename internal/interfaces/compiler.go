// Package interfaces defines the contracts the CLI driver and tests
// depend on, generalized from the teacher's interfaces package:
// StaticLang's Lexer/Parser/SemanticAnalyzer trio becomes the
// Lexer/Parser/Verifier trio for LLVM textual IR. Kept as interfaces
// so cmd/llparse can depend on contracts rather than concrete types,
// the way the teacher's CompilerPipeline did for its own stages.
package interfaces

import (
	"github.com/sokoide/llir/internal/ir"
	"github.com/sokoide/llir/internal/lexer"
)

// Lexer scans LLVM textual IR into tokens. internal/lexer.Lexer
// satisfies this.
type Lexer interface {
	// NextToken consumes and returns the next token.
	NextToken() lexer.Token

	// Peek returns the next token without consuming it.
	Peek() lexer.Token
}

// Parser turns a token stream into an *ir.Module. internal/parser.Parser
// satisfies this.
type Parser interface {
	// ParseModule parses the whole input and returns the resulting
	// module, or the first fatal parse error encountered.
	ParseModule(name string) (*ir.Module, error)
}

// Verifier checks a parsed or built module for well-formedness,
// returning every violation it finds rather than stopping at the
// first one (§8 "accumulate, never fail-fast"). The package-level
// verifier.Verify function satisfies this interface's shape when
// wrapped in VerifierFunc.
type Verifier interface {
	Verify(mod *ir.Module) []ir.VerifierDiagnostic
}

// VerifierFunc adapts a bare function, such as verifier.Verify, to the
// Verifier interface.
type VerifierFunc func(mod *ir.Module) []ir.VerifierDiagnostic

func (f VerifierFunc) Verify(mod *ir.Module) []ir.VerifierDiagnostic {
	return f(mod)
}

// Pipeline runs the parse-then-verify sequence the CLI driver exposes
// as its `parse` and `verify` subcommands, grounded on the teacher's
// CompilerPipeline.Compile but narrowed to this front end's scope (no
// semantic analysis or code generation stages).
type Pipeline interface {
	// Parse parses source, the contents of filename (which labels
	// diagnostics), and returns the resulting module.
	Parse(filename string, source []byte) (*ir.Module, error)

	// Verify runs the verifier over an already-parsed module.
	Verify(mod *ir.Module) []ir.VerifierDiagnostic
}

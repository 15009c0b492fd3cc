package infrastructure

import (
	"github.com/sokoide/llir/internal/interfaces"
	"github.com/sokoide/llir/internal/ir"
	"github.com/sokoide/llir/internal/parser"
	"github.com/sokoide/llir/internal/verifier"
)

// DefaultPipeline wires the parser and verifier packages behind
// interfaces.Pipeline, the way the teacher's DefaultCompilerPipeline
// wired its lexer/parser/analyzer/codegen stages behind
// interfaces.CompilerPipeline, narrowed to this front end's two
// stages.
type DefaultPipeline struct {
	reporter ir.ErrorReporter
}

var _ interfaces.Pipeline = (*DefaultPipeline)(nil)

// NewDefaultPipeline builds a pipeline that reports diagnostics
// through reporter.
func NewDefaultPipeline(reporter ir.ErrorReporter) *DefaultPipeline {
	return &DefaultPipeline{reporter: reporter}
}

func (p *DefaultPipeline) Parse(filename string, source []byte) (*ir.Module, error) {
	if cer, ok := p.reporter.(*ConsoleErrorReporter); ok {
		cer.SetSourceContent(filename, source)
	}
	ctx := ir.NewContext()
	pr := parser.New(filename, string(source), ctx, p.reporter)
	return pr.ParseModule(moduleNameFromFile(filename))
}

func (p *DefaultPipeline) Verify(mod *ir.Module) []ir.VerifierDiagnostic {
	return verifier.Verify(mod)
}

func moduleNameFromFile(filename string) string {
	return filename
}

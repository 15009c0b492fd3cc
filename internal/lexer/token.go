// Package lexer tokenises LLVM textual IR source into a restartable
// stream of Tokens tagged with byte offset and line/column (§4.1).
package lexer

import "github.com/sokoide/llir/internal/ir"

// TokenType classifies a lexeme into exactly one class, per §4.1's
// fixed token alphabet.
type TokenType int

const (
	TokEOF TokenType = iota
	TokError

	// Punctuation
	TokLBrace
	TokRBrace
	TokLParen
	TokRParen
	TokLBracket
	TokRBracket
	TokLess
	TokGreater
	TokComma
	TokEquals
	TokStar
	TokBang
	TokEllipsis
	TokPipe
	TokColon

	// Sigil-prefixed identifiers
	TokGlobalVar   // @name, @"quoted", @123
	TokLocalVar    // %name, %"quoted", %123, %-3, %-N-
	TokMetadataVar // !name, !123, !"quoted"
	TokAttrGroupID // #123
	TokComdatVar   // $name

	TokIntType // i<N>

	// A closed-vocabulary keyword: opcode, attribute, linkage,
	// visibility, calling convention, type keyword (other than i<N>),
	// ordering, etc. Parser dispatches on Token.Value.
	TokKeyword

	// A bareword the keyword table doesn't recognise: a named-field
	// name in specialised metadata syntax (`language:`) or an enum
	// constant (`FullDebug`, `DW_LANG_Go`, `DIFlagPrototyped`).
	TokIdentifier

	TokIntLit
	TokFloatLit
	TokStringLit    // "..."
	TokCharArrayLit // c"..."
)

func (t TokenType) String() string {
	names := map[TokenType]string{
		TokEOF: "EOF", TokError: "ERROR",
		TokLBrace: "{", TokRBrace: "}", TokLParen: "(", TokRParen: ")",
		TokLBracket: "[", TokRBracket: "]", TokLess: "<", TokGreater: ">",
		TokComma: ",", TokEquals: "=", TokStar: "*", TokBang: "!",
		TokEllipsis: "...", TokPipe: "|", TokColon: ":",
		TokGlobalVar: "GLOBAL_VAR", TokLocalVar: "LOCAL_VAR",
		TokMetadataVar: "METADATA_VAR", TokAttrGroupID: "ATTR_GROUP_ID",
		TokComdatVar: "COMDAT_VAR", TokIntType: "INT_TYPE",
		TokKeyword: "KEYWORD", TokIdentifier: "IDENTIFIER",
		TokIntLit: "INT_LIT", TokFloatLit: "FLOAT_LIT",
		TokStringLit: "STRING_LIT", TokCharArrayLit: "CHAR_ARRAY_LIT",
	}
	if s, ok := names[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// Token is one lexeme plus its source position.
type Token struct {
	Type TokenType
	// Value is the decoded payload: for GLOBAL_VAR/LOCAL_VAR/
	// METADATA_VAR/COMDAT_VAR, the name without its sigil (quotes
	// stripped, escapes decoded); for KEYWORD/IDENTIFIER, the literal
	// text; for INT_TYPE, the digits after 'i'; for STRING_LIT/
	// CHAR_ARRAY_LIT, the decoded byte payload (verbatim, may be
	// non-UTF-8); for INT_LIT/FLOAT_LIT, the literal text unparsed.
	Value string
	// IsNumericName is set for a sigil-prefixed identifier spelled as
	// a bare integer, optionally negative (`%0`, `!12`, `%-3`), rather
	// than a name — used
	// to distinguish anonymous SSA/metadata ids from named locals.
	IsNumericName bool
	Location      ir.SourcePosition
}

package lexer

import "testing"

func tokens(src string) []Token {
	l := New("test.ll", src)
	var out []Token
	for {
		t := l.NextToken()
		out = append(out, t)
		if t.Type == TokEOF {
			return out
		}
	}
}

func TestLexSigilsAndKeywords(t *testing.T) {
	toks := tokens("define void @main() {\nentry:\n  ret void\n}")
	if toks[0].Type != TokKeyword || toks[0].Value != "define" {
		t.Fatalf("expected keyword 'define', got %+v", toks[0])
	}
	if toks[1].Type != TokKeyword || toks[1].Value != "void" {
		t.Fatalf("expected keyword 'void', got %+v", toks[1])
	}
	if toks[2].Type != TokGlobalVar || toks[2].Value != "main" {
		t.Fatalf("expected @main, got %+v", toks[2])
	}
}

func TestLexIntType(t *testing.T) {
	toks := tokens("i32 i1 i128")
	want := []string{"32", "1", "128"}
	for i, w := range want {
		if toks[i].Type != TokIntType || toks[i].Value != w {
			t.Fatalf("token %d: want INT_TYPE %q, got %+v", i, w, toks[i])
		}
	}
}

func TestLexStringEscape(t *testing.T) {
	toks := tokens(`c"\FF\00\F7\00"`)
	if toks[0].Type != TokCharArrayLit {
		t.Fatalf("want CHAR_ARRAY_LIT, got %+v", toks[0])
	}
	got := []byte(toks[0].Value)
	want := []byte{0xFF, 0x00, 0xF7, 0x00}
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %x want %x", i, got[i], want[i])
		}
	}
}

func TestLexHexFloat(t *testing.T) {
	toks := tokens("double 0x3FF0000000000000")
	if toks[1].Type != TokFloatLit || toks[1].Value != "0x3FF0000000000000" {
		t.Fatalf("want hex float literal, got %+v", toks[1])
	}
}

func TestLexNegativeLocalName(t *testing.T) {
	toks := tokens("%-2147483648")
	if toks[0].Type != TokLocalVar || !toks[0].IsNumericName || toks[0].Value != "-2147483648" {
		t.Fatalf("want numeric local -2147483648, got %+v", toks[0])
	}
}

func TestLexAtomicOrderingDoesNotLoop(t *testing.T) {
	// Regression for §8 property 5: lexing must terminate even though
	// `unordered` isn't a distinguished token type of its own.
	toks := tokens("load atomic i32, ptr %x unordered, align 4")
	if len(toks) == 0 || toks[len(toks)-1].Type != TokEOF {
		t.Fatalf("lexer did not terminate cleanly: %+v", toks)
	}
}

func TestLexAttrGroupID(t *testing.T) {
	toks := tokens("#42")
	if toks[0].Type != TokAttrGroupID || toks[0].Value != "42" {
		t.Fatalf("want attr group id 42, got %+v", toks[0])
	}
}

func TestLexMetadataNumeric(t *testing.T) {
	toks := tokens("!42 !llvm.dbg !{}")
	if toks[0].Type != TokMetadataVar || !toks[0].IsNumericName || toks[0].Value != "42" {
		t.Fatalf("want numeric metadata var 42, got %+v", toks[0])
	}
	if toks[1].Type != TokMetadataVar || toks[1].Value != "llvm.dbg" {
		t.Fatalf("want named metadata var llvm.dbg, got %+v", toks[1])
	}
	if toks[2].Type != TokBang {
		t.Fatalf("want bang before tuple brace, got %+v", toks[2])
	}
}

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokoide/llir/internal/ir"
)

// §4.3 "Metadata parsing": named metadata and numeric metadata
// definitions link forward references through Module.MDNodeFor.
func TestParseNamedAndNumericMetadata(t *testing.T) {
	mod := parseOK(t, `!llvm.module.flags = !{!0}
!0 = !{i32 2, !"Debug Info Version", i32 3}`)

	nm := mod.NamedMetadataByName("llvm.module.flags")
	require.Len(t, nm.Operands, 1)
	node := nm.Operands[0]
	require.NotNil(t, node.Resolved, "want !0 resolved after parse")
	tuple, ok := node.Resolved.(*ir.MDTuple)
	require.True(t, ok, "want *ir.MDTuple, got %T", node.Resolved)
	assert.Len(t, tuple.Operands, 3)
}

// §4.3 specialised node form: named-field syntax with enum-typed
// fields.
func TestParseDILocationNode(t *testing.T) {
	mod := parseOK(t, `!0 = !{}
!1 = !DILocation(line: 7, column: 3, scope: !0)`)
	node := mod.MetadataByID[1]
	loc, ok := node.Resolved.(*ir.DILocation)
	require.True(t, ok, "want *ir.DILocation, got %T", node.Resolved)
	assert.EqualValues(t, 7, loc.Line)
	assert.EqualValues(t, 3, loc.Column)
	assert.NotNil(t, loc.Scope, "want scope linked to !0")
}

// §4.3 "Unknown named fields fail with UnknownField".
func TestParseDILocationUnknownFieldRejected(t *testing.T) {
	parseErr(t, `!0 = !DILocation(line: 7, bogusField: 1)`)
}

// §3 "Metadata nodes can be mutually recursive": a distinct tuple
// referencing a not-yet-defined node resolves once the later
// definition is parsed.
func TestMutuallyRecursiveMetadata(t *testing.T) {
	mod := parseOK(t, `!0 = distinct !{!1}
!1 = !{!0}`)
	n0 := mod.MetadataByID[0]
	n1 := mod.MetadataByID[1]
	require.NotNil(t, n0.Resolved)
	require.NotNil(t, n1.Resolved)
	t0 := n0.Resolved.(*ir.MDTuple)
	t1 := n1.Resolved.(*ir.MDTuple)
	assert.Equal(t, ir.Metadata(n1), t0.Operands[0], "want !0's element to be the !1 slab entry")
	assert.Equal(t, ir.Metadata(n0), t1.Operands[0], "want !1's element to be the !0 slab entry")
}

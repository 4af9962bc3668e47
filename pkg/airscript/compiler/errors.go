// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package compiler

import (
	"fmt"

	"github.com/0xPolygonMiden/air-script/pkg/util/source"
)

// ErrorCode is the stable kind tag carried by every diagnostic.
type ErrorCode uint

const (
	// SYNTAX_ERROR is reported by the lexer and parser for malformed input.
	SYNTAX_ERROR ErrorCode = iota
	// DUPLICATE_IDENTIFIER is reported when a name is declared twice.
	DUPLICATE_IDENTIFIER
	// UNDECLARED_IDENTIFIER is reported when a name resolves to nothing.
	UNDECLARED_IDENTIFIER
	// MISSING_MAIN_TRACE is reported when an auxiliary trace segment is
	// declared without a main segment.
	MISSING_MAIN_TRACE
	// EMPTY_TRACE is reported when a module declares no trace columns at all.
	EMPTY_TRACE
	// EMPTY_PUBLIC_INPUTS is reported when a module declares no public
	// inputs.
	EMPTY_PUBLIC_INPUTS
	// INVALID_PERIODIC_LENGTH is reported when a periodic column's pattern
	// length is not a power of two at least two.
	INVALID_PERIODIC_LENGTH
	// INDEX_OUT_OF_RANGE is reported when an indexed access exceeds the
	// declared length of its binding.
	INDEX_OUT_OF_RANGE
	// SHAPE_MISMATCH is reported when vector or matrix shapes disagree at a
	// binary operation, comprehension or call site.
	SHAPE_MISMATCH
	// EXPECTED_SCALAR is reported when a vector or matrix value appears where
	// a single value is required.
	EXPECTED_SCALAR
	// EXPECTED_VECTOR is reported when a scalar value appears where a list is
	// required.
	EXPECTED_VECTOR
	// BOUNDARY_CONFLICT is reported when a (segment, column, boundary) triple
	// is constrained twice.
	BOUNDARY_CONFLICT
	// BOUNDARY_REFERENCES_PERIODIC is reported when a boundary constraint
	// references a periodic column.
	BOUNDARY_REFERENCES_PERIODIC
	// BOUNDARY_REFERENCES_NEXT is reported when a boundary constraint uses
	// the next-row operator.
	BOUNDARY_REFERENCES_NEXT
	// INTEGRITY_REFERENCES_PUBLIC_INPUT is reported when an integrity
	// constraint references a public input.
	INTEGRITY_REFERENCES_PUBLIC_INPUT
	// INTEGRITY_REFERENCES_BOUNDARY is reported when an integrity constraint
	// uses a boundary accessor.
	INTEGRITY_REFERENCES_BOUNDARY
	// NEXT_APPLIED_TO_NON_TRACE is reported when the next-row operator is
	// applied to anything other than a trace column.
	NEXT_APPLIED_TO_NON_TRACE
	// NON_LITERAL_EXPONENT is reported when the right-hand side of ^ is not a
	// literal.
	NON_LITERAL_EXPONENT
	// OVERFLOW_ERROR is reported when a literal does not fit an unsigned
	// 64-bit word.
	OVERFLOW_ERROR
	// DEGREE_OVERFLOW is reported, alone, when degree arithmetic overflows.
	DEGREE_OVERFLOW
	// UNSUPPORTED_FEATURE is reported for constructs the grammar accepts but
	// the compiler refuses.
	UNSUPPORTED_FEATURE
)

func (c ErrorCode) String() string {
	switch c {
	case SYNTAX_ERROR:
		return "SyntaxError"
	case DUPLICATE_IDENTIFIER:
		return "DuplicateIdentifier"
	case UNDECLARED_IDENTIFIER:
		return "UndeclaredIdentifier"
	case MISSING_MAIN_TRACE:
		return "MissingMainTrace"
	case EMPTY_TRACE:
		return "EmptyTrace"
	case EMPTY_PUBLIC_INPUTS:
		return "EmptyPublicInputs"
	case INVALID_PERIODIC_LENGTH:
		return "InvalidPeriodicLength"
	case INDEX_OUT_OF_RANGE:
		return "IndexOutOfRange"
	case SHAPE_MISMATCH:
		return "ShapeMismatch"
	case EXPECTED_SCALAR:
		return "ExpectedScalar"
	case EXPECTED_VECTOR:
		return "ExpectedVector"
	case BOUNDARY_CONFLICT:
		return "BoundaryConflict"
	case BOUNDARY_REFERENCES_PERIODIC:
		return "BoundaryReferencesPeriodic"
	case BOUNDARY_REFERENCES_NEXT:
		return "BoundaryReferencesNext"
	case INTEGRITY_REFERENCES_PUBLIC_INPUT:
		return "IntegrityReferencesPublicInput"
	case INTEGRITY_REFERENCES_BOUNDARY:
		return "IntegrityReferencesBoundary"
	case NEXT_APPLIED_TO_NON_TRACE:
		return "NextAppliedToNonTrace"
	case NON_LITERAL_EXPONENT:
		return "NonLiteralExponent"
	case OVERFLOW_ERROR:
		return "OverflowError"
	case DEGREE_OVERFLOW:
		return "DegreeOverflow"
	default:
		return "UnsupportedFeature"
	}
}

// Diagnostic is a structured error tied to a span of the original source
// text.  A diagnostic may carry a secondary span pointing at related source
// (e.g. a previous declaration).
type Diagnostic struct {
	srcfile *source.File
	code    ErrorCode
	span    source.Span
	message string
	// Optional hint, e.g. "previously declared here".
	secondary    source.Span
	hasSecondary bool
	hint         string
}

// NewDiagnostic constructs a diagnostic for a given span of a given file.
func NewDiagnostic(srcfile *source.File, code ErrorCode, span source.Span, message string) Diagnostic {
	return Diagnostic{srcfile: srcfile, code: code, span: span, message: message}
}

// WithHint attaches a secondary span to this diagnostic.
func (p Diagnostic) WithHint(span source.Span, hint string) Diagnostic {
	p.secondary = span
	p.hasSecondary = true
	p.hint = hint
	//
	return p
}

// SourceFile returns the file this diagnostic points into.
func (p *Diagnostic) SourceFile() *source.File {
	return p.srcfile
}

// Code returns the stable kind tag of this diagnostic.
func (p *Diagnostic) Code() ErrorCode {
	return p.code
}

// Span returns the primary span of this diagnostic.
func (p *Diagnostic) Span() source.Span {
	return p.span
}

// Message returns the human-readable message of this diagnostic.
func (p *Diagnostic) Message() string {
	return p.message
}

// Hint returns the secondary span and its message, if any.
func (p *Diagnostic) Hint() (source.Span, string, bool) {
	return p.secondary, p.hint, p.hasSecondary
}

// FirstEnclosingLine determines the first line of source text to which this
// diagnostic's primary span is associated.
func (p *Diagnostic) FirstEnclosingLine() source.Line {
	return p.srcfile.FindFirstEnclosingLine(p.span)
}

// Error implements the error interface.
func (p *Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d:%s", p.span.Start(), p.span.End(), p.message)
}

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
	"slices"
	"testing"

	"github.com/0xPolygonMiden/air-script/pkg/util/source"
)

func TestLexer_00(t *testing.T) {
	var tokens []source.Token = []source.Token{
		{Kind: END_OF, Span: source.NewSpan(0, 0)},
	}

	checkLexer(t, "", 0, tokens...)
}

func TestLexer_01(t *testing.T) {
	var tokens []source.Token = []source.Token{
		{Kind: IDENTIFIER, Span: source.NewSpan(0, 3)},
		{Kind: IDENTIFIER, Span: source.NewSpan(4, 5)},
		{Kind: PRIME, Span: source.NewSpan(5, 6)},
		{Kind: EQUALS, Span: source.NewSpan(7, 8)},
		{Kind: NUMBER, Span: source.NewSpan(9, 10)},
		{Kind: END_OF, Span: source.NewSpan(10, 10)},
	}

	checkLexer(t, "enf x' = 0", 0, tokens...)
}

func TestLexer_02(t *testing.T) {
	var tokens []source.Token = []source.Token{
		{Kind: IDENTIFIER, Span: source.NewSpan(0, 1)},
		{Kind: LBRACKET, Span: source.NewSpan(1, 2)},
		{Kind: NUMBER, Span: source.NewSpan(2, 3)},
		{Kind: DOTDOT, Span: source.NewSpan(3, 5)},
		{Kind: NUMBER, Span: source.NewSpan(5, 6)},
		{Kind: RBRACKET, Span: source.NewSpan(6, 7)},
		{Kind: END_OF, Span: source.NewSpan(7, 7)},
	}

	checkLexer(t, "c[0..3]", 0, tokens...)
}

func TestLexer_03(t *testing.T) {
	var tokens []source.Token = []source.Token{
		{Kind: DOLLAR_IDENTIFIER, Span: source.NewSpan(0, 5)},
		{Kind: LBRACKET, Span: source.NewSpan(5, 6)},
		{Kind: NUMBER, Span: source.NewSpan(6, 7)},
		{Kind: RBRACKET, Span: source.NewSpan(7, 8)},
		{Kind: END_OF, Span: source.NewSpan(8, 8)},
	}

	checkLexer(t, "$rand[0]", 0, tokens...)
}

func TestLexer_04(t *testing.T) {
	var tokens []source.Token = []source.Token{
		{Kind: IDENTIFIER, Span: source.NewSpan(0, 1)},
		{Kind: DOT, Span: source.NewSpan(1, 2)},
		{Kind: IDENTIFIER, Span: source.NewSpan(2, 7)},
		{Kind: NEWLINE, Span: source.NewSpan(7, 8)},
		{Kind: END_OF, Span: source.NewSpan(8, 8)},
	}

	checkLexer(t, "a.first\n", 0, tokens...)
}

func TestLexer_05(t *testing.T) {
	// Comments run to the end of the line.
	var tokens []source.Token = []source.Token{
		{Kind: IDENTIFIER, Span: source.NewSpan(0, 1)},
		{Kind: NEWLINE, Span: source.NewSpan(11, 12)},
		{Kind: END_OF, Span: source.NewSpan(12, 12)},
	}

	checkLexer(t, "a # comment\n", 0, tokens...)
}

func TestLexer_06(t *testing.T) {
	var tokens []source.Token = []source.Token{
		{Kind: END_OF, Span: source.NewSpan(1, 1)},
	}

	checkLexer(t, "?", 1, tokens...)
}

// ===================================================================

func checkLexer(t *testing.T, input string, nerrs int, expected ...source.Token) {
	srcfile := source.NewSourceFile("test.air", []byte(input))
	//
	tokens, errors := Lex(srcfile)
	//
	if len(errors) != nerrs {
		t.Errorf("expected %d errors, found %d", nerrs, len(errors))
	}
	//
	if !slices.Equal(tokens, expected) {
		t.Errorf("expected %v, found %v", expected, tokens)
	}
}

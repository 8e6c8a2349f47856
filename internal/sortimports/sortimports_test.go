package sortimports

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat_PackagesBeforeRelative(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		`import Button from './components/button';`,
		`import react from 'react';`,
		`import lodash from 'lodash';`,
		``,
		`export default function App() {}`,
	}, "\n")

	got := Format(src)

	want := strings.Join([]string{
		`import lodash from 'lodash';`,
		`import react from 'react';`,
		`import Button from './components/button';`,
		``,
		`export default function App() {}`,
	}, "\n")
	assert.Equal(t, want, got)
}

func TestFormat_RelativeDepthOrdering(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		`import far from '../../shared/far';`,
		`import near from './near';`,
		`import parent from '../parent';`,
		``,
		`const x = 1;`,
	}, "\n")

	got := Format(src)

	// "./near" (depth 11) before "../parent" (13) before
	// "../../shared/far" (15).
	want := strings.Join([]string{
		`import near from './near';`,
		`import parent from '../parent';`,
		`import far from '../../shared/far';`,
		``,
		`const x = 1;`,
	}, "\n")
	assert.Equal(t, want, got)
}

func TestFormat_WhitespaceNormalized(t *testing.T) {
	t.Parallel()

	src := "import   {  a,   b } from 'pkg';\n\ncode();\n"

	got := Format(src)
	assert.True(t, strings.HasPrefix(got, "import { a, b } from 'pkg';"), "got: %q", got)
}

func TestFormat_NoImportsUnchanged(t *testing.T) {
	t.Parallel()

	src := "const x = 1;\n"
	assert.Equal(t, src, Format(src))
}

func TestFormat_Idempotent(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		`import b from 'beta';`,
		`import a from 'alpha';`,
		``,
		`run();`,
	}, "\n")

	once := Format(src)
	assert.Equal(t, once, Format(once))
}

func TestFormat_CaseInsensitiveSourceOrder(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		`import z from 'Zebra';`,
		`import a from 'apple';`,
		``,
		`run();`,
	}, "\n")

	got := Format(src)
	assert.True(t, strings.Index(got, "'apple'") < strings.Index(got, "'Zebra'"))
}

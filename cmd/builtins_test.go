package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
)

func TestPrintBuiltins(t *testing.T) {
	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)

	var out bytes.Buffer
	printBuiltins(&out)

	g.Assert(t, "builtins", out.Bytes())
}

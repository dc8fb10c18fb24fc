package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuplestore/tupcodec/internal/memdescriptor"
	"github.com/tuplestore/tupcodec/tupcodec"
)

// buildDocument serializes a minimal header-then-footer file, the document
// shape runInspect assumes, and returns its bytes.
func buildDocument(t *testing.T) []byte {
	t.Helper()

	desc := memdescriptor.New("events", "a small event log")
	root := desc.FieldZeroID()
	f := desc.AddField(root, 0, 0, tupcodec.FieldStructureLeaf, 0, "id", "int32", "")
	desc.AddColumn(f, tupcodec.ColumnTypeInt32, true)

	n, _, err := tupcodec.SerializeHeader(desc, nil)
	require.NoError(t, err)
	header := make([]byte, n)
	_, ctx, err := tupcodec.SerializeHeader(desc, header)
	require.NoError(t, err)

	fn, err := tupcodec.SerializeFooter(ctx, nil, nil)
	require.NoError(t, err)
	footer := make([]byte, fn)
	_, err = tupcodec.SerializeFooter(ctx, nil, footer)
	require.NoError(t, err)

	return append(header, footer...)
}

func TestInspectPrintsHeaderAndFooter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.tup")
	require.NoError(t, os.WriteFile(path, buildDocument(t), 0o644))

	var buf bytes.Buffer
	inspectCmd.SetOut(&buf)
	err := runInspect(inspectCmd, []string{path})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "name: events")
	require.Contains(t, buf.String(), "header crc32:")
}

func TestInspectFailsOnTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "truncated.tup")
	doc := buildDocument(t)
	require.NoError(t, os.WriteFile(path, doc[:len(doc)/2], 0o644))

	var buf bytes.Buffer
	inspectCmd.SetOut(&buf)
	err := runInspect(inspectCmd, []string{path})
	require.Error(t, err)
}

func TestVerifyReportsOkAndFailed(t *testing.T) {
	dir := t.TempDir()
	goodPath := filepath.Join(dir, "good.tup")
	require.NoError(t, os.WriteFile(goodPath, buildDocument(t), 0o644))

	badPath := filepath.Join(dir, "bad.tup")
	doc := buildDocument(t)
	doc[len(doc)/2] ^= 0xFF
	require.NoError(t, os.WriteFile(badPath, doc, 0o644))

	var buf bytes.Buffer
	verifyCmd.SetOut(&buf)
	err := runVerify(verifyCmd, []string{goodPath, badPath})
	require.Error(t, err)
	require.Contains(t, buf.String(), "good.tup: ok")
	require.Contains(t, buf.String(), "bad.tup: FAILED")
}

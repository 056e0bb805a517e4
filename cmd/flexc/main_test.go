package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/flexform/internal/jsonx"
)

func execute(t *testing.T, stdin string, args ...string) (map[string]any, []any, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(io.Discard)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetIn(strings.NewReader(stdin))
	err := root.Execute()
	if out.Len() == 0 {
		return nil, nil, err
	}
	v, derr := jsonx.Unmarshal(out.Bytes())
	require.NoError(t, derr, out.String())
	switch v := v.(type) {
	case map[string]any:
		return v, nil, err
	case []any:
		return nil, v, err
	}
	return nil, nil, err
}

func setup(t *testing.T) {
	t.Setenv("FLEXFORM_DB_PATH", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("FLEXFORM_LANG", "en")
	t.Setenv("FLEXFORM_STRICT_ENVELOPE", "true")
}

func TestCompileSample(t *testing.T) {
	setup(t)
	res, _, err := execute(t, "", "compile", "builtin-carousel", "--sample")
	require.NoError(t, err)
	assert.Empty(t, res["errors"])
	msg := res["message"].(map[string]any)
	assert.Equal(t, "flex", msg["type"])
	assert.Equal(t, "carousel", msg["contents"].(map[string]any)["type"])
}

func TestCompileStdinYAML(t *testing.T) {
	setup(t)
	res, _, err := execute(t, "altText: hi\n", "compile", "builtin-poster", "-")
	require.ErrorIs(t, err, errInvalid)
	errs := res["errors"].([]any)
	require.NotEmpty(t, errs)
	assert.Equal(t, "title", errs[0].(map[string]any)["path"])
}

func TestCompileLanguage(t *testing.T) {
	setup(t)
	t.Setenv("FLEXFORM_LANG", "ja")
	res, _, err := execute(t, "altText: hi\n", "compile", "builtin-poster", "-")
	require.ErrorIs(t, err, errInvalid)
	errs := res["errors"].([]any)
	require.NotEmpty(t, errs)
	assert.Equal(t, "必須項目です", errs[0].(map[string]any)["message"])
}

func TestCompileNeedsData(t *testing.T) {
	setup(t)
	_, _, err := execute(t, "", "compile", "builtin-poster")
	require.Error(t, err)
}

func TestDefaultsAndSchema(t *testing.T) {
	setup(t)
	data, _, err := execute(t, "", "defaults", "builtin-carousel")
	require.NoError(t, err)
	assert.Len(t, data["pages"], 1)

	sch, _, err := execute(t, "", "jsonschema", "builtin-poster")
	require.NoError(t, err)
	assert.Equal(t, "object", sch["type"])

	_, list, err := execute(t, "", "builtins")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestDocLifecycle(t *testing.T) {
	setup(t)
	d, _, err := execute(t, "", "doc", "create", "builtin-poster", "Sale")
	require.NoError(t, err)
	id := d["id"].(string)
	assert.Equal(t, false, d["isValid"])

	_, list, err := execute(t, "", "doc", "publish", id)
	require.ErrorIs(t, err, errInvalid)
	assert.NotEmpty(t, list)

	data := `{"altText":"Sale","title":"Spring","buttons":[{"label":"Shop","actionType":"uri","url":"https://example.com"}]}`
	dataFile := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(dataFile, []byte(data), 0o600))
	d, _, err = execute(t, "", "doc", "update", id, dataFile)
	require.NoError(t, err)
	assert.Equal(t, true, d["isValid"])

	d, _, err = execute(t, "", "doc", "publish", id)
	require.NoError(t, err)
	assert.Equal(t, "published", d["status"])

	msg, _, err := execute(t, "", "doc", "deliver", id)
	require.NoError(t, err)
	assert.Equal(t, "Sale", msg["altText"])

	_, _, err = execute(t, "", "doc", "show", "missing")
	require.Error(t, err)
}

func TestDecodeData(t *testing.T) {
	m, err := decodeData([]byte(" "))
	require.NoError(t, err)
	assert.Empty(t, m)

	m, err = decodeData([]byte("count: 2\nnested:\n  ok: true\n"))
	require.NoError(t, err)
	assert.Equal(t, float64(2), m["count"])
	assert.Equal(t, true, m["nested"].(map[string]any)["ok"])

	_, err = decodeData([]byte("- a\n- b\n"))
	require.Error(t, err)

	_, err = decodeData([]byte(`{"a":1,"a":2}`))
	require.ErrorContains(t, err, "duplicate key")
}

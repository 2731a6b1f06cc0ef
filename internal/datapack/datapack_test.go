package datapack_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mctestc/internal/datapack"
)

func TestBytesProducesPackMcmeta(t *testing.T) {
	dp := &datapack.Datapack{Description: "mctest output", PackFormat: 48}

	raw, err := dp.Bytes()
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	require.Len(t, r.File, 1)
	assert.Equal(t, "pack.mcmeta", r.File[0].Name)
	assert.Equal(t, zip.Store, r.File[0].Method)

	f, err := r.File[0].Open()
	require.NoError(t, err)
	defer f.Close()
	content, err := io.ReadAll(f)
	require.NoError(t, err)

	var meta struct {
		Pack struct {
			Description string `json:"description"`
			PackFormat  int    `json:"pack_format"`
		} `json:"pack"`
	}
	require.NoError(t, json.Unmarshal(content, &meta))
	assert.Equal(t, "mctest output", meta.Pack.Description)
	assert.Equal(t, 48, meta.Pack.PackFormat)
}

func TestBytesWritesOneMcfunctionPerFunction(t *testing.T) {
	dp := &datapack.Datapack{
		Description: "d",
		PackFormat:  48,
		Functions: []datapack.Function{
			{Namespace: "mctest", Name: "run", Content: "say hello\n"},
			{Namespace: "mctest", Name: "push", Content: "scoreboard players operation tmp stack = ptr stack\n"},
		},
	}

	raw, err := dp.Bytes()
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	require.Len(t, r.File, 3)

	names := map[string]string{}
	for _, zf := range r.File {
		f, err := zf.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(f)
		require.NoError(t, err)
		f.Close()
		names[zf.Name] = string(content)
	}

	assert.Equal(t, "say hello\n", names["data/mctest/functions/run.mcfunction"])
	assert.Equal(t, "scoreboard players operation tmp stack = ptr stack\n", names["data/mctest/functions/push.mcfunction"])
}

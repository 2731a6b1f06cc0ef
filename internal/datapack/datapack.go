// Package datapack assembles the compiled .mcfunction files and pack
// metadata into the zip archive layout Minecraft data packs expect.
package datapack

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
)

// Function is a single .mcfunction file living at
// data/{Namespace}/functions/{Name}.mcfunction.
type Function struct {
	Namespace string
	Name      string
	Content   string
}

// Datapack is the full set of files written into the archive.
type Datapack struct {
	Description string
	PackFormat  int
	Functions   []Function
}

type packMeta struct {
	Pack packMetaInner `json:"pack"`
}

type packMetaInner struct {
	Description string `json:"description"`
	PackFormat  int    `json:"pack_format"`
}

// Bytes serializes the data pack to a zip archive, stored (uncompressed),
// matching the layout Minecraft's data pack loader expects: pack.mcmeta at
// the archive root plus one data/<namespace>/functions/<name>.mcfunction
// entry per function.
//
// No pack repo in the example corpus carries a zip-writer library, so this
// uses the standard archive/zip and encoding/json packages rather than a
// third-party dependency.
func (d *Datapack) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	meta, err := json.Marshal(packMeta{Pack: packMetaInner{
		Description: d.Description,
		PackFormat:  d.PackFormat,
	}})
	if err != nil {
		return nil, fmt.Errorf("datapack: encode pack.mcmeta: %w", err)
	}
	if err := writeStoredFile(w, "pack.mcmeta", meta); err != nil {
		return nil, err
	}

	for _, fn := range d.Functions {
		path := fmt.Sprintf("data/%s/functions/%s.mcfunction", fn.Namespace, fn.Name)
		if err := writeStoredFile(w, path, []byte(fn.Content)); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("datapack: close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeStoredFile(w *zip.Writer, name string, content []byte) error {
	entry, err := w.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: zip.Store,
	})
	if err != nil {
		return fmt.Errorf("datapack: create %s: %w", name, err)
	}
	if _, err := entry.Write(content); err != nil {
		return fmt.Errorf("datapack: write %s: %w", name, err)
	}
	return nil
}

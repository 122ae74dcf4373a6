package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"
)

// ExportJSON writes d to path as indented JSON.
func ExportJSON(path string, d *FrameDump) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, d)
}

func WriteJSON(w io.Writer, d *FrameDump) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(d)
}

// WriteCSV writes one row per vertex: index, x, y, z.
func WriteCSV(w io.Writer, d *FrameDump) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"vertex", "x", "y", "z"}); err != nil {
		return err
	}

	for i, p := range d.Positions {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(p[0], 'f', 6, 64),
			strconv.FormatFloat(p[1], 'f', 6, 64),
			strconv.FormatFloat(p[2], 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

package gtfs

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
)

// SerializeIndex encodes a GTFSIndex to bytes using gob encoding.
// This is useful for disk-based caching to avoid re-parsing the CSV tables.
func SerializeIndex(index *GTFSIndex) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(index); err != nil {
		return nil, fmt.Errorf("failed to encode GTFSIndex: %w", err)
	}
	return buf.Bytes(), nil
}

// DeserializeIndex decodes a GTFSIndex from bytes using gob encoding.
func DeserializeIndex(data []byte) (*GTFSIndex, error) {
	index := NewGTFSIndex()
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(index); err != nil {
		return nil, fmt.Errorf("failed to decode GTFSIndex: %w", err)
	}
	return index, nil
}

// SerializeIndexToFile writes a GTFSIndex to a file using gob encoding.
func SerializeIndexToFile(index *GTFSIndex, filepath string) error {
	data, err := SerializeIndex(index)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// DeserializeIndexFromFile reads a GTFSIndex from a file using gob encoding.
//
//	index, err := gtfs.DeserializeIndexFromFile("/cache/trucks.gob")
//	if err != nil {
//	    // Cache miss or corrupted, load the tables again
//	    index, _ = gtfs.Load(ctx, "./gtfs")
//	}
func DeserializeIndexFromFile(filepath string) (*GTFSIndex, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	return DeserializeIndex(data)
}

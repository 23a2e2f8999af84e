package state

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Encode writes the element list as indented JSON.
func Encode(w io.Writer, elements []Element) error {
	if elements == nil {
		elements = []Element{}
	}
	data, err := json.MarshalIndent(elements, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal elements: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write elements: %w", err)
	}
	return nil
}

// Decode reads a JSON element list. Elements with an unknown kind are an
// error; elements that are merely invalid are left for the store to skip.
func Decode(r io.Reader) ([]Element, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read elements: %w", err)
	}
	var elements []Element
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("parse elements: %w", err)
	}
	for i, e := range elements {
		if _, err := ParseKind(string(e.Kind)); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return elements, nil
}

func SaveFile(path string, elements []Element) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, elements); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func LoadFile(path string) ([]Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

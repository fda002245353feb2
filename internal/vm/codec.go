package vm

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/abra-lang/abra/internal/typesystem"
)

// compiled-code container format: a four-byte magic, one format version
// byte, then a gob stream of the Code value.
var codecMagic = [4]byte{'A', 'B', 'R', 'C'}

const codecVersion byte = 1

func init() {
	// concrete Type variants travelling through the Instruction.Type field
	gob.Register(typesystem.NullType{})
	gob.Register(typesystem.Primitive(0))
	gob.Register(typesystem.ArrayType{})
	gob.Register(typesystem.MapType{})
	gob.Register(typesystem.HeapType{})
	gob.Register(typesystem.OrType{})
	gob.Register(typesystem.AbraType{})
}

// Encode writes code to w in the container format.
func Encode(w io.Writer, code *Code) error {
	if _, err := w.Write(codecMagic[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{codecVersion}); err != nil {
		return err
	}
	return gob.NewEncoder(w).Encode(code)
}

// Decode reads a container written by Encode.
func Decode(r io.Reader) (*Code, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if !bytes.Equal(header[:4], codecMagic[:]) {
		return nil, fmt.Errorf("not a compiled program (bad magic %q)", header[:4])
	}
	if header[4] != codecVersion {
		return nil, fmt.Errorf("unsupported format version %d", header[4])
	}
	var code Code
	if err := gob.NewDecoder(r).Decode(&code); err != nil {
		return nil, fmt.Errorf("decoding bytecode: %w", err)
	}
	return &code, nil
}

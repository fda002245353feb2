package vm

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/abra-lang/abra/internal/ast"
	"github.com/abra-lang/abra/internal/typesystem"
)

func TestCodecRoundTrip(t *testing.T) {
	arr := typesystem.Array(typesystem.Integer)
	code := compileItems(t, mainFn(
		&ast.Declare{Name: "a", Type: arr, Value: &ast.Instance{Type: arr,
			Args: []ast.Expression{intLit(1), intLit(2)}}},
		&ast.Print{Expr: &ast.Get{Member: "length", Base: ident("a")}},
		ret(intLit(0)),
	))

	var buf bytes.Buffer
	if err := Encode(&buf, code); err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(decoded.Bytecode, code.Bytecode) {
		t.Fatal("bytecode changed across the round trip")
	}
	if !reflect.DeepEqual(decoded.Labels, code.Labels) {
		t.Fatal("label table changed across the round trip")
	}
}

func TestDecodedProgramRuns(t *testing.T) {
	code := compileItems(t, mainFn(ret(bin(ast.OpSub, intLit(5), intLit(2)))))

	var buf bytes.Buffer
	if err := Encode(&buf, code); err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	m := New(decoded, nil)
	var out bytes.Buffer
	m.SetIO(strings.NewReader(""), &out)
	if exit := m.Run(); exit != 3 {
		t.Fatalf("decoded program exited %d, want 3", exit)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	if _, err := Decode(strings.NewReader("NOPE\x01garbage")); err == nil {
		t.Fatal("bad magic should be rejected")
	}
}

func TestDecodeRejectsWrongVersion(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, &Code{Bytecode: []Instruction{{Op: OpExit}}}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw := buf.Bytes()
	raw[4] = 99
	if _, err := Decode(bytes.NewReader(raw)); err == nil {
		t.Fatal("wrong version should be rejected")
	}
}

func TestDecodeRejectsTruncatedHeader(t *testing.T) {
	if _, err := Decode(strings.NewReader("AB")); err == nil {
		t.Fatal("truncated header should be rejected")
	}
}

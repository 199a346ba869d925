package vm

import (
	"encoding/binary"
	"errors"
	"testing"
)

func push(v int64) []byte {
	b := make([]byte, 9)
	b[0] = byte(OpPush)
	binary.LittleEndian.PutUint64(b[1:], uint64(v))
	return b
}

func TestRunAdd(t *testing.T) {
	program := append(append(push(2), push(3)...), byte(OpAdd), byte(OpHalt))
	result, err := Run(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 5 {
		t.Errorf("got %d, want 5", result)
	}
}

func TestRunSub(t *testing.T) {
	program := append(append(push(10), push(4)...), byte(OpSub), byte(OpHalt))
	result, err := Run(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 6 {
		t.Errorf("got %d, want 6", result)
	}
}

func TestRunAddWrapsOnOverflow(t *testing.T) {
	program := append(append(push(9223372036854775807), push(1)...), byte(OpAdd), byte(OpHalt))
	result, err := Run(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != -9223372036854775808 {
		t.Errorf("got %d, want wrapped min int64", result)
	}
}

func TestRunAddRequiresTwoValues(t *testing.T) {
	program := append(push(1), byte(OpAdd))
	_, err := Run(program)
	if err == nil || err.Error() != "ADD requires two values on the stack" {
		t.Fatalf("got %v, want ADD requires two values error", err)
	}
}

func TestRunSubRequiresTwoValues(t *testing.T) {
	_, err := Run([]byte{byte(OpSub)})
	if err == nil || err.Error() != "SUB requires two values on the stack" {
		t.Fatalf("got %v, want SUB requires two values error", err)
	}
}

func TestRunHaltOnEmptyStack(t *testing.T) {
	_, err := Run([]byte{byte(OpHalt)})
	if !errors.Is(err, ErrEmptyStackHalt) {
		t.Fatalf("got %v, want ErrEmptyStackHalt", err)
	}
}

func TestRunPCOutOfBounds(t *testing.T) {
	_, err := Run([]byte{byte(OpPush), 1, 2, 3})
	if !errors.Is(err, ErrPCOutOfBounds) {
		t.Fatalf("got %v, want ErrPCOutOfBounds", err)
	}
}

func TestRunEmptyProgramOutOfBounds(t *testing.T) {
	_, err := Run(nil)
	if !errors.Is(err, ErrPCOutOfBounds) {
		t.Fatalf("got %v, want ErrPCOutOfBounds", err)
	}
}

func TestRunInvalidOpcode(t *testing.T) {
	_, err := Run([]byte{0xFF})
	var invalidOp *ErrInvalidOpcode
	if !errors.As(err, &invalidOp) {
		t.Fatalf("got %v, want ErrInvalidOpcode", err)
	}
	if invalidOp.Opcode != 0xFF {
		t.Errorf("got opcode %x, want 0xFF", invalidOp.Opcode)
	}
}

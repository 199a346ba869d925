// Package vm implements the Zelealem bytecode interpreter (ZVM): a small
// stack machine for deterministic contract logic. No other package calls
// it; transaction validation does not execute a State Object's
// validation logic.
package vm

import (
	"encoding/binary"
	"errors"
)

// Opcode identifies a single ZVM instruction.
type Opcode byte

const (
	// OpHalt stops execution and returns the top of the stack.
	OpHalt Opcode = 0x00
	// OpPush pushes the following 8 bytes, read as a little-endian
	// signed 64-bit integer, onto the stack.
	OpPush Opcode = 0x01
	// OpAdd pops two values, pushes their wrapping sum.
	OpAdd Opcode = 0x02
	// OpSub pops two values b then a, pushes the wrapping result of a-b.
	OpSub Opcode = 0x03
)

// ErrInvalidOpcode is returned when the program counter lands on a byte
// that is not a recognized opcode.
type ErrInvalidOpcode struct{ Opcode byte }

func (e *ErrInvalidOpcode) Error() string {
	return "invalid opcode"
}

// ErrPCOutOfBounds is returned when the program counter runs past the
// end of the program without encountering HALT.
var ErrPCOutOfBounds = errors.New("PC out of bounds")

// ErrEmptyStackHalt is returned when HALT executes on an empty stack.
var ErrEmptyStackHalt = errors.New("Execution halted on empty stack")

// ErrAddNeedsTwo is returned when ADD executes with fewer than two values
// on the stack.
var ErrAddNeedsTwo = errors.New("ADD requires two values on the stack")

// ErrSubNeedsTwo is returned when SUB executes with fewer than two values
// on the stack.
var ErrSubNeedsTwo = errors.New("SUB requires two values on the stack")

// Run executes program and returns the value on top of the stack when
// HALT is reached. Arithmetic wraps on overflow, matching Go's int64
// semantics under the standard operators.
func Run(program []byte) (int64, error) {
	var stack []int64
	pc := 0

	for {
		if pc >= len(program) {
			return 0, ErrPCOutOfBounds
		}
		op := Opcode(program[pc])

		switch op {
		case OpHalt:
			if len(stack) == 0 {
				return 0, ErrEmptyStackHalt
			}
			return stack[len(stack)-1], nil

		case OpPush:
			if pc+9 > len(program) {
				return 0, ErrPCOutOfBounds
			}
			v := int64(binary.LittleEndian.Uint64(program[pc+1 : pc+9]))
			stack = append(stack, v)
			pc += 9

		case OpAdd:
			if len(stack) < 2 {
				return 0, ErrAddNeedsTwo
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, a+b)
			pc++

		case OpSub:
			if len(stack) < 2 {
				return 0, ErrSubNeedsTwo
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, a-b)
			pc++

		default:
			return 0, &ErrInvalidOpcode{Opcode: byte(op)}
		}
	}
}

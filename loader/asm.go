package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/OptimisticPeach/cs251simulator/insts"
)

// LineError wraps a parse or validation failure with the one-based line
// number and the offending text, which is preserved for correction.
type LineError struct {
	LineNo int
	Line   string
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.LineNo, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ParseAsm assembles a whole program, one instruction per line, through
// the parse+validate path. The first failing line aborts with a
// *LineError; nothing is partially committed.
func ParseAsm(r io.Reader) ([]insts.Instruction, error) {
	var program []insts.Instruction

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		inst, err := insts.Parse(line)
		if err != nil {
			return nil, &LineError{LineNo: lineNo, Line: line, Err: err}
		}
		program = append(program, inst)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return program, nil
}

// LoadAsm assembles a program text file.
func LoadAsm(path string) ([]insts.Instruction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseAsm(f)
}

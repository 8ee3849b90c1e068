// Package workload parses and runs line-oriented workload scripts that
// drive a block device driver.
//
// A script holds one operation per line:
//
//	open NAME
//	close NAME
//	seek NAME OFFSET
//	read NAME COUNT
//	write NAME TEXT...
//
// Blank lines and lines starting with '#' are skipped.
package workload

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// A Verb names one kind of script operation.
type Verb int

const (
	VerbOpen Verb = iota
	VerbClose
	VerbSeek
	VerbRead
	VerbWrite
)

func (v Verb) String() string {
	switch v {
	case VerbOpen:
		return "open"
	case VerbClose:
		return "close"
	case VerbSeek:
		return "seek"
	case VerbRead:
		return "read"
	case VerbWrite:
		return "write"
	}

	return "invalid verb"
}

// An Op is one parsed script operation. Arg holds the offset of a seek
// or the count of a read. Data holds the payload of a write.
type Op struct {
	Line int
	Verb Verb
	Name string
	Arg  int
	Data []byte
}

// ParseFile parses the workload script at path.
func ParseFile(path string) ([]Op, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse parses a workload script. Errors carry the 1-based line number
// of the offending line.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		op, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		op.Line = lineNum
		ops = append(ops, op)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return ops, nil
}

func parseLine(line string) (Op, error) {
	fields := strings.Fields(line)
	verb, args := fields[0], fields[1:]

	switch verb {
	case "open", "close":
		if len(args) != 1 {
			return Op{}, fmt.Errorf("%s takes one argument, got %d",
				verb, len(args))
		}

		v := VerbOpen
		if verb == "close" {
			v = VerbClose
		}

		return Op{Verb: v, Name: args[0]}, nil
	case "seek", "read":
		if len(args) != 2 {
			return Op{}, fmt.Errorf("%s takes two arguments, got %d",
				verb, len(args))
		}

		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return Op{}, fmt.Errorf(
				"%s needs a non-negative number, got %q", verb, args[1])
		}

		v := VerbSeek
		if verb == "read" {
			v = VerbRead
		}

		return Op{Verb: v, Name: args[0], Arg: n}, nil
	case "write":
		if len(args) < 2 {
			return Op{}, fmt.Errorf("write takes a name and text")
		}

		text := strings.Join(args[1:], " ")

		return Op{Verb: VerbWrite, Name: args[0], Data: []byte(text)}, nil
	default:
		return Op{}, fmt.Errorf("unknown operation %q", verb)
	}
}

package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadCommand = errors.New("bad command")

type Verb string

const (
	VerbGet     Verb = "g"
	VerbOpen    Verb = "o"
	VerbFlag    Verb = "f"
	VerbPress   Verb = "d"
	VerbRelease Verb = "u"
	VerbReset   Verb = "n"
)

var verbNargs = map[Verb]int{
	VerbGet:     0,
	VerbOpen:    2,
	VerbFlag:    2,
	VerbPress:   0,
	VerbRelease: 0,
	VerbReset:   0,
}

// Command is one line of the text protocol, e.g. "o 3 4" to open row 3,
// column 4.
type Command struct {
	Verb     Verb
	Row, Col int
}

func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty", ErrBadCommand)
	}

	verb := Verb(strings.ToLower(fields[0]))
	nargs, ok := verbNargs[verb]
	if !ok {
		return Command{}, fmt.Errorf("%w: unknown verb %q", ErrBadCommand, fields[0])
	}
	if nargs != len(fields)-1 {
		return Command{}, fmt.Errorf(
			"%w: %q takes %d arguments, got %d",
			ErrBadCommand, verb, nargs, len(fields)-1,
		)
	}

	cmd := Command{Verb: verb}
	if nargs == 2 {
		var err error
		if cmd.Row, err = strconv.Atoi(fields[1]); err != nil {
			return Command{}, fmt.Errorf("%w: row must be an int", ErrBadCommand)
		}
		if cmd.Col, err = strconv.Atoi(fields[2]); err != nil {
			return Command{}, fmt.Errorf("%w: col must be an int", ErrBadCommand)
		}
	}
	return cmd, nil
}

// Apply runs the command against s and reports whether s changed.
func (c Command) Apply(s *Session) bool {
	switch c.Verb {
	case VerbOpen:
		return s.Click(c.Row, c.Col)
	case VerbFlag:
		return s.Flag(c.Row, c.Col)
	case VerbPress:
		return s.Press()
	case VerbRelease:
		return s.Release()
	case VerbReset:
		s.Reset()
		return true
	default:
		return false
	}
}

func (c Command) String() string {
	if verbNargs[c.Verb] == 2 {
		return fmt.Sprintf("%s %d %d", c.Verb, c.Row, c.Col)
	}
	return string(c.Verb)
}

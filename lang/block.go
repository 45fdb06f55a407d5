package lang

import "log/slog"

// blockKind is the category of a pending control structure.
type blockKind int

const (
	blockNormal blockKind = iota
	blockIf
	blockElse
	blockWhile
	blockFor
	blockFunction
	blockClass
)

func (k blockKind) String() string {
	switch k {
	case blockNormal:
		return "normal"
	case blockIf:
		return "if"
	case blockElse:
		return "else"
	case blockWhile:
		return "while"
	case blockFor:
		return "for"
	case blockFunction:
		return "function"
	case blockClass:
		return "class"
	default:
		return "unknown"
	}
}

// block is one entry of the indentation stack.
type block struct {
	kind  blockKind
	depth int // indentation of the header line, -1 for a file
	body  int // indentation of the body, -1 until its first line is seen
	line  int // index of the header line
}

func baseBlock(kind blockKind, depth, line int) block {
	return block{kind: kind, depth: depth, body: -1, line: line}
}

// blockStack is the indentation stack of one body evaluation. The first
// entry is the base block and is never popped.
type blockStack []block

func newBlockStack(base block) blockStack { return blockStack{base} }

func (s blockStack) top() block { return s[len(s)-1] }

func (s *blockStack) push(b block) { *s = append(*s, b) }

// close pops every block whose body ended before a line of indentation ind.
// A negative ind closes everything but the base. If a while block is popped,
// close stops and returns its header line so that the condition is
// evaluated again.
func (s *blockStack) close(ind int) (int, bool) {
	for len(*s) > 1 {
		b := s.top()
		if ind > b.depth {
			break
		}

		*s = (*s)[:len(*s)-1]

		if b.kind == blockWhile {
			return b.line, true
		}
	}

	return 0, false
}

// enter checks a statement of indentation ind against the innermost block.
// The first statement fixes the body indentation; every following statement
// of the same block must match it exactly.
func (s blockStack) enter(ind int) error {
	b := &s[len(s)-1]

	switch {
	case b.body < 0:
		b.body = ind
	case ind != b.body:
		return ErrIndent.With(
			slog.Int("expected", b.body),
			slog.Int("got", ind),
			slog.String("block", b.kind.String()),
		)
	}

	return nil
}

// loop finds the innermost enclosing loop for break or continue. It returns
// the stack position of the loop. Only if and else blocks may lie between the
// statement and its loop.
func (s blockStack) loop(stmt string) (int, error) {
	for k := len(s) - 1; k >= 0; k-- {
		switch s[k].kind {
		case blockIf, blockElse:
			continue
		case blockWhile, blockFor:
			return k, nil
		default:
			return 0, ErrScope.With(slog.String("statement", stmt))
		}
	}

	return 0, ErrScope.With(slog.String("statement", stmt))
}

package lang

import (
	"context"
	"log/slog"
	"strings"
)

// signal is the control transfer that ended a body evaluation.
type signal int

const (
	sigNone signal = iota
	sigBreak
	sigContinue
	sigReturn
)

// flow is the outcome of a body evaluation.
type flow struct {
	sig signal
	val Value
}

// execBody executes the lines in [start, end) with base as the bottom of the
// indentation stack. It returns when the range is exhausted, the sentinel is
// reached, or a break, continue or return leaves the body.
func (i *Interpreter) execBody(
	ctx context.Context,
	start, end int,
	base block,
) (flow, error) {
	stack := newBlockStack(base)
	pc := start

	for {
		if err := ctx.Err(); err != nil {
			return flow{}, err
		}

		ind := -1
		if pc < end {
			ind = i.lines[pc].indent
		}

		if loop, ok := stack.close(ind); ok {
			pc = loop
			ind = i.lines[pc].indent
		}

		if pc >= end || i.lines[pc].end {
			return flow{}, nil
		}

		ln := i.lines[pc]
		i.diag = diagnostic{file: i.file, line: ln.num, text: ln.raw}

		if err := stack.enter(ind); err != nil {
			return flow{}, i.diag.raise(err)
		}

		next, f, err := i.step(ctx, pc, &stack)
		if err != nil {
			return flow{}, i.diag.raise(err)
		}

		if f.sig != sigNone {
			return f, nil
		}

		pc = next
	}
}

// step executes the statement at pc and returns the index of the next line
// to execute. A non-empty flow ends the current body.
func (i *Interpreter) step(
	ctx context.Context,
	pc int,
	stack *blockStack,
) (int, flow, error) {
	ln := i.lines[pc]
	word, rest := keyword(ln.stmt())

	switch word {
	case "pass":
		return pc + 1, flow{}, nil

	case "if":
		next, err := i.execIf(ctx, pc, stack)

		return next, flow{}, err

	case "elif", "else":
		// A branch above was taken; skip the rest of the chain.
		return i.blockEnd(pc), flow{}, nil

	case "while":
		end, err := i.bodyEnd(pc)
		if err != nil {
			return pc, flow{}, err
		}

		v, err := i.eval(ctx, header(rest))
		if err != nil {
			return pc, flow{}, err
		}

		if !v.Truthy() {
			return end, flow{}, nil
		}

		stack.push(baseBlock(blockWhile, ln.indent, pc))

		return pc + 1, flow{}, nil

	case "for":
		return i.execFor(ctx, pc, rest)

	case "break", "continue":
		if rest != "" {
			break
		}

		k, err := stack.loop(word)
		if err != nil {
			return pc, flow{}, err
		}

		loop := (*stack)[k]
		if loop.kind == blockFor {
			if word == "break" {
				return pc, flow{sig: sigBreak}, nil
			}

			return pc, flow{sig: sigContinue}, nil
		}

		*stack = (*stack)[:k]

		if word == "break" {
			return i.blockEnd(loop.line), flow{}, nil
		}

		return loop.line, flow{}, nil

	case "return":
		if rest == "" {
			return pc, flow{sig: sigReturn}, nil
		}

		v, err := i.eval(ctx, rest)
		if err != nil {
			return pc, flow{}, err
		}

		return pc, flow{sig: sigReturn, val: v}, nil

	case "def":
		next, err := i.execDef(pc, rest, stack.top())

		return next, flow{}, err

	case "class":
		next, err := i.execClass(ctx, pc, rest)

		return next, flow{}, err

	case "import":
		return pc + 1, flow{}, i.execImport(ctx, rest)
	}

	return pc + 1, flow{}, i.execSimple(ctx, ln.stmt())
}

// bodyEnd returns the end of the body of the header at pc, which must not
// be empty.
func (i *Interpreter) bodyEnd(pc int) (int, error) {
	end := i.blockEnd(pc)
	if end == pc+1 {
		return end, ErrIndent.Wrap(errNoBody)
	}

	return end, nil
}

// execIf resolves an if/elif/else chain starting at pc. The body of the
// first branch taken is entered; the remaining branches are skipped when
// that body ends.
func (i *Interpreter) execIf(ctx context.Context, pc int, stack *blockStack) (int, error) {
	depth := i.lines[pc].indent

	for {
		ln := i.lines[pc]
		i.diag = diagnostic{file: i.file, line: ln.num, text: ln.raw}

		end, err := i.bodyEnd(pc)
		if err != nil {
			return pc, err
		}

		word, rest := keyword(ln.stmt())

		kind := blockIf
		take := word == "else"

		if take {
			kind = blockElse
		} else {
			v, err := i.eval(ctx, header(rest))
			if err != nil {
				return pc, err
			}

			take = v.Truthy()
		}

		if take {
			stack.push(baseBlock(kind, depth, pc))

			return pc + 1, nil
		}

		pc = end
		if next := i.lines[pc]; next.end || next.indent != depth {
			return pc, nil
		}

		if w, _ := keyword(i.lines[pc].stmt()); w != "elif" && w != "else" {
			return pc, nil
		}
	}
}

// execFor runs a for loop: the iterable is evaluated once and the body is
// executed once per element.
func (i *Interpreter) execFor(ctx context.Context, pc int, rest string) (int, flow, error) {
	ln := i.lines[pc]

	name, iter, ok := strings.Cut(header(rest), " in ")
	name = strings.TrimSpace(name)

	if !ok || !isIdentifier(name) || isKeyword(name) {
		return pc, flow{}, ErrParse.With(slog.String("expected", "for <name> in <expr>"))
	}

	end, err := i.bodyEnd(pc)
	if err != nil {
		return pc, flow{}, err
	}

	v, err := i.eval(ctx, iter)
	if err != nil {
		return pc, flow{}, err
	}

	elems, err := v.Iter()
	if err != nil {
		return pc, flow{}, err
	}

	for _, e := range elems {
		i.vars[name] = e

		f, err := i.execBody(ctx, pc+1, end, baseBlock(blockFor, ln.indent, pc))
		if err != nil {
			return pc, flow{}, err
		}

		switch f.sig {
		case sigBreak:
			return end, flow{}, nil
		case sigReturn:
			return end, f, nil
		}
	}

	return end, flow{}, nil
}

// execSimple executes an assignment or an expression statement.
func (i *Interpreter) execSimple(ctx context.Context, stmt string) error {
	tokens, err := Lex(stmt)
	if err != nil {
		return err
	}

	eq := -1

	for k, tok := range tokens {
		if tok == "=" {
			eq = k

			break
		}
	}

	if eq < 0 {
		_, err := i.evalTokens(ctx, tokens)

		return err
	}

	v, err := i.evalTokens(ctx, tokens[eq+1:])
	if err != nil {
		return err
	}

	return i.assign(ctx, tokens[:eq], v)
}

// assign stores v into the target described by tokens: a variable, an
// element of a sequence variable, or a field of an instance.
func (i *Interpreter) assign(ctx context.Context, target []string, v Value) error {
	n := len(target)

	switch {
	case n == 1 && isIdentifier(target[0]) && !isKeyword(target[0]):
		i.vars[target[0]] = v

		return nil

	case n >= 3 && target[n-2] == ".":
		field := target[n-1]
		if !isIdentifier(field) {
			break
		}

		recv := target[:n-2]

		if len(recv) == 1 && recv[0] == "self" {
			if _, ok := i.vars["self"]; !ok {
				if i.class == nil {
					return ErrScope.Wrap(errSelf)
				}

				i.class.Fields[field] = v

				return nil
			}
		}

		obj, err := i.evalTokens(ctx, recv)
		if err != nil {
			return err
		}

		inst, ok := obj.Instance()
		if !ok {
			return ErrType.With(kindAttr("assigned", obj.Kind()), nameAttr(field))
		}

		inst.Fields[field] = v

		return nil

	case n >= 4 && isIdentifier(target[0]) && target[1] == "[" && target[n-1] == "]":
		name := target[0]

		seq, ok := i.vars[name]
		if !ok {
			return undefined(name, i.Names())
		}

		item, err := indexItem(target[2 : n-1])
		if err != nil {
			return err
		}

		r, err := i.indexRange(ctx, item)
		if err != nil {
			return err
		}

		out, err := setElement(seq, r, v)
		if err != nil {
			return err
		}

		i.vars[name] = out

		return nil
	}

	return ErrParse.With(slog.String("target", strings.Join(target, " ")))
}

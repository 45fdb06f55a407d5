package lang

import (
	"context"
	"log/slog"
	"math"
)

// eval evaluates expression text.
func (i *Interpreter) eval(ctx context.Context, text string) (Value, error) {
	tokens, err := Lex(text)
	if err != nil {
		return None, err
	}

	return i.evalTokens(ctx, tokens)
}

// evalTokens reorders and evaluates a token sequence.
func (i *Interpreter) evalTokens(ctx context.Context, tokens []string) (Value, error) {
	items, err := Reorder(tokens, i)
	if err != nil {
		return None, err
	}

	return i.evaluate(ctx, items)
}

// evaluate walks items in postfix order with an operand stack. Exactly one
// value must remain.
func (i *Interpreter) evaluate(ctx context.Context, items []Item) (Value, error) {
	stack := make([]Value, 0, len(items))

	pop := func() (Value, error) {
		if len(stack) == 0 {
			return None, ErrParse.Wrap(errNoValue)
		}

		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		return v, nil
	}

	for _, it := range items {
		var (
			v   Value
			err error
		)

		switch it.Kind {
		case ItemLiteral:
			v = it.Value

		case ItemName:
			v, err = i.lookupValue(it)

		case ItemList:
			var elems []Value

			elems, err = i.evalArgs(ctx, it.Args)
			v = Sequence(elems...)

		case ItemCall:
			var args []Value

			if args, err = i.evalArgs(ctx, it.Args); err == nil {
				v, err = i.call(ctx, it, args)
			}

		case ItemMethod, ItemAttr, ItemIndex:
			var recv Value

			if recv, err = pop(); err != nil {
				return None, err
			}

			v, err = i.postfix(ctx, it, recv)

		case ItemOp:
			var a, b Value

			if b, err = pop(); err != nil {
				return None, err
			}

			if it.Unary {
				v, err = Unary(it.Text, b)

				break
			}

			if a, err = pop(); err != nil {
				return None, err
			}

			v, err = Binary(it.Text, a, b)
		}

		if err != nil {
			return None, err
		}

		stack = append(stack, v)
	}

	switch len(stack) {
	case 0:
		return None, ErrParse.Wrap(errNoValue)
	case 1:
		return stack[0], nil
	default:
		return None, ErrParse.Wrap(errManyValues)
	}
}

// evalArgs evaluates each argument sub-expression in order.
func (i *Interpreter) evalArgs(ctx context.Context, args [][]string) ([]Value, error) {
	out := make([]Value, 0, len(args))

	for _, arg := range args {
		v, err := i.evalTokens(ctx, arg)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

// lookupValue returns the current value of a name item.
func (i *Interpreter) lookupValue(it Item) (Value, error) {
	switch it.Name {
	case NameVariable:
		if v, ok := i.vars[it.Text]; ok {
			return v, nil
		}
	case NameLibrary:
		if lib, ok := i.libs[it.Text]; ok {
			return libraryValue(lib), nil
		}
	case NameClass:
		if cls, ok := i.classes[it.Text]; ok {
			return classValue(ClassRef{Name: cls.Name, Owner: cls.File}), nil
		}
	}

	return None, undefined(it.Text, i.Names())
}

// call dispatches a call item to a user function, a class constructor or a
// built-in.
func (i *Interpreter) call(ctx context.Context, it Item, args []Value) (Value, error) {
	switch it.Name {
	case NameFunction:
		if fn, ok := i.funcs[it.Text]; ok {
			return i.invoke(ctx, fn, args, nil)
		}
	case NameConstructor:
		if cls, ok := i.classes[it.Text]; ok {
			return i.construct(ctx, cls, args)
		}
	case NameBuiltin:
		if b, ok := builtins[it.Text]; ok {
			return b.call(ctx, i, it.Text, args)
		}
	}

	return None, undefined(it.Text, i.Names())
}

// postfix applies a method call, attribute read or index to recv.
func (i *Interpreter) postfix(ctx context.Context, it Item, recv Value) (Value, error) {
	switch it.Kind {
	case ItemMethod:
		args, err := i.evalArgs(ctx, it.Args)
		if err != nil {
			return None, err
		}

		return i.callMethod(ctx, recv, it.Text, args)

	case ItemAttr:
		return i.attr(recv, it.Text)

	default:
		r, err := i.indexRange(ctx, it)
		if err != nil {
			return None, err
		}

		return Index(recv, r)
	}
}

// indexRange evaluates the bounds of an index item. Bounds must be whole
// numbers in [0, MaxIndex].
func (i *Interpreter) indexRange(ctx context.Context, it Item) (IndexRange, error) {
	bound := func(tokens []string) (int, bool, error) {
		if len(tokens) == 0 {
			return 0, true, nil
		}

		v, err := i.evalTokens(ctx, tokens)
		if err != nil {
			return 0, false, err
		}

		n, ok := v.Num()
		if !ok || n < 0 || n > MaxIndex || n != math.Trunc(n) {
			return 0, false, ErrIndex.With(slog.String("bound", v.String()))
		}

		return int(n), false, nil
	}

	start, openStart, err := bound(it.Start)
	if err != nil {
		return IndexRange{}, err
	}

	if !it.Slice {
		return IndexRange{Start: start, End: start + 1, Element: true}, nil
	}

	end, openEnd, err := bound(it.End)
	if err != nil {
		return IndexRange{}, err
	}

	return IndexRange{Start: start, End: end, OpenStart: openStart, OpenEnd: openEnd}, nil
}

// attr reads the attribute name of recv.
func (i *Interpreter) attr(recv Value, name string) (Value, error) {
	switch recv.Kind() {
	case KindInstance:
		inst, _ := recv.Instance()
		if v, ok := inst.Fields[name]; ok {
			return v, nil
		}

		return None, undefined(name, sortedKeys(inst.Fields))

	case KindLibrary:
		lib := recv.lib
		if v, ok := lib.vars[name]; ok {
			return v, nil
		}

		if cls, ok := lib.classes[name]; ok {
			return classValue(ClassRef{Name: cls.Name, Owner: cls.File}), nil
		}

		if l, ok := lib.libs[name]; ok {
			return libraryValue(l), nil
		}

		return None, undefined(name, lib.Names())

	case KindClass:
		ref, _ := recv.Class()
		if cls, ok := i.owner(ref.Owner).classes[ref.Name]; ok {
			if v, ok := cls.Fields[name]; ok {
				return v, nil
			}

			return None, undefined(name, sortedKeys(cls.Fields))
		}
	}

	return None, ErrType.With(kindAttr("receiver", recv.Kind()), nameAttr(name))
}

// callMethod calls the method name on recv: a method of an instance, or a
// function or class constructor of a library.
func (i *Interpreter) callMethod(
	ctx context.Context,
	recv Value,
	name string,
	args []Value,
) (Value, error) {
	switch recv.Kind() {
	case KindInstance:
		inst, _ := recv.Instance()
		if fn, ok := inst.Class.Methods[name]; ok {
			return i.invoke(ctx, fn, args, inst)
		}

		return None, undefined(name, sortedKeys(inst.Class.Methods))

	case KindLibrary:
		lib := recv.lib
		if fn, ok := lib.funcs[name]; ok {
			return lib.invoke(ctx, fn, args, nil)
		}

		if cls, ok := lib.classes[name]; ok {
			return lib.construct(ctx, cls, args)
		}

		return None, undefined(name, lib.Names())

	case KindClass:
		ref, _ := recv.Class()
		owner := i.owner(ref.Owner)

		if cls, ok := owner.classes[ref.Name]; ok {
			if fn, ok := cls.Methods[name]; ok && len(args) > 0 {
				if inst, ok := args[0].Instance(); ok {
					return owner.invoke(ctx, fn, args[1:], inst)
				}
			}

			return None, undefined(name, sortedKeys(cls.Methods))
		}
	}

	return None, ErrType.With(kindAttr("receiver", recv.Kind()), nameAttr(name))
}

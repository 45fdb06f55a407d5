package lang

import (
	"context"
	"log/slog"
	"maps"
	"strings"
)

// execDef registers the function declared at pc and returns the line after
// its body. Inside a class body the function becomes a method.
func (i *Interpreter) execDef(pc int, rest string, top block) (int, error) {
	name, params, err := signature(header(rest))
	if err != nil {
		return pc, err
	}

	end, err := i.bodyEnd(pc)
	if err != nil {
		return pc, err
	}

	fn := &Function{
		Name:   name,
		File:   i.file,
		Params: params,
		Start:  pc + 1,
		End:    end,
	}

	if top.kind == blockClass && i.class != nil {
		i.class.Methods[name] = fn
	} else {
		i.funcs[name] = fn
	}

	return end, nil
}

// signature parses "name(a, b)" into its parts.
func signature(text string) (string, []string, error) {
	name, list, ok := strings.Cut(text, "(")
	name = strings.TrimSpace(name)

	if !ok || !strings.HasSuffix(list, ")") || !isIdentifier(name) || isKeyword(name) {
		return "", nil, ErrParse.With(slog.String("signature", text))
	}

	var params []string

	for p := range strings.SplitSeq(strings.TrimSuffix(list, ")"), ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if !isIdentifier(p) || isKeyword(p) {
			return "", nil, ErrParse.With(slog.String("parameter", p))
		}

		params = append(params, p)
	}

	return name, params, nil
}

// execClass registers the class declared at pc and executes its body, which
// declares methods and default field values.
func (i *Interpreter) execClass(ctx context.Context, pc int, rest string) (int, error) {
	text := header(rest)
	name, base := text, ""

	if n, b, ok := strings.Cut(text, "("); ok {
		name, base = strings.TrimSpace(n), strings.TrimSpace(strings.TrimSuffix(b, ")"))
	}

	if !isIdentifier(name) || isKeyword(name) {
		return pc, ErrParse.With(slog.String("class", text))
	}

	end, err := i.bodyEnd(pc)
	if err != nil {
		return pc, err
	}

	cls := &Class{
		Name:    name,
		File:    i.file,
		Base:    base,
		Start:   pc + 1,
		End:     end,
		Methods: make(map[string]*Function),
		Fields:  make(map[string]Value),
	}

	if base != "" {
		parent, ok := i.classes[base]
		if !ok {
			return pc, undefined(base, sortedKeys(i.classes))
		}

		maps.Copy(cls.Methods, parent.Methods)
		maps.Copy(cls.Fields, parent.Fields)
	}

	i.classes[name] = cls

	outer := i.class
	i.class = cls

	defer func() { i.class = outer }()

	_, err = i.execBody(ctx, pc+1, end, baseBlock(blockClass, i.lines[pc].indent, pc))

	return end, err
}

// construct creates an instance of cls, calling its __init__ method when it
// has one.
func (i *Interpreter) construct(ctx context.Context, cls *Class, args []Value) (Value, error) {
	inst := &Instance{Class: cls, Fields: maps.Clone(cls.Fields)}
	if inst.Fields == nil {
		inst.Fields = make(map[string]Value)
	}

	if init, ok := cls.Methods["__init__"]; ok {
		if _, err := i.invoke(ctx, init, args, inst); err != nil {
			return None, err
		}
	} else if len(args) > 0 {
		return None, arity(cls.Name, 0, len(args))
	}

	return instanceValue(inst), nil
}

// invoke calls fn with args. When self is non-nil, fn is a method and self
// is bound to its first parameter. The call runs in the instance that
// loaded fn, with an environment that replaces the caller's for the
// duration of the call.
func (i *Interpreter) invoke(
	ctx context.Context,
	fn *Function,
	args []Value,
	self *Instance,
) (Value, error) {
	if o := i.owner(fn.File); o != i {
		return o.invoke(ctx, fn, args, self)
	}

	params := fn.Params
	if self != nil {
		if len(params) == 0 {
			return None, ErrParse.With(nameAttr(fn.Name), slog.String("expected", "self parameter"))
		}

		params = params[1:]
	}

	if len(args) != len(params) {
		return None, arity(fn.Name, len(params), len(args))
	}

	if i.shared.depth >= i.maxDepth {
		return None, ErrMaxDepth.With(slog.Int("depth", i.maxDepth), nameAttr(fn.Name))
	}

	i.shared.depth++
	defer func() { i.shared.depth-- }()

	i.logger.TraceContext(ctx, "call", nameAttr(fn.Name), slog.Int("args", len(args)))

	saved, diag := i.vars, i.diag
	i.vars = maps.Clone(saved)

	defer func() { i.vars, i.diag = saved, diag }()

	if self != nil {
		i.vars[fn.Params[0]] = instanceValue(self)
	}

	for k, p := range params {
		i.vars[p] = args[k]
	}

	head := fn.Start - 1

	f, err := i.execBody(ctx, fn.Start, fn.End, baseBlock(blockFunction, i.lines[head].indent, head))
	if err != nil {
		return None, err
	}

	return f.val, nil
}

func arity(name string, expected, got int) *Error {
	return ErrArity.With(
		slog.String("function", name),
		slog.Int("expected", expected),
		slog.Int("got", got),
	)
}

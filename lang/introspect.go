package lang

import (
	"maps"
	"slices"
	"strings"
)

// Members returns the attribute and method names reachable through the
// variable, library or class called name, in sorted order. It does not
// evaluate anything.
func (i *Interpreter) Members(name string) []string {
	if v, ok := i.vars[name]; ok {
		return i.members(v)
	}

	if lib, ok := i.libs[name]; ok {
		return i.members(libraryValue(lib))
	}

	if cls, ok := i.classes[name]; ok {
		return i.members(classValue(ClassRef{Name: cls.Name, Owner: cls.File}))
	}

	return nil
}

func (i *Interpreter) members(v Value) []string {
	names := map[string]struct{}{}
	add := func(keys []string) {
		for _, k := range keys {
			names[k] = struct{}{}
		}
	}

	switch v.Kind() {
	case KindInstance:
		inst, _ := v.Instance()
		add(sortedKeys(inst.Fields))
		add(sortedKeys(inst.Class.Methods))

	case KindLibrary:
		add(sortedKeys(v.lib.vars))
		add(sortedKeys(v.lib.funcs))
		add(sortedKeys(v.lib.classes))
		add(sortedKeys(v.lib.libs))
		delete(names, "__file__")

	case KindClass:
		ref, _ := v.Class()
		if cls, ok := i.owner(ref.Owner).classes[ref.Name]; ok {
			add(sortedKeys(cls.Fields))
			add(sortedKeys(cls.Methods))
		}
	}

	return slices.Sorted(maps.Keys(names))
}

// Signature returns the call signature of the function, class constructor
// or built-in called name, such as "add(a, b)", along with its parameter
// names. A dotted name resolves a method through [Interpreter.Members]
// rules. Parameters named self are omitted.
func (i *Interpreter) Signature(name string) (string, []string, bool) {
	recv, method, dotted := strings.Cut(name, ".")

	var params []string

	switch {
	case dotted:
		fn := i.method(recv, method)
		if fn == nil {
			return "", nil, false
		}

		params = fn.Params
		name = method

	case i.funcs[name] != nil:
		params = i.funcs[name].Params

	case i.classes[name] != nil:
		if init := i.classes[name].Methods["__init__"]; init != nil {
			params = init.Params
		}

	default:
		b, ok := builtins[name]
		if !ok {
			return "", nil, false
		}

		params = b.params
	}

	params = slices.DeleteFunc(slices.Clone(params), func(p string) bool { return p == "self" })

	return name + "(" + strings.Join(params, ", ") + ")", params, true
}

func (i *Interpreter) method(recv, name string) *Function {
	if v, ok := i.vars[recv]; ok {
		if inst, ok := v.Instance(); ok {
			return inst.Class.Methods[name]
		}

		if ref, ok := v.Class(); ok {
			if cls, ok := i.owner(ref.Owner).classes[ref.Name]; ok {
				return cls.Methods[name]
			}
		}
	}

	if lib, ok := i.libs[recv]; ok {
		return lib.funcs[name]
	}

	if cls, ok := i.classes[recv]; ok {
		return cls.Methods[name]
	}

	return nil
}

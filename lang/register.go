package lang

import "github.com/c360studio/stubreg/factory"

// TypeLanguage is the construction target type for descriptor slots that
// build a Language. Arguments: code (string, required), messages directory
// (string, optional).
const TypeLanguage = "Language"

func init() {
	factory.Register(TypeLanguage, Construct)
}

// Construct builds a fully initialized Language from descriptor arguments.
func Construct(args []any) (any, error) {
	code, err := factory.StringArg(args, 0)
	if err != nil {
		return nil, err
	}
	dir, err := factory.OptionalStringArg(args, 1, "")
	if err != nil {
		return nil, err
	}

	l := New(code)
	if dir != "" {
		l.SetMessagesDir(dir)
	}
	if err := l.InitEncoding(); err != nil {
		return nil, err
	}
	if err := l.InitContent(); err != nil {
		return nil, err
	}
	return l, nil
}

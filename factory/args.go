package factory

import "fmt"

// StringArg returns args[i] as a string.
func StringArg(args []any, i int) (string, error) {
	if i < 0 || i >= len(args) {
		return "", fmt.Errorf("argument %d missing (have %d)", i, len(args))
	}
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("argument %d is %T, want string", i, args[i])
	}
	return s, nil
}

// IntArg returns args[i] as an int. Arguments loaded from configuration
// files may arrive as int64 or float64; whole-number values of those types
// are accepted.
func IntArg(args []any, i int) (int, error) {
	if i < 0 || i >= len(args) {
		return 0, fmt.Errorf("argument %d missing (have %d)", i, len(args))
	}
	switch v := args[i].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("argument %d is %v, want a whole number", i, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("argument %d is %T, want int", i, args[i])
	}
}

// OptionalStringArg returns args[i] as a string, or fallback when the
// argument is absent.
func OptionalStringArg(args []any, i int, fallback string) (string, error) {
	if i < 0 || i >= len(args) {
		return fallback, nil
	}
	return StringArg(args, i)
}

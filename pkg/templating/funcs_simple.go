package templating

import (
	"fmt"
	"math"
	"strconv"
)

// toInt converts the numeric values templates see (int from len and range,
// int64 and float64 from decoded JSON, numeric strings) to an int.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		if n > math.MaxInt {
			return 0, fmt.Errorf("value %d overflows int", n)
		}
		return int(n), nil
	case float32:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	case nil:
		return 0, nil
	}
	return 0, fmt.Errorf("cannot use %T as a number", v)
}

func toInts(a, b any) (int, int, error) {
	x, err := toInt(a)
	if err != nil {
		return 0, 0, err
	}
	y, err := toInt(b)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// add returns a + b.
func add(a, b any) (int, error) {
	x, y, err := toInts(a, b)
	return x + y, err
}

// sub returns a - b.
func sub(a, b any) (int, error) {
	x, y, err := toInts(a, b)
	return x - y, err
}

// mult returns a * b.
func mult(a, b any) (int, error) {
	x, y, err := toInts(a, b)
	return x * y, err
}

// div returns a / b (integer division). Returns 0 if b is 0.
func div(a, b any) (int, error) {
	x, y, err := toInts(a, b)
	if err != nil || y == 0 {
		return 0, err
	}
	return x / y, nil
}

// mod returns a % b. Returns 0 if b is 0.
func mod(a, b any) (int, error) {
	x, y, err := toInts(a, b)
	if err != nil || y == 0 {
		return 0, err
	}
	return x % y, nil
}

// inc returns i + 1.
func inc(i any) (int, error) {
	return add(i, 1)
}

// dec returns i - 1.
func dec(i any) (int, error) {
	return sub(i, 1)
}

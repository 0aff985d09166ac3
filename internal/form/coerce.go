package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pasarantar/admin-console/internal/catalog"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var ErrFieldValue = errors.New("invalid form field value")

func toText(value any) (string, error) {
	if value == nil {
		return "", nil
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFieldValue, err)
	}
	return s, nil
}

func toBool(value any) (bool, error) {
	b, err := cast.ToBoolE(value)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrFieldValue, err)
	}
	return b, nil
}

// toInt 整数字段；带小数的数字与字符串一样拒绝，不做截断
func toInt(value any) (int, error) {
	switch v := value.(type) {
	case json.Number:
		return toInt(v.String())
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrFieldValue, s)
		}
		return i, nil
	case float32:
		return toInt(float64(v))
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %v", ErrFieldValue, v)
		}
	}
	i, err := cast.ToIntE(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFieldValue, err)
	}
	return i, nil
}

func toFloat(value any) (float64, error) {
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return 0, nil
	}
	if n, ok := value.(json.Number); ok {
		value = n.String()
	}
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFieldValue, err)
	}
	return f, nil
}

// toDecimal 数字输入框的值；空字符串视为 0
func toDecimal(value any) (decimal.Decimal, error) {
	d, present, err := toNullDecimal(value)
	if err != nil || !present {
		return decimal.Zero, err
	}
	return d, nil
}

// toNullDecimal 空值（nil、空字符串）表示未填写
func toNullDecimal(value any) (decimal.Decimal, bool, error) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, false, nil
	case decimal.Decimal:
		return v, true, nil
	case decimal.NullDecimal:
		return v.Decimal, v.Valid, nil
	case catalog.Amount:
		return v.Decimal, true, nil
	case *catalog.Amount:
		if v == nil {
			return decimal.Zero, false, nil
		}
		return v.Decimal, true, nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("%w: %v", ErrFieldValue, err)
		}
		return d, true, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Zero, false, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("%w: %q", ErrFieldValue, v)
		}
		return d, true, nil
	case float32, float64:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("%w: %v", ErrFieldValue, err)
		}
		return decimal.NewFromFloat(f), true, nil
	default:
		i, err := cast.ToInt64E(v)
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("%w: %v", ErrFieldValue, err)
		}
		return decimal.NewFromInt(i), true, nil
	}
}

func toStringSlice(value any) ([]string, error) {
	if value == nil {
		return []string{}, nil
	}
	values, err := cast.ToStringSliceE(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFieldValue, err)
	}
	return uniqueStrings(values), nil
}

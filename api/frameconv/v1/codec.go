// Package frameconvv1 defines the messages and the gRPC service of the frameconv service.
//
// Messages travel as google.protobuf.Struct values. Every request and response type
// has an Encode method and a matching Decode function.
package frameconvv1

import (
	"math"

	"go.trai.ch/zerr"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrMalformedMessage is returned when a Struct does not hold the expected fields.
var ErrMalformedMessage = zerr.New("malformed message")

// maxExactInt is the largest integer a float64 holds without loss.
const maxExactInt = 1 << 53

func ints(values []int64) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func floats(values []float64) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func malformed(field, reason string) error {
	return zerr.With(zerr.Wrap(ErrMalformedMessage, field+" "+reason), "field", field)
}

func number(v *structpb.Value, field string) (float64, error) {
	if _, ok := v.GetKind().(*structpb.Value_NumberValue); !ok {
		return 0, malformed(field, "must be a number")
	}
	return v.GetNumberValue(), nil
}

func integer(v *structpb.Value, field string) (int64, error) {
	n, err := number(v, field)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) || math.Abs(n) > maxExactInt {
		return 0, malformed(field, "must be an integer")
	}
	return int64(n), nil
}

func list(s *structpb.Struct, field string) ([]*structpb.Value, error) {
	v, ok := s.GetFields()[field]
	if !ok {
		return nil, nil
	}
	if _, ok := v.GetKind().(*structpb.Value_ListValue); !ok {
		return nil, malformed(field, "must be a list")
	}
	return v.GetListValue().GetValues(), nil
}

func intField(s *structpb.Struct, field string) (int64, error) {
	v, ok := s.GetFields()[field]
	if !ok {
		return 0, nil
	}
	return integer(v, field)
}

func boolField(s *structpb.Struct, field string) (bool, error) {
	v, ok := s.GetFields()[field]
	if !ok {
		return false, nil
	}
	if _, ok := v.GetKind().(*structpb.Value_BoolValue); !ok {
		return false, malformed(field, "must be a bool")
	}
	return v.GetBoolValue(), nil
}

func stringField(s *structpb.Struct, field string) (string, error) {
	v, ok := s.GetFields()[field]
	if !ok {
		return "", nil
	}
	if _, ok := v.GetKind().(*structpb.Value_StringValue); !ok {
		return "", malformed(field, "must be a string")
	}
	return v.GetStringValue(), nil
}

func intList(s *structpb.Struct, field string) ([]int64, error) {
	values, err := list(s, field)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(values))
	for i, v := range values {
		if out[i], err = integer(v, field); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func floatList(s *structpb.Struct, field string) ([]float64, error) {
	values, err := list(s, field)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	for i, v := range values {
		if out[i], err = number(v, field); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// structList decodes every element of a list of objects with decode.
func structList[T any](s *structpb.Struct, field string, decode func(*structpb.Struct) (T, error)) ([]T, error) {
	values, err := list(s, field)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(values))
	for i, v := range values {
		if _, ok := v.GetKind().(*structpb.Value_StructValue); !ok {
			return nil, malformed(field, "must be a list of objects")
		}
		if out[i], err = decode(v.GetStructValue()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func encodeList[T interface{ fields() map[string]any }](items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item.fields()
	}
	return out
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the vocabulary shared by every descriptor: element types,
// shapes and the SCALAR/VECTOR/MATRIX classification derived from a shape.
package descriptor

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"
)

// ElementType is the numeric type of every element of a signal.
type ElementType int

const (
	InvalidType ElementType = iota
	Uint8
	Uint16
	Uint32
	Uint64
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
)

var elementTypeNames = map[ElementType]string{
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Float32: "float32",
	Float64: "float64",
}

var reflectKinds = map[reflect.Kind]ElementType{
	reflect.Uint8:   Uint8,
	reflect.Uint16:  Uint16,
	reflect.Uint32:  Uint32,
	reflect.Uint64:  Uint64,
	reflect.Int8:    Int8,
	reflect.Int16:   Int16,
	reflect.Int32:   Int32,
	reflect.Int64:   Int64,
	reflect.Float32: Float32,
	reflect.Float64: Float64,
}

// String returns the type keyword used in manifests, e.g. "float64".
func (t ElementType) String() string {
	if name, ok := elementTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ElementType(%d)", int(t))
}

// Valid reports whether t is one of the supported element types.
func (t ElementType) Valid() bool {
	_, ok := elementTypeNames[t]
	return ok
}

// IsInteger reports whether t is a signed or unsigned integer type.
func (t ElementType) IsInteger() bool {
	return t >= Uint8 && t <= Int64
}

// InRange reports whether x is representable by the element type. Integer
// types are checked exactly; float32 is bounded by math.MaxFloat32 and float64
// by any finite value.
func (t ElementType) InRange(x *big.Float) bool {
	var lo, hi *big.Float
	switch t {
	case Uint8:
		lo, hi = big.NewFloat(0), new(big.Float).SetUint64(math.MaxUint8)
	case Uint16:
		lo, hi = big.NewFloat(0), new(big.Float).SetUint64(math.MaxUint16)
	case Uint32:
		lo, hi = big.NewFloat(0), new(big.Float).SetUint64(math.MaxUint32)
	case Uint64:
		lo, hi = big.NewFloat(0), new(big.Float).SetUint64(math.MaxUint64)
	case Int8:
		lo, hi = new(big.Float).SetInt64(math.MinInt8), new(big.Float).SetInt64(math.MaxInt8)
	case Int16:
		lo, hi = new(big.Float).SetInt64(math.MinInt16), new(big.Float).SetInt64(math.MaxInt16)
	case Int32:
		lo, hi = new(big.Float).SetInt64(math.MinInt32), new(big.Float).SetInt64(math.MaxInt32)
	case Int64:
		lo, hi = new(big.Float).SetInt64(math.MinInt64), new(big.Float).SetInt64(math.MaxInt64)
	case Float32:
		lo, hi = big.NewFloat(-math.MaxFloat32), big.NewFloat(math.MaxFloat32)
	default:
		return !x.IsInf()
	}
	return x.Cmp(lo) >= 0 && x.Cmp(hi) <= 0
}

// ParseElementType resolves a type keyword such as "int32" to its ElementType.
func ParseElementType(keyword string) (ElementType, bool) {
	keyword = strings.TrimSpace(keyword)
	for t, name := range elementTypeNames {
		if name == keyword {
			return t, true
		}
	}
	return InvalidType, false
}

// ElementTypeOf maps a Go numeric type to its ElementType.
func ElementTypeOf(rt reflect.Type) (ElementType, bool) {
	if rt == nil {
		return InvalidType, false
	}
	t, ok := reflectKinds[rt.Kind()]
	return t, ok
}

// SupportedTypes lists every type keyword, in declaration order.
func SupportedTypes() []string {
	names := make([]string, 0, len(elementTypeNames))
	for t := Uint8; t <= Float64; t++ {
		names = append(names, t.String())
	}
	return names
}

// Shape is the (rows, cols) extent of a signal.
type Shape struct {
	Rows int
	Cols int
}

// String renders the shape as "(rows,cols)".
func (s Shape) String() string {
	return fmt.Sprintf("(%d,%d)", s.Rows, s.Cols)
}

// Elements returns the total number of elements, rows*cols.
func (s Shape) Elements() int {
	return s.Rows * s.Cols
}

// Classification is the derived number-of-dimensions tag of a shape.
type Classification int

const (
	Scalar Classification = 0
	Vector Classification = 1
	Matrix Classification = 2
)

// String returns SCALAR, VECTOR or MATRIX.
func (c Classification) String() string {
	switch c {
	case Scalar:
		return "SCALAR"
	case Vector:
		return "VECTOR"
	case Matrix:
		return "MATRIX"
	default:
		return fmt.Sprintf("Classification(%d)", int(c))
	}
}

// Classify derives the classification of a shape. It returns false when either
// component is below 1.
func Classify(s Shape) (Classification, bool) {
	switch {
	case s.Rows < 1 || s.Cols < 1:
		return 0, false
	case s.Rows == 1 && s.Cols == 1:
		return Scalar, true
	case s.Rows == 1 || s.Cols == 1:
		return Vector, true
	default:
		return Matrix, true
	}
}

// Kind identifies which of a module's three descriptors a value is. Its string
// form is the tag carried in the raw "name" field for diagnostics.
type Kind string

const (
	InputKind     Kind = "RootInputDict"
	OutputKind    Kind = "RootOutputDict"
	ParameterKind Kind = "ParameterDict"
)

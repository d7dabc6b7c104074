// Package hash computes digests of synthesized resources. Digests are stored
// in snapshots to detect which resources changed between runs.
package hash

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	gohash "hash"
	"math"
	"reflect"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// Size is the length of a digest in bytes. Compute returns twice as many hex
// characters.
const Size = 16

// Compute returns the digest of a resource of type typename with the given
// properties.
//
// Properties may nest maps, slices, structs, pointers and primitive values.
// Equal maps produce equal digests regardless of iteration order. Nil
// pointers and interfaces contribute nothing, so an absent property and a nil
// one hash alike.
//
// Panics if the properties hold a channel, function or unsafe pointer.
func Compute(typename string, properties interface{}) string {
	h, err := blake2b.New(Size, nil)
	if err != nil {
		panic(err)
	}
	d := &digest{h: h}
	d.str(typename)
	if err := d.value(reflect.ValueOf(properties)); err != nil {
		panic(fmt.Sprintf("hash %s: %v", typename, err))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Kind markers keep values of different kinds from hashing alike.
const (
	markInt byte = iota + 1
	markUint
	markFloat
	markComplex
	markString
	markBool
	markList
	markMap
	markStruct
)

type digest struct {
	h   gohash.Hash
	buf [8]byte
}

func (d *digest) mark(b byte) { d.h.Write([]byte{b}) } // nolint: errcheck

func (d *digest) u64(v uint64) {
	binary.LittleEndian.PutUint64(d.buf[:], v)
	d.h.Write(d.buf[:]) // nolint: errcheck
}

func (d *digest) str(s string) {
	d.u64(uint64(len(s)))
	d.h.Write([]byte(s)) // nolint: errcheck
}

func (d *digest) value(v reflect.Value) error {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		d.mark(markInt)
		d.u64(uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		d.mark(markUint)
		d.u64(v.Uint())
	case reflect.Float32, reflect.Float64:
		d.mark(markFloat)
		d.u64(math.Float64bits(v.Float()))
	case reflect.Complex64, reflect.Complex128:
		d.mark(markComplex)
		c := v.Complex()
		d.u64(math.Float64bits(real(c)))
		d.u64(math.Float64bits(imag(c)))
	case reflect.String:
		d.mark(markString)
		d.str(v.String())
	case reflect.Bool:
		d.mark(markBool)
		if v.Bool() {
			d.u64(1)
		} else {
			d.u64(0)
		}
	case reflect.Slice, reflect.Array:
		d.mark(markList)
		d.u64(uint64(v.Len()))
		for i := 0; i < v.Len(); i++ {
			if err := d.value(v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		return d.mapValue(v)
	case reflect.Struct:
		d.mark(markStruct)
		for i := 0; i < v.NumField(); i++ {
			if err := d.value(v.Field(i)); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("cannot hash %s", v.Kind())
	}
	return nil
}

// mapValue hashes every entry on its own and feeds the sorted entry digests
// to d.
func (d *digest) mapValue(v reflect.Value) error {
	entries := make([][]byte, 0, v.Len())
	for _, k := range v.MapKeys() {
		h, err := blake2b.New(Size, nil)
		if err != nil {
			return err
		}
		e := &digest{h: h}
		if err := e.value(k); err != nil {
			return err
		}
		if err := e.value(v.MapIndex(k)); err != nil {
			return err
		}
		entries = append(entries, h.Sum(nil))
	}
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i], entries[j]) < 0
	})
	d.mark(markMap)
	d.u64(uint64(len(entries)))
	for _, e := range entries {
		d.h.Write(e) // nolint: errcheck
	}
	return nil
}

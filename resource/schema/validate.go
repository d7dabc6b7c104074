package schema

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/meshstack/meshstack/ctyext"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/multierr"
	"gopkg.in/go-playground/validator.v9"
)

var check = validator.New()

func mustRegister(err error) {
	if err != nil {
		panic(fmt.Sprintf("Register custom validator: %v", err))
	}
}

func init() {
	mustRegister(check.RegisterValidation("port", func(fl validator.FieldLevel) bool {
		var n float64
		switch fl.Field().Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n = float64(fl.Field().Int())
		case reflect.Float32, reflect.Float64:
			n = fl.Field().Float()
		default:
			return false
		}
		return n >= 1 && n <= 65535 && n == float64(int64(n))
	}))
	mustRegister(check.RegisterValidation("arn", func(fl validator.FieldLevel) bool {
		str := fl.Field().String()
		_, err := arn.Parse(str)
		return err == nil
	}))
}

// ValidateValue validates a resource property bag against the struct type
// that defines its schema.
//
// Required inputs must be set. Known values are checked against the rules in
// the field's validate tag. Unknown values are resolved from other resources
// when the stack is deployed and are not validated.
//
// All violations are returned as a single error; each violation is a
// ctyext.PathError pointing to the offending field.
func ValidateValue(val cty.Value, t reflect.Type) error {
	return validateObject(val, t, nil)
}

func validateObject(val cty.Value, t reflect.Type, path cty.Path) error {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if !val.IsKnown() {
		return nil
	}
	var errs error
	fields := Fields(t)
	for _, name := range fields.Names() {
		field := fields[name]
		if field.functag == "output" {
			continue
		}
		fieldPath := append(path.Copy(), cty.GetAttrStep{Name: name})
		v := cty.NullVal(cty.DynamicPseudoType)
		if !val.IsNull() && val.Type().IsObjectType() && val.Type().HasAttribute(name) {
			v = val.GetAttr(name)
		}
		errs = multierr.Append(errs, validateField(v, field, fieldPath))
	}
	return errs
}

func validateField(val cty.Value, field Field, path cty.Path) error {
	if val.IsNull() {
		if field.Required {
			return ctyext.PathError{Path: path, Err: errors.New("value is required")}
		}
		return nil
	}
	if !val.IsKnown() {
		return nil
	}
	if rules := field.Tags["validate"]; rules != "" {
		if err := validate(goValue(val), rules); err != nil {
			return ctyext.PathError{Path: path, Err: err}
		}
	}

	t := field.Type
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch {
	case t.Kind() == reflect.Struct:
		return validateObject(val, t, path)
	case t.Kind() == reflect.Slice && elemKind(t) == reflect.Struct:
		var errs error
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			elemPath := append(path.Copy(), cty.IndexStep{Key: k})
			errs = multierr.Append(errs, validateObject(v, t.Elem(), elemPath))
		}
		return errs
	}
	return nil
}

func elemKind(t reflect.Type) reflect.Kind {
	e := t.Elem()
	for e.Kind() == reflect.Ptr {
		e = e.Elem()
	}
	return e.Kind()
}

// goValue converts a known cty value to a value the validator can check.
// Collections are converted to slices and maps of the same length, so that
// length based rules (min, max, len) apply to them.
func goValue(val cty.Value) interface{} {
	if val.IsNull() || !val.IsKnown() {
		return nil
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString()
	case ty == cty.Bool:
		return val.True()
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			i, acc := bf.Int64()
			if acc == big.Exact {
				return i
			}
		}
		f, _ := bf.Float64()
		return f
	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		out := make([]interface{}, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			out = append(out, goValue(v))
		}
		return out
	case ty.IsMapType() || ty.IsObjectType():
		out := make(map[string]interface{})
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			out[k.AsString()] = goValue(v)
		}
		return out
	}
	return nil
}

var once sync.Once
var formats map[string]string

func validate(v interface{}, tag string) error {
	err := check.Var(v, tag)
	if err == nil {
		return nil
	}
	once.Do(initFormatters)
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fe := errs[0]
	key := fe.Tag()
	switch fe.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		if _, ok := formats[key+"_len"]; ok {
			key += "_len"
		}
	}
	format, ok := formats[key]
	if !ok {
		return errors.Errorf("failed validation rule %q", fe.Tag())
	}
	if !strings.Contains(format, "%") {
		return errors.New(format)
	}
	return errors.Errorf(format, fe.Param())
}

func initFormatters() {
	formats = map[string]string{
		"gte":     "must be %v or more",
		"gt":      "must be more than %v",
		"lte":     "must be %v or less",
		"lt":      "must be less than %v",
		"min":     "must be %v or more",
		"max":     "must be %v or less",
		"min_len": "length must be %v or more",
		"max_len": "length must be %v or less",
		"len":     "length must be %v",
		"oneof":   "must be one of: [%v]",
		"cidr":    "must be a valid CIDR block",
		"ip":      "must be a valid IP address",
		"url":     "must be a valid url",

		// custom
		"port": "must be a valid port number (1-65535)",
		"arn":  "must be a valid arn (https://docs.aws.amazon.com/general/latest/gr/aws-arns-and-namespaces.html)",
	}
}

package ctyext_test

import (
	"testing"

	"github.com/meshstack/meshstack/ctyext"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

func TestWithPath(t *testing.T) {
	base := errors.New("value is string, not number")
	inner := ctyext.WithPath(cty.GetAttrPath("port_mappings").Index(cty.NumberIntVal(0)).GetAttr("container_port"), base)
	outer := ctyext.WithPath(cty.GetAttrPath("container_definitions").Index(cty.NumberIntVal(1)), inner)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Inner", inner, "port_mappings[0].container_port: value is string, not number"},
		{"Nested", outer, "container_definitions[1].port_mappings[0].container_port: value is string, not number"},
		{"EmptyPath", ctyext.WithPath(nil, base), "value is string, not number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if errors.Cause(tt.err) != base {
				t.Errorf("Cause() = %v, want %v", errors.Cause(tt.err), base)
			}
		})
	}

	if ctyext.WithPath(cty.GetAttrPath("x"), nil) != nil {
		t.Error("WithPath(nil) != nil")
	}
}

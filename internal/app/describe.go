package app

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/gamreg/internal/descriptor"
	"github.com/specialistvlad/gamreg/internal/registry"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Describe writes one table per registered module listing its signals and
// parameters with their live values.
func Describe(w io.Writer, reg *registry.Registry) error {
	for _, name := range reg.Modules() {
		entry, err := reg.Lookup(name)
		if err != nil {
			return err
		}
		values, err := reg.ParameterValues(name)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "\nGAM %s (%s)\n", entry.Name, entry.Source)
		if entry.Description != "" {
			fmt.Fprintf(w, "  %s\n", entry.Description)
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  KIND\tINDEX\tNAME\tTYPE\tSHAPE\tCLASS\tVALUE")
		for _, d := range []*descriptor.Descriptor{&entry.Inputs, &entry.Outputs, &entry.Parameters} {
			for i, n := range d.Names {
				value := "-"
				if d.Kind == descriptor.ParameterKind {
					value = FormatValue(values[n])
				}
				fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\t%s\t%s\t%s\n",
					kindLabel(d.Kind), i, n, d.ElementTypes[i], d.Dimensions[i], d.NumberOfDimensions[i], value)
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func kindLabel(k descriptor.Kind) string {
	switch k {
	case descriptor.InputKind:
		return "input"
	case descriptor.OutputKind:
		return "output"
	default:
		return "parameter"
	}
}

// FormatValue renders a value as compact JSON.
func FormatValue(v descriptor.Value) string {
	if v.IsNull() {
		return "null"
	}
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return v.GoString()
	}
	return string(b)
}

// FormatValues renders values as a space-separated list.
func FormatValues(vs []descriptor.Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = FormatValue(v)
	}
	return strings.Join(parts, " ")
}

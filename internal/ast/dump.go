package ast

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/Hayden-Liles/Cheetah/internal/position"
)

// Dump renders a node as an indented field tree for inspection tools. Spans
// are omitted to keep the output focused on structure.
func Dump(n Node) string {
	var b strings.Builder
	dumpValue(&b, reflect.ValueOf(n), 0)
	return b.String()
}

var spanType = reflect.TypeOf(position.Span{})

func dumpValue(b *strings.Builder, v reflect.Value, indent int) {
	switch v.Kind() {
	case reflect.Invalid:
		b.WriteString("nil")

	case reflect.Interface, reflect.Ptr:
		if v.IsNil() {
			b.WriteString("nil")
			return
		}
		if bi, ok := v.Interface().(*big.Int); ok {
			b.WriteString(bi.String())
			return
		}
		dumpValue(b, v.Elem(), indent)

	case reflect.Struct:
		t := v.Type()
		b.WriteString(t.Name())
		pad := strings.Repeat("  ", indent+1)
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).Type == spanType {
				continue
			}
			b.WriteString("\n" + pad + t.Field(i).Name + ": ")
			dumpValue(b, v.Field(i), indent+1)
		}

	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			fmt.Fprintf(b, "%q", v.Bytes())
			return
		}
		if v.Len() == 0 {
			b.WriteString("[]")
			return
		}
		pad := strings.Repeat("  ", indent+1)
		b.WriteString("[")
		for i := 0; i < v.Len(); i++ {
			b.WriteString("\n" + pad)
			dumpValue(b, v.Index(i), indent+1)
		}
		b.WriteString("\n" + strings.Repeat("  ", indent) + "]")

	case reflect.String:
		fmt.Fprintf(b, "%q", v.String())

	default:
		if s, ok := v.Interface().(fmt.Stringer); ok {
			b.WriteString(s.String())
			return
		}
		fmt.Fprintf(b, "%v", v.Interface())
	}
}

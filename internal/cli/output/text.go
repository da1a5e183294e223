package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
)

// TextFormatter renders data as aligned plain text.
//
// Structs and maps print one "key  value" line per field, slices of structs
// print as a table with a header row, strings print as-is.
type TextFormatter struct {
	NoHeaders bool
}

// Format writes data to w.
func (f *TextFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	switch d := data.(type) {
	case *Table:
		return d.render(w, f.NoHeaders)
	case Table:
		return d.render(w, f.NoHeaders)
	case string:
		_, err := fmt.Fprintln(w, d)
		return err
	case fmt.Stringer:
		_, err := fmt.Fprintln(w, d.String())
		return err
	}

	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		return structToTable(v).render(w, true)
	case reflect.Map:
		return mapToTable(v).render(w, true)
	case reflect.Slice, reflect.Array:
		return sliceToTable(v).render(w, f.NoHeaders)
	default:
		_, err := fmt.Fprintln(w, formatValue(v))
		return err
	}
}

func structToTable(v reflect.Value) *Table {
	t := &Table{}
	typ := v.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		name, ok := fieldName(field)
		if !ok {
			continue
		}
		t.AddRow(name+":", formatValue(v.Field(i)))
	}
	return t
}

func mapToTable(v reflect.Value) *Table {
	rows := make([][]string, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		rows = append(rows, []string{formatValue(iter.Key()) + ":", formatValue(iter.Value())})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	return &Table{Rows: rows}
}

func sliceToTable(v reflect.Value) *Table {
	t := &Table{}
	if v.Len() == 0 {
		return t
	}

	elemType := v.Type().Elem()
	for elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}

	if elemType.Kind() != reflect.Struct {
		t.SetHeaders("VALUE")
		for i := 0; i < v.Len(); i++ {
			t.AddRow(formatValue(v.Index(i)))
		}
		return t
	}

	var indices []int
	for i := 0; i < elemType.NumField(); i++ {
		name, ok := fieldName(elemType.Field(i))
		if !ok {
			continue
		}
		t.Headers = append(t.Headers, strings.ToUpper(name))
		indices = append(indices, i)
	}

	for i := 0; i < v.Len(); i++ {
		elem := reflect.Indirect(v.Index(i))
		row := make([]string, 0, len(indices))
		for _, idx := range indices {
			if !elem.IsValid() {
				row = append(row, "-")
				continue
			}
			row = append(row, formatValue(elem.Field(idx)))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// fieldName returns the display name of an exported field, preferring its
// json tag. ok is false for unexported or json:"-" fields.
func fieldName(field reflect.StructField) (name string, ok bool) {
	if !field.IsExported() {
		return "", false
	}
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	if n, _, _ := strings.Cut(tag, ","); n != "" {
		return n, true
	}
	return field.Name, true
}

// formatValue formats a reflect.Value for display.
func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return "-"
	}

	for v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "-"
		}
		v = v.Elem()
	}

	if t, ok := v.Interface().(time.Time); ok {
		if t.IsZero() {
			return "-"
		}
		return t.Format(time.RFC3339)
	}

	switch v.Kind() {
	case reflect.String:
		if v.Len() == 0 {
			return "-"
		}
		return v.String()
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%g", v.Float())
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "-"
		}
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = formatValue(v.Index(i))
		}
		return strings.Join(parts, ", ")
	case reflect.Map:
		if v.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("{%d keys}", v.Len())
	case reflect.Struct:
		return fmt.Sprintf("%+v", v.Interface())
	default:
		return fmt.Sprint(v.Interface())
	}
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.render(w, false)
}

func (t *Table) render(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// SetHeaders sets the table headers.
func (t *Table) SetHeaders(headers ...string) {
	t.Headers = headers
}

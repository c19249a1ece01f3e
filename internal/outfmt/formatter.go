package outfmt

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"
)

// Formatter writes one command result in the format selected by its
// context: a table in text mode, or filtered JSON, JSON lines, or template
// output otherwise.
type Formatter struct {
	ctx    context.Context
	out    io.Writer
	errOut io.Writer
	table  *tabwriter.Writer
}

func NewFormatter(ctx context.Context, out, errOut io.Writer) *Formatter {
	return &Formatter{
		ctx:    ctx,
		out:    out,
		errOut: errOut,
		table:  tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
	}
}

// Structured reports whether Output will render data itself. When false the
// caller prints text.
func (f *Formatter) Structured() bool {
	s := fromContext(f.ctx)
	return s.mode != Text || s.query != "" || s.template != ""
}

// Output renders data per the context settings. A template is applied after
// the query. In JSON lines mode a slice is written one element per line.
// Text mode writes nothing.
func (f *Formatter) Output(data any) error {
	if !f.Structured() {
		return nil
	}
	s := fromContext(f.ctx)
	switch {
	case s.template != "":
		filtered, err := ApplyQuery(data, s.query)
		if err != nil {
			return err
		}
		return WriteTemplate(f.out, filtered, s.template)
	case s.mode == JSONL:
		rv := reflect.ValueOf(data)
		if rv.Kind() != reflect.Slice {
			return WriteJSONFiltered(f.out, data, s.query, true)
		}
		for i := 0; i < rv.Len(); i++ {
			if err := WriteJSONFiltered(f.out, rv.Index(i).Interface(), s.query, true); err != nil {
				return err
			}
		}
		return nil
	default:
		return WriteJSONFiltered(f.out, data, s.query, IsCompact(f.ctx))
	}
}

// StartTable writes the header row and reports whether the caller should
// go on writing rows; structured modes get Output instead.
func (f *Formatter) StartTable(headers ...string) bool {
	if f.Structured() {
		return false
	}
	f.Row(headers...)
	return true
}

func (f *Formatter) Row(columns ...string) {
	_, _ = fmt.Fprintln(f.table, strings.Join(columns, "\t"))
}

func (f *Formatter) EndTable() error {
	return f.table.Flush()
}

// Empty notes on stderr that there is nothing to show.
func (f *Formatter) Empty(message string) {
	_, _ = fmt.Fprintln(f.errOut, message)
}

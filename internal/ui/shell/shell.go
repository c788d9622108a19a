// Package shell is the line-oriented console front-end: it renders a
// collection as a table and maps typed commands onto a ui.Controller.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode"

	"github.com/aanand-mishra/records-api/internal/types"
	"github.com/aanand-mishra/records-api/internal/ui"
)

const help = `commands:
  list                  show the table
  sort <column>         cycle ascending, descending, unsorted
  add                   open the form for a new record
  edit <row#>           open the form on a row
  set <field> <value>   change a form field
  save                  submit the form
  close                 discard the form
  delete <row#>         delete a row
  help                  this text
  quit                  leave`

// Printer is a ui.Notifier writing "! <message>" lines.
type Printer struct {
	W io.Writer
}

func (p Printer) Alert(msg string) {
	for _, line := range strings.Split(msg, "\n") {
		if line == "" {
			continue
		}
		fmt.Fprintf(p.W, "! %s\n", line)
	}
}

type Shell[T types.Record] struct {
	ctrl   *ui.Controller[T]
	out    io.Writer
	prompt string
}

func New[T types.Record](ctrl *ui.Controller[T], out io.Writer, prompt string) *Shell[T] {
	return &Shell[T]{ctrl: ctrl, out: out, prompt: prompt}
}

// Run loads the collection, prints it and serves commands from in until
// quit or EOF.
func (s *Shell[T]) Run(ctx context.Context, in io.Reader) error {
	if err := s.ctrl.Load(ctx); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	s.printTable()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, s.prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if quit := s.Exec(ctx, scanner.Text()); quit {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Exec runs one command line. It reports whether the shell should stop.
func (s *Shell[T]) Exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(s.out, help)
	case "list":
		s.printTable()
	case "sort":
		if len(args) != 1 {
			s.fail("usage: sort <column>")
			return false
		}
		if err := s.ctrl.ToggleSort(args[0]); err != nil {
			s.fail(err.Error())
			return false
		}
		s.printTable()
	case "add":
		s.ctrl.Add()
		s.printForm()
	case "edit":
		row, ok := s.row(args)
		if !ok {
			return false
		}
		if err := s.ctrl.Edit(row); err != nil {
			s.fail(err.Error())
			return false
		}
		s.printForm()
	case "set":
		if !s.ctrl.Form.IsOpen() {
			s.fail("no form open: use add or edit")
			return false
		}
		if len(args) < 1 {
			s.fail("usage: set <field> <value>")
			return false
		}
		// The value is the rest of the line, so names may contain spaces.
		field := args[0]
		rest := strings.TrimLeftFunc(strings.TrimSpace(line)[len(cmd):], unicode.IsSpace)
		value := strings.TrimSpace(rest[len(field):])
		if err := s.ctrl.Form.Set(field, value); err != nil {
			s.fail(err.Error())
			return false
		}
		s.printForm()
	case "save":
		if !s.ctrl.Form.IsOpen() {
			s.fail("no form open: use add or edit")
			return false
		}
		if err := s.ctrl.Save(ctx); err != nil {
			s.printForm()
			return false
		}
		s.printTable()
	case "close":
		s.ctrl.Form.Close()
	case "delete":
		row, ok := s.row(args)
		if !ok {
			return false
		}
		s.ctrl.Delete(ctx, row.GetID())
		s.printTable()
	default:
		s.fail(fmt.Sprintf("unknown command %q, try help", cmd))
	}
	return false
}

func (s *Shell[T]) row(args []string) (T, bool) {
	var zero T
	if len(args) != 1 {
		s.fail("usage: <command> <row#>")
		return zero, false
	}
	rows := s.ctrl.Rows()
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(rows) {
		s.fail(fmt.Sprintf("no row %s", args[0]))
		return zero, false
	}
	return rows[n-1], true
}

func (s *Shell[T]) fail(msg string) {
	Printer{W: s.out}.Alert(msg)
}

func (s *Shell[T]) printTable() {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)

	header := []string{"#"}
	for _, c := range s.ctrl.Columns {
		name := c.Name
		if s.ctrl.Sort.Column == c.Name {
			switch s.ctrl.Sort.Direction {
			case ui.Ascending:
				name += " ^"
			case ui.Descending:
				name += " v"
			}
		}
		header = append(header, name)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for i, r := range s.ctrl.Rows() {
		cells := []string{strconv.Itoa(i + 1)}
		for _, c := range s.ctrl.Columns {
			cells = append(cells, c.Text(r))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
}

// printForm shows the open form. Flagged fields carry a "*", the
// highlighted one a ">".
func (s *Shell[T]) printForm() {
	f := s.ctrl.Form
	if !f.IsOpen() {
		return
	}
	fmt.Fprintf(s.out, "[%s]\n", f.Mode)

	tw := tabwriter.NewWriter(s.out, 0, 4, 1, ' ', 0)
	for _, c := range s.ctrl.Columns {
		mark := " "
		switch {
		case f.Highlight == c.Name:
			mark = ">"
		case f.Flagged(c.Name):
			mark = "*"
		}
		fmt.Fprintf(tw, "%s %s:\t%s\n", mark, c.Name, c.Text(f.Value))
	}
	_ = tw.Flush()
}

package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/satchel-db/satchel"
)

// Selector holds the flags that pick documents for count, exists,
// patch, remove-fields and delete. Exactly one selection mode may be
// set; ByID is only meaningful where the command documents it.
type Selector struct {
	ID       string
	Field    string
	Op       string
	Value    string
	Contains string
	Path     string
}

// Register attaches the selector flags to a command.
func (s *Selector) Register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.ID, "id", "", "select the document with this key")
	cmd.Flags().StringVar(&s.Field, "field", "", "select documents by comparing this field")
	cmd.Flags().StringVar(&s.Op, "op", "EQ", "comparison operator for --field (EQ, NE, GT, GE, LT, LE, BETWEEN, IN, EXISTS, NOT_EXISTS)")
	cmd.Flags().StringVar(&s.Value, "value", "", "comparison value for --field (JSON; arrays for BETWEEN and IN)")
	cmd.Flags().StringVar(&s.Contains, "contains", "", "select documents containing this partial document (JSON)")
	cmd.Flags().StringVar(&s.Path, "path", "", "select documents matching this JSON path expression")
}

// modeCount reports how many selection modes were set.
func (s *Selector) modeCount() int {
	n := 0
	for _, v := range []string{s.ID, s.Field, s.Contains, s.Path} {
		if v != "" {
			n++
		}
	}
	return n
}

// fieldArgs resolves the --field/--op/--value triple.
func (s *Selector) fieldArgs() (string, satchel.Operator, any, error) {
	op, err := satchel.ParseOperator(s.Op)
	if err != nil {
		return "", 0, nil, NewExitError(ExitCommandError, err.Error())
	}
	return s.Field, op, parseValue(s.Value), nil
}

// containsArg resolves the --contains criteria document.
func (s *Selector) containsArg() (map[string]any, error) {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(s.Contains), &criteria); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid --contains JSON", err)
	}
	return criteria, nil
}

// parseValue reads a flag value as JSON so numbers, booleans and
// arrays keep their types; anything that is not valid JSON is a
// string.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

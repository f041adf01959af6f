package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Screen is everything a renderer draws.
type Screen struct {
	Rows       []Row
	Loading    bool
	Error      string
	FormStatus FormStatus
}

// RenderText writes s as an aligned table. Rows in edit mode show the
// edit buffer and are marked with a leading "*".
func RenderText(w io.Writer, s Screen) error {
	if s.Loading {
		if _, err := fmt.Fprintln(w, "Loading..."); err != nil {
			return err
		}
	}
	if s.Error != "" {
		if _, err := fmt.Fprintf(w, "Error: %s\n", s.Error); err != nil {
			return err
		}
	}
	if s.FormStatus != StatusIdle {
		if _, err := fmt.Fprintf(w, "Create: %s\n", s.FormStatus); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, " \tID\tNAME\tEMAIL\tPASSWORD\tACTIONS")
	for _, r := range s.Rows {
		mark := " "
		name, email, password := deref(r.User.Name), deref(r.User.Email), deref(r.User.Password)
		if r.Editing {
			mark = "*"
			name, email, password = r.Buffer.Name, r.Buffer.Email, r.Buffer.Password
		}

		actions := make([]string, len(r.Actions))
		for i, a := range r.Actions {
			actions[i] = string(a)
		}

		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			mark, r.User.ID, name, email, password, strings.Join(actions, " "))
	}
	return tw.Flush()
}

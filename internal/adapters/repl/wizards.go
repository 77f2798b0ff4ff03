package repl

import (
	"fmt"
	"strings"
)

// prompt prints label and reads one trimmed line.
func (s *session) prompt(label string) string {
	fmt.Fprint(s.out, label)
	line, _ := s.reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// confirm asks a yes/no question; anything but y/yes is a no.
func (s *session) confirm(question string) bool {
	choice := strings.ToLower(s.prompt(question))
	return choice == "y" || choice == "yes"
}

// handleLogin prompts for the password and logs in.
func (s *session) handleLogin(username string) error {
	password := s.prompt("Password: ")
	if password == "" {
		fmt.Fprintln(s.out, "Login cancelled.")
		return nil
	}
	sess, err := s.svc.Login(s.ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Welcome, %s.\n", sess.Username)
	return nil
}

// handleDelete asks for confirmation before deleting a persisted invoice.
func (s *session) handleDelete(id string) error {
	question := fmt.Sprintf("Delete invoice %s? Stock will not be restored. (y/n): ", id)
	if !s.confirm(question) {
		fmt.Fprintln(s.out, "Delete cancelled.")
		return nil
	}
	if err := s.svc.DeleteInvoice(s.ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Invoice %s deleted.\n", id)
	return nil
}

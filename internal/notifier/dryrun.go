package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// DryRunNotifier prints what would be posted without sending anything
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a new dry-run notifier writing to out, or stdout when nil
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunNotifier{out: out}
}

// Notify prints the message that would be posted
func (n *DryRunNotifier) Notify(_ context.Context, message string) error {
	fmt.Fprintln(n.out, "--- Message (dry run) ---")
	fmt.Fprintln(n.out, message)
	fmt.Fprintf(n.out, "\n(Length: %d characters)\n", utf8.RuneCountInString(message))
	return nil
}

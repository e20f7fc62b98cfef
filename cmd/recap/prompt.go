package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// isTerminal reports whether writer is an interactive terminal.
func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// promptLine asks for one line of input on stdin. It fails when stdin
// is not a terminal so scripted invocations error out instead of
// hanging.
func promptLine(out io.Writer, label string) (string, error) {
	if !stdinIsTerminal() {
		return "", fmt.Errorf("%s required but stdin is not a terminal", strings.TrimSuffix(strings.TrimSpace(label), ":"))
	}
	fmt.Fprint(out, label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptSecret asks for a value on stdin without echoing it.
func promptSecret(out io.Writer, label string) (string, error) {
	if !stdinIsTerminal() {
		return "", fmt.Errorf("%s required but stdin is not a terminal", strings.TrimSuffix(strings.TrimSpace(label), ":"))
	}
	fmt.Fprint(out, label)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

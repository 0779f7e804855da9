package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readSecret prompts on the terminal without echo, or reads one line when stdin is piped.
func readSecret(prompt string, out io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())

	if term.IsTerminal(fd) {
		fmt.Fprint(out, prompt)

		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(out)

		if err != nil {
			return "", fmt.Errorf("reading secret: %w", err)
		}

		return string(secret), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading secret: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const tokenURL = "https://github.com/settings/tokens/new?scopes=repo&description=License+Crawler+Access"

var (
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	linkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("36")).Underline(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// confirmWithoutToken explains why a token is needed and asks whether to
// continue anyway. Only "y" and "yes" confirm.
func confirmWithoutToken(in io.Reader, out io.Writer) bool {
	fmt.Fprintln(out, warningStyle.Render("Warning: GITHUB_TOKEN environment variable is not set."))
	fmt.Fprintln(out, "Without a token, you may experience API rate limits and restricted visibility to repositories.")
	fmt.Fprintln(out, "Visit this URL to create a token with the required permissions:")
	fmt.Fprintln(out, linkStyle.Render(tokenURL))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "After creating your token, set it using:")
	fmt.Fprintln(out, dimStyle.Render("  export GITHUB_TOKEN=your_token_here"))
	fmt.Fprintln(out, "or add it to a .env file in the working directory.")
	fmt.Fprint(out, "\nDo you want to continue without a token? (y/n): ")

	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		fmt.Fprintln(out, "Exiting. Please set the GITHUB_TOKEN environment variable and try again.")
		return false
	}
}

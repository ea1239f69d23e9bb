// Package asciiart renders the homelab banner shown by the bare root
// command.
package asciiart

import (
	"fmt"
	"io"
	"os"
)

const logo = `
 _                          _       _
| |__   ___  _ __ ___   ___| | __ _| |__
| '_ \ / _ \| '_ ' _ \ / _ \ |/ _' | '_ \
| | | | (_) | | | | | |  __/ | (_| | |_) |
|_| |_|\___/|_| |_| |_|\___|_|\__,_|_.__/
`

// PrintHomelabLogo writes the homelab ASCII logo to the writer.
func PrintHomelabLogo(writer io.Writer) {
	_, err := fmt.Fprintln(writer, logo)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "asciiart: failed to print logo: %v\n", err)
	}
}

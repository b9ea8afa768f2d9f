package inventory

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/iyhunko/product-inventory/internal/client"
)

// Prompt confirms actions on a line-oriented terminal and prints alerts.
type Prompt struct {
	in        *bufio.Reader
	out       io.Writer
	alerts    io.Writer
	assumeYes bool
}

// NewPrompt creates a Prompt reading answers from in. Questions go to out and
// alerts to alerts. With assumeYes every confirmation is granted without asking.
func NewPrompt(in io.Reader, out, alerts io.Writer, assumeYes bool) *Prompt {
	return &Prompt{
		in:        bufio.NewReader(in),
		out:       out,
		alerts:    alerts,
		assumeYes: assumeYes,
	}
}

// Confirm asks a yes/no question. Anything but "y" or "yes" declines.
func (p *Prompt) Confirm(message string) bool {
	if p.assumeYes {
		return true
	}
	fmt.Fprintf(p.out, "%s [y/N]: ", message)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Alert prints the message on its own line.
func (p *Prompt) Alert(message string) {
	fmt.Fprintln(p.alerts, message)
}

// RenderTable writes the products as an aligned table with formatted prices.
func RenderTable(w io.Writer, products []client.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "No products found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION\tPRICE\tQUANTITY")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Description, client.FormatPrice(p.Price), p.Quantity)
	}
	return tw.Flush()
}

// RenderProduct writes one product as labelled lines.
func RenderProduct(w io.Writer, p client.Product) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", p.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Description:\t%s\n", p.Description)
	fmt.Fprintf(tw, "Price:\t%s\n", client.FormatPrice(p.Price))
	fmt.Fprintf(tw, "Quantity:\t%d\n", p.Quantity)
	return tw.Flush()
}

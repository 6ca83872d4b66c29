package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/financeai/internal/cli"
	"github.com/Veraticus/financeai/internal/extractor"
	"github.com/Veraticus/financeai/internal/mail"
	"github.com/spf13/cobra"
)

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file.eml|-]",
		Short: "Extract a transaction from a bank alert email",
		Long: `Read a bank alert email and print the transaction it describes.

The input is a raw RFC 822 message (an .eml file) or, with --body, plain alert
text. Use "-" or no argument to read from stdin.

Examples:
  financeai extract ~/Downloads/alert.eml
  echo "Rs. 1,250.00 debited at Swiggy" | financeai extract --body --subject "HDFC alert"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExtract,
	}

	cmd.Flags().Bool("body", false, "Treat the input as the alert text rather than a full email")
	cmd.Flags().String("subject", "", "Subject to use with --body")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	asBody, _ := cmd.Flags().GetBool("body")
	subject, _ := cmd.Flags().GetString("subject")

	raw, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	body := string(raw)
	if !asBody {
		msg, err := mail.ParseMessage(raw)
		if err != nil {
			return fmt.Errorf("failed to parse email: %w", err)
		}
		subject, body = msg.Subject, msg.Body
	}

	out := cmd.OutOrStdout()
	txn, ok := extractor.Extract(subject, body)
	if !ok {
		_, err := fmt.Fprintln(out, cli.FormatWarning("No transaction found in this email"))
		return err
	}

	_, err = fmt.Fprintln(out, cli.RenderTransaction(txn))
	return err
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return data, nil
}

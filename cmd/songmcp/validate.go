package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Print the configured contact number",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(os.Stdout, contactLine(cfg.Contact.MyNumber))
			return err
		},
	}

	return cmd
}

func contactLine(number string) string {
	if number == "" {
		return "No phone number configured"
	}
	return number
}

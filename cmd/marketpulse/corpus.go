package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func corpusCMD() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Print the assembled intelligence corpus to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cfgPath)
			if err != nil {
				return err
			}
			fmt.Println(a.assembler.Build(context.Background()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config/config.json)")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/shared/buslabel"
)

func newLabelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Convert between app ids and object path segments",
	}
	cmd.AddCommand(newLabelEncodeCommand())
	cmd.AddCommand(newLabelDecodeCommand())
	return cmd
}

func newLabelEncodeCommand() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "encode <app-id>...",
		Short: "Print the object path segment for each app id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if root != "" {
					fmt.Fprintln(cmd.OutOrStdout(), buslabel.ObjectPath(root, id))
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), buslabel.Encode(id))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Print full object paths under this root")
	return cmd
}

func newLabelDecodeCommand() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "decode <segment|path>...",
		Short: "Print the app id for each object path segment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				segment := arg
				if root != "" {
					node, ok := buslabel.Node(root, arg)
					if !ok {
						return fmt.Errorf("%s is not a child of %s", arg, root)
					}
					segment = node
				}
				if !buslabel.IsValid(segment) {
					return fmt.Errorf("%q is not a valid object path segment", segment)
				}
				id, err := buslabel.Decode(segment)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Accept full object paths under this root")
	return cmd
}

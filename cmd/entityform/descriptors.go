package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-entityform/pkg/model"
)

func newDescriptorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "descriptors",
		Short: "List the loaded descriptors",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			reg, err := loadRegistry(cfg)
			if err != nil {
				return err
			}
			return printDescriptors(cmd.OutOrStdout(), reg)
		},
	}
	cmd.AddCommand(newDescriptorsImportCmd())
	return cmd
}

func printDescriptors(w io.Writer, reg *model.Registry) error {
	for _, name := range reg.Collections() {
		desc, _ := reg.Descriptor(name)
		if _, err := fmt.Fprintf(w, "%s\t%d properties\n", name, len(desc.Properties)); err != nil {
			return err
		}
	}
	return nil
}

func newDescriptorsImportCmd() *cobra.Command {
	var schema, collection string
	cmd := &cobra.Command{
		Use:   "import <openapi-file>",
		Short: "Print a descriptor derived from an OpenAPI component schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			desc, err := model.FromOpenAPI(cmd.Context(), raw, schema, collection)
			if err != nil {
				return err
			}
			out, err := model.MarshalYAML(desc)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&schema, "schema", "", "Component schema name")
	cmd.Flags().StringVar(&collection, "collection", "", "Collection name of the descriptor")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("collection")
	return cmd
}

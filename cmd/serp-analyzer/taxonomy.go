// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/serp-analyzer/internal/classify"
	"github.com/pdiddy/serp-analyzer/internal/taxonomy"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "List the section labels and the keywords that detect them",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := taxonomy.NewRegistry()
		keywords := make(map[taxonomy.Label][]string, len(classify.DefaultRules))
		for _, r := range classify.DefaultRules {
			keywords[r.Label] = r.Keywords
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			type row struct {
				Label       taxonomy.Label    `json:"label"`
				Description string            `json:"description"`
				Category    taxonomy.Category `json:"category"`
				Keywords    []string          `json:"keywords"`
			}
			var rows []row
			for _, l := range reg.Labels() {
				desc, cat := reg.Describe(l)
				rows = append(rows, row{l, desc, cat, keywords[l]})
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}

		cats, groups := reg.ByCategory()
		for i, c := range cats {
			if i > 0 {
				fmt.Println()
			}
			fmt.Println(c)
			for _, e := range groups[c] {
				fmt.Printf("  %-18s %s\n", e.Label, e.Description)
				fmt.Printf("  %-18s keywords: %v\n", "", keywords[e.Label])
			}
		}
		return nil
	},
}

func init() {
	taxonomyCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(taxonomyCmd)
}

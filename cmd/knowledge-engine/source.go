// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaat-ai/knowledge-engine/internal/source"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Work with tracked sources",
}

var sourceVerifyCmd = &cobra.Command{
	Use:   "verify [url]",
	Short: "Run credibility verification for a source URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadedEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		name, _ := cmd.Flags().GetString("name")
		srcType, _ := cmd.Flags().GetString("type")

		result, err := e.VerifySource(args[0], source.VerifyOptions{Name: name, Type: srcType})
		if err != nil {
			return err
		}

		fmt.Printf("Verified %s\n", result.URL)
		fmt.Printf("  credibility: %.2f\n", result.CredibilityScore)
		fmt.Printf("  domain trust: %.2f, content quality: %.2f\n",
			result.Factors.DomainTrust, result.Factors.ContentQuality)
		fmt.Printf("  references: %.2f, consistency: %.2f\n",
			result.Factors.References, result.Factors.Consistency)
		return nil
	},
}

func init() {
	sourceVerifyCmd.Flags().String("name", "", "source name when first seen at verification")
	sourceVerifyCmd.Flags().String("type", "", "source type when first seen at verification")

	sourceCmd.AddCommand(sourceVerifyCmd)
	rootCmd.AddCommand(sourceCmd)
}

// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brightclass/mediaup/pkg/logger"
	"github.com/brightclass/mediaup/pkg/types"
)

func init() {
	uploadCmd.Flags().String("course", "", "Course id to group the upload under")
	rootCmd.AddCommand(uploadCmd)
}

var uploadCmd = &cobra.Command{
	Use:   "upload FILE",
	Short: "Upload a media file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient(cmd)
		course, _ := cmd.Flags().GetString("course")

		last := -1
		result, err := c.UploadFile(cmd.Context(), args[0], course, func(p types.UploadProgress) {
			// One line per percent step keeps the output readable on slow links.
			if p.Status == types.UploadUploading && p.Percent != last {
				last = p.Percent
				fmt.Printf("\ruploading... %3d%%", p.Percent)
			}
		})
		fmt.Println()
		if err != nil {
			return err
		}

		switch {
		case result.Media != nil:
			fmt.Printf("uploaded: id=%s status=%s\n", result.Media.ID, result.Media.ProcessingStatus)
		case result.MediaInfo != nil:
			fmt.Printf("uploaded via proxy: id=%s\n", result.MediaInfo.ID)
		}
		if result.CdnURL != "" {
			fmt.Printf("cdn: %s\n", result.CdnURL)
		}

		logger.Ctx(cmd.Context()).Debug().
			Str("session_key", result.SessionKey).
			Str("storage_key", result.StorageKey).
			Msg("upload done")
		return nil
	},
}

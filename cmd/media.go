// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/brightclass/mediaup/pkg/client"
	"github.com/brightclass/mediaup/pkg/types"
)

func init() {
	mediaListCmd.Flags().Int("page", 1, "Page number")
	mediaListCmd.Flags().Int("limit", 20, "Page size")
	mediaListCmd.Flags().String("type", "", "Filter by media type")
	mediaListCmd.Flags().String("status", "", "Filter by processing status")

	mediaCmd.AddCommand(mediaListCmd)
	mediaCmd.AddCommand(mediaRmCmd)
	mediaCmd.AddCommand(mediaReprocessCmd)
	mediaCmd.AddCommand(mediaAttachCmd)
	rootCmd.AddCommand(mediaCmd)
}

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Manage the user's media catalog",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var mediaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List media files",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient(cmd)
		fl := NewFlagLoader(cmd)

		files, err := c.List(cmd.Context(), client.ListFilters{
			Page:             fl.Int("page"),
			Limit:            fl.Int("limit"),
			Type:             fl.String("type"),
			ProcessingStatus: types.ProcessingStatus(fl.String("status")),
		})
		if err != nil {
			return err
		}

		for _, f := range files {
			fmt.Printf("%-36s  %-10s  %8s  %s\n",
				f.ID, f.ProcessingStatus, humanize.IBytes(uint64(f.FileSize)), f.Filename)
		}
		return nil
	},
}

var mediaRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a media file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient(cmd).Delete(cmd.Context(), args[0])
	},
}

var mediaReprocessCmd = &cobra.Command{
	Use:   "reprocess ID",
	Short: "Re-run backend processing for a media file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient(cmd).Reprocess(cmd.Context(), args[0])
	},
}

var mediaAttachCmd = &cobra.Command{
	Use:   "attach MEDIA_ID VIDEO_ID",
	Short: "Attach a media file to a course video",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient(cmd).AttachToVideo(cmd.Context(), args[0], args[1])
	},
}

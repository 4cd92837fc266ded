// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brightclass/mediaup/pkg/client"
)

var rootCmd = &cobra.Command{
	Use:   "mediaup",
	Short: "mediaup - media upload client for the Brightclass backend",
	Long: `mediaup uploads media files to the Brightclass media service.
It negotiates an upload session, sends the bytes through whichever storage
protocol the session designates, finalizes the upload into a media record
and can list or manage the user's media catalog.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().String("api_url", "http://localhost:8080", "Base URL of the media backend")
	rootCmd.PersistentFlags().String("token", "", "Bearer token (or set MEDIAUP_TOKEN)")

	viper.SetEnvPrefix("MEDIAUP")
	viper.AutomaticEnv()
	viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api_url"))
	viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
}

// newClient builds a client from flag/env configuration.
func newClient(cmd *cobra.Command) *client.Client {
	fl := NewFlagLoader(cmd)
	return client.New(fl.String("api_url"), client.WithToken(fl.String("token")))
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

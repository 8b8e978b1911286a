// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

// Package internal contains the main application logic for the CLI.
package internal

import (
	"context"
	"log/slog"
	"os"

	"github.com/sodascience/metasynth/internal/commands"
)

// Run is the main application logic, extracted for testability.
// It accepts OS dependencies as parameters (context, env lookup).
func Run(ctx context.Context, getenv func(string) string) error {
	level := slog.LevelWarn
	if getenv("METASYNTH_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	rootCmd := commands.NewRootCmd()
	return rootCmd.ExecuteContext(ctx)
}

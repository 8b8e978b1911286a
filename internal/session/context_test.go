// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sodascience/metasynth/internal/config"
	_ "github.com/sodascience/metasynth/internal/dist/builtin"
	_ "github.com/sodascience/metasynth/internal/dist/disclosure"
)

func chdirWithConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	dir := t.TempDir()
	if cfg != nil {
		require.NoError(t, cfg.Save(filepath.Join(dir, ConfigFileName)))
	}
	origDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	require.NoError(t, os.Chdir(dir))
}

func TestLoad(t *testing.T) {
	chdirWithConfig(t, &config.Config{
		Version:       1,
		DistProviders: []string{"builtin", "disclosure"},
		Privacy:       config.Privacy{Name: "disclosure", PartitionSize: 15},
		Defaults:      config.Defaults{NRows: 250},
	})

	ctx, err := Load(context.Background())
	require.NoError(t, err)

	sess := From(ctx)
	require.NotNil(t, sess)
	assert.Equal(t, []string{"builtin", "disclosure"}, sess.Config.DistProviders)
	assert.Equal(t, "disclosure", sess.Policy.Name())
	assert.Equal(t, 15, sess.Policy.FitOptions().PartitionSize)
	assert.Len(t, sess.Providers.Providers(), 2)
}

func TestLoad_NotInitialized(t *testing.T) {
	chdirWithConfig(t, nil)

	_, err := Load(context.Background())
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestLoad_InvalidConfig(t *testing.T) {
	chdirWithConfig(t, &config.Config{Version: 99})

	_, err := Load(context.Background())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_UnknownProvider(t *testing.T) {
	chdirWithConfig(t, &config.Config{Version: 1, DistProviders: []string{"imaginary"}})

	_, err := Load(context.Background())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFrom_Empty(t *testing.T) {
	assert.Nil(t, From(context.Background()))
}

func TestPreRunLoad(t *testing.T) {
	t.Run("loads session into command", func(t *testing.T) {
		chdirWithConfig(t, &config.Config{Version: 1, DistProviders: []string{"builtin"}})

		cmd := &cobra.Command{}
		cmd.SetContext(context.Background())
		require.NoError(t, PreRunLoad(cmd, nil))

		sess := FromCommand(cmd)
		require.NotNil(t, sess)
		assert.Equal(t, "none", sess.Policy.Name())
	})

	t.Run("uninitialized directory is not an error", func(t *testing.T) {
		chdirWithConfig(t, nil)

		cmd := &cobra.Command{}
		cmd.SetContext(context.Background())
		require.NoError(t, PreRunLoad(cmd, nil))
		assert.Nil(t, FromCommand(cmd))
	})

	t.Run("broken config is an error", func(t *testing.T) {
		chdirWithConfig(t, &config.Config{Version: 1, Privacy: config.Privacy{Name: "bogus"}})

		cmd := &cobra.Command{}
		cmd.SetContext(context.Background())
		assert.ErrorIs(t, PreRunLoad(cmd, nil), ErrInvalidConfig)
	})
}

/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dirpx.dev/ebx/actions"
	"dirpx.dev/ebx/apis"
	"dirpx.dev/ebx/config"
)

// newRootCmd builds the command tree. A fresh tree per call keeps tests
// independent of each other's flag state.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "ebx",
		Short:        "Inspect and validate entity broker action descriptors",
		Version:      version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(`{{printf "ebx version %s\n" .Version}}`)
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML configuration file")

	loadConfig := func() (config.File, apis.Config, error) {
		if configPath == "" {
			return config.File{}, config.DefaultConfig(), nil
		}
		f, err := config.Load(configPath)
		if err != nil {
			return config.File{}, apis.Config{}, err
		}
		return f, config.NewConfig(f.Options()...), nil
	}

	act := &cobra.Command{
		Use:   "actions",
		Short: "Work with custom action descriptor files",
	}
	act.AddCommand(newValidateCmd(loadConfig), newSchemaCmd())
	root.AddCommand(act)
	return root
}

func newValidateCmd(loadConfig func() (config.File, apis.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [FILE...]",
		Short: "Validate action descriptor files against the reserved action names",
		Long: `Validate parses each descriptor file and checks every action it declares.
Without arguments the actionFiles listed in the configuration are validated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = file.ActionFiles
			}
			if len(args) == 0 {
				return errors.New("no action files given")
			}

			log := cfg.Log()
			var failed []error
			for _, path := range args {
				n, err := validateFile(cfg, path)
				if err != nil {
					log.Debug("action file rejected", "path", path, "error", err)
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s: %v\n", path, err)
					failed = append(failed, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%d namespaces)\n", path, n)
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d of %d action files invalid: %w", len(failed), len(args), errors.Join(failed...))
			}
			return nil
		},
	}
}

// validateFile applies path to an empty registry and returns the number of
// namespaces it declares.
func validateFile(cfg apis.Config, path string) (int, error) {
	f, err := actions.LoadFile(path)
	if err != nil {
		return 0, err
	}
	reg := actions.New(cfg)
	if err := reg.Apply(f); err != nil {
		return 0, err
	}
	return len(reg.Namespaces()), nil
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of action descriptor files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := actions.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}
